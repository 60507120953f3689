package walletsvc

import (
	"strings"

	"cosmossdk.io/math"

	"github.com/WHTechno/wsxplore/internal/chaindata"
)

const (
	maxFractionDigits = 6
	minFractionDigits = 2
)

// FormatBalance renders a minimal-unit amount in display units: shifted by
// decimals, rounded half away from zero to 6 fraction digits, trailing
// zeros trimmed down to 2, thousands grouped with ",". An invalid amount
// renders as "0.00".
func FormatBalance(balance chaindata.Balance, decimals int) string {
	amount, ok := math.NewIntFromString(strings.TrimSpace(balance.Amount))
	if !ok {
		return "0.00"
	}
	decimals = max(decimals, 0)

	negative := amount.IsNegative()
	amount = amount.Abs()

	// micros is the amount expressed in units of 10^-6.
	var micros math.Int
	if decimals > maxFractionDigits {
		divisor := math.NewIntWithDecimal(1, decimals-maxFractionDigits)
		micros = amount.Quo(divisor)
		if amount.Mod(divisor).MulRaw(2).GTE(divisor) {
			micros = micros.AddRaw(1)
		}
	} else {
		micros = amount.Mul(math.NewIntWithDecimal(1, maxFractionDigits-decimals))
	}

	unit := math.NewIntWithDecimal(1, maxFractionDigits)
	whole := micros.Quo(unit).String()

	fraction := micros.Mod(unit).String()
	fraction = strings.Repeat("0", maxFractionDigits-len(fraction)) + fraction
	for len(fraction) > minFractionDigits && fraction[len(fraction)-1] == '0' {
		fraction = fraction[:len(fraction)-1]
	}

	out := groupThousands(whole) + "." + fraction
	if negative && !micros.IsZero() {
		out = "-" + out
	}
	return out
}

// groupThousands inserts "," every three digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
