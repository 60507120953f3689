package types

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Hex is an EVM JSON-RPC quantity: a 0x-prefixed hexadecimal number
// encoded as a string (e.g., "0x1a").
type Hex string

// HexFromUint64 encodes n as a canonical quantity ("0x0", "0x1a", ...).
func HexFromUint64(n uint64) Hex {
	return Hex(hexutil.EncodeUint64(n))
}

// HexFromString validates the input string and returns a Hex value if valid.
func HexFromString(s string) (Hex, error) {
	if _, err := hexutil.DecodeUint64(s); err != nil {
		return "", fmt.Errorf("invalid hexadecimal value %q: %w", s, err)
	}
	return Hex(s), nil
}

// MarshalJSON encodes the Hex as a JSON string.
func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

// UnmarshalJSON parses and validates a JSON-encoded quantity.
func (h *Hex) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}

	v, err := HexFromString(s)
	if err != nil {
		return err
	}

	*h = v
	return nil
}

// Uint64 returns the decoded value, or zero if h is not a valid quantity.
func (h Hex) Uint64() uint64 {
	v, _ := hexutil.DecodeUint64(string(h))
	return v
}

// Decimal returns the value as a base-10 string ("26" for "0x1a").
func (h Hex) Decimal() string {
	return strconv.FormatUint(h.Uint64(), 10)
}
