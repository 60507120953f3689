package chaindata

import (
	"encoding/json"
	"fmt"
	"slices"

	"cosmossdk.io/math"
)

// Block is a chain-agnostic block summary.
type Block struct {
	Height   string `json:"height"`   // decimal block height
	Time     string `json:"time"`     // RFC 3339, UTC
	Hash     string `json:"hash"`     // block hash as reported by the chain
	Proposer string `json:"proposer"` // proposer address (miner on EVM chains)
	TxCount  int    `json:"txCount"`
}

// TxStatus is the outcome of a transaction.
type TxStatus string

const (
	TxSuccess TxStatus = "success"
	TxFailed  TxStatus = "failed"
)

// Transaction is a chain-agnostic transaction summary.
type Transaction struct {
	TxHash    string   `json:"txhash"`
	Height    string   `json:"height"`
	Timestamp string   `json:"timestamp"`
	Fee       string   `json:"fee"`
	Status    TxStatus `json:"status"`
	Type      string   `json:"type"`
	From      string   `json:"from"`
	To        string   `json:"to,omitempty"`
	Amount    string   `json:"amount,omitempty"`
}

// ValidatorStatus collapses the jailed flag and bond status into one value.
type ValidatorStatus string

const (
	ValidatorActive   ValidatorStatus = "active"
	ValidatorInactive ValidatorStatus = "inactive"
	ValidatorJailed   ValidatorStatus = "jailed"
)

// Validator is a normalized staking validator.
type Validator struct {
	OperatorAddress string          `json:"operatorAddress"`
	Moniker         string          `json:"moniker"`
	Identity        string          `json:"identity"`
	Website         string          `json:"website"`
	Details         string          `json:"details"`
	Commission      string          `json:"commission"`  // e.g. "5.00%"
	VotingPower     string          `json:"votingPower"` // bonded tokens in minimal denom
	Status          ValidatorStatus `json:"status"`
	Uptime          *float64        `json:"uptime"` // percent over the slashing window, nil when unknown
	Logo            string          `json:"logo,omitempty"`
}

// ValidatorStats counts validators by status.
type ValidatorStats struct {
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Jailed   int `json:"jailed"`
	Total    int `json:"total"`
}

// CountValidators derives ValidatorStats from a validator list.
func CountValidators(validators []Validator) ValidatorStats {
	stats := ValidatorStats{Total: len(validators)}
	for _, v := range validators {
		switch v.Status {
		case ValidatorActive:
			stats.Active++
		case ValidatorJailed:
			stats.Jailed++
		default:
			stats.Inactive++
		}
	}
	return stats
}

// RankByVotingPower returns a copy of validators sorted by voting power,
// highest first. Unparseable powers sort last.
func RankByVotingPower(validators []Validator) []Validator {
	power := func(v Validator) math.Int {
		n, ok := math.NewIntFromString(v.VotingPower)
		if !ok {
			return math.ZeroInt()
		}
		return n
	}

	ranked := slices.Clone(validators)
	slices.SortStableFunc(ranked, func(a, b Validator) int {
		pa, pb := power(a), power(b)
		switch {
		case pa.GT(pb):
			return -1
		case pa.LT(pb):
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// SigningRecord tells whether a validator signed the commit of one block.
type SigningRecord struct {
	Height    int64  `json:"height"`
	Signed    bool   `json:"signed"`
	Timestamp string `json:"timestamp"`
}

// UptimeGrade buckets an uptime percentage.
type UptimeGrade string

const (
	UptimeExcellent UptimeGrade = "excellent"
	UptimeGood      UptimeGrade = "good"
	UptimeFair      UptimeGrade = "fair"
	UptimePoor      UptimeGrade = "poor"
)

// GradeUptime maps a percentage to its grade.
func GradeUptime(percent float64) UptimeGrade {
	switch {
	case percent >= 99.5:
		return UptimeExcellent
	case percent >= 98:
		return UptimeGood
	case percent >= 95:
		return UptimeFair
	default:
		return UptimePoor
	}
}

// ValidatorUptime holds the most recent signing records of one validator,
// oldest first.
type ValidatorUptime struct {
	Blocks []SigningRecord `json:"blocks"`
}

// SignedCount returns the number of signed blocks.
func (u ValidatorUptime) SignedCount() int {
	n := 0
	for _, b := range u.Blocks {
		if b.Signed {
			n++
		}
	}
	return n
}

// Percent returns the share of signed blocks, 0 for an empty window.
func (u ValidatorUptime) Percent() float64 {
	if len(u.Blocks) == 0 {
		return 0
	}
	return float64(u.SignedCount()) / float64(len(u.Blocks)) * 100
}

// Grade returns the uptime grade of the window.
func (u ValidatorUptime) Grade() UptimeGrade {
	return GradeUptime(u.Percent())
}

// MarshalJSON adds the derived fields to the encoded record.
func (u ValidatorUptime) MarshalJSON() ([]byte, error) {
	blocks := u.Blocks
	if blocks == nil {
		blocks = []SigningRecord{}
	}

	return json.Marshal(struct {
		Blocks      []SigningRecord `json:"blocks"`
		SignedCount int             `json:"signedCount"`
		Percent     float64         `json:"percent"`
		Grade       UptimeGrade     `json:"grade"`
	}{blocks, u.SignedCount(), u.Percent(), u.Grade()})
}

// Balance is an amount of one denom in minimal units.
type Balance struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// StakingPool is the typed view of the staking pool passthrough.
type StakingPool struct {
	BondedTokens    string `json:"bonded_tokens"`
	NotBondedTokens string `json:"not_bonded_tokens"`
}

// ParseStakingPool decodes the raw `/cosmos/staking/v1beta1/pool` answer.
func ParseStakingPool(raw json.RawMessage) (StakingPool, error) {
	var body struct {
		Pool StakingPool `json:"pool"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return StakingPool{}, fmt.Errorf("decode staking pool: %w", err)
	}
	return body.Pool, nil
}

// BondedRatio returns bonded / (bonded + not bonded) * 100, or 0 when the
// pool is empty or unparseable.
func BondedRatio(pool StakingPool) float64 {
	bonded, ok := math.NewIntFromString(pool.BondedTokens)
	if !ok {
		bonded = math.ZeroInt()
	}
	notBonded, ok := math.NewIntFromString(pool.NotBondedTokens)
	if !ok {
		notBonded = math.ZeroInt()
	}

	total := bonded.Add(notBonded)
	if !total.IsPositive() {
		return 0
	}

	ratio, err := bonded.ToLegacyDec().Quo(total.ToLegacyDec()).MulInt64(100).Float64()
	if err != nil {
		return 0
	}
	return ratio
}

// SearchKind tells which branch of Search matched.
type SearchKind string

const (
	SearchTransaction SearchKind = "transaction"
	SearchAddress     SearchKind = "address"
)

// SearchResult is the answer to a free-form query.
type SearchResult struct {
	Kind        SearchKind   `json:"kind"`
	Transaction *Transaction `json:"transaction,omitempty"`
	Balances    []Balance    `json:"balances,omitempty"`
}

// Dashboard bundles the overview of one chain.
type Dashboard struct {
	ChainInfo      json.RawMessage `json:"chainInfo,omitempty"`
	LatestBlocks   []Block         `json:"latestBlocks"`
	TopValidators  []Validator     `json:"topValidators"`
	StakingPool    json.RawMessage `json:"stakingPool,omitempty"`
	ValidatorStats ValidatorStats  `json:"validatorStats"`
	BondedRatio    float64         `json:"bondedRatio"`
}
