package cosmos

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/pkg/logger"
)

type (
	validatorResponse struct {
		OperatorAddress string          `json:"operator_address"`
		ConsensusPubkey consensusPubKey `json:"consensus_pubkey"`
		Jailed          bool            `json:"jailed"`
		Status          string          `json:"status"`
		Tokens          string          `json:"tokens"`
		Description     struct {
			Moniker  string `json:"moniker"`
			Identity string `json:"identity"`
			Website  string `json:"website"`
			Details  string `json:"details"`
		} `json:"description"`
		Commission struct {
			CommissionRates struct {
				Rate string `json:"rate"`
			} `json:"commission_rates"`
		} `json:"commission"`
	}

	validatorsResponse struct {
		Validators []validatorResponse `json:"validators"`
	}

	signingInfosResponse struct {
		Info []struct {
			Address             string `json:"address"`
			MissedBlocksCounter string `json:"missed_blocks_counter"`
		} `json:"info"`
	}

	slashingParamsResponse struct {
		Params struct {
			SignedBlocksWindow string `json:"signed_blocks_window"`
		} `json:"params"`
	}
)

func (v validatorResponse) status() chaindata.ValidatorStatus {
	switch {
	case v.Jailed:
		return chaindata.ValidatorJailed
	case v.Status == "BOND_STATUS_BONDED":
		return chaindata.ValidatorActive
	default:
		return chaindata.ValidatorInactive
	}
}

// commission formats the rate as a percentage with two decimals.
func (v validatorResponse) commission() string {
	rate, err := strconv.ParseFloat(v.Commission.CommissionRates.Rate, 64)
	if err != nil {
		rate = 0
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}

func (v validatorResponse) toValidator() chaindata.Validator {
	moniker := v.Description.Moniker
	if moniker == "" {
		moniker = "Unknown"
	}

	power := v.Tokens
	if power == "" {
		power = "0"
	}

	return chaindata.Validator{
		OperatorAddress: v.OperatorAddress,
		Moniker:         moniker,
		Identity:        v.Description.Identity,
		Website:         v.Description.Website,
		Details:         v.Description.Details,
		Commission:      v.commission(),
		VotingPower:     power,
		Status:          v.status(),
	}
}

// Validators lists the validator set. Uptime is computed from the slashing
// module when both signing infos and params are available; otherwise it
// stays nil.
func (c *client) Validators(ctx context.Context) ([]chaindata.Validator, error) {
	var (
		g         errgroup.Group
		resp      validatorsResponse
		uptimes   map[string]float64
		uptimeErr error
	)

	g.Go(func() error {
		query := url.Values{}
		query.Set("pagination.limit", strconv.Itoa(validatorsPageSize))
		return c.get(ctx, "/cosmos/staking/v1beta1/validators", query, &resp)
	})
	g.Go(func() error {
		uptimes, uptimeErr = c.signingUptimes(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if uptimeErr != nil {
		logger.Debug(ctx, "validator uptime unavailable", "error", uptimeErr)
	}

	validators := make([]chaindata.Validator, 0, len(resp.Validators))
	for _, v := range resp.Validators {
		validator := v.toValidator()

		if addr, err := v.ConsensusPubkey.address(); err == nil {
			if uptime, ok := uptimes[hex.EncodeToString(addr)]; ok {
				validator.Uptime = &uptime
			}
		}

		validators = append(validators, validator)
	}

	return validators, nil
}

// signingUptimes returns the uptime percentage over the slashing window of
// every validator with a signing info, keyed by hex consensus address.
func (c *client) signingUptimes(ctx context.Context) (map[string]float64, error) {
	var params slashingParamsResponse
	if err := c.get(ctx, "/cosmos/slashing/v1beta1/params", nil, &params); err != nil {
		return nil, err
	}

	window, err := strconv.ParseInt(params.Params.SignedBlocksWindow, 10, 64)
	if err != nil || window <= 0 {
		return nil, fmt.Errorf("invalid signed blocks window %q", params.Params.SignedBlocksWindow)
	}

	query := url.Values{}
	query.Set("pagination.limit", strconv.Itoa(validatorsPageSize))

	var infos signingInfosResponse
	if err := c.get(ctx, "/cosmos/slashing/v1beta1/signing_infos", query, &infos); err != nil {
		return nil, err
	}

	uptimes := make(map[string]float64, len(infos.Info))
	for _, info := range infos.Info {
		addr, err := decodeBech32(info.Address)
		if err != nil {
			continue
		}

		missed, err := strconv.ParseInt(info.MissedBlocksCounter, 10, 64)
		if err != nil {
			missed = 0
		}

		uptimes[hex.EncodeToString(addr)] = max(0, (1-float64(missed)/float64(window))*100)
	}

	return uptimes, nil
}

// ValidatorUptime reads the last n commits and reports, per block, whether
// the validator's signature is present.
func (c *client) ValidatorUptime(ctx context.Context, operatorAddress string, n int) (chaindata.ValidatorUptime, error) {
	var resp struct {
		Validator validatorResponse `json:"validator"`
	}
	path := "/cosmos/staking/v1beta1/validators/" + url.PathEscape(operatorAddress)
	if err := c.get(ctx, path, nil, &resp, notFoundStatuses...); err != nil {
		return chaindata.ValidatorUptime{}, err
	}

	consensus, err := resp.Validator.ConsensusPubkey.address()
	if err != nil {
		return chaindata.ValidatorUptime{}, fmt.Errorf("%w: %w", chaindata.ErrUnsupported, err)
	}

	latest, err := c.latestBlock(ctx)
	if err != nil {
		return chaindata.ValidatorUptime{}, err
	}

	top, err := strconv.ParseInt(latest.Block.Header.Height, 10, 64)
	if err != nil {
		return chaindata.ValidatorUptime{}, fmt.Errorf("%w: invalid latest height %q", chaindata.ErrNetworkFailure, latest.Block.Header.Height)
	}

	// Block h carries the commit of h-1, so the oldest usable block is 2.
	from := max(top-int64(n)+1, 2)
	if from > top {
		return chaindata.ValidatorUptime{Blocks: []chaindata.SigningRecord{}}, nil
	}

	records := make([]chaindata.SigningRecord, top-from+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(blockFetchConcurrency)

	for height := from; height <= top; height++ {
		g.Go(func() error {
			block := latest
			if height != top {
				var err error
				if block, err = c.blockAt(gctx, height); err != nil {
					return err
				}
			}

			records[height-from] = toSigningRecord(block, consensus)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return chaindata.ValidatorUptime{}, err
	}

	return chaindata.ValidatorUptime{Blocks: records}, nil
}

func toSigningRecord(block blockResponse, consensus []byte) chaindata.SigningRecord {
	commit := block.Block.LastCommit

	height, err := strconv.ParseInt(commit.Height, 10, 64)
	if err != nil {
		height, _ = strconv.ParseInt(block.Block.Header.Height, 10, 64)
		height--
	}

	signed, ts := signedBy(commit.Signatures, consensus)
	if ts == "" || ts == "0001-01-01T00:00:00Z" {
		ts = block.Block.Header.Time
	}

	return chaindata.SigningRecord{
		Height:    height,
		Signed:    signed,
		Timestamp: rfc3339(ts),
	}
}

// Balances returns the bank balances of address.
func (c *client) Balances(ctx context.Context, address string) ([]chaindata.Balance, error) {
	var resp struct {
		Balances []coin `json:"balances"`
	}
	path := "/cosmos/bank/v1beta1/balances/" + url.PathEscape(address)
	if err := c.get(ctx, path, nil, &resp, notFoundStatuses...); err != nil {
		return nil, err
	}

	balances := make([]chaindata.Balance, len(resp.Balances))
	for i, b := range resp.Balances {
		balances[i] = chaindata.Balance{Denom: b.Denom, Amount: b.Amount}
	}

	return balances, nil
}

// NodeInfo returns the raw node_info document.
func (c *client) NodeInfo(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/cosmos/base/tendermint/v1beta1/node_info", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// StakingPool returns the raw staking pool document.
func (c *client) StakingPool(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/cosmos/staking/v1beta1/pool", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
