package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/WHTechno/wsxplore/internal/chaindata"
)

type (
	// commitSignature is one entry of a block's last_commit.
	commitSignature struct {
		BlockIDFlag      string `json:"block_id_flag"`
		ValidatorAddress []byte `json:"validator_address"` // base64 in the gateway JSON
		Timestamp        string `json:"timestamp"`
	}

	// blockResponse is the answer of the tendermint blocks endpoints.
	blockResponse struct {
		BlockID struct {
			Hash string `json:"hash"`
		} `json:"block_id"`
		Block struct {
			Header struct {
				Height          string `json:"height"`
				Time            string `json:"time"`
				ProposerAddress string `json:"proposer_address"`
			} `json:"header"`
			Data struct {
				Txs []json.RawMessage `json:"txs"`
			} `json:"data"`
			LastCommit struct {
				Height     string            `json:"height"`
				Signatures []commitSignature `json:"signatures"`
			} `json:"last_commit"`
		} `json:"block"`
	}
)

// rfc3339 reformats an upstream timestamp as RFC 3339 UTC. Unparseable
// values are returned unchanged.
func rfc3339(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.UTC().Format(time.RFC3339)
}

func (b blockResponse) toBlock() chaindata.Block {
	return chaindata.Block{
		Height:   b.Block.Header.Height,
		Time:     rfc3339(b.Block.Header.Time),
		Hash:     b.BlockID.Hash,
		Proposer: b.Block.Header.ProposerAddress,
		TxCount:  len(b.Block.Data.Txs),
	}
}

func (c *client) latestBlock(ctx context.Context) (blockResponse, error) {
	var resp blockResponse
	if err := c.get(ctx, "/cosmos/base/tendermint/v1beta1/blocks/latest", nil, &resp); err != nil {
		return blockResponse{}, err
	}
	return resp, nil
}

func (c *client) blockAt(ctx context.Context, height int64) (blockResponse, error) {
	var resp blockResponse
	path := "/cosmos/base/tendermint/v1beta1/blocks/" + strconv.FormatInt(height, 10)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return blockResponse{}, err
	}
	return resp, nil
}

// LatestBlocks returns the single latest block.
func (c *client) LatestBlocks(ctx context.Context) ([]chaindata.Block, error) {
	resp, err := c.latestBlock(ctx)
	if err != nil {
		return nil, err
	}

	if resp.Block.Header.Height == "" {
		return nil, fmt.Errorf("%w: latest block without header", chaindata.ErrNetworkFailure)
	}

	return []chaindata.Block{resp.toBlock()}, nil
}
