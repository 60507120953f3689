package ethereum

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/sync/errgroup"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/pkg/logger"
	"github.com/WHTechno/wsxplore/internal/pkg/transport/jsonrpc"
	"github.com/WHTechno/wsxplore/internal/pkg/types"
)

// latestBlocksWindow is the number of blocks returned by LatestBlocks.
const latestBlocksWindow = 10

type (
	// transactionResponse is the subset of an eth transaction object the
	// explorer reads.
	transactionResponse struct {
		Hash        string     `json:"hash"`
		BlockNumber *types.Hex `json:"blockNumber"` // null while pending
		From        string     `json:"from"`
		To          string     `json:"to"` // null for contract creation
		Value       string     `json:"value"`
	}

	// blockHeaderResponse is a block fetched without transaction objects.
	blockHeaderResponse struct {
		Timestamp types.Hex `json:"timestamp"`
	}

	// blockResponse is a block fetched with full transaction objects.
	blockResponse struct {
		Hash         string                `json:"hash"`
		Miner        string                `json:"miner"`
		Number       types.Hex             `json:"number"`
		Timestamp    types.Hex             `json:"timestamp"`
		Transactions []transactionResponse `json:"transactions"`
	}
)

// unixTime formats a quantity of seconds as RFC 3339 UTC.
func unixTime(ts types.Hex) string {
	return time.Unix(int64(ts.Uint64()), 0).UTC().Format(time.RFC3339)
}

// weiDecimal decodes a hex wei value into a decimal string, "0" when invalid.
func weiDecimal(value string) string {
	v, err := hexutil.DecodeBig(value)
	if err != nil {
		return "0"
	}
	return v.String()
}

func (b blockResponse) toBlock() chaindata.Block {
	return chaindata.Block{
		Height:   b.Number.Decimal(),
		Time:     unixTime(b.Timestamp),
		Hash:     b.Hash,
		Proposer: b.Miner,
		TxCount:  len(b.Transactions),
	}
}

// toTransaction converts t; timestamp is the including block's time, if known.
func (t transactionResponse) toTransaction(timestamp string) chaindata.Transaction {
	height := "0"
	if t.BlockNumber != nil {
		height = t.BlockNumber.Decimal()
	}

	return chaindata.Transaction{
		TxHash:    t.Hash,
		Height:    height,
		Timestamp: timestamp,
		Fee:       "0",
		Status:    chaindata.TxSuccess,
		Type:      "EVM",
		From:      t.From,
		To:        t.To,
		Amount:    weiDecimal(t.Value),
	}
}

// latestBlockNumber fetches the latest block number from the node.
func (c *client) latestBlockNumber(ctx context.Context) (types.Hex, error) {
	var number types.Hex
	if err := jsonrpc.FetchInto(ctx, c.conn, &number, "eth_blockNumber"); err != nil {
		return "", err
	}
	return number, nil
}

// blockByNumber retrieves a full block. A null answer is retried according
// to the client's retry policy and then reported as a network failure.
func (c *client) blockByNumber(ctx context.Context, number types.Hex) (blockResponse, error) {
	var block blockResponse
	err := c.retry.Execute(ctx, func() error {
		return jsonrpc.FetchInto(ctx, c.conn, &block, "eth_getBlockByNumber", number, true)
	})
	if err != nil {
		if isNullResult(err) {
			return blockResponse{}, fmt.Errorf("%w: block %s not available: %w", chaindata.ErrNetworkFailure, number.Decimal(), err)
		}
		return blockResponse{}, err
	}

	return block, nil
}

// LatestBlocks returns the latest ten blocks, highest first. Near genesis the
// window is clipped at block zero.
func (c *client) LatestBlocks(ctx context.Context) ([]chaindata.Block, error) {
	latest, err := c.latestBlockNumber(ctx)
	if err != nil {
		return nil, err
	}

	top := latest.Uint64()
	count := min(uint64(latestBlocksWindow), top+1)
	blocks := make([]chaindata.Block, count)

	g, gctx := errgroup.WithContext(ctx)
	for i := range count {
		g.Go(func() error {
			block, err := c.blockByNumber(gctx, types.HexFromUint64(top-i))
			if err != nil {
				return err
			}

			blocks[i] = block.toBlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return blocks, nil
}

// Transactions returns the transactions of the latest block. EVM nodes have
// no transaction index, so only the first page exists.
func (c *client) Transactions(ctx context.Context, page int) ([]chaindata.Transaction, error) {
	if page > 1 {
		return nil, fmt.Errorf("%w: page %d", chaindata.ErrPaginationUnsupported, page)
	}

	latest, err := c.latestBlockNumber(ctx)
	if err != nil {
		return nil, err
	}

	block, err := c.blockByNumber(ctx, latest)
	if err != nil {
		return nil, err
	}

	timestamp := unixTime(block.Timestamp)
	txs := make([]chaindata.Transaction, len(block.Transactions))
	for i, tx := range block.Transactions {
		txs[i] = tx.toTransaction(timestamp)
	}

	return txs, nil
}

// Transaction looks a transaction up by hash. The timestamp is read from the
// including block and left empty when that lookup fails.
func (c *client) Transaction(ctx context.Context, hash string) (chaindata.Transaction, error) {
	hash = strings.TrimSpace(hash)
	if !strings.HasPrefix(hash, "0x") && !strings.HasPrefix(hash, "0X") {
		hash = "0x" + hash
	}

	var tx transactionResponse
	if err := jsonrpc.FetchInto(ctx, c.conn, &tx, "eth_getTransactionByHash", hash); err != nil {
		if errors.Is(err, jsonrpc.ErrNullResult) {
			return chaindata.Transaction{}, fmt.Errorf("%w: transaction %s", chaindata.ErrNotFound, hash)
		}
		return chaindata.Transaction{}, err
	}

	var timestamp string
	if tx.BlockNumber != nil {
		var header blockHeaderResponse
		if err := jsonrpc.FetchInto(ctx, c.conn, &header, "eth_getBlockByNumber", *tx.BlockNumber, false); err != nil {
			logger.Debug(ctx, "transaction block unavailable", "hash", hash, "error", err)
		} else {
			timestamp = unixTime(header.Timestamp)
		}
	}

	return tx.toTransaction(timestamp), nil
}
