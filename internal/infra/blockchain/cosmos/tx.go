package cosmos

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/WHTechno/wsxplore/internal/chaindata"
)

type (
	// coin is an sdk.Coin in its JSON form.
	coin struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	}

	// txBody is the part of a decoded Tx the explorer reads.
	txBody struct {
		Body struct {
			Messages []struct {
				Type string `json:"@type"`
			} `json:"messages"`
		} `json:"body"`
		AuthInfo struct {
			Fee struct {
				Amount []coin `json:"amount"`
			} `json:"fee"`
		} `json:"auth_info"`
	}

	// txResponse is an abci TxResponse.
	txResponse struct {
		TxHash    string          `json:"txhash"`
		Height    string          `json:"height"`
		Code      json.RawMessage `json:"code"`
		Timestamp string          `json:"timestamp"`
		Tx        *txBody         `json:"tx"`
	}

	txsResponse struct {
		Txs         []txBody     `json:"txs"`
		TxResponses []txResponse `json:"tx_responses"`
	}

	txByHashResponse struct {
		Tx         *txBody    `json:"tx"`
		TxResponse txResponse `json:"tx_response"`
	}
)

// succeeded reports whether the result code is zero. The code may be
// encoded as a number or a string; a missing code means success.
func (r txResponse) succeeded() bool {
	code := string(bytes.Trim(bytes.TrimSpace(r.Code), `"`))
	return code == "" || code == "0"
}

// messageType returns the last dotted segment of the first message type.
func (t *txBody) messageType() string {
	if t == nil || len(t.Body.Messages) == 0 || t.Body.Messages[0].Type == "" {
		return "unknown"
	}

	parts := strings.Split(t.Body.Messages[0].Type, ".")
	return parts[len(parts)-1]
}

// fee returns the first fee coin amount.
func (t *txBody) fee() string {
	if t == nil || len(t.AuthInfo.Fee.Amount) == 0 || t.AuthInfo.Fee.Amount[0].Amount == "" {
		return "0"
	}
	return t.AuthInfo.Fee.Amount[0].Amount
}

func toTransaction(resp txResponse, body *txBody) chaindata.Transaction {
	if body == nil {
		body = resp.Tx
	}

	status := chaindata.TxFailed
	if resp.succeeded() {
		status = chaindata.TxSuccess
	}

	height := resp.Height
	if height == "" {
		height = "0"
	}

	return chaindata.Transaction{
		TxHash:    resp.TxHash,
		Height:    height,
		Timestamp: rfc3339(resp.Timestamp),
		Fee:       body.fee(),
		Status:    status,
		Type:      body.messageType(),
		From:      "N/A",
		Amount:    "0",
	}
}

// Transactions returns one page of transactions, newest first.
func (c *client) Transactions(ctx context.Context, page int) ([]chaindata.Transaction, error) {
	page = min(max(page, 1), maxTransactionsPage)

	query := url.Values{}
	query.Set("pagination.limit", strconv.Itoa(transactionsPageSize))
	query.Set("pagination.offset", strconv.Itoa((page-1)*transactionsPageSize))
	query.Set("order_by", "2")

	var resp txsResponse
	if err := c.get(ctx, "/cosmos/tx/v1beta1/txs", query, &resp); err != nil {
		return nil, err
	}

	txs := make([]chaindata.Transaction, 0, len(resp.TxResponses))
	for i, r := range resp.TxResponses {
		var body *txBody
		if i < len(resp.Txs) {
			body = &resp.Txs[i]
		}
		txs = append(txs, toTransaction(r, body))
	}

	return txs, nil
}

// Transaction looks a transaction up by its (case-insensitive) hash.
func (c *client) Transaction(ctx context.Context, hash string) (chaindata.Transaction, error) {
	input := strings.TrimSpace(hash)
	hash = strings.TrimPrefix(strings.ToLower(input), "0x")

	var resp txByHashResponse
	if err := c.get(ctx, "/cosmos/tx/v1beta1/txs/"+url.PathEscape(hash), nil, &resp, http.StatusNotFound); err != nil {
		return chaindata.Transaction{}, err
	}

	tx := toTransaction(resp.TxResponse, resp.Tx)
	if tx.TxHash == "" {
		tx.TxHash = input
	}

	return tx, nil
}
