package rest

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/walletsvc"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// DataServiceMock is a testify mock of chaindata.Service.
type DataServiceMock struct{ mock.Mock }

func NewDataServiceMock(t testingT) *DataServiceMock {
	m := &DataServiceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *DataServiceMock) GetLatestBlocks(ctx context.Context, chain chainregistry.Chain) ([]chaindata.Block, error) {
	args := m.Called(ctx, chain)
	blocks, _ := args.Get(0).([]chaindata.Block)
	return blocks, args.Error(1)
}

func (m *DataServiceMock) GetTransactions(ctx context.Context, chain chainregistry.Chain, page int) ([]chaindata.Transaction, error) {
	args := m.Called(ctx, chain, page)
	txs, _ := args.Get(0).([]chaindata.Transaction)
	return txs, args.Error(1)
}

func (m *DataServiceMock) GetValidators(ctx context.Context, chain chainregistry.Chain) ([]chaindata.Validator, error) {
	args := m.Called(ctx, chain)
	validators, _ := args.Get(0).([]chaindata.Validator)
	return validators, args.Error(1)
}

func (m *DataServiceMock) GetValidatorStats(ctx context.Context, chain chainregistry.Chain) (chaindata.ValidatorStats, error) {
	args := m.Called(ctx, chain)
	stats, _ := args.Get(0).(chaindata.ValidatorStats)
	return stats, args.Error(1)
}

func (m *DataServiceMock) GetValidatorUptime(ctx context.Context, chain chainregistry.Chain, operatorAddress string) (chaindata.ValidatorUptime, error) {
	args := m.Called(ctx, chain, operatorAddress)
	uptime, _ := args.Get(0).(chaindata.ValidatorUptime)
	return uptime, args.Error(1)
}

func (m *DataServiceMock) SearchTransaction(ctx context.Context, chain chainregistry.Chain, hash string) (chaindata.Transaction, error) {
	args := m.Called(ctx, chain, hash)
	tx, _ := args.Get(0).(chaindata.Transaction)
	return tx, args.Error(1)
}

func (m *DataServiceMock) SearchAddress(ctx context.Context, chain chainregistry.Chain, address string) ([]chaindata.Balance, error) {
	args := m.Called(ctx, chain, address)
	balances, _ := args.Get(0).([]chaindata.Balance)
	return balances, args.Error(1)
}

func (m *DataServiceMock) GetChainInfo(ctx context.Context, chain chainregistry.Chain) (json.RawMessage, error) {
	args := m.Called(ctx, chain)
	info, _ := args.Get(0).(json.RawMessage)
	return info, args.Error(1)
}

func (m *DataServiceMock) GetStakingPool(ctx context.Context, chain chainregistry.Chain) (json.RawMessage, error) {
	args := m.Called(ctx, chain)
	pool, _ := args.Get(0).(json.RawMessage)
	return pool, args.Error(1)
}

func (m *DataServiceMock) Search(ctx context.Context, chain chainregistry.Chain, query string) (chaindata.SearchResult, error) {
	args := m.Called(ctx, chain, query)
	result, _ := args.Get(0).(chaindata.SearchResult)
	return result, args.Error(1)
}

func (m *DataServiceMock) GetDashboard(ctx context.Context, chain chainregistry.Chain) (chaindata.Dashboard, error) {
	args := m.Called(ctx, chain)
	dashboard, _ := args.Get(0).(chaindata.Dashboard)
	return dashboard, args.Error(1)
}

func (m *DataServiceMock) Bind(chain chainregistry.Chain) chaindata.ChainView {
	return m.Called(chain).Get(0).(chaindata.ChainView)
}

// WalletServiceMock is a testify mock of walletsvc.Service.
type WalletServiceMock struct{ mock.Mock }

func NewWalletServiceMock(t testingT) *WalletServiceMock {
	m := &WalletServiceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *WalletServiceMock) IsAvailable() bool {
	return m.Called().Bool(0)
}

func (m *WalletServiceMock) Connect(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *WalletServiceMock) Disconnect(ctx context.Context) {
	m.Called(ctx)
}

func (m *WalletServiceMock) AddChain(ctx context.Context, chain chainregistry.Chain) error {
	return m.Called(ctx, chain).Error(0)
}

func (m *WalletServiceMock) AddAllChains(ctx context.Context, chains []chainregistry.Chain) walletsvc.BulkResult {
	return m.Called(ctx, chains).Get(0).(walletsvc.BulkResult)
}

func (m *WalletServiceMock) GetBalance(ctx context.Context, chain chainregistry.Chain) ([]chaindata.Balance, error) {
	args := m.Called(ctx, chain)
	balances, _ := args.Get(0).([]chaindata.Balance)
	return balances, args.Error(1)
}

func (m *WalletServiceMock) RefreshBalance(ctx context.Context, chainIDs ...string) error {
	return m.Called(ctx, chainIDs).Error(0)
}

func (m *WalletServiceMock) WatchSelection(ctx context.Context, sel walletsvc.Selection) {
	m.Called(ctx, sel)
}

func (m *WalletServiceMock) Status() walletsvc.Status {
	return m.Called().Get(0).(walletsvc.Status)
}

func (m *WalletServiceMock) Balances() map[string][]chaindata.Balance {
	balances, _ := m.Called().Get(0).(map[string][]chaindata.Balance)
	return balances
}
