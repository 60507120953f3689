package walletsvc

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
)

// ProviderMock is a testify mock of Provider.
type ProviderMock struct{ mock.Mock }

func NewProviderMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProviderMock {
	m := &ProviderMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ProviderMock) Enable(ctx context.Context, chainID string) error {
	return m.Called(ctx, chainID).Error(0)
}

func (m *ProviderMock) Accounts(ctx context.Context, chainID string) ([]Account, error) {
	args := m.Called(ctx, chainID)
	accounts, _ := args.Get(0).([]Account)
	return accounts, args.Error(1)
}

func (m *ProviderMock) SuggestChain(ctx context.Context, info ChainInfo) error {
	return m.Called(ctx, info).Error(0)
}

func (m *ProviderMock) Disconnect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// BalanceReaderMock is a testify mock of BalanceReader.
type BalanceReaderMock struct{ mock.Mock }

func NewBalanceReaderMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *BalanceReaderMock {
	m := &BalanceReaderMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *BalanceReaderMock) SearchAddress(ctx context.Context, chain chainregistry.Chain, address string) ([]chaindata.Balance, error) {
	args := m.Called(ctx, chain, address)
	balances, _ := args.Get(0).([]chaindata.Balance)
	return balances, args.Error(1)
}
