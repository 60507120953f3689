package chaindata

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/WHTechno/wsxplore/internal/chainregistry"
)

// DialerMock is a testify mock of Dialer.
type DialerMock struct{ mock.Mock }

func NewDialerMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *DialerMock {
	m := &DialerMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *DialerMock) Cosmos(chain chainregistry.Chain) CosmosSource {
	return m.Called(chain).Get(0).(CosmosSource)
}

func (m *DialerMock) EVM(chain chainregistry.Chain) BlockSource {
	return m.Called(chain).Get(0).(BlockSource)
}

// CosmosSourceMock is a testify mock of CosmosSource.
type CosmosSourceMock struct{ mock.Mock }

func NewCosmosSourceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *CosmosSourceMock {
	m := &CosmosSourceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CosmosSourceMock) LatestBlocks(ctx context.Context) ([]Block, error) {
	args := m.Called(ctx)
	blocks, _ := args.Get(0).([]Block)
	return blocks, args.Error(1)
}

func (m *CosmosSourceMock) Transactions(ctx context.Context, page int) ([]Transaction, error) {
	args := m.Called(ctx, page)
	txs, _ := args.Get(0).([]Transaction)
	return txs, args.Error(1)
}

func (m *CosmosSourceMock) Transaction(ctx context.Context, hash string) (Transaction, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(Transaction), args.Error(1)
}

func (m *CosmosSourceMock) Validators(ctx context.Context) ([]Validator, error) {
	args := m.Called(ctx)
	validators, _ := args.Get(0).([]Validator)
	return validators, args.Error(1)
}

func (m *CosmosSourceMock) ValidatorUptime(ctx context.Context, operatorAddress string, n int) (ValidatorUptime, error) {
	args := m.Called(ctx, operatorAddress, n)
	return args.Get(0).(ValidatorUptime), args.Error(1)
}

func (m *CosmosSourceMock) Balances(ctx context.Context, address string) ([]Balance, error) {
	args := m.Called(ctx, address)
	balances, _ := args.Get(0).([]Balance)
	return balances, args.Error(1)
}

func (m *CosmosSourceMock) NodeInfo(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *CosmosSourceMock) StakingPool(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// BlockSourceMock is a testify mock of BlockSource.
type BlockSourceMock struct{ mock.Mock }

func NewBlockSourceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *BlockSourceMock {
	m := &BlockSourceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *BlockSourceMock) LatestBlocks(ctx context.Context) ([]Block, error) {
	args := m.Called(ctx)
	blocks, _ := args.Get(0).([]Block)
	return blocks, args.Error(1)
}

func (m *BlockSourceMock) Transactions(ctx context.Context, page int) ([]Transaction, error) {
	args := m.Called(ctx, page)
	txs, _ := args.Get(0).([]Transaction)
	return txs, args.Error(1)
}

func (m *BlockSourceMock) Transaction(ctx context.Context, hash string) (Transaction, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(Transaction), args.Error(1)
}

// IdentityResolverMock is a testify mock of IdentityResolver.
type IdentityResolverMock struct{ mock.Mock }

func NewIdentityResolverMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *IdentityResolverMock {
	m := &IdentityResolverMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *IdentityResolverMock) Logo(ctx context.Context, identity string) (string, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Error(1)
}
