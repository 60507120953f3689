package ethereum

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// ClientMock is a mock type for the jsonrpc.Client type.
type ClientMock struct {
	mock.Mock
}

// Fetch provides a mock function with given fields: ctx, method, params
func (m *ClientMock) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	args := m.Called(append([]any{ctx, method}, params...)...)

	var r0 json.RawMessage
	if rf, ok := args.Get(0).(func(context.Context, string, ...any) json.RawMessage); ok {
		r0 = rf(ctx, method, params...)
	} else if args.Get(0) != nil {
		r0 = args.Get(0).(json.RawMessage)
	}

	return r0, args.Error(1)
}

// NewClientMock creates a new instance of ClientMock. It also registers a
// cleanup function to assert the mocks expectations.
func NewClientMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *ClientMock {
	m := &ClientMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
