// Package mocks provides test doubles for the Cal.com client.
package mocks

import (
	"context"

	calcom "github.com/greenline365/pregreet/pkg/calcom"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Slots provides a mock function with given fields: ctx, req
func (_m *MockClient) Slots(ctx context.Context, req calcom.SlotsRequest) (*calcom.SlotsResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Slots")
	}

	var r0 *calcom.SlotsResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, calcom.SlotsRequest) (*calcom.SlotsResponse, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, calcom.SlotsRequest) *calcom.SlotsResponse); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*calcom.SlotsResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, calcom.SlotsRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient. It also registers a
// testing interface on the mock and a cleanup function to assert the
// mocks expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
