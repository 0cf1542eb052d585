// Package mocks provides test doubles for the store.
package mocks

import (
	"context"

	model "github.com/greenline365/pregreet/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockStore is a mock type for the Store interface.
type MockStore struct {
	mock.Mock
}

// TenantByID provides a mock function with given fields: ctx, id
func (_m *MockStore) TenantByID(ctx context.Context, id string) (*model.Tenant, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for TenantByID")
	}

	var r0 *model.Tenant
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.Tenant, error)); ok {
		return rf(ctx, id)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Tenant)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// TenantByPhone provides a mock function with given fields: ctx, digits
func (_m *MockStore) TenantByPhone(ctx context.Context, digits string) (*model.Tenant, error) {
	ret := _m.Called(ctx, digits)

	if len(ret) == 0 {
		panic("no return value specified for TenantByPhone")
	}

	var r0 *model.Tenant
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.Tenant, error)); ok {
		return rf(ctx, digits)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Tenant)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// FirstActiveTenant provides a mock function with given fields: ctx
func (_m *MockStore) FirstActiveTenant(ctx context.Context) (*model.Tenant, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for FirstActiveTenant")
	}

	var r0 *model.Tenant
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (*model.Tenant, error)); ok {
		return rf(ctx)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Tenant)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// ContactByPhone provides a mock function with given fields: ctx, tenantID, phone
func (_m *MockStore) ContactByPhone(ctx context.Context, tenantID string, phone string) (*model.Contact, error) {
	ret := _m.Called(ctx, tenantID, phone)

	if len(ret) == 0 {
		panic("no return value specified for ContactByPhone")
	}

	var r0 *model.Contact
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*model.Contact, error)); ok {
		return rf(ctx, tenantID, phone)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Contact)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// PropertyByID provides a mock function with given fields: ctx, id
func (_m *MockStore) PropertyByID(ctx context.Context, id string) (*model.Property, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for PropertyByID")
	}

	var r0 *model.Property
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.Property, error)); ok {
		return rf(ctx, id)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Property)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// ActiveAssets provides a mock function with given fields: ctx, propertyID
func (_m *MockStore) ActiveAssets(ctx context.Context, propertyID string) ([]model.Asset, error) {
	ret := _m.Called(ctx, propertyID)

	if len(ret) == 0 {
		panic("no return value specified for ActiveAssets")
	}

	var r0 []model.Asset
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]model.Asset, error)); ok {
		return rf(ctx, propertyID)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Asset)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// LastInteraction provides a mock function with given fields: ctx, contactID
func (_m *MockStore) LastInteraction(ctx context.Context, contactID string) (*model.Interaction, error) {
	ret := _m.Called(ctx, contactID)

	if len(ret) == 0 {
		panic("no return value specified for LastInteraction")
	}

	var r0 *model.Interaction
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.Interaction, error)); ok {
		return rf(ctx, contactID)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Interaction)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// Ping provides a mock function with given fields: ctx
func (_m *MockStore) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Ping")
	}

	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}
	return ret.Error(0)
}

// Migrate provides a mock function with given fields: ctx
func (_m *MockStore) Migrate(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Migrate")
	}

	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}
	return ret.Error(0)
}

// Close provides a mock function with given fields:
func (_m *MockStore) Close() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	if rf, ok := ret.Get(0).(func() error); ok {
		return rf()
	}
	return ret.Error(0)
}

// NewMockStore creates a new instance of MockStore. It also registers a
// testing interface on the mock and a cleanup function to assert the
// mocks expectations.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	mock := &MockStore{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
