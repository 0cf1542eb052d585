// Package mocks provides test doubles for the OpenWeather client.
package mocks

import (
	"context"

	openweather "github.com/greenline365/pregreet/pkg/openweather"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// GeocodeZip provides a mock function with given fields: ctx, zip, country
func (_m *MockClient) GeocodeZip(ctx context.Context, zip string, country string) (*openweather.Location, error) {
	ret := _m.Called(ctx, zip, country)

	if len(ret) == 0 {
		panic("no return value specified for GeocodeZip")
	}

	var r0 *openweather.Location
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*openweather.Location, error)); ok {
		return rf(ctx, zip, country)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*openweather.Location)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// Current provides a mock function with given fields: ctx, lat, lon
func (_m *MockClient) Current(ctx context.Context, lat float64, lon float64) (*openweather.CurrentResponse, error) {
	ret := _m.Called(ctx, lat, lon)

	if len(ret) == 0 {
		panic("no return value specified for Current")
	}

	var r0 *openweather.CurrentResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64) (*openweather.CurrentResponse, error)); ok {
		return rf(ctx, lat, lon)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*openweather.CurrentResponse)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// Forecast provides a mock function with given fields: ctx, lat, lon
func (_m *MockClient) Forecast(ctx context.Context, lat float64, lon float64) (*openweather.ForecastResponse, error) {
	ret := _m.Called(ctx, lat, lon)

	if len(ret) == 0 {
		panic("no return value specified for Forecast")
	}

	var r0 *openweather.ForecastResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64) (*openweather.ForecastResponse, error)); ok {
		return rf(ctx, lat, lon)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*openweather.ForecastResponse)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// Alerts provides a mock function with given fields: ctx, lat, lon
func (_m *MockClient) Alerts(ctx context.Context, lat float64, lon float64) ([]openweather.Alert, error) {
	ret := _m.Called(ctx, lat, lon)

	if len(ret) == 0 {
		panic("no return value specified for Alerts")
	}

	var r0 []openweather.Alert
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64) ([]openweather.Alert, error)); ok {
		return rf(ctx, lat, lon)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]openweather.Alert)
	}
	r1 = ret.Error(1)

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
