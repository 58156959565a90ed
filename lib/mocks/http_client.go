// Package mocks holds hand-maintained test doubles. Keep them in sync with
// the interfaces they stand in for.
package mocks

import (
	"net/http"

	"github.com/stretchr/testify/mock"
)

// HttpClient is a mock type for the lib.HttpClient interface.
type HttpClient struct {
	mock.Mock
}

// Do provides a mock function with given fields: req
func (m *HttpClient) Do(req *http.Request) (*http.Response, error) {
	ret := m.Called(req)

	var r0 *http.Response
	if rf, ok := ret.Get(0).(func(*http.Request) *http.Response); ok {
		r0 = rf(req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*http.Response)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(*http.Request) error); ok {
		r1 = rf(req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
