package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/ports"
)

// MockProcessLauncher is a testify mock of ports.ProcessLauncher
type MockProcessLauncher struct {
	mock.Mock
}

var _ ports.ProcessLauncher = (*MockProcessLauncher)(nil)

// NewMockProcessLauncher creates a mock whose expectations are asserted on cleanup
func NewMockProcessLauncher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProcessLauncher {
	m := &MockProcessLauncher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockProcessLauncherExpecter records expectations with typed arguments
type MockProcessLauncherExpecter struct {
	mock *mock.Mock
}

func (m *MockProcessLauncher) EXPECT() *MockProcessLauncherExpecter {
	return &MockProcessLauncherExpecter{mock: &m.Mock}
}

func (m *MockProcessLauncher) Launch(ctx context.Context, args []string, dir string) error {
	ret := m.Called(ctx, args, dir)
	return ret.Error(0)
}

func (e *MockProcessLauncherExpecter) Launch(ctx, args, dir any) *mock.Call {
	return e.mock.On("Launch", ctx, args, dir)
}

func (m *MockProcessLauncher) RunWithCapture(ctx context.Context, args []string, dir string, timeout time.Duration) (*domain.CommandResult, error) {
	ret := m.Called(ctx, args, dir, timeout)
	result, _ := ret.Get(0).(*domain.CommandResult)
	return result, ret.Error(1)
}

func (e *MockProcessLauncherExpecter) RunWithCapture(ctx, args, dir, timeout any) *mock.Call {
	return e.mock.On("RunWithCapture", ctx, args, dir, timeout)
}
