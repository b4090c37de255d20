package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/ports"
)

// MockGitRepository is a testify mock of ports.GitRepository
type MockGitRepository struct {
	mock.Mock
}

var _ ports.GitRepository = (*MockGitRepository)(nil)

// NewMockGitRepository creates a mock whose expectations are asserted on cleanup
func NewMockGitRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGitRepository {
	m := &MockGitRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockGitRepositoryExpecter records expectations with typed arguments
type MockGitRepositoryExpecter struct {
	mock *mock.Mock
}

func (m *MockGitRepository) EXPECT() *MockGitRepositoryExpecter {
	return &MockGitRepositoryExpecter{mock: &m.Mock}
}

func (m *MockGitRepository) AddWorktree(ctx context.Context, repoPath, branchName, worktreePath, baseBranch string) error {
	args := m.Called(ctx, repoPath, branchName, worktreePath, baseBranch)
	return args.Error(0)
}

func (e *MockGitRepositoryExpecter) AddWorktree(ctx, repoPath, branchName, worktreePath, baseBranch any) *mock.Call {
	return e.mock.On("AddWorktree", ctx, repoPath, branchName, worktreePath, baseBranch)
}

func (m *MockGitRepository) BranchExists(ctx context.Context, repoPath, branchName string) bool {
	args := m.Called(ctx, repoPath, branchName)
	return args.Bool(0)
}

func (e *MockGitRepositoryExpecter) BranchExists(ctx, repoPath, branchName any) *mock.Call {
	return e.mock.On("BranchExists", ctx, repoPath, branchName)
}

func (m *MockGitRepository) IsRepository(ctx context.Context, path string) bool {
	args := m.Called(ctx, path)
	return args.Bool(0)
}

func (e *MockGitRepositoryExpecter) IsRepository(ctx, path any) *mock.Call {
	return e.mock.On("IsRepository", ctx, path)
}

func (m *MockGitRepository) ListWorktrees(ctx context.Context, repoPath string) ([]domain.WorktreeRecord, error) {
	args := m.Called(ctx, repoPath)
	records, _ := args.Get(0).([]domain.WorktreeRecord)
	return records, args.Error(1)
}

func (e *MockGitRepositoryExpecter) ListWorktrees(ctx, repoPath any) *mock.Call {
	return e.mock.On("ListWorktrees", ctx, repoPath)
}

func (m *MockGitRepository) WorktreeExists(directory string) bool {
	args := m.Called(directory)
	return args.Bool(0)
}

func (e *MockGitRepositoryExpecter) WorktreeExists(directory any) *mock.Call {
	return e.mock.On("WorktreeExists", directory)
}

func (m *MockGitRepository) SanitizeBranchName(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (e *MockGitRepositoryExpecter) SanitizeBranchName(name any) *mock.Call {
	return e.mock.On("SanitizeBranchName", name)
}

func (m *MockGitRepository) ValidateBranchName(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (e *MockGitRepositoryExpecter) ValidateBranchName(name any) *mock.Call {
	return e.mock.On("ValidateBranchName", name)
}
