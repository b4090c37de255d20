package ports

import (
	"context"

	"github.com/renato0307/issuetree/internal/domain"
)

// RepoInspector answers read-only questions about a repository.
// Probes never fail: anything git rejects is reported as false.
type RepoInspector interface {
	BranchExists(ctx context.Context, repoPath, branchName string) bool
	IsRepository(ctx context.Context, path string) bool
	ListWorktrees(ctx context.Context, repoPath string) ([]domain.WorktreeRecord, error)
	WorktreeExists(directory string) bool
}

// WorktreeCreator runs the single mutating git invocation
type WorktreeCreator interface {
	AddWorktree(ctx context.Context, repoPath, branchName, worktreePath, baseBranch string) error
}

// BranchValidator validates and sanitizes branch names
type BranchValidator interface {
	SanitizeBranchName(name string) (string, error)
	ValidateBranchName(name string) error
}

// GitRepository is the composite interface
type GitRepository interface {
	BranchValidator
	RepoInspector
	WorktreeCreator
}
