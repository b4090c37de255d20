package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"validation", NewValidationError("missing %s", "repoPath"), KindValidation},
		{"worktree exists", NewWorktreeExistsError("/w/repo/b"), KindWorktreeExists},
		{"branch exists", NewBranchExistsError("b"), KindBranchExists},
		{"git operation", NewGitOperationError("git worktree add failed", "fatal: boom", nil), KindGitOperation},
		{"launch failure", NewLaunchError("failed to start kitty", errors.New("not found")), KindLaunchFailure},
		{"timeout", NewTimeoutError("sleep", time.Second), KindTimeout},
		{"wrapped", fmt.Errorf("outer: %w", NewBranchExistsError("b")), KindBranchExists},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestError_Message(t *testing.T) {
	cause := errors.New("exit status 128")

	assert.Equal(t, "git worktree add failed: fatal: invalid reference: nope",
		NewGitOperationError("git worktree add failed", "fatal: invalid reference: nope", cause).Error())
	assert.Equal(t, "failed to start kitty: exit status 128",
		NewLaunchError("failed to start kitty", cause).Error())
	assert.Equal(t, "base branch 'main' does not exist",
		NewValidationError("base branch '%s' does not exist", "main").Error())
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("exec: \"kitty\": executable file not found in $PATH")

	err := NewLaunchError("failed to start kitty", cause)

	assert.ErrorIs(t, err, cause)
}

func TestWorktreeExistsError_CarriesDirectory(t *testing.T) {
	err := NewWorktreeExistsError("/w/repo/Q-3")

	var domainErr *Error
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "/w/repo/Q-3", domainErr.Directory)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "timeout", KindTimeout.String())
	assert.Equal(t, "internal", ErrorKind(99).String())
}
