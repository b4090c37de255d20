package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a failure so the transport layer can map it exactly once
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindWorktreeExists
	KindBranchExists
	KindGitOperation
	KindLaunchFailure
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindWorktreeExists:
		return "worktree_exists"
	case KindBranchExists:
		return "branch_exists"
	case KindGitOperation:
		return "git_operation"
	case KindLaunchFailure:
		return "launch_failure"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Error is the error type returned by services and adapters.
// Directory is only set for KindWorktreeExists; Detail carries captured
// tool output for KindGitOperation.
type Error struct {
	Kind      ErrorKind
	Message   string
	Directory string
	Detail    string
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrEmptyCommand is returned when a terminal command template expands to nothing
var ErrEmptyCommand = &Error{
	Kind:    KindValidation,
	Message: "terminal command is empty after expansion",
}

// NewValidationError creates a user-correctable error
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewWorktreeExistsError reports a worktree already present at directory
func NewWorktreeExistsError(directory string) *Error {
	return &Error{
		Kind:      KindWorktreeExists,
		Message:   fmt.Sprintf("worktree already exists at %s", directory),
		Directory: directory,
	}
}

// NewBranchExistsError reports a branch name collision
func NewBranchExistsError(branchName string) *Error {
	return &Error{
		Kind:    KindBranchExists,
		Message: fmt.Sprintf("branch '%s' already exists", branchName),
	}
}

// NewGitOperationError wraps a failed mutating git invocation with its output
func NewGitOperationError(message, output string, err error) *Error {
	return &Error{Kind: KindGitOperation, Message: message, Detail: output, Err: err}
}

// NewLaunchError reports a process that could not be started
func NewLaunchError(message string, err error) *Error {
	return &Error{Kind: KindLaunchFailure, Message: message, Err: err}
}

// NewTimeoutError reports a captured command that did not finish in time
func NewTimeoutError(program string, timeout time.Duration) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("%s did not exit within %s and was killed", program, timeout),
	}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
