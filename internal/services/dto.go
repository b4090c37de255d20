package services

import "time"

// ProvisionParams contains parameters for provisioning a worktree for an issue
type ProvisionParams struct {
	BaseBranch      string
	BranchName      string
	IssueID         string
	RepoPath        string
	// SkipLaunch creates the worktree without a terminal; TerminalCommand may then be empty
	SkipLaunch      bool
	TerminalCommand string
	WorktreeRoot    string
}

// ProvisionResult contains the result of provisioning.
// LaunchErr is set when the worktree was created but the terminal did not start.
type ProvisionResult struct {
	Directory string
	LaunchErr error
}

// OpenParams contains parameters for opening a terminal in an existing worktree
type OpenParams struct {
	BranchName      string
	Directory       string
	IssueID         string
	TerminalCommand string
}

// TestParams contains parameters for a capture-mode terminal command run.
// Empty fields take the test defaults.
type TestParams struct {
	BranchName      string
	Directory       string
	IssueID         string
	TerminalCommand string
	Timeout         time.Duration
}
