package harness

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestRepo is a throwaway repository with one commit on main.
type TestRepo struct {
	Path string
	tb   testing.TB
}

// NewTestRepo creates a repository named name under tb.TempDir().
// The name matters: it becomes the middle segment of worktree paths.
//
//	tb.TempDir()/
//	└── <name>/       <- git init, README.md committed on main
func NewTestRepo(tb testing.TB, name string) *TestRepo {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.MkdirAll(path, 0755); err != nil {
		tb.Fatalf("Failed to create repo directory: %v", err)
	}

	RunGitCommand(tb, path, "init")
	RunGitCommand(tb, path, "config", "user.email", "test@example.com")
	RunGitCommand(tb, path, "config", "user.name", "Test User")

	if err := os.WriteFile(filepath.Join(path, "README.md"), []byte("# Test Repo\n"), 0644); err != nil {
		tb.Fatalf("Failed to create README: %v", err)
	}
	RunGitCommand(tb, path, "add", "README.md")
	RunGitCommand(tb, path, "commit", "-m", "Initial commit")

	// Ensure branch is named "main" (git might default to "master")
	RunGitCommand(tb, path, "branch", "-M", "main")

	return &TestRepo{Path: path, tb: tb}
}

// CreateBranch creates a branch off the current HEAD.
func (r *TestRepo) CreateBranch(name string) {
	r.tb.Helper()
	RunGitCommand(r.tb, r.Path, "branch", name)
}

// HasBranch reports whether the local branch name exists.
func (r *TestRepo) HasBranch(name string) bool {
	r.tb.Helper()
	cmd := exec.Command("git", "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	cmd.Dir = r.Path
	return cmd.Run() == nil
}

// RunGitCommand executes a git command in dir and fails the test on error.
func RunGitCommand(tb testing.TB, dir string, args ...string) {
	tb.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@example.com",
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		tb.Fatalf("git %v failed in %s: %v\nOutput: %s", args, dir, err, output)
	}
}
