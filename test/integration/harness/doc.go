// Package harness provides utilities for integration testing the issuetree CLI.
// It handles binary compilation, environment isolation, throwaway git
// repositories and running the HTTP service in the background.
//
// Environment variables managed:
//   - ISSUETREE_HOME: Isolated per test (temp directory)
//   - ISSUETREE_WORKTREE_ROOT: Points at the per-test worktrees directory
//   - ISSUETREE_DEBUG: Disabled to reduce noise
package harness
