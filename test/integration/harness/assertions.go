package harness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSuccess verifies the command exited 0.
func AssertSuccess(tb testing.TB, result CommandResult) {
	tb.Helper()
	assert.Equal(tb, 0, result.ExitCode,
		"Expected success, got exit %d.\nStdout: %s\nStderr: %s",
		result.ExitCode, result.Stdout, result.Stderr)
}

// AssertFailure verifies the command exited non-zero.
func AssertFailure(tb testing.TB, result CommandResult) {
	tb.Helper()
	assert.NotEqual(tb, 0, result.ExitCode,
		"Expected failure, got success.\nStdout: %s", result.Stdout)
}

// AssertStdoutContains verifies stdout contains expected.
func AssertStdoutContains(tb testing.TB, result CommandResult, expected string) {
	tb.Helper()
	assert.Contains(tb, result.Stdout, expected, "Stdout: %s", result.Stdout)
}

// AssertStderrContains verifies stderr contains expected.
func AssertStderrContains(tb testing.TB, result CommandResult, expected string) {
	tb.Helper()
	assert.Contains(tb, result.Stderr, expected, "Stderr: %s", result.Stderr)
}

// DecodeJSON requires stdout to be valid JSON and decodes it into T.
func DecodeJSON[T any](tb testing.TB, result CommandResult) T {
	tb.Helper()
	var out T
	require.NoError(tb, json.Unmarshal([]byte(result.Stdout), &out),
		"Expected valid JSON.\nStdout: %s\nStderr: %s", result.Stdout, result.Stderr)
	return out
}
