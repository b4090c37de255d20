//go:build !windows

package process

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/issuetree/internal/domain"
)

func TestRunWithCapture_CapturesStreams(t *testing.T) {
	l := NewLauncher()

	result, err := l.RunWithCapture(context.Background(),
		[]string{"sh", "-c", "echo out; echo err >&2"}, "", 5*time.Second)

	require.NoError(t, err)
	assert.Equal(t, "out\n", result.Stdout)
	assert.Equal(t, "err\n", result.Stderr)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, []string{"sh", "-c", "echo out; echo err >&2"}, result.Args)
}

func TestRunWithCapture_NonZeroExitIsAResult(t *testing.T) {
	l := NewLauncher()

	result, err := l.RunWithCapture(context.Background(), []string{"sh", "-c", "exit 3"}, "", 5*time.Second)

	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
}

func TestRunWithCapture_UsesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	l := NewLauncher()

	result, err := l.RunWithCapture(context.Background(), []string{"pwd"}, dir, 5*time.Second)

	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(strings.TrimSpace(result.Stdout))
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func TestRunWithCapture_ArgumentsAreNotShellInterpreted(t *testing.T) {
	l := NewLauncher()

	result, err := l.RunWithCapture(context.Background(), []string{"echo", "$HOME", "a;b"}, "", 5*time.Second)

	require.NoError(t, err)
	assert.Equal(t, "$HOME a;b\n", result.Stdout)
}

func TestRunWithCapture_Timeout(t *testing.T) {
	l := NewLauncher()

	start := time.Now()
	// The background sleep shares the process group and must die with it
	result, err := l.RunWithCapture(context.Background(),
		[]string{"sh", "-c", "sleep 30 & sleep 30"}, "", 200*time.Millisecond)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, domain.KindTimeout, domain.KindOf(err))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunWithCapture_ProgramNotFound(t *testing.T) {
	l := NewLauncher()

	_, err := l.RunWithCapture(context.Background(), []string{"issuetree-no-such-program"}, "", time.Second)

	require.Error(t, err)
	assert.Equal(t, domain.KindLaunchFailure, domain.KindOf(err))
}

func TestRunWithCapture_EmptyCommand(t *testing.T) {
	l := NewLauncher()

	_, err := l.RunWithCapture(context.Background(), nil, "", time.Second)

	assert.ErrorIs(t, err, domain.ErrEmptyCommand)
}

func TestRunWithCapture_OutputIsCapped(t *testing.T) {
	l := NewLauncher()

	result, err := l.RunWithCapture(context.Background(),
		[]string{"sh", "-c", "head -c 2000000 /dev/zero"}, "", 10*time.Second)

	require.NoError(t, err)
	assert.Len(t, result.Stdout, maxCapturedBytes)
}

func TestLaunch_ReturnsBeforeProcessExits(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "done")
	l := NewLauncher()

	start := time.Now()
	err := l.Launch(context.Background(), []string{"sh", "-c", "sleep 0.3; touch \"$0\"", marker}, "")

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 300*time.Millisecond)
	assert.Eventually(t, func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
}

func TestLaunch_SurvivesRequestCancellation(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "done")
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLauncher()

	require.NoError(t, l.Launch(ctx, []string{"sh", "-c", "sleep 0.2; touch \"$0\"", marker}, ""))
	cancel()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
}

func TestLaunch_DiscardedOutput(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "done")
	l := NewLauncher(WithDiscardedOutput())

	err := l.Launch(context.Background(), []string{"sh", "-c", "echo noise; echo more >&2; touch \"$0\"", marker}, "")

	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	err = NewLauncher(WithDiscardedOutput()).Launch(context.Background(), []string{"issuetree-no-such-program"}, "")
	assert.Equal(t, domain.KindLaunchFailure, domain.KindOf(err))
}

func TestLaunch_ProgramNotFound(t *testing.T) {
	l := NewLauncher()

	err := l.Launch(context.Background(), []string{"issuetree-no-such-program"}, "")

	require.Error(t, err)
	assert.Equal(t, domain.KindLaunchFailure, domain.KindOf(err))
}

func TestLaunch_EmptyCommand(t *testing.T) {
	l := NewLauncher()

	assert.ErrorIs(t, l.Launch(context.Background(), []string{""}, ""), domain.ErrEmptyCommand)
}

func TestLogSink_DrainsPastLimit(t *testing.T) {
	sink := &logSink{program: "test", pid: 1, limit: 2}
	input := strings.Repeat("line\n", 100)

	assert.NoError(t, sink.drain("stdout", strings.NewReader(input)))
}

func TestLogSink_LongLineIsDrained(t *testing.T) {
	sink := &logSink{program: "test", pid: 1, limit: 10}
	r := strings.NewReader(strings.Repeat("x", maxLineBytes*2))

	err := sink.drain("stdout", r)

	assert.Error(t, err)
	assert.Equal(t, 0, r.Len(), "reader must be fully consumed")
}

func TestCappedBuffer(t *testing.T) {
	b := newCappedBuffer(5)

	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, b.Truncated())

	n, err = b.Write([]byte("defgh"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "abcde", b.String())
	assert.True(t, b.Truncated())
}

func TestExecutor_Run(t *testing.T) {
	e := NewExecutor()

	stdout, stderr, err := e.Run(context.Background(), "", "sh", "-c", "echo hi; echo oops >&2; exit 1")

	require.Error(t, err)
	assert.Equal(t, "hi\n", string(stdout))
	assert.Equal(t, "oops\n", string(stderr))
}
