package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnvironment is an isolated ISSUETREE_HOME plus a worktree root.
type TestEnvironment struct {
	Home     string
	extraEnv map[string]string
}

// NewTestEnvironment creates an isolated environment under tb.TempDir().
// The temp directory is removed when the test completes.
func NewTestEnvironment(tb testing.TB) *TestEnvironment {
	tb.Helper()

	home := filepath.Join(tb.TempDir(), "home")
	if err := os.MkdirAll(home, 0755); err != nil {
		tb.Fatalf("Failed to create home directory: %v", err)
	}

	return &TestEnvironment{
		Home:     home,
		extraEnv: make(map[string]string),
	}
}

// Environ returns the process environment with every ISSUETREE_* variable
// replaced by the isolated values, followed by anything set with SetEnv.
func (e *TestEnvironment) Environ() []string {
	env := make([]string, 0, len(os.Environ())+3+len(e.extraEnv))
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "ISSUETREE_") {
			continue
		}
		if _, overridden := e.extraEnv[key]; overridden {
			continue
		}
		env = append(env, kv)
	}

	env = append(env,
		"ISSUETREE_HOME="+e.Home,
		"ISSUETREE_DEBUG=",
		"ISSUETREE_WORKTREE_ROOT="+e.WorktreesPath(),
	)
	for k, v := range e.extraEnv {
		env = append(env, k+"="+v)
	}
	return env
}

// WorktreesPath is where worktrees land when a command names no root.
func (e *TestEnvironment) WorktreesPath() string {
	return filepath.Join(filepath.Dir(e.Home), "worktrees")
}

// SettingsPath returns the JSON settings file of this environment.
func (e *TestEnvironment) SettingsPath() string {
	return filepath.Join(e.Home, "settings.json")
}

// WriteSettings writes content to the given settings file name under Home.
func (e *TestEnvironment) WriteSettings(tb testing.TB, name, content string) string {
	tb.Helper()
	path := filepath.Join(e.Home, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tb.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// SetEnv sets an additional environment variable for this environment.
func (e *TestEnvironment) SetEnv(key, value string) {
	e.extraEnv[key] = value
}
