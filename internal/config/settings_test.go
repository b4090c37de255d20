package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsFrom_MissingFileIsEmpty(t *testing.T) {
	settings, err := LoadSettingsFrom(filepath.Join(t.TempDir(), "settings.json"))

	require.NoError(t, err)
	assert.Equal(t, &Settings{}, settings)
}

func TestLoadSettingsFrom_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"port": 30000,
		"allowed_origins": "https://tracker.example.com, chrome-extension://abc",
		"test_timeout_seconds": 3,
		"worktree_root": "/srv/worktrees"
	}`), 0644))

	settings, err := LoadSettingsFrom(path)

	require.NoError(t, err)
	require.NotNil(t, settings.Port)
	assert.Equal(t, 30000, *settings.Port)
	assert.Equal(t, StringArray{"https://tracker.example.com", "chrome-extension://abc"}, settings.AllowedOrigins)
	assert.Equal(t, "/srv/worktrees", settings.WorktreeRoot)
}

func TestLoadSettingsFrom_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 31000
allowed_origins:
  - https://tracker.example.com
  - moz-extension://*
git_binary: /usr/local/bin/git
`), 0644))

	settings, err := LoadSettingsFrom(path)

	require.NoError(t, err)
	require.NotNil(t, settings.Port)
	assert.Equal(t, 31000, *settings.Port)
	assert.Equal(t, StringArray{"https://tracker.example.com", "moz-extension://*"}, settings.AllowedOrigins)
	assert.Equal(t, "/usr/local/bin/git", settings.GitBinary)
}

func TestLoadSettingsFrom_YAMLCommaSeparated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("allowed_origins: a, b ,c\n"), 0644))

	settings, err := LoadSettingsFrom(path)

	require.NoError(t, err)
	assert.Equal(t, StringArray{"a", "b", "c"}, settings.AllowedOrigins)
}

func TestLoadSettingsFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"malformed json", "settings.json", `{"port":`},
		{"malformed yaml", "settings.yaml", "port: [1"},
		{"port out of range", "settings.json", `{"port": 70000}`},
		{"negative timeout", "settings.yaml", "test_timeout_seconds: -1\n"},
		{"empty origin", "settings.json", `{"allowed_origins": ["", "x"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadSettingsFrom(path)

			assert.Error(t, err)
		})
	}
}

func TestResolve_Defaults(t *testing.T) {
	cfg := Resolve(nil)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultTestTimeout, cfg.TestTimeout)
	assert.Equal(t, DefaultGitBinary, cfg.GitBinary)
	assert.Equal(t, DefaultAllowedOrigins, cfg.AllowedOrigins)
}

func TestResolve_Overrides(t *testing.T) {
	port := 4000
	timeout := 2
	cfg := Resolve(&Settings{
		AllowedOrigins:     StringArray{"https://a.example"},
		Port:               &port,
		TestTimeoutSeconds: &timeout,
		WorktreeRoot:       "/w",
	})

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.TestTimeout)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "/w", cfg.WorktreeRoot)
}

func TestGetSettingsPath_PrefersYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ISSUETREE_HOME", home)

	assert.Equal(t, filepath.Join(home, "settings.json"), GetSettingsPath())

	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.yaml"), []byte("{}"), 0644))
	assert.Equal(t, filepath.Join(home, "settings.yaml"), GetSettingsPath())
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, homeDir, ExpandPath("~"))
	assert.Equal(t, filepath.Join(homeDir, "worktrees"), ExpandPath("~/worktrees"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "", ExpandPath(""))
}

func TestGetSettingsExample_CoversAllFields(t *testing.T) {
	example := GetSettingsExample()

	for _, key := range []string{"allowed_origins", "debug", "git_binary", "max_log_files", "port", "test_timeout_seconds", "worktree_root"} {
		assert.Contains(t, example, key)
		assert.NotNil(t, example[key], key)
	}
}

func TestLive_SetAndGet(t *testing.T) {
	live := NewLive(Resolve(nil))

	cfg := live.Get()
	cfg.AllowedOrigins[0] = "mutated"
	assert.NotEqual(t, "mutated", live.AllowedOrigins()[0], "Get must return a copy")

	live.Set(ServerConfig{TestTimeout: time.Second, AllowedOrigins: []string{"x"}})
	assert.Equal(t, time.Second, live.TestTimeout())
	assert.Equal(t, []string{"x"}, live.AllowedOrigins())
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 1111}`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lastPort atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(s *Settings) {
			if s.Port != nil {
				lastPort.Store(int64(*s.Port))
			}
		})
	}()

	// Keep rewriting until the watcher has been registered and picked up a change
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(`{"port": 2222}`), 0644)
		return lastPort.Load() == 2222
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvPort, "4321")
	t.Setenv(EnvAllowedOrigins, "https://a.example, https://b.example")
	t.Setenv(EnvTestTimeoutSeconds, "7")
	t.Setenv(EnvWorktreeRoot, "/env/root")

	cfg, err := ApplyEnv(Resolve(nil))

	require.NoError(t, err)
	assert.Equal(t, 4321, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 7*time.Second, cfg.TestTimeout)
	assert.Equal(t, "/env/root", cfg.WorktreeRoot)
	assert.Equal(t, DefaultGitBinary, cfg.GitBinary)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv(EnvPort, "not-a-port")

	_, err := ApplyEnv(Resolve(nil))

	assert.ErrorContains(t, err, EnvPort)
}
