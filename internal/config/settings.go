package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Defaults used when neither flags, environment nor the settings file say otherwise
const (
	DefaultPort        = 21547
	DefaultTestTimeout = 10 * time.Second
	DefaultGitBinary   = "git"
	DefaultWorktreeDir = "~/worktrees"
)

// DefaultAllowedOrigins are the origins allowed to call the service from a browser
var DefaultAllowedOrigins = []string{
	"chrome-extension://*",
	"moz-extension://*",
	"https://linear.app",
}

// Settings represents the structure of $ISSUETREE_HOME/settings.{json,yaml}
type Settings struct {
	AllowedOrigins     StringArray `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
	Debug              *bool       `json:"debug,omitempty" yaml:"debug,omitempty"`
	GitBinary          string      `json:"git_binary,omitempty" yaml:"git_binary,omitempty"`
	MaxLogFiles        *int        `json:"max_log_files,omitempty" yaml:"max_log_files,omitempty"`
	Port               *int        `json:"port,omitempty" yaml:"port,omitempty"`
	TestTimeoutSeconds *int        `json:"test_timeout_seconds,omitempty" yaml:"test_timeout_seconds,omitempty"`
	WorktreeRoot       string      `json:"worktree_root,omitempty" yaml:"worktree_root,omitempty"`
}

// StringArray supports both arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// UnmarshalYAML implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var arr []string
		if err := value.Decode(&arr); err != nil {
			return err
		}
		*sa = arr
		return nil
	case yaml.ScalarNode:
		*sa = parseCommaSeparated(value.Value)
		return nil
	default:
		return fmt.Errorf("line %d: expected a list or a comma-separated string", value.Line)
	}
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// LoadSettings loads settings from the default settings path.
// Returns empty Settings if the file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom loads settings from path, choosing the decoder by extension
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
		}
	default:
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}

	return &settings, nil
}

// Validate checks value ranges
func (s *Settings) Validate() error {
	if s.Port != nil && (*s.Port < 1 || *s.Port > 65535) {
		return fmt.Errorf("port must be between 1 and 65535, got %d", *s.Port)
	}
	if s.TestTimeoutSeconds != nil && *s.TestTimeoutSeconds < 1 {
		return fmt.Errorf("test_timeout_seconds must be positive, got %d", *s.TestTimeoutSeconds)
	}
	for _, origin := range s.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("allowed_origins contains an empty value")
		}
	}
	return nil
}

// ServerConfig is the resolved runtime configuration of the HTTP service
type ServerConfig struct {
	AllowedOrigins []string
	GitBinary      string
	Port           int
	TestTimeout    time.Duration
	WorktreeRoot   string
}

// Resolve applies defaults to settings. A nil settings yields pure defaults.
func Resolve(s *Settings) ServerConfig {
	cfg := ServerConfig{
		AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
		GitBinary:      DefaultGitBinary,
		Port:           DefaultPort,
		TestTimeout:    DefaultTestTimeout,
		WorktreeRoot:   ExpandPath(DefaultWorktreeDir),
	}
	if s == nil {
		return cfg
	}

	if len(s.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = append([]string(nil), s.AllowedOrigins...)
	}
	if s.GitBinary != "" {
		cfg.GitBinary = ExpandPath(s.GitBinary)
	}
	if s.Port != nil {
		cfg.Port = *s.Port
	}
	if s.TestTimeoutSeconds != nil {
		cfg.TestTimeout = time.Duration(*s.TestTimeoutSeconds) * time.Second
	}
	if s.WorktreeRoot != "" {
		cfg.WorktreeRoot = ExpandPath(s.WorktreeRoot)
	}
	return cfg
}
