package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/renato0307/issuetree/internal/config"
	"github.com/renato0307/issuetree/internal/theme"
)

// SettingsCmd manages settings
type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"show" help:"Show settings file location, available options and effective values" default:"1"`
	Path SettingsPathCmd `cmd:"path" help:"Print the settings file path"`
}

// SettingsShowCmd displays settings metadata
type SettingsShowCmd struct {
	Format string `help:"Output format: text or json" enum:"text,json" default:"text"`
}

// effectiveSettings is the resolved configuration keyed like the settings file
func effectiveSettings(cfg config.ServerConfig) map[string]any {
	return map[string]any{
		"allowed_origins":      cfg.AllowedOrigins,
		"git_binary":           cfg.GitBinary,
		"port":                 cfg.Port,
		"test_timeout_seconds": int(cfg.TestTimeout.Seconds()),
		"worktree_root":        cfg.WorktreeRoot,
	}
}

// Run executes the show command
func (s *SettingsShowCmd) Run(cli *CLI) error {
	settingsFile := config.GetSettingsPath()
	example := config.GetSettingsExample()
	effective := effectiveSettings(cli.config)

	if s.Format == formatJSON {
		return printJSON(os.Stdout, map[string]any{
			"effective":     effective,
			"format":        example,
			"settings_file": settingsFile,
		})
	}

	fmt.Printf("%s %s\n\n", theme.LabelStyle.Render("Settings file:"), theme.PathStyle.Render(settingsFile))

	fmt.Println(theme.TitleStyle.Render("Available settings"))
	fmt.Println(renderTable([]string{"KEY", "EXAMPLE"}, settingsRows(example)))
	fmt.Println()

	fmt.Println(theme.TitleStyle.Render("Effective configuration"))
	fmt.Println(renderTable([]string{"KEY", "VALUE"}, settingsRows(effective)))
	fmt.Println()

	fmt.Println(theme.MutedStyle.Render("Create or edit this file (JSON or YAML) to configure issuetree."))
	fmt.Println(theme.MutedStyle.Render("Flags and ISSUETREE_* environment variables take precedence."))
	return nil
}

// settingsRows renders a settings map as sorted key/value rows
func settingsRows(values map[string]any) [][]string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, formatSettingValue(values[key])})
	}
	return rows
}

func formatSettingValue(value any) string {
	switch v := value.(type) {
	case []string:
		data, _ := json.Marshal(v)
		return string(data)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// SettingsPathCmd prints the settings file path
type SettingsPathCmd struct{}

// Run executes the path command
func (s *SettingsPathCmd) Run(cli *CLI) error {
	fmt.Println(config.GetSettingsPath())
	return nil
}
