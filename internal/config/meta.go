package config

import (
	"reflect"
	"strings"
)

// GetSettingsExample uses reflection to generate example settings keyed by
// their JSON name, so it stays in sync when fields are added to Settings
func GetSettingsExample() map[string]any {
	t := reflect.TypeOf(Settings{})
	example := make(map[string]any, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		jsonTag := t.Field(i).Tag.Get("json")
		if jsonTag == "" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		example[name] = exampleValue(name)
	}

	return example
}

func exampleValue(fieldName string) any {
	switch fieldName {
	case "allowed_origins":
		return DefaultAllowedOrigins
	case "debug":
		return false
	case "git_binary":
		return DefaultGitBinary
	case "max_log_files":
		return 1000
	case "port":
		return DefaultPort
	case "test_timeout_seconds":
		return int(DefaultTestTimeout.Seconds())
	case "worktree_root":
		return DefaultWorktreeDir
	default:
		return nil
	}
}
