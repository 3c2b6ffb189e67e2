package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	BackendExec  = "exec"
	BackendGoGit = "go-git"

	// DefaultLogFile as logFile selects DefaultLogPath.
	DefaultLogFile = "default"
)

type Config struct {
	RemoteName     string   `yaml:"remoteName,omitempty"`
	ProtectedRegex []string `yaml:"protectedRegex,omitempty"`
	IncludeRegex   []string `yaml:"includeRegex,omitempty"`
	Backend        string   `yaml:"backend,omitempty"`
	LogFile        string   `yaml:"logFile,omitempty"`
}

// LogPath resolves LogFile: empty disables file logging, DefaultLogFile maps
// to DefaultLogPath, anything else is used as given.
func (c *Config) LogPath() (string, error) {
	if c.LogFile == DefaultLogFile {
		return DefaultLogPath()
	}
	return c.LogFile, nil
}

type Service interface {
	Config() *Config
	Save() error
	Update(cfg *Config) error
	Set(key, value string) error
	IsOnboarded() bool
	ConfigPath() string
}

func DefaultConfig() *Config {
	return &Config{
		RemoteName:     "origin",
		ProtectedRegex: []string{"release/*", "hotfix/*"},
		IncludeRegex:   []string{".*"},
		Backend:        BackendExec,
	}
}

// Keys lists the names accepted by Apply, in display order.
var Keys = []string{"remoteName", "protectedRegex", "includeRegex", "backend", "logFile"}

// Apply sets one field from its string form. List values are comma-separated.
func (c *Config) Apply(key, value string) error {
	switch key {
	case "remoteName":
		// Basic validation for remote name (no spaces, no special chars except -_.)
		if matched, _ := regexp.MatchString(`^[a-zA-Z0-9_.-]+$`, value); !matched {
			return fmt.Errorf("invalid remote name '%s': must contain only letters, numbers, dots, hyphens, and underscores", value)
		}
		c.RemoteName = value
	case "protectedRegex":
		patterns, err := parseCommaSeparatedList(value, true)
		if err != nil {
			return fmt.Errorf("invalid protected regex patterns: %w", err)
		}
		c.ProtectedRegex = patterns
	case "includeRegex":
		patterns, err := parseCommaSeparatedList(value, true)
		if err != nil {
			return fmt.Errorf("invalid include regex patterns: %w", err)
		}
		c.IncludeRegex = patterns
	case "backend":
		if value != BackendExec && value != BackendGoGit {
			return fmt.Errorf("unknown backend '%s': expected %s or %s", value, BackendExec, BackendGoGit)
		}
		c.Backend = value
	case "logFile":
		c.LogFile = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func parseCommaSeparatedList(input string, validateRegex bool) ([]string, error) {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}

		if validateRegex {
			if _, err := regexp.Compile(trimmed); err != nil {
				return nil, fmt.Errorf("invalid regex pattern '%s': %w", trimmed, err)
			}
		}

		result = append(result, trimmed)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("at least one value is required")
	}

	return result, nil
}

func getGlobalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ConfigDir, GlobalConfigFile), nil
}

func ensureConfigDirExists(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}
