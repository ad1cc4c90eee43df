// Package config manages YAML-based configuration and command line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for dirscope
type Config struct {
	Port int `yaml:"port"`

	// StartDir is the directory every session starts in and returns to on reset.
	// With GitRepo set it is a path inside the repository.
	StartDir string `yaml:"start_dir"`

	// GitRepo and GitRef switch browsing from the local disk to a git tree.
	GitRepo string `yaml:"git_repo,omitempty"`
	GitRef  string `yaml:"git_ref,omitempty"`

	ProgressInterval   time.Duration `yaml:"progress_interval"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
	Open               bool          `yaml:"open"`

	// Internal: path to config file for saving
	configPath string
}

// Overrides carries command line values. Zero values leave the config untouched.
type Overrides struct {
	ConfigFile string
	Port       int
	StartDir   string
	GitRepo    string
	GitRef     string
	Open       bool
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:               8080,
		StartDir:           ".",
		ProgressInterval:   500 * time.Millisecond,
		SessionIdleTimeout: 30 * time.Minute,
	}
}

// GetConfigDir returns the config directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/dirscope"
	}
	return filepath.Join(home, ".config", "dirscope")
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load loads configuration from file and applies command line overrides
func Load(o Overrides) (*Config, error) {
	cfg := DefaultConfig()

	// Determine config file path
	var cfgPath string
	if o.ConfigFile != "" {
		cfgPath = o.ConfigFile
	} else {
		// Try ~/.config/dirscope/config.yaml first
		globalConfig := GetConfigPath()
		if _, err := os.Stat(globalConfig); err == nil {
			cfgPath = globalConfig
		} else if _, err := os.Stat("dirscope.yaml"); err == nil {
			// Fall back to local dirscope.yaml
			cfgPath = "dirscope.yaml"
		}
	}

	// Load from config file if found
	if cfgPath != "" {
		if err := cfg.loadFromFile(cfgPath); err != nil && o.ConfigFile != "" {
			// Only return error if user explicitly specified config file
			return nil, err
		}
		cfg.configPath = cfgPath
	} else {
		cfg.configPath = GetConfigPath()
	}

	// Command line flags override config file (only if explicitly set)
	if o.Port != 0 {
		cfg.Port = o.Port
	}
	if o.StartDir != "" {
		cfg.StartDir = o.StartDir
	}
	if o.GitRepo != "" {
		cfg.GitRepo = o.GitRepo
	}
	if o.GitRef != "" {
		cfg.GitRef = o.GitRef
	}
	if o.Open {
		cfg.Open = true
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize resolves paths and fills in dependent defaults.
func (c *Config) normalize() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.GitRepo != "" {
		absRepo, err := filepath.Abs(c.GitRepo)
		if err != nil {
			return fmt.Errorf("resolving git repo: %w", err)
		}
		c.GitRepo = absRepo
		if c.GitRef == "" {
			c.GitRef = "HEAD"
		}
		// Inside a repository the start dir is relative to its root.
		if c.StartDir == "." {
			c.StartDir = ""
		}
		return nil
	}
	if c.GitRef != "" {
		return errors.New("git_ref requires git_repo")
	}
	absPath, err := filepath.Abs(c.StartDir)
	if err != nil {
		return fmt.Errorf("resolving start dir: %w", err)
	}
	c.StartDir = absPath
	return nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// ErrConfigExists is returned by Init when the target file already exists.
var ErrConfigExists = errors.New("config file already exists")

// Init writes the default configuration to path, or to the global config
// path when path is empty. An existing file is only replaced when force is set.
func Init(path string, force bool) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return nil, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	cfg := DefaultConfig()
	cfg.configPath = path
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save saves the current configuration to the config file
func (c *Config) Save() error {
	// Ensure config directory exists
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// GetConfigFilePath returns the path to the config file
func (c *Config) GetConfigFilePath() string {
	return c.configPath
}
