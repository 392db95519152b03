package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name for project configuration.
	ConfigDir = ".verbranch"
	// ConfigFile is the name of the configuration file.
	ConfigFile = "config.yaml"
	// ConfigPath is the config file path relative to the project root.
	ConfigPath = ConfigDir + "/" + ConfigFile
)

// FileConfig holds project-level defaults from .verbranch/config.yaml.
// Workflow inputs override every field.
type FileConfig struct {
	// BranchPrefix is the default versioning branch prefix.
	BranchPrefix string `yaml:"branch_prefix,omitempty"`

	// VersionFile is the default manifest path.
	VersionFile string `yaml:"version_file,omitempty"`

	// CommentTemplate is the default info comment template path.
	CommentTemplate string `yaml:"comment_template,omitempty"`

	// LogLevel is the default log level.
	LogLevel string `yaml:"log_level,omitempty"`
}

// LoadFile loads the project configuration from the given directory,
// searching the directory and its parents.
//
// A missing config file is not an error; a zero config is returned.
func LoadFile(dir string) (*FileConfig, error) {
	configPath, err := findConfigPath(dir)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return &FileConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadFileFromCurrentDir loads the project configuration starting at the
// current working directory.
func LoadFileFromCurrentDir() (*FileConfig, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadFile(dir)
}

// findConfigPath searches for .verbranch/config.yaml in dir and its parent
// directories. It returns the empty string when none is found.
func findConfigPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for {
		configPath := filepath.Join(absDir, ConfigPath)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(absDir)
		if parentDir == absDir {
			return "", nil
		}
		absDir = parentDir
	}
}
