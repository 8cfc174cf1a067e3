package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github-issue-automation/internal/domain/entity"
)

// Repository implements the ConfigRepository interface
type Repository struct{}

// NewRepository creates a new config repository
func NewRepository() *Repository {
	return &Repository{}
}

// LoadConfig loads configuration from a JSON or YAML file, decided by the
// file extension.
func (r *Repository) LoadConfig(configPath string) (*entity.Config, error) {
	if configPath == "" {
		configPath = "config.json"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config entity.Config
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	return &config, nil
}

// GenerateExampleConfig generates an example configuration file
func (r *Repository) GenerateExampleConfig(filePath string) error {
	config := entity.Config{}
	config.GitHub.Owner = "your-org"
	config.GitHub.Repo = "your-repo"
	config.GitHub.PageSize = 20
	config.Labels.Awaiting = []string{"status: needs-assignee"}
	config.Labels.Active = []string{"status: in-progress"}
	config.Comment.Enabled = true
	config.Comment.Template = entity.DefaultCommentTemplate
	config.Logging.Level = "info"

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling example config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing example config: %w", err)
	}

	return nil
}

// FindConfigFile looks for config files in standard locations
func (r *Repository) FindConfigFile() string {
	candidates := []string{
		"config.json",
		"config.yaml",
		"config.yml",
		".github-issue-automation.json",
		filepath.Join(os.Getenv("HOME"), ".github-issue-automation.json"),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
