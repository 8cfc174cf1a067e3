package service

import (
	"fmt"

	"github-issue-automation/internal/domain/entity"
	"github-issue-automation/internal/ports"
)

// ConfigService implements configuration management business logic
type ConfigService struct {
	configRepo ports.ConfigRepository
}

// NewConfigService creates a new configuration service
func NewConfigService(configRepo ports.ConfigRepository) *ConfigService {
	return &ConfigService{
		configRepo: configRepo,
	}
}

// GetConfig retrieves configuration with fallbacks and validation
func (s *ConfigService) GetConfig(configPath string) (*entity.Config, error) {
	if configPath == "" {
		configPath = s.configRepo.FindConfigFile()
	}

	config, err := s.configRepo.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config = s.SetDefaults(config)

	if err := s.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfig validates configuration values
func (s *ConfigService) ValidateConfig(config *entity.Config) error {
	if config.GitHub.PageSize < 0 {
		return fmt.Errorf("github.collection_page_size must not be negative")
	}
	if config.GitHub.RateLimit < 0 {
		return fmt.Errorf("github.rate_limit_per_hour must not be negative")
	}
	return nil
}

// SetDefaults applies default values to configuration
func (s *ConfigService) SetDefaults(config *entity.Config) *entity.Config {
	if config.GitHub.TimeoutSec == 0 {
		config.GitHub.TimeoutSec = 30
	}

	if config.GitHub.RateLimit == 0 {
		config.GitHub.RateLimit = 5000
	}

	if config.GitHub.PageSize == 0 {
		config.GitHub.PageSize = entity.DefaultPageSize
	}

	if config.Comment.Template == "" {
		config.Comment.Template = entity.DefaultCommentTemplate
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return config
}
