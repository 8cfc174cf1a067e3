package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-issue-automation/internal/domain/entity"
)

func TestSetDefaults(t *testing.T) {
	svc := NewConfigService(nil)
	cfg := svc.SetDefaults(&entity.Config{})

	assert.Equal(t, 30, cfg.GitHub.TimeoutSec)
	assert.Equal(t, 5000, cfg.GitHub.RateLimit)
	assert.Equal(t, entity.DefaultPageSize, cfg.GitHub.PageSize)
	assert.Equal(t, entity.DefaultCommentTemplate, cfg.Comment.Template)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSetDefaultsKeepsExplicitValues(t *testing.T) {
	svc := NewConfigService(nil)
	cfg := &entity.Config{}
	cfg.GitHub.PageSize = 2
	cfg.Logging.Level = "debug"

	cfg = svc.SetDefaults(cfg)
	assert.Equal(t, 2, cfg.GitHub.PageSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateConfig(t *testing.T) {
	svc := NewConfigService(nil)

	cfg := svc.SetDefaults(&entity.Config{})
	require.NoError(t, svc.ValidateConfig(cfg))

	bad := &entity.Config{}
	bad.GitHub.PageSize = -1
	require.Error(t, svc.ValidateConfig(bad))

	bad = &entity.Config{}
	bad.GitHub.RateLimit = -5
	require.Error(t, svc.ValidateConfig(bad))
}
