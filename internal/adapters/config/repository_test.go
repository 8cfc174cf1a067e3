package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
	  "github": {"owner": "acme", "repo": "widgets", "collection_page_size": 2},
	  "labels": {"awaiting": ["needs-triage"], "active": ["in-progress"]},
	  "comment": {"enabled": true, "template": "hi {{.Assignee}}"},
	  "logging": {"level": "debug"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo := NewRepository()
	cfg, err := repo.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.GitHub.Owner)
	assert.Equal(t, "widgets", cfg.GitHub.Repo)
	assert.Equal(t, 2, cfg.GitHub.PageSize)
	assert.Equal(t, []string{"needs-triage"}, cfg.Labels.Awaiting)
	assert.Equal(t, []string{"in-progress"}, cfg.Labels.Active)
	assert.True(t, cfg.Comment.Enabled)
	assert.Equal(t, "hi {{.Assignee}}", cfg.Comment.Template)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `github:
  owner: acme
  repo: widgets
  collection_page_size: 20
labels:
  awaiting:
    - "status: needs-assignee"
  active:
    - "status: in-progress"
comment:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo := NewRepository()
	cfg, err := repo.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.GitHub.Owner)
	assert.Equal(t, 20, cfg.GitHub.PageSize)
	assert.Equal(t, []string{"status: needs-assignee"}, cfg.Labels.Awaiting)
	assert.True(t, cfg.Comment.Enabled)
}

func TestLoadConfigMissingFile(t *testing.T) {
	repo := NewRepository()
	_, err := repo.LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"github":`), 0o644))

	repo := NewRepository()
	_, err := repo.LoadConfig(path)
	require.Error(t, err)
}

func TestGenerateExampleConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	repo := NewRepository()
	require.NoError(t, repo.GenerateExampleConfig(path))

	cfg, err := repo.LoadConfig(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Labels.Awaiting)
	assert.NotEmpty(t, cfg.Labels.Active)
	assert.True(t, cfg.Comment.Enabled)
	assert.NotEmpty(t, cfg.Comment.Template)
}
