package entity

// Config represents the application configuration.
// The GitHub token is never part of the file; it must be provided via the
// GITHUB_TOKEN environment variable.
type Config struct {
	GitHub  GitHubConfig  `json:"github" yaml:"github"`
	Labels  LabelsConfig  `json:"labels" yaml:"labels"`
	Comment CommentConfig `json:"comment" yaml:"comment"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// GitHubConfig contains GitHub API settings.
type GitHubConfig struct {
	Owner      string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Repo       string `json:"repo,omitempty" yaml:"repo,omitempty"`
	TimeoutSec int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	RateLimit  int    `json:"rate_limit_per_hour,omitempty" yaml:"rate_limit_per_hour,omitempty"`
	PageSize   int    `json:"collection_page_size,omitempty" yaml:"collection_page_size,omitempty"`
	UserAgent  string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// LabelsConfig describes the label swap the assignment automation performs.
type LabelsConfig struct {
	// Awaiting labels are removed when a user is assigned and restored
	// when the last assignee is removed.
	Awaiting []string `json:"awaiting" yaml:"awaiting"`
	// Active labels are added when a user is assigned.
	Active []string `json:"active" yaml:"active"`
}

// CommentConfig controls the greeting comment posted on assignment.
type CommentConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// DefaultCommentTemplate greets the new assignee. Rendered with .Assignee
// and .Number.
const DefaultCommentTemplate = "Thanks for picking this up, @{{.Assignee}}! Issue #{{.Number}} is now marked as in progress."

// HasLabelSwap reports whether the automation has any label work to do.
func (c *Config) HasLabelSwap() bool {
	return len(c.Labels.Awaiting) > 0 || len(c.Labels.Active) > 0
}
