package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github-issue-automation/internal/adapters/config"
	"github-issue-automation/internal/adapters/event"
	"github-issue-automation/internal/adapters/github"
	"github-issue-automation/internal/adapters/logging"
	"github-issue-automation/internal/domain/entity"
	"github-issue-automation/internal/domain/service"
)

var (
	eventPath      string
	configFile     string
	logLevel       string
	awaitingLabels string
	activeLabels   string
	noComment      bool
)

var rootCmd = &cobra.Command{
	Use:   "github-issue-automation",
	Short: "React to issue assignment events by swapping labels and posting comments",
	Long: `GitHub Issue Automation reacts to issues webhook events (user assignment)
and mutates issue metadata via the GitHub REST and GraphQL APIs.

On assignment it removes the configured awaiting labels, adds the active
labels and greets the assignee with a templated comment. On unassignment
(with no remaining assignees) it reverses the label swap.

Issue fields are read through a lazy-loading entity layer: the first field
access fetches all scalar fields of the entity in one batched GraphQL
query, related entities load on demand with a page cap, and every mutation
invalidates the cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMain()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&eventPath, "event", "e", "", "Path to the webhook event payload (default: $GITHUB_EVENT_PATH)")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file path (default: config.json / config.yaml)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, verbose, info (overrides config)")
	rootCmd.Flags().StringVar(&awaitingLabels, "awaiting-labels", "", "Comma-separated labels removed on assignment (overrides config)")
	rootCmd.Flags().StringVar(&activeLabels, "active-labels", "", "Comma-separated labels added on assignment (overrides config)")
	rootCmd.Flags().BoolVar(&noComment, "no-comment", false, "Skip posting the greeting comment")
}

func runMain() error {
	configRepo := config.NewRepository()
	configService := service.NewConfigService(configRepo)

	var appConfig *entity.Config
	var err error

	if configFile == "" {
		configFile = configRepo.FindConfigFile()
	}

	if configFile != "" {
		appConfig, err = configService.GetConfig(configFile)
		if err != nil {
			return fmt.Errorf("error loading config file %q: %w", configFile, err)
		}
	} else {
		appConfig = configService.SetDefaults(&entity.Config{})
	}

	// GitHub token: environment variable only for security
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return fmt.Errorf("GitHub token required. Set GITHUB_TOKEN environment variable")
	}

	// Apply command line overrides
	if awaitingLabels != "" {
		appConfig.Labels.Awaiting = splitLabels(awaitingLabels)
	}
	if activeLabels != "" {
		appConfig.Labels.Active = splitLabels(activeLabels)
	}
	if noComment {
		appConfig.Comment.Enabled = false
	}
	if logLevel != "" {
		appConfig.Logging.Level = logLevel
	}

	logger := logging.New(logging.ParseLevel(appConfig.Logging.Level))

	reader := event.NewReader()
	ev, err := reader.ReadEvent(eventPath)
	if err != nil {
		return fmt.Errorf("error reading event: %w", err)
	}

	client := github.NewClient(token, appConfig)
	graph := entity.NewGraph(client, client, entity.WithPageSize(appConfig.GitHub.PageSize))
	assignmentService := service.NewAssignmentService(graph, appConfig, logger)

	ctx := context.Background()
	if err := assignmentService.HandleEvent(ctx, ev); err != nil {
		return err
	}

	stats := client.Stats()
	logger.Debug("API calls: %d, errors: %d, remaining quota: %d",
		stats.APICallsCount, stats.ErrorsCount, stats.RemainingQuota)

	return nil
}

func splitLabels(raw string) []string {
	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}
