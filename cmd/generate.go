package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github-issue-automation/internal/adapters/config"
)

var generateCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Generate an example configuration file",
	Long: `Generate an example configuration file with default values.
This will create a config.json file in the current directory that you can
customize with your label sets and comment template. The GitHub token is
read from the GITHUB_TOKEN environment variable, never from the file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configRepo := config.NewRepository()

		configPath := "config.json"
		if configFile != "" {
			configPath = configFile
		}

		if err := configRepo.GenerateExampleConfig(configPath); err != nil {
			return fmt.Errorf("error generating config file: %w", err)
		}

		fmt.Printf("Example config file generated: %s\n", configPath)
		fmt.Println("Edit the label sets and comment template, then set GITHUB_TOKEN")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
