package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "insight-report",
		Short: "Offline cohort reports",
		Long: `insight-report builds cohort dashboards from a YAML dataset.

Examples:
  # Print the prompt document of a GROW cohort
  insight-report summarize --fixture data.yaml --company-id c1 --account-name "Acme Corp" --program GROW --cohort "Cohort 1"

  # Generate insights with the configured provider and export them
  INSIGHTS_LLM_API_KEY=... insight-report summarize --fixture data.yaml --company-id c1 --generate --out ./reports

  # Delegate generation to a running service
  insight-report summarize --fixture data.yaml --company-id c1 --generate --endpoint https://insights.example.com --token $TOKEN
`,
		SilenceUsage: true,
	}
	root.AddCommand(newSummarizeCmd())
	return root
}
