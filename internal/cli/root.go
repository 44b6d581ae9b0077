// Package cli implements the reviewctl command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/spacesedan/reviewpulse/internal/sentiment"
)

var analyzer *sentiment.Analyzer

var rootCmd = &cobra.Command{
	Use:   "reviewctl",
	Short: "Analyze smartwatch reviews from the command line",
	Long: `reviewctl runs the review sentiment pipeline locally.
It scores single reviews or whole CSV files without the HTTP service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if analyzer != nil {
			return nil
		}
		a, err := sentiment.NewDefaultAnalyzer()
		if err != nil {
			return err
		}
		analyzer = a
		return nil
	},
}

// SetAnalyzer overrides the analyzer built on first use.
func SetAnalyzer(a *sentiment.Analyzer) {
	analyzer = a
}

func Execute() error {
	return rootCmd.Execute()
}
