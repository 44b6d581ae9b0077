package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
)

var analyzeForce bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze a single review",
	Long: `Scores one review: overall label, polarity, confidence, and aspects.
Text that does not look like a smartwatch review is refused unless --force is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeForce, "force", "f", false, "analyze even if the text looks off-domain")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	result, err := analyzer.Analyze(text, !analyzeForce)
	if errors.Is(err, sentiment.ErrNotRelevant) {
		fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("Text does not appear to be a smartwatch/product review. Use --force to analyze it anyway."))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderResult(result))
	return nil
}

func renderResult(result *models.AnalysisResult) string {
	lines := []string{
		titleStyle.Render("Sentiment: ") + renderLabel(result.Sentiment),
		fmt.Sprintf("Polarity:   %.3f", result.Polarity),
		fmt.Sprintf("Confidence: %.1f%%", result.Confidence),
	}
	if !result.Relevant {
		lines = append(lines, warnStyle.Render("Analyzed on request; text looks off-domain."))
	}

	if len(result.Aspects) == 0 {
		lines = append(lines, mutedStyle.Render("No aspects mentioned."))
	} else {
		lines = append(lines, "", titleStyle.Render("Aspects"))
		for _, a := range result.Aspects {
			lines = append(lines, fmt.Sprintf("  %-18s %s  %.3f  (%.1f%%)", a.Aspect, renderLabel(a.Sentiment), a.Polarity, a.Confidence))
			for _, ev := range a.Evidence {
				lines = append(lines, mutedStyle.Render("    "+ev))
			}
		}
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
