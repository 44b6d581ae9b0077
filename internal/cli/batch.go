package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spacesedan/reviewpulse/internal/batch"
	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/tabular"
)

var (
	batchColumn  string
	batchJSON    bool
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch [file.csv]",
	Short: "Analyze every review in a CSV file",
	Long: `Reads a CSV file, picks the review text column, and prints summary statistics.
The column is auto-detected unless --column is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchColumn, "column", "c", "", "name of the review text column")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print summary and rows as JSON")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = one per CPU)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	src, err := tabular.ReadCSV(f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := batch.NewAggregator(analyzer, batchWorkers).Run(ctx, src, batchColumn)
	if err != nil {
		return err
	}

	if batchJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(resp.Summary))
	return nil
}

func renderSummary(s models.BatchSummary) string {
	avg := "n/a"
	if s.AveragePolarity != nil {
		avg = fmt.Sprintf("%.3f", *s.AveragePolarity)
	}

	lines := []string{
		titleStyle.Render("Batch summary"),
		fmt.Sprintf("Rows:         %d", s.TotalRows),
		fmt.Sprintf("Text column:  %s", s.TextColumn),
		fmt.Sprintf("Relevant:     %d", s.RelevantCount),
		fmt.Sprintf("Not relevant: %d", s.IrrelevantCount),
		fmt.Sprintf("Avg polarity: %s", avg),
		"",
	}
	for _, label := range models.Labels {
		lines = append(lines, fmt.Sprintf("  %s %d", renderLabel(label), s.SentimentDistribution[label]))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
