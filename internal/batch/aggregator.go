package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
	"github.com/spacesedan/reviewpulse/internal/tabular"
)

// Aggregator scores a column of reviews. Rows are independent, so they
// are analyzed on a bounded worker pool; row i of the output always
// belongs to cell i of the input.
type Aggregator struct {
	analyzer *sentiment.Analyzer
	workers  int
}

func NewAggregator(analyzer *sentiment.Analyzer, workers int) *Aggregator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Aggregator{analyzer: analyzer, workers: workers}
}

func (ag *Aggregator) Run(ctx context.Context, src tabular.Source, requested string) (*models.BatchResponse, error) {
	column, err := SelectColumn(src, requested)
	if err != nil {
		return nil, err
	}
	cells, ok := src.Cells(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}

	start := time.Now()
	rows, err := ag.AnalyzeCells(ctx, cells)
	if err != nil {
		return nil, err
	}

	summary := Summarize(src.Len(), column, rows)
	slog.Info("[BatchAggregator] Batch analyzed",
		slog.String("column", column),
		slog.Int("rows", summary.TotalRows),
		slog.Int("relevant", summary.RelevantCount),
		slog.Int("irrelevant", summary.IrrelevantCount),
		slog.Duration("elapsed", time.Since(start)))

	return &models.BatchResponse{Summary: summary, Results: rows}, nil
}

func (ag *Aggregator) AnalyzeCells(ctx context.Context, cells []tabular.Cell) ([]models.BatchRow, error) {
	rows := make([]models.BatchRow, len(cells))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ag.workers)
	for i, cell := range cells {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = ag.analyzeCell(i, cell)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rows, nil
}

// analyzeCell never fails: unusable cells come back as not-applicable rows
// so one bad value cannot sink the batch.
func (ag *Aggregator) analyzeCell(index int, cell tabular.Cell) (row models.BatchRow) {
	if cell.Missing || strings.TrimSpace(cell.Value) == "" {
		return models.BatchRow{}
	}
	if !utf8.ValidString(cell.Value) {
		slog.Warn("[BatchAggregator] Skipping malformed cell",
			slog.Int("row", index))
		return models.BatchRow{}
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("[BatchAggregator] Row analysis failed",
				slog.Int("row", index),
				slog.Any("panic", r))
			row = models.BatchRow{}
		}
	}()

	review := cell.Value
	relevant := sentiment.IsRelevant(review)
	if !relevant {
		return models.BatchRow{Review: &review, Relevant: &relevant}
	}

	label, polarity := ag.analyzer.Sentiment(review)
	rounded := sentiment.Round(polarity, 3)
	confidence := sentiment.Confidence(polarity)

	return models.BatchRow{
		Review:     &review,
		Sentiment:  &label,
		Polarity:   &rounded,
		Confidence: &confidence,
		Relevant:   &relevant,
	}
}

// Summarize counts relevant and irrelevant rows and averages the polarity
// of relevant rows. Not-applicable rows only count toward totalRows.
func Summarize(totalRows int, column string, rows []models.BatchRow) models.BatchSummary {
	summary := models.BatchSummary{
		TotalRows:             totalRows,
		TextColumn:            column,
		SentimentDistribution: make(map[models.SentimentLabel]int, len(models.Labels)),
	}
	for _, label := range models.Labels {
		summary.SentimentDistribution[label] = 0
	}

	var polarities []float64
	for _, row := range rows {
		if row.Relevant == nil {
			continue
		}
		if !*row.Relevant {
			summary.IrrelevantCount++
			continue
		}

		summary.RelevantCount++
		if row.Sentiment != nil {
			summary.SentimentDistribution[*row.Sentiment]++
		}
		if row.Polarity != nil {
			polarities = append(polarities, *row.Polarity)
		}
	}

	if len(polarities) > 0 {
		avg := sentiment.Round(stat.Mean(polarities, nil), 3)
		summary.AveragePolarity = &avg
	}

	return summary
}
