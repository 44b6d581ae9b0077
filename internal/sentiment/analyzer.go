package sentiment

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spacesedan/reviewpulse/internal/models"
)

// Sentiment runs the engine, the threshold classifier and the domain
// overrides on text and returns the final label and polarity.
func Sentiment(text string, scorer Scorer) (models.SentimentLabel, float64) {
	polarity := scorer.Score(text)
	return ApplyDomainRules(text, ClassifyPolarity(polarity), polarity)
}

// Analyzer bundles the base engine and sentence splitter. It holds no
// mutable state and is safe for concurrent use.
type Analyzer struct {
	scorer   Scorer
	splitter SentenceSplitter
}

func NewAnalyzer(scorer Scorer, splitter SentenceSplitter) *Analyzer {
	return &Analyzer{scorer: scorer, splitter: splitter}
}

// NewDefaultAnalyzer wires VADER and the punkt splitter.
func NewDefaultAnalyzer() (*Analyzer, error) {
	splitter, err := NewPunktSplitter()
	if err != nil {
		return nil, err
	}
	return NewAnalyzer(NewVaderScorer(), splitter), nil
}

func (a *Analyzer) Sentiment(text string) (models.SentimentLabel, float64) {
	return Sentiment(text, a.scorer)
}

func (a *Analyzer) Aspects(text string) []models.AspectResult {
	return ExtractAspects(text, a.scorer, a.splitter)
}

// Analyze produces the full result for one review. Blank text yields
// ErrInvalidInput. When enforce is set and the text is off-domain,
// ErrNotRelevant is returned before any scoring happens.
func (a *Analyzer) Analyze(text string, enforce bool) (*models.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidInput
	}

	relevant := IsRelevant(text)
	if enforce && !relevant {
		slog.Debug("[Analyzer] Rejected off-domain text",
			slog.Int("length", len(text)))
		return nil, fmt.Errorf("[Analyzer] %w", ErrNotRelevant)
	}

	label, polarity := a.Sentiment(text)
	result := &models.AnalysisResult{
		Relevant:   relevant,
		Sentiment:  label,
		Polarity:   Round(polarity, 3),
		Confidence: Confidence(polarity),
		Aspects:    a.Aspects(text),
	}
	if result.Aspects == nil {
		result.Aspects = []models.AspectResult{}
	}

	slog.Debug("[Analyzer] Analyzed review",
		slog.String("sentiment", string(label)),
		slog.Float64("polarity", result.Polarity),
		slog.Int("aspects", len(result.Aspects)))

	return result, nil
}
