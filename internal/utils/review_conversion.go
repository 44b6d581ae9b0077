package utils

import (
	"time"

	"github.com/spacesedan/reviewpulse/internal/models"
)

func ToAnalyzedReview(raw models.RawReview, result models.AnalysisResult, analyzedAt time.Time) models.AnalyzedReview {
	return models.AnalyzedReview{
		RawReview:      raw,
		AnalysisResult: result,
		AnalyzedAt:     analyzedAt.UTC(),
	}
}
