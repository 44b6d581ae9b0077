package models

import "time"

type RawReview struct {
	ReviewID string `json:"review_id"`
	Source   string `json:"source,omitempty"`
	Text     string `json:"text"`
}

type AnalyzedReview struct {
	RawReview
	AnalysisResult
	AnalyzedAt time.Time `json:"analyzed_at"`
}
