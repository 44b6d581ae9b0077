package models

type SentimentLabel string

const (
	LabelPositive SentimentLabel = "Positive"
	LabelNeutral  SentimentLabel = "Neutral"
	LabelNegative SentimentLabel = "Negative"
)

// Labels lists every label in display order.
var Labels = []SentimentLabel{LabelPositive, LabelNeutral, LabelNegative}

type AnalysisRequest struct {
	Text             string `json:"text"`
	EnforceRelevance *bool  `json:"enforce_relevance,omitempty"`
}

// Enforce reports whether off-domain text should be rejected. Defaults to true.
func (r AnalysisRequest) Enforce() bool {
	if r.EnforceRelevance == nil {
		return true
	}
	return *r.EnforceRelevance
}

type AspectResult struct {
	Aspect     string         `json:"aspect"`
	Sentiment  SentimentLabel `json:"sentiment"`
	Polarity   float64        `json:"polarity"`
	Confidence float64        `json:"confidence"`
	Evidence   []string       `json:"evidence"`
}

type AnalysisResult struct {
	Relevant   bool           `json:"relevant"`
	Sentiment  SentimentLabel `json:"sentiment"`
	Polarity   float64        `json:"polarity"`
	Confidence float64        `json:"confidence"`
	Aspects    []AspectResult `json:"aspects"`
}

type RelevanceRejection struct {
	Relevant bool   `json:"relevant"`
	Message  string `json:"message"`
}
