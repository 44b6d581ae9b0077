package models

type BatchRow struct {
	Review     *string         `json:"review"`
	Sentiment  *SentimentLabel `json:"sentiment"`
	Polarity   *float64        `json:"polarity"`
	Confidence *float64        `json:"confidence"`
	// Relevant is nil for blank or unusable cells.
	Relevant *bool `json:"relevant"`
}

type BatchSummary struct {
	TotalRows             int                    `json:"total_rows"`
	TextColumn            string                 `json:"text_column"`
	RelevantCount         int                    `json:"relevant_count"`
	IrrelevantCount       int                    `json:"irrelevant_count"`
	SentimentDistribution map[SentimentLabel]int `json:"sentiment_distribution"`
	AveragePolarity       *float64               `json:"average_polarity"`
}

type BatchResponse struct {
	Summary BatchSummary `json:"summary"`
	Results []BatchRow   `json:"results"`
}
