package sentiment

import (
	"math"

	"github.com/spacesedan/reviewpulse/internal/models"
)

// neutralBand absorbs engine noise around zero.
const neutralBand = 0.05

func ClassifyPolarity(polarity float64) models.SentimentLabel {
	switch {
	case polarity > neutralBand:
		return models.LabelPositive
	case polarity < -neutralBand:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// Confidence is the score magnitude as a percentage with one decimal.
// It is not a calibrated probability.
func Confidence(polarity float64) float64 {
	return Round(math.Abs(polarity)*100, 1)
}

func Round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
