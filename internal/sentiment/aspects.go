package sentiment

import (
	"strings"

	"github.com/spacesedan/reviewpulse/internal/models"
)

const maxEvidence = 2

type Aspect struct {
	Name     string
	Keywords []string
}

// Aspects are reported in this order. Keywords only select sentences;
// they play no part in scoring.
var Aspects = []Aspect{
	{Name: "Battery", Keywords: []string{"battery", "charge", "charging", "power", "life"}},
	{Name: "Display", Keywords: []string{"display", "screen", "brightness", "touch", "resolution"}},
	{Name: "Comfort", Keywords: []string{"strap", "band", "comfort", "fit", "wear"}},
	{Name: "Fitness Tracking", Keywords: []string{"fitness", "heart rate", "steps", "tracking", "sleep"}},
	{Name: "Notifications", Keywords: []string{"notification", "alerts", "calls", "messages"}},
	{Name: "Design & Build", Keywords: []string{"design", "build", "quality", "durable", "style"}},
	{Name: "Price & Value", Keywords: []string{"price", "cost", "value", "worth"}},
}

// ExtractAspects scores every aspect mentioned in text on the sentences
// that mention it. Aspects without a matching sentence are left out, and a
// sentence may count toward several aspects.
func ExtractAspects(text string, scorer Scorer, splitter SentenceSplitter) []models.AspectResult {
	sentenceList := splitter.Split(text)
	lowered := make([]string, len(sentenceList))
	for i, s := range sentenceList {
		lowered[i] = strings.ToLower(s)
	}

	var results []models.AspectResult
	for _, aspect := range Aspects {
		var matched []string
		for i, s := range sentenceList {
			if containsAny(lowered[i], aspect.Keywords) {
				matched = append(matched, s)
			}
		}
		if len(matched) == 0 {
			continue
		}

		label, polarity := Sentiment(strings.Join(matched, " "), scorer)

		evidence := matched
		if len(evidence) > maxEvidence {
			evidence = evidence[:maxEvidence]
		}

		results = append(results, models.AspectResult{
			Aspect:     aspect.Name,
			Sentiment:  label,
			Polarity:   Round(polarity, 3),
			Confidence: Confidence(polarity),
			Evidence:   append([]string(nil), evidence...),
		})
	}
	return results
}
