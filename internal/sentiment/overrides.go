package sentiment

import (
	"math"
	"strings"

	"github.com/spacesedan/reviewpulse/internal/models"
)

// overrideMagnitude replaces a zero engine score when a trigger fires.
const overrideMagnitude = 0.4

type domainRule struct {
	label    models.SentimentLabel
	sign     float64
	triggers []string
}

// domainRules are evaluated top to bottom; the first match wins, so
// negative triggers beat positive ones.
var domainRules = []domainRule{
	{
		label: models.LabelNegative,
		sign:  -1,
		triggers: []string{
			"draining fast",
			"battery drain",
			"battery draining",
			"battery health is draining",
			"battery issue",
			"battery problem",
			"battery dies",
			"battery life is poor",
			"overheating",
			"laggy",
			"watch stopped working",
			"screen cracked",
			"strap broke",
		},
	},
	{
		label: models.LabelPositive,
		sign:  1,
		triggers: []string{
			"battery lasts all day",
			"excellent battery",
			"great battery life",
			"long battery",
			"love the battery",
			"fast charging",
			"works flawlessly",
			"very responsive",
		},
	},
}

// ApplyDomainRules forces the label and sign of polarity when a domain
// phrase is present, and passes both through untouched otherwise.
func ApplyDomainRules(text string, label models.SentimentLabel, polarity float64) (models.SentimentLabel, float64) {
	lower := strings.ToLower(text)
	for _, rule := range domainRules {
		if !containsAny(lower, rule.triggers) {
			continue
		}
		magnitude := math.Abs(polarity)
		if polarity == 0 {
			magnitude = overrideMagnitude
		}
		return rule.label, rule.sign * magnitude
	}
	return label, polarity
}
