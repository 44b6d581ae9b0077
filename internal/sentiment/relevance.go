package sentiment

import "strings"

var domainKeywords = []string{
	"smartwatch",
	"smart watch",
	"watch",
	"wristwatch",
	"fitness tracker",
	"wearable",
	"device",
	"product",
	"purchase",
	"bought",
	"buying",
	"review",
	"reviews",
	"rating",
	"rated",
	"customer",
	"quality",
	"battery",
	"display",
	"screen",
	"band",
	"strap",
	"features",
	"app",
	"notification",
	"heart rate",
	"step",
	"activity",
	"sleep",
	"waterproof",
	"durable",
	"comfortable",
	"design",
	"price",
	"cost",
	"delivery",
	"shipping",
	"amazon",
	"recommend",
	"satisfied",
	"disappointed",
}

var reviewPatterns = []string{
	"star",
	"stars",
	"out of",
	"rating",
	"would recommend",
	"great product",
	"good product",
	"bad product",
	"poor quality",
	"excellent",
	"terrible",
	"love it",
	"hate it",
	"works well",
	"doesn't work",
	"worth",
	"money",
	"value",
}

const minPatternMatches = 2

// IsRelevant reports whether text reads like a review of the device. One
// domain keyword is enough; without one, at least two review phrasings are
// required. Matching is plain case-folded substring containment.
func IsRelevant(text string) bool {
	lower := strings.ToLower(text)
	if countMatches(lower, domainKeywords) >= 1 {
		return true
	}
	return countMatches(lower, reviewPatterns) >= minPatternMatches
}

func countMatches(lower string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			n++
		}
	}
	return n
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
