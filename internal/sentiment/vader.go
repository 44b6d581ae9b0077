package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

// Scorer is the base sentiment engine. Score must be deterministic and
// return a polarity in [-1, 1].
type Scorer interface {
	Score(text string) float64
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Score(text string) float64 {
	return f(text)
}

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// markdown renderer without smartypants so apostrophes in negations
// ("don't", "isn't") survive for the lexicon lookup
var plainRenderer = blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
	Flags: blackfriday.UseXHTML,
})

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and drops the markup, leaving
// whitespace-normalised plain text.
func ConvertMarkdownToText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(plainRenderer))

	plain := tagPattern.ReplaceAllString(string(output), " ")
	plain = html.UnescapeString(plain)

	return strings.Join(strings.Fields(plain), " ")
}

// VaderScorer scores text with the VADER compound score.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Score(text string) float64 {
	plainText := ConvertMarkdownToText(text)
	if plainText == "" {
		return 0
	}
	return v.analyzer.PolarityScores(plainText).Compound
}
