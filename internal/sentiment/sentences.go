package sentiment

import (
	"fmt"
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

type SentenceSplitter interface {
	Split(text string) []string
}

// PunktSplitter splits text with the pre-trained English punkt model.
type PunktSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewPunktSplitter() (*PunktSplitter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("[PunktSplitter] failed to load english model: %w", err)
	}
	return &PunktSplitter{tokenizer: tokenizer}, nil
}

// Split returns the trimmed, non-empty sentences of text in order. When
// the tokenizer finds nothing the whole text is returned as one sentence.
func (p *PunktSplitter) Split(text string) []string {
	var out []string
	for _, s := range p.tokenizer.Tokenize(text) {
		if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}
