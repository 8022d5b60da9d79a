package faq

import (
	"strings"

	"github.com/starford/sowilo/internal/models"
)

// DefaultThreshold is the score a record must exceed to be returned.
const DefaultThreshold = 0.2

// Result is the outcome of a single lookup.
type Result struct {
	Answer   string  `json:"answer"`
	Question string  `json:"question,omitempty"`
	Score    float64 `json:"score"`
	Found    bool    `json:"found"`
}

// Matcher answers free-text questions from a KnowledgeBase. It holds no
// mutable state and is safe for concurrent use.
type Matcher struct {
	kb        *KnowledgeBase
	threshold float64
	fallback  string
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithThreshold overrides DefaultThreshold.
func WithThreshold(t float64) MatcherOption {
	return func(m *Matcher) {
		m.threshold = t
	}
}

// WithFallback overrides DefaultFallback. Empty strings are ignored.
func WithFallback(msg string) MatcherOption {
	return func(m *Matcher) {
		if msg != "" {
			m.fallback = msg
		}
	}
}

// NewMatcher creates a Matcher over kb.
func NewMatcher(kb *KnowledgeBase, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		kb:        kb,
		threshold: DefaultThreshold,
		fallback:  DefaultFallback,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// KnowledgeBase returns the knowledge base the matcher reads from.
func (m *Matcher) KnowledgeBase() *KnowledgeBase {
	return m.kb
}

// Match returns the best answer for input, or the fallback message.
func (m *Matcher) Match(input string) string {
	return m.Best(input).Answer
}

// Best scores every record against input and returns the winner.
// Ties keep the first-listed record.
func (m *Matcher) Best(input string) Result {
	tokens := Tokenize(input)

	var (
		best      *models.FAQRecord
		bestScore float64
	)
	for i := range m.kb.records {
		rec := &m.kb.records[i]
		if s := score(tokens, rec.Keywords); s > bestScore {
			best, bestScore = rec, s
		}
	}

	if best == nil || bestScore <= m.threshold {
		return Result{Answer: m.fallback, Score: bestScore}
	}
	return Result{
		Answer:   best.Answer,
		Question: best.Question,
		Score:    bestScore,
		Found:    true,
	}
}

// score is the fraction of tokens that overlap some keyword, where overlap
// means either string contains the other.
func score(tokens, keywords []string) float64 {
	hits := 0
	for _, tok := range tokens {
		for _, kw := range keywords {
			if strings.Contains(kw, tok) || strings.Contains(tok, kw) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(max(len(tokens), 1))
}
