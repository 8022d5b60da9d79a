package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/sowilo/internal/models"
)

func answerOf(t *testing.T, question string) string {
	t.Helper()
	for _, r := range Default().Records() {
		if r.Question == question {
			return r.Answer
		}
	}
	t.Fatalf("no default record %q", question)
	return ""
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"how", "submit", "work"}, Tokenize("How do I submit my work?"))
	assert.Equal(t, []string{"whats", "codealpha"}, Tokenize("What's   CodeAlpha!!"))
	assert.Equal(t, []string{"snake_case"}, Tokenize("snake_case"))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("  \t\n "))
	assert.Empty(t, Tokenize("?! ... ,,, ;;"))
}

func TestMatch_PunctuationAndWhitespaceReturnFallback(t *testing.T) {
	m := NewMatcher(Default())
	for _, in := range []string{"", "   ", "\t\n", "!!!", "?? .. ,,", "a an to"} {
		assert.Equal(t, DefaultFallback, m.Match(in), "input %q", in)
	}
}

func TestMatch_SubmitScenario(t *testing.T) {
	m := NewMatcher(Default())
	res := m.Best("How do I submit my work")
	require.True(t, res.Found)
	assert.Greater(t, res.Score, DefaultThreshold)
	assert.Contains(t, res.Answer, "submission form")
	assert.Equal(t, "How do I submit my work?", res.Question)
}

func TestMatch_GibberishReturnsFallback(t *testing.T) {
	m := NewMatcher(Default())
	res := m.Best("asdf qqqq")
	assert.False(t, res.Found)
	assert.Equal(t, DefaultFallback, res.Answer)
	assert.Zero(t, res.Score)
}

func TestMatch_ExactKeyword(t *testing.T) {
	m := NewMatcher(Default())
	cases := map[string]string{
		"linkedin":    "Do I need to post on LinkedIn?",
		"github":      "What is the GitHub repository naming convention?",
		"perks":       "What are the internship perks?",
		"submission":  "How do I submit my work?",
		"certificate": "What are the internship perks?",
	}
	for keyword, question := range cases {
		assert.Equal(t, answerOf(t, question), m.Match(keyword), "keyword %q", keyword)
	}
}

func TestMatch_PartialContainment(t *testing.T) {
	m := NewMatcher(Default())
	// "submitting" contains the keyword "submit".
	assert.Equal(t, answerOf(t, "How do I submit my work?"), m.Match("submitting"))
	// "repo" is contained in the token "repos" and vice versa for "repository".
	assert.Equal(t, answerOf(t, "What is the GitHub repository naming convention?"), m.Match("repos"))
}

func TestMatch_Deterministic(t *testing.T) {
	m := NewMatcher(Default())
	for _, in := range []string{"how long is it", "contact", "zzz", "internship perks"} {
		assert.Equal(t, m.Match(in), m.Match(in))
	}
}

func TestMatch_FirstListedWinsTies(t *testing.T) {
	kb, err := NewKnowledgeBase([]models.FAQRecord{
		{Question: "first", Keywords: []string{"shared"}, Answer: "one"},
		{Question: "second", Keywords: []string{"shared"}, Answer: "two"},
	})
	require.NoError(t, err)
	assert.Equal(t, "one", NewMatcher(kb).Match("shared"))
}

func TestMatch_ThresholdIsExclusive(t *testing.T) {
	kb, err := NewKnowledgeBase([]models.FAQRecord{
		{Question: "q", Keywords: []string{"alpha"}, Answer: "hit"},
	})
	require.NoError(t, err)
	m := NewMatcher(kb, WithFallback("nope"))

	// 1 of 5 tokens matches: score is exactly 0.2.
	res := m.Best("alpha bbb ccc ddd eee")
	assert.InDelta(t, 0.2, res.Score, 1e-12)
	assert.False(t, res.Found)
	assert.Equal(t, "nope", res.Answer)

	// 1 of 4 tokens matches: 0.25.
	assert.Equal(t, "hit", m.Match("alpha bbb ccc ddd"))

	assert.Equal(t, "nope", NewMatcher(kb, WithFallback("nope"), WithThreshold(0.5)).Match("alpha bbb ccc ddd"))
}

func TestMatch_KeywordsCaseInsensitive(t *testing.T) {
	kb, err := NewKnowledgeBase([]models.FAQRecord{
		{Question: "q", Keywords: []string{"  Refund "}, Answer: "money back"},
	})
	require.NoError(t, err)
	assert.Equal(t, "money back", NewMatcher(kb).Match("REFUND please"))
}
