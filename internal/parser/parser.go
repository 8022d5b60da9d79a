// Package parser extracts frontmatter, keywords, and the answer text from
// Markdown FAQ entries.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var keywordRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

// Result holds the output of parsing a Markdown FAQ entry.
type Result struct {
	Frontmatter map[string]any
	Question    string
	Keywords    []string
	Answer      string
}

// Parse extracts the question, keywords, and answer from raw Markdown bytes.
//
// The question comes from the "question" (or "title") frontmatter field,
// otherwise from the first H1 heading. Keywords come from the "keywords"
// frontmatter list followed by inline #keywords. The answer is the body with
// the heading line removed.
func Parse(data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	question, heading := deriveQuestion(fm, body)
	answer := body
	if heading >= 0 {
		lines := strings.Split(body, "\n")
		answer = strings.Join(append(lines[:heading:heading], lines[heading+1:]...), "\n")
	}

	return &Result{
		Frontmatter: fm,
		Question:    question,
		Keywords:    extractKeywords(body, fm),
		Answer:      strings.TrimSpace(answer),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]any, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML: the whole file is body.
		return nil, string(data), nil
	}

	return fm, body, nil
}

// extractKeywords collects the frontmatter "keywords" list and inline #keywords,
// in that order, without duplicates.
func extractKeywords(body string, fm map[string]any) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	if raw, ok := fm["keywords"]; ok {
		switch v := raw.(type) {
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		case string:
			for _, s := range strings.Split(v, ",") {
				add(s)
			}
		}
	}

	for _, m := range keywordRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	return out
}

// deriveQuestion returns the frontmatter question (or title) if present,
// otherwise the first H1 heading. The second value is the body line index of
// that heading, or -1 when the question came from frontmatter or was not found.
func deriveQuestion(fm map[string]any, body string) (string, int) {
	for _, key := range []string{"question", "title"} {
		if s, ok := fm[key].(string); ok && s != "" {
			return s, -1
		}
	}
	for i, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:]), i
		}
	}
	return "", -1
}
