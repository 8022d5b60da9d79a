package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/starford/sowilo/internal/faq"
)

const farewell = "Thank you for using the FAQ Chatbot. Goodbye!"

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "quit", "exit", "bye":
		return true
	}
	return false
}

// formatAnswer renders a match the way ask and chat print it.
func formatAnswer(res faq.Result) string {
	return fmt.Sprintf("Bot: %s\n(Confidence: %.2f%%)\n", res.Answer, res.Score*100)
}

// chatLoop reads questions line by line until EOF or an exit word.
func chatLoop(in io.Reader, out io.Writer, m *faq.Matcher, greeting string) error {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(out, "%s\nFAQ CHATBOT\n%s\n", rule, rule)
	if greeting != "" {
		fmt.Fprintf(out, "Bot: %s\n", greeting)
	}
	fmt.Fprint(out, "Ask me anything! Type 'quit' to exit.\n\n")

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if isExit(line) {
			fmt.Fprintf(out, "Bot: %s\n", farewell)
			return nil
		}
		if line == "" {
			continue
		}
		fmt.Fprintln(out, formatAnswer(m.Best(line)))
	}
}
