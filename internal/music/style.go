// Package music implements the procedural note-sequence generator and the
// export and playback back ends that consume its sequences.
package music

import (
	"fmt"
	"strings"

	"github.com/starford/sowilo/internal/apperr"
)

// Style selects a pitch palette.
type Style string

// Supported styles.
const (
	StyleClassical Style = "classical"
	StyleJazz      Style = "jazz"
)

var palettes = map[Style][]string{
	StyleClassical: {"C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5"},
	StyleJazz:      {"C4", "Eb4", "F4", "G4", "Bb4", "C5", "D4", "F#4"},
}

// durations is sampled uniformly; 0.5 appears twice so it is drawn twice as often.
var durations = []float64{0.25, 0.5, 0.5, 1}

// Styles returns every supported style in a stable order.
func Styles() []Style {
	return []Style{StyleClassical, StyleJazz}
}

// ParseStyle maps a case-insensitive name to a Style.
func ParseStyle(name string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := palettes[s]; !ok {
		return "", fmt.Errorf("music: unknown style %q: %w", name, apperr.ErrInvalidArgument)
	}
	return s, nil
}

// Palette returns a copy of the style's pitches.
func (s Style) Palette() ([]string, error) {
	p, ok := palettes[s]
	if !ok {
		return nil, fmt.Errorf("music: unknown style %q: %w", string(s), apperr.ErrInvalidArgument)
	}
	return append([]string(nil), p...), nil
}

// Durations returns the distinct note durations, in beats, that a generator can emit.
func Durations() []float64 {
	return []float64{0.25, 0.5, 1}
}
