package music

import (
	"fmt"
	"strconv"

	"github.com/starford/sowilo/internal/apperr"
)

// DefaultFrequency is used for pitches missing from the frequency table.
const DefaultFrequency = 440.0

var frequencies = map[string]float64{
	"C4":  261.63,
	"D4":  293.66,
	"Eb4": 311.13,
	"E4":  329.63,
	"F4":  349.23,
	"F#4": 369.99,
	"G4":  392.00,
	"A4":  440.00,
	"Bb4": 466.16,
	"B4":  493.88,
	"C5":  523.25,
}

// Frequency returns the playback frequency in Hz for pitch, falling back to
// DefaultFrequency when the pitch is not in the table.
func Frequency(pitch string) float64 {
	if f, ok := frequencies[pitch]; ok {
		return f
	}
	return DefaultFrequency
}

var semitones = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// MIDIKey converts scientific pitch notation ("C4", "F#4", "Bb4") to a MIDI
// key number, with C4 = 60.
func MIDIKey(pitch string) (uint8, error) {
	if pitch == "" {
		return 0, fmt.Errorf("music: empty pitch: %w", apperr.ErrInvalidArgument)
	}
	base, ok := semitones[pitch[0]]
	if !ok {
		return 0, fmt.Errorf("music: bad pitch %q: %w", pitch, apperr.ErrInvalidArgument)
	}
	rest := pitch[1:]
	for len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		if rest[0] == '#' {
			base++
		} else {
			base--
		}
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("music: bad octave in %q: %w", pitch, apperr.ErrInvalidArgument)
	}
	key := (octave+1)*12 + base
	if key < 0 || key > 127 {
		return 0, fmt.Errorf("music: pitch %q out of MIDI range: %w", pitch, apperr.ErrInvalidArgument)
	}
	return uint8(key), nil
}
