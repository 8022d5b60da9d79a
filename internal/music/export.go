package music

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/starford/sowilo/internal/apperr"
)

// Export artifact names and media types.
const (
	ExportFilename = "generated_music_sequence.json"
	ExportMIMEType = "application/json"

	MIDIFilename = "generated_music_sequence.mid"
	MIDIMIMEType = "audio/midi"

	WAVFilename = "generated_music_sequence.wav"
	WAVMIMEType = "audio/wav"
)

// MarshalExport encodes seq as a JSON array of {"note", "duration"} objects
// indented with two spaces.
func MarshalExport(seq Sequence) ([]byte, error) {
	if seq == nil {
		seq = Sequence{}
	}
	return json.MarshalIndent(seq, "", "  ")
}

// WriteJSON writes the export encoding of seq to w.
func WriteJSON(w io.Writer, seq Sequence) error {
	data, err := MarshalExport(seq)
	if err != nil {
		return fmt.Errorf("music: encode sequence: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("music: write sequence: %w", err)
	}
	return nil
}

// ReadJSON parses an exported sequence.
func ReadJSON(r io.Reader) (Sequence, error) {
	var seq Sequence
	if err := json.NewDecoder(r).Decode(&seq); err != nil {
		return nil, fmt.Errorf("music: decode sequence: %v: %w", err, apperr.ErrInvalidArgument)
	}
	for i, ev := range seq {
		if ev.Pitch == "" || ev.Duration <= 0 {
			return nil, fmt.Errorf("music: event %d is incomplete: %w", i, apperr.ErrInvalidArgument)
		}
	}
	if seq == nil {
		seq = Sequence{}
	}
	return seq, nil
}
