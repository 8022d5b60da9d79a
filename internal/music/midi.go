package music

import (
	"fmt"
	"io"
	"math"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDIOptions controls Standard MIDI File export.
type MIDIOptions struct {
	// BPM defaults to 60 so one beat lasts one second, matching playback.
	BPM float64
	// Velocity defaults to 100.
	Velocity uint8
	// Channel is the zero-based MIDI channel.
	Channel uint8
	// TrackName is written as the sequence name meta event when set.
	TrackName string
}

const midiTicksPerQuarter = 960

func (o MIDIOptions) withDefaults() MIDIOptions {
	if o.BPM <= 0 {
		o.BPM = 60
	}
	if o.Velocity == 0 {
		o.Velocity = 100
	}
	return o
}

// WriteMIDI encodes seq as a single-track SMF (format 0) with one note per
// event, each held for its duration in quarter-note beats.
func WriteMIDI(w io.Writer, seq Sequence, opts MIDIOptions) error {
	opts = opts.withDefaults()
	clock := smf.MetricTicks(midiTicksPerQuarter)

	var tr smf.Track
	if opts.TrackName != "" {
		tr.Add(0, smf.MetaTrackSequenceName(opts.TrackName))
	}
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(opts.BPM))

	for _, ev := range seq {
		key, err := MIDIKey(ev.Pitch)
		if err != nil {
			return err
		}
		ticks := uint32(math.Round(ev.Duration * float64(clock.Resolution())))
		tr.Add(0, midi.NoteOn(opts.Channel, key, opts.Velocity))
		tr.Add(ticks, midi.NoteOff(opts.Channel, key))
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = clock
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("music: add midi track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("music: write midi: %w", err)
	}
	return nil
}
