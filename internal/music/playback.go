package music

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

// SecondsPerBeat converts sequence durations to wall-clock time for playback.
const SecondsPerBeat = 1.0

// Tone is one scheduled note in a playback timeline. Times are in seconds
// from the start of playback.
type Tone struct {
	Pitch     string  `json:"note"`
	Frequency float64 `json:"frequency"`
	Start     float64 `json:"start"`
	Duration  float64 `json:"duration"`
}

// Playback is the timeline produced by Schedule.
type Playback struct {
	Tones []Tone  `json:"tones"`
	Total float64 `json:"total_seconds"`
}

// TotalDuration returns Total as a time.Duration.
func (p Playback) TotalDuration() time.Duration {
	return time.Duration(p.Total * float64(time.Second))
}

// Schedule lays the events out back to back: each tone starts at the running
// cursor and the cursor advances by its duration. Total is the summed length.
func Schedule(seq Sequence) Playback {
	tones := make([]Tone, len(seq))
	cursor := 0.0
	for i, ev := range seq {
		d := ev.Duration * SecondsPerBeat
		tones[i] = Tone{
			Pitch:     ev.Pitch,
			Frequency: Frequency(ev.Pitch),
			Start:     cursor,
			Duration:  d,
		}
		cursor += d
	}
	return Playback{Tones: tones, Total: cursor}
}

// WAVOptions controls offline rendering.
type WAVOptions struct {
	// SampleRate defaults to 44100.
	SampleRate int
}

// Envelope per tone: the gain decays exponentially from startGain to endGain.
const (
	startGain = 0.3
	endGain   = 0.01
)

// SampleCount returns the number of samples one tone of d seconds occupies.
func SampleCount(d float64, rate int) int {
	return int(math.Round(d * float64(rate)))
}

// RenderWAV synthesises the playback timeline of seq as 16-bit mono PCM sine
// tones and writes a RIFF/WAVE file to w.
func RenderWAV(w io.Writer, seq Sequence, opts WAVOptions) error {
	rate := opts.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	pb := Schedule(seq)

	samples := 0
	for _, t := range pb.Tones {
		samples += SampleCount(t.Duration, rate)
	}
	dataLen := uint32(samples * 2)

	bw := bufio.NewWriter(w)
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataLen,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(rate),
		ByteRate:      uint32(rate * 2),
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataLen,
	}
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("music: write wav header: %w", err)
	}

	var buf [2]byte
	for _, t := range pb.Tones {
		n := SampleCount(t.Duration, rate)
		for i := 0; i < n; i++ {
			x := float64(i) / float64(rate)
			gain := startGain * math.Pow(endGain/startGain, x/t.Duration)
			v := math.Sin(2*math.Pi*t.Frequency*x) * gain
			binary.LittleEndian.PutUint16(buf[:], uint16(int16(v*math.MaxInt16)))
			if _, err := bw.Write(buf[:]); err != nil {
				return fmt.Errorf("music: write wav samples: %w", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("music: flush wav: %w", err)
	}
	return nil
}

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}
