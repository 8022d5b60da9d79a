package music

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/starford/sowilo/internal/apperr"
)

// NoteEvent is one (pitch, duration) pair. Duration is in beats.
type NoteEvent struct {
	Pitch    string  `json:"note"`
	Duration float64 `json:"duration"`
}

// Sequence is an ordered list of note events.
type Sequence []NoteEvent

// Clone returns an independent copy of s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	return append(Sequence(nil), s...)
}

// TotalBeats sums the durations of every event.
func (s Sequence) TotalBeats() float64 {
	var total float64
	for _, ev := range s {
		total += ev.Duration
	}
	return total
}

// Pitches returns the pitch names in order.
func (s Sequence) Pitches() []string {
	out := make([]string, len(s))
	for i, ev := range s {
		out[i] = ev.Pitch
	}
	return out
}

// Generator samples note sequences. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithSource makes the generator draw from src instead of the global source.
func WithSource(src rand.Source) GeneratorOption {
	return func(g *Generator) {
		g.rng = rand.New(src)
	}
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns length independently sampled events: a pitch drawn
// uniformly from the style's palette and a duration drawn from the
// repetition-weighted duration set.
func (g *Generator) Generate(style Style, length int) (Sequence, error) {
	palette, ok := palettes[style]
	if !ok {
		return nil, fmt.Errorf("music: unknown style %q: %w", string(style), apperr.ErrInvalidArgument)
	}
	if length <= 0 {
		return nil, fmt.Errorf("music: length must be positive, got %d: %w", length, apperr.ErrInvalidArgument)
	}

	seq := make(Sequence, length)
	g.draw(func(intN func(int) int) {
		for i := range seq {
			seq[i] = NoteEvent{
				Pitch:    palette[intN(len(palette))],
				Duration: durations[intN(len(durations))],
			}
		}
	})
	return seq, nil
}

func (g *Generator) draw(fn func(intN func(int) int)) {
	if g.rng == nil {
		fn(rand.IntN)
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.rng.IntN)
}
