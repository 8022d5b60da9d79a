// Package service coordinates the FAQ matcher, the sequence generator, the
// suggestion index and per-session state for the transport layers.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/faq"
	"github.com/starford/sowilo/internal/index"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/music"
	"github.com/starford/sowilo/internal/session"
)

// Publisher receives session notifications. *sse.Broker implements it.
type Publisher interface {
	PublishSessionEvent(kind, sessionID string, detail any)
}

type nopPublisher struct{}

func (nopPublisher) PublishSessionEvent(string, string, any) {}

// Limits bounds user-supplied generation parameters.
type Limits struct {
	MinLength     int
	MaxLength     int
	DefaultLength int
	DefaultStyle  music.Style
}

// DefaultLimits allows 20 to 100 notes, 50 by default.
var DefaultLimits = Limits{MinLength: 20, MaxLength: 100, DefaultLength: 50, DefaultStyle: music.StyleClassical}

// Delays are the simulated processing times of the chat and the generator.
type Delays struct {
	ChatReply  time.Duration
	Generation time.Duration
}

// Service is safe for concurrent use.
type Service struct {
	matcher    *faq.Matcher
	gen        *music.Generator
	sessions   *session.Store
	idx        index.FAQIndex
	events     Publisher
	limits     Limits
	delays     Delays
	sampleRate int
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIndex enables SearchFAQs.
func WithIndex(idx index.FAQIndex) Option {
	return func(s *Service) { s.idx = idx }
}

// WithPublisher sets the event sink.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithLimits overrides DefaultLimits.
func WithLimits(l Limits) Option {
	return func(s *Service) { s.limits = l }
}

// WithDelays sets the chat and generation delays. Both default to zero.
func WithDelays(d Delays) Option {
	return func(s *Service) { s.delays = d }
}

// WithSampleRate sets the WAV export sample rate.
func WithSampleRate(rate int) Option {
	return func(s *Service) { s.sampleRate = rate }
}

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service.
func New(matcher *faq.Matcher, gen *music.Generator, sessions *session.Store, opts ...Option) *Service {
	s := &Service{
		matcher:  matcher,
		gen:      gen,
		sessions: sessions,
		events:   nopPublisher{},
		limits:   DefaultLimits,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits returns the active generation limits.
func (s *Service) Limits() Limits {
	return s.limits
}

// Ask returns the best answer for question, or the fallback message.
func (s *Service) Ask(_ context.Context, question string) string {
	return s.matcher.Match(question)
}

// AskWithScore is Ask plus the winning score and matched question.
func (s *Service) AskWithScore(_ context.Context, question string) faq.Result {
	return s.matcher.Best(question)
}

// ListFAQs returns the knowledge base in order.
func (s *Service) ListFAQs(_ context.Context) []models.FAQRecord {
	return s.matcher.KnowledgeBase().Records()
}

// SearchFAQs suggests questions related to query.
func (s *Service) SearchFAQs(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is empty: %w", apperr.ErrInvalidArgument)
	}
	if s.idx == nil {
		return []index.SearchResult{}, nil
	}
	return s.idx.Search(query, limit)
}

// StyleInfo describes one style for listings.
type StyleInfo struct {
	Name    music.Style `json:"name"`
	Palette []string    `json:"palette"`
}

// Styles lists every style with its palette.
func (s *Service) Styles() []StyleInfo {
	out := make([]StyleInfo, 0, len(music.Styles()))
	for _, st := range music.Styles() {
		p, _ := st.Palette()
		out = append(out, StyleInfo{Name: st, Palette: p})
	}
	return out
}

// Generated is the result of a stateless generation.
type Generated struct {
	Style music.Style    `json:"style"`
	Notes music.Sequence `json:"notes"`
}

// ResolveRequest applies defaults to an empty style or zero length and checks
// the length against the configured bounds.
func (s *Service) ResolveRequest(style string, length int) (music.Style, int, error) {
	st := s.limits.DefaultStyle
	if strings.TrimSpace(style) != "" {
		parsed, err := music.ParseStyle(style)
		if err != nil {
			return "", 0, err
		}
		st = parsed
	}
	if length == 0 {
		length = s.limits.DefaultLength
	}
	if length < s.limits.MinLength || length > s.limits.MaxLength {
		return "", 0, fmt.Errorf("length %d outside [%d, %d]: %w",
			length, s.limits.MinLength, s.limits.MaxLength, apperr.ErrInvalidArgument)
	}
	return st, length, nil
}

// Generate samples a sequence without touching any session.
func (s *Service) Generate(_ context.Context, style string, length int) (Generated, error) {
	st, n, err := s.ResolveRequest(style, length)
	if err != nil {
		return Generated{}, err
	}
	seq, err := s.gen.Generate(st, n)
	if err != nil {
		return Generated{}, err
	}
	return Generated{Style: st, Notes: seq}, nil
}

// Encode writes seq in the named export format ("json", "midi" or "wav").
func (s *Service) Encode(w io.Writer, format string, style music.Style, seq music.Sequence) error {
	switch format {
	case FormatJSON:
		return music.WriteJSON(w, seq)
	case FormatMIDI:
		return music.WriteMIDI(w, seq, music.MIDIOptions{TrackName: string(style)})
	case FormatWAV:
		return music.RenderWAV(w, seq, music.WAVOptions{SampleRate: s.sampleRate})
	default:
		return fmt.Errorf("unknown export format %q: %w", format, apperr.ErrInvalidArgument)
	}
}
