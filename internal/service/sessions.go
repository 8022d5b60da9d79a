package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/faq"
	"github.com/starford/sowilo/internal/music"
	"github.com/starford/sowilo/internal/session"
	"github.com/starford/sowilo/internal/sse"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatMIDI = "midi"
	FormatWAV  = "wav"
)

// PreviewLength is how many pitches SessionSequence previews.
const PreviewLength = 20

// CreateSession opens a new session with the greeting as first message.
func (s *Service) CreateSession(_ context.Context) session.State {
	st := s.sessions.Create()
	s.logger.Debug("session created", slog.String("session", st.ID))
	return st
}

// GetSession returns the current state of a session.
func (s *Service) GetSession(_ context.Context, id string) (session.State, error) {
	return s.sessions.Get(id)
}

// errSessionReset reports that the session was reset while a reply or a
// generation was pending; the result is discarded.
func errSessionReset(id string) error {
	return fmt.Errorf("session %q was reset: %w", id, apperr.ErrConflict)
}

// ResetSession clears the transcript and sequence of a session. A pending
// reply or generation finishes without touching the new transcript.
func (s *Service) ResetSession(_ context.Context, id string) (session.State, error) {
	st, err := s.sessions.Reset(id)
	if err != nil {
		return session.State{}, err
	}
	s.events.PublishSessionEvent(sse.TypeSessionReset, id, nil)
	return st, nil
}

// Reply is the outcome of SendMessage.
type Reply struct {
	Message session.Message `json:"message"`
	Match   faq.Result      `json:"match"`
	State   session.State   `json:"session"`
}

// SendMessage records the user's text, waits for the chat delay and records
// the bot's answer. If ctx ends during the delay the typing flag is cleared,
// no reply is recorded and ctx.Err() is returned. If the session is reset
// during the delay the reply is dropped and apperr.ErrConflict is returned.
func (s *Service) SendMessage(ctx context.Context, id, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, fmt.Errorf("message is empty: %w", apperr.ErrInvalidArgument)
	}

	started, err := s.sessions.Update(id, func(st session.State) (session.State, error) {
		return st.WithUserMessage(text, s.sessions.Now()), nil
	})
	if err != nil {
		return Reply{}, err
	}
	epoch := started.Epoch
	s.events.PublishSessionEvent(sse.TypeChatTyping, id, nil)

	if err := session.Wait(ctx, s.delays.ChatReply); err != nil {
		_, _ = s.sessions.Update(id, func(st session.State) (session.State, error) {
			if st.Epoch != epoch {
				return st, errSessionReset(id)
			}
			return st.WithTyping(false), nil
		})
		s.logger.Info("chat reply cancelled", slog.String("session", id), slog.String("error", err.Error()))
		return Reply{}, err
	}

	res := s.matcher.Best(text)
	msg := session.Message{Text: res.Answer, Sender: session.SenderBot, At: s.sessions.Now()}
	st, err := s.sessions.Update(id, func(st session.State) (session.State, error) {
		if st.Epoch != epoch {
			return st, errSessionReset(id)
		}
		return st.WithBotMessage(msg.Text, msg.At), nil
	})
	if err != nil {
		s.logger.Info("chat reply dropped", slog.String("session", id), slog.String("error", err.Error()))
		return Reply{}, err
	}
	s.events.PublishSessionEvent(sse.TypeChatReply, id, map[string]any{
		"text":  res.Answer,
		"found": res.Found,
	})
	return Reply{Message: msg, Match: res, State: st}, nil
}

// GenerateForSession generates a sequence after the generation delay and
// stores it on the session. Only one generation per session may be pending,
// resets included; a second concurrent call fails with apperr.ErrConflict.
// A generation that outlives a reset clears the generating flag, stores
// nothing and returns apperr.ErrConflict.
func (s *Service) GenerateForSession(ctx context.Context, id, style string, length int) (session.State, error) {
	st, n, err := s.ResolveRequest(style, length)
	if err != nil {
		return session.State{}, err
	}

	started, err := s.sessions.Update(id, func(cur session.State) (session.State, error) {
		if cur.Generating {
			return cur, fmt.Errorf("generation already in progress: %w", apperr.ErrConflict)
		}
		return cur.WithGenerating(true), nil
	})
	if err != nil {
		return session.State{}, err
	}
	epoch := started.Epoch
	s.events.PublishSessionEvent(sse.TypeMusicGenerating, id, map[string]any{"style": st, "length": n})

	// The generating flag survives resets, so it always belongs to this call.
	release := func() {
		_, _ = s.sessions.Update(id, func(cur session.State) (session.State, error) {
			return cur.WithGenerating(false), nil
		})
	}

	if err := session.Wait(ctx, s.delays.Generation); err != nil {
		release()
		s.logger.Info("generation cancelled", slog.String("session", id), slog.String("error", err.Error()))
		return session.State{}, err
	}

	seq, err := s.gen.Generate(st, n)
	if err != nil {
		release()
		return session.State{}, err
	}
	var stale bool
	next, err := s.sessions.Update(id, func(cur session.State) (session.State, error) {
		if cur.Epoch != epoch {
			stale = true
			return cur.WithGenerating(false), nil
		}
		return cur.WithSequence(st, n, seq), nil
	})
	if err != nil {
		return session.State{}, err
	}
	if stale {
		s.logger.Info("generation dropped after reset", slog.String("session", id))
		return session.State{}, errSessionReset(id)
	}
	s.events.PublishSessionEvent(sse.TypeMusicGenerated, id, map[string]any{"style": st, "length": n})
	return next, nil
}

// SequenceView is a session's sequence with the preview shown beside it.
type SequenceView struct {
	Style        music.Style    `json:"style"`
	Length       int            `json:"length"`
	Notes        music.Sequence `json:"notes"`
	Preview      []string       `json:"preview"`
	Remaining    int            `json:"remaining"`
	TotalSeconds float64        `json:"total_seconds"`
	Playing      bool           `json:"playing"`
}

// SessionSequence returns the session's last sequence, or apperr.ErrNotFound
// when nothing has been generated yet.
func (s *Service) SessionSequence(_ context.Context, id string) (SequenceView, error) {
	st, err := s.sequenceState(id)
	if err != nil {
		return SequenceView{}, err
	}
	pitches := st.Sequence.Pitches()
	preview := pitches[:min(PreviewLength, len(pitches))]
	return SequenceView{
		Style:        st.Style,
		Length:       len(st.Sequence),
		Notes:        st.Sequence,
		Preview:      preview,
		Remaining:    len(pitches) - len(preview),
		TotalSeconds: st.Sequence.TotalBeats() * music.SecondsPerBeat,
		Playing:      st.Playing(s.sessions.Now()),
	}, nil
}

// StartPlayback schedules the session's sequence and marks it as playing for
// the schedule's total duration.
func (s *Service) StartPlayback(_ context.Context, id string) (music.Playback, error) {
	st, err := s.sequenceState(id)
	if err != nil {
		return music.Playback{}, err
	}
	pb := music.Schedule(st.Sequence)
	until := s.sessions.Now().Add(pb.TotalDuration())
	if _, err := s.sessions.Update(id, func(cur session.State) (session.State, error) {
		return cur.WithPlayback(until), nil
	}); err != nil {
		return music.Playback{}, err
	}
	return pb, nil
}

// ExportSequence encodes the session's sequence in format.
func (s *Service) ExportSequence(_ context.Context, id, format string) ([]byte, error) {
	st, err := s.sequenceState(id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.Encode(&buf, format, st.Style, st.Sequence); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) sequenceState(id string) (session.State, error) {
	st, err := s.sessions.Get(id)
	if err != nil {
		return session.State{}, err
	}
	if !st.HasSequence() {
		return session.State{}, fmt.Errorf("session %q has no sequence: %w", id, apperr.ErrNotFound)
	}
	return st, nil
}
