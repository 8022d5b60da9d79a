// Package session holds the explicit per-visitor application state: the chat
// transcript, the pending typing/generating flags, and the last generated
// sequence. Transitions are pure functions over State; Store keeps the
// current value for each session.
package session

import (
	"time"

	"github.com/starford/sowilo/internal/music"
)

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one chat transcript entry.
type Message struct {
	Text   string    `json:"text"`
	Sender Sender    `json:"sender"`
	At     time.Time `json:"at"`
}

// State is a snapshot of one session. Values returned by Store are copies and
// may be read freely.
//
// Epoch increases on every reset. Work started before a reset compares the
// epoch it captured with the current one and drops its result on mismatch.
type State struct {
	ID           string         `json:"id"`
	Epoch        uint64         `json:"epoch"`
	Messages     []Message      `json:"messages"`
	Typing       bool           `json:"typing"`
	Generating   bool           `json:"generating"`
	Style        music.Style    `json:"style,omitempty"`
	Length       int            `json:"length,omitempty"`
	Sequence     music.Sequence `json:"sequence,omitempty"`
	PlayingUntil time.Time      `json:"playing_until,omitzero"`
	CreatedAt    time.Time      `json:"created_at"`
}

// New returns a fresh state whose transcript opens with greeting.
func New(id, greeting string, now time.Time) State {
	s := State{ID: id, CreatedAt: now, Messages: []Message{}}
	if greeting != "" {
		s.Messages = append(s.Messages, Message{Text: greeting, Sender: SenderBot, At: now})
	}
	return s
}

// WithReset returns a fresh state for the same session under the next epoch.
// A generation that is still pending keeps the generating flag raised so no
// second one can start before it finishes.
func (s State) WithReset(greeting string, now time.Time) State {
	next := New(s.ID, greeting, now)
	next.Epoch = s.Epoch + 1
	next.Generating = s.Generating
	return next
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Messages = append([]Message(nil), s.Messages...)
	s.Sequence = s.Sequence.Clone()
	return s
}

// WithUserMessage appends a user message and raises the typing flag.
func (s State) WithUserMessage(text string, at time.Time) State {
	s = s.Clone()
	s.Messages = append(s.Messages, Message{Text: text, Sender: SenderUser, At: at})
	s.Typing = true
	return s
}

// WithBotMessage appends a bot reply and clears the typing flag.
func (s State) WithBotMessage(text string, at time.Time) State {
	s = s.Clone()
	s.Messages = append(s.Messages, Message{Text: text, Sender: SenderBot, At: at})
	s.Typing = false
	return s
}

// WithTyping sets the typing flag.
func (s State) WithTyping(typing bool) State {
	s = s.Clone()
	s.Typing = typing
	return s
}

// WithGenerating sets the generating flag.
func (s State) WithGenerating(generating bool) State {
	s = s.Clone()
	s.Generating = generating
	return s
}

// WithSequence stores a newly generated sequence, clears the generating flag
// and stops any playback of the previous sequence.
func (s State) WithSequence(style music.Style, length int, seq music.Sequence) State {
	s = s.Clone()
	s.Style = style
	s.Length = length
	s.Sequence = seq.Clone()
	s.Generating = false
	s.PlayingUntil = time.Time{}
	return s
}

// WithPlayback marks the sequence as playing until the given instant.
func (s State) WithPlayback(until time.Time) State {
	s = s.Clone()
	s.PlayingUntil = until
	return s
}

// Playing reports whether playback started earlier is still running at now.
func (s State) Playing(now time.Time) bool {
	return now.Before(s.PlayingUntil)
}

// HasSequence reports whether a sequence has been generated.
func (s State) HasSequence() bool {
	return len(s.Sequence) > 0
}
