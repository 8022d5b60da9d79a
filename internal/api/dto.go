package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/sowilo/internal/faq"
	"github.com/starford/sowilo/internal/index"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/music"
	"github.com/starford/sowilo/internal/service"
	"github.com/starford/sowilo/internal/session"
)

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question" example:"How do I submit my work?" validate:"required"`
}

// Validate implements validation.Validatable.
func (r *AskRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Question, validation.Required, validation.Length(1, 2000)),
	)
}

// MessageRequest is the body of POST /sessions/{id}/messages.
type MessageRequest struct {
	Text string `json:"text" example:"What are the perks?" validate:"required"`
}

// Validate implements validation.Validatable.
func (r *MessageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Text, validation.Required, validation.Length(1, 2000)),
	)
}

// GenerateRequest is the body of POST /generate and POST /sessions/{id}/sequence.
// Zero values select the configured defaults.
type GenerateRequest struct {
	Style  string `json:"style" example:"jazz"`
	Length int    `json:"length" example:"50"`
}

// Validate implements validation.Validatable.
func (r *GenerateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Length, validation.Min(0)),
		validation.Field(&r.Style, validation.Length(0, 32)),
	)
}

// AskResponse is the matcher outcome.
type AskResponse = faq.Result

// FAQListResponse wraps the knowledge base.
type FAQListResponse struct {
	FAQs  []models.FAQRecord `json:"faqs" validate:"required"`
	Total int                `json:"total" example:"10" validate:"required"`
}

// SearchResponse wraps suggested questions.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// StylesResponse lists styles with palettes.
type StylesResponse struct {
	Styles []service.StyleInfo `json:"styles" validate:"required"`
}

// GenerateResponse is a stateless generation result.
type GenerateResponse = service.Generated

// SessionResponse is the full session state.
type SessionResponse = session.State

// MessageResponse is the bot reply plus the updated session.
type MessageResponse = service.Reply

// SequenceResponse is a session's sequence with its preview.
type SequenceResponse = service.SequenceView

// PlaybackResponse is the scheduled timeline.
type PlaybackResponse = music.Playback
