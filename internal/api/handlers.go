package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sowilo/internal/service"
)

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Ask handles POST /api/ask.
//
//	@Summary		Answer a free-text question from the FAQ
//	@Tags			faq
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AskRequest	true	"Question"
//	@Success		200		{object}	AskResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/ask [post]
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.AskWithScore(r.Context(), req.Question))
}

// ListFAQs handles GET /api/faqs.
//
//	@Summary		List the knowledge base
//	@Tags			faq
//	@Produce		json
//	@Success		200	{object}	FAQListResponse
//	@Security		BearerAuth
//	@Router			/faqs [get]
func (h *Handler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs := h.svc.ListFAQs(r.Context())
	writeJSON(w, http.StatusOK, FAQListResponse{FAQs: faqs, Total: len(faqs)})
}

// SearchFAQs handles GET /api/faqs/search.
//
//	@Summary		Suggest questions matching a query
//	@Tags			faq
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/faqs/search [get]
func (h *Handler) SearchFAQs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.SearchFAQs(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search faqs", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Styles handles GET /api/styles.
//
//	@Summary		List generation styles and their palettes
//	@Tags			music
//	@Produce		json
//	@Success		200	{object}	StylesResponse
//	@Security		BearerAuth
//	@Router			/styles [get]
func (h *Handler) Styles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StylesResponse{Styles: h.svc.Styles()})
}

// Generate handles POST /api/generate.
//
//	@Summary		Generate a note sequence without a session
//	@Tags			music
//	@Accept			json
//	@Produce		json
//	@Param			body	body		GenerateRequest	true	"Style and length"
//	@Success		200		{object}	GenerateResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.svc.Generate(r.Context(), req.Style, req.Length)
	if err != nil {
		writeError(w, "generate", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateSession handles POST /api/sessions.
//
//	@Summary		Start a chat and composition session
//	@Tags			sessions
//	@Produce		json
//	@Success		201	{object}	SessionResponse
//	@Security		BearerAuth
//	@Router			/sessions [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.svc.CreateSession(r.Context()))
}

// GetSession handles GET /api/sessions/{id}.
//
//	@Summary		Get session state
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ResetSession handles DELETE /api/sessions/{id}.
//
//	@Summary		Clear the conversation and sequence of a session
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id} [delete]
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.ResetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "reset session", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// SendMessage handles POST /api/sessions/{id}/messages. The response is
// written after the chat delay.
//
//	@Summary		Send a chat message and receive the bot reply
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			body	body		MessageRequest	true	"Message"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/messages [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reply, err := h.svc.SendMessage(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, "send message", err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// GenerateSequence handles POST /api/sessions/{id}/sequence. The response is
// written after the generation delay.
//
//	@Summary		Generate and store a sequence for the session
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			body	body		GenerateRequest	true	"Style and length"
//	@Success		200		{object}	SessionResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/sequence [post]
func (h *Handler) GenerateSequence(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := h.svc.GenerateForSession(r.Context(), chi.URLParam(r, "id"), req.Style, req.Length)
	if err != nil {
		writeError(w, "generate sequence", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// GetSequence handles GET /api/sessions/{id}/sequence.
//
//	@Summary		Get the session's sequence and preview
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	SequenceResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/sequence [get]
func (h *Handler) GetSequence(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.SessionSequence(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get sequence", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// StartPlayback handles POST /api/sessions/{id}/playback.
//
//	@Summary		Schedule playback of the session's sequence
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	PlaybackResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/playback [post]
func (h *Handler) StartPlayback(w http.ResponseWriter, r *http.Request) {
	pb, err := h.svc.StartPlayback(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "start playback", err)
		return
	}
	writeJSON(w, http.StatusOK, pb)
}
