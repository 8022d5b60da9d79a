package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sowilo/internal/checksum"
	"github.com/starford/sowilo/internal/music"
	"github.com/starford/sowilo/internal/service"
)

type exportFormat struct {
	name     string
	filename string
	mime     string
}

var (
	jsonExport = exportFormat{service.FormatJSON, music.ExportFilename, music.ExportMIMEType}
	midiExport = exportFormat{service.FormatMIDI, music.MIDIFilename, music.MIDIMIMEType}
	wavExport  = exportFormat{service.FormatWAV, music.WAVFilename, music.WAVMIMEType}
)

// ExportJSON handles GET /api/sessions/{id}/sequence/export.
//
//	@Summary		Download the sequence as JSON
//	@Tags			export
//	@Produce		application/json
//	@Param			id	path	string	true	"Session ID"
//	@Success		200	{file}	file
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/sequence/export [get]
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, jsonExport)
}

// ExportMIDI handles GET /api/sessions/{id}/sequence/midi.
//
//	@Summary		Download the sequence as a Standard MIDI File
//	@Tags			export
//	@Produce		audio/midi
//	@Param			id	path	string	true	"Session ID"
//	@Success		200	{file}	file
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/sequence/midi [get]
func (h *Handler) ExportMIDI(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, midiExport)
}

// ExportWAV handles GET /api/sessions/{id}/sequence/wav.
//
//	@Summary		Download the sequence rendered as WAV audio
//	@Tags			export
//	@Produce		audio/wav
//	@Param			id	path	string	true	"Session ID"
//	@Success		200	{file}	file
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/sequence/wav [get]
func (h *Handler) ExportWAV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, wavExport)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, f exportFormat) {
	data, err := h.svc.ExportSequence(r.Context(), chi.URLParam(r, "id"), f.name)
	if err != nil {
		writeError(w, "export "+f.name, err)
		return
	}

	etag := checksum.ETag(data)
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", f.mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// etagMatches applies If-None-Match: "*" matches anything, otherwise one of
// the comma-separated tags must equal etag under weak comparison.
func etagMatches(header, etag string) bool {
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == etag {
			return true
		}
	}
	return false
}
