package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/service"
)

const (
	MsgNoteAdded    = "Note added successfully"
	MsgNoteUpdated  = "Note updated successfully"
	MsgNoteDeleted  = "Note deleted successfully"
	MsgNotesListed  = "All notes retrieved successfully"
	MsgNotesMatched = "Notes matching the search query retrieved successfully"
)

// NoteHandler serves the note endpoints. All of them sit behind
// auth.RequireAuth; the owner of every operation is the user in the token,
// never a value from the request.
type NoteHandler struct {
	notes    *service.NoteService
	validate *Validator
	logger   *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(notes *service.NoteService, validate *Validator, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		notes:    notes,
		validate: validate,
		logger:   logger,
	}
}

type noteResponse struct {
	envelope
	Note *model.Note `json:"note"`
}

type notesResponse struct {
	envelope
	Notes []model.Note `json:"notes"`
}

// ownerID returns the id of the authenticated caller. RequireAuth guarantees
// a user is present.
func ownerID(r *http.Request) string {
	u, _ := auth.UserFromContext(r.Context())
	return u.ID
}

type addNoteRequest struct {
	Title   string   `json:"title"   validate:"required" label:"Title"`
	Content string   `json:"content" validate:"required" label:"Content"`
	Tags    []string `json:"tags"`
}

// HandleAdd creates a note for the caller.
//
// HTTP: POST /add-note
// REQUEST BODY: {"title": "Groceries", "content": "Milk, eggs", "tags": ["home"]}
func (h *NoteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Check(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	note, err := h.notes.Add(r.Context(), ownerID(r), req.Title, req.Content, req.Tags)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{envelope: ok(MsgNoteAdded), Note: note})
}

// editNoteRequest has no validation tags: every field is optional.
// encoding/json leaves Tags nil for an absent key or null, and makes it a
// non-nil slice for [], which is what service.NoteChanges expects.
type editNoteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	IsPinned bool     `json:"isPinned"`
}

// HandleEdit applies a partial update to one of the caller's notes.
//
// HTTP: PUT /edit-note/{noteId}
func (h *NoteHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	var req editNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.Edit(r.Context(), ownerID(r), chi.URLParam(r, "noteId"), service.NoteChanges{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{envelope: ok(MsgNoteUpdated), Note: note})
}

// HandleList returns all of the caller's notes, pinned first.
//
// HTTP: GET /get-all-notes
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context(), ownerID(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{envelope: ok(MsgNotesListed), Notes: notes})
}

// HandleDelete removes one of the caller's notes.
//
// HTTP: DELETE /delete-note/{noteId}
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), ownerID(r), chi.URLParam(r, "noteId")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ok(MsgNoteDeleted))
}

type pinRequest struct {
	IsPinned bool `json:"isPinned"`
}

// HandleUpdatePinned sets the pinned flag to exactly the value sent. A body
// without isPinned unpins.
//
// HTTP: PUT /update-note-pinned/{noteId}
// REQUEST BODY: {"isPinned": true}
func (h *NoteHandler) HandleUpdatePinned(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.SetPinned(r.Context(), ownerID(r), chi.URLParam(r, "noteId"), req.IsPinned)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{envelope: ok(MsgNoteUpdated), Note: note})
}

// HandleSearch returns the caller's notes whose title or content contains
// the query, ignoring case.
//
// HTTP: GET /search-notes?query=milk
func (h *NoteHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.Search(r.Context(), ownerID(r), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{envelope: ok(MsgNotesMatched), Notes: notes})
}
