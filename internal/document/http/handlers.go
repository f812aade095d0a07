// Package http exposes report document persistence.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-fc/meridian/internal/document"
	"github.com/meridian-fc/meridian/internal/platform/httpx"
	"github.com/meridian-fc/meridian/jobs"
)

// Handler serves the document CRUD endpoints.
type Handler struct {
	service *document.Service
	logger  *slog.Logger
	jobs    *jobs.Client
}

// NewHandler constructs a document HTTP handler. A nil jobs client skips
// background enqueueing.
func NewHandler(service *document.Service, logger *slog.Logger, jobsClient *jobs.Client) *Handler {
	return &Handler{service: service, logger: logger, jobs: jobsClient}
}

// Routes mounts the document endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{documentID}", h.Get)
	r.Put("/{documentID}", h.Save)
}

// List returns document summaries.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list documents", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if docs == nil {
		docs = []document.Summary{}
	}
	httpx.JSON(w, http.StatusOK, docs)
}

// Create stores a new document.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req document.SaveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	doc, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondSaveError(w, err)
		return
	}
	h.enqueueFollowups(r, doc.ID)
	httpx.JSON(w, http.StatusCreated, doc)
}

// Get loads one document with its body.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Get(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get document", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

// Save updates a document under its optimistic version.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req document.SaveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	doc, err := h.service.Save(r.Context(), chi.URLParam(r, "documentID"), req)
	if err != nil {
		h.respondSaveError(w, err)
		return
	}
	h.enqueueFollowups(r, doc.ID)
	httpx.JSON(w, http.StatusOK, doc)
}

// enqueueFollowups queues the snapshot export and cache warmup for a
// freshly saved document. Enqueue failures only warn; the save stands.
func (h *Handler) enqueueFollowups(r *http.Request, documentID string) {
	if h.jobs == nil {
		return
	}
	if _, err := h.jobs.EnqueueSnapshot(r.Context(), jobs.DocumentSnapshotPayload{DocumentID: documentID}); err != nil {
		h.logger.Warn("enqueue document snapshot", slog.Any("error", err))
	}
	if _, err := h.jobs.EnqueueWarmup(r.Context(), jobs.ReportWarmupPayload{DocumentID: documentID}); err != nil {
		h.logger.Warn("enqueue report warmup", slog.Any("error", err))
	}
}

func (h *Handler) respondSaveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, document.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, document.ErrVersionConflict):
		httpx.Problem(w, http.StatusConflict, "Version Conflict", err.Error())
	case errors.Is(err, document.ErrDuplicateName):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case strings.Contains(err.Error(), "invalid save request"):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("save document", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
