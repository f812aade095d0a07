package hierarchy

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-fc/meridian/internal/platform/httpx"
)

// Handler serves the dimension directory endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a hierarchy HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes mounts the directory endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{kind}", h.Tree)
	r.Get("/{kind}/{memberID}", h.Subtree)
}

// Tree returns the full tree for a dimension family.
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	kind := DimensionKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "kind must be account or entity")
		return
	}
	tree, err := h.service.Tree(r.Context(), kind)
	if err != nil {
		h.logger.Error("load dimension tree", slog.String("kind", string(kind)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tree)
}

// Subtree returns the subtree rooted at one member.
func (h *Handler) Subtree(w http.ResponseWriter, r *http.Request) {
	kind := DimensionKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "kind must be account or entity")
		return
	}
	node, err := h.service.Subtree(r.Context(), kind, chi.URLParam(r, "memberID"))
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("load dimension subtree", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, node)
}
