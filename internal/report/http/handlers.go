// Package http exposes report execution over the designer session API.
package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/meridian-fc/meridian/internal/designer"
	"github.com/meridian-fc/meridian/internal/grid"
	"github.com/meridian-fc/meridian/internal/platform/httpx"
	"github.com/meridian-fc/meridian/internal/report"
)

// Handler serves report execution requests.
type Handler struct {
	registry *designer.Registry
	executor *report.Executor
	logger   *slog.Logger

	runs singleflight.Group
}

// NewHandler constructs a report HTTP handler.
func NewHandler(registry *designer.Registry, executor *report.Executor, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, executor: executor, logger: logger}
}

// Routes mounts the run endpoint on a designer session subtree.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/sessions/{sessionID}/run", h.Run)
}

// Run executes the report for the session's active sheet. Identical runs
// in flight are coalesced per (session, filters) fingerprint; distinct
// fingerprints may interleave, last workbook write wins.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, err := h.registry.Get(sessionID)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}

	var filters report.Filters
	if err := httpx.DecodeJSON(r, &filters); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	key := runKey(sessionID, filters)
	value, err, _ := h.runs.Do(key, func() (any, error) {
		return h.execute(r.Context(), sess, filters)
	})
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNoMappableData):
			httpx.Problem(w, http.StatusUnprocessableEntity, "No Mappable Data", err.Error())
		case errors.Is(err, report.ErrExecutionFailed):
			h.logger.Error("report run failed", slog.String("session", sessionID), slog.Any("error", err))
			httpx.Problem(w, http.StatusBadGateway, "Report Execution Failed", err.Error())
		default:
			h.logger.Error("report run failed", slog.String("session", sessionID), slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, value)
}

func (h *Handler) execute(ctx context.Context, sess *designer.Session, filters report.Filters) (*grid.Sheet, error) {
	var result *grid.Sheet
	err := sess.Do(func(wb *grid.Workbook) error {
		sheet, err := h.executor.Run(ctx, wb, filters)
		if err != nil {
			return err
		}
		result = sheet
		return nil
	})
	return result, err
}

func runKey(sessionID string, filters report.Filters) string {
	raw, _ := json.Marshal(filters)
	sum := sha256.Sum256(append([]byte(sessionID+"|"), raw...))
	return hex.EncodeToString(sum[:16])
}
