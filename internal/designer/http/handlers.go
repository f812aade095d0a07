// Package http exposes the designer session API: workbook lifecycle,
// drag-and-drop placement, cell edits and XLSX export.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-fc/meridian/internal/designer"
	"github.com/meridian-fc/meridian/internal/document"
	"github.com/meridian-fc/meridian/internal/export"
	"github.com/meridian-fc/meridian/internal/grid"
	"github.com/meridian-fc/meridian/internal/hierarchy"
	"github.com/meridian-fc/meridian/internal/platform/httpx"
)

// DocumentLoader fetches saved documents for loading into a session.
type DocumentLoader interface {
	Get(ctx context.Context, id string) (*document.Document, error)
}

// Handler serves the designer session endpoints.
type Handler struct {
	registry  *designer.Registry
	documents DocumentLoader
	logger    *slog.Logger
	validate  *validator.Validate
}

// NewHandler constructs a designer HTTP handler.
func NewHandler(registry *designer.Registry, documents DocumentLoader, logger *slog.Logger) *Handler {
	return &Handler{
		registry:  registry,
		documents: documents,
		logger:    logger,
		validate:  validator.New(),
	}
}

type dropRequest struct {
	Payload *hierarchy.DimensionNode `json:"payload" validate:"required"`
	Target  designer.DropTarget      `json:"target"`
	Options designer.DropOptions     `json:"options"`
}

type cellEditRequest struct {
	Row   int `json:"row" validate:"gte=0"`
	Col   int `json:"col" validate:"gte=0"`
	Value any `json:"value"`
}

type sheetRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type selectSheetRequest struct {
	Index int `json:"index" validate:"gte=0"`
}

type loadRequest struct {
	DocumentID string `json:"documentId" validate:"required,uuid"`
}

// CreateSession opens a designer session with a fresh workbook.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.registry.Create()
	httpx.JSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

// CloseSession discards a designer session.
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.registry.Close(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// GetWorkbook returns the session's workbook document model.
func (h *Handler) GetWorkbook(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(sess *designer.Session) {
		_ = sess.Do(func(wb *grid.Workbook) error {
			httpx.JSON(w, http.StatusOK, wb)
			return nil
		})
	})
}

// Drop applies a drag-and-drop payload to the active sheet. Payload
// validation happens here at the boundary; the core only sees resolved
// targets.
func (h *Handler) Drop(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(sess *designer.Session) {
		var req dropRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			// Malformed drag payloads are dropped silently by convention.
			h.logger.Warn("unparsable drop payload", slog.Any("error", err))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		if !req.Payload.Kind.Valid() {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "payload kind must be account or entity")
			return
		}
		if req.Payload.IsGroup() {
			if !req.Options.Mode.Valid() {
				req.Options.Mode = designer.ModeFullTree
			}
			if !req.Options.Placement.DisplayMode.Valid() {
				req.Options.Placement.DisplayMode = designer.DisplayBothH
			}
		}
		err := sess.Do(func(wb *grid.Workbook) error {
			return designer.RouteDrop(wb.Active(), req.Payload, req.Target, req.Options)
		})
		switch {
		case errors.Is(err, designer.ErrInvalidAnchor):
			// Out-of-grid drops land nowhere, not a user-facing failure.
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, designer.ErrEmptyTarget):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		case err != nil:
			h.logger.Error("drop failed", slog.Any("error", err))
			httpx.RespondError(w, err)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
}

// SetCell writes one cell, firing binding cleanup when it empties.
func (h *Handler) SetCell(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(sess *designer.Session) {
		var req cellEditRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		_ = sess.Do(func(wb *grid.Workbook) error {
			wb.Active().SetValue(req.Row, req.Col, req.Value)
			return nil
		})
		w.WriteHeader(http.StatusNoContent)
	})
}

// AddSheet appends a sheet and selects it.
func (h *Handler) AddSheet(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(sess *designer.Session) {
		var req sheetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		_ = sess.Do(func(wb *grid.Workbook) error {
			sheet := wb.AddSheet(req.Name)
			httpx.JSON(w, http.StatusCreated, map[string]string{"id": sheet.ID})
			return nil
		})
	})
}

// SelectSheet switches the active sheet.
func (h *Handler) SelectSheet(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(sess *designer.Session) {
		var req selectSheetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		err := sess.Do(func(wb *grid.Workbook) error {
			return wb.SelectSheet(req.Index)
		})
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// RemoveSheet deletes a sheet; the last sheet cannot be removed.
func (h *Handler) RemoveSheet(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(sess *designer.Session) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "sheet index must be numeric")
			return
		}
		err = sess.Do(func(wb *grid.Workbook) error {
			return wb.RemoveSheet(idx)
		})
		if err != nil {
			httpx.Problem(w, http.StatusConflict, "Sheet Removal Refused", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// RemoveRow deletes a row from the active sheet, re-keying bindings.
func (h *Handler) RemoveRow(w http.ResponseWriter, r *http.Request) {
	h.removeAxis(w, r, func(sheet *grid.Sheet, idx int) { sheet.RemoveRow(idx) })
}

// RemoveColumn deletes a column from the active sheet, re-keying bindings.
func (h *Handler) RemoveColumn(w http.ResponseWriter, r *http.Request) {
	h.removeAxis(w, r, func(sheet *grid.Sheet, idx int) { sheet.RemoveColumn(idx) })
}

func (h *Handler) removeAxis(w http.ResponseWriter, r *http.Request, remove func(*grid.Sheet, int)) {
	h.withSession(w, r, func(sess *designer.Session) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil || idx < 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "index must be a non-negative number")
			return
		}
		_ = sess.Do(func(wb *grid.Workbook) error {
			remove(wb.Active(), idx)
			return nil
		})
		w.WriteHeader(http.StatusNoContent)
	})
}

// LoadDocument replaces the session workbook with a saved document's.
func (h *Handler) LoadDocument(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(sess *designer.Session) {
		var req loadRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		doc, err := h.documents.Get(r.Context(), req.DocumentID)
		if err != nil {
			if errors.Is(err, document.ErrNotFound) {
				httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
				return
			}
			h.logger.Error("load document", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		sess.Replace(doc.Body.SpreadsheetData)
		httpx.JSON(w, http.StatusOK, doc.Body)
	})
}

// ExportXLSX streams the session workbook as an XLSX file.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(sess *designer.Session) {
		var payload []byte
		err := sess.Do(func(wb *grid.Workbook) error {
			var err error
			payload, err = export.WorkbookBytes(wb)
			return err
		})
		if err != nil {
			h.logger.Error("export workbook", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Export Failed", "")
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="workbook.xlsx"`)
		_, _ = w.Write(payload)
	})
}

func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(*designer.Session)) {
	sess, err := h.registry.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	fn(sess)
}
