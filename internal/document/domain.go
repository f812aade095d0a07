// Package document persists report documents: designer configuration, the
// workbook with its bindings, and the execution filters, as one JSON body.
package document

import (
	"errors"
	"time"

	"github.com/meridian-fc/meridian/internal/grid"
	"github.com/meridian-fc/meridian/internal/report"
)

var (
	// ErrNotFound indicates the document does not exist.
	ErrNotFound = errors.New("document: not found")
	// ErrVersionConflict indicates a save raced with another writer.
	ErrVersionConflict = errors.New("document: version conflict")
	// ErrDuplicateName indicates the document name is already taken.
	ErrDuplicateName = errors.New("document: name already in use")
)

// Config is the designer-level configuration saved with the document.
type Config struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	DimensionSet string `json:"dimensionSet,omitempty"`
}

// Body is the JSON-serialised payload of a document. Only the logical
// shape matters here; the column layout on disk is a single jsonb value.
type Body struct {
	Config          Config         `json:"config"`
	SpreadsheetData *grid.Workbook `json:"spreadsheetData"`
	Filters         report.Filters `json:"filters"`
}

// Document is a stored report document with its concurrency version.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Body      Body      `json:"body"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is the listing shape, body omitted.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}
