package document

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-fc/meridian/internal/grid"
)

// Store is the persistence behaviour the service depends on.
type Store interface {
	Insert(ctx context.Context, doc *Document) error
	Update(ctx context.Context, doc *Document) error
	Get(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context) ([]Summary, error)
}

// SaveRequest is the inbound save payload.
type SaveRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Version int64  `json:"version" validate:"gte=0"`
	Body    Body   `json:"body"`
}

// Service validates and persists report documents.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a document service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// Create stores a new document and returns it with id and version set.
func (s *Service) Create(ctx context.Context, req SaveRequest) (*Document, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("document service not initialised")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("document: invalid save request: %w", err)
	}
	doc := &Document{
		ID:   uuid.NewString(),
		Name: req.Name,
		Body: normaliseBody(req.Body),
	}
	if err := s.store.Insert(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Save updates an existing document under its optimistic version.
func (s *Service) Save(ctx context.Context, id string, req SaveRequest) (*Document, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("document service not initialised")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("document: invalid save request: %w", err)
	}
	doc := &Document{
		ID:      id,
		Name:    req.Name,
		Body:    normaliseBody(req.Body),
		Version: req.Version,
	}
	if err := s.store.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get loads a document.
func (s *Service) Get(ctx context.Context, id string) (*Document, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("document service not initialised")
	}
	return s.store.Get(ctx, id)
}

// List returns document summaries.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("document service not initialised")
	}
	return s.store.List(ctx)
}

// normaliseBody guarantees a loadable workbook: a body saved without one
// gets an empty default so the designer can always open the document.
func normaliseBody(body Body) Body {
	if body.SpreadsheetData == nil || len(body.SpreadsheetData.Sheets) == 0 {
		body.SpreadsheetData = grid.NewWorkbook()
	}
	return body
}
