package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-fc/meridian/internal/document"
	"github.com/meridian-fc/meridian/internal/export"
)

// SnapshotStore records exported snapshots.
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, documentID string, payload []byte) error
}

// DocumentSnapshotJob exports a saved document's workbook to XLSX and
// records the payload for download history.
type DocumentSnapshotJob struct {
	Documents DocumentGetter
	Store     SnapshotStore
	Logger    *slog.Logger
}

// NewDocumentSnapshotJob wires dependencies for the snapshot handler.
func NewDocumentSnapshotJob(documents DocumentGetter, store SnapshotStore, logger *slog.Logger) *DocumentSnapshotJob {
	return &DocumentSnapshotJob{Documents: documents, Store: store, Logger: logger}
}

// Handle processes document snapshot tasks.
func (j *DocumentSnapshotJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Documents == nil || j.Store == nil {
		return errors.New("document snapshot: handler not configured")
	}
	var payload DocumentSnapshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("document_id", payload.DocumentID))

	doc, err := j.Documents.Get(ctx, payload.DocumentID)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			logger.Warn("snapshot target vanished")
			return asynq.SkipRetry
		}
		return err
	}

	data, err := export.WorkbookBytes(doc.Body.SpreadsheetData)
	if err != nil {
		logger.Error("snapshot export failed", slog.Any("error", err))
		return err
	}
	if err := j.Store.InsertSnapshot(ctx, doc.ID, data); err != nil {
		return err
	}
	logger.Info("snapshot recorded", slog.Int("bytes", len(data)))
	return nil
}

func (j *DocumentSnapshotJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
