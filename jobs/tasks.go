// Package jobs defines the asynq background tasks: warming the
// aggregation cache for saved documents and recording XLSX snapshots.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeReportWarmup pre-populates the aggregation cache for a
	// saved document's discovered code sets.
	TaskTypeReportWarmup = "report:warmup"
	// TaskTypeDocumentSnapshot exports a saved document to XLSX and
	// stores the payload.
	TaskTypeDocumentSnapshot = "document:snapshot"
)

// ReportWarmupPayload scopes a warmup run.
type ReportWarmupPayload struct {
	DocumentID string `json:"document_id"`
	Period     string `json:"period,omitempty"`
}

// DocumentSnapshotPayload identifies the document to snapshot.
type DocumentSnapshotPayload struct {
	DocumentID string `json:"document_id"`
}

// NewReportWarmupTask constructs a warmup task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	if payload.DocumentID == "" {
		return nil, fmt.Errorf("jobs: warmup requires a document id")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReportWarmup, data), nil
}

// NewDocumentSnapshotTask constructs a snapshot task.
func NewDocumentSnapshotTask(payload DocumentSnapshotPayload) (*asynq.Task, error) {
	if payload.DocumentID == "" {
		return nil, fmt.Errorf("jobs: snapshot requires a document id")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDocumentSnapshot, data), nil
}
