package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-fc/meridian/internal/document"
	"github.com/meridian-fc/meridian/internal/report"
)

// DocumentGetter loads saved documents for background processing.
type DocumentGetter interface {
	Get(ctx context.Context, id string) (*document.Document, error)
}

// ReportWarmupJob pre-runs the aggregation query for a saved document so
// the first interactive Run hits a warm cache. The result sheet is
// discarded; only the cache write matters.
type ReportWarmupJob struct {
	Documents  DocumentGetter
	Aggregator report.Aggregator
	Logger     *slog.Logger
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(documents DocumentGetter, agg report.Aggregator, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{Documents: documents, Aggregator: agg, Logger: logger}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Documents == nil || j.Aggregator == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("document_id", payload.DocumentID))

	doc, err := j.Documents.Get(ctx, payload.DocumentID)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			logger.Warn("warmup target vanished")
			return asynq.SkipRetry
		}
		return err
	}

	sheet := doc.Body.SpreadsheetData.Active()
	if sheet == nil {
		return asynq.SkipRetry
	}
	entities := report.DiscoverEntities(sheet)
	accounts := report.DiscoverAccounts(sheet)
	if len(entities) == 0 && len(accounts) == 0 {
		logger.Info("nothing to warm, document has no mappable data")
		return nil
	}

	filters := doc.Body.Filters
	if payload.Period != "" {
		filters.Period = payload.Period
	}

	accountCodes := make([]string, 0, len(accounts))
	for _, a := range accounts {
		accountCodes = append(accountCodes, a.Code)
	}
	entityCodes := make([]string, 0, len(entities))
	for _, e := range entities {
		entityCodes = append(entityCodes, e.Code)
	}

	facts, err := j.Aggregator.Aggregate(ctx, accountCodes, entityCodes, filters.PeriodToken())
	if err != nil {
		logger.Error("warmup aggregation failed", slog.Any("error", err))
		return err
	}
	logger.Info("aggregation cache warmed", slog.Int("facts", len(facts)))
	return nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
