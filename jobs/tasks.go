// Package jobs hosts the background worker: ledger cache invalidation
// and scheduled report warmup.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/IBSLPUNE/Bioprime/internal/jobs"
	"github.com/IBSLPUNE/Bioprime/internal/reports"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup pre-builds a report so the first morning request
	// hits a warm cache.
	TaskReportWarmup = "report:warmup"
	// TaskLedgerBump invalidates cached report results after ledger
	// writes.
	TaskLedgerBump = "ledger:bump"
)

// ReportWarmupPayload names the report to warm and the filter query to
// warm it with.
type ReportWarmupPayload struct {
	JobID string              `json:"job_id"`
	Slug  string              `json:"slug"`
	Query map[string][]string `json:"query"`
}

// LedgerBumpPayload records why the cache version was bumped.
type LedgerBumpPayload struct {
	JobID  string `json:"job_id"`
	Reason string `json:"reason"`
}

// NewReportWarmupTask constructs a warmup task.
func NewReportWarmupTask(slug string, query url.Values) (*asynq.Task, error) {
	data, err := json.Marshal(ReportWarmupPayload{
		JobID: uuid.NewString(),
		Slug:  slug,
		Query: query,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

// NewLedgerBumpTask constructs a cache invalidation task.
func NewLedgerBumpTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(LedgerBumpPayload{JobID: uuid.NewString(), Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerBump, data), nil
}

// WarmupHandler runs registered reports off-request.
type WarmupHandler struct {
	registry *reports.Registry
	metrics  *jobmetrics.Metrics
	logger   *slog.Logger
}

// NewWarmupHandler wires the warmup task handler.
func NewWarmupHandler(registry *reports.Registry, metrics *jobmetrics.Metrics, logger *slog.Logger) *WarmupHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WarmupHandler{registry: registry, metrics: metrics, logger: logger}
}

// Handle processes TaskReportWarmup tasks.
func (h *WarmupHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := h.metrics.Track(TaskReportWarmup)
	report, ok := h.registry.Get(payload.Slug)
	if !ok {
		h.logger.Warn("warmup for unknown report", slog.String("slug", payload.Slug))
		_ = tracker.End(nil)
		return asynq.SkipRetry
	}
	result, err := report.Run(ctx, url.Values(payload.Query))
	if err != nil {
		h.logger.Error("report warmup failed",
			slog.String("job_id", payload.JobID),
			slog.String("slug", payload.Slug),
			slog.Any("error", err))
		return tracker.End(err)
	}
	h.logger.Info("report warmed",
		slog.String("job_id", payload.JobID),
		slog.String("slug", payload.Slug),
		slog.Int("rows", len(result.Rows)))
	return tracker.End(nil)
}

// BumpHandler invalidates the shared report cache.
type BumpHandler struct {
	cache   *reports.Cache
	metrics *jobmetrics.Metrics
	logger  *slog.Logger
}

// NewBumpHandler wires the cache bump task handler.
func NewBumpHandler(cache *reports.Cache, metrics *jobmetrics.Metrics, logger *slog.Logger) *BumpHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BumpHandler{cache: cache, metrics: metrics, logger: logger}
}

// Handle processes TaskLedgerBump tasks.
func (h *BumpHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LedgerBumpPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := h.metrics.Track(TaskLedgerBump)
	if err := h.cache.Bump(ctx); err != nil {
		h.logger.Error("cache bump failed",
			slog.String("job_id", payload.JobID),
			slog.Any("error", err))
		return tracker.End(err)
	}
	h.logger.Info("report cache bumped",
		slog.String("job_id", payload.JobID),
		slog.String("reason", payload.Reason))
	return tracker.End(nil)
}
