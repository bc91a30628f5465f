package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/godilite/feedback-dashboard/internal/ingest"
	"github.com/godilite/feedback-dashboard/internal/sentiment"
	"github.com/godilite/feedback-dashboard/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/godilite/feedback-dashboard/analysis"))

// FeedbackProcessor runs the normalization, classification and aggregation
// stages over one dataset.
type FeedbackProcessor struct {
	model      Model
	classifier *sentiment.Classifier
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

type Option func(*FeedbackProcessor)

// WithMetrics records run outcomes and durations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *FeedbackProcessor) { p.metrics = m }
}

// NewFeedbackProcessor creates a new FeedbackProcessor instance.
func NewFeedbackProcessor(model Model, logger *zap.Logger, opts ...Option) *FeedbackProcessor {
	if model == nil {
		panic("model must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	p := &FeedbackProcessor{
		model:      model,
		classifier: sentiment.NewClassifier(model),
		logger:     logger.Named("processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Digest returns the memoization key of t: its exact content together with the
// fixed column layout and the scoring model version.
func (p *FeedbackProcessor) Digest(t *ingest.Table) string {
	salt := strings.Join(feedback.AugmentedColumns(), ",") + "|" + p.model.ModelVersion()
	return t.Digest(salt)
}

// Process runs the whole pipeline. Ingestion problems are returned wrapped in
// feedback.ErrIngestion and no partial analysis is produced.
func (p *FeedbackProcessor) Process(ctx context.Context, t *ingest.Table) (a *feedback.Analysis, err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveAnalysis(time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	records, err := Normalize(t)
	if err != nil {
		p.logger.Warn("rejected dataset", zap.Error(err))
		return nil, err
	}

	augmented := p.Classify(records)
	agg := Summarize(augmented)
	for i := range augmented {
		augmented[i].Satisfaction = agg.Satisfaction[i]
	}

	digest := p.Digest(t)
	a = &feedback.Analysis{
		RunID:        uuid.NewSHA1(runNamespace, []byte(digest)).String(),
		Digest:       digest,
		Records:      augmented,
		Summary:      agg.Summary,
		Distribution: agg.Distribution,
	}

	p.logger.Info("processed dataset",
		zap.String("run_id", a.RunID),
		zap.Int("records", len(augmented)),
		zap.Int("positive", agg.Distribution.Positive),
		zap.Int("negative", agg.Distribution.Negative),
		zap.Int("neutral", agg.Distribution.Neutral),
		zap.Duration("elapsed", time.Since(start)))

	return a, nil
}

// Classify derives the sentiment of every feedback text. The input records are
// copied, never modified.
func (p *FeedbackProcessor) Classify(records []feedback.Record) []feedback.AugmentedRecord {
	out := make([]feedback.AugmentedRecord, len(records))
	for i, r := range records {
		out[i].Record = r
		for c, e := range r.Entries {
			out[i].Sentiments[c] = p.classifier.Label(e.Feedback)
		}
	}
	return out
}
