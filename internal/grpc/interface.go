package grpc

import (
	"context"
	"time"

	"github.com/godilite/feedback-dashboard/internal/dashboard"
	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/godilite/feedback-dashboard/internal/ingest"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type Processor interface {
	Digest(t *ingest.Table) string
	Process(ctx context.Context, t *ingest.Table) (*feedback.Analysis, error)
}

type AnalysisStore interface {
	SaveCurrent(ctx context.Context, a *feedback.Analysis) error
	LoadCurrent(ctx context.Context) (*feedback.Analysis, error)
}

type ViewRenderer interface {
	Render(v dashboard.View, a *feedback.Analysis) (any, error)
}
