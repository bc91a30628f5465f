package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	pb "github.com/godilite/feedback-dashboard/api/v1"
	"github.com/godilite/feedback-dashboard/internal/dashboard"
	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/godilite/feedback-dashboard/internal/ingest"
	"github.com/godilite/feedback-dashboard/internal/report"
	"github.com/godilite/feedback-dashboard/internal/repository"
	"github.com/godilite/feedback-dashboard/pkg/cache"
	"github.com/godilite/feedback-dashboard/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 30 * time.Second
)

type CacheKeyType string

const cacheKeyAnalysis CacheKeyType = "grpc:analysis"

const (
	sourceUpload  = "upload"
	sourceDefault = "default"
)

var (
	errNoDefaultDataset  = errors.New("no default dataset configured")
	errDefaultUnreadable = errors.New("default dataset unreadable")
)

// HandlerOptions configures optional handler behavior.
type HandlerOptions struct {
	CacheTTL       time.Duration
	DefaultDataset string
	Metrics        *metrics.Metrics
}

type GRPCHandlers struct {
	processor      Processor
	store          AnalysisStore
	views          ViewRenderer
	cache          Cacher
	metrics        *metrics.Metrics
	logger         *zap.Logger
	sfGroup        singleflight.Group
	cacheTTL       time.Duration
	defaultDataset string
}

var _ pb.FeedbackDashboardServer = (*GRPCHandlers)(nil)

// NewGRPCHandlers initializes the gRPC handlers. A nil cache disables
// memoization.
func NewGRPCHandlers(processor Processor, store AnalysisStore, views ViewRenderer, c Cacher, logger *zap.Logger, opts HandlerOptions) *GRPCHandlers {
	if processor == nil {
		panic("nil Processor provided to NewGRPCHandlers")
	}
	if store == nil {
		panic("nil AnalysisStore provided to NewGRPCHandlers")
	}
	if views == nil {
		panic("nil ViewRenderer provided to NewGRPCHandlers")
	}
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		processor:      processor,
		store:          store,
		views:          views,
		cache:          c,
		metrics:        opts.Metrics,
		logger:         logger.Named("grpc-handler"),
		cacheTTL:       ttl,
		defaultDataset: opts.DefaultDataset,
	}
}

func analysisKey(digest string) string {
	return fmt.Sprintf("%s:%s", cacheKeyAnalysis, digest)
}

// loadTable reads the uploaded table, or the default dataset when nothing was
// uploaded.
func (s *GRPCHandlers) loadTable(upload []byte) (*ingest.Table, string, error) {
	if len(upload) > 0 {
		t, err := ingest.ReadBytes(upload)
		return t, sourceUpload, err
	}
	if s.defaultDataset == "" {
		return nil, sourceDefault, errNoDefaultDataset
	}
	t, err := ingest.ReadFile(s.defaultDataset)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("%w: %w", errDefaultUnreadable, err)
	}
	return t, sourceDefault, err
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, errNoDefaultDataset):
		s.logger.Warn("default dataset unavailable", zap.String("op", op), zap.String("path", s.defaultDataset), zap.Error(err))
		return status.Error(codes.FailedPrecondition, "default dataset not found; upload a file to proceed")
	case errors.Is(err, errDefaultUnreadable):
		s.logger.Error("default dataset unreadable", zap.String("op", op), zap.String("path", s.defaultDataset), zap.Error(err))
		return status.Error(codes.FailedPrecondition, "default dataset could not be read; upload a file to proceed")
	case errors.Is(err, feedback.ErrIngestion):
		s.logger.Info("invalid dataset", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, repository.ErrNoAnalysis):
		s.logger.Info("no current analysis", zap.String("op", op))
		return status.Error(codes.NotFound, "no dataset has been analyzed yet")
	case errors.Is(err, dashboard.ErrUnknownView):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, repository.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

// AnalysisOverview is the response of Analyze.
type AnalysisOverview struct {
	RunID    string `json:"run_id"`
	Digest   string `json:"digest"`
	Source   string `json:"source"`
	Records  int    `json:"records"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
}

func (s *GRPCHandlers) Analyze(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	table, source, err := s.loadTable(req.GetValue())
	if err != nil {
		return nil, s.handleError(ctx, "Analyze", err)
	}

	key := analysisKey(s.processor.Digest(table))
	analysis, err := FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, s.logger, s.metrics, func(fetchCtx context.Context) (*feedback.Analysis, error) {
		return s.processor.Process(fetchCtx, table)
	})
	if err != nil {
		if source == sourceDefault && errors.Is(err, feedback.ErrIngestion) {
			err = fmt.Errorf("%w: %w", errDefaultUnreadable, err)
		}
		return nil, s.handleError(ctx, "Analyze", err)
	}

	if err := s.store.SaveCurrent(ctx, analysis); err != nil {
		return nil, s.handleError(ctx, "Analyze", err)
	}

	s.logger.Info("dataset analyzed",
		zap.String("run_id", analysis.RunID),
		zap.String("source", source),
		zap.Int("records", len(analysis.Records)))

	return toStruct(AnalysisOverview{
		RunID:    analysis.RunID,
		Digest:   analysis.Digest,
		Source:   source,
		Records:  len(analysis.Records),
		Positive: analysis.Distribution.Positive,
		Negative: analysis.Distribution.Negative,
		Neutral:  analysis.Distribution.Neutral,
	})
}

func (s *GRPCHandlers) RenderView(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	view := dashboard.View(strings.ToLower(strings.TrimSpace(req.GetValue())))
	if view == "" {
		return nil, status.Error(codes.InvalidArgument, "view is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	analysis, err := s.store.LoadCurrent(ctx)
	if err != nil {
		return nil, s.handleError(ctx, "RenderView", err)
	}

	out, err := s.views.Render(view, analysis)
	if err != nil {
		return nil, s.handleError(ctx, "RenderView", err)
	}
	return toStruct(out)
}

func (s *GRPCHandlers) ExportReport(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	analysis, err := s.store.LoadCurrent(ctx)
	if err != nil {
		return nil, s.handleError(ctx, "ExportReport", err)
	}

	data, err := report.Bytes(analysis)
	if err != nil {
		return nil, s.handleError(ctx, "ExportReport", err)
	}

	s.logger.Info("report exported", zap.String("run_id", analysis.RunID), zap.Int("bytes", len(data)))
	return wrapperspb.Bytes(data), nil
}

// toStruct converts a JSON-encodable value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
