//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	pb "github.com/godilite/feedback-dashboard/api/v1"
	"github.com/godilite/feedback-dashboard/internal/dashboard"
	handler "github.com/godilite/feedback-dashboard/internal/grpc"
	"github.com/godilite/feedback-dashboard/internal/repository"
	"github.com/godilite/feedback-dashboard/internal/sentiment"
	"github.com/godilite/feedback-dashboard/internal/service"
	dbbuilder "github.com/godilite/feedback-dashboard/pkg/database"
	grpcsrv "github.com/godilite/feedback-dashboard/pkg/grpc/server"
	"github.com/godilite/feedback-dashboard/tests/e2e/mocks"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var header = []any{
	"Teaching_Rating", "Teaching_Feedback",
	"CourseContent_Rating", "CourseContent_Feedback",
	"Examination_Rating", "Examination_Feedback",
	"Labwork_Rating", "Labwork_Feedback",
	"Library_Rating", "Library_Feedback",
	"Extracurricular_Rating", "Extracurricular_Feedback",
}

func feedbackWorkbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

type harness struct {
	client pb.FeedbackDashboardClient
	cache  *mocks.TrackingCache
}

func setup(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	db, err := dbbuilder.New(ctx, dbbuilder.InMemory())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repository.NewAnalysisRepository(db)
	require.NoError(t, store.Migrate(ctx))

	lexicon, err := sentiment.DefaultLexicon()
	require.NoError(t, err)

	tracking := mocks.NewTrackingCache()
	handlers := handler.NewGRPCHandlers(
		service.NewFeedbackProcessor(lexicon, logger),
		store,
		dashboard.New(50),
		tracking,
		logger,
		handler.HandlerOptions{CacheTTL: time.Minute},
	)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcsrv.RecoveryInterceptor(logger),
		grpcsrv.LoggingInterceptor(logger),
	))
	pb.RegisterFeedbackDashboardServer(srv, handlers)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &harness{client: pb.NewFeedbackDashboardClient(conn), cache: tracking}
}

func TestE2E_AnalyzeRenderExport(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	_, err := h.client.RenderView(ctx, wrapperspb.String("summary"))
	assert.Equal(t, codes.NotFound, status.Code(err), "nothing analyzed yet")

	upload := feedbackWorkbook(t,
		[]any{-1, "terrible", 1, "very good content", 0, "fair", 1, "great labs", 1, "quiet", 0, ""},
		[]any{1, "amazing!", 1, "", 1, "good", 0, "ok", -1, "too noisy", 1, "fun"},
		[]any{"bad", "", 0, "not helpful", 1, "", 1, "", 0, "", 1, "great events"},
	)

	overview, err := h.client.Analyze(ctx, wrapperspb.Bytes(upload))
	require.NoError(t, err)
	assert.Equal(t, "upload", overview.GetFields()["source"].GetStringValue())
	assert.Equal(t, 3.0, overview.GetFields()["records"].GetNumberValue())
	runID := overview.GetFields()["run_id"].GetStringValue()
	assert.NotEmpty(t, runID)

	summary, err := h.client.RenderView(ctx, wrapperspb.String("summary"))
	require.NoError(t, err)
	rows := summary.GetFields()["rows"].GetListValue().GetValues()
	require.Len(t, rows, 6)
	teaching := rows[0].GetStructValue().GetFields()
	assert.Equal(t, "Teaching", teaching["category"].GetStringValue())
	assert.Equal(t, 3.0, teaching["average_rating"].GetNumberValue())
	assert.InDelta(t, 33.33, teaching["positive_feedback_pct"].GetNumberValue(), 0.01)

	ratings, err := h.client.RenderView(ctx, wrapperspb.String("ratings"))
	require.NoError(t, err)
	assert.Len(t, ratings.GetFields()["averages"].GetListValue().GetValues(), 6)

	report, err := h.client.ExportReport(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(report.GetValue()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Cleaned_Data", "Summary"}, f.GetSheetList())
	label, err := f.GetCellValue("Cleaned_Data", "M2")
	require.NoError(t, err)
	assert.Equal(t, "Negative", label, "Teaching_Sentiment of the first record")
}

func TestE2E_RepeatedUploadIsMemoized(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	upload := feedbackWorkbook(t, []any{1, "great", 1, "good", 1, "nice", 1, "fine", 1, "calm", 1, "fun"})

	first, err := h.client.Analyze(ctx, wrapperspb.Bytes(upload))
	require.NoError(t, err)
	_, ok := h.cache.WaitForSet(2 * time.Second)
	require.True(t, ok, "first analysis is cached")

	second, err := h.client.Analyze(ctx, wrapperspb.Bytes(upload))
	require.NoError(t, err)

	assert.Equal(t, first.GetFields()["run_id"].GetStringValue(), second.GetFields()["run_id"].GetStringValue())
	gets, hits, sets := h.cache.Stats()
	assert.Equal(t, 2, gets)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, sets)
}

func TestE2E_NewUploadSupersedes(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	_, err := h.client.Analyze(ctx, wrapperspb.Bytes(feedbackWorkbook(t,
		[]any{1, "great", 1, "good", 1, "nice", 1, "fine", 1, "calm", 1, "fun"},
		[]any{1, "great", 1, "good", 1, "nice", 1, "fine", 1, "calm", 1, "fun"},
	)))
	require.NoError(t, err)

	_, err = h.client.Analyze(ctx, wrapperspb.Bytes(feedbackWorkbook(t,
		[]any{-1, "terrible", -1, "bad", -1, "awful", -1, "boring", -1, "noisy", -1, "dull"},
	)))
	require.NoError(t, err)

	summary, err := h.client.RenderView(ctx, wrapperspb.String("summary"))
	require.NoError(t, err)
	tiers := summary.GetFields()["satisfaction"].GetListValue().GetValues()
	require.Len(t, tiers, 3)
	assert.Equal(t, 0.0, tiers[0].GetStructValue().GetFields()["count"].GetNumberValue(), "no High records remain")
	assert.Equal(t, 1.0, tiers[2].GetStructValue().GetFields()["count"].GetNumberValue())
}

func TestE2E_InvalidUpload(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	_, err := h.client.Analyze(ctx, wrapperspb.Bytes([]byte("only,three,columns\n1,2,3\n")))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.Analyze(ctx, &wrapperspb.BytesValue{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err), "no default dataset configured")

	_, err = h.client.RenderView(ctx, wrapperspb.String("heatmap"))
	assert.Equal(t, codes.NotFound, status.Code(err), "the current analysis is checked first")
}
