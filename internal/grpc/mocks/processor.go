package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/godilite/feedback-dashboard/internal/ingest"
)

// MockProcessor is a mock implementation of the Processor interface.
type MockProcessor struct {
	DigestFunc  func(t *ingest.Table) string
	ProcessFunc func(ctx context.Context, t *ingest.Table) (*feedback.Analysis, error)
}

// Digest implements the Processor interface
func (m *MockProcessor) Digest(t *ingest.Table) string {
	if m.DigestFunc != nil {
		return m.DigestFunc(t)
	}
	return "digest"
}

// Process implements the Processor interface
func (m *MockProcessor) Process(ctx context.Context, t *ingest.Table) (*feedback.Analysis, error) {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, t)
	}
	return nil, errors.New("ProcessFunc not implemented")
}
