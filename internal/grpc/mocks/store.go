package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-dashboard/internal/feedback"
)

// MockAnalysisStore is a mock implementation of the AnalysisStore interface.
type MockAnalysisStore struct {
	SaveCurrentFunc func(ctx context.Context, a *feedback.Analysis) error
	LoadCurrentFunc func(ctx context.Context) (*feedback.Analysis, error)
}

// SaveCurrent implements the AnalysisStore interface
func (m *MockAnalysisStore) SaveCurrent(ctx context.Context, a *feedback.Analysis) error {
	if m.SaveCurrentFunc != nil {
		return m.SaveCurrentFunc(ctx, a)
	}
	return nil
}

// LoadCurrent implements the AnalysisStore interface
func (m *MockAnalysisStore) LoadCurrent(ctx context.Context) (*feedback.Analysis, error) {
	if m.LoadCurrentFunc != nil {
		return m.LoadCurrentFunc(ctx)
	}
	return nil, errors.New("LoadCurrentFunc not implemented")
}
