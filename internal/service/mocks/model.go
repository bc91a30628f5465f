package mocks

// MockModel is a mock implementation of the Model interface. Without
// PolarityFunc every text scores 0.
type MockModel struct {
	PolarityFunc     func(text string) float64
	ModelVersionFunc func() string
}

// Polarity implements the Model interface
func (m *MockModel) Polarity(text string) float64 {
	if m.PolarityFunc != nil {
		return m.PolarityFunc(text)
	}
	return 0
}

// ModelVersion implements the Model interface
func (m *MockModel) ModelVersion() string {
	if m.ModelVersionFunc != nil {
		return m.ModelVersionFunc()
	}
	return "mock/1"
}

// FixedPolarities returns a model that scores each known text with its mapped
// polarity and anything else with 0.
func FixedPolarities(polarities map[string]float64) *MockModel {
	return &MockModel{
		PolarityFunc: func(text string) float64 { return polarities[text] },
	}
}
