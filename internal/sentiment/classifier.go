package sentiment

import "github.com/godilite/feedback-dashboard/internal/feedback"

// Polarity above PositiveThreshold is Positive, below NegativeThreshold is
// Negative; both bounds are exclusive.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// Scorer assigns a polarity in [-1, 1] to a text.
type Scorer interface {
	Polarity(text string) float64
}

// Classify maps a polarity to a label.
func Classify(polarity float64) feedback.Label {
	switch {
	case polarity > PositiveThreshold:
		return feedback.Positive
	case polarity < NegativeThreshold:
		return feedback.Negative
	default:
		return feedback.Neutral
	}
}

// Classifier labels feedback texts with a Scorer.
type Classifier struct {
	scorer Scorer
}

// NewClassifier creates a Classifier backed by scorer.
func NewClassifier(scorer Scorer) *Classifier {
	if scorer == nil {
		panic("scorer must not be nil")
	}
	return &Classifier{scorer: scorer}
}

// Label classifies text. Missing text is always Neutral and is never scored.
func (c *Classifier) Label(text feedback.NullString) feedback.Label {
	if !text.Valid {
		return feedback.Neutral
	}
	return Classify(c.scorer.Polarity(text.String))
}
