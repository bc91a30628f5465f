package feedback

import "errors"

var (
	// ErrIngestion marks every failure to turn a source into a usable table.
	ErrIngestion = errors.New("ingestion failed")
	// ErrColumnCount is returned when a table does not have exactly ColumnCount columns.
	ErrColumnCount = errors.New("unexpected column count")
	// ErrEmptyDataset is returned when a table has a header but no records.
	ErrEmptyDataset = errors.New("dataset has no records")
)

// CategorySummary is the aggregate of one category over the whole dataset.
type CategorySummary struct {
	Category            Category  `json:"category"`
	AverageRating       NullFloat `json:"average_rating"`
	PositiveFeedbackPct float64   `json:"positive_feedback_pct"`
}

// SentimentDistribution counts sentiment labels pooled across every category
// and record.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Total returns the number of pooled labels.
func (d SentimentDistribution) Total() int {
	return d.Positive + d.Negative + d.Neutral
}

// Count returns the count of label l.
func (d SentimentDistribution) Count(l Label) int {
	switch l {
	case Positive:
		return d.Positive
	case Negative:
		return d.Negative
	case Neutral:
		return d.Neutral
	}
	return 0
}

// Proportion returns the share of label l in [0, 1]; zero when nothing was counted.
func (d SentimentDistribution) Proportion(l Label) float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	return float64(d.Count(l)) / float64(total)
}

// Analysis is the complete output of one pipeline run over one dataset.
type Analysis struct {
	RunID        string                `json:"run_id"`
	Digest       string                `json:"digest"`
	Records      []AugmentedRecord     `json:"records"`
	Summary      []CategorySummary     `json:"summary"`
	Distribution SentimentDistribution `json:"distribution"`
}

// SatisfactionCounts counts records per defined satisfaction tier.
func (a *Analysis) SatisfactionCounts() map[SatisfactionLevel]int {
	counts := make(map[SatisfactionLevel]int, len(SatisfactionLevels))
	for _, r := range a.Records {
		if r.Satisfaction == SatisfactionUndefined {
			continue
		}
		counts[r.Satisfaction]++
	}
	return counts
}
