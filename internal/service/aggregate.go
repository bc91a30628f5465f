package service

import "github.com/godilite/feedback-dashboard/internal/feedback"

// Satisfaction tier bounds; both comparisons are strict.
const (
	highSatisfactionAbove   = 4.0
	mediumSatisfactionAbove = 2.5
)

// Aggregate is the read-only summary of an augmented table.
type Aggregate struct {
	Summary      []feedback.CategorySummary
	Distribution feedback.SentimentDistribution
	Satisfaction []feedback.SatisfactionLevel
}

// Summarize computes every aggregate over records without modifying them.
func Summarize(records []feedback.AugmentedRecord) Aggregate {
	tiers := make([]feedback.SatisfactionLevel, len(records))
	for i, r := range records {
		tiers[i] = SatisfactionFor(RecordMean(r.Record))
	}
	return Aggregate{
		Summary:      SummarizeCategories(records),
		Distribution: Distribution(records),
		Satisfaction: tiers,
	}
}

// SummarizeCategories returns one summary per category in the fixed order.
func SummarizeCategories(records []feedback.AugmentedRecord) []feedback.CategorySummary {
	out := make([]feedback.CategorySummary, 0, feedback.CategoryCount)
	for _, c := range feedback.Categories {
		out = append(out, feedback.CategorySummary{
			Category:            c,
			AverageRating:       CategoryMean(records, c),
			PositiveFeedbackPct: PositivePercentage(records, c),
		})
	}
	return out
}

// CategoryMean averages the present ratings of category c. It is missing when
// no record has a rating for c.
func CategoryMean(records []feedback.AugmentedRecord, c feedback.Category) feedback.NullFloat {
	idx := c.Index()
	ratings := make([]feedback.NullFloat, len(records))
	for i, r := range records {
		ratings[i] = r.Entries[idx].Rating
	}
	return mean(ratings)
}

// PositivePercentage is 100 × (records labelled Positive for c) / (all records).
func PositivePercentage(records []feedback.AugmentedRecord, c feedback.Category) float64 {
	if len(records) == 0 {
		return 0
	}
	idx := c.Index()
	positive := 0
	for _, r := range records {
		if r.Sentiments[idx] == feedback.Positive {
			positive++
		}
	}
	return 100 * float64(positive) / float64(len(records))
}

// Distribution counts every sentiment label of every record.
func Distribution(records []feedback.AugmentedRecord) feedback.SentimentDistribution {
	var d feedback.SentimentDistribution
	for _, r := range records {
		for _, l := range r.Sentiments {
			switch l {
			case feedback.Positive:
				d.Positive++
			case feedback.Negative:
				d.Negative++
			case feedback.Neutral:
				d.Neutral++
			}
		}
	}
	return d
}

// RecordMean averages the present ratings of one record.
func RecordMean(r feedback.Record) feedback.NullFloat {
	ratings := make([]feedback.NullFloat, len(r.Entries))
	for i, e := range r.Entries {
		ratings[i] = e.Rating
	}
	return mean(ratings)
}

// SatisfactionFor buckets a record mean. A missing mean has no tier.
func SatisfactionFor(m feedback.NullFloat) feedback.SatisfactionLevel {
	switch {
	case !m.Valid:
		return feedback.SatisfactionUndefined
	case m.Float64 > highSatisfactionAbove:
		return feedback.SatisfactionHigh
	case m.Float64 > mediumSatisfactionAbove:
		return feedback.SatisfactionMedium
	default:
		return feedback.SatisfactionLow
	}
}

func mean(values []feedback.NullFloat) feedback.NullFloat {
	var (
		sum float64
		n   int
	)
	for _, v := range values {
		if !v.Valid {
			continue
		}
		sum += v.Float64
		n++
	}
	if n == 0 {
		return feedback.Missing
	}
	return feedback.Float(sum / float64(n))
}
