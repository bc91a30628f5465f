package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/godilite/feedback-dashboard/internal/ingest"
)

// ratingScale maps the raw three-point scale onto the five-point display scale.
var ratingScale = map[float64]float64{
	-1: 1,
	0:  3,
	1:  5,
}

// CoerceRating parses a rating cell. Anything that is not a finite number is
// missing.
func CoerceRating(cell string) feedback.NullFloat {
	s := strings.TrimSpace(cell)
	if s == "" {
		return feedback.Missing
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return feedback.Missing
	}
	return feedback.Float(v)
}

// RemapRating applies the fixed scale mapping. Values outside the raw scale
// pass through unchanged and missing stays missing.
func RemapRating(r feedback.NullFloat) feedback.NullFloat {
	if !r.Valid {
		return r
	}
	if mapped, ok := ratingScale[r.Float64]; ok {
		return feedback.Float(mapped)
	}
	return r
}

// NormalizeRating coerces and remaps a raw rating cell.
func NormalizeRating(cell string) feedback.NullFloat {
	return RemapRating(CoerceRating(cell))
}

func parseFeedback(cell string) feedback.NullString {
	if cell == "" {
		return feedback.NullString{}
	}
	return feedback.Text(cell)
}

// Normalize assigns the fixed column names by position and normalizes every
// rating. The table must have exactly feedback.ColumnCount columns and at least
// one record.
func Normalize(t *ingest.Table) ([]feedback.Record, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: no table", feedback.ErrIngestion)
	}
	if t.Width() != feedback.ColumnCount {
		return nil, fmt.Errorf("%w: %w: got %d, want %d",
			feedback.ErrIngestion, feedback.ErrColumnCount, t.Width(), feedback.ColumnCount)
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%w: %w", feedback.ErrIngestion, feedback.ErrEmptyDataset)
	}

	records := make([]feedback.Record, len(t.Rows))
	for i := range t.Rows {
		for c := 0; c < feedback.CategoryCount; c++ {
			records[i].Entries[c] = feedback.Entry{
				Rating:   NormalizeRating(t.Cell(i, 2*c)),
				Feedback: parseFeedback(t.Cell(i, 2*c+1)),
			}
		}
	}
	return records, nil
}
