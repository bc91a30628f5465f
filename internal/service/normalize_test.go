package service

import (
	"math"
	"testing"

	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/godilite/feedback-dashboard/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// table builds an ingest.Table from rows of the twelve base columns.
func table(rows ...[]string) *ingest.Table {
	return &ingest.Table{Header: feedback.BaseColumns(), Rows: rows}
}

// row fills the rating and feedback columns of every category; unset cells are
// empty.
func row(cells map[feedback.Category][2]string) []string {
	out := make([]string, feedback.ColumnCount)
	for c, v := range cells {
		out[2*c.Index()] = v[0]
		out[2*c.Index()+1] = v[1]
	}
	return out
}

func TestCoerceRating(t *testing.T) {
	tests := []struct {
		cell string
		want feedback.NullFloat
	}{
		{"1", feedback.Float(1)},
		{" -1 ", feedback.Float(-1)},
		{"0.0", feedback.Float(0)},
		{"2.5", feedback.Float(2.5)},
		{"", feedback.Missing},
		{"   ", feedback.Missing},
		{"abc", feedback.Missing},
		{"NaN", feedback.Missing},
		{"Inf", feedback.Missing},
		{"-inf", feedback.Missing},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceRating(tt.cell))
		})
	}
}

func TestRemapRating(t *testing.T) {
	assert.Equal(t, feedback.Float(1), RemapRating(feedback.Float(-1)))
	assert.Equal(t, feedback.Float(3), RemapRating(feedback.Float(0)))
	assert.Equal(t, feedback.Float(5), RemapRating(feedback.Float(1)))

	t.Run("values outside the scale pass through", func(t *testing.T) {
		assert.Equal(t, feedback.Float(2), RemapRating(feedback.Float(2)))
		assert.Equal(t, feedback.Float(0.5), RemapRating(feedback.Float(0.5)))
	})

	t.Run("missing stays missing", func(t *testing.T) {
		assert.Equal(t, feedback.Missing, RemapRating(feedback.Missing))
	})

	t.Run("negative zero maps like zero", func(t *testing.T) {
		assert.Equal(t, feedback.Float(3), RemapRating(feedback.Float(math.Copysign(0, -1))))
	})
}

func TestNormalize(t *testing.T) {
	t.Run("assigns columns by position", func(t *testing.T) {
		records, err := Normalize(table(row(map[feedback.Category][2]string{
			feedback.Teaching:        {"1", "great teacher"},
			feedback.Library:         {"-1", "too noisy"},
			feedback.Extracurricular: {"0", ""},
		})))
		require.NoError(t, err)
		require.Len(t, records, 1)

		r := records[0]
		assert.Equal(t, feedback.Float(5), r.Entry(feedback.Teaching).Rating)
		assert.Equal(t, feedback.Text("great teacher"), r.Entry(feedback.Teaching).Feedback)
		assert.Equal(t, feedback.Float(1), r.Entry(feedback.Library).Rating)
		assert.Equal(t, feedback.Float(3), r.Entry(feedback.Extracurricular).Rating)
		assert.False(t, r.Entry(feedback.Extracurricular).Feedback.Valid)
		assert.Equal(t, feedback.Missing, r.Entry(feedback.Labwork).Rating)
	})

	t.Run("header names are ignored", func(t *testing.T) {
		tbl := table(row(map[feedback.Category][2]string{feedback.Teaching: {"1", "x"}}))
		tbl.Header = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}

		records, err := Normalize(tbl)
		require.NoError(t, err)
		assert.Equal(t, feedback.Float(5), records[0].Entry(feedback.Teaching).Rating)
	})

	t.Run("wrong column count", func(t *testing.T) {
		for _, width := range []int{11, 13} {
			tbl := &ingest.Table{Header: make([]string, width), Rows: [][]string{make([]string, width)}}

			_, err := Normalize(tbl)
			assert.ErrorIs(t, err, feedback.ErrIngestion)
			assert.ErrorIs(t, err, feedback.ErrColumnCount)
		}
	})

	t.Run("header only", func(t *testing.T) {
		_, err := Normalize(table())
		assert.ErrorIs(t, err, feedback.ErrIngestion)
		assert.ErrorIs(t, err, feedback.ErrEmptyDataset)
	})

	t.Run("nil table", func(t *testing.T) {
		_, err := Normalize(nil)
		assert.ErrorIs(t, err, feedback.ErrIngestion)
	})

	t.Run("input is not modified", func(t *testing.T) {
		tbl := table(row(map[feedback.Category][2]string{feedback.Teaching: {"-1", "bad"}}))

		_, err := Normalize(tbl)
		require.NoError(t, err)
		assert.Equal(t, "-1", tbl.Rows[0][0])
	})
}
