package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/xuri/excelize/v2"
)

const (
	DataSheet    = "Cleaned_Data"
	SummarySheet = "Summary"

	FileName    = "College_Feedback_Summary.xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Sheets lists the report sheets in workbook order.
var Sheets = []string{DataSheet, SummarySheet}

// Write encodes a as a two-sheet workbook: the augmented table followed by the
// category summary. Missing values become empty cells.
func Write(w io.Writer, a *feedback.Analysis) error {
	f, err := build(a)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Bytes returns the encoded workbook.
func Bytes(a *feedback.Analysis) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func build(a *feedback.Analysis) (*excelize.File, error) {
	if a == nil {
		return nil, fmt.Errorf("nil analysis")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), DataSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := writeRows(f, DataSheet, feedback.AugmentedColumns(), DataRows(a)); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRows(f, SummarySheet, feedback.SummaryColumns, SummaryRows(a)); err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]any) error {
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// DataRows lays out the augmented table in feedback.AugmentedColumns order.
func DataRows(a *feedback.Analysis) [][]any {
	rows := make([][]any, len(a.Records))
	for i, r := range a.Records {
		row := make([]any, 0, len(feedback.AugmentedColumns()))
		for _, e := range r.Entries {
			row = append(row, number(e.Rating), text(e.Feedback))
		}
		for _, c := range feedback.SentimentOrder {
			row = append(row, string(r.Sentiment(c)))
		}
		if r.Satisfaction == feedback.SatisfactionUndefined {
			row = append(row, nil)
		} else {
			row = append(row, string(r.Satisfaction))
		}
		rows[i] = row
	}
	return rows
}

// SummaryRows lays out the category summary in feedback.SummaryColumns order.
// Categories are labelled by their rating column.
func SummaryRows(a *feedback.Analysis) [][]any {
	rows := make([][]any, len(a.Summary))
	for i, s := range a.Summary {
		rows[i] = []any{s.Category.RatingColumn(), number(s.AverageRating), s.PositiveFeedbackPct}
	}
	return rows
}

func number(v feedback.NullFloat) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func text(v feedback.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}
