package report

import (
	"bytes"
	"testing"

	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func reportAnalysis() *feedback.Analysis {
	records := make([]feedback.AugmentedRecord, 2)
	for i := range records {
		for c := range records[i].Sentiments {
			records[i].Sentiments[c] = feedback.Neutral
		}
	}
	records[0].Entries[0] = feedback.Entry{Rating: feedback.Float(5), Feedback: feedback.Text("amazing!")}
	records[0].Sentiments[0] = feedback.Positive
	records[0].Sentiments[feedback.Library.Index()] = feedback.Negative
	records[0].Satisfaction = feedback.SatisfactionHigh
	records[1].Entries[0] = feedback.Entry{Rating: feedback.Missing}

	summary := make([]feedback.CategorySummary, 0, feedback.CategoryCount)
	for _, c := range feedback.Categories {
		summary = append(summary, feedback.CategorySummary{Category: c})
	}
	summary[0] = feedback.CategorySummary{Category: feedback.Teaching, AverageRating: feedback.Float(5), PositiveFeedbackPct: 50}

	return &feedback.Analysis{Records: records, Summary: summary}
}

func TestBytes(t *testing.T) {
	data, err := Bytes(reportAnalysis())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, Sheets, f.GetSheetList())

	rows, err := f.GetRows(DataSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, feedback.AugmentedColumns(), rows[0])
	assert.Equal(t, []string{"5", "amazing!"}, rows[1][:2])
	assert.Equal(t, "Positive", rows[1][feedback.ColumnCount])
	assert.Equal(t, "Library_Sentiment", rows[0][feedback.ColumnCount+1])
	assert.Equal(t, "Negative", rows[1][feedback.ColumnCount+1], "labels follow their column, not the category position")
	assert.Equal(t, "Neutral", rows[1][feedback.ColumnCount+4])
	assert.Equal(t, "High", rows[1][len(feedback.AugmentedColumns())-1])
	assert.Equal(t, "", rows[2][0], "missing rating is an empty cell")
	satisfaction, err := f.GetCellValue(DataSheet, "S3")
	require.NoError(t, err)
	assert.Equal(t, "", satisfaction, "undefined satisfaction is an empty cell")

	rows, err = f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, feedback.CategoryCount+1)
	assert.Equal(t, feedback.SummaryColumns, rows[0])
	assert.Equal(t, []string{"Teaching_Rating", "5", "50"}, rows[1])
	assert.Equal(t, []string{"CourseContent_Rating", "", "0"}, rows[2])
}

func TestWriteNilAnalysis(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, nil))
	assert.Zero(t, buf.Len())
}

func TestRows(t *testing.T) {
	a := reportAnalysis()

	data := DataRows(a)
	require.Len(t, data, 2)
	assert.Len(t, data[0], len(feedback.AugmentedColumns()))
	assert.Nil(t, data[1][0])
	assert.Nil(t, data[1][1])
	assert.Nil(t, data[1][len(data[1])-1])

	summary := SummaryRows(a)
	assert.Equal(t, []any{"Teaching_Rating", 5.0, 50.0}, summary[0])
	assert.Equal(t, []any{"CourseContent_Rating", nil, 0.0}, summary[1])

	sentiments := data[0][feedback.ColumnCount : feedback.ColumnCount+feedback.CategoryCount]
	assert.Equal(t, []any{"Positive", "Negative", "Neutral", "Neutral", "Neutral", "Neutral"}, sentiments)
}
