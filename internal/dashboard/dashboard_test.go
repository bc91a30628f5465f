package dashboard

import (
	"strings"
	"testing"

	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/godilite/feedback-dashboard/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardAnalysis() *feedback.Analysis {
	records := make([]feedback.AugmentedRecord, 3)
	for i := range records {
		for c := range records[i].Sentiments {
			records[i].Sentiments[c] = feedback.Neutral
		}
	}
	records[0].Entries[0].Feedback = feedback.Text("Great teacher, great lectures")
	records[0].Sentiments[0] = feedback.Positive
	records[1].Entries[0].Feedback = feedback.Text("the teacher's notes were great")
	records[1].Sentiments[0] = feedback.Positive
	records[2].Entries[0].Feedback = feedback.Text("boring")
	records[2].Sentiments[0] = feedback.Negative
	records[0].Satisfaction = feedback.SatisfactionHigh
	records[1].Satisfaction = feedback.SatisfactionHigh
	records[2].Satisfaction = feedback.SatisfactionUndefined

	summary := make([]feedback.CategorySummary, 0, feedback.CategoryCount)
	for i, c := range feedback.Categories {
		s := feedback.CategorySummary{Category: c, AverageRating: feedback.Float(float64(5 - i%3))}
		if c == feedback.Library {
			s.AverageRating = feedback.Missing
		}
		summary = append(summary, s)
	}

	return &feedback.Analysis{
		Records:      records,
		Summary:      summary,
		Distribution: feedback.SentimentDistribution{Positive: 2, Negative: 1, Neutral: 15},
	}
}

func TestRender(t *testing.T) {
	d := New(0)
	a := dashboardAnalysis()

	t.Run("views are listed", func(t *testing.T) {
		assert.Equal(t, []View{ViewDownload, ViewRatings, ViewSentiments, ViewSummary, ViewWordClouds}, d.Views())
	})

	t.Run("unknown view", func(t *testing.T) {
		_, err := d.Render("heatmap", a)
		assert.ErrorIs(t, err, ErrUnknownView)
	})

	t.Run("nil analysis", func(t *testing.T) {
		_, err := d.Render(ViewRatings, nil)
		assert.Error(t, err)
	})

	t.Run("ratings ascending with missing last", func(t *testing.T) {
		out, err := d.Render(ViewRatings, a)
		require.NoError(t, err)

		averages := out.(RatingsView).Averages
		require.Len(t, averages, feedback.CategoryCount)
		for i := 1; i < len(averages)-1; i++ {
			assert.LessOrEqual(t, *averages[i-1].AverageRating, *averages[i].AverageRating)
		}
		assert.Equal(t, feedback.Library, averages[len(averages)-1].Category)
		assert.Nil(t, averages[len(averages)-1].AverageRating)
	})

	t.Run("sentiment counts per category", func(t *testing.T) {
		out, err := d.Render(ViewSentiments, a)
		require.NoError(t, err)

		counts := out.(SentimentsView).Categories
		assert.Equal(t, SentimentCounts{Category: feedback.Teaching, Positive: 2, Negative: 1}, counts[0])
		assert.Equal(t, SentimentCounts{Category: feedback.CourseContent, Neutral: 3}, counts[1])
	})

	t.Run("summary", func(t *testing.T) {
		out, err := d.Render(ViewSummary, a)
		require.NoError(t, err)

		v := out.(SummaryView)
		assert.Equal(t, feedback.SummaryColumns, v.Columns)
		assert.Len(t, v.Rows, feedback.CategoryCount)
		assert.Equal(t, []TierCount{
			{Level: feedback.SatisfactionHigh, Count: 2},
			{Level: feedback.SatisfactionMedium},
			{Level: feedback.SatisfactionLow},
		}, v.Satisfaction)
		require.Len(t, v.Overall, 3)
		assert.Equal(t, feedback.Positive, v.Overall[0].Sentiment)
		assert.InDelta(t, 2.0/18, v.Overall[0].Proportion, 1e-9)
	})

	t.Run("download", func(t *testing.T) {
		out, err := d.Render(ViewDownload, a)
		require.NoError(t, err)

		v := out.(DownloadView)
		assert.Equal(t, "College_Feedback_Summary.xlsx", v.FileName)
		assert.Equal(t, report.ContentType, v.ContentType)
		assert.Equal(t, []string{"Cleaned_Data", "Summary"}, v.Sheets)
		assert.Positive(t, v.Size)
	})

	t.Run("word clouds", func(t *testing.T) {
		out, err := d.Render(ViewWordClouds, a)
		require.NoError(t, err)

		clouds := out.(WordCloudsView).Clouds
		require.Len(t, clouds, 2, "only teaching has text")
		assert.Equal(t, feedback.Positive, clouds[0].Sentiment)
		assert.Equal(t, WordWeight{Word: "great", Count: 3, Weight: 1}, clouds[0].Words[0])
		assert.Equal(t, WordWeight{Word: "teacher", Count: 2, Weight: 2.0 / 3}, clouds[0].Words[1])
		assert.Equal(t, feedback.Negative, clouds[1].Sentiment)
		assert.Equal(t, "boring", clouds[1].Words[0].Word)
	})
}

func TestWordFrequencies(t *testing.T) {
	t.Run("stop words, numbers and short words are dropped", func(t *testing.T) {
		words := WordFrequencies("The lab in room 204 was a mess, a real mess", 0)

		var got []string
		for _, w := range words {
			got = append(got, w.Word)
		}
		assert.Equal(t, []string{"mess", "lab", "real", "room"}, got)
	})

	t.Run("ties break alphabetically and limit applies", func(t *testing.T) {
		words := WordFrequencies("zeta alpha beta", 2)

		require.Len(t, words, 2)
		assert.Equal(t, "alpha", words[0].Word)
		assert.Equal(t, "beta", words[1].Word)
	})

	t.Run("long text is not truncated", func(t *testing.T) {
		text := strings.Repeat("filler ", 5000) + "sentinel"

		words := WordFrequencies(text, 0)
		require.Len(t, words, 2)
		assert.Equal(t, "sentinel", words[1].Word)
	})

	t.Run("nothing left", func(t *testing.T) {
		assert.Nil(t, WordFrequencies("the and of", 10))
	})
}
