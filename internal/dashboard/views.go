package dashboard

import (
	"errors"
	"fmt"
	"sort"

	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/godilite/feedback-dashboard/internal/report"
)

// ErrUnknownView is returned for a view id that has no renderer.
var ErrUnknownView = errors.New("unknown view")

// View identifies one dashboard page.
type View string

const (
	ViewRatings    View = "ratings"
	ViewSentiments View = "sentiments"
	ViewWordClouds View = "wordclouds"
	ViewSummary    View = "summary"
	ViewDownload   View = "download"
)

const defaultMaxWords = 200

// Renderer produces the data of one view from an analysis.
type Renderer func(a *feedback.Analysis) (any, error)

// Dashboard dispatches view ids to their renderers.
type Dashboard struct {
	views map[View]Renderer
}

// New creates a Dashboard. Word clouds keep at most maxWords words; zero or
// less uses the default.
func New(maxWords int) *Dashboard {
	if maxWords <= 0 {
		maxWords = defaultMaxWords
	}
	return &Dashboard{
		views: map[View]Renderer{
			ViewRatings:    renderRatings,
			ViewSentiments: renderSentiments,
			ViewWordClouds: func(a *feedback.Analysis) (any, error) {
				return WordCloudsView{Clouds: WordClouds(a, maxWords)}, nil
			},
			ViewSummary:  renderSummary,
			ViewDownload: renderDownload,
		},
	}
}

// Views returns the known view ids in sorted order.
func (d *Dashboard) Views() []View {
	out := make([]View, 0, len(d.views))
	for v := range d.views {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render produces view v of a.
func (d *Dashboard) Render(v View, a *feedback.Analysis) (any, error) {
	render, ok := d.views[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, v)
	}
	if a == nil {
		return nil, fmt.Errorf("render %s: nil analysis", v)
	}
	return render(a)
}

type CategoryAverage struct {
	Category      feedback.Category `json:"category"`
	AverageRating *float64          `json:"average_rating"`
}

type RatingsView struct {
	Averages []CategoryAverage `json:"averages"`
}

// renderRatings sorts categories by ascending average; missing averages last.
func renderRatings(a *feedback.Analysis) (any, error) {
	out := make([]CategoryAverage, len(a.Summary))
	for i, s := range a.Summary {
		out[i] = CategoryAverage{Category: s.Category, AverageRating: ptr(s.AverageRating)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].AverageRating, out[j].AverageRating
		if ai == nil || aj == nil {
			return ai != nil && aj == nil
		}
		return *ai < *aj
	})
	return RatingsView{Averages: out}, nil
}

type SentimentCounts struct {
	Category feedback.Category `json:"category"`
	Positive int               `json:"positive"`
	Negative int               `json:"negative"`
	Neutral  int               `json:"neutral"`
}

type SentimentsView struct {
	Categories []SentimentCounts `json:"categories"`
}

func renderSentiments(a *feedback.Analysis) (any, error) {
	out := make([]SentimentCounts, len(feedback.Categories))
	for ci, c := range feedback.Categories {
		out[ci].Category = c
		for _, r := range a.Records {
			switch r.Sentiments[ci] {
			case feedback.Positive:
				out[ci].Positive++
			case feedback.Negative:
				out[ci].Negative++
			case feedback.Neutral:
				out[ci].Neutral++
			}
		}
	}
	return SentimentsView{Categories: out}, nil
}

type WordCloudsView struct {
	Clouds []WordCloud `json:"clouds"`
}

type SummaryRow struct {
	Category            feedback.Category `json:"category"`
	AverageRating       *float64          `json:"average_rating"`
	PositiveFeedbackPct float64           `json:"positive_feedback_pct"`
}

type LabelShare struct {
	Sentiment  feedback.Label `json:"sentiment"`
	Count      int            `json:"count"`
	Proportion float64        `json:"proportion"`
}

type TierCount struct {
	Level feedback.SatisfactionLevel `json:"level"`
	Count int                        `json:"count"`
}

type SummaryView struct {
	Columns      []string     `json:"columns"`
	Rows         []SummaryRow `json:"rows"`
	Satisfaction []TierCount  `json:"satisfaction"`
	Overall      []LabelShare `json:"overall"`
}

func renderSummary(a *feedback.Analysis) (any, error) {
	v := SummaryView{Columns: feedback.SummaryColumns}
	for _, s := range a.Summary {
		v.Rows = append(v.Rows, SummaryRow{
			Category:            s.Category,
			AverageRating:       ptr(s.AverageRating),
			PositiveFeedbackPct: s.PositiveFeedbackPct,
		})
	}

	counts := a.SatisfactionCounts()
	for _, level := range feedback.SatisfactionLevels {
		v.Satisfaction = append(v.Satisfaction, TierCount{Level: level, Count: counts[level]})
	}

	for _, l := range feedback.Labels {
		v.Overall = append(v.Overall, LabelShare{
			Sentiment:  l,
			Count:      a.Distribution.Count(l),
			Proportion: a.Distribution.Proportion(l),
		})
	}
	return v, nil
}

type DownloadView struct {
	FileName    string   `json:"file_name"`
	ContentType string   `json:"content_type"`
	Sheets      []string `json:"sheets"`
	Size        int      `json:"size"`
}

func renderDownload(a *feedback.Analysis) (any, error) {
	data, err := report.Bytes(a)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	return DownloadView{
		FileName:    report.FileName,
		ContentType: report.ContentType,
		Sheets:      report.Sheets,
		Size:        len(data),
	}, nil
}

func ptr(v feedback.NullFloat) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
