package dashboard

import (
	"bufio"
	"bytes"
	_ "embed"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/godilite/feedback-dashboard/internal/feedback"
)

//go:embed stopwords.txt
var stopwordsTXT []byte

var stopwords = loadStopwords(stopwordsTXT)

func loadStopwords(data []byte) map[string]struct{} {
	words := make(map[string]struct{})
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			words[w] = struct{}{}
		}
	}
	return words
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_']+`)

// WordWeight is one word of a cloud with its count and its size relative to
// the most frequent word.
type WordWeight struct {
	Word   string  `json:"word"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// WordCloud is the word frequency data of the feedback texts of one category
// that carry one sentiment label.
type WordCloud struct {
	Category  feedback.Category `json:"category"`
	Sentiment feedback.Label    `json:"sentiment"`
	Words     []WordWeight      `json:"words"`
}

// wordCloudLabels are the sentiments a cloud is drawn for.
var wordCloudLabels = []feedback.Label{feedback.Positive, feedback.Negative}

// WordClouds builds a cloud per category and label. Pairs without any text are
// skipped.
func WordClouds(a *feedback.Analysis, maxWords int) []WordCloud {
	var clouds []WordCloud
	for ci, c := range feedback.Categories {
		for _, label := range wordCloudLabels {
			var texts []string
			for _, r := range a.Records {
				fb := r.Entries[ci].Feedback
				if r.Sentiments[ci] == label && fb.Valid {
					texts = append(texts, fb.String)
				}
			}
			joined := strings.Join(texts, " ")
			if strings.TrimSpace(joined) == "" {
				continue
			}
			words := WordFrequencies(joined, maxWords)
			if len(words) == 0 {
				continue
			}
			clouds = append(clouds, WordCloud{Category: c, Sentiment: label, Words: words})
		}
	}
	return clouds
}

// WordFrequencies counts the words of text, ignoring case, stop words, numbers
// and possessive suffixes, and keeps the maxWords most frequent ones.
func WordFrequencies(text string, maxWords int) []WordWeight {
	counts := make(map[string]int)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		w = strings.TrimSuffix(w, "'s")
		if len(w) < 2 || isNumber(w) {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		counts[w]++
	}
	if len(counts) == 0 {
		return nil
	}

	out := make([]WordWeight, 0, len(counts))
	for w, n := range counts {
		out = append(out, WordWeight{Word: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if maxWords > 0 && len(out) > maxWords {
		out = out[:maxWords]
	}

	top := float64(out[0].Count)
	for i := range out {
		out[i].Weight = float64(out[i].Count) / top
	}
	return out
}

func isNumber(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
