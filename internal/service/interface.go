package service

import "github.com/godilite/feedback-dashboard/internal/sentiment"

// Model is the lexical scoring model used for sentiment classification.
type Model interface {
	sentiment.Scorer
	ModelVersion() string
}
