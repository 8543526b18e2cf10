package service

import (
	"github.com/jonreiter/govader"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Polarity above positiveThreshold is positive, below negativeThreshold is
// negative; both bounds themselves are neutral.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// PolarityScorer maps text to a polarity in [-1, 1].
type PolarityScorer interface {
	Polarity(text string) float64
}

type vaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer scores text with the VADER lexicon, using the compound score.
func NewVaderScorer() PolarityScorer {
	return &vaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *vaderScorer) Polarity(text string) float64 {
	return s.analyzer.PolarityScores(text).Compound
}

type SentimentService interface {
	Classify(text string) Sentiment
	Summarize(texts []string) map[Sentiment]int
}

type sentimentService struct {
	scorer PolarityScorer
}

func NewSentimentService(scorer PolarityScorer) SentimentService {
	if scorer == nil {
		scorer = NewVaderScorer()
	}
	return &sentimentService{scorer: scorer}
}

func (s *sentimentService) Classify(text string) Sentiment {
	return ClassifyPolarity(s.scorer.Polarity(text))
}

// Summarize counts labels over texts; every label is present in the result.
func (s *sentimentService) Summarize(texts []string) map[Sentiment]int {
	counts := map[Sentiment]int{
		SentimentPositive: 0,
		SentimentNegative: 0,
		SentimentNeutral:  0,
	}
	for _, text := range texts {
		counts[s.Classify(text)]++
	}
	return counts
}

func ClassifyPolarity(polarity float64) Sentiment {
	switch {
	case polarity > positiveThreshold:
		return SentimentPositive
	case polarity < negativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
