// internal/service/sentiment/keyword.go

package sentiment

import (
	"context"
	"math/rand"
	"strings"

	"retailtrends/internal/domain/trend"
)

var positiveWords = []string{
	"love", "amazing", "great", "best", "perfect", "happy",
	"excellent", "awesome", "obsessed", "stunning",
}

var negativeWords = []string{
	"disappointed", "bad", "waste", "poor", "regret", "broke",
	"terrible", "avoid", "overpriced", "letdown",
}

// KeywordAnalyzer is the deterministic keyword heuristic used whenever the
// remote sentiment API is unavailable. Confidence carries a small jitter
// drawn from the injected generator.
type KeywordAnalyzer struct {
	rng *rand.Rand
}

// NewKeywordAnalyzer creates the fallback analyzer around a seeded
// generator shared with the rest of the pipeline.
func NewKeywordAnalyzer(rng *rand.Rand) *KeywordAnalyzer {
	return &KeywordAnalyzer{rng: rng}
}

// Classify scores a single text by weighted keyword matching.
func (a *KeywordAnalyzer) Classify(text string) Result {
	lower := strings.ToLower(text)

	var positiveScore, negativeScore float64
	for _, word := range positiveWords {
		if strings.Contains(lower, word) {
			positiveScore += 1.5
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			negativeScore += 1.5
		}
	}

	switch {
	case positiveScore > negativeScore:
		return Result{Label: trend.SentimentPositive, Score: 0.75 + a.uniform(-0.1, 0.1)}
	case negativeScore > positiveScore:
		return Result{Label: trend.SentimentNegative, Score: 0.75 + a.uniform(-0.1, 0.1)}
	default:
		return Result{Label: trend.SentimentNeutral, Score: 0.65 + a.uniform(-0.05, 0.05)}
	}
}

// ClassifyBatch implements Oracle.
func (a *KeywordAnalyzer) ClassifyBatch(_ context.Context, texts []string) []Result {
	results := make([]Result, len(texts))
	for i, text := range texts {
		results[i] = a.Classify(text)
	}
	return results
}

func (a *KeywordAnalyzer) uniform(min, max float64) float64 {
	return min + a.rng.Float64()*(max-min)
}
