// internal/service/sentiment/oracle.go

package sentiment

import (
	"context"
)

// Result is the label and confidence assigned to one text.
type Result struct {
	Label string
	Score float64
}

// Oracle classifies post texts. Implementations must return exactly one
// result per input text, in input order; external failures degrade to a
// local fallback instead of surfacing as errors.
type Oracle interface {
	ClassifyBatch(ctx context.Context, texts []string) []Result
}
