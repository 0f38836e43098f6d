package ports

import (
	"context"

	"github.com/aretw0/careerbot/pkg/domain"
)

// KnowledgeBase answers questions from a curated question/answer store.
// A nil KnowledgeBase means no answers are available.
type KnowledgeBase interface {
	// Query returns at most opts.Top answers scoring at least opts.ScoreThreshold,
	// highest score first. The category filter is applied by the service.
	Query(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.Answer, error)
}
