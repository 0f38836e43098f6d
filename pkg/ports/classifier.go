package ports

import (
	"context"

	"github.com/aretw0/careerbot/pkg/domain"
)

// Classifier wraps an intent/entity classification service.
type Classifier interface {
	// Configured reports whether the service credentials were all present at construction.
	// Callers must not call Classify when it returns false.
	Configured() bool

	// Classify returns intent scores and extracted entities for an utterance.
	Classify(ctx context.Context, utterance string) (*domain.Classification, error)
}
