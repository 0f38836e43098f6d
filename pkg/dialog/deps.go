package dialog

import (
	"context"
	"fmt"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/ports"
)

// Deps are the collaborators shared by the dialogs.
// Classifier and Knowledge may be nil.
type Deps struct {
	Classifier ports.Classifier
	Knowledge  ports.KnowledgeBase
	Strings    ports.StringTable
	Cards      ports.CardRenderer
}

func (d Deps) classifierOn() bool {
	return d.Classifier != nil && d.Classifier.Configured()
}

// classify sends a typing indicator and classifies the turn's utterance.
func (d Deps) classify(ctx context.Context, t *Turn, minScore float64) (*domain.Classification, error) {
	t.Typing()
	c, err := d.Classifier.Classify(ctx, t.Text())
	if err != nil {
		return nil, fmt.Errorf("classify utterance: %w", err)
	}
	t.emitClassified(ctx, c, minScore)
	return c, nil
}

// answer returns the best knowledge-base answer, or false when none qualified.
// Query failures count as no answer.
func (d Deps) answer(ctx context.Context, t *Turn, category domain.Category) (string, bool) {
	if d.Knowledge == nil {
		t.emitAnswered(ctx, category, nil)
		return "", false
	}
	answers, err := d.Knowledge.Query(ctx, t.Text(), domain.QueryOptions{
		Top:            domain.DefaultAnswerTop,
		ScoreThreshold: domain.DefaultScoreThreshold,
		Category:       category,
	})
	if err != nil {
		t.logger.Warn("knowledge base query failed",
			"conversation_id", t.State.ConversationID,
			"category", category,
			"err", err,
		)
		answers = nil
	}
	t.emitAnswered(ctx, category, answers)
	if len(answers) == 0 {
		return "", false
	}
	return answers[0].Text, true
}
