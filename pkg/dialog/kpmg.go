package dialog

import (
	"context"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/ports"
)

// KPMG is the organization dialog: pick a question category, ask a question,
// answer it from the knowledge base and loop with the category carried forward.
// It ends when the user says they are finished or asks about another organization.
type KPMG struct {
	deps Deps
}

// NewKPMG creates the KPMG dialog.
func NewKPMG(deps Deps) *KPMG {
	return &KPMG{deps: deps}
}

func (k *KPMG) ID() domain.DialogID { return domain.DialogKPMG }

// Begin asks for a category unless one was seeded.
func (k *KPMG) Begin(ctx context.Context, t *Turn, f *domain.Frame, p Payload) (Result, error) {
	if p.Seed != "" {
		return k.acceptCategory(t, f, domain.Category(p.Seed))
	}
	f.Step = domain.StepAwaitingQuestionType
	if err := t.PromptCard(domain.CardKPMGCategory); err != nil {
		return Result{}, err
	}
	return wait()
}

// Continue handles the category choice or the question text.
func (k *KPMG) Continue(ctx context.Context, t *Turn, f *domain.Frame) (Result, error) {
	switch f.Step {
	case domain.StepAwaitingQuestionType:
		cat, ok, err := k.recognizeCategory(ctx, t)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			if err := t.PromptCard(domain.CardKPMGCategoryRetry); err != nil {
				return Result{}, err
			}
			return wait()
		}
		return k.acceptCategory(t, f, cat)

	case domain.StepAwaitingQuestion:
		return k.answerQuestion(ctx, t, f)
	}
	return Result{}, unknownStep(f)
}

// Resume is never reached: the KPMG dialog starts no children.
func (k *KPMG) Resume(ctx context.Context, t *Turn, f *domain.Frame, p Payload) (Result, error) {
	return Result{}, unknownStep(f)
}

func (k *KPMG) recognizeCategory(ctx context.Context, t *Turn) (domain.Category, bool, error) {
	if !k.deps.classifierOn() {
		cat, ok := domain.CategoryFromPhrase(t.Text())
		return cat, ok, nil
	}
	c, err := k.deps.classify(ctx, t, 0)
	if err != nil {
		return "", false, err
	}
	qt, ok := c.QuestionType()
	if !ok {
		return "", false, nil
	}
	cat, ok := domain.ParseCategory(qt)
	return cat, ok, nil
}

func (k *KPMG) acceptCategory(t *Turn, f *domain.Frame, cat domain.Category) (Result, error) {
	stepValues{QuestionType: cat}.write(f)
	t.Member().QuestionType = cat
	f.Step = domain.StepAwaitingQuestion
	t.PromptText(t.String(ports.KeyPromptQuestion))
	return wait()
}

func (k *KPMG) answerQuestion(ctx context.Context, t *Turn, f *domain.Frame) (Result, error) {
	if t.Text() == "" {
		t.PromptText(t.String(ports.KeyRepromptQuestion))
		return wait()
	}

	v, err := readValues(f)
	if err != nil {
		return Result{}, err
	}

	if k.deps.classifierOn() {
		c, err := k.deps.classify(ctx, t, domain.QuestionScoreThreshold)
		if err != nil {
			return Result{}, err
		}
		switch intent, _ := c.TopIntent(domain.QuestionScoreThreshold); intent {
		case domain.IntentFinish:
			return end(domain.Handback{Kind: domain.HandbackEmpty})

		case domain.IntentCareerQuestionType:
			switch org := c.Organization(); org {
			case domain.OrganizationDeloitte, domain.OrganizationEY, domain.OrganizationPWC:
				return end(domain.Handback{Kind: domain.HandbackOrganization, Organization: org})
			}
			v.QuestionType = ""
			if qt, ok := c.QuestionType(); ok {
				v.QuestionType = domain.CategoryFromEntity(qt)
			}
			v.write(f)
		}
	} else {
		t.Typing()
	}

	if answer, ok := k.deps.answer(ctx, t, v.QuestionType); ok {
		t.Send(answer)
	} else {
		t.Say(ports.KeyErrorHelpNotFound)
	}

	t.Member().QuestionType = v.QuestionType
	return replace(Payload{Seed: domain.CategorySeed(v.QuestionType)})
}
