package dialog

import (
	"context"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/ports"
)

// Root is the top-level dialog: greet, offer the organization menu, delegate to
// the organization dialog and resume when it ends.
type Root struct {
	deps Deps
}

// NewRoot creates the root dialog.
func NewRoot(deps Deps) *Root {
	return &Root{deps: deps}
}

func (r *Root) ID() domain.DialogID { return domain.DialogRoot }

// Begin enters the menu step.
func (r *Root) Begin(ctx context.Context, t *Turn, f *domain.Frame, p Payload) (Result, error) {
	f.Step = domain.StepAwaitingMenuChoice

	if !r.deps.classifierOn() {
		r.greet(t, false)
		return r.promptMenu(t, domain.CardMenu)
	}

	switch p.Entry.Kind {
	case domain.EntrySeeded:
		return r.delegate(ctx, t, f, domain.Chosen(p.Entry.Organization))
	case domain.EntryInvalid:
		return r.promptMenu(t, domain.CardMenu)
	}

	c, err := r.deps.classify(ctx, t, 0)
	if err != nil {
		return Result{}, err
	}

	switch intent, _ := c.TopIntent(0); intent {
	case domain.IntentGreeting:
		r.greet(t, true)
		return r.promptMenu(t, domain.CardMenu)

	case domain.IntentCareerQuestionType:
		v := stepValues{Organization: c.Organization()}
		if qt, ok := c.QuestionType(); ok {
			v.QuestionType = domain.CategoryFromEntity(qt)
		}
		v.write(f)
		sel := domain.Chosen(v.Organization)
		if sel.Kind != domain.SelectionChosen {
			return r.promptMenu(t, domain.CardMenu)
		}
		return r.delegate(ctx, t, f, sel)

	default:
		t.Say(ports.KeyErrorHelpNotFound)
		t.Say(ports.KeyResponseEnd)
		return end(domain.Handback{Kind: domain.HandbackEmpty})
	}
}

// Continue validates the menu choice or the placeholder reply.
func (r *Root) Continue(ctx context.Context, t *Turn, f *domain.Frame) (Result, error) {
	switch f.Step {
	case domain.StepAwaitingMenuChoice:
		sel, err := r.recognizeChoice(ctx, t)
		if err != nil {
			return Result{}, err
		}
		if sel.Kind != domain.SelectionChosen {
			return r.promptMenu(t, domain.CardMenuRetry)
		}
		return r.delegate(ctx, t, f, sel)

	case domain.StepAwaitingPlaceholder:
		entry := domain.EntryFor(domain.SelectionFromText(t.Text()))
		if entry.Kind == domain.EntryFresh {
			entry.Kind = domain.EntryInvalid
		}
		return replace(Payload{Entry: entry})
	}
	return Result{}, unknownStep(f)
}

// Resume restarts the menu with a handed-back organization, or clears the
// member and ends the conversation.
func (r *Root) Resume(ctx context.Context, t *Turn, f *domain.Frame, p Payload) (Result, error) {
	if p.Handback.Kind == domain.HandbackOrganization {
		return replace(Payload{Entry: domain.EntryFor(domain.Chosen(p.Handback.Organization))})
	}
	t.Member().Clear()
	t.Say(ports.KeyResponseEnd)
	return end(domain.Handback{Kind: domain.HandbackEmpty})
}

// recognizeChoice resolves a menu reply: through the classifier when it is
// configured, by matching the organization name otherwise.
func (r *Root) recognizeChoice(ctx context.Context, t *Turn) (domain.Selection, error) {
	if !r.deps.classifierOn() {
		return domain.SelectionFromText(t.Text()), nil
	}
	c, err := r.deps.classify(ctx, t, 0)
	if err != nil {
		return domain.Selection{}, err
	}
	return domain.Chosen(c.Organization()), nil
}

func (r *Root) delegate(ctx context.Context, t *Turn, f *domain.Frame, sel domain.Selection) (Result, error) {
	v, err := readValues(f)
	if err != nil {
		return Result{}, err
	}

	switch sel.External() {
	case domain.OrganizationKPMG:
		f.Step = domain.StepDelegated
		m := t.Member()
		m.Company = domain.OrganizationKPMG
		if v.QuestionType != "" {
			m.QuestionType = v.QuestionType
		}
		return begin(domain.DialogKPMG, Payload{Seed: domain.CategorySeed(v.QuestionType)})

	case domain.OrganizationEY:
		f.Step = domain.StepAwaitingPlaceholder
		t.Member().Company = domain.OrganizationEY
		t.PromptText(t.String(ports.KeyPlaceholderPrompt))
		return wait()

	default:
		t.Say(ports.KeyErrorUnsupportedOrganization)
		return replace(Payload{Entry: domain.MenuEntry{Kind: domain.EntryInvalid}})
	}
}

// greet sends the greeting once per member. With welcomeBack set, an already
// greeted member gets the welcome message instead.
func (r *Root) greet(t *Turn, welcomeBack bool) {
	m := t.Member()
	if !m.WasGreeted {
		t.Say(ports.KeyGreeting, t.Activity.UserName)
		m.WasGreeted = true
		return
	}
	if welcomeBack {
		t.Say(ports.KeyWelcome)
	}
}

func (r *Root) promptMenu(t *Turn, card domain.CardID) (Result, error) {
	if err := t.PromptCard(card); err != nil {
		return Result{}, err
	}
	return wait()
}
