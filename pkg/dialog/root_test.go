package dialog_test

import (
	"context"
	"testing"

	"github.com/aretw0/careerbot/pkg/dialog"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_WithoutClassifier_GreetsOnceAndShowsMenu(t *testing.T) {
	e := newEngine(nil, nil)
	state := domain.NewState("c1")

	actions := say(t, e, state, "hello")
	assert.Equal(t, []string{"Greeting:Ana"}, texts(actions))
	assert.Equal(t, []domain.CardID{domain.CardMenu}, cards(actions))
	assert.True(t, state.Member.WasGreeted)
	assert.Equal(t, []domain.Step{domain.StepAwaitingMenuChoice}, steps(state))

	last := actions[len(actions)-1]
	require.Equal(t, domain.ActionRequestInput, last.Type)
	assert.Equal(t, domain.InputChoice, last.Payload.(domain.InputRequest).Type)
}

func TestRoot_WithoutClassifier_InvalidChoiceKeepsState(t *testing.T) {
	e := newEngine(nil, nil)
	state := domain.NewState("c1")
	say(t, e, state, "hello")
	before := state.Clone()

	actions := say(t, e, state, "banana")
	assert.Empty(t, texts(actions))
	assert.Equal(t, []domain.CardID{domain.CardMenuRetry}, cards(actions))
	assert.Equal(t, before.Stack, state.Stack)
	assert.Equal(t, before.Member, state.Member)
}

func TestRoot_WithoutClassifier_UnsupportedOrganization(t *testing.T) {
	e := newEngine(nil, nil)
	state := domain.NewState("c1")
	say(t, e, state, "hello")

	actions := say(t, e, state, "deloitte")
	assert.Equal(t, []string{"ErrorUnsupportedOrganization"}, texts(actions))
	assert.Equal(t, []domain.CardID{domain.CardMenu}, cards(actions))
	assert.Equal(t, []domain.Step{domain.StepAwaitingMenuChoice}, steps(state))
}

func TestRoot_WithoutClassifier_EYPlaceholder(t *testing.T) {
	e := newEngine(nil, nil)
	state := domain.NewState("c1")
	say(t, e, state, "hello")

	actions := say(t, e, state, "Ey")
	assert.Equal(t, []string{"PlaceholderPrompt"}, texts(actions))
	assert.Equal(t, []domain.Step{domain.StepAwaitingPlaceholder}, steps(state))
	assert.Equal(t, domain.OrganizationEY, state.Member.Company)

	// Without a classifier the seeded re-entry falls back to the menu.
	actions = say(t, e, state, "KPMG")
	assert.Empty(t, texts(actions))
	assert.Equal(t, []domain.CardID{domain.CardMenu}, cards(actions))
	assert.Equal(t, []domain.Step{domain.StepAwaitingMenuChoice}, steps(state))
}

func TestRoot_WithClassifier_Greeting(t *testing.T) {
	c := newClassifier()
	c.on("hi", domain.IntentGreeting, 0.9, "", "")
	e := newEngine(c, nil)
	state := domain.NewState("c1")

	actions := say(t, e, state, "hi")
	assert.Equal(t, []string{"Greeting:Ana"}, texts(actions))
	assert.Equal(t, []domain.CardID{domain.CardMenu}, cards(actions))
	assert.Equal(t, 1, typing(actions))
	assert.Equal(t, actions[0].Type, domain.ActionTyping)

	state.Stack = nil
	actions = say(t, e, state, "hi")
	assert.Equal(t, []string{"Welcome"}, texts(actions))
}

func TestRoot_WithClassifier_NoMatchEndsConversation(t *testing.T) {
	e := newEngine(newClassifier(), nil)
	state := domain.NewState("c1")

	actions := say(t, e, state, "what is the weather")
	assert.Equal(t, []string{"ErrorHelpNotFound", "ResponseEnd"}, texts(actions))
	assert.Empty(t, cards(actions))
	assert.True(t, state.Idle())
}

func TestRoot_WithClassifier_UnsupportedOrganizationRestartsMenu(t *testing.T) {
	c := newClassifier()
	c.on("jobs at deloitte", domain.IntentCareerQuestionType, 0.95, "Deloitte", "")
	e := newEngine(c, nil)
	state := domain.NewState("c1")

	actions := say(t, e, state, "jobs at deloitte")
	assert.Equal(t, []string{"ErrorUnsupportedOrganization"}, texts(actions))
	assert.Equal(t, []domain.CardID{domain.CardMenu}, cards(actions))
	assert.Equal(t, []domain.Step{domain.StepAwaitingMenuChoice}, steps(state))
	assert.Empty(t, state.Stack[0].Values, "restart must drop the previous step values")
	assert.Len(t, c.calls, 1, "invalid re-entry must not classify again")
}

func TestRoot_WithClassifier_QuestionWithoutOrganizationPromptsMenu(t *testing.T) {
	c := newClassifier()
	c.on("how do interviews work", domain.IntentCareerQuestionType, 0.9, "", "interviews")
	e := newEngine(c, nil)
	state := domain.NewState("c1")

	actions := say(t, e, state, "how do interviews work")
	assert.Equal(t, []domain.CardID{domain.CardMenu}, cards(actions))
	assert.Equal(t, "interviews", state.Stack[0].Values["questionType"])

	// The captured question type travels with the menu choice.
	c.on("KPMG", domain.IntentCareerQuestionType, 0.9, "kpmg", "")
	actions = say(t, e, state, "KPMG")
	assert.Equal(t, []string{"PromptQuestion"}, texts(actions))
	assert.Equal(t, []domain.Step{domain.StepDelegated, domain.StepAwaitingQuestion}, steps(state))
	assert.Equal(t, domain.CategoryInterviews, state.Member.QuestionType)
}

func TestRoot_WithClassifier_MenuValidationUsesClassifier(t *testing.T) {
	c := newClassifier()
	c.on("hi", domain.IntentGreeting, 0.9, "", "")
	e := newEngine(c, nil)
	state := domain.NewState("c1")
	say(t, e, state, "hi")

	// Plain organization text is not enough when the classifier extracts nothing.
	actions := say(t, e, state, "KPMG")
	assert.Equal(t, []domain.CardID{domain.CardMenuRetry}, cards(actions))
	assert.Equal(t, 1, typing(actions))

	c.on("the first one", domain.IntentNone, 0.2, "KPMG", "")
	actions = say(t, e, state, "the first one")
	assert.Equal(t, []domain.CardID{domain.CardKPMGCategory}, cards(actions))
	assert.Equal(t, domain.OrganizationKPMG, state.Member.Company)
}

func TestRoot_ClassifierFailureAbortsTurn(t *testing.T) {
	c := newClassifier()
	c.err = errBoom
	e := newEngine(c, nil)
	state := domain.NewState("c1")

	_, err := e.Turn(context.Background(), state, domain.Activity{ConversationID: "c1", Text: "hi"})
	assert.ErrorIs(t, err, errBoom)
}

func TestRoot_UnconfiguredClassifierIsIgnored(t *testing.T) {
	c := newClassifier()
	c.configured = false
	e := newEngine(c, nil)
	state := domain.NewState("c1")

	actions := say(t, e, state, "KPMG")
	assert.Equal(t, []domain.CardID{domain.CardMenu}, cards(actions))
	assert.Empty(t, c.calls)
}

func TestEngine_UnknownDialog(t *testing.T) {
	e := newEngine(nil, nil)
	state := domain.NewState("c1")
	state.Stack = []domain.Frame{{Dialog: "ghost", Step: domain.StepAwaitingMenuChoice}}

	_, err := e.Turn(context.Background(), state, domain.Activity{ConversationID: "c1", Text: "hi"})
	assert.ErrorIs(t, err, domain.ErrUnknownDialog)
}

func TestEngine_UnknownStep(t *testing.T) {
	e := newEngine(nil, nil)
	state := domain.NewState("c1")
	state.Stack = []domain.Frame{{Dialog: domain.DialogRoot, Step: domain.StepAwaitingQuestion}}

	_, err := e.Turn(context.Background(), state, domain.Activity{ConversationID: "c1", Text: "hi"})
	assert.ErrorIs(t, err, domain.ErrUnknownStep)
}

func TestEngine_CancelledContext(t *testing.T) {
	e := newEngine(nil, nil)
	state := domain.NewState("c1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Turn(ctx, state, domain.Activity{ConversationID: "c1", Text: "hi"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var entered, left []domain.DialogID
	var intents []domain.Intent
	hooks := domain.LifecycleHooks{
		OnDialogEnter: func(ctx context.Context, e *domain.DialogEvent) { entered = append(entered, e.Dialog) },
		OnDialogLeave: func(ctx context.Context, e *domain.DialogEvent) { left = append(left, e.Dialog) },
		OnClassified:  func(ctx context.Context, e *domain.ClassifyEvent) { intents = append(intents, e.Intent) },
	}
	c := newClassifier()
	c.on("kpmg please", domain.IntentCareerQuestionType, 0.9, "KPMG", "")
	e := newEngine(c, nil, dialog.WithLifecycleHooks(hooks))
	state := domain.NewState("c1")

	say(t, e, state, "kpmg please")
	assert.Equal(t, []domain.DialogID{domain.DialogRoot, domain.DialogKPMG}, entered)
	assert.Empty(t, left)
	assert.Equal(t, []domain.Intent{domain.IntentCareerQuestionType}, intents)
}
