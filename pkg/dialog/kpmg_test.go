package dialog_test

import (
	"testing"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startKPMG drives a classifier-less conversation into the KPMG category prompt.
func startKPMG(t *testing.T, kb *stubKnowledge) (*domain.State, func(string) []domain.ActionRequest) {
	t.Helper()
	e := newEngine(nil, kb)
	state := domain.NewState("c1")
	say(t, e, state, "hello")
	return state, func(text string) []domain.ActionRequest { return say(t, e, state, text) }
}

func TestKPMG_CategoryThenQuestion(t *testing.T) {
	state, send := startKPMG(t, &stubKnowledge{})

	actions := send("KPMG")
	assert.Equal(t, []domain.CardID{domain.CardKPMGCategory}, cards(actions))
	assert.Equal(t, []domain.Step{domain.StepDelegated, domain.StepAwaitingQuestionType}, steps(state))
	assert.Equal(t, domain.OrganizationKPMG, state.Member.Company)

	actions = send("applying")
	assert.Equal(t, []string{"PromptQuestion"}, texts(actions))
	assert.Equal(t, []domain.Step{domain.StepDelegated, domain.StepAwaitingQuestion}, steps(state))
	assert.Equal(t, "application", state.Stack[1].Values["questionType"])

	last := actions[len(actions)-1]
	require.Equal(t, domain.ActionRequestInput, last.Type)
	assert.Equal(t, domain.InputText, last.Payload.(domain.InputRequest).Type)
}

func TestKPMG_InvalidCategoryRetries(t *testing.T) {
	state, send := startKPMG(t, &stubKnowledge{})
	send("KPMG")

	actions := send("application")
	assert.Equal(t, []domain.CardID{domain.CardKPMGCategoryRetry}, cards(actions))
	assert.Equal(t, domain.StepAwaitingQuestionType, state.Top().Step)
}

func TestKPMG_NoAnswerLoopsWithSameCategory(t *testing.T) {
	kb := &stubKnowledge{}
	state, send := startKPMG(t, kb)
	send("KPMG")
	send("The Offer Stage")

	actions := send("can I negotiate salary?")
	assert.Equal(t, []string{"ErrorHelpNotFound", "PromptQuestion"}, texts(actions))
	assert.Empty(t, cards(actions))
	assert.Equal(t, []domain.Step{domain.StepDelegated, domain.StepAwaitingQuestion}, steps(state))
	assert.Equal(t, "offer", state.Stack[1].Values["questionType"])

	require.Len(t, kb.queries, 1)
	assert.Equal(t, []string{"can I negotiate salary?"}, kb.questions)
	assert.Equal(t, domain.QueryOptions{Top: 3, ScoreThreshold: 0.5, Category: domain.CategoryOffer}, kb.queries[0])
}

func TestKPMG_AnswerSent(t *testing.T) {
	kb := &stubKnowledge{answers: []domain.Answer{{Text: "Yes, politely.", Score: 0.92}, {Text: "Maybe", Score: 0.6}}}
	_, send := startKPMG(t, kb)
	send("KPMG")
	send("general questions")

	actions := send("can I negotiate salary?")
	assert.Equal(t, []string{"Yes, politely.", "PromptQuestion"}, texts(actions))
	assert.Equal(t, 1, typing(actions))
}

func TestKPMG_KnowledgeBaseFailureIsNoAnswer(t *testing.T) {
	kb := &stubKnowledge{answers: []domain.Answer{{Text: "unused"}}, err: errBoom}
	_, send := startKPMG(t, kb)
	send("KPMG")
	send("interviews")

	actions := send("dress code?")
	assert.Equal(t, []string{"ErrorHelpNotFound", "PromptQuestion"}, texts(actions))
}

func TestKPMG_WithoutKnowledgeBase(t *testing.T) {
	_, send := startKPMG(t, nil)
	send("KPMG")
	send("starting new job")

	actions := send("first day?")
	assert.Equal(t, []string{"ErrorHelpNotFound", "PromptQuestion"}, texts(actions))
}

func TestKPMG_EmptyQuestionReprompts(t *testing.T) {
	kb := &stubKnowledge{}
	state, send := startKPMG(t, kb)
	send("KPMG")
	send("applying")

	actions := send("   ")
	assert.Equal(t, []string{"RepromptQuestion"}, texts(actions))
	assert.Equal(t, domain.StepAwaitingQuestion, state.Top().Step)
	assert.Empty(t, kb.queries)
}

func TestKPMG_WithClassifier_SeededCategorySkipsCard(t *testing.T) {
	c := newClassifier()
	c.on("KPMG offers", domain.IntentCareerQuestionType, 0.9, "KPMG", "Offer")
	e := newEngine(c, &stubKnowledge{})
	state := domain.NewState("c1")

	actions := say(t, e, state, "KPMG offers")
	assert.Empty(t, cards(actions))
	assert.Equal(t, []string{"PromptQuestion"}, texts(actions))
	assert.Equal(t, domain.CategoryOffer, state.Member.QuestionType)
}

func TestKPMG_WithClassifier_CategoryValidation(t *testing.T) {
	c := newClassifier()
	c.on("kpmg", domain.IntentCareerQuestionType, 0.9, "KPMG", "")
	c.on("about assessments", domain.IntentCareerQuestionType, 0.9, "", "Assessment")
	c.on("about lunch", domain.IntentCareerQuestionType, 0.9, "", "lunch")
	e := newEngine(c, &stubKnowledge{})
	state := domain.NewState("c1")
	say(t, e, state, "kpmg")

	actions := say(t, e, state, "about lunch")
	assert.Equal(t, []domain.CardID{domain.CardKPMGCategoryRetry}, cards(actions))

	actions = say(t, e, state, "about assessments")
	assert.Equal(t, []string{"PromptQuestion"}, texts(actions))
	assert.Equal(t, "assessment", state.Top().Values["questionType"])
}

func TestKPMG_WithClassifier_FinishEndsConversation(t *testing.T) {
	c := newClassifier()
	c.on("kpmg", domain.IntentCareerQuestionType, 0.9, "KPMG", "general")
	c.on("that's all, thanks", domain.IntentFinish, 0.93, "", "")
	kb := &stubKnowledge{}
	e := newEngine(c, kb)
	state := domain.NewState("c1")
	say(t, e, state, "kpmg")

	actions := say(t, e, state, "that's all, thanks")
	assert.Equal(t, []string{"ResponseEnd"}, texts(actions))
	assert.True(t, state.Idle())
	assert.Equal(t, domain.OrganizationNotSupported, state.Member.Company)
	assert.Empty(t, state.Member.QuestionType)
	assert.Empty(t, kb.queries)
}

func TestKPMG_WithClassifier_LowConfidenceFinishIsAQuestion(t *testing.T) {
	c := newClassifier()
	c.on("kpmg", domain.IntentCareerQuestionType, 0.9, "KPMG", "general")
	c.on("done?", domain.IntentFinish, 0.7, "", "")
	kb := &stubKnowledge{}
	e := newEngine(c, kb)
	state := domain.NewState("c1")
	say(t, e, state, "kpmg")

	actions := say(t, e, state, "done?")
	assert.Equal(t, []string{"ErrorHelpNotFound", "PromptQuestion"}, texts(actions))
	require.Len(t, kb.queries, 1)
	assert.Equal(t, domain.CategoryGeneral, kb.queries[0].Category)
}

func TestKPMG_WithClassifier_PivotToAnotherOrganization(t *testing.T) {
	c := newClassifier()
	c.on("kpmg", domain.IntentCareerQuestionType, 0.9, "KPMG", "offer")
	c.on("what about EY interviews", domain.IntentCareerQuestionType, 0.95, "EY", "interviews")
	kb := &stubKnowledge{}
	e := newEngine(c, kb)
	state := domain.NewState("c1")
	say(t, e, state, "kpmg")

	actions := say(t, e, state, "what about EY interviews")
	assert.Equal(t, []string{"PlaceholderPrompt"}, texts(actions))
	assert.Equal(t, []domain.Step{domain.StepAwaitingPlaceholder}, steps(state))
	assert.Equal(t, domain.OrganizationEY, state.Member.Company)
	assert.Empty(t, kb.queries)
}

func TestKPMG_WithClassifier_PivotToUnsupportedOrganization(t *testing.T) {
	c := newClassifier()
	c.on("kpmg", domain.IntentCareerQuestionType, 0.9, "KPMG", "offer")
	c.on("and PwC?", domain.IntentCareerQuestionType, 0.95, "pwc", "")
	e := newEngine(c, &stubKnowledge{})
	state := domain.NewState("c1")
	say(t, e, state, "kpmg")

	actions := say(t, e, state, "and PwC?")
	assert.Equal(t, []string{"ErrorUnsupportedOrganization"}, texts(actions))
	assert.Equal(t, []domain.CardID{domain.CardMenu}, cards(actions))
	assert.Equal(t, []domain.Step{domain.StepAwaitingMenuChoice}, steps(state))
}

func TestKPMG_WithClassifier_QuestionTypeOverwrittenOrCleared(t *testing.T) {
	c := newClassifier()
	c.on("kpmg", domain.IntentCareerQuestionType, 0.9, "KPMG", "offer")
	c.on("kpmg interview tips", domain.IntentCareerQuestionType, 0.9, "KPMG", "interviews")
	c.on("kpmg anything", domain.IntentCareerQuestionType, 0.9, "KPMG", "")
	kb := &stubKnowledge{}
	e := newEngine(c, kb)
	state := domain.NewState("c1")
	say(t, e, state, "kpmg")

	say(t, e, state, "kpmg interview tips")
	require.Len(t, kb.queries, 1)
	assert.Equal(t, domain.CategoryInterviews, kb.queries[0].Category)
	assert.Equal(t, "interviews", state.Top().Values["questionType"])

	actions := say(t, e, state, "kpmg anything")
	require.Len(t, kb.queries, 2)
	assert.Equal(t, domain.Category(""), kb.queries[1].Category)
	assert.Equal(t, []domain.CardID{domain.CardKPMGCategory}, cards(actions))
	assert.Equal(t, domain.StepAwaitingQuestionType, state.Top().Step)
}

func TestKPMG_WithClassifier_UnlistedQuestionTypeIsKept(t *testing.T) {
	c := newClassifier()
	c.on("KPMG salaries", domain.IntentCareerQuestionType, 0.9, "KPMG", "salary")
	c.on("kpmg graduate schemes", domain.IntentCareerQuestionType, 0.9, "KPMG", "Graduate")
	kb := &stubKnowledge{}
	e := newEngine(c, kb)
	state := domain.NewState("c1")

	actions := say(t, e, state, "KPMG salaries")
	assert.Empty(t, cards(actions))
	assert.Equal(t, []string{"PromptQuestion"}, texts(actions))
	assert.Equal(t, domain.Category("salary"), state.Member.QuestionType)

	say(t, e, state, "kpmg graduate schemes")
	require.Len(t, kb.queries, 1)
	assert.Equal(t, domain.Category("Graduate"), kb.queries[0].Category)
	assert.Equal(t, domain.StepAwaitingQuestion, state.Top().Step)
	assert.Equal(t, "Graduate", state.Top().Values["questionType"])
}
