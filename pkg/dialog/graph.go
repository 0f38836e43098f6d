package dialog

import "github.com/aretw0/careerbot/pkg/domain"

// Pseudo steps for the conversation outside any dialog.
const (
	StepIdle  domain.Step = "idle"
	StepEnded domain.Step = "ended"
)

// Transition is one edge of the dialog state machines.
type Transition struct {
	From  domain.Step
	To    domain.Step
	Label string
}

// Transitions describes every move the root and KPMG dialogs can make.
func Transitions() []Transition {
	return []Transition{
		{StepIdle, domain.StepAwaitingMenuChoice, "message"},
		{domain.StepAwaitingMenuChoice, domain.StepAwaitingMenuChoice, "greeting / invalid / unsupported"},
		{domain.StepAwaitingMenuChoice, domain.StepDelegated, "KPMG"},
		{domain.StepAwaitingMenuChoice, domain.StepAwaitingPlaceholder, "EY"},
		{domain.StepAwaitingMenuChoice, StepEnded, "no match"},
		{domain.StepAwaitingPlaceholder, domain.StepAwaitingMenuChoice, "reply"},
		{domain.StepDelegated, domain.StepAwaitingQuestionType, "begin"},
		{domain.StepDelegated, domain.StepAwaitingQuestion, "begin with category"},
		{domain.StepAwaitingQuestionType, domain.StepAwaitingQuestionType, "invalid category"},
		{domain.StepAwaitingQuestionType, domain.StepAwaitingQuestion, "category"},
		{domain.StepAwaitingQuestion, domain.StepAwaitingQuestion, "answered"},
		{domain.StepAwaitingQuestion, domain.StepAwaitingQuestionType, "answered, category cleared"},
		{domain.StepAwaitingQuestion, domain.StepAwaitingMenuChoice, "other organization"},
		{domain.StepAwaitingQuestion, StepEnded, "finish"},
		{StepEnded, StepIdle, ""},
	}
}
