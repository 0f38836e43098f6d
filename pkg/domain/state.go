package domain

import "time"

// DialogID names a registered dialog.
type DialogID string

const (
	DialogRoot DialogID = "root"
	DialogKPMG DialogID = "kpmg"
)

// Step is the discriminated tag of the point a frame is suspended at.
type Step string

const (
	StepAwaitingMenuChoice   Step = "root.awaiting_menu_choice"
	StepDelegated            Step = "root.delegated"
	StepAwaitingPlaceholder  Step = "root.awaiting_placeholder"
	StepAwaitingQuestionType Step = "kpmg.awaiting_question_type"
	StepAwaitingQuestion     Step = "kpmg.awaiting_question"
)

// Frame is one suspended dialog instance.
type Frame struct {
	Dialog DialogID `json:"dialog"`
	Step   Step     `json:"step"`
	// Values is the step-local bag (organization, questionType). It dies with the frame.
	Values map[string]any `json:"values,omitempty"`
}

// State represents the persisted snapshot of one conversation.
type State struct {
	ConversationID string             `json:"conversation_id"`
	UserID         string             `json:"user_id,omitempty"`
	Member         ConversationMember `json:"member,omitzero"`
	// Stack holds suspended dialogs, innermost last. Empty means idle.
	Stack     []Frame   `json:"stack,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	// Sealed carries the encrypted snapshot when the state is an at-rest envelope.
	Sealed string `json:"sealed,omitempty"`
}

// NewState creates an idle conversation with a default member.
func NewState(conversationID string) *State {
	return &State{
		ConversationID: conversationID,
		Member:         NewConversationMember(),
		UpdatedAt:      time.Now().UTC(),
	}
}

// Idle reports whether no dialog is active.
func (s *State) Idle() bool {
	return len(s.Stack) == 0
}

// Top returns the innermost frame, or nil when idle.
func (s *State) Top() *Frame {
	if len(s.Stack) == 0 {
		return nil
	}
	return &s.Stack[len(s.Stack)-1]
}

// Clone returns a deep copy safe to hand to another goroutine or store.
func (s *State) Clone() *State {
	c := *s
	c.Stack = make([]Frame, len(s.Stack))
	for i, f := range s.Stack {
		c.Stack[i] = f
		if f.Values != nil {
			c.Stack[i].Values = make(map[string]any, len(f.Values))
			for k, v := range f.Values {
				c.Stack[i].Values[k] = v
			}
		}
	}
	return &c
}
