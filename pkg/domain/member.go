package domain

// ConversationMember is what the bot remembers about the user across turns.
type ConversationMember struct {
	WasGreeted   bool         `json:"was_greeted"`
	Company      Organization `json:"company"`
	QuestionType Category     `json:"question_type,omitempty"`
}

// NewConversationMember returns the record created on first access.
func NewConversationMember() ConversationMember {
	return ConversationMember{Company: OrganizationNotSupported}
}

// Clear forgets the organization in focus and its question type.
func (m *ConversationMember) Clear() {
	m.Company = OrganizationNotSupported
	m.QuestionType = ""
}
