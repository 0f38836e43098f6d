package domain

import "encoding/json"

// ActionRequest represents something a turn asks the host to render.
type ActionRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Standard Action Types
const (
	// ActionRenderContent requests the host to display text to the user.
	// Payload: string
	ActionRenderContent = "RENDER_CONTENT"

	// ActionRenderCard requests the host to display a card.
	// Payload: Attachment
	ActionRenderCard = "RENDER_CARD"

	// ActionTyping requests a typing indicator. No payload.
	ActionTyping = "TYPING"

	// ActionRequestInput tells the host the conversation is suspended at a prompt.
	// Payload: InputRequest
	ActionRequestInput = "REQUEST_INPUT"
)

// InputType defines the kind of input requested.
type InputType string

const (
	InputText   InputType = "text"
	InputChoice InputType = "choice"
)

// InputRequest describes the prompt the conversation waits on.
type InputRequest struct {
	Type    InputType `json:"type"`
	Options []string  `json:"options,omitempty"`
}

// CardID identifies a card template.
type CardID string

const (
	CardMenu              CardID = "menu"
	CardMenuRetry         CardID = "menu-retry"
	CardKPMGCategory      CardID = "kpmg-category"
	CardKPMGCategoryRetry CardID = "kpmg-category-retry"
)

// AdaptiveCardContentType is the attachment content type of rendered cards.
const AdaptiveCardContentType = "application/vnd.microsoft.card.adaptive"

// Attachment is a rendered card.
type Attachment struct {
	ContentType string          `json:"content_type"`
	Content     json.RawMessage `json:"content"`
	// Choices are the submit titles of the card, for hosts that cannot render cards.
	Choices []string `json:"choices,omitempty"`
}

// Activity is one inbound user message.
type Activity struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id,omitempty"`
	UserName       string `json:"user_name,omitempty"`
	Text           string `json:"text"`
	Locale         string `json:"locale,omitempty"`
}
