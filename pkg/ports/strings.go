package ports

import "github.com/aretw0/careerbot/pkg/domain"

// String table keys.
const (
	KeyErrorHelpNotFound            = "ErrorHelpNotFound"
	KeyErrorUnsupportedOrganization = "ErrorUnsupportedOrganization"
	KeyGreeting                     = "Greeting"
	KeyWelcome                      = "Welcome"
	KeyResponseEnd                  = "ResponseEnd"
	KeyPromptQuestion               = "PromptQuestion"
	KeyRepromptQuestion             = "RepromptQuestion"
	KeyPlaceholderPrompt            = "PlaceholderPrompt"
)

// StringTable returns display strings by key for a locale.
type StringTable interface {
	// Get returns the string for key, falling back to the default locale.
	// Positional placeholders ({0}, {1}) are replaced by args.
	Get(locale, key string, args ...any) string
}

// CardRenderer renders card templates.
type CardRenderer interface {
	Render(id domain.CardID) (domain.Attachment, error)
}
