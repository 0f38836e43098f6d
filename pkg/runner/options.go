package runner

import (
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithConversationID sets the conversation every utterance belongs to.
func WithConversationID(id string) Option {
	return func(r *Runner) {
		r.Activity.ConversationID = id
	}
}

// WithUser sets the sender of every utterance.
func WithUser(id, name string) Option {
	return func(r *Runner) {
		r.Activity.UserID = id
		r.Activity.UserName = name
	}
}

// WithLocale sets the locale of every utterance.
func WithLocale(locale string) Option {
	return func(r *Runner) {
		r.Activity.Locale = locale
	}
}

// WithIntro sets the system message written before the first prompt.
func WithIntro(msg string) Option {
	return func(r *Runner) {
		r.Intro = msg
	}
}
