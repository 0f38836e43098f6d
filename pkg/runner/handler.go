package runner

import (
	"context"

	"github.com/aretw0/careerbot/pkg/domain"
)

// ActionSystemMessage tags meta messages written by handlers that speak a
// structured protocol.
const ActionSystemMessage = "SYSTEM_MESSAGE"

// IOHandler defines how the runner talks to the person on the other end.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the actions of one turn.
	// Returns true if the bot is waiting on a reply.
	Output(ctx context.Context, actions []domain.ActionRequest) (bool, error)

	// Input reads the next utterance.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (status, errors) that is not part
	// of the conversation.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms message text before it is written, e.g. markdown
// to ANSI.
type ContentRenderer func(string) (string, error)
