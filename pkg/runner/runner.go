package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/careerbot/internal/logging"
	"github.com/aretw0/careerbot/pkg/domain"
)

// Turner is the part of the bot the runner drives.
type Turner interface {
	Turn(ctx context.Context, activity domain.Activity) ([]domain.ActionRequest, error)
}

// Runner reads utterances from an IOHandler, feeds them to the bot one turn at
// a time and writes back what the bot said.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdio.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Activity is the template every utterance is sent with.
	Activity domain.Activity

	// Intro is written as a system message before the first prompt.
	Intro string
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loops until the input ends, the user types exit or quit, or ctx is
// cancelled. Turn failures are reported and the loop goes on; the failed
// turn leaves the conversation untouched.
func (r *Runner) Run(ctx context.Context, bot Turner) error {
	if r.Activity.ConversationID == "" {
		return errors.New("runner: conversation id is required")
	}
	handler := r.resolveHandler()

	signals := NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	if r.Intro != "" {
		if err := handler.SystemOutput(ctx, r.Intro); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	for {
		text, err := handler.Input(ctx)
		if err != nil {
			signals.CheckRace()
			if ctx.Err() != nil {
				r.Logger.Debug("runner interrupted", "err", ctx.Err())
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
				if err := handler.SystemOutput(ctx, err.Error()); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				continue
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch text {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		activity := r.Activity
		activity.Text = text
		actions, err := bot.Turn(ctx, activity)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.Logger.Warn("turn failed", "conversation_id", activity.ConversationID, "err", err)
			if err := handler.SystemOutput(ctx, fmt.Sprintf("turn failed: %v", err)); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		needsInput, err := handler.Output(ctx, actions)
		if err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		if !needsInput {
			r.Logger.Debug("conversation ended", "conversation_id", activity.ConversationID)
		}
	}
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}
