package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/runner"
)

// ChatOptions configures an interactive or JSON-lines chat session.
type ChatOptions struct {
	ConversationID string
	UserID         string
	UserName       string
	Locale         string

	// JSON switches to one JSON document per line on both ends.
	JSON bool
	// Fresh deletes the stored conversation before the first turn.
	Fresh bool
	// Renderer formats text replies in text mode. Nil prints them as is.
	Renderer runner.ContentRenderer

	In  io.Reader
	Out io.Writer
}

// RunChat drives one conversation from opts.In until it ends or ctx is done.
func RunChat(ctx context.Context, rt *Runtime, opts ChatOptions, logger *slog.Logger) error {
	if opts.Fresh {
		if err := rt.Bot.Reset(ctx, opts.ConversationID); err != nil {
			return fmt.Errorf("reset conversation: %w", err)
		}
		logger.Info("conversation reset", "conversation_id", opts.ConversationID)
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		var handlerOpts []runner.TextHandlerOption
		if opts.Renderer != nil {
			handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(opts.Renderer))
		}
		handler = runner.NewTextHandler(opts.In, opts.Out, handlerOpts...)
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithConversationID(opts.ConversationID),
		runner.WithUser(opts.UserID, opts.UserName),
		runner.WithLocale(opts.Locale),
	}
	if !opts.JSON {
		intro, err := introMessage(ctx, rt, opts.ConversationID)
		if err != nil {
			return err
		}
		runnerOpts = append(runnerOpts, runner.WithIntro(intro))
	}

	return runner.NewRunner(runnerOpts...).Run(ctx, rt.Bot)
}

func introMessage(ctx context.Context, rt *Runtime, conversationID string) (string, error) {
	msg := fmt.Sprintf("Conversation '%s' started. Say hello, or type exit to leave.", conversationID)
	state, err := rt.Bot.Inspect(ctx, conversationID)
	switch {
	case err == nil:
		msg = fmt.Sprintf("Resuming conversation '%s' at %s.", conversationID, resumePoint(state))
	case !errors.Is(err, domain.ErrSessionNotFound):
		return "", fmt.Errorf("load conversation: %w", err)
	}
	if !rt.Bot.ClassifierConfigured() {
		msg += " No classifier is configured, so only the menus are understood."
	}
	return msg, nil
}

func resumePoint(state *domain.State) string {
	if len(state.Stack) == 0 {
		return "the start"
	}
	return "'" + string(state.Stack[len(state.Stack)-1].Step) + "'"
}
