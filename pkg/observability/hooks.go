package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/careerbot/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level, and failed turns at warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "turn failed",
					"conversation_id", e.ConversationID,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "turn",
				"conversation_id", e.ConversationID,
				"duration", e.Duration,
				"actions", e.Actions,
			)
		},
		OnDialogEnter: func(ctx context.Context, e *domain.DialogEvent) {
			logger.DebugContext(ctx, "dialog_enter", "conversation_id", e.ConversationID, "dialog", e.Dialog)
		},
		OnDialogLeave: func(ctx context.Context, e *domain.DialogEvent) {
			logger.DebugContext(ctx, "dialog_leave", "conversation_id", e.ConversationID, "dialog", e.Dialog, "step", e.Step)
		},
		OnClassified: func(ctx context.Context, e *domain.ClassifyEvent) {
			logger.DebugContext(ctx, "classified",
				"conversation_id", e.ConversationID,
				"intent", e.Intent,
				"score", e.Score,
				"organization", e.Organization,
			)
		},
		OnAnswered: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.DebugContext(ctx, "answered",
				"conversation_id", e.ConversationID,
				"category", e.Category,
				"found", e.Found,
				"score", e.Score,
			)
		},
	}
}

// Combine fans each event out to every hook set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, s := range sets {
		out.OnTurn = chain(out.OnTurn, s.OnTurn)
		out.OnDialogEnter = chain(out.OnDialogEnter, s.OnDialogEnter)
		out.OnDialogLeave = chain(out.OnDialogLeave, s.OnDialogLeave)
		out.OnClassified = chain(out.OnClassified, s.OnClassified)
		out.OnAnswered = chain(out.OnAnswered, s.OnAnswered)
	}
	return out
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
