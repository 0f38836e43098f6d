package careerbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/careerbot/internal/cards"
	"github.com/aretw0/careerbot/internal/localization"
	"github.com/aretw0/careerbot/internal/logging"
	"github.com/aretw0/careerbot/pkg/adapters/memory"
	"github.com/aretw0/careerbot/pkg/dialog"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/ports"
	"github.com/aretw0/careerbot/pkg/session"
)

// Version is overridden at build time with -ldflags "-X github.com/aretw0/careerbot.Version=...".
var Version = "dev"

// ErrMissingConversationID is returned for activities without a conversation id.
var ErrMissingConversationID = errors.New("activity has no conversation id")

// Bot is the high-level entry point: it loads a conversation, runs one turn of
// the dialog engine over it and persists the result.
type Bot struct {
	engine   *dialog.Engine
	sessions *session.Manager

	classifier ports.Classifier
	knowledge  ports.KnowledgeBase
	strings    ports.StringTable
	cards      ports.CardRenderer
	store      ports.StateStore
	locker     ports.DistributedLocker
	lockTTL    time.Duration
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithClassifier sets the utterance classifier. Nil or unconfigured runs the bot in menu-only mode.
func WithClassifier(c ports.Classifier) Option {
	return func(b *Bot) {
		b.classifier = c
	}
}

// WithKnowledgeBase sets the KPMG knowledge base. Nil answers every question with ErrorHelpNotFound.
func WithKnowledgeBase(kb ports.KnowledgeBase) Option {
	return func(b *Bot) {
		b.knowledge = kb
	}
}

// WithStrings replaces the built-in string tables.
func WithStrings(s ports.StringTable) Option {
	return func(b *Bot) {
		b.strings = s
	}
}

// WithCards replaces the built-in card templates.
func WithCards(c ports.CardRenderer) Option {
	return func(b *Bot) {
		b.cards = c
	}
}

// WithStore sets the conversation store (default: in memory).
func WithStore(s ports.StateStore) Option {
	return func(b *Bot) {
		b.store = s
	}
}

// WithLocker enables distributed locking across replicas.
func WithLocker(l ports.DistributedLocker) Option {
	return func(b *Bot) {
		b.locker = l
	}
}

// WithLockTTL bounds how long a distributed lock is held for one turn.
func WithLockTTL(ttl time.Duration) Option {
	return func(b *Bot) {
		b.lockTTL = ttl
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// New assembles a Bot. Strings, cards and store fall back to the built-in defaults.
func New(opts ...Option) (*Bot, error) {
	b := &Bot{}
	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if b.strings == nil {
		tbl, err := localization.New()
		if err != nil {
			return nil, fmt.Errorf("load string tables: %w", err)
		}
		b.strings = tbl
	}
	if b.cards == nil {
		r, err := cards.New()
		if err != nil {
			return nil, fmt.Errorf("load card templates: %w", err)
		}
		b.cards = r
	}
	if b.store == nil {
		b.store = memory.NewStore()
	}

	b.engine = dialog.New(dialog.Deps{
		Classifier: b.classifier,
		Knowledge:  b.knowledge,
		Strings:    b.strings,
		Cards:      b.cards,
	}, dialog.WithLogger(b.logger), dialog.WithLifecycleHooks(b.hooks))

	sessionOpts := []session.Option{session.WithLogger(b.logger)}
	if b.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(b.locker))
	}
	if b.lockTTL > 0 {
		sessionOpts = append(sessionOpts, session.WithLockTTL(b.lockTTL))
	}
	b.sessions = session.NewManager(b.store, sessionOpts...)
	return b, nil
}

// Turn handles one inbound activity and returns the replies to render.
// The conversation is saved only when the turn completes.
func (b *Bot) Turn(ctx context.Context, activity domain.Activity) ([]domain.ActionRequest, error) {
	if activity.ConversationID == "" {
		return nil, ErrMissingConversationID
	}

	start := time.Now()
	var actions []domain.ActionRequest
	err := b.sessions.Update(ctx, activity.ConversationID, func(ctx context.Context, state *domain.State) error {
		if state.UserID == "" {
			state.UserID = activity.UserID
		}
		var err error
		actions, err = b.engine.Turn(ctx, state, activity)
		return err
	})

	if b.hooks.OnTurn != nil {
		b.hooks.OnTurn(ctx, &domain.TurnEvent{
			EventBase: domain.EventBase{
				Timestamp:      time.Now(),
				Type:           domain.EventTurn,
				ConversationID: activity.ConversationID,
			},
			Duration: time.Since(start),
			Actions:  len(actions),
			Err:      err,
		})
	}
	if err != nil {
		b.logger.Error("turn failed", "conversation_id", activity.ConversationID, "err", err)
		return nil, err
	}
	return actions, nil
}

// Inspect returns the stored state of a conversation.
func (b *Bot) Inspect(ctx context.Context, conversationID string) (*domain.State, error) {
	return b.sessions.Load(ctx, conversationID)
}

// Reset deletes a conversation; the next turn starts from the greeting.
func (b *Bot) Reset(ctx context.Context, conversationID string) error {
	return b.sessions.Delete(ctx, conversationID)
}

// Conversations lists stored conversation ids.
func (b *Bot) Conversations(ctx context.Context) ([]string, error) {
	return b.sessions.List(ctx)
}

// ClassifierConfigured reports whether utterances are being classified.
func (b *Bot) ClassifierConfigured() bool {
	return b.classifier != nil && b.classifier.Configured()
}
