package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/ports"
)

// Turn is the context of one inbound utterance. Dialogs record the actions the
// host should render on it and mutate the conversation state it carries.
type Turn struct {
	Activity domain.Activity
	State    *domain.State

	actions []domain.ActionRequest
	strings ports.StringTable
	cards   ports.CardRenderer
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Text returns the trimmed utterance.
func (t *Turn) Text() string {
	return strings.TrimSpace(t.Activity.Text)
}

// Member returns the persisted member record of the conversation.
func (t *Turn) Member() *domain.ConversationMember {
	return &t.State.Member
}

// Actions returns what the turn asked the host to render, in order.
func (t *Turn) Actions() []domain.ActionRequest {
	return t.actions
}

// Send queues a text message.
func (t *Turn) Send(text string) {
	t.actions = append(t.actions, domain.ActionRequest{Type: domain.ActionRenderContent, Payload: text})
}

// Say queues the localized string for key.
func (t *Turn) Say(key string, args ...any) {
	t.Send(t.String(key, args...))
}

// String looks up key in the string table for the activity locale.
func (t *Turn) String(key string, args ...any) string {
	return t.strings.Get(t.Activity.Locale, key, args...)
}

// Typing queues a typing indicator.
func (t *Turn) Typing() {
	t.actions = append(t.actions, domain.ActionRequest{Type: domain.ActionTyping})
}

// PromptText sends text and suspends on a free-text prompt.
func (t *Turn) PromptText(text string) {
	t.Send(text)
	t.actions = append(t.actions, domain.ActionRequest{
		Type:    domain.ActionRequestInput,
		Payload: domain.InputRequest{Type: domain.InputText},
	})
}

// PromptCard renders the card and suspends on a choice prompt.
func (t *Turn) PromptCard(id domain.CardID) error {
	card, err := t.cards.Render(id)
	if err != nil {
		return fmt.Errorf("render card %s: %w", id, err)
	}
	t.actions = append(t.actions,
		domain.ActionRequest{Type: domain.ActionRenderCard, Payload: card},
		domain.ActionRequest{
			Type:    domain.ActionRequestInput,
			Payload: domain.InputRequest{Type: domain.InputChoice, Options: card.Choices},
		},
	)
	return nil
}

func (t *Turn) base(typ domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: typ, ConversationID: t.State.ConversationID}
}

func (t *Turn) emitClassified(ctx context.Context, c *domain.Classification, minScore float64) {
	intent, score := c.TopIntent(minScore)
	t.logger.Debug("utterance classified",
		"conversation_id", t.State.ConversationID,
		"intent", intent,
		"score", score,
		"organization", c.Organization(),
	)
	if t.hooks.OnClassified != nil {
		t.hooks.OnClassified(ctx, &domain.ClassifyEvent{
			EventBase:    t.base(domain.EventClassified),
			Intent:       intent,
			Score:        score,
			Organization: c.Organization(),
		})
	}
}

func (t *Turn) emitAnswered(ctx context.Context, category domain.Category, answers []domain.Answer) {
	ev := &domain.AnswerEvent{
		EventBase: t.base(domain.EventAnswered),
		Category:  category,
		Found:     len(answers) > 0,
	}
	if ev.Found {
		ev.Score = answers[0].Score
	}
	t.logger.Debug("knowledge base queried",
		"conversation_id", t.State.ConversationID,
		"category", category,
		"found", ev.Found,
		"score", ev.Score,
	)
	if t.hooks.OnAnswered != nil {
		t.hooks.OnAnswered(ctx, ev)
	}
}
