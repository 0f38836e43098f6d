package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/careerbot/internal/logging"
	"github.com/aretw0/careerbot/pkg/domain"
)

// maxTransitions bounds the begin/replace/end chain a single turn may run.
const maxTransitions = 32

// ErrTransitionLimit is returned when a turn keeps transitioning without reaching a prompt.
var ErrTransitionLimit = errors.New("dialog transition limit exceeded")

// Dialog is one resumable state machine.
type Dialog interface {
	ID() domain.DialogID
	// Begin starts a fresh instance in f.
	Begin(ctx context.Context, t *Turn, f *domain.Frame, p Payload) (Result, error)
	// Continue handles the utterance while f is suspended at a prompt.
	Continue(ctx context.Context, t *Turn, f *domain.Frame) (Result, error)
	// Resume handles the value returned by a child that ended.
	Resume(ctx context.Context, t *Turn, f *domain.Frame, p Payload) (Result, error)
}

// Engine runs turns over a conversation's dialog stack.
type Engine struct {
	deps    Deps
	dialogs map[domain.DialogID]Dialog
	root    domain.DialogID
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New creates an Engine with the root and KPMG dialogs registered.
func New(deps Deps, opts ...Option) *Engine {
	e := &Engine{
		deps:    deps,
		dialogs: make(map[domain.DialogID]Dialog),
		root:    domain.DialogRoot,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Register(NewRoot(deps))
	e.Register(NewKPMG(deps))
	return e
}

// Register adds or replaces a dialog.
func (e *Engine) Register(d Dialog) {
	e.dialogs[d.ID()] = d
}

// Turn processes one utterance against state, mutating it in place, and returns
// the actions to render. On error the caller must discard state.
func (e *Engine) Turn(ctx context.Context, state *domain.State, activity domain.Activity) ([]domain.ActionRequest, error) {
	t := e.newTurn(state, activity)

	var res Result
	var err error
	if top := state.Top(); top == nil {
		res, err = e.begin(ctx, t, e.root, Payload{Entry: domain.MenuEntry{Kind: domain.EntryFresh}})
	} else {
		d, ok := e.dialogs[top.Dialog]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDialog, top.Dialog)
		}
		e.logger.Debug("continue dialog", "conversation_id", state.ConversationID, "dialog", top.Dialog, "step", top.Step)
		res, err = d.Continue(ctx, t, top)
	}

	if err := e.apply(ctx, t, res, err); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state.UpdatedAt = time.Now().UTC()
	return t.Actions(), nil
}

func (e *Engine) newTurn(state *domain.State, activity domain.Activity) *Turn {
	return &Turn{
		Activity: activity,
		State:    state,
		strings:  e.deps.Strings,
		cards:    e.deps.Cards,
		hooks:    e.hooks,
		logger:   e.logger,
	}
}

func (e *Engine) apply(ctx context.Context, t *Turn, res Result, err error) error {
	for i := 0; ; i++ {
		if err != nil {
			return err
		}
		if i >= maxTransitions {
			return ErrTransitionLimit
		}

		switch res.Status {
		case StatusWaiting:
			return nil

		case StatusBegin:
			res, err = e.begin(ctx, t, res.Child, res.Payload)

		case StatusReplace:
			popped := e.pop(ctx, t)
			res, err = e.begin(ctx, t, popped.Dialog, res.Payload)

		case StatusEnd:
			e.pop(ctx, t)
			parent := t.State.Top()
			if parent == nil {
				return nil
			}
			d, ok := e.dialogs[parent.Dialog]
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrUnknownDialog, parent.Dialog)
			}
			res, err = d.Resume(ctx, t, parent, res.Payload)

		default:
			return fmt.Errorf("unexpected dialog status %d", res.Status)
		}
	}
}

func (e *Engine) begin(ctx context.Context, t *Turn, id domain.DialogID, p Payload) (Result, error) {
	d, ok := e.dialogs[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrUnknownDialog, id)
	}
	t.State.Stack = append(t.State.Stack, domain.Frame{Dialog: id, Values: map[string]any{}})
	e.logger.Debug("begin dialog", "conversation_id", t.State.ConversationID, "dialog", id, "depth", len(t.State.Stack))
	if e.hooks.OnDialogEnter != nil {
		e.hooks.OnDialogEnter(ctx, &domain.DialogEvent{EventBase: t.base(domain.EventDialogEnter), Dialog: id})
	}
	return d.Begin(ctx, t, t.State.Top(), p)
}

func (e *Engine) pop(ctx context.Context, t *Turn) domain.Frame {
	n := len(t.State.Stack)
	f := t.State.Stack[n-1]
	t.State.Stack = t.State.Stack[:n-1]
	e.logger.Debug("leave dialog", "conversation_id", t.State.ConversationID, "dialog", f.Dialog, "step", f.Step)
	if e.hooks.OnDialogLeave != nil {
		e.hooks.OnDialogLeave(ctx, &domain.DialogEvent{EventBase: t.base(domain.EventDialogLeave), Dialog: f.Dialog, Step: f.Step})
	}
	return f
}

func unknownStep(f *domain.Frame) error {
	return fmt.Errorf("%w: %s in %s", domain.ErrUnknownStep, f.Step, f.Dialog)
}
