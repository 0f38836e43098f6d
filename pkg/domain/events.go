package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn        EventType = "turn"
	EventDialogEnter EventType = "dialog_enter"
	EventDialogLeave EventType = "dialog_leave"
	EventClassified  EventType = "classified"
	EventAnswered    EventType = "answered"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp      time.Time `json:"timestamp"`
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
}

// TurnEvent is emitted once a turn has been processed.
type TurnEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	Actions  int           `json:"actions"`
	Err      error         `json:"-"`
}

// DialogEvent represents a dialog being pushed on or popped off the stack.
type DialogEvent struct {
	EventBase
	Dialog DialogID `json:"dialog"`
	Step   Step     `json:"step,omitempty"`
}

// ClassifyEvent carries the top intent of a classification.
type ClassifyEvent struct {
	EventBase
	Intent       Intent       `json:"intent"`
	Score        float64      `json:"score"`
	Organization Organization `json:"organization"`
}

// AnswerEvent reports a knowledge-base lookup.
type AnswerEvent struct {
	EventBase
	Category Category `json:"category,omitempty"`
	Found    bool     `json:"found"`
	Score    float64  `json:"score,omitempty"`
}

// LifecycleHooks defines callbacks for observability. Nil hooks are skipped.
type LifecycleHooks struct {
	OnTurn        func(context.Context, *TurnEvent)
	OnDialogEnter func(context.Context, *DialogEvent)
	OnDialogLeave func(context.Context, *DialogEvent)
	OnClassified  func(context.Context, *ClassifyEvent)
	OnAnswered    func(context.Context, *AnswerEvent)
}
