package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrClassifierNotConfigured is returned when Classify is called on an adapter
// that reported Configured() == false.
var ErrClassifierNotConfigured = errors.New("classifier not configured")

// ErrKnowledgeBaseNotConfigured is returned by knowledge-base constructors
// when an id, key or host is missing.
var ErrKnowledgeBaseNotConfigured = errors.New("knowledge base not configured")

// ErrUnknownDialog is returned when a frame references a dialog that is not registered.
var ErrUnknownDialog = errors.New("unknown dialog")

// ErrUnknownStep is returned when a frame is suspended in a step its dialog does not handle.
var ErrUnknownStep = errors.New("unknown dialog step")

// ErrUnknownCard is returned when a card template id has no template.
var ErrUnknownCard = errors.New("unknown card template")
