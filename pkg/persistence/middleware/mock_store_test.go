package middleware_test

import (
	"github.com/aretw0/careerbot/pkg/adapters/memory"
)

// NewMockStore returns the in-memory store used under the middlewares.
func NewMockStore() *memory.Store {
	return memory.NewStore()
}
