package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	conversationID := "contract-test-conversation-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(conversationID)
		state.UserID = "user-1"
		state.Member.WasGreeted = true
		state.Member.Company = domain.OrganizationKPMG
		state.Member.QuestionType = domain.CategoryOffer
		state.Stack = []domain.Frame{
			{Dialog: domain.DialogRoot, Step: domain.StepAwaitingMenuChoice},
			{Dialog: domain.DialogKPMG, Step: domain.StepAwaitingQuestion, Values: map[string]any{"questionType": "offer"}},
		}

		err := store.Save(ctx, conversationID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, conversationID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, conversationID, loaded.ConversationID)
		assert.Equal(t, "user-1", loaded.UserID)
		assert.Equal(t, state.Member, loaded.Member)
		require.Len(t, loaded.Stack, 2)
		assert.Equal(t, domain.StepAwaitingQuestion, loaded.Stack[1].Step)
		assert.Equal(t, "offer", loaded.Stack[1].Values["questionType"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+conversationID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Loaded State Is Isolated", func(t *testing.T) {
		state := domain.NewState(conversationID)
		state.Stack = []domain.Frame{{Dialog: domain.DialogRoot, Step: domain.StepAwaitingMenuChoice, Values: map[string]any{"organization": "EY"}}}
		require.NoError(t, store.Save(ctx, conversationID, state))

		state.Stack[0].Values["organization"] = "PWC"

		loaded, err := store.Load(ctx, conversationID)
		require.NoError(t, err)
		assert.Equal(t, "EY", loaded.Stack[0].Values["organization"])
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, conversationID, domain.NewState(conversationID))
		require.NoError(t, err)

		err = store.Delete(ctx, conversationID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, conversationID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := conversationID + "-1"
		id2 := conversationID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewState(id1)))
		require.NoError(t, store.Save(ctx, id2, domain.NewState(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		conversations, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, conversations, id1)
		assert.Contains(t, conversations, id2)
	})
}
