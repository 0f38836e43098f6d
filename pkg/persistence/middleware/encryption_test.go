package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"testing"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/persistence/middleware"
	"github.com/aretw0/careerbot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secure(t *testing.T, store ports.StateStore, cfg middleware.EncryptionConfig) ports.StateStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(store)
}

func sampleState(id string) *domain.State {
	state := domain.NewState(id)
	state.UserID = "user-42"
	state.Member.Company = domain.OrganizationKPMG
	state.Stack = []domain.Frame{{Dialog: domain.DialogKPMG, Step: domain.StepAwaitingQuestion, Values: map[string]any{"questionType": "offer"}}}
	return state
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, secure(t, NewMockStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := NewMockStore()
	store := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "c1", sampleState("c1")))

	raw, err := underlying.Load(ctx, "c1")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)
	assert.Empty(t, raw.UserID)
	assert.Empty(t, raw.Stack)
	assert.Equal(t, domain.Organization(""), raw.Member.Company)

	loaded, err := store.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "user-42", loaded.UserID)
	assert.Equal(t, domain.OrganizationKPMG, loaded.Member.Company)
	assert.Equal(t, "offer", loaded.Stack[0].Values["questionType"])
}

func TestEncryptionMiddleware_EnvelopeHidesMember(t *testing.T) {
	underlying := NewMockStore()
	store := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	state := sampleState("c1")
	state.Member.WasGreeted = true
	require.NoError(t, store.Save(ctx, "c1", state))

	raw, err := underlying.Load(ctx, "c1")
	require.NoError(t, err)
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"member"`)
	assert.NotContains(t, string(data), "was_greeted")
	assert.Contains(t, string(data), `"sealed"`)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := NewMockStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	oldStore := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})
	require.NoError(t, oldStore.Save(ctx, "c1", sampleState("c1")))

	newStore := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	loaded, err := newStore.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "user-42", loaded.UserID)

	require.NoError(t, newStore.Save(ctx, "c1", loaded))
	_, err = oldStore.Load(ctx, "c1")
	assert.Error(t, err, "old key must not open data sealed with the new key")
}

func TestEncryptionMiddleware_RejectsPlainState(t *testing.T) {
	underlying := NewMockStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "c1", sampleState("c1")))

	_, err := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)}).Load(ctx, "c1")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t), FallbackKeys: [][]byte{{1}}})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)

	k, err := middleware.ParseKey(hex.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, k)

	k, err = middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, k)

	_, err = middleware.ParseKey("too-short")
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.StateStore) ports.StateStore {
			return &recording{StateStore: next, name: name, calls: &calls}
		}
	}
	store := middleware.Chain(NewMockStore(), tag("outer"), tag("inner"))
	require.NoError(t, store.Save(context.Background(), "c1", domain.NewState("c1")))
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type recording struct {
	ports.StateStore
	name  string
	calls *[]string
}

func (r *recording) Save(ctx context.Context, id string, s *domain.State) error {
	*r.calls = append(*r.calls, r.name)
	return r.StateStore.Save(ctx, id, s)
}
