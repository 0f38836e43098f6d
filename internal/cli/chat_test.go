package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/careerbot/internal/logging"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChat_Text(t *testing.T) {
	rt := build(t, baseConfig())
	var out bytes.Buffer

	err := RunChat(context.Background(), rt, ChatOptions{
		ConversationID: "chat-1",
		UserName:       "Ana",
		In:             strings.NewReader("hello\n1\nexit\n"),
		Out:            &out,
	}, logging.NewNop())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "[System] Conversation 'chat-1' started.")
	assert.Contains(t, text, "only the menus are understood")
	assert.Contains(t, text, "Hi Ana")

	state, err := rt.Bot.Inspect(context.Background(), "chat-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrganizationKPMG, state.Member.Company)
}

func TestRunChat_ResumeAndFresh(t *testing.T) {
	rt := build(t, baseConfig())
	greet(t, rt, "chat-2")

	var out bytes.Buffer
	require.NoError(t, RunChat(context.Background(), rt, ChatOptions{
		ConversationID: "chat-2",
		In:             strings.NewReader(""),
		Out:            &out,
	}, logging.NewNop()))
	assert.Contains(t, out.String(), "Resuming conversation 'chat-2' at 'root.awaiting_menu_choice'.")

	out.Reset()
	require.NoError(t, RunChat(context.Background(), rt, ChatOptions{
		ConversationID: "chat-2",
		Fresh:          true,
		In:             strings.NewReader(""),
		Out:            &out,
	}, logging.NewNop()))
	assert.Contains(t, out.String(), "Conversation 'chat-2' started.")
}

func TestRunChat_JSON(t *testing.T) {
	rt := build(t, baseConfig())
	var out bytes.Buffer

	require.NoError(t, RunChat(context.Background(), rt, ChatOptions{
		ConversationID: "chat-3",
		JSON:           true,
		In:             strings.NewReader(`{"text":"hello"}` + "\n"),
		Out:            &out,
	}, logging.NewNop()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	var actions []domain.ActionRequest
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &actions))
	assert.NotEmpty(t, actions)
}
