package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/careerbot"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBot(t *testing.T) *careerbot.Bot {
	t.Helper()
	bot, err := careerbot.New()
	require.NoError(t, err)
	return bot
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestSendMessage(t *testing.T) {
	s := NewServer(newBot(t), "test")
	ctx := context.Background()

	res, err := s.handleSendMessage(ctx, mcp.CallToolRequest{}, SendMessageArgs{
		ConversationID: "m1",
		Text:           "hello",
		UserName:       "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", res.ConversationID)
	assert.True(t, res.AwaitingReply)
	assert.Contains(t, res.Text, "Hi Ana, I'm the careers advice bot.")
	assert.Contains(t, res.Text, "Options: KPMG, Deloitte, EY, PWC")

	res, err = s.handleSendMessage(ctx, mcp.CallToolRequest{}, SendMessageArgs{ConversationID: "m1", Text: "KPMG"})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Interviews")
}

func TestSendMessage_NewConversation(t *testing.T) {
	s := NewServer(newBot(t), "test")

	res, err := s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, SendMessageArgs{Text: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ConversationID)
}

func TestSendMessage_RejectsEmptyText(t *testing.T) {
	s := NewServer(newBot(t), "test")

	_, err := s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, SendMessageArgs{ConversationID: "m1", Text: "\x07  "})
	assert.Error(t, err)
}

func TestInspectAndReset(t *testing.T) {
	bot := newBot(t)
	s := NewServer(bot, "test")
	ctx := context.Background()

	_, err := s.handleSendMessage(ctx, mcp.CallToolRequest{}, SendMessageArgs{ConversationID: "m2", Text: "hello"})
	require.NoError(t, err)

	res, err := s.handleInspect(ctx, callRequest("inspect_conversation", map[string]any{"conversation_id": "m2"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var state domain.State
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &state))
	assert.Equal(t, "m2", state.ConversationID)
	assert.True(t, state.Member.WasGreeted)

	res, err = s.handleReset(ctx, callRequest("reset_conversation", map[string]any{"conversation_id": "m2"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleInspect(ctx, callRequest("inspect_conversation", map[string]any{"conversation_id": "m2"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "not found")
}

func TestInspect_MissingID(t *testing.T) {
	s := NewServer(newBot(t), "test")

	res, err := s.handleInspect(context.Background(), callRequest("inspect_conversation", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestToolsAreListed(t *testing.T) {
	s := NewServer(newBot(t), "test")

	msg := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	for _, name := range []string{"send_message", "inspect_conversation", "reset_conversation"} {
		assert.Contains(t, string(raw), name)
	}
}

func TestTranscript(t *testing.T) {
	actions := []domain.ActionRequest{
		{Type: domain.ActionTyping},
		{Type: domain.ActionRenderContent, Payload: "Use the STAR method."},
		{Type: domain.ActionRenderCard, Payload: domain.Attachment{
			Content: json.RawMessage(`{"body":[{"type":"TextBlock","text":"Pick a topic"}]}`),
			Choices: []string{"Applying", "Interviews"},
		}},
	}
	assert.Equal(t, "Use the STAR method.\nPick a topic\nOptions: Applying, Interviews", Transcript(actions))
	assert.False(t, awaitingReply(actions))
}
