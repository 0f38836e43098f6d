package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Output(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	needsInput, err := handler.Output(context.Background(), []domain.ActionRequest{
		{Type: domain.ActionRenderContent, Payload: "What would you like to know?"},
		{Type: domain.ActionRequestInput, Payload: domain.InputRequest{Type: domain.InputText}},
	})
	require.NoError(t, err)
	assert.True(t, needsInput)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, domain.ActionRenderContent, decoded[0]["type"])
	assert.Equal(t, "What would you like to know?", decoded[0]["payload"])
}

func TestJSONHandler_OutputNothing(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	needsInput, err := handler.Output(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, needsInput)
	assert.Empty(t, buf.String())
}

func TestJSONHandler_Input(t *testing.T) {
	in := strings.Join([]string{
		`"Hello World"`,
		`{"text":"KPMG"}`,
		`plain text`,
		`{"other":1}`,
		`last line without newline`,
	}, "\n")
	handler := NewJSONHandler(strings.NewReader(in), io.Discard)

	for _, want := range []string{"Hello World", "KPMG", "plain text", `{"other":1}`, "last line without newline"} {
		got, err := handler.Input(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler_SystemOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	require.NoError(t, handler.SystemOutput(context.Background(), "turn failed"))
	assert.JSONEq(t, `[{"type":"SYSTEM_MESSAGE","payload":"turn failed"}]`, buf.String())
}
