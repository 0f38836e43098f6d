package runner_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/careerbot"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBot struct {
	got  []domain.Activity
	fail map[string]error
}

func (b *recordingBot) Turn(ctx context.Context, a domain.Activity) ([]domain.ActionRequest, error) {
	b.got = append(b.got, a)
	if err := b.fail[a.Text]; err != nil {
		return nil, err
	}
	return []domain.ActionRequest{
		{Type: domain.ActionRenderContent, Payload: "echo " + a.Text},
		{Type: domain.ActionRequestInput, Payload: domain.InputRequest{Type: domain.InputText}},
	}, nil
}

func TestRunner_SendsActivityTemplate(t *testing.T) {
	out := &bytes.Buffer{}
	bot := &recordingBot{}
	r := runner.NewRunner(
		runner.WithConversationID("local-1"),
		runner.WithUser("u1", "Ana"),
		runner.WithLocale("es-ES"),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("hello\n\nKPMG\n"), out)),
	)

	require.NoError(t, r.Run(context.Background(), bot))

	require.Len(t, bot.got, 2)
	assert.Equal(t, domain.Activity{ConversationID: "local-1", UserID: "u1", UserName: "Ana", Locale: "es-ES", Text: "hello"}, bot.got[0])
	assert.Equal(t, "KPMG", bot.got[1].Text)
	assert.Contains(t, out.String(), "echo KPMG")
}

func TestRunner_ExitCommand(t *testing.T) {
	bot := &recordingBot{}
	r := runner.NewRunner(
		runner.WithConversationID("c"),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("hi\nquit\nnever sent\n"), &bytes.Buffer{})),
	)

	require.NoError(t, r.Run(context.Background(), bot))
	assert.Len(t, bot.got, 1)
}

func TestRunner_TurnFailureKeepsLooping(t *testing.T) {
	buf := &bytes.Buffer{}
	bot := &recordingBot{fail: map[string]error{"boom": errors.New("classifier down")}}
	r := runner.NewRunner(
		runner.WithConversationID("c"),
		runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader("\"boom\"\n\"again\"\n"), buf)),
	)

	require.NoError(t, r.Run(context.Background(), bot))
	assert.Len(t, bot.got, 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], runner.ActionSystemMessage)
	assert.Contains(t, lines[0], "classifier down")
	assert.Contains(t, lines[1], "echo again")
}

func TestRunner_RequiresConversationID(t *testing.T) {
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), &bytes.Buffer{})))
	assert.Error(t, r.Run(context.Background(), &recordingBot{}))
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bot := &recordingBot{}
	r := runner.NewRunner(
		runner.WithConversationID("c"),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("hi\n"), &bytes.Buffer{})),
	)
	require.NoError(t, r.Run(ctx, bot))
	assert.Empty(t, bot.got)
}

func TestRunner_Intro(t *testing.T) {
	out := &bytes.Buffer{}
	r := runner.NewRunner(
		runner.WithConversationID("c"),
		runner.WithIntro("Say hi to start."),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), out)),
	)
	require.NoError(t, r.Run(context.Background(), &recordingBot{}))
	assert.True(t, strings.HasPrefix(out.String(), "[System] Say hi to start.\n"))
}

func TestRunner_WithBot(t *testing.T) {
	bot, err := careerbot.New()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	r := runner.NewRunner(
		runner.WithConversationID("console"),
		runner.WithUser("u1", "Ana"),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("hello\n1\n"), out)),
	)
	require.NoError(t, r.Run(context.Background(), bot))

	transcript := out.String()
	assert.Contains(t, transcript, "Hi Ana, I'm the careers advice bot.")
	assert.Contains(t, transcript, "  1. KPMG")
	assert.Contains(t, transcript, "  4. Interviews")

	state, err := bot.Inspect(context.Background(), "console")
	require.NoError(t, err)
	assert.Equal(t, domain.OrganizationKPMG, state.Member.Company)
}
