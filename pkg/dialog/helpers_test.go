package dialog_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/careerbot/pkg/dialog"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/stretchr/testify/require"
)

type stubStrings struct{}

func (stubStrings) Get(locale, key string, args ...any) string {
	if len(args) > 0 {
		return key + ":" + fmt.Sprint(args...)
	}
	return key
}

type stubCards struct{}

func (stubCards) Render(id domain.CardID) (domain.Attachment, error) {
	return domain.Attachment{
		ContentType: domain.AdaptiveCardContentType,
		Content:     json.RawMessage(`{"id":"` + string(id) + `"}`),
		Choices:     []string{string(id)},
	}, nil
}

type stubClassifier struct {
	configured bool
	results    map[string]*domain.Classification
	calls      []string
	err        error
}

func newClassifier() *stubClassifier {
	return &stubClassifier{configured: true, results: map[string]*domain.Classification{}}
}

func (s *stubClassifier) Configured() bool { return s.configured }

func (s *stubClassifier) Classify(ctx context.Context, text string) (*domain.Classification, error) {
	s.calls = append(s.calls, text)
	if s.err != nil {
		return nil, s.err
	}
	if r, ok := s.results[text]; ok {
		return r, nil
	}
	return &domain.Classification{Text: text, Intents: map[domain.Intent]float64{domain.IntentNone: 0.9}}, nil
}

func (s *stubClassifier) on(text string, intent domain.Intent, score float64, org string, questionType string) {
	c := &domain.Classification{Text: text, Intents: map[domain.Intent]float64{intent: score}}
	if org != "" {
		c.Entities.Organization = [][]string{{org}}
	}
	if questionType != "" {
		c.Entities.QuestionType = [][]string{{questionType}}
	}
	s.results[text] = c
}

type stubKnowledge struct {
	answers   []domain.Answer
	err       error
	questions []string
	queries   []domain.QueryOptions
}

func (s *stubKnowledge) Query(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.Answer, error) {
	s.questions = append(s.questions, question)
	s.queries = append(s.queries, opts)
	return s.answers, s.err
}

var errBoom = errors.New("boom")

func newEngine(c *stubClassifier, kb *stubKnowledge, opts ...dialog.Option) *dialog.Engine {
	deps := dialog.Deps{Strings: stubStrings{}, Cards: stubCards{}}
	if c != nil {
		deps.Classifier = c
	}
	if kb != nil {
		deps.Knowledge = kb
	}
	return dialog.New(deps, opts...)
}

func say(t *testing.T, e *dialog.Engine, state *domain.State, text string) []domain.ActionRequest {
	t.Helper()
	actions, err := e.Turn(context.Background(), state, domain.Activity{
		ConversationID: state.ConversationID,
		UserName:       "Ana",
		Text:           text,
		Locale:         "en-US",
	})
	require.NoError(t, err)
	return actions
}

func texts(actions []domain.ActionRequest) []string {
	var out []string
	for _, a := range actions {
		if a.Type == domain.ActionRenderContent {
			out = append(out, a.Payload.(string))
		}
	}
	return out
}

func cards(actions []domain.ActionRequest) []domain.CardID {
	var out []domain.CardID
	for _, a := range actions {
		if a.Type == domain.ActionRenderCard {
			out = append(out, domain.CardID(a.Payload.(domain.Attachment).Choices[0]))
		}
	}
	return out
}

func typing(actions []domain.ActionRequest) int {
	n := 0
	for _, a := range actions {
		if a.Type == domain.ActionTyping {
			n++
		}
	}
	return n
}

func steps(state *domain.State) []domain.Step {
	var out []domain.Step
	for _, f := range state.Stack {
		out = append(out, f.Step)
	}
	return out
}
