// Package openai classifies utterances with a chat-completion model that
// answers in the same intent and entity shape as the LUIS model.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/careerbot/internal/logging"
	"github.com/aretw0/careerbot/pkg/domain"
	goopenai "github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the model returns no choices.
var ErrEmptyCompletion = errors.New("openai returned no choices")

const systemPrompt = `You classify messages sent to a careers-advice assistant.
Reply with JSON only, in this exact shape:
{"intents":{"<intent>":<score 0..1>},"organization":["<value>"],"question_type":["<value>"]}
Intents: CareerQuestionType, Greeting, GoBack, Finish, None.
organization values: KPMG, Deloitte, EY, PWC. Omit organizations you do not recognize.
question_type values: general, application, assessment, interviews, offer, starting.
List one value per mention found in the message.`

// ChatClient is the subset of the go-openai client used here.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Config holds the API credentials.
type Config struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Classifier implements ports.Classifier.
type Classifier struct {
	client     ChatClient
	model      string
	configured bool
	logger     *slog.Logger
}

// Option configures the Classifier.
type Option func(*Classifier)

// WithClient replaces the go-openai client.
func WithClient(c ChatClient) Option {
	return func(cl *Classifier) {
		cl.client = c
		cl.configured = c != nil
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Classifier) {
		cl.logger = logger
	}
}

// New creates a Classifier. Without an API key it reports not configured.
func New(cfg Config, opts ...Option) *Classifier {
	model := cfg.Model
	if model == "" {
		model = goopenai.GPT4oMini
	}
	c := &Classifier{
		model:  model,
		logger: logging.NewNop(),
	}
	if cfg.APIKey != "" {
		oc := goopenai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		c.client = goopenai.NewClientWithConfig(oc)
		c.configured = true
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key or client was provided.
func (c *Classifier) Configured() bool {
	return c.configured
}

type completion struct {
	Intents      map[string]float64 `json:"intents"`
	Organization []string           `json:"organization"`
	QuestionType []string           `json:"question_type"`
}

// Classify asks the model to classify utterance.
func (c *Classifier) Classify(ctx context.Context, utterance string) (*domain.Classification, error) {
	if !c.configured {
		return nil, domain.ErrClassifierNotConfigured
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: utterance},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	raw := resp.Choices[0].Message.Content
	c.logger.Debug("openai classification", "model", c.model, "raw", raw)

	var out completion
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}

	cl := &domain.Classification{
		Text:    utterance,
		Intents: make(map[domain.Intent]float64, len(out.Intents)),
		Entities: domain.Entities{
			Organization: matches(out.Organization),
			QuestionType: matches(out.QuestionType),
		},
	}
	for name, score := range out.Intents {
		cl.Intents[domain.Intent(name)] = score
	}
	return cl, nil
}

// matches turns a flat value list into one single-value match per mention.
func matches(values []string) [][]string {
	if len(values) == 0 {
		return nil
	}
	out := make([][]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, []string{v})
		}
	}
	return out
}
