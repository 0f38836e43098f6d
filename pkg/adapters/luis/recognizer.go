// Package luis classifies utterances with a LUIS v3 prediction endpoint.
package luis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/careerbot/internal/endpoint"
	"github.com/aretw0/careerbot/internal/logging"
	"github.com/aretw0/careerbot/pkg/domain"
)

// Entity names of the career-advice model.
const (
	EntityOrganization = "CareerQuestion_Organization"
	EntityQuestionType = "CareerQuestion_Type"
)

// ErrPredictionFailed is returned when the endpoint answers with a non-2xx status.
var ErrPredictionFailed = errors.New("luis prediction failed")

// Config holds the application credentials.
type Config struct {
	AppID  string `mapstructure:"app_id"`
	APIKey string `mapstructure:"api_key"`
	Host   string `mapstructure:"host"`
	// Slot is the publishing slot, "production" when empty.
	Slot string `mapstructure:"slot"`
}

// Recognizer implements ports.Classifier.
type Recognizer struct {
	cfg        Config
	endpoint   string
	configured bool
	client     *http.Client
	logger     *slog.Logger
}

// Option configures the Recognizer.
type Option func(*Recognizer)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Recognizer) {
		r.client = c
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recognizer) {
		r.logger = logger
	}
}

// New creates a Recognizer. It is configured only when the app id, key and host are all set.
func New(cfg Config, opts ...Option) *Recognizer {
	if cfg.Slot == "" {
		cfg.Slot = "production"
	}
	r := &Recognizer{
		cfg:        cfg,
		configured: cfg.AppID != "" && cfg.APIKey != "" && cfg.Host != "",
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewNop(),
	}
	if r.configured {
		r.endpoint = endpoint.Normalize(cfg.Host)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Configured reports whether all credentials were present.
func (r *Recognizer) Configured() bool {
	return r.configured
}

type prediction struct {
	Query      string `json:"query"`
	Prediction struct {
		TopIntent string `json:"topIntent"`
		Intents   map[string]struct {
			Score float64 `json:"score"`
		} `json:"intents"`
		Entities map[string]json.RawMessage `json:"entities"`
	} `json:"prediction"`
}

// Classify calls the prediction endpoint for utterance.
func (r *Recognizer) Classify(ctx context.Context, utterance string) (*domain.Classification, error) {
	if !r.configured {
		return nil, domain.ErrClassifierNotConfigured
	}

	u := fmt.Sprintf("%s/luis/prediction/v3.0/apps/%s/slots/%s/predict?%s",
		r.endpoint,
		url.PathEscape(r.cfg.AppID),
		url.PathEscape(r.cfg.Slot),
		url.Values{
			"query":            {utterance},
			"subscription-key": {r.cfg.APIKey},
		}.Encode(),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build prediction request: %w", err)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call prediction endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrPredictionFailed, resp.StatusCode, body)
	}

	var p prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	r.logger.Debug("luis prediction", "top_intent", p.Prediction.TopIntent, "duration", time.Since(start))

	c := &domain.Classification{
		Text:    p.Query,
		Intents: make(map[domain.Intent]float64, len(p.Prediction.Intents)),
		Entities: domain.Entities{
			Organization: r.listEntity(p.Prediction.Entities, EntityOrganization),
			QuestionType: r.listEntity(p.Prediction.Entities, EntityQuestionType),
		},
	}
	if c.Text == "" {
		c.Text = utterance
	}
	for name, s := range p.Prediction.Intents {
		c.Intents[domain.Intent(name)] = s.Score
	}
	return c, nil
}

// listEntity decodes a list entity. Unexpected shapes are dropped, not reported.
func (r *Recognizer) listEntity(entities map[string]json.RawMessage, name string) [][]string {
	raw, ok := entities[name]
	if !ok {
		return nil
	}
	var values [][]string
	if err := json.Unmarshal(raw, &values); err != nil {
		r.logger.Debug("ignoring malformed entity", "entity", name, "err", err)
		return nil
	}
	return values
}
