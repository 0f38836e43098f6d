// Package qna queries a QnA Maker knowledge base over its generateAnswer REST endpoint.
package qna

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/aretw0/careerbot/internal/endpoint"
	"github.com/aretw0/careerbot/internal/logging"
	"github.com/aretw0/careerbot/pkg/domain"
)

// noMatchID is the id the service assigns to its "no good match" answer.
const noMatchID = -1

// ErrQueryFailed is returned when the service answers with a non-2xx status.
var ErrQueryFailed = errors.New("qna query failed")

// Config holds the knowledge base coordinates.
type Config struct {
	KnowledgeBaseID string `mapstructure:"knowledgebase_id"`
	EndpointKey     string `mapstructure:"endpoint_key"`
	EndpointHost    string `mapstructure:"endpoint_host"`
}

// Client implements ports.KnowledgeBase.
type Client struct {
	url    string
	key    string
	client *http.Client
	logger *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// New creates a Client. All three config values are required.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.KnowledgeBaseID == "" || cfg.EndpointKey == "" || cfg.EndpointHost == "" {
		return nil, domain.ErrKnowledgeBaseNotConfigured
	}
	c := &Client{
		url: fmt.Sprintf("%s/knowledgebases/%s/generateAnswer",
			endpoint.Normalize(cfg.EndpointHost), url.PathEscape(cfg.KnowledgeBaseID)),
		key:    cfg.EndpointKey,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type metadata struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type generateRequest struct {
	Question       string     `json:"question"`
	Top            int        `json:"top"`
	ScoreThreshold float64    `json:"scoreThreshold"`
	StrictFilters  []metadata `json:"strictFilters,omitempty"`
}

type generateResponse struct {
	Answers []struct {
		ID     int     `json:"id"`
		Answer string  `json:"answer"`
		Score  float64 `json:"score"`
	} `json:"answers"`
}

// Query asks the knowledge base for answers to question, best first.
func (c *Client) Query(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.Answer, error) {
	if opts.Top <= 0 {
		opts.Top = domain.DefaultAnswerTop
	}
	body := generateRequest{
		Question:       question,
		Top:            opts.Top,
		ScoreThreshold: opts.ScoreThreshold * 100,
	}
	if opts.Category != "" {
		body.StrictFilters = []metadata{{Name: domain.CategoryMetadataName, Value: string(opts.Category)}}
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode qna request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build qna request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "EndpointKey "+c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call qna endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrQueryFailed, resp.StatusCode, msg)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode qna response: %w", err)
	}

	answers := make([]domain.Answer, 0, len(out.Answers))
	for _, a := range out.Answers {
		if a.ID == noMatchID {
			continue
		}
		answers = append(answers, domain.Answer{Text: a.Answer, Score: a.Score / 100})
	}
	sort.SliceStable(answers, func(i, j int) bool { return answers[i].Score > answers[j].Score })

	c.logger.Debug("qna query", "category", opts.Category, "answers", len(answers))
	return answers, nil
}
