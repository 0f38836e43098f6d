// Package elastic serves knowledge-base answers from an Elasticsearch index of
// question/answer documents tagged with a category.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/careerbot/internal/logging"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/elastic/go-elasticsearch/v8"
)

// DefaultScoreScale maps raw relevance scores into [0, 1].
const DefaultScoreScale = 10.0

// ErrSearchFailed is returned when the cluster rejects the search.
var ErrSearchFailed = errors.New("elasticsearch search failed")

// Config holds the cluster coordinates. Documents are expected to carry
// "question", "answer" and "type" fields.
type Config struct {
	Addresses  []string `mapstructure:"addresses"`
	Index      string   `mapstructure:"index"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	ScoreScale float64  `mapstructure:"score_scale"`
}

// KnowledgeBase implements ports.KnowledgeBase.
type KnowledgeBase struct {
	es     *elasticsearch.Client
	index  string
	scale  float64
	logger *slog.Logger
}

// Option configures the KnowledgeBase.
type Option func(*options)

type options struct {
	transport http.RoundTripper
	logger    *slog.Logger
}

// WithTransport replaces the HTTP transport of the client.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a KnowledgeBase. Addresses and Index are required.
func New(cfg Config, opts ...Option) (*KnowledgeBase, error) {
	if len(cfg.Addresses) == 0 || cfg.Index == "" {
		return nil, domain.ErrKnowledgeBaseNotConfigured
	}
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		Transport: o.transport,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}
	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	scale := cfg.ScoreScale
	if scale <= 0 {
		scale = DefaultScoreScale
	}
	return &KnowledgeBase{es: es, index: cfg.Index, scale: scale, logger: o.logger}, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64 `json:"_score"`
			Source struct {
				Answer string `json:"answer"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Query runs a full-text search over questions and answers.
func (kb *KnowledgeBase) Query(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.Answer, error) {
	if opts.Top <= 0 {
		opts.Top = domain.DefaultAnswerTop
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(question, opts, kb.scale)); err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := kb.es.Search(
		kb.es.Search.WithContext(ctx),
		kb.es.Search.WithIndex(kb.index),
		kb.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.Status())
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}

	answers := make([]domain.Answer, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		score := h.Score / kb.scale
		if score > 1 {
			score = 1
		}
		answers = append(answers, domain.Answer{Text: h.Source.Answer, Score: score})
	}
	kb.logger.Debug("elasticsearch query", "index", kb.index, "category", opts.Category, "answers", len(answers))
	return answers, nil
}

func buildQuery(question string, opts domain.QueryOptions, scale float64) map[string]any {
	boolQuery := map[string]any{
		"must": map[string]any{
			"multi_match": map[string]any{
				"query":  question,
				"fields": []string{"question^2", "answer"},
			},
		},
	}
	if opts.Category != "" {
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{domain.CategoryMetadataName: string(opts.Category)}},
		}
	}
	q := map[string]any{
		"size":  opts.Top,
		"query": map[string]any{"bool": boolQuery},
	}
	if opts.ScoreThreshold > 0 {
		q["min_score"] = opts.ScoreThreshold * scale
	}
	return q
}
