package observability

import (
	"context"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the bot's Prometheus collectors.
type Metrics struct {
	Turns        *prometheus.CounterVec
	TurnDuration prometheus.Histogram
	DialogEnters *prometheus.CounterVec
	Intents      *prometheus.CounterVec
	Answers      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerbot_turns_total",
				Help: "Total number of processed turns by outcome",
			},
			[]string{"outcome"},
		),
		TurnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "careerbot_turn_duration_seconds",
				Help:    "Duration of turns including classification, knowledge-base lookups and persistence",
				Buckets: prometheus.DefBuckets,
			},
		),
		DialogEnters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerbot_dialog_enters_total",
				Help: "Total number of dialogs begun",
			},
			[]string{"dialog"},
		),
		Intents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerbot_intents_total",
				Help: "Total number of classified utterances by top intent",
			},
			[]string{"intent"},
		),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerbot_answers_total",
				Help: "Total number of knowledge-base lookups by category and result",
			},
			[]string{"category", "found"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Turns, m.TurnDuration, m.DialogEnters, m.Intents, m.Answers)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(_ context.Context, e *domain.TurnEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			m.Turns.WithLabelValues(outcome).Inc()
			m.TurnDuration.Observe(e.Duration.Seconds())
		},
		OnDialogEnter: func(_ context.Context, e *domain.DialogEvent) {
			m.DialogEnters.WithLabelValues(string(e.Dialog)).Inc()
		},
		OnClassified: func(_ context.Context, e *domain.ClassifyEvent) {
			m.Intents.WithLabelValues(string(e.Intent)).Inc()
		},
		OnAnswered: func(_ context.Context, e *domain.AnswerEvent) {
			found := "false"
			if e.Found {
				found = "true"
			}
			category := string(e.Category)
			if category == "" {
				category = "none"
			}
			m.Answers.WithLabelValues(category, found).Inc()
		},
	}
}
