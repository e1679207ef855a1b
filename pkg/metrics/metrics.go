package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters for the chat gateway. Exposed through the /metrics
// endpoint started by the observability setup.
var (
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supportgenie_chat_turns_total",
		Help: "Completed chat turns by outcome (ok, invalid, degraded).",
	}, []string{"outcome"})

	EscalationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supportgenie_escalations_total",
		Help: "Turns flagged for human handoff, by triggering signal.",
	}, []string{"signal"})

	ProviderLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "supportgenie_provider_latency_seconds",
		Help:    "Wall-clock latency of LLM provider calls.",
		Buckets: prometheus.DefBuckets,
	})

	KnowledgeUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supportgenie_knowledge_uploads_total",
		Help: "Knowledge-base uploads by result (accepted, rejected).",
	}, []string{"result"})
)
