package service

import (
	"context"
	"time"
	"unicode/utf8"

	"supportgenie/backend/ai"
	"supportgenie/backend/pkg/logger"
	"supportgenie/backend/pkg/metrics"
	"supportgenie/backend/pkg/resilience"
)

// ResultKind identifies how a generation attempt ended. Degraded outcomes
// are data, not errors: the orchestrator matches on the kind to pick its
// fallback behavior.
type ResultKind int

const (
	// ResultOK means the provider answered and the reply was classified.
	ResultOK ResultKind = iota
	// ResultInvalid means the user message failed validation and the
	// provider was never called.
	ResultInvalid
	// ResultProviderDown means the provider call failed or timed out.
	ResultProviderDown
)

// Result carries the outcome of one generation attempt. Latency is the
// wall-clock duration of the provider call alone, in seconds; it is zero
// for invalid input and for provider failures.
type Result struct {
	Kind      ResultKind
	Text      string
	Escalated bool
	Latency   float64
}

// Fixed degraded responses.
const (
	invalidMessageText = "I couldn't process that message. Please check it and try again."
	messageTooLongText = "Your message is too long for me to process. Please shorten it and try again."
	providerDownText   = "I apologize, but I'm experiencing technical difficulties right now. Let me connect you with a human agent."
)

// ResponseGenerator turns a validated user message into a classified,
// tone-adjusted reply: retrieve knowledge, build the prompt, call the
// provider through the circuit breaker, then classify escalation.
type ResponseGenerator struct {
	provider  ai.Provider
	knowledge *KnowledgeService
	breaker   *resilience.CircuitBreaker
	log       *logger.Logger
	maxLength int
}

func NewResponseGenerator(provider ai.Provider, knowledge *KnowledgeService, breaker *resilience.CircuitBreaker, log *logger.Logger, maxLength int) *ResponseGenerator {
	return &ResponseGenerator{
		provider:  provider,
		knowledge: knowledge,
		breaker:   breaker,
		log:       log,
		maxLength: maxLength,
	}
}

// Generate runs the generation pipeline for one turn. The caller imposes
// the timeout through ctx; this component does not retry.
func (g *ResponseGenerator) Generate(ctx context.Context, userMessage, sessionID, tone string) Result {
	if userMessage == "" {
		return Result{Kind: ResultInvalid, Text: invalidMessageText}
	}
	// The length budget counts characters, not bytes.
	if utf8.RuneCountInString(userMessage) > g.maxLength {
		return Result{Kind: ResultInvalid, Text: messageTooLongText}
	}

	knowledgeText := g.knowledge.RetrieveContext(ctx)
	systemPrompt := BuildSystemPrompt(tone, knowledgeText)

	var reply string
	start := time.Now()
	err := g.breaker.Execute(func() error {
		var callErr error
		reply, callErr = g.provider.Complete(ctx, systemPrompt, userMessage)
		return callErr
	})
	elapsed := time.Since(start)

	if err != nil {
		g.log.WithSessionID(sessionID).LogError(err, "Provider call failed, degrading to human handoff")
		metrics.EscalationsTotal.WithLabelValues("provider_error").Inc()
		return Result{Kind: ResultProviderDown, Text: providerDownText, Escalated: true}
	}

	metrics.ProviderLatency.Observe(elapsed.Seconds())

	finalText, escalated := Classify(userMessage, reply)
	if escalated {
		metrics.EscalationsTotal.WithLabelValues("classifier").Inc()
	}

	return Result{
		Kind:      ResultOK,
		Text:      finalText,
		Escalated: escalated,
		Latency:   elapsed.Seconds(),
	}
}
