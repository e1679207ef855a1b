package service

import (
	"context"
	"time"

	"supportgenie/backend/internal/models"
	"supportgenie/backend/internal/repository"
	"supportgenie/backend/pkg/errors"
	"supportgenie/backend/pkg/logger"
	"supportgenie/backend/pkg/metrics"
)

// busyFallbackText is substituted when generation does not finish inside
// the turn timeout.
const busyFallbackText = "Our assistant is taking longer than usual. Let me connect you with a human agent who can help right away."

// ChatService orchestrates one conversation turn: persist the inbound
// message, generate a reply under the turn timeout, persist the outbound
// message, and return the response with timing metadata. Persistence
// failures degrade to an un-journaled turn instead of refusing service.
type ChatService struct {
	messages        repository.MessageRepository
	generator       *ResponseGenerator
	log             *logger.Logger
	turnTimeout     time.Duration
	historyLimit    int
	maxSessionIDLen int
}

func NewChatService(messages repository.MessageRepository, generator *ResponseGenerator, log *logger.Logger, turnTimeout time.Duration, historyLimit, maxSessionIDLen int) *ChatService {
	return &ChatService{
		messages:        messages,
		generator:       generator,
		log:             log,
		turnTimeout:     turnTimeout,
		historyLimit:    historyLimit,
		maxSessionIDLen: maxSessionIDLen,
	}
}

// HandleTurn processes one chat request end to end. Only input validation
// and caller cancellation can fail the turn; generation and persistence
// problems are absorbed into a degraded response.
func (s *ChatService) HandleTurn(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	start := time.Now()

	if req.Message == "" {
		metrics.TurnsTotal.WithLabelValues("invalid").Inc()
		return models.ChatResponse{}, errors.NewBadRequestError("INVALID_INPUT", "Message must not be empty")
	}
	if req.SessionID == "" || len(req.SessionID) > s.maxSessionIDLen {
		metrics.TurnsTotal.WithLabelValues("invalid").Inc()
		return models.ChatResponse{}, errors.NewBadRequestError("INVALID_INPUT", "Session id is missing or too long")
	}

	log := s.log.WithSessionID(req.SessionID)

	userMsg := models.NewChatMessage(req.SessionID, req.Message, models.SenderUser)
	if err := s.messages.Create(ctx, userMsg); err != nil {
		log.LogError(err, "Failed to persist user message, turn continues un-journaled")
	}

	result, timedOut, err := s.generateWithTimeout(ctx, req)
	if err != nil {
		// The caller went away mid-generation. No assistant message is
		// journaled and no fallback is fabricated.
		log.LogError(err, "Turn abandoned before generation finished")
		return models.ChatResponse{}, err
	}

	aiMsg := models.NewChatMessage(req.SessionID, result.Text, models.SenderAI)
	aiMsg.Escalated = result.Escalated
	latency := result.Latency
	aiMsg.ResponseTime = &latency
	if err := s.messages.Create(ctx, aiMsg); err != nil {
		log.LogError(err, "Failed to persist assistant message, turn continues un-journaled")
	}

	switch result.Kind {
	case ResultOK:
		metrics.TurnsTotal.WithLabelValues("ok").Inc()
	case ResultInvalid:
		metrics.TurnsTotal.WithLabelValues("invalid").Inc()
	default:
		metrics.TurnsTotal.WithLabelValues("degraded").Inc()
	}

	// A timed-out turn reports the timeout bound itself; anything else
	// reports wall clock from turn start to completion.
	responseTime := time.Since(start).Seconds()
	if timedOut {
		responseTime = s.turnTimeout.Seconds()
	}

	return models.ChatResponse{
		Message:      result.Text,
		Escalated:    result.Escalated,
		SessionID:    req.SessionID,
		ResponseTime: responseTime,
	}, nil
}

// generateWithTimeout runs the generator under the turn timeout. On expiry
// the in-flight provider call is abandoned and a busy fallback with forced
// escalation is substituted; its recorded latency equals the timeout bound.
// Cancellation of the caller's context is not a timeout: it is returned as
// an error so the orchestrator can drop the turn instead of journaling a
// fallback nobody will read.
func (s *ChatService) generateWithTimeout(ctx context.Context, req models.ChatRequest) (Result, bool, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		done <- s.generator.Generate(genCtx, req.Message, req.SessionID, req.BrandTone)
	}()

	select {
	case result := <-done:
		return result, false, nil
	case <-genCtx.Done():
		if cause := context.Cause(genCtx); cause != context.DeadlineExceeded {
			return Result{}, false, cause
		}
		s.log.WithSessionID(req.SessionID).Warn("Generation timed out, substituting busy fallback",
			"timeout", s.turnTimeout.String(),
		)
		metrics.EscalationsTotal.WithLabelValues("timeout").Inc()
		return Result{
			Kind:      ResultProviderDown,
			Text:      busyFallbackText,
			Escalated: true,
			Latency:   s.turnTimeout.Seconds(),
		}, true, nil
	}
}

// History returns the session's messages in ascending timestamp order,
// capped at the configured history limit.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if sessionID == "" || len(sessionID) > s.maxSessionIDLen {
		return nil, errors.NewBadRequestError("INVALID_INPUT", "Session id is missing or too long")
	}
	messages, err := s.messages.GetBySession(ctx, sessionID, s.historyLimit)
	if err != nil {
		return nil, errors.NewInternalServerError("HISTORY_FAILED", "Failed to load chat history")
	}
	return messages, nil
}
