package service

import (
	"context"
	"encoding/json"
	"time"

	"supportgenie/backend/internal/models"
	"supportgenie/backend/internal/repository"
	"supportgenie/backend/pkg/logger"
	"supportgenie/backend/shared/redis"
)

const (
	// defaultAvgResponseTime stands in when no latency data has been
	// recorded yet.
	defaultAvgResponseTime = 0.8
	// satisfactionPlaceholder is a static estimate; satisfaction surveys
	// are not part of this service.
	satisfactionPlaceholder = 4.6
	// minutesSavedPerConversation estimates agent time saved for each
	// conversation the assistant handled without escalation.
	minutesSavedPerConversation = 2.0

	snapshotCacheKey = "analytics:snapshot"
)

// AnalyticsService derives summary counters from stored messages. It must
// never take the service down: any failure yields a zeroed default
// snapshot instead of an error.
type AnalyticsService struct {
	messages    repository.MessageRepository
	redis       *redis.Client
	log         *logger.Logger
	snapshotTTL time.Duration
}

func NewAnalyticsService(messages repository.MessageRepository, redisClient *redis.Client, log *logger.Logger, snapshotTTL time.Duration) *AnalyticsService {
	return &AnalyticsService{
		messages:    messages,
		redis:       redisClient,
		log:         log,
		snapshotTTL: snapshotTTL,
	}
}

// Compute aggregates all persisted messages by session. A session counts
// as escalated when any of its messages carries the escalation flag.
func (s *AnalyticsService) Compute(ctx context.Context) models.AnalyticsSnapshot {
	if cached, ok := s.cachedSnapshot(ctx); ok {
		return cached
	}

	stats, err := s.messages.SessionStats(ctx)
	if err != nil {
		s.log.LogError(err, "Analytics aggregation failed, returning default snapshot")
		return s.defaultSnapshot()
	}

	total := len(stats)
	escalated := 0
	var latencySum float64
	latencySessions := 0

	for _, session := range stats {
		if session.Escalated {
			escalated++
		}
		if session.AvgResponseTime != nil {
			latencySum += *session.AvgResponseTime
			latencySessions++
		}
	}

	aiHandled := total - escalated
	if aiHandled < 0 {
		aiHandled = 0
	}

	avgResponseTime := defaultAvgResponseTime
	if latencySessions > 0 {
		avgResponseTime = latencySum / float64(latencySessions)
	}

	snapshot := models.AnalyticsSnapshot{
		TotalConversations: total,
		AIHandled:          aiHandled,
		Escalated:          escalated,
		AvgResponseTime:    avgResponseTime,
		SatisfactionScore:  satisfactionPlaceholder,
		TimeSavedHours:     float64(aiHandled) * minutesSavedPerConversation / 60.0,
		ComputedAt:         time.Now().UTC(),
	}

	s.cacheSnapshot(ctx, snapshot)
	return snapshot
}

func (s *AnalyticsService) defaultSnapshot() models.AnalyticsSnapshot {
	return models.AnalyticsSnapshot{
		AvgResponseTime:   defaultAvgResponseTime,
		SatisfactionScore: satisfactionPlaceholder,
		ComputedAt:        time.Now().UTC(),
	}
}

func (s *AnalyticsService) cachedSnapshot(ctx context.Context) (models.AnalyticsSnapshot, bool) {
	if s.redis == nil {
		return models.AnalyticsSnapshot{}, false
	}
	raw, err := s.redis.Get(ctx, snapshotCacheKey)
	if err != nil {
		return models.AnalyticsSnapshot{}, false
	}
	var snapshot models.AnalyticsSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return models.AnalyticsSnapshot{}, false
	}
	return snapshot, true
}

func (s *AnalyticsService) cacheSnapshot(ctx context.Context, snapshot models.AnalyticsSnapshot) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, snapshotCacheKey, raw, s.snapshotTTL); err != nil {
		s.log.LogError(err, "Failed to cache analytics snapshot")
	}
}
