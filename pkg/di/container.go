package di

import (
	"context"
	"fmt"

	"supportgenie/backend/ai"
	"supportgenie/backend/internal/repository"
	"supportgenie/backend/internal/service"
	"supportgenie/backend/pkg/cache"
	"supportgenie/backend/pkg/config"
	"supportgenie/backend/pkg/logger"
	"supportgenie/backend/pkg/resilience"
	"supportgenie/backend/pkg/secrets"
	"supportgenie/backend/shared/redis"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB               *gorm.DB
	Logger           *logger.Logger
	Redis            *redis.Client
	Provider         ai.Provider
	ChatService      *service.ChatService
	KnowledgeService *service.KnowledgeService
	AnalyticsService *service.AnalyticsService
}

// New creates a new dependency injection container. The provider argument
// may be nil, in which case an OpenAI binding is built from configuration
// and the secrets manager.
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger, provider ai.Provider) (*Container, error) {
	if provider == nil {
		built, err := buildProvider(cfg, log)
		if err != nil {
			return nil, err
		}
		provider = built
	}

	redisClient := redis.NewClient(cfg.Redis.Addr)

	messageRepo := repository.NewGormMessageRepository(db)
	knowledgeRepo := repository.NewGormKnowledgeRepository(db)

	knowledgeCache := cache.New(cfg.Cache.TTL, cfg.Cache.PurgeWindow, cfg.Cache.MaxSize)
	knowledgeService := service.NewKnowledgeService(
		knowledgeRepo,
		knowledgeCache,
		log,
		cfg.Chat.KnowledgeDocLimit,
		cfg.Chat.MaxUploadBytes,
	)

	breaker := resilience.NewCircuitBreaker(resilience.DefaultConfig("llm-provider"), log)
	generator := service.NewResponseGenerator(
		provider,
		knowledgeService,
		breaker,
		log,
		cfg.Chat.MaxMessageLength,
	)

	chatService := service.NewChatService(
		messageRepo,
		generator,
		log,
		cfg.LLM.GenerationTimeout,
		cfg.Chat.HistoryLimit,
		cfg.Chat.MaxSessionIDLen,
	)

	analyticsService := service.NewAnalyticsService(messageRepo, redisClient, log, cfg.Redis.SnapshotTTL)

	return &Container{
		DB:               db,
		Logger:           log,
		Redis:            redisClient,
		Provider:         provider,
		ChatService:      chatService,
		KnowledgeService: knowledgeService,
		AnalyticsService: analyticsService,
	}, nil
}

// buildProvider resolves the API key (Vault first, environment fallback)
// and constructs the OpenAI binding.
func buildProvider(cfg *config.Config, log *logger.Logger) (ai.Provider, error) {
	manager, err := secrets.NewVaultManager(log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets manager: %w", err)
	}

	apiKey := manager.GetSecretWithDefault(context.Background(), "openai_api_key", cfg.LLM.APIKey)

	provider, err := ai.NewOpenAIProvider(apiKey, cfg.LLM.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	return provider, nil
}
