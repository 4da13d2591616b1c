package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/config"
	"dev.helix.debate/internal/database"
	"dev.helix.debate/internal/debate"
	"dev.helix.debate/internal/evidence"
	"dev.helix.debate/internal/handlers"
	"dev.helix.debate/internal/llm"
	"dev.helix.debate/internal/llm/providers/claude"
	"dev.helix.debate/internal/llm/providers/gemini"
	"dev.helix.debate/internal/llm/providers/openai"
	"dev.helix.debate/internal/trends"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.Mode == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database is optional: without it the service still runs debates, it
	// just cannot persist finished ones.
	var repo *database.DebateRepository
	var topicRepo *database.TopicRepository
	var modelRepo *database.ModelRepository
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Warn("Database unavailable, running without persistence")
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("Database unreachable, running without persistence")
			pool.Close()
		} else {
			repo = database.NewDebateRepository(pool, logger)
			if err := repo.CreateTables(ctx); err != nil {
				logger.WithError(err).Fatal("Failed to initialize database schema")
			}
			topicRepo = database.NewTopicRepository(pool, logger)
			modelRepo = database.NewModelRepository(pool, logger)
			if err := topicRepo.Seed(ctx, handlers.DefaultTopics()); err != nil {
				logger.WithError(err).Warn("Failed to seed topic catalog")
			}
			if err := modelRepo.Seed(ctx, handlers.DefaultModels()); err != nil {
				logger.WithError(err).Warn("Failed to seed model catalog")
			}
			defer pool.Close()
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	registry := llm.NewRegistry(logger)
	if cfg.Providers.OpenAIAPIKey != "" {
		registry.Register(openai.NewOpenAIProvider(cfg.Providers.OpenAIAPIKey, "", cfg.Providers.OpenAIModel))
	}
	if cfg.Providers.GeminiAPIKey != "" {
		registry.Register(gemini.NewGeminiProvider(cfg.Providers.GeminiAPIKey, "", cfg.Providers.GeminiModel))
	}
	if cfg.Providers.AnthropicAPIKey != "" {
		registry.Register(claude.NewClaudeProvider(cfg.Providers.AnthropicAPIKey, "", cfg.Providers.ClaudeModel))
	}
	if len(registry.Available()) == 0 {
		logger.Warn("No generation providers configured, every turn will use fallback content")
	}

	evidenceCache := evidence.NewCache(redisClient, cfg.Evidence.CacheTTL, logger)
	evidenceService := evidence.NewService(evidence.Config{
		NewsAPIKey:   cfg.Evidence.NewsAPIKey,
		GoogleAPIKey: cfg.Evidence.GoogleAPIKey,
		GoogleCX:     cfg.Evidence.GoogleCX,
		Timeout:      cfg.Evidence.Timeout,
	}, evidenceCache, logger)

	trendsStore := trends.NewRedisStore(redisClient, cfg.Trends.StoreTTL, logger)
	trendsService := trends.NewService(cfg.Evidence.NewsAPIKey, trendsStore, logger)

	policy := debate.DefaultStagePolicy()
	if cfg.Debate.UniformTurnLimit > 0 {
		policy = debate.UniformStagePolicy(cfg.Debate.UniformTurnLimit)
	}

	generator := debate.NewMessageGenerator(registry, logger, cfg.Providers.TurnTimeout)
	attacher := debate.NewEvidenceAttacher(evidenceService, logger, cfg.Evidence.Timeout)
	manager := handlers.NewSessionManager(generator, attacher, policy, logger)

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	router := &handlers.Router{
		Debate:   handlers.NewDebateHandler(manager, repo, logger),
		Evidence: handlers.NewEvidenceHandler(evidenceService, logger),
		Trends:   handlers.NewTrendsHandler(trendsService, logger),
		Config:   handlers.NewConfigHandler(registry, topicRepo, modelRepo, logger),
	}
	router.Setup(engine)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("Debate server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
		os.Exit(1)
	}
}
