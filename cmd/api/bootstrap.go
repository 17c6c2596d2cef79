package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alfredoptarigan/interview-simulator/internal/agents"
	"alfredoptarigan/interview-simulator/internal/cache"
	"alfredoptarigan/interview-simulator/internal/config"
	"alfredoptarigan/interview-simulator/internal/interview"
	"alfredoptarigan/interview-simulator/internal/logger"
	"alfredoptarigan/interview-simulator/internal/metrics"
	"alfredoptarigan/interview-simulator/internal/repositories"
	"alfredoptarigan/interview-simulator/internal/services"
)

// runtime holds everything the commands share.
type runtime struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	cache    cache.SessionCache
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	gemini   services.GeminiService
	service  *interview.Service
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// bootstrap wires storage, cache and the interview service. Generation
// backends are only built when withAgents is set; maintenance commands never
// run an interview pipeline.
func bootstrap(ctx context.Context, cfg *config.Config, log *zap.Logger, withAgents bool) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: log}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	rt.db = db
	repo := repositories.NewSessionRepository(db)
	log.Info("✅ Repositories initialized successfully")

	rt.cache, err = newSessionCache(ctx, cfg, log)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.registry = prometheus.NewRegistry()
	rt.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rt.metrics = metrics.New(rt.registry)

	var turnAgents interview.TurnAgents
	if withAgents {
		a, err := rt.newAgents(ctx)
		if err != nil {
			rt.Close()
			return nil, err
		}
		turnAgents = a
	}

	rt.service = interview.NewService(repo, rt.cache, turnAgents, interview.Options{
		MaxQuestions: cfg.Interview.MaxQuestions,
		SessionTTL:   cfg.Cache.SessionTTL,
	}, rt.metrics, log.Named("interview"))
	log.Info("✅ Interview service initialized")

	return rt, nil
}

func (rt *runtime) newAgents(ctx context.Context) (*agents.Agents, error) {
	cfg, log := rt.cfg, rt.log

	gateway, err := rt.newGateway(ctx)
	if err != nil {
		return nil, err
	}

	sanitizer := services.NewDefaultSanitizer()
	if cfg.Interview.PromptGuardFile != "" {
		sanitizer, err = services.LoadSanitizer(cfg.Interview.PromptGuardFile)
		if err != nil {
			return nil, err
		}
		log.Info("✅ Prompt guard loaded", zap.String("file", cfg.Interview.PromptGuardFile))
	}

	a := agents.New(gateway, sanitizer, agents.Config{
		MaxQuestions: cfg.Interview.MaxQuestions,
		MaxFollowUps: cfg.Interview.MaxFollowUps,
	}, log.Named("agents"))

	if retriever := rt.newRetriever(ctx); retriever != nil {
		a = a.WithRetriever(retriever)
	}
	return a, nil
}

func newSessionCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.SessionCache, error) {
	switch cfg.Cache.Driver {
	case "redis":
		c, err := cache.NewRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Info("✅ Redis session cache connected")
		return c, nil
	case "badger":
		c, err := cache.NewBadger(cache.BadgerConfig{
			Path:   cfg.Cache.BadgerPath,
			Logger: logger.BadgerAdapter{Logger: log.Named("badger").Sugar()},
		})
		if err != nil {
			return nil, err
		}
		log.Info("✅ Badger session cache opened", zap.String("path", cfg.Cache.BadgerPath))
		return c, nil
	case "none", "":
		log.Warn("⚠️ Session cache disabled, every request reads the database")
		return cache.Nop{}, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Cache.Driver)
	}
}

// newGateway uses the OpenAI-compatible backend as primary and Gemini as
// fallback. With only a Gemini key, Gemini becomes the primary.
func (rt *runtime) newGateway(ctx context.Context) (*services.Gateway, error) {
	cfg := rt.cfg.LLM

	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.FallbackModel, cfg.EmbedModel, cfg.Temperature)
		if err != nil {
			return nil, err
		}
		rt.gemini = gemini
		rt.log.Info("✅ Gemini AI initialized successfully")
	}

	var primary, fallback services.TextGenerator
	if cfg.PrimaryAPIKey != "" {
		groq, err := services.NewOpenAICompatibleService("groq", cfg.PrimaryAPIKey, cfg.PrimaryBaseURL, cfg.PrimaryModel, cfg.Temperature)
		if err != nil {
			return nil, err
		}
		primary = groq
		if rt.gemini != nil {
			fallback = rt.gemini
		}
	} else if rt.gemini != nil {
		primary = rt.gemini
		rt.log.Warn("⚠️ GROQ_API_KEY not set, using Gemini without fallback")
	} else {
		return nil, errors.New("no generation backend configured: set GROQ_API_KEY or GEMINI_API_KEY")
	}

	return services.NewGateway(primary, fallback, services.GatewayConfig{
		RetryCount:    cfg.RetryCount,
		RetryDelay:    cfg.RetryDelay,
		Timeout:       cfg.Timeout,
		RatePerMinute: cfg.RatePerMinute,
	}, rt.metrics, rt.log), nil
}

// newQdrant connects to the rubric store, or returns nil when it is not
// configured.
func (rt *runtime) newQdrant(ctx context.Context) (services.QdrantService, error) {
	if rt.cfg.Qdrant.URL == "" {
		return nil, nil
	}

	store, err := services.NewQdrantService(rt.cfg.Qdrant.URL, rt.cfg.Qdrant.APIKey, rt.cfg.Qdrant.Collection)
	if err != nil {
		return nil, err
	}
	if err := store.InitCollection(ctx); err != nil {
		return nil, err
	}
	rt.log.Info("✅ Qdrant initialized successfully", zap.String("collection", rt.cfg.Qdrant.Collection))
	return store, nil
}

// newRetriever returns nil when rubric retrieval is unavailable. Evaluation
// then runs on the built-in rubrics only.
func (rt *runtime) newRetriever(ctx context.Context) *services.RubricRetriever {
	if rt.gemini == nil {
		return nil
	}

	store, err := rt.newQdrant(ctx)
	if err != nil {
		rt.log.Warn("⚠️ Qdrant unavailable, continuing without rubric retrieval", logger.ErrorKind(err))
		return nil
	}
	if store == nil {
		return nil
	}
	return services.NewRubricRetriever(rt.gemini, store, 3)
}

func (rt *runtime) Close() {
	if rt.cache != nil {
		if err := rt.cache.Close(); err != nil {
			rt.log.Warn("failed to close session cache", zap.Error(err))
		}
	}
	if rt.db != nil {
		if sqlDB, err := rt.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
