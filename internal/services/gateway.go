package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"alfredoptarigan/interview-simulator/internal/logger"
)

// ErrGenerationFailed is returned when both the primary and the fallback
// backend failed to produce text.
var ErrGenerationFailed = errors.New("generation failed")

var sleep = time.Sleep

var rateLimitMarkers = []string{"rate limit", "429", "quota", "resource exhausted"}

// TextGenerator is a single LLM backend.
type TextGenerator interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GatewayObserver receives per-attempt outcomes, typically for metrics.
type GatewayObserver interface {
	ObserveGeneration(backend, outcome string)
	ObserveFallback()
}

type GatewayConfig struct {
	RetryCount int
	RetryDelay time.Duration
	Timeout    time.Duration
	// RatePerMinute paces primary calls. Zero disables pacing.
	RatePerMinute int
}

// Gateway invokes the primary backend with rate-limit aware retries and
// falls back to a secondary backend once.
type Gateway struct {
	primary  TextGenerator
	fallback TextGenerator
	cfg      GatewayConfig
	limiter  *rate.Limiter
	observer GatewayObserver
	logger   *zap.Logger
}

func NewGateway(primary, fallback TextGenerator, cfg GatewayConfig, observer GatewayObserver, log *zap.Logger) *Gateway {
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	if log == nil {
		log = zap.NewNop()
	}

	g := &Gateway{
		primary:  primary,
		fallback: fallback,
		cfg:      cfg,
		observer: observer,
		logger:   log.Named("gateway"),
	}
	if cfg.RatePerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}
	return g
}

// Invoke returns generated text for prompt.
func (g *Gateway) Invoke(ctx context.Context, prompt string) (string, error) {
	attempts := g.cfg.RetryCount + 1
	var primaryErr error

	g.logger.Debug("invoking generation", zap.String("prompt", logger.TruncateForLog(prompt, 120)))

	for attempt := 1; attempt <= attempts; attempt++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				primaryErr = err
				break
			}
		}

		text, err := g.call(ctx, g.primary, prompt)
		if err == nil {
			g.observe(g.primary.Name(), "success")
			return text, nil
		}
		primaryErr = err

		if isRateLimited(err) {
			g.observe(g.primary.Name(), "rate_limited")
			if attempt < attempts {
				wait := g.cfg.RetryDelay * time.Duration(attempt)
				g.logger.Warn("primary backend rate limited, backing off",
					zap.String("backend", g.primary.Name()),
					zap.Int("attempt", attempt),
					zap.Duration("wait", wait),
				)
				sleep(wait)
				continue
			}
			break
		}

		g.observe(g.primary.Name(), "error")
		g.logger.Warn("primary backend failed",
			zap.String("backend", g.primary.Name()),
			zap.Int("attempt", attempt),
			logger.ErrorKind(err),
		)
		break
	}

	if g.fallback == nil {
		return "", fmt.Errorf("%w: primary: %v", ErrGenerationFailed, primaryErr)
	}

	if g.observer != nil {
		g.observer.ObserveFallback()
	}
	g.logger.Info("switching to fallback backend", zap.String("backend", g.fallback.Name()))

	text, err := g.call(ctx, g.fallback, prompt)
	if err != nil {
		g.observe(g.fallback.Name(), "error")
		g.logger.Error("fallback backend failed",
			zap.String("backend", g.fallback.Name()),
			logger.ErrorKind(err),
		)
		return "", fmt.Errorf("%w: primary: %v; fallback: %v", ErrGenerationFailed, primaryErr, err)
	}

	g.observe(g.fallback.Name(), "success")
	return text, nil
}

func (g *Gateway) call(ctx context.Context, backend TextGenerator, prompt string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	return backend.GenerateText(ctx, prompt)
}

func (g *Gateway) observe(backend, outcome string) {
	if g.observer != nil {
		g.observer.ObserveGeneration(backend, outcome)
	}
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
