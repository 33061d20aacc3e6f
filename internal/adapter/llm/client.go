// Package llm adapts a langchaingo model to the domain.LanguageModel port.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillcheck/internal/domain"
	"skillcheck/internal/logger"
	"skillcheck/internal/metrics"

	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	opGenerate = "generate"
	opEvaluate = "evaluate"
)

var tracer = otel.Tracer("skillcheck/llm")

// Client sends rendered prompts to a langchaingo model.
type Client struct {
	model       llms.Model
	temperature float64
	timeout     time.Duration
	limiter     *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTemperature sets the sampling temperature of every call.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

// WithTimeout bounds a single model call. Zero means no bound beyond ctx.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit caps calls per second across the process. Zero disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			c.limiter = nil
		}
	}
}

func NewClient(model llms.Model, opts ...Option) *Client {
	c := &Client{model: model, temperature: 0.2}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ domain.LanguageModel = (*Client)(nil)

// GenerateQuiz implements domain.LanguageModel.
func (c *Client) GenerateQuiz(ctx context.Context, req domain.GenerationRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.generate_quiz", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("skill", req.Skill),
		attribute.String("difficulty", string(req.Difficulty)),
		attribute.Bool("strict", req.Strict),
	)

	out, err := c.call(ctx, opGenerate, QuizPrompt(req))
	if err != nil {
		span.RecordError(err, trace.WithStackTrace(true))
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

// EvaluateAnswers implements domain.LanguageModel.
func (c *Client) EvaluateAnswers(ctx context.Context, req domain.EvaluationRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.evaluate_answers", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("skill", req.Skill),
		attribute.Int("items", len(req.Items)),
		attribute.Bool("strict", req.Strict),
	)

	out, err := c.call(ctx, opEvaluate, EvaluationPrompt(req))
	if err != nil {
		span.RecordError(err, trace.WithStackTrace(true))
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (c *Client) call(ctx context.Context, operation, prompt string) (string, error) {
	l := logger.Get()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("llm rate limiter: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, llms.WithTemperature(c.temperature))
	metrics.LLMDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.String("operation", operation), zap.Duration("timeout", c.timeout))
			return "", fmt.Errorf("llm %s timed out: %w", operation, err)
		}
		l.Error("LLM call failed", zap.String("operation", operation), zap.Error(err))
		return "", fmt.Errorf("llm %s call failed: %w", operation, err)
	}

	l.Debug("LLM response received",
		zap.String("operation", operation),
		zap.Int("length", len(response)),
		zap.Duration("elapsed", time.Since(start)))
	return response, nil
}
