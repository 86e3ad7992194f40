// Package insight runs the two-call insight generation and tracks insight
// jobs per company scope.
package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/cohortinsights/internal/adapters/llm"
	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/internal/domain/prompt"
	"github.com/okian/cohortinsights/pkg/logger"
	"github.com/okian/cohortinsights/pkg/metrics"
)

// Default orchestration configuration constants.
const (
	defaultContextDelay = 2 * time.Second
	defaultBaseDelay    = 15 * time.Second
	defaultMaxRetries   = 3
	contextMaxTokens    = 1024
)

// Provider call names used in metrics and logs.
const (
	callContext    = "context"
	callGeneration = "generation"
)

// Completer is the language-model provider.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Request is an insight generation request.
type Request struct {
	CompanyName  string            `json:"companyName"`
	CompanyID    string            `json:"companyId"`
	InternalData string            `json:"internalData"`
	ProgramType  model.ProgramType `json:"programType,omitempty"`
	ProgramPhase string            `json:"programPhase,omitempty"`
}

// Result is the narrative and the (possibly sentinel) company context.
type Result struct {
	Insights       string `json:"insights"`
	CompanyContext string `json:"companyContext"`
}

// Orchestrator issues the context lookup and the generation call in sequence.
type Orchestrator struct {
	client       Completer
	contextDelay time.Duration
	baseDelay    time.Duration
	maxRetries   int
	maxTokens    int
	sleep        func(ctx context.Context, d time.Duration) error
	log          logger.Logger
}

// NewOrchestrator creates an orchestrator with configuration options.
func NewOrchestrator(client Completer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:       client,
		contextDelay: defaultContextDelay,
		baseDelay:    defaultBaseDelay,
		maxRetries:   defaultMaxRetries,
		sleep:        sleepCtx,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate runs the context lookup, waits the fixed delay, then generates
// the narrative. A failed lookup degrades to prompt.NoContext; a failed
// generation is returned wrapped in ErrGenerationFailed.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	res := Result{CompanyContext: o.lookupContext(ctx, req.CompanyName)}

	if err := o.sleep(ctx, o.contextDelay); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	text, err := o.generate(ctx, llm.Request{
		System:    prompt.SystemPrompt(req.ProgramType),
		Prompt:    prompt.GenerationPrompt(req.CompanyName, req.InternalData, res.CompanyContext, req.ProgramPhase),
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		metrics.RecordInsightRequest("error")
		return Result{}, err
	}
	metrics.RecordInsightRequest("success")
	res.Insights = text
	return res, nil
}

func (o *Orchestrator) lookupContext(ctx context.Context, company string) string {
	if strings.TrimSpace(company) == "" {
		return prompt.NoContext
	}
	start := time.Now()
	text, err := o.client.Complete(ctx, llm.Request{
		Prompt:    prompt.ContextPrompt(company),
		MaxTokens: contextMaxTokens,
		WebSearch: true,
	})
	metrics.RecordLLMCallLatency(callContext, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordContextFallback()
		o.log.Warn(ctx, "company context lookup failed; continuing without context",
			logger.String("company", company), logger.Error(err))
		return prompt.NoContext
	}
	if text = strings.TrimSpace(text); text == "" {
		return prompt.NoContext
	}
	return text
}

// generate retries rate-limited calls with delays base, 2*base, 4*base ...
func (o *Orchestrator) generate(ctx context.Context, req llm.Request) (string, error) {
	delay := o.baseDelay
	for attempt := 0; ; attempt++ {
		start := time.Now()
		text, err := o.client.Complete(ctx, req)
		metrics.RecordLLMCallLatency(callGeneration, float64(time.Since(start).Milliseconds()))
		if err == nil {
			return text, nil
		}
		if !llm.IsRateLimited(err) {
			return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		if attempt >= o.maxRetries {
			return "", fmt.Errorf("%w: %w: %w", ErrGenerationFailed, ErrRateLimited, err)
		}

		metrics.RecordLLMRetry()
		o.log.Warn(ctx, "generation rate limited; backing off",
			logger.Int("attempt", attempt+1), logger.Duration("delay", delay))
		if err := o.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		delay *= 2
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
