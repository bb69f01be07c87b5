package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"hash/fnv"
	"net"
	"net/url"
	"strconv"
	"time"

	"gapdash/domain/describe"
	"gapdash/domain/gapminder"
	"gapdash/internal/logging"
	"gapdash/models"
	"gapdash/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// SummaryInstruction prefixes the statistics block in the user message
const SummaryInstruction = "Provide a brief, insightful summary of the following data:\n"

// FailureKind classifies why a summary could not be produced
type FailureKind string

const (
	FailureNetwork       FailureKind = "network"
	FailureService       FailureKind = "service"
	FailureSerialization FailureKind = "serialization"
	FailureUnavailable   FailureKind = "unavailable"
	// FailureInvalidInput marks a rejected selection; no generation was attempted
	FailureInvalidInput  FailureKind = "invalid_input"
)

// Failure is a contained summary error meant for display
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Cause   error       `json:"-"`
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// SummaryResult holds either generated text or a Failure, never both
type SummaryResult struct {
	RequestID uuid.UUID         `json:"request_id"`
	Continent string            `json:"continent"`
	Model     string            `json:"model"`
	Text      string            `json:"text,omitempty"`
	Failure   *Failure          `json:"failure,omitempty"`
	Usage     *models.UsageData `json:"usage,omitempty"`
	Duration  time.Duration     `json:"duration_ns"`
	Shared    bool              `json:"shared"`
}

// OK reports whether the summary succeeded
func (r *SummaryResult) OK() bool {
	return r.Failure == nil
}

// UsageRecorder receives metadata for every summary call
type UsageRecorder interface {
	RecordSummary(ctx context.Context, usage *models.LLMUsage)
}

// SummaryConfig configures the summary prompt and call
type SummaryConfig struct {
	Model         string
	SystemContext string
	MaxTokens     int
	Timeout       time.Duration
	MaxConcurrent int // upstream calls in flight across all continents
}

// SummaryService turns a filtered view into a generated natural-language summary
type SummaryService struct {
	client   ports.CompletionClient
	recorder UsageRecorder
	config   SummaryConfig
	group    singleflight.Group
	limiter  *semaphore.Weighted
	logger   *logging.Logger
}

// NewSummaryService creates a summary service. client may be nil when no API key is
// configured; every call then returns an unavailable Failure. recorder may be nil.
func NewSummaryService(client ports.CompletionClient, config SummaryConfig, recorder UsageRecorder) *SummaryService {
	if config.SystemContext == "" {
		config.SystemContext = "You are a data analyst."
	}
	if config.Timeout <= 0 {
		config.Timeout = 180 * time.Second
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	return &SummaryService{
		client:   client,
		recorder: recorder,
		config:   config,
		limiter:  semaphore.NewWeighted(int64(config.MaxConcurrent)),
		logger:   logging.ForComponent("SummaryService"),
	}
}

// Model returns the configured model identifier
func (s *SummaryService) Model() string {
	return s.config.Model
}

// Available reports whether a completion client is configured
func (s *SummaryService) Available() bool {
	return s.client != nil
}

// BuildPrompt renders the view's statistics into the two-message prompt
func (s *SummaryService) BuildPrompt(view gapminder.View) []models.ChatMessage {
	return []models.ChatMessage{
		{Role: models.RoleSystem, Content: s.config.SystemContext},
		{Role: models.RoleUser, Content: SummaryInstruction + describe.Describe(view.Records).String()},
	}
}

// Summarize requests a summary of view. It never returns an error: every failure is
// reported through SummaryResult.Failure. Concurrent calls for the same view share
// one upstream request. The call is not cancelled by ctx; it is bounded by the
// configured timeout.
func (s *SummaryService) Summarize(ctx context.Context, view gapminder.View) *SummaryResult {
	key := viewKey(view)

	v, _, shared := s.group.Do(key, func() (interface{}, error) {
		return s.summarizeOnce(ctx, view), nil
	})

	result := *v.(*SummaryResult)
	result.Shared = shared
	return &result
}

// viewKey identifies a view by its continent and the content of its records,
// so two views only share an upstream call when they would send the same prompt.
func viewKey(view gapminder.View) string {
	h := fnv.New64a()
	for _, r := range view.Records {
		fmt.Fprintf(h, "%s\x00%s\x00%d\x00%g\x00%d\x00%g\n",
			r.Country, r.Continent, r.Year, r.LifeExp, r.Pop, r.GDPPercap)
	}
	return view.Continent + "/" + strconv.Itoa(view.Len()) + "/" + strconv.FormatUint(h.Sum64(), 16)
}

func (s *SummaryService) summarizeOnce(ctx context.Context, view gapminder.View) (result *SummaryResult) {
	start := time.Now()
	result = &SummaryResult{
		RequestID: uuid.New(),
		Continent: view.Continent,
		Model:     s.config.Model,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Text = ""
			result.Failure = &Failure{
				Kind:    FailureService,
				Message: fmt.Sprintf("Failed to generate summary: unexpected error: %v", r),
			}
		}
		result.Duration = time.Since(start)
		s.record(ctx, view, result)
	}()

	if s.client == nil {
		result.Failure = &Failure{
			Kind:    FailureUnavailable,
			Message: "Failed to generate summary: no OpenAI API key configured",
		}
		return result
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Timeout)
	defer cancel()

	if err := s.limiter.Acquire(callCtx, 1); err != nil {
		result.Failure = classify(err)
		s.logger.Warn("Summary %s gave up waiting for a free slot: %v", result.RequestID, err)
		return result
	}
	defer s.limiter.Release(1)

	s.logger.Info("Requesting summary %s for %s (%d records, model=%s)",
		result.RequestID, view.Continent, view.Len(), s.config.Model)

	resp, err := s.client.Complete(callCtx, models.CompletionRequest{
		Model:     s.config.Model,
		Messages:  s.BuildPrompt(view),
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		result.Failure = classify(err)
		s.logger.Warn("Summary %s failed (%s): %v", result.RequestID, result.Failure.Kind, err)
		return result
	}

	result.Text = resp.Content
	result.Usage = resp.Usage
	s.logger.Info("Summary %s generated in %v", result.RequestID, time.Since(start))
	return result
}

func (s *SummaryService) record(ctx context.Context, view gapminder.View, result *SummaryResult) {
	if s.recorder == nil {
		return
	}

	usage := &models.LLMUsage{
		RequestID:     result.RequestID,
		Provider:      "openai",
		Model:         result.Model,
		OperationType: models.OpContinentSummary,
		Continent:     view.Continent,
		RecordCount:   view.Len(),
		Outcome:       models.OutcomeSuccess,
		LatencyMS:     result.Duration.Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	}
	if result.Failure != nil {
		usage.Outcome = models.OutcomeFailure
		usage.FailureKind = string(result.Failure.Kind)
	}
	if result.Usage != nil {
		usage.Provider = result.Usage.Provider
		usage.PromptTokens = result.Usage.PromptTokens
		usage.CompletionTokens = result.Usage.CompletionTokens
		usage.TotalTokens = result.Usage.TotalTokens
	}
	s.recorder.RecordSummary(context.WithoutCancel(ctx), usage)
}

// classify folds an upstream error into a displayable Failure
func classify(err error) *Failure {
	kind := FailureService

	var kinded interface{ FailureKind() string }
	var netErr net.Error
	var urlErr *url.Error
	switch {
	case stderrors.As(err, &kinded):
		kind = FailureKind(kinded.FailureKind())
	case stderrors.Is(err, context.DeadlineExceeded),
		stderrors.As(err, &netErr),
		stderrors.As(err, &urlErr):
		kind = FailureNetwork
	}

	return &Failure{
		Kind:    kind,
		Message: fmt.Sprintf("Failed to generate summary: %v", err),
		Cause:   err,
	}
}
