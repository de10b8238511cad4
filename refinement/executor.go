package refinement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/gemini"
	"github.com/sickboy0001/ZeSecThinkV2/models"
)

// ChunkRequest is one chunk ready to be sent.
type ChunkRequest struct {
	Index       int
	Posts       []models.Post
	RequestJSON string
	Prompt      string
}

// ChunkResponse is the successful exchange of one chunk.
type ChunkResponse struct {
	RawText    string
	Model      string
	APIVersion string
	Duration   time.Duration
	// TokenUsage 는 usageMetadata 를 직렬화한 JSON 이다. 없으면 nil.
	TokenUsage *string
	Attempts   int
}

// Executor turns one chunk into a single generateContent call with retries.
type Executor struct {
	generator  Generator
	maxRetries int
	baseDelay  time.Duration
	settings   settings
}

// NewExecutor builds an executor with the retry policy from cfg.
func NewExecutor(generator Generator, cfg config.RefinementConfig, opts ...Option) *Executor {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = config.DefaultRetryBaseDelay
	}
	return &Executor{
		generator:  generator,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		settings:   newSettings(opts),
	}
}

// Prepare builds the request payload and the final prompt for a chunk.
func (e *Executor) Prepare(index int, posts []models.Post, promptTemplate, tagSnapshot string) (ChunkRequest, error) {
	requestJSON, err := BuildRequestPayload(posts)
	if err != nil {
		return ChunkRequest{}, fmt.Errorf("chunk %d: build payload: %w", index, err)
	}
	return ChunkRequest{
		Index:       index,
		Posts:       posts,
		RequestJSON: requestJSON,
		Prompt:      RenderPrompt(promptTemplate, requestJSON, tagSnapshot),
	}, nil
}

// Execute prepares and sends one chunk.
func (e *Executor) Execute(ctx context.Context, index int, posts []models.Post, promptTemplate, tagSnapshot string, progress ProgressFunc) (*ChunkResponse, error) {
	req, err := e.Prepare(index, posts, promptTemplate, tagSnapshot)
	if err != nil {
		return nil, err
	}
	return e.Send(ctx, req, progress)
}

// Send issues the request, retrying up to maxRetries times. Overloaded answers
// back off exponentially from the base delay, other failures wait the base delay.
// Exhaustion returns *ChunkError; context cancellation returns the context error.
func (e *Executor) Send(ctx context.Context, req ChunkRequest, progress ProgressFunc) (*ChunkResponse, error) {
	attempts := e.maxRetries + 1
	start := e.settings.now()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		gen, err := e.generator.Generate(ctx, req.Prompt)
		if err == nil && gen == nil {
			err = errors.New("empty generation")
		}
		if err == nil {
			return &ChunkResponse{
				RawText:    gen.Text,
				Model:      gen.Model,
				APIVersion: gen.APIVersion,
				Duration:   e.settings.now().Sub(start),
				TokenUsage: encodeUsage(gen),
				Attempts:   attempt,
			}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lastErr = err
		if attempt == attempts {
			break
		}

		delay := e.retryDelay(err, attempt)
		e.settings.logger.Warnf("chunk %d attempt %d/%d failed: %v (retry in %s)", req.Index, attempt, attempts, err, delay)
		if progress != nil {
			progress(fmt.Sprintf("chunk %d: request failed (%v), retrying in %s... (%d/%d)", req.Index, err, delay, attempt, e.maxRetries))
		}
		if err := e.settings.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, &ChunkError{ChunkIndex: req.Index, Attempts: attempts, Err: lastErr}
}

// retryDelay returns the wait before the next attempt; attempt is the 1-based
// number of the attempt that just failed.
func (e *Executor) retryDelay(err error, attempt int) time.Duration {
	if !gemini.IsOverloaded(err) {
		return e.baseDelay
	}
	// attempt 1 -> base, attempt 2 -> base*2, attempt 3 -> base*4, ...
	return e.baseDelay << (attempt - 1)
}

func encodeUsage(gen *gemini.Generation) *string {
	if gen.UsageMetadata == nil {
		return nil
	}
	b, err := json.Marshal(gen.UsageMetadata)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
