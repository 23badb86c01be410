package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"museum-backend/application/ports"
	"museum-backend/domain/catalog"
	"museum-backend/domain/core/entities"
	"museum-backend/domain/core/valueobjects"
	pkgerrors "museum-backend/pkg/errors"
	"museum-backend/pkg/observability"
)

// Failure kinds carried in the Code of a classifier AppError
const (
	KindTransport        = "transport"
	KindTimeout          = "timeout"
	KindMalformedOutput  = "malformed_output"
	KindChoiceOutOfRange = "choice_out_of_range"
)

const (
	DefaultMaxRetries = 2
	DefaultTimeout    = 30 * time.Second
)

// Classifier asks a language model to pick a theme and validates the answer against the catalog.
// It holds no per-call state and is safe for concurrent use.
type Classifier struct {
	completer  ports.ChatCompleter
	catalog    *catalog.Catalog
	maxRetries int
	timeout    time.Duration
	logger     *zap.Logger
	metrics    ports.OnboardingMetrics
	tracer     *observability.Tracer
}

// ClassifierOption configures a Classifier
type ClassifierOption func(*Classifier)

// WithMaxRetries sets how many extra attempts follow a failed one
func WithMaxRetries(n int) ClassifierOption {
	return func(c *Classifier) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithTimeout bounds every remote call
func WithTimeout(d time.Duration) ClassifierOption {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMetrics records attempts and outcomes
func WithMetrics(m ports.OnboardingMetrics) ClassifierOption {
	return func(c *Classifier) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracer wraps each attempt in a trace subsegment
func WithTracer(t *observability.Tracer) ClassifierOption {
	return func(c *Classifier) {
		c.tracer = t
	}
}

// NewClassifier creates a classifier over the given completer and catalog
func NewClassifier(completer ports.ChatCompleter, cat *catalog.Catalog, logger *zap.Logger, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		completer:  completer,
		catalog:    cat,
		maxRetries: DefaultMaxRetries,
		timeout:    DefaultTimeout,
		logger:     logger,
		metrics:    ports.NopOnboardingMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns a theme choice that is guaranteed to be a catalog member.
// Every failure is retried with the same prompt until the retry budget is spent.
func (c *Classifier) Classify(ctx context.Context, responses []entities.OnboardingResponse) (entities.ClassificationResult, error) {
	prompt := BuildClassificationPrompt(responses, c.catalog.Themes())
	start := time.Now()

	var (
		lastErr  error
		lastKind string
		attempts int
	)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr, lastKind = err, kindForContextErr(err)
			break
		}
		attempts++

		var result entities.ClassificationResult
		var kind string
		err := c.tracer.TraceFunction(ctx, "classifier.attempt", func(ctx context.Context) error {
			var attemptErr error
			result, kind, attemptErr = c.attempt(ctx, prompt)
			return attemptErr
		})
		if err == nil {
			c.metrics.RecordClassification(ctx, true, attempts, time.Since(start))
			c.logger.Debug("Theme classification succeeded",
				zap.Int("themeID", result.Choice.Int()),
				zap.Int("attempts", attempts),
			)
			return result, nil
		}

		lastErr, lastKind = err, kind
		c.logger.Warn("Theme classification attempt failed",
			zap.Int("attempt", attempts),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}

	c.metrics.RecordClassification(ctx, false, attempts, time.Since(start))
	return entities.ClassificationResult{}, pkgerrors.
		NewClassifierError(fmt.Sprintf("theme classification failed after %d attempts", attempts), lastErr).
		WithCode(lastKind)
}

// attempt performs one bounded remote call and validates its output
func (c *Classifier) attempt(ctx context.Context, prompt string) (entities.ClassificationResult, string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.completer.Complete(callCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return entities.ClassificationResult{}, KindTimeout, fmt.Errorf("chat completion timed out after %s: %w", c.timeout, err)
		}
		return entities.ClassificationResult{}, KindTransport, fmt.Errorf("chat completion failed: %w", err)
	}

	return ParseClassification(text, c.catalog)
}

// ParseClassification extracts and validates {choice, reason} from raw model output.
// The returned kind is empty on success.
func ParseClassification(text string, cat *catalog.Catalog) (entities.ClassificationResult, string, error) {
	raw, ok := ExtractFirstJSONObject(text)
	if !ok {
		return entities.ClassificationResult{}, KindMalformedOutput, errors.New("model output contains no JSON object")
	}

	var payload struct {
		Choice json.RawMessage `json:"choice"`
		Reason *string         `json:"reason"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return entities.ClassificationResult{}, KindMalformedOutput, fmt.Errorf("model output is not an object: %w", err)
	}

	choice, err := parseChoice(payload.Choice)
	if err != nil {
		return entities.ClassificationResult{}, KindMalformedOutput, err
	}
	if payload.Reason == nil {
		return entities.ClassificationResult{}, KindMalformedOutput, errors.New("model output has no string reason")
	}

	id := valueobjects.ThemeID(choice)
	if !cat.Contains(id) {
		return entities.ClassificationResult{}, KindChoiceOutOfRange, fmt.Errorf("choice %d is not a valid theme", choice)
	}

	return entities.ClassificationResult{Choice: id, Reason: *payload.Reason}, "", nil
}

// parseChoice accepts a JSON number with no fractional part
func parseChoice(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errors.New("model output has no choice")
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("choice %s is not a number", string(raw))
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("choice %s is not an integer", string(raw))
	}
	return int(f), nil
}

func kindForContextErr(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindTransport
}
