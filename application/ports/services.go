package ports

import (
	"context"
	"time"

	"museum-backend/domain/core/entities"
)

// ChatCompleter sends a single text prompt to a language model and returns its text reply
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier maps a batch of onboarding answers to a theme
type Classifier interface {
	Classify(ctx context.Context, responses []entities.OnboardingResponse) (entities.ClassificationResult, error)
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Default object outcomes reported to metrics
const (
	DefaultObjectCreated = "created"
	DefaultObjectPending = "pending"
	DefaultObjectFailed  = "failed"
)

// OnboardingMetrics records pipeline outcomes
type OnboardingMetrics interface {
	// RecordClassification records one finished classification, successful or not
	RecordClassification(ctx context.Context, success bool, attempts int, duration time.Duration)

	// RecordDefaultObject records the outcome of the default-object step
	RecordDefaultObject(ctx context.Context, themeID int, outcome string)
}

// NopOnboardingMetrics discards everything
type NopOnboardingMetrics struct{}

func (NopOnboardingMetrics) RecordClassification(context.Context, bool, int, time.Duration) {}
func (NopOnboardingMetrics) RecordDefaultObject(context.Context, int, string)              {}
