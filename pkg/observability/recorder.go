package observability

import (
	"context"
	"time"
)

// OnboardingRecorder is implemented by Metrics and Collector
type OnboardingRecorder interface {
	RecordClassification(ctx context.Context, success bool, attempts int, duration time.Duration)
	RecordDefaultObject(ctx context.Context, themeID int, outcome string)
}

// Recorders fans one observation out to every configured backend
type Recorders []OnboardingRecorder

func (rs Recorders) RecordClassification(ctx context.Context, success bool, attempts int, duration time.Duration) {
	for _, r := range rs {
		r.RecordClassification(ctx, success, attempts, duration)
	}
}

func (rs Recorders) RecordDefaultObject(ctx context.Context, themeID int, outcome string) {
	for _, r := range rs {
		r.RecordDefaultObject(ctx, themeID, outcome)
	}
}
