package config

import "time"

// DomainConfig holds the configurable business rules of onboarding
type DomainConfig struct {
	// Input constraints
	MinOnboardingResponses int

	// Classification
	ClassifierMaxRetries int
	ClassifierTimeout    time.Duration

	// Default object
	PendingDefaultObjectReason string
	SerializeUserOnboarding    bool
	OnboardingLockTTL          time.Duration
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MinOnboardingResponses: 5,

		ClassifierMaxRetries: 2,
		ClassifierTimeout:    30 * time.Second,

		PendingDefaultObjectReason: "Theme configuration pending. Default object will be added when product team provides data.",
		SerializeUserOnboarding:    false,
		OnboardingLockTTL:          2 * time.Minute,
	}
}
