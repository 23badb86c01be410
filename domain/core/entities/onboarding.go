package entities

import (
	"strings"

	"museum-backend/domain/core/valueobjects"
)

// OnboardingResponse is one question the user was asked during onboarding and their answer
type OnboardingResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// IsComplete reports whether both the question and the answer carry text
func (r OnboardingResponse) IsComplete() bool {
	return strings.TrimSpace(r.Question) != "" && strings.TrimSpace(r.Answer) != ""
}

// ClassificationResult is the validated theme choice produced from a batch of responses
type ClassificationResult struct {
	Choice valueobjects.ThemeID `json:"choice"`
	Reason string               `json:"reason"`
}
