package commands

import (
	"fmt"
	"strings"

	"museum-backend/domain/core/entities"
	"museum-backend/pkg/errors"
)

// Validation messages returned to the client verbatim
const (
	MsgInvalidResponsesShape = "Invalid request format. Expected responses array."
	MsgIncompleteResponse    = "Each response must have both question and answer fields"
	msgTooFewResponses       = "At least %d responses are required for analysis"
)

// DefaultMinResponses is the smallest questionnaire accepted for analysis
const DefaultMinResponses = 5

// AnalyzeOnboardingCommand asks for a user's questionnaire to be classified into a theme
type AnalyzeOnboardingCommand struct {
	UserID    string                        `json:"user_id" validate:"required"`
	Responses []entities.OnboardingResponse `json:"responses" validate:"required"`

	// MinResponses overrides DefaultMinResponses when positive
	MinResponses int `json:"-"`
}

// TooFewResponsesMessage renders the minimum-length message for min
func TooFewResponsesMessage(min int) string {
	return fmt.Sprintf(msgTooFewResponses, min)
}

// Validate checks the preconditions of the analysis pipeline in the order clients see them
func (c AnalyzeOnboardingCommand) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.NewUnauthenticatedError("")
	}
	if c.Responses == nil {
		return errors.NewBadRequestError(MsgInvalidResponsesShape)
	}

	min := c.MinResponses
	if min <= 0 {
		min = DefaultMinResponses
	}
	if len(c.Responses) < min {
		return errors.NewBadRequestError(TooFewResponsesMessage(min))
	}

	for _, r := range c.Responses {
		if !r.IsComplete() {
			return errors.NewBadRequestError(MsgIncompleteResponse)
		}
	}
	return nil
}
