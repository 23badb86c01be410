package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatISO8601(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 890_000_000, time.FixedZone("CET", 3600))
	assert.Equal(t, "2026-03-04T04:06:07.890Z", FormatISO8601(ts))

	parsed, err := ParseRFC3339(FormatISO8601(ts))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}

func TestValidateStruct(t *testing.T) {
	type answer struct {
		Question string `json:"question" validate:"required"`
		Answer   string `json:"answer" validate:"required,max=5"`
		Note     string `validate:"max=3"`
	}

	assert.NoError(t, ValidateStruct(answer{Question: "q", Answer: "a"}))
	assert.EqualError(t, ValidateStruct(answer{Answer: "a"}), "question is required")
	assert.EqualError(t, ValidateStruct(answer{Question: "q", Answer: "too long"}), "answer must be at most 5 characters")
	assert.EqualError(t, ValidateStruct(answer{Note: "long"}), "question is required; answer is required; note must be at most 3 characters")
}
