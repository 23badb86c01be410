package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"museum-backend/domain/catalog"
	"museum-backend/domain/core/entities"
	"museum-backend/domain/core/valueobjects"
	pkgerrors "museum-backend/pkg/errors"
	"museum-backend/tests/mocks"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	descs := make([]catalog.ThemeDescriptor, 0, 5)
	for i := 1; i <= 5; i++ {
		ref := "src" + valueobjects.ThemeID(i).String()
		if i == 5 {
			ref = valueobjects.PlaceholderPrefix + "THEME_5"
		}
		descs = append(descs, catalog.ThemeDescriptor{
			ID:              valueobjects.ThemeID(i),
			Name:            "Theme " + valueobjects.ThemeID(i).String(),
			Characteristics: []string{"trait-" + valueobjects.ThemeID(i).String()},
			Description:     "Description " + valueobjects.ThemeID(i).String(),
			DefaultTemplate: valueobjects.DefaultObjectTemplate{SourceArtifactRef: ref},
		})
	}
	c, err := catalog.New(descs)
	require.NoError(t, err)
	return c
}

func fiveResponses() []entities.OnboardingResponse {
	out := make([]entities.OnboardingResponse, 5)
	for i := range out {
		out[i] = entities.OnboardingResponse{Question: "Question?", Answer: "Answer."}
	}
	return out
}

type recordingMetrics struct {
	success  []bool
	attempts []int
}

func (r *recordingMetrics) RecordClassification(_ context.Context, success bool, attempts int, _ time.Duration) {
	r.success = append(r.success, success)
	r.attempts = append(r.attempts, attempts)
}

func (r *recordingMetrics) RecordDefaultObject(context.Context, int, string) {}

func TestBuildClassificationPrompt(t *testing.T) {
	cat := testCatalog(t)
	responses := []entities.OnboardingResponse{
		{Question: "Which season do you love?", Answer: "Late autumn evenings"},
		{Question: "Pick a colour", Answer: "Amber"},
	}

	prompt := BuildClassificationPrompt(responses, cat.Themes())

	assert.Contains(t, prompt, "Which season do you love?")
	assert.Contains(t, prompt, "Late autumn evenings")
	assert.Contains(t, prompt, "Amber")
	for _, d := range cat.Themes() {
		assert.Contains(t, prompt, d.Name)
		assert.Contains(t, prompt, d.Characteristics[0])
	}
	assert.Contains(t, prompt, "one of: 1, 2, 3, 4, 5")
	assert.Contains(t, prompt, `{"choice"`)
}

func TestClassifier_Classify_TolerantParse(t *testing.T) {
	completer := new(mocks.MockChatCompleter)
	completer.On("Complete", mock.Anything, mock.AnythingOfType("string")).
		Return("Here you go: ```json {\"choice\":2,\"reason\":\"x\"} ``` thanks", nil).Once()

	c := NewClassifier(completer, testCatalog(t), zap.NewNop())
	result, err := c.Classify(context.Background(), fiveResponses())

	require.NoError(t, err)
	assert.Equal(t, valueobjects.ThemeID(2), result.Choice)
	assert.Equal(t, "x", result.Reason)
	completer.AssertNumberOfCalls(t, "Complete", 1)
}

func TestClassifier_Classify_RetriesThenSucceeds(t *testing.T) {
	completer := new(mocks.MockChatCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Return(`{"choice": 42, "reason": "nope"}`, nil).Once()
	completer.On("Complete", mock.Anything, mock.Anything).Return(`{"choice": 3.0, "reason": "warm palette"}`, nil).Once()

	metrics := &recordingMetrics{}
	c := NewClassifier(completer, testCatalog(t), zap.NewNop(), WithMetrics(metrics))
	result, err := c.Classify(context.Background(), fiveResponses())

	require.NoError(t, err)
	assert.Equal(t, valueobjects.ThemeID(3), result.Choice)
	assert.Equal(t, []bool{true}, metrics.success)
	assert.Equal(t, []int{2}, metrics.attempts)
}

func TestClassifier_Classify_SamePromptOnRetry(t *testing.T) {
	completer := new(mocks.MockChatCompleter)
	var prompts []string
	completer.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompts = append(prompts, args.String(1)) }).
		Return("I don't know", nil)

	c := NewClassifier(completer, testCatalog(t), zap.NewNop())
	_, err := c.Classify(context.Background(), fiveResponses())

	require.Error(t, err)
	require.Len(t, prompts, 3)
	assert.Equal(t, prompts[0], prompts[1])
	assert.Equal(t, prompts[1], prompts[2])
}

func TestClassifier_Classify_OutOfRangeExhaustsRetries(t *testing.T) {
	for _, retries := range []int{0, 1, 2, 4} {
		t.Run(fmt.Sprintf("retries=%d", retries), func(t *testing.T) {
			completer := new(mocks.MockChatCompleter)
			completer.On("Complete", mock.Anything, mock.Anything).Return(`{"choice": 7, "reason": "off the map"}`, nil)

			c := NewClassifier(completer, testCatalog(t), zap.NewNop(), WithMaxRetries(retries))
			_, err := c.Classify(context.Background(), fiveResponses())

			require.Error(t, err)
			assert.True(t, pkgerrors.IsClassifier(err))
			assert.Equal(t, KindChoiceOutOfRange, pkgerrors.GetAppError(err).Code)
			completer.AssertNumberOfCalls(t, "Complete", retries+1)
		})
	}
}

func TestClassifier_Classify_TransportFailure(t *testing.T) {
	completer := new(mocks.MockChatCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	c := NewClassifier(completer, testCatalog(t), zap.NewNop())
	_, err := c.Classify(context.Background(), fiveResponses())

	require.Error(t, err)
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, KindTransport, appErr.Code)
	assert.Contains(t, appErr.Reason(), "connection refused")
	completer.AssertNumberOfCalls(t, "Complete", DefaultMaxRetries+1)
}

type slowCompleter struct{}

func (slowCompleter) Complete(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestClassifier_Classify_TimeoutPerCall(t *testing.T) {
	c := NewClassifier(slowCompleter{}, testCatalog(t), zap.NewNop(),
		WithTimeout(10*time.Millisecond), WithMaxRetries(1))

	start := time.Now()
	_, err := c.Classify(context.Background(), fiveResponses())

	require.Error(t, err)
	assert.Equal(t, KindTimeout, pkgerrors.GetAppError(err).Code)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClassifier_Classify_StopsWhenCallerCancels(t *testing.T) {
	completer := new(mocks.MockChatCompleter)
	ctx, cancel := context.WithCancel(context.Background())
	completer.On("Complete", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return("", context.Canceled)

	c := NewClassifier(completer, testCatalog(t), zap.NewNop())
	_, err := c.Classify(ctx, fiveResponses())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsClassifier(err))
	completer.AssertNumberOfCalls(t, "Complete", 1)
}

func TestParseClassification(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name   string
		text   string
		choice valueobjects.ThemeID
		kind   string
	}{
		{"valid", `{"choice": 4, "reason": "calm"}`, 4, ""},
		{"integral float", `{"choice": 1.0, "reason": "bright"}`, 1, ""},
		{"fractional", `{"choice": 1.5, "reason": "bright"}`, 0, KindMalformedOutput},
		{"string choice", `{"choice": "1", "reason": "bright"}`, 0, KindMalformedOutput},
		{"missing choice", `{"reason": "bright"}`, 0, KindMalformedOutput},
		{"missing reason", `{"choice": 1}`, 0, KindMalformedOutput},
		{"numeric reason", `{"choice": 1, "reason": 5}`, 0, KindMalformedOutput},
		{"out of range", `{"choice": 0, "reason": "none"}`, 0, KindChoiceOutOfRange},
		{"no json", "I don't know", 0, KindMalformedOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, kind, err := ParseClassification(tt.text, cat)
			assert.Equal(t, tt.kind, kind)
			if tt.kind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.choice, result.Choice)
				return
			}
			assert.Error(t, err)
		})
	}
}

func TestScriptedCompleter_RepeatsLastReply(t *testing.T) {
	s := NewScriptedCompleter("first", "second")
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		out, err := s.Complete(ctx, "prompt")
		require.NoError(t, err)
		got = append(got, out)
	}

	assert.Equal(t, "first,second,second", strings.Join(got, ","))
	assert.Equal(t, 3, s.Calls())
}
