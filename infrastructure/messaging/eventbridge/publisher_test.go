package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"museum-backend/domain/core/valueobjects"
	"museum-backend/domain/events"
)

type fakeBus struct {
	inputs []*eventbridge.PutEventsInput
	out    *eventbridge.PutEventsOutput
	err    error
}

func (f *fakeBus) PutEvents(_ context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.out != nil {
		return f.out, nil
	}
	return &eventbridge.PutEventsOutput{}, nil
}

func themeAssigned(user string) events.DomainEvent {
	return events.NewThemeAssigned(user, valueobjects.ThemeID(2), "warm", "mod-1", time.Unix(1_700_000_000, 0))
}

func TestPublisher_Publish(t *testing.T) {
	bus := &fakeBus{}
	p := NewPublisher(bus, "museum-bus", zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), themeAssigned("user-1")))

	require.Len(t, bus.inputs, 1)
	entry := bus.inputs[0].Entries[0]
	assert.Equal(t, "museum-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, events.SourceBackend, aws.ToString(entry.Source))
	assert.Equal(t, events.EventTypeThemeAssigned, aws.ToString(entry.DetailType))

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "user-1", detail["user_id"])
	assert.Equal(t, float64(2), detail["theme_id"])
}

func TestPublisher_PublishBatchChunks(t *testing.T) {
	bus := &fakeBus{}
	p := NewPublisher(bus, "museum-bus", zap.NewNop())

	batch := make([]events.DomainEvent, 23)
	for i := range batch {
		batch[i] = themeAssigned("user")
	}
	require.NoError(t, p.PublishBatch(context.Background(), batch))

	require.Len(t, bus.inputs, 3)
	assert.Len(t, bus.inputs[0].Entries, 10)
	assert.Len(t, bus.inputs[2].Entries, 3)
}

func TestPublisher_Failures(t *testing.T) {
	p := NewPublisher(&fakeBus{err: errors.New("access denied")}, "museum-bus", zap.NewNop())
	assert.Error(t, p.Publish(context.Background(), themeAssigned("user-1")))

	partial := &fakeBus{out: &eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
	}}
	p = NewPublisher(partial, "museum-bus", zap.NewNop())
	assert.EqualError(t, p.Publish(context.Background(), themeAssigned("user-1")), "1 events failed to publish")
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(zap.NewNop())
	assert.NoError(t, p.PublishBatch(context.Background(), []events.DomainEvent{themeAssigned("u")}))
}
