package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestTracer_DisabledRunsFunction(t *testing.T) {
	var nilTracer *Tracer
	called := false
	err := nilTracer.TraceFunction(context.Background(), "op", func(context.Context) error {
		called = true
		return errors.New("inner")
	})
	assert.True(t, called)
	assert.EqualError(t, err, "inner")

	tracer := NewTracer("museum-backend", false)
	assert.False(t, tracer.Enabled())
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, tracer.Middleware(h))
}

func TestMetrics_PublishesToCloudWatch(t *testing.T) {
	fake := &fakeCloudWatch{}
	m := NewMetrics("Museum/test", fake, zap.NewNop())

	m.RecordClassification(context.Background(), true, 2, 1500*time.Millisecond)
	m.RecordDefaultObject(context.Background(), 3, "created")

	require.Len(t, fake.inputs, 2)
	assert.Equal(t, "Museum/test", *fake.inputs[0].Namespace)
	assert.Len(t, fake.inputs[0].MetricData, 2)
	assert.Equal(t, "DefaultObject", *fake.inputs[1].MetricData[0].MetricName)
}

func TestMetrics_SwallowsFailuresAndNilClient(t *testing.T) {
	fake := &fakeCloudWatch{err: errors.New("throttled")}
	m := NewMetrics("Museum/test", fake, zap.NewNop())
	assert.NotPanics(t, func() { m.RecordDefaultObject(context.Background(), 1, "failed") })

	disabled := NewMetrics("Museum/test", nil, zap.NewNop())
	assert.NotPanics(t, func() { disabled.RecordDefaultObject(context.Background(), 1, "failed") })
}

func TestCollector_RecordsAndExposes(t *testing.T) {
	c := NewCollector("museum")
	recorders := Recorders{c}

	recorders.RecordClassification(context.Background(), false, 3, time.Second)
	recorders.RecordDefaultObject(context.Background(), 5, "pending")
	c.RecordHTTPRequest(http.MethodPost, "/arti/analyze", 200, 20*time.Millisecond)
	c.RecordStoreOperation("create_modified", nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.Classifications.WithLabelValues("failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.DefaultObjects.WithLabelValues("5", "pending")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "museum_http_requests_total"))
}
