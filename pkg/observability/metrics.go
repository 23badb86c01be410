package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// metricsAPI is the part of the CloudWatch client Metrics uses
type metricsAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes onboarding business metrics to CloudWatch
type Metrics struct {
	namespace string
	client    metricsAPI
	logger    *zap.Logger
}

// NewMetrics creates a new metrics instance. A nil client disables publishing.
func NewMetrics(namespace string, client metricsAPI, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordClassification records one classification with its attempt count and latency
func (m *Metrics) RecordClassification(ctx context.Context, success bool, attempts int, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	dims := []types.Dimension{{Name: aws.String("Status"), Value: aws.String(status)}}
	now := aws.Time(time.Now())

	m.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("ClassificationLatency"),
			Dimensions: dims,
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  now,
		},
		{
			MetricName: aws.String("ClassificationAttempts"),
			Dimensions: dims,
			Value:      aws.Float64(float64(attempts)),
			Unit:       types.StandardUnitCount,
			Timestamp:  now,
		},
	})
}

// RecordDefaultObject records the outcome of a default-object step
func (m *Metrics) RecordDefaultObject(ctx context.Context, themeID int, outcome string) {
	m.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("DefaultObject"),
			Dimensions: []types.Dimension{
				{Name: aws.String("ThemeID"), Value: aws.String(strconv.Itoa(themeID))},
				{Name: aws.String("Outcome"), Value: aws.String(outcome)},
			},
			Value:     aws.Float64(1),
			Unit:      types.StandardUnitCount,
			Timestamp: aws.Time(time.Now()),
		},
	})
}

func (m *Metrics) put(ctx context.Context, data []types.MetricDatum) {
	if m == nil || m.client == nil {
		return
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}

	// Metric failures never fail the request
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Warn("Failed to send metrics", zap.String("namespace", m.namespace), zap.Error(err))
	}
}
