package metrics

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "Alpacka/API"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// metricPutter is the subset of the CloudWatch API used here
type metricPutter interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatch publishes custom metrics. Only enabled in production.
type CloudWatch struct {
	client      metricPutter
	enabled     bool
	environment string
	async       bool
}

// NewCloudWatch creates a new CloudWatch metrics client
func NewCloudWatch(ctx context.Context, environment string) *CloudWatch {
	if environment != "production" {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &CloudWatch{environment: environment}
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &CloudWatch{environment: environment}
	}

	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)
	return &CloudWatch{
		client:      cloudwatch.NewFromConfig(cfg),
		enabled:     true,
		environment: environment,
		async:       true,
	}
}

// Enabled reports whether metrics are being published
func (m *CloudWatch) Enabled() bool {
	return m.enabled
}

// RecordAPIRequest records request count and latency per endpoint
func (m *CloudWatch) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	m.run(func(ctx context.Context) {
		metricName := "APIRequests"
		if statusCode >= httpStatusServerError {
			metricName = "APIErrors"
		}

		dimensions := m.dimensions("Endpoint", endpoint)
		m.put(ctx, metricName, 1, types.StandardUnitCount, dimensions)
		m.put(ctx, "APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
	})
}

// RecordGeneration records generation duration, outcome and token usage per model
func (m *CloudWatch) RecordGeneration(_ context.Context, generation Generation) {
	if !m.enabled {
		return
	}

	m.run(func(ctx context.Context) {
		outcomeDims := m.dimensions("Outcome", generation.Outcome)
		m.put(ctx, "Optimizations", 1, types.StandardUnitCount, outcomeDims)
		m.put(ctx, "GenerationDuration", float64(generation.Duration.Milliseconds()), types.StandardUnitMilliseconds, outcomeDims)

		if generation.TotalTokens == 0 {
			return
		}
		modelDims := m.dimensions("Model", generation.Model)
		m.put(ctx, "GenerationTokens/Total", float64(generation.TotalTokens), types.StandardUnitCount, modelDims)
		m.put(ctx, "GenerationTokens/Input", float64(generation.InputTokens), types.StandardUnitCount, modelDims)
		m.put(ctx, "GenerationTokens/Output", float64(generation.OutputTokens), types.StandardUnitCount, modelDims)
	})
}

func (m *CloudWatch) run(fn func(ctx context.Context)) {
	if m.async {
		go fn(context.Background())
		return
	}
	fn(context.Background())
}

func (m *CloudWatch) dimensions(name, value string) []types.Dimension {
	return []types.Dimension{
		{Name: aws.String(name), Value: aws.String(value)},
		{Name: aws.String("Environment"), Value: aws.String(m.environment)},
	}
}

func (m *CloudWatch) put(_ context.Context, metricName string, value float64, unit types.StandardUnit, dimensions []types.Dimension) {
	if err := m.putMetric(metricName, value, unit, dimensions); err != nil {
		log.Printf("Failed to record %s metric: %v", metricName, err)
	}
}

// putMetric sends a metric to CloudWatch
func (m *CloudWatch) putMetric(
	metricName string,
	value float64,
	unit types.StandardUnit,
	dimensions []types.Dimension,
) error {
	if !m.enabled || m.client == nil {
		return nil
	}

	// Detached from the request so slow CloudWatch calls never outlive their own deadline
	timeout := time.Duration(cloudwatchTimeoutSeconds) * time.Second
	cwCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := m.client.PutMetricData(cwCtx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dimensions,
			},
		},
	})

	return err
}
