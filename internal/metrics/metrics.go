package metrics

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/pbrandao/go-invoice-flow/internal/awsx"
)

// Metric names emitted by the import pipeline.
const (
	ImportProcessed    = "ImportProcessed"
	ImportDuplicate    = "ImportDuplicate"
	ImportParseFailure = "ImportParseFailure"
	ImportCancelled    = "ImportCancelled"
)

// Publisher emits counters to CloudWatch. Failures are returned for the
// caller to log; metrics never affect control flow.
type Publisher struct {
	client    awsx.CloudWatchAPI
	namespace string
}

func NewPublisher(client awsx.CloudWatchAPI, namespace string) *Publisher {
	return &Publisher{
		client:    client,
		namespace: namespace,
	}
}

func (p *Publisher) Count(ctx context.Context, name string) error {
	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &p.namespace,
		MetricData: []types.MetricDatum{
			{
				MetricName: &name,
				Value:      sdkaws.Float64(1),
				Unit:       types.StandardUnitCount,
			},
		},
	})
	return err
}
