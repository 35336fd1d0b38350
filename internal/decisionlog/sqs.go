package decisionlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	json "github.com/goccy/go-json"
)

const defaultSQSRegion = "us-east-1"

type sqsSender interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSink publishes each record as a JSON message body.
type SQSSink struct {
	client   sqsSender
	queueURL string
}

// NewSQSSink builds an SQS sink from the default AWS credential chain.
func NewSQSSink(ctx context.Context, region, queueURL string) (*SQSSink, error) {
	queueURL = strings.TrimSpace(queueURL)
	if queueURL == "" {
		return nil, fmt.Errorf("decision queue url is required")
	}
	if strings.TrimSpace(region) == "" {
		region = defaultSQSRegion
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SQSSink{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Write sends rec to the queue. Messages carry the recommendation id as an
// attribute so consumers can dedupe without parsing the body.
func (s *SQSSink) Write(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode sqs message: %w", err)
	}

	in := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(payload)),
	}
	if rec.RecommendationID != "" {
		in.MessageAttributes = map[string]sqstypes.MessageAttributeValue{
			"recommendation_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(rec.RecommendationID),
			},
		}
	}

	if _, err := s.client.SendMessage(ctx, in); err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}
	return nil
}

var _ Sink = (*SQSSink)(nil)
