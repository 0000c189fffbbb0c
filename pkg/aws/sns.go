package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient publishes raw messages to SNS topics.
type SNSClient struct {
	client snsAPI
	logger *zap.Logger
}

func NewSNSClient(cfg sdkaws.Config, logger *zap.Logger) *SNSClient {
	return newSNSClient(sns.NewFromConfig(cfg), logger)
}

func newSNSClient(api snsAPI, logger *zap.Logger) *SNSClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SNSClient{client: api, logger: logger}
}

// Publish publishes a raw message to the given SNS topic ARN.
func (s *SNSClient) Publish(ctx context.Context, topicArn string, message []byte) error {
	if topicArn == "" {
		return fmt.Errorf("empty topicArn")
	}
	s.logger.Debug("sns publish", zap.String("topic_arn", topicArn), zap.Int("message_len", len(message)))

	_, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
	})
	if err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	return nil
}
