package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSPublisher publishes document events to an SNS topic, where the
// ingestion pipeline picks them up.
type SNSPublisher struct {
	client   *sns.Client
	topicARN string
}

// NewSNSPublisher wraps an existing SNS client for the given topic.
func NewSNSPublisher(client *sns.Client, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) DocumentUploaded(ctx context.Context, event UploadedEvent) error {
	event.EventType = EventTypeDocumentUploaded
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding upload event for %s: %w", event.DocumentID, err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(message)),
		Subject:  aws.String("Document Uploaded"),
	})
	if err != nil {
		return fmt.Errorf("publishing upload event for %s: %w", event.DocumentID, err)
	}
	return nil
}
