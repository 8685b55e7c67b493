package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"notifhub-be/internal/entity"
)

type PushProvider struct {
	client   *sns.Client
	topicARN string
}

func NewPushProvider(client *sns.Client, topicARN string) *PushProvider {
	return &PushProvider{
		client:   client,
		topicARN: topicARN,
	}
}

func (p *PushProvider) Channel() entity.NotificationChannel {
	return entity.NotificationChannelPush
}

type pushPayload struct {
	NotificationId string                 `json:"notification_id"`
	UserId         string                 `json:"user_id"`
	Type           string                 `json:"type"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Priority       string                 `json:"priority"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

func (p *PushProvider) Send(ctx context.Context, notification *entity.Notification, recipient *Recipient) (*Result, error) {
	payload, err := json.Marshal(pushPayload{
		NotificationId: notification.Id.String(),
		UserId:         recipient.UserId.String(),
		Type:           string(notification.Type),
		Title:          notification.Title,
		Message:        notification.Message,
		Priority:       string(notification.Priority),
		Metadata:       notification.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push payload: %w", err)
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"user_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(recipient.UserId.String()),
			},
			"priority": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(notification.Priority)),
			},
		},
	}

	result, err := p.client.Publish(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to publish push notification: %w", err)
	}

	return &Result{MessageId: aws.ToString(result.MessageId)}, nil
}
