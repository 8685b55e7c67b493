package provider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"notifhub-be/internal/entity"
)

type SMSProvider struct {
	client   *sns.Client
	senderId string
}

func NewSMSProvider(client *sns.Client, senderId string) *SMSProvider {
	return &SMSProvider{
		client:   client,
		senderId: senderId,
	}
}

func (p *SMSProvider) Channel() entity.NotificationChannel {
	return entity.NotificationChannelSMS
}

func (p *SMSProvider) Send(ctx context.Context, notification *entity.Notification, recipient *Recipient) (*Result, error) {
	if recipient.Phone == "" {
		return nil, fmt.Errorf("recipient has no verified phone number")
	}

	attributes := map[string]types.MessageAttributeValue{}
	if p.senderId != "" {
		attributes["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(p.senderId),
		}
	}
	if notification.Priority == entity.NotificationPriorityUrgent {
		attributes["AWS.SNS.SMS.SMSType"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		}
	}

	input := &sns.PublishInput{
		PhoneNumber:       aws.String(recipient.Phone),
		Message:           aws.String(fmt.Sprintf("%s: %s", notification.Title, notification.Message)),
		MessageAttributes: attributes,
	}

	result, err := p.client.Publish(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to publish sms: %w", err)
	}

	return &Result{MessageId: aws.ToString(result.MessageId)}, nil
}
