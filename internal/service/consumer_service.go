package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishActivityMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal activity message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if payload.UserId == uuid.Nil || payload.Action == "" {
		log.Printf("[ERROR] Activity message missing user or action, dropping")
		msg.Ack()
		return
	}

	occurredAt := payload.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	activity := &entity.UserActivity{
		Id:        uuid.New(),
		UserId:    payload.UserId,
		Action:    payload.Action,
		Details:   payload.Details,
		CreatedAt: occurredAt,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserProfileRepository().CreateActivity(ctx, activity); err != nil {
		log.Printf("[ERROR] Failed to persist activity for user %s: %v", payload.UserId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[INFO] Recorded activity %q for user %s", payload.Action, payload.UserId)
	msg.Ack()
}
