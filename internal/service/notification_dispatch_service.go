package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"notifhub-be/internal/config"
	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/mapper"
	"notifhub-be/internal/metrics"
	"notifhub-be/internal/pkg/apperror"
	"notifhub-be/internal/pkg/logger"
	"notifhub-be/internal/provider"
	"notifhub-be/internal/repository/memory"
	"notifhub-be/internal/repository/specification"
	"notifhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type INotificationDispatchService interface {
	Send(ctx context.Context, req *dto.SendNotificationRequest) (*dto.SendNotificationResponse, error)
}

type notificationDispatchService struct {
	uowFactory      unitofwork.RepositoryFactory
	providers       *provider.Registry
	templates       *memory.TemplateCache
	mapper          *mapper.NotificationMapper
	logger          logger.ILogger
	defaultChannels []entity.NotificationChannel
	dispatchTimeout time.Duration
}

func NewNotificationDispatchService(
	uowFactory unitofwork.RepositoryFactory,
	providers *provider.Registry,
	templates *memory.TemplateCache,
	log logger.ILogger,
	cfg config.NotifyConfig,
) INotificationDispatchService {
	defaults := make([]entity.NotificationChannel, 0, len(cfg.DefaultChannels))
	for _, channel := range cfg.DefaultChannels {
		defaults = append(defaults, entity.NotificationChannel(channel))
	}
	timeout := time.Duration(cfg.DispatchTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &notificationDispatchService{
		uowFactory:      uowFactory,
		providers:       providers,
		templates:       templates,
		mapper:          mapper.NewNotificationMapper(),
		logger:          log,
		defaultChannels: defaults,
		dispatchTimeout: timeout,
	}
}

// channelResult is one provider outcome, slotted by the caller's channel
// order so aggregation picks the first error deterministically.
type channelResult struct {
	Channel   entity.NotificationChannel
	Success   bool
	MessageId string
	Err       string
}

func (s *notificationDispatchService) Send(ctx context.Context, req *dto.SendNotificationRequest) (*dto.SendNotificationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Assemble and validate. The recipient id parses to uuid.Nil on
	// garbage input, which Validate reports as a missing recipient.
	recipientId, _ := uuid.Parse(req.RecipientId)

	channels := toChannels(req.Channels)
	if len(channels) == 0 {
		channels = s.defaultChannels
	}

	priority := entity.NotificationPriority(req.Priority)
	if req.Priority == "" {
		priority = entity.NotificationPriorityMedium
	}

	notification := &entity.Notification{
		Id:           uuid.New(),
		UserId:       recipientId,
		Type:         entity.NotificationType(req.Type),
		Title:        req.Title,
		Message:      req.Content,
		Channels:     channels,
		Priority:     priority,
		Status:       entity.NotificationStatusPending,
		ScheduledFor: req.ScheduledAt,
		ExpiresAt:    req.ExpiresAt,
		Metadata:     req.Metadata,
		MaxRetries:   3,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	violations := notification.Validate()
	if req.TemplateId != nil {
		// Title and content come from the template later in the flow, so
		// their emptiness is not a violation yet.
		violations = dropContentViolations(violations)
	}
	if len(violations) > 0 {
		metrics.RecordSendRequest("rejected")
		return nil, apperror.Validation(violations...)
	}

	// 2. Load preferences for (recipient, type), falling back to the
	// catch-all "general" bucket when the type has no dedicated rows.
	preferences, err := s.loadPreferences(ctx, uow, notification.UserId, string(notification.Type))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// 3. Reduce to the channels the user still allows.
	enabled := entity.FilterChannels(notification.Channels, preferences)
	if len(enabled) == 0 {
		metrics.RecordSendRequest("filtered")
		return nil, apperror.PreferenceFiltered("No enabled notification channels for this user")
	}
	notification.Channels = enabled

	// 4. Resolve and render the template, replacing title and content.
	if req.TemplateId != nil {
		template, err := s.resolveTemplate(ctx, uow, *req.TemplateId)
		if err != nil {
			if apperror.IsKind(err, apperror.KindNotFound) {
				metrics.RecordSendRequest("rejected")
			}
			return nil, err
		}
		notification.TemplateId = &template.Id
		notification.Message = template.Render(req.TemplateVariables)
		if subject := template.RenderSubject(req.TemplateVariables); subject != nil {
			notification.Title = *subject
		}
	}

	// 5. Persist as pending before any provider is contacted.
	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		metrics.RecordSendRequest("error")
		return nil, apperror.Internal(err)
	}

	// 6. Resolve delivery addresses once, then fan out concurrently. Each
	// channel gets its own bounded timeout so one hanging provider cannot
	// stall the rest.
	recipient, err := s.resolveRecipient(ctx, uow, notification)
	if err != nil {
		metrics.RecordSendRequest("error")
		return nil, apperror.Internal(err)
	}

	results := s.fanOut(ctx, notification, recipient)

	// 7. Aggregate in channel order and persist the outcome.
	allSuccessful := true
	firstError := ""
	deliveryData := make(map[string]interface{}, len(results))
	for _, result := range results {
		entry := map[string]interface{}{"success": result.Success}
		if result.MessageId != "" {
			entry["message_id"] = result.MessageId
		}
		if result.Err != "" {
			entry["error"] = result.Err
		}
		deliveryData[string(result.Channel)] = entry

		if !result.Success {
			if firstError == "" {
				firstError = result.Err
			}
			allSuccessful = false
		}
	}
	notification.DeliveryData = deliveryData

	if allSuccessful {
		if err := notification.MarkSent(); err != nil {
			return nil, apperror.Internal(err)
		}
		metrics.RecordSendRequest("sent")
	} else {
		if err := notification.MarkFailed(firstError); err != nil {
			return nil, apperror.Internal(err)
		}
		metrics.RecordSendRequest("failed")
	}

	if err := uow.NotificationRepository().Update(ctx, notification); err != nil {
		metrics.RecordSendRequest("error")
		return nil, apperror.Internal(err)
	}

	s.logger.Info("NotificationDispatch", "Dispatch finished", map[string]interface{}{
		"notification_id": notification.Id.String(),
		"channels":        len(results),
		"success":         allSuccessful,
	})

	// 8. Respond. Partial failure is a result, not an error return; the
	// notification snapshot is always included once it was created.
	message := "Notification sent successfully"
	if !allSuccessful {
		message = "Some notifications failed"
	}

	return &dto.SendNotificationResponse{
		Success:      allSuccessful,
		Message:      message,
		Notification: s.mapper.ToResponse(notification),
		Results:      toChannelResponses(results),
	}, nil
}

func (s *notificationDispatchService) loadPreferences(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, notificationType string) ([]*entity.NotificationPreference, error) {
	preferences, err := uow.NotificationPreferenceRepository().FindByUserAndType(ctx, userId, notificationType)
	if err != nil {
		return nil, err
	}
	if len(preferences) == 0 && notificationType != entity.PreferenceTypeGeneral {
		preferences, err = uow.NotificationPreferenceRepository().FindByUserAndType(ctx, userId, entity.PreferenceTypeGeneral)
		if err != nil {
			return nil, err
		}
	}
	return preferences, nil
}

func (s *notificationDispatchService) resolveTemplate(ctx context.Context, uow unitofwork.UnitOfWork, templateId string) (*entity.NotificationTemplate, error) {
	if cached, found := s.templates.Get(templateId); found {
		return cached, nil
	}

	id, err := uuid.Parse(templateId)
	if err != nil {
		return nil, apperror.NotFound("Notification template not found")
	}

	template, err := uow.NotificationTemplateRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if template == nil {
		return nil, apperror.NotFound("Notification template not found")
	}

	s.templates.Save(template)
	return template, nil
}

// resolveRecipient gathers the addresses the enabled channels need. The phone
// number is only exposed once the user has verified it; an unverified number
// surfaces as a provider-level delivery failure, not a silent send.
func (s *notificationDispatchService) resolveRecipient(ctx context.Context, uow unitofwork.UnitOfWork, notification *entity.Notification) (*provider.Recipient, error) {
	recipient := &provider.Recipient{UserId: notification.UserId}

	needEmail := false
	needPhone := false
	for _, channel := range notification.Channels {
		switch channel {
		case entity.NotificationChannelEmail:
			needEmail = true
		case entity.NotificationChannelSMS:
			needPhone = true
		}
	}

	if needEmail {
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: notification.UserId})
		if err != nil {
			return nil, err
		}
		if user != nil {
			recipient.Email = user.Email
		}
	}

	if needPhone {
		profile, err := uow.UserProfileRepository().FindByUserId(ctx, notification.UserId)
		if err != nil {
			return nil, err
		}
		if profile != nil && profile.PhoneVerified {
			recipient.Phone = profile.Phone
		}
	}

	return recipient, nil
}

func (s *notificationDispatchService) fanOut(ctx context.Context, notification *entity.Notification, recipient *provider.Recipient) []channelResult {
	results := make([]channelResult, len(notification.Channels))

	var wg sync.WaitGroup
	for i, channel := range notification.Channels {
		wg.Add(1)
		go func(slot int, channel entity.NotificationChannel) {
			defer wg.Done()
			results[slot] = s.dispatchChannel(ctx, notification, recipient, channel)
		}(i, channel)
	}
	wg.Wait()

	return results
}

func (s *notificationDispatchService) dispatchChannel(ctx context.Context, notification *entity.Notification, recipient *provider.Recipient, channel entity.NotificationChannel) (result channelResult) {
	result = channelResult{Channel: channel}
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			message := fmt.Sprintf("%v", r)
			if message == "" {
				message = "Unknown error occurred"
			}
			result.Success = false
			result.MessageId = ""
			result.Err = message
			s.logger.Error("NotificationDispatch", "Provider panicked", map[string]interface{}{
				"channel": string(channel),
				"panic":   message,
			})
		}
		metrics.RecordDispatch(string(channel), result.Success, time.Since(started))
	}()

	p, found := s.providers.Get(channel)
	if !found {
		result.Err = fmt.Sprintf("No provider found for channel: %s", channel)
		return result
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	res, err := p.Send(sendCtx, notification, recipient)
	if err != nil {
		result.Err = err.Error()
		return result
	}

	result.Success = true
	if res != nil {
		result.MessageId = res.MessageId
	}
	return result
}

func toChannels(values []string) []entity.NotificationChannel {
	channels := make([]entity.NotificationChannel, 0, len(values))
	for _, value := range values {
		channels = append(channels, entity.NotificationChannel(value))
	}
	return channels
}

func toChannelResponses(results []channelResult) []dto.ChannelResultResponse {
	responses := make([]dto.ChannelResultResponse, len(results))
	for i, result := range results {
		responses[i] = dto.ChannelResultResponse{
			Channel: string(result.Channel),
			Success: result.Success,
		}
		if result.MessageId != "" {
			id := result.MessageId
			responses[i].MessageId = &id
		}
		if result.Err != "" {
			msg := result.Err
			responses[i].Error = &msg
		}
	}
	return responses
}

func dropContentViolations(violations []string) []string {
	kept := violations[:0]
	for _, violation := range violations {
		if violation == "title is required" || violation == "content is required" {
			continue
		}
		kept = append(kept, violation)
	}
	return kept
}
