package bootstrap

import (
	"context"
	"log"

	"notifhub-be/internal/config"
	"notifhub-be/internal/controller"
	"notifhub-be/internal/pkg/logger"
	"notifhub-be/internal/pkg/mailer"
	"notifhub-be/internal/provider"
	"notifhub-be/internal/repository/memory"
	"notifhub-be/internal/repository/unitofwork"
	"notifhub-be/internal/service"
	"notifhub-be/internal/websocket"

	pktNats "notifhub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	UserController         controller.IUserController
	AdminController        controller.IAdminController
	NotificationController controller.INotificationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub (dedicated logger keeps delivery noise out of the app log)
	notifLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, notifLogger)
	go wsHub.Run()

	// SNS client backs the sms and push providers
	snsClient, err := provider.NewSNSClient(context.Background(), cfg.AWS.Region, cfg.AWS.Endpoint)
	if err != nil {
		log.Printf("[WARN] Failed to initialize SNS client: %v", err)
	}

	// Channel Providers
	providers := provider.NewRegistry(
		provider.NewEmailProvider(emailService),
		provider.NewInAppProvider(wsHub), // Hub implements NotificationDelivery
	)
	if snsClient != nil {
		providers.Register(provider.NewSMSProvider(snsClient, cfg.AWS.SMSSenderID))
		providers.Register(provider.NewPushProvider(snsClient, cfg.AWS.PushTopicARN))
	}

	templateCache := memory.NewTemplateCache()

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Notify.ActivityTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Notify.ActivityTopic,
		uowFactory,
	)

	roleService := service.NewUserRoleService(uowFactory)
	userService := service.NewUserService(uowFactory, publisherService, natsPub)
	authService := service.NewAuthService(uowFactory, emailService, roleService, natsPub)
	oauthService := service.NewOAuthService(uowFactory, roleService)

	dispatchService := service.NewNotificationDispatchService(
		uowFactory,
		providers,
		templateCache,
		notifLogger,
		cfg.Notify,
	)
	queryService := service.NewNotificationQueryService(uowFactory)
	preferenceService := service.NewNotificationPreferenceService(uowFactory)
	maintenanceService := service.NewNotificationMaintenanceService(uowFactory, sysLogger)

	// 3.5 Event-driven dispatch (NATS worker)
	if natsSub != nil {
		eventWorker := service.NewNotificationEventWorker(dispatchService, natsSub, uowFactory, notifLogger)
		go eventWorker.Start()
	}

	// 4. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		OAuthController: controller.NewOAuthController(oauthService),
		UserController:  controller.NewUserController(userService, roleService),
		AdminController: controller.NewAdminController(roleService, maintenanceService, sysLogger),
		NotificationController: controller.NewNotificationController(
			dispatchService,
			queryService,
			preferenceService,
			roleService,
			wsHub,
			notifLogger,
		),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
