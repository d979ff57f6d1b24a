package bootstrap

import (
	"context"
	"log"

	"peerlearn-be/internal/config"
	"peerlearn-be/internal/controller"
	"peerlearn-be/internal/handler"
	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/internal/pkg/mailer"
	"peerlearn-be/internal/repository/unitofwork"
	"peerlearn-be/internal/service"
	"peerlearn-be/internal/websocket"
	"peerlearn-be/pkg/admin/dashboard"
	"peerlearn-be/pkg/events"

	pktNats "peerlearn-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	UserController    controller.IUserController
	SessionController controller.ISessionController
	ReviewController  controller.IReviewController
	MessageController controller.IMessageController
	AdminController   controller.IAdminController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Background service, exposed for main.go to run
	NotificationService *service.NotificationService
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
	busPublisher := events.NewBusPublisher(pubSub)

	// 2.5 Infrastructure
	// NATS (audit fan-out)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis (cross-instance websocket delivery)
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	auditService := service.NewAuditService(uowFactory, natsPub, sysLogger)
	achievementService := service.NewAchievementService(uowFactory, busPublisher, sysLogger)
	messageService := service.NewMessageService(uowFactory, busPublisher, sysLogger)

	sessionService := service.NewSessionService(
		uowFactory,
		messageService,
		achievementService,
		auditService,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService, auditService)
	userService := service.NewUserService(uowFactory, achievementService)
	reviewService := service.NewReviewService(uowFactory, achievementService, auditService, sysLogger)

	dashboardAggregator := dashboard.NewAggregator(sysLogger)
	adminService := service.NewAdminService(uowFactory, dashboardAggregator, auditService, sysLogger)

	// 3.5 Realtime notifier (bus -> hub)
	notifService := service.NewNotificationService(pubSub, wsHub, wsLogger)
	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		UserController:    controller.NewUserController(userService, reviewService, achievementService),
		SessionController: controller.NewSessionController(sessionService),
		ReviewController:  controller.NewReviewController(reviewService),
		MessageController: controller.NewMessageController(messageService),
		AdminController:   controller.NewAdminController(adminService),

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		NotificationService: notifService,
	}
}
