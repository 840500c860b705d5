package bootstrap

import (
	"log"
	"time"

	"realtime-chat-be/internal/chat"
	"realtime-chat-be/internal/config"
	"realtime-chat-be/internal/controller"
	"realtime-chat-be/internal/pkg/logger"
	"realtime-chat-be/internal/pkg/mailer"
	"realtime-chat-be/internal/repository/memory"
	"realtime-chat-be/internal/repository/unitofwork"
	"realtime-chat-be/internal/service"
	"realtime-chat-be/pkg/blobstore"
	pktNats "realtime-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	UserController    controller.IUserController
	MessageController controller.IMessageController
	MediaController   controller.IMediaController

	// Chat core
	ChatHandler *chat.Handler
	ChatHub     *chat.Hub

	// Background services (exposed for main.go to run)
	RelayService service.IRelayService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus (in-process)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Outbound NATS events are optional; the service runs degraded without
	// a broker.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
		natsPub = nil
	}

	// 3. Media store
	mediaStore, err := blobstore.NewLocalStore(cfg.Media.Dir, "/api/media/files")
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize media store: %v", err)
	}

	// 4. Services
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.JWT.RefreshTTLHours) * time.Hour)
	publisherService := service.NewPublisherService(service.MessageDeletedTopic, pubSub)

	authService := service.NewAuthService(uowFactory, sessionRepo, emailService, natsPub, cfg.JWT)
	userService := service.NewUserService(uowFactory)
	messageService := service.NewMessageService(uowFactory, mediaStore, publisherService, natsPub, sysLogger)

	// 5. Chat core
	chatLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)
	registry := chat.NewRegistry()
	router := chat.NewRouter(messageService, registry, chatLogger)
	hub := chat.NewHub(registry, router, messageService, chatLogger)
	go hub.Run()

	relayService := service.NewRelayService(pubSub, service.MessageDeletedTopic, hub, chatLogger)

	authenticator := chat.NewJWTAuthenticator(cfg.JWT.Secret)
	chatHandler := chat.NewHandler(hub, authenticator, chatLogger)

	return &Container{
		AuthController:    controller.NewAuthController(authService),
		UserController:    controller.NewUserController(userService),
		MessageController: controller.NewMessageController(messageService),
		MediaController:   controller.NewMediaController(mediaStore, cfg.Media),
		ChatHandler:       chatHandler,
		ChatHub:           hub,
		RelayService:      relayService,
	}
}
