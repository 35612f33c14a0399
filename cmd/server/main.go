package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"

	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/auth"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/config"
	apphttp "github.com/pranavarya5/Virtual-Event-Management-Platform/internal/http"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/notify"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/repository"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/repository/memory"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/repository/sqlite"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, eventRepo, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup store: %v", err)
	}
	defer cleanup()

	locks := service.NewEventLocks()
	userService := service.NewUserService(userRepo)
	eventService := service.NewEventService(eventRepo, locks)

	dispatcher := notify.NewDispatcher(buildSender(cfg, logger), cfg.Email.QueueSize, logger)
	dispatcher.Start()

	registrationService := service.NewRegistrationService(eventRepo, locks, dispatcher)

	tokens := auth.NewManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
		cfg.Auth.Issuer,
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, eventService, registrationService, tokens)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	dispatcher.Shutdown()

	logger.Info("bye")
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserRepository, repository.EventRepository, func(), error) {
	switch cfg.Database.Driver {
	case "memory", "":
		logger.Info("using in-memory store")
		return memory.NewUserRepository(), memory.NewEventRepository(), func() {}, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}

		userRepo := sqlite.NewUserRepository(db)
		eventRepo := sqlite.NewEventRepository(db)
		if err := userRepo.Init(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("init user repository: %w", err)
		}
		if err := eventRepo.Init(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("init event repository: %w", err)
		}
		logger.Infof("using sqlite store at %s", cfg.Database.Path)
		return userRepo, eventRepo, func() { db.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func buildSender(cfg config.Config, logger *logrus.Logger) notify.Sender {
	if cfg.Email.Enabled && cfg.Email.ResendAPIKey != "" && cfg.Email.From != "" {
		logger.Infof("sending confirmation emails from %s", cfg.Email.From)
		return notify.NewResendSender(resend.NewClient(cfg.Email.ResendAPIKey), cfg.Email.From, logger)
	}
	logger.Info("email disabled, confirmations are log-only")
	return notify.NewLogSender(logger)
}
