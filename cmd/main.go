package main

import (
	"context"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-board/internal/clients/media"
	"github.com/maxaizer/job-board/internal/config"
	"github.com/maxaizer/job-board/internal/handlers"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/maxaizer/job-board/internal/notifier"
	"github.com/maxaizer/job-board/internal/repositories"
	"github.com/maxaizer/job-board/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

func runNotifier(cfg config.NotifierConfig, bus EventBus.Bus) *notifier.Notifier {
	if !cfg.Enabled() {
		log.Info("Telegram notifier disabled")
		return nil
	}

	n, err := notifier.NewNotifier(cfg.TelegramToken, cfg.ChatID, bus)
	if err != nil {
		log.Fatalf("can't create notifier: %v", err)
	}
	return n
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(ctx, cfg.Logger)
	defer logger.Cleanup()

	metrics.Register()

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = log.StandardLogger().WriterLevel(log.DebugLevel)
	gin.DefaultErrorWriter = log.StandardLogger().WriterLevel(log.ErrorLevel)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	accounts := repositories.NewAccountsRepository(dbContext.DB)
	organizations := repositories.NewOrganizationsRepository(dbContext.DB)
	postings := repositories.NewPostingsRepository(dbContext.DB)
	applications := repositories.NewApplicationsRepository(dbContext.DB)
	bus := EventBus.New()

	blobs, err := media.NewCloudinaryStore(cfg.Media.CloudinaryURL)
	if err != nil {
		log.Fatalf("can't create media store: %v", err)
	}
	resumes := media.NewFetcher(cfg.Media.ResumeFetchTimeout)

	auth := services.NewAuthService(accounts, services.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), blobs)
	if cfg.Auth.AdminEmail != "" {
		if err = auth.SeedAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			log.Fatalf("can't seed admin account: %v", err)
		}
	}

	postingService, err := services.NewPostingService(bus, postings, organizations)
	if err != nil {
		log.Fatalf("can't create posting service: %v", err)
	}

	cleaner, err := services.NewOrphanApplicationsCleaner(applications, cfg.Sweeper.Schedule)
	if err != nil {
		log.Fatalf("can't create orphan cleaner: %v", err)
	}

	tgNotifier := runNotifier(cfg.Notifier, bus)

	router := handlers.NewRouter(handlers.Dependencies{
		Auth:                   auth,
		Profiles:               services.NewProfileService(accounts, blobs, resumes),
		Organizations:          services.NewOrganizationService(organizations, blobs),
		Postings:               postingService,
		Applications:           services.NewApplicationService(bus, applications, postings),
		DB:                     dbContext,
		AllowedOrigins:         cfg.Server.AllowedOrigins,
		LoginAttemptsPerMinute: cfg.Server.LoginAttemptsPerMinute,
		CookieSecure:           cfg.Auth.CookieSecure,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}

	cleaner.Stop()
	if tgNotifier != nil {
		tgNotifier.Stop()
	}

	log.Info("Services stopped.")
}
