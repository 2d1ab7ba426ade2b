package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	adminhandler "blogger-platform/internal/admin/handler"
	authhandler "blogger-platform/internal/auth/handler"
	authservice "blogger-platform/internal/auth/service"
	"blogger-platform/internal/config"
	"blogger-platform/internal/db"
	healthhandler "blogger-platform/internal/health/handler"
	"blogger-platform/internal/mail"
	"blogger-platform/internal/ratelimit"
	ratelimitrepo "blogger-platform/internal/ratelimit/repository"
	"blogger-platform/internal/security"
	"blogger-platform/internal/server"
	sessionhandler "blogger-platform/internal/session/handler"
	sessionrepo "blogger-platform/internal/session/repository"
	userrepo "blogger-platform/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	database, err := db.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		cancel()
		logger.Fatal("mongo connect", zap.Error(err))
	}
	if err := db.EnsureIndexes(ctx, database); err != nil {
		cancel()
		logger.Fatal("mongo indexes", zap.Error(err))
	}
	cancel()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Client().Disconnect(ctx); err != nil {
			logger.Warn("mongo disconnect", zap.Error(err))
		}
	}()

	users := userrepo.NewMongoRepository(database)
	sessions := sessionrepo.NewMongoRepository(database)

	var limitStore ratelimitrepo.Repository = ratelimitrepo.NewMongoRepository(database)
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := db.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		cancel()
		if err != nil {
			logger.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		limitStore = ratelimitrepo.NewRedisRepository(rdb, cfg.Window())
		logger.Info("rate limiter backed by redis", zap.String("addr", cfg.RedisAddr))
	}
	limiter := ratelimit.NewLimiter(limitStore, cfg.Window(), cfg.RateLimitMax, logger)

	var mailer mail.Sender
	if cfg.MailAPIURL != "" && cfg.MailAPIKey != "" {
		mailer = mail.NewAPIClient(cfg.MailAPIKey, cfg.MailAPIURL, cfg.MailSender)
	} else {
		mailer = &mail.DevSender{Log: logger}
		logger.Warn("mail gateway not configured, using dev sender")
	}

	tokens := security.NewTokenProvider([]byte(cfg.JWTSecret), cfg.AccessTTL(), cfg.RefreshTTL())
	hasher := security.NewHasher(cfg.BcryptCost)
	auth := authservice.NewAuthService(users, sessions, hasher, tokens, mailer, logger,
		cfg.ConfirmationTTL(), cfg.RecoveryTTL())

	deps := server.Deps{
		Log:     logger,
		Tokens:  tokens,
		Limiter: limiter,
		Auth:    authhandler.New(auth, int(cfg.RefreshTTL()/time.Second)),
		Devices: sessionhandler.New(auth),
		Health:  healthhandler.New(mongoPinger{database}),
	}
	if cfg.Env != "production" {
		deps.Testing = adminhandler.New(logger, users, sessions, limitStore)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down http server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("http server stopped")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

type mongoPinger struct {
	db *mongo.Database
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.db.Client().Ping(ctx, nil)
}
