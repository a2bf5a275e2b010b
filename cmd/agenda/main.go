package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MarceloCarneiro100/agenda/internal/config"
	"github.com/MarceloCarneiro100/agenda/internal/database"
	httpapi "github.com/MarceloCarneiro100/agenda/internal/http"
	"github.com/MarceloCarneiro100/agenda/internal/logger"
	"github.com/MarceloCarneiro100/agenda/internal/repository"
	"github.com/MarceloCarneiro100/agenda/internal/service"
	"github.com/MarceloCarneiro100/agenda/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "agenda")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	kv := store.NewRedisKV(redisClient)
	sessions := store.NewSessionStore(kv, cfg.Session.TTL)
	flashes := store.NewFlashStore(kv, cfg.Session.TTL)

	accountsRepo := repository.NewPostgresAccountsRepo(db)
	contactsRepo := repository.NewPostgresContactsRepo(db)

	authSvc := service.NewAuthService(accountsRepo, log)
	contactSvc := service.NewContactService(contactsRepo, log)
	importSvc := service.NewImportService(contactsRepo, log)
	exportSvc := service.NewExportService(contactsRepo, cfg.Export.Dir, cfg.Export.MaxRows, log)

	router := httpapi.NewRouter(sessions, log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authSvc, sessions, log))
	router.RegisterContactRoutes(httpapi.NewContactHandler(contactSvc, flashes, log))
	router.RegisterImportExportRoutes(
		httpapi.NewImportHandler(importSvc, flashes, log),
		httpapi.NewExportHandler(exportSvc, flashes, log),
	)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("server stopped", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
	}
}
