package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/stockroom/internal/config"
	"github.com/Skotchmaster/stockroom/internal/db"
	"github.com/Skotchmaster/stockroom/internal/httpserver"
	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/mykafka"
	"github.com/Skotchmaster/stockroom/internal/repo"
	"github.com/Skotchmaster/stockroom/internal/seed"
	"github.com/Skotchmaster/stockroom/internal/service"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	var (
		kv     service.KV
		gormDB *gorm.DB
	)
	if cfg.StorageDriver == config.DriverMemory {
		kv = repo.NewMemoryRepo()
	} else {
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		gormDB, err = db.Open(openCtx, cfg)
		cancel()
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		kv = &repo.GormRepo{DB: gormDB}
	}

	var producer mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		defer func() {
			if err := p.Close(); err != nil {
				logger.Error("kafka_close_error", "error", err)
			}
		}()
		producer = p
	}

	sessions := service.NewSessionStore(ctx, kv, cfg.SessionKey, data.Credentials)
	catalog := service.NewProductCatalog(sessions, data.Products)
	prefs := &service.Preferences{KV: kv}

	deps := httpserver.NewDeps(sessions, catalog, prefs, producer)
	deps.CSRF.Secure = cfg.CSRFSecureCookie
	e := httpserver.New(logger, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}

	if gormDB != nil {
		if err := db.Close(gormDB); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	}

	logger.Info("server_stopped")
}
