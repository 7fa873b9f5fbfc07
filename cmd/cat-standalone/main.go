package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/config"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/event"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/http"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/log"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/repository"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/service"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/document"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/file"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/mq"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/telemetry"
	"github.com/tuanvumaihuynh/techstore-catalog/pkg/cmdutil"
	"github.com/tuanvumaihuynh/techstore-catalog/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

type catalogStore interface {
	document.Store
	document.HealthChecker
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Store    config.Store
		Postgres config.Postgres
		HTTP     config.HTTP
		Kafka    config.Kafka
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	var store catalogStore
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("error creating pgx pool: %w", err)
		}
		defer pgxPool.Close()

		store = db.NewDocumentStore(db.NewClient(pgxPool))
	default:
		store = file.NewStore(cfg.Store.FilePath)
	}
	logger.InfoContext(ctx, "catalog store selected", slog.String("driver", cfg.Store.Driver.String()))

	var producer mq.Producer = mq.NopProducer{}
	var kafkaConsumer *mq.KafkaConsumer
	if cfg.Kafka.Enabled() {
		kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
		if err != nil {
			return fmt.Errorf("error creating kafka producer: %w", err)
		}
		defer kafkaProducer.Close()
		producer = kafkaProducer

		kafkaConsumer, err = mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
		if err != nil {
			return fmt.Errorf("error creating kafka consumer: %w", err)
		}
	} else {
		logger.InfoContext(ctx, "kafka is not configured, change events are disabled")
	}

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	productRepository := repository.NewProductRepository(store)
	brandRepository := repository.NewBrandRepository(store)

	productService := service.NewProductService(logger, store, productRepository, v, event.NewPublisher(producer))
	brandService := service.NewBrandService(brandRepository)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	if kafkaConsumer != nil {
		wg.Go(func() {
			svc := event.New(logger, kafkaConsumer)
			cleanup, err := svc.Run(ctx)
			if err != nil {
				panic(fmt.Errorf("error running event service: %w", err))
			}
			logger.InfoContext(ctx, "event service started")

			<-interruptChan

			logger.InfoContext(ctx, "event service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "event service is stopped")
		})
	}

	wg.Go(func() {
		svc := http.New(cfg.HTTP, logger, productService, brandService, store)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Wait()

	return nil
}
