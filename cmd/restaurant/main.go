package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant/internal/config"
	"restaurant/internal/console"
	"restaurant/internal/domain/model"
	"restaurant/internal/handler"
	"restaurant/internal/infra/db"
	"restaurant/internal/infra/messaging"
	"restaurant/internal/infra/observability"
	infraRepo "restaurant/internal/infra/repository"
	"restaurant/internal/server"
	"restaurant/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// 通知先（Kafka or 何もしない）
type orderPublisher interface {
	usecase.OrderEventPublisher
	Close() error
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(c); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	//ストア（メモリ）
	store := db.Open()
	txm := infraRepo.NewTxManagerMemory(store)
	auditRepo := infraRepo.NewAuditLogMemoryRepository()

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	var publisher orderPublisher = messaging.NewNopOrderPublisher(logger)
	if cfg.KafkaBroker != "" {
		publisher = messaging.NewKafkaOrderPublisher(cfg.KafkaBroker, cfg.KafkaOrderTopic, logger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("publisher close failed", zap.Error(err))
		}
	}()

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(txm, auditRepo, idGen, clock, logger, cfg.DefaultStock)
	orderUC := usecase.NewOrderUsecase(txm, auditRepo, publisher, idGen, clock, cfg.StatusPolicy, logger)
	reportUC := usecase.NewReportUsecase(txm, auditRepo)

	if cfg.SeedMenu {
		if err := catalogUC.Seed(usecase.WithActor(ctx, usecase.ActorSystem), model.DefaultMenu()); err != nil {
			return err
		}
	}

	if len(args) > 0 && args[0] == "serve" {
		e := server.New(server.Handlers{
			Menu:   handler.NewMenuHandler(catalogUC),
			Order:  handler.NewOrderHandler(orderUC),
			Report: handler.NewReportHandler(reportUC),
		}, logger)
		return server.Start(ctx, e, cfg.HTTPAddr, logger)
	}

	return console.New(os.Stdin, os.Stdout, catalogUC, orderUC, reportUC, cfg.RestaurantName, cfg.DefaultStock, logger).Run(ctx)
}
