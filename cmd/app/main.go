package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderops/cmd"
	apihttp "orderops/internal/adapters/in/http"
	orderkafka "orderops/internal/adapters/out/kafka"
	"orderops/internal/adapters/out/postgres"
	"orderops/internal/adapters/out/rabbitmq"
	orderredis "orderops/internal/adapters/out/redis"
	"orderops/internal/core/ports"
	"orderops/internal/jobs"
	"orderops/internal/pkg/logging"
	"orderops/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig(configDir())
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := logging.Init(logging.Options{
		Service:  "orderops",
		FilePath: configs.App.LogFile,
		Level:    configs.App.LogLevel,
	})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.Postgres.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to postgres: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}

	m := metrics.New()
	app := cmd.NewCompositionRoot(configs, gormDB, logger)
	jobManager := jobs.NewJobManager()

	var idempotency ports.IdempotencyStore
	if configs.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     configs.Redis.Addr,
			Password: configs.Redis.Password,
		})
		defer func() { _ = rdb.Close() }()
		if err = rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Error connecting to redis: %v", err)
		}
		idempotency = orderredis.NewIdempotencyStore(rdb)
	} else {
		logger.Warn("redis.addr not set, Idempotency-Key header is ignored")
	}

	if configs.Rabbit.URL != "" {
		conn, ch := dialRabbit(configs)
		defer func() {
			_ = ch.Close()
			_ = conn.Close()
		}()
		sender := rabbitmq.NewEmailSender(ch, rabbitTopology(configs))
		jobManager.Add("notification delivery", jobs.NewNotificationDeliveryJob(
			app.CreateDeliverStockWaitNotificationsCommandHandler(sender),
			configs.Jobs.NotificationSchedule, 0, m, logger,
		))
	} else {
		logger.Warn("rabbitmq.url not set, stock-wait emails stay pending")
	}

	if brokers := orderkafka.ParseBrokers(configs.Kafka.Brokers); len(brokers) > 0 {
		writer := orderkafka.NewWriter(brokers, configs.Kafka.OrderEventsTopic)
		defer func() { _ = writer.Close() }()
		jobManager.Add("outbox relay", jobs.NewOutboxRelayJob(
			app.CreateRelayOutboxCommandHandler(orderkafka.NewEventPublisher(writer)),
			configs.Jobs.OutboxSchedule, 0, m, logger,
		))
	} else {
		logger.Warn("kafka.brokers not set, order events stay in the outbox")
	}

	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	server := apihttp.NewServer(app.CreateDispatcher(), idempotency, m, apihttp.Options{
		IdempotencyTTL: configs.Idempotency.TTL,
		RequestTimeout: configs.App.RequestTimeout,
	}, logger)
	startWebServer(ctx, server, configs.App.HTTPAddr, logger)
}

func configDir() string {
	if dir := os.Getenv("ORDEROPS_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "configs"
}

func rabbitTopology(configs cmd.Config) rabbitmq.Topology {
	return rabbitmq.Topology{
		Exchange:   configs.Rabbit.Exchange,
		RoutingKey: configs.Rabbit.RoutingKey,
		Queue:      configs.Rabbit.Queue,
	}
}

func dialRabbit(configs cmd.Config) (*amqp.Connection, *amqp.Channel) {
	conn, err := amqp.Dial(configs.Rabbit.URL)
	if err != nil {
		log.Fatalf("Error connecting to rabbitmq: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Error opening rabbitmq channel: %v", err)
	}
	if err = rabbitmq.DeclareTopology(ch, rabbitTopology(configs)); err != nil {
		log.Fatalf("Error declaring rabbitmq topology: %v", err)
	}
	return conn, ch
}

func startWebServer(ctx context.Context, server *apihttp.Server, addr string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	server.Register(e)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting http server: %v", err)
		}
	}()
	logger.Info("http server started", "addr", addr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
}
