package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/farmart/livestock-api/internal/config"
	"github.com/farmart/livestock-api/internal/events"
	"github.com/farmart/livestock-api/internal/handler"
	"github.com/farmart/livestock-api/internal/metrics"
	"github.com/farmart/livestock-api/internal/repository"
	"github.com/farmart/livestock-api/internal/service"
	"github.com/farmart/livestock-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL
	if cfg.DB.Migrate {
		if err := repository.Migrate(cfg.DB.DSN()); err != nil {
			return err
		}
		log.Info("database migrated")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to Redis: %w", err)
	}
	log.Info("connected to Redis")

	// RabbitMQ carries the notification worker and, by default, the relay.
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	defer amqpConn.Close()

	consumeCh, err := amqpConn.Channel()
	if err != nil {
		return fmt.Errorf("open RabbitMQ channel: %w", err)
	}
	defer consumeCh.Close()

	if err := worker.SetupRabbitMQ(consumeCh); err != nil {
		return fmt.Errorf("setup RabbitMQ: %w", err)
	}
	log.Info("connected to RabbitMQ")

	publisher, err := newPublisher(cfg, amqpConn)
	if err != nil {
		return err
	}
	defer publisher.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg)
	orderMetrics := metrics.NewOrderMetrics(reg)

	// Services
	store := repository.NewStore(dbPool)
	authSvc := service.NewAuthService(store.Users(), cfg.JWT.Secret, cfg.JWT.Expiration)
	catalogSvc := service.NewCatalogService(store.Animals(), redisClient, cfg.Redis.CacheTTL)
	cartSvc := service.NewCartService(store)
	orderSvc := service.NewOrderService(store, log, orderMetrics)
	querySvc := service.NewOrderQueryService(store)

	router := handler.NewRouter(handler.Handlers{
		Auth:   handler.NewAuthHandler(authSvc),
		Animal: handler.NewAnimalHandler(catalogSvc),
		Cart:   handler.NewCartHandler(cartSvc),
		Order:  handler.NewOrderHandler(orderSvc, querySvc),
		Health: handler.NewHealthHandler(dbPool, redisClient, amqpConn),
	}, handler.RouterConfig{
		Verifier:      authSvc,
		Logger:        log,
		ServerMetrics: serverMetrics,
		Gatherer:      reg,
		AdminListing:  cfg.Orders.AdminListing,
	})

	relay := events.NewRelay(store.Outbox(), publisher, events.RelayConfig{
		Interval: cfg.Events.RelayInterval,
		Batch:    cfg.Events.RelayBatch,
	}, log, orderMetrics)
	orderWorker := worker.NewOrderWorker(consumeCh, catalogSvc, redisClient, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return relay.Run(gctx)
	})
	g.Go(func() error {
		if err := orderWorker.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		orderWorker.Stop()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newPublisher(cfg *config.Config, conn *amqp.Connection) (events.Publisher, error) {
	switch cfg.Events.Broker {
	case "kafka":
		var brokers []string
		for _, b := range strings.Split(cfg.Kafka.Brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		return events.NewKafkaPublisher(brokers, cfg.Kafka.Topic), nil
	default:
		ch, err := conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("open publish channel: %w", err)
		}
		pub, err := events.NewAMQPPublisher(ch)
		if err != nil {
			_ = ch.Close()
			return nil, err
		}
		return pub, nil
	}
}
