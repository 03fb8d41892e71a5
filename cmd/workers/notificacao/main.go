package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bookflaz/bookflaz/internal/config"
	"github.com/bookflaz/bookflaz/internal/database"
	"github.com/bookflaz/bookflaz/internal/kafka"
	"github.com/bookflaz/bookflaz/internal/logger"
	"github.com/bookflaz/bookflaz/internal/notificacao"
	"github.com/bookflaz/bookflaz/internal/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.New(cfg.Observability)
	defer loggerService.Shutdown()
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	log.Info().Msg("Starting Notificacao Worker...")

	db, err := database.New(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	redisClient, err := redis.New(&log, &cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize redis")
	}
	defer redisClient.Close()

	repo := notificacao.NewRepository(db.Pool)

	consumer, err := kafka.NewConsumer(kafka.DefaultConfig(cfg.Kafka.Brokers), &log, kafka.GroupNotificacaoWorker, kafka.TopicNotificacaoPending)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize kafka consumer")
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Run(ctx, notificacaoHandler(repo, redisClient, &log)); err != nil {
			log.Error().Err(err).Msg("Notificacao worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down Notificacao Worker...")
	cancel()

	log.Info().Msg("Notificacao Worker shutdown complete")
}
