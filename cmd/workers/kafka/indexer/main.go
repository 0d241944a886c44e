package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/commhub/message-service/internal/client/elasticsearch"
	kafkaclient "github.com/commhub/message-service/internal/client/kafka"
	"github.com/commhub/message-service/internal/config"
	"github.com/commhub/message-service/internal/databus/message"
)

const searchIndexerGroupID = "message-search-indexer"

func main() {
	cfg := config.MustLoad()
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", cfg.Service.Name).
		Str("worker", searchIndexerGroupID).
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	search, err := elasticsearch.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect elasticsearch")
	}

	if err := search.EnsureIndex(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure search index")
	}

	consumer := kafkaclient.NewConsumer(cfg, searchIndexerGroupID)
	defer consumer.Close()

	eventHandler := message.NewHandler(search)
	consumer.RegisterHandler(ctx, eventHandler.Handler)

	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("search indexer started")

	<-ctx.Done()
}
