package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/commhub/message-service/internal/client/elasticsearch"
	kafkaclient "github.com/commhub/message-service/internal/client/kafka"
	redisclient "github.com/commhub/message-service/internal/client/redis"
	"github.com/commhub/message-service/internal/config"
	"github.com/commhub/message-service/internal/databus/message"
	"github.com/commhub/message-service/internal/infra"
	"github.com/commhub/message-service/internal/pkg/validator"
	"github.com/commhub/message-service/internal/repository/mongo"
	"github.com/commhub/message-service/internal/rest"
	"github.com/commhub/message-service/internal/service"
)

func main() {
	cfg := config.MustLoad()
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", cfg.Service.Name).
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := mongo.New(cfg)
	defer repo.Close()

	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure mongo indexes")
	}

	cache, err := redisclient.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer cache.Close()

	search, err := elasticsearch.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect elasticsearch")
	}

	if err := search.EnsureIndex(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure search index")
	}

	kafkaProducer := kafkaclient.NewProducer(cfg)
	defer kafkaProducer.Close()

	publisher := message.NewProducer(kafkaProducer)

	messageService := service.NewMessageService(repo, cache, publisher)
	searchService := service.NewSearchService(search, cache)

	handler := rest.New(messageService, searchService, validator.New())
	limiter := infra.NewRateLimiter(cache, cfg.RateLimit)

	router := chi.NewRouter()
	router.Use(infra.Logger(logger))
	router.Use(infra.Metrics)
	router.Use(limiter.Limit)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(infra.Auth)
		handler.AttachRoutes(r)
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.Port),
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.Service.Port).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		logger.Info().Msg("shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server error")
	}
}
