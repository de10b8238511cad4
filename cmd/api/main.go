package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/router"
	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/db"
	"github.com/sickboy0001/ZeSecThinkV2/eventbus"
	"github.com/sickboy0001/ZeSecThinkV2/gemini"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
	"github.com/sickboy0001/ZeSecThinkV2/repositories"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

// @title           ZeSecThink API
// @version         1.0
// @description     Journal posts, tags, prompts and the AI refinement batch pipeline
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, database, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		config.Logger.Fatalf("mongo: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	gen, err := gemini.NewClient(ctx, cfg.Gemini)
	if err != nil {
		config.Logger.Fatalf("gemini: %v", err)
	}

	bus := eventbus.FromConfig(ctx, cfg.Kafka, config.Logger)
	defer bus.Close()

	deps := wire(database, gen, bus, cfg)
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.API.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "X-User-Id", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
	}).Handler(router.New(deps))

	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	config.Logger.Infof("api server listening on %s", cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		config.Logger.Errorf("api server: %v", err)
		os.Exit(1)
	}
}

func wire(database *mongo.Database, gen *gemini.Client, bus eventbus.EventBus, cfg config.AppConfig) router.Dependencies {
	counters := repositories.NewCounterRepository(database)
	posts := repositories.NewPostRepository(database, counters)
	tags := repositories.NewTagRepository(database, counters)
	prompts := repositories.NewPromptRepository(database, counters)
	batches := repositories.NewAIBatchRepository(database, counters)
	logs := repositories.NewAIExecutionLogRepository(database, counters)
	histories := repositories.NewAIRefinementHistoryRepository(database, counters)

	opts := []refinement.Option{refinement.WithPublisher(bus, cfg.Kafka.Topic)}
	orchestrator := refinement.NewOrchestrator(refinement.Stores{
		Tags:      tags,
		Batches:   batches,
		Logs:      logs,
		Histories: histories,
	}, gen, cfg.Refinement, opts...)
	reconciler := refinement.NewReconciler(batches, posts, histories, opts...)

	promptSvc := services.NewPromptService(prompts, gen.Model())
	return router.Dependencies{
		Posts:      services.NewPostService(posts),
		Tags:       services.NewTagService(tags),
		Prompts:    promptSvc,
		Refinement: services.NewRefinementService(posts, batches, promptSvc, orchestrator, reconciler),
		AILogs:     services.NewAILogService(batches, logs, histories, posts),
		Gemini:     gen,
		Ping: func(ctx context.Context) error {
			return db.Ping(ctx, database)
		},
	}
}
