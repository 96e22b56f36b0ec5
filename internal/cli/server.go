package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"summit-quiz-service/internal/app"
	"summit-quiz-service/internal/config"
	"summit-quiz-service/internal/domain"
	"summit-quiz-service/internal/infra/memory"
	pgloader "summit-quiz-service/internal/infra/postgres"
	redisinfra "summit-quiz-service/internal/infra/redis"
	transport "summit-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	presenceTTL := config.TTLDuration(cfg.Redis.PresenceTTL, 30*time.Second)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestionSetLoader = memory.NewStaticQuestionSetLoader(sampleSets())
	if pool != nil {
		loader = pgloader.NewQuestionSetLoader(pool)
	}

	setsTTL := config.TTLDuration(cfg.Sets.TTL, 10*time.Minute)
	var sets app.QuestionSetRepository
	if redisClient != nil {
		sets = redisinfra.NewQuestionSetRepository(redisClient, loader, setsTTL)
	} else {
		sets = memory.NewQuestionSetRepository(loader, setsTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL, presenceTTL)
	} else {
		store = memory.NewSessionStore()
	}
	service := app.NewGameService(store, sets)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting summit quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleSets provides minimal importable content for running without
// Postgres; swap the loader for the DB-backed one in production.
func sampleSets() map[string]domain.QuestionSet {
	zero := 0
	return map[string]domain.QuestionSet{
		"alpine-basics": {
			ID: "alpine-basics",
			Questions: []domain.QuestionSpec{
				{
					Text:               "What is the highest mountain on Earth?",
					Options:            []domain.Option{{Text: "Everest"}, {Text: "K2"}, {Text: "Kangchenjunga"}},
					CorrectOptionIndex: &zero,
					TimeLimitSec:       30,
				},
				{
					Text:         "Best summit snack?",
					Options:      []domain.Option{{Text: "Chocolate"}, {Text: "Trail mix"}},
					TimeLimitSec: 20,
				},
			},
		},
	}
}
