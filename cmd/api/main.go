package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/medtrust/internal/application"
	appai "github.com/bryanwahyu/medtrust/internal/application/ai"
	apprecords "github.com/bryanwahyu/medtrust/internal/application/records"
	"github.com/bryanwahyu/medtrust/internal/config"
	"github.com/bryanwahyu/medtrust/internal/domain/assistant"
	"github.com/bryanwahyu/medtrust/internal/domain/records"
	openaiClient "github.com/bryanwahyu/medtrust/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/medtrust/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/medtrust/internal/infra/db/postgres"
	"github.com/bryanwahyu/medtrust/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/medtrust/internal/infra/storage"
	"github.com/bryanwahyu/medtrust/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql by default, postgres via config)
	var (
		db          *sql.DB
		recordRepo  records.Repository
		summaryRepo assistant.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		recordRepo = postgresp.NewRecordRepository(db)
		summaryRepo = postgresp.NewAssistantRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		recordRepo = mysqlp.NewRecordRepository(db)
		summaryRepo = mysqlp.NewAssistantRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	clock := application.SystemClock{}

	// init services
	recordsSvc := &apprecords.Service{
		Repo:         recordRepo,
		Attachments:  store,
		Clock:        clock,
		MaxAccessLog: cfg.Limits.MaxAccessLog,
	}
	aiSvc := appai.NewService(openaiClient.NewClient(cfg.AI.APIKey, cfg.AI.Model), summaryRepo, clock)

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Actor"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}
	if cfg.Limits.RateCapacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(cfg.Limits.RateCapacity, cfg.Limits.RateRefillPerSec))
	}

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(recordsSvc, aiSvc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
