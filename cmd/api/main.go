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

	"github.com/joho/godotenv"

	"github.com/lifelens/lifelens/internal/application"
	appauth "github.com/lifelens/lifelens/internal/application/auth"
	apphealth "github.com/lifelens/lifelens/internal/application/health"
	"github.com/lifelens/lifelens/internal/config"
	"github.com/lifelens/lifelens/internal/domain/analyses"
	"github.com/lifelens/lifelens/internal/domain/profiles"
	"github.com/lifelens/lifelens/internal/domain/reports"
	"github.com/lifelens/lifelens/internal/domain/uploads"
	"github.com/lifelens/lifelens/internal/domain/users"
	openaiClient "github.com/lifelens/lifelens/internal/infra/ai/openai"
	mysqlp "github.com/lifelens/lifelens/internal/infra/db/mysql"
	postgresp "github.com/lifelens/lifelens/internal/infra/db/postgres"
	"github.com/lifelens/lifelens/internal/infra/httpserver"
	minioStore "github.com/lifelens/lifelens/internal/infra/storage"
	"github.com/lifelens/lifelens/internal/middleware"
)

func main() {
	// .env is optional; env vars win over config.yaml for secrets
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	var (
		db           *sql.DB
		usersRepo    users.Repository
		profilesRepo profiles.Repository
		uploadsRepo  uploads.Repository
		analysesRepo analyses.Repository
		reportsRepo  reports.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		if err := postgresp.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("schema error: %v", err)
		}
		usersRepo = postgresp.NewUserRepository(db)
		profilesRepo = postgresp.NewProfileRepository(db)
		uploadsRepo = postgresp.NewUploadRepository(db)
		analysesRepo = postgresp.NewAnalysisRepository(db)
		reportsRepo = postgresp.NewReportRepository(db)
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("schema error: %v", err)
		}
		usersRepo = mysqlp.NewUserRepository(db)
		profilesRepo = mysqlp.NewProfileRepository(db)
		uploadsRepo = mysqlp.NewUploadRepository(db)
		analysesRepo = mysqlp.NewAnalysisRepository(db)
		reportsRepo = mysqlp.NewReportRepository(db)
	default:
		log.Fatalf("unsupported database driver %q", cfg.Database.Driver)
	}
	defer db.Close()

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

	if cfg.AI.APIKey == "" {
		log.Println("warning: no AI API key configured, analysis features disabled")
	}
	aiClient := openaiClient.NewClient(cfg.AI.APIKey, cfg.AI.Model)

	sessions := appauth.NewSessionStore()
	clock := application.SystemClock{}

	authSvc := &appauth.Service{
		Users:    usersRepo,
		Sessions: sessions,
		Clock:    clock,
	}
	healthSvc := &apphealth.Service{
		Profiles:  profilesRepo,
		Uploads:   uploadsRepo,
		Analyses:  analysesRepo,
		Reports:   reportsRepo,
		Artifacts: store,
		AI:        aiClient,
		Clock:     clock,
	}

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
		"storage":  middleware.CheckerFunc(store.Check),
	}

	handler := httpserver.NewRouter(authSvc, healthSvc, checkers)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // analysis calls block on the inference service
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

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
