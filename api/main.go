package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/greenbridge-eco/greenbridge/internal/auth"
	"github.com/greenbridge-eco/greenbridge/internal/bootstrap"
	"github.com/greenbridge-eco/greenbridge/internal/config"
	"github.com/greenbridge-eco/greenbridge/internal/db"
	gbhttp "github.com/greenbridge-eco/greenbridge/internal/http"
	"github.com/greenbridge-eco/greenbridge/internal/http/ban"
	"github.com/greenbridge-eco/greenbridge/internal/http/handlers"
	rl "github.com/greenbridge-eco/greenbridge/internal/http/rate_limiter"
	"github.com/greenbridge-eco/greenbridge/internal/jobs"
	"github.com/greenbridge-eco/greenbridge/internal/media"
	"github.com/greenbridge-eco/greenbridge/internal/notify"
	"github.com/greenbridge-eco/greenbridge/internal/redissvc"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
	"github.com/greenbridge-eco/greenbridge/internal/search"
	"github.com/greenbridge-eco/greenbridge/internal/ws"
)

// @title GreenBridge API
// @version 1.0
// @description REST API for the GreenBridge waste management platform: organizations, materials, collections and recycling geography.
// @host localhost:8000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	auth.SetSecret(cfg.JWTSecret)
	auth.SetAccessTTL(cfg.AccessTokenTTL)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}
	defer rdb.Close()

	redisService := redissvc.NewRedisService(rdb, context.Background())
	ban.SetRedisService(redisService)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	defer database.Close()

	mailer := notify.NewMailer(notify.MailerConfig{
		Server:       cfg.SMTPServer,
		Port:         cfg.SMTPPort,
		User:         cfg.SMTPUser,
		Password:     cfg.SMTPPass,
		AuthDisabled: cfg.SMTPAuthDisabled,
		From:         cfg.AlertFrom,
		AdminTo:      cfg.AlertTo,
	})
	ban.SetMailer(mailer)

	userRepo := repo.NewPostgresUserRepository(database)
	tokenRepo := repo.NewPostgresTokenRepository(database)
	collectionRepo := repo.NewPostgresCollectionRepository(database)
	metricsRepo := repo.NewPostgresMetricsRepository(database)

	handlers.SetUserRepo(userRepo)
	handlers.SetTokenRepo(tokenRepo)
	handlers.SetOrganizationRepo(repo.NewPostgresOrganizationRepository(database))
	handlers.SetCategoryRepo(repo.NewPostgresCategoryRepository(database))
	handlers.SetMaterialRepo(repo.NewPostgresMaterialRepository(database))
	handlers.SetCollectionRepo(collectionRepo)
	handlers.SetFacilityRepo(repo.NewPostgresFacilityRepository(database))
	handlers.SetDropoffRepo(repo.NewPostgresDropoffRepository(database))
	handlers.SetMetricsRepo(metricsRepo)

	handlers.SetMailer(mailer)
	handlers.SetRefreshStore(auth.NewRedisRefreshStore(rdb, context.Background()))
	handlers.SetVectorStore(search.NewVectorStore(rdb, context.Background(), search.DefaultDims))
	handlers.SetLimits(handlers.Limits{
		MinItemWeightKg:       cfg.MinItemWeightKg,
		MaxItemWeightKg:       cfg.MaxItemWeightKg,
		MaxUploadSizeMB:       cfg.MaxUploadSizeMB,
		NearbyDefaultRadiusKm: cfg.NearbyDefaultRadiusKm,
	})

	if cfg.S3Bucket != "" {
		store, err := media.NewStore(ctx, media.StoreConfig{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatalf("could not set up media storage: %v", err)
		}
		handlers.SetMediaStore(store)
	}

	hub := ws.NewHub()
	hub.AttachRedis(rdb, context.Background())
	handlers.SetHub(hub)

	runner := bootstrap.NewRunner()
	runner.Add("wait-database", func(ctx context.Context) error {
		return db.WaitUntilReady(ctx, database, time.Second)
	})
	runner.Add("migrate", func(ctx context.Context) error {
		return db.MigrateUp(database)
	})
	runner.Add("collect-static", func(ctx context.Context) error {
		n, err := bootstrap.CollectStatic(cfg.StaticRoot)
		if err != nil {
			return err
		}
		log.Printf("collected %d static files into %s", n, cfg.StaticRoot)
		return nil
	})
	runner.Add("ensure-admin", func(ctx context.Context) error {
		return bootstrap.EnsureAdmin(userRepo, cfg.AdminEmail, cfg.AdminPassword)
	})
	if err := runner.Run(ctx); err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	scheduler := jobs.NewScheduler(tokenRepo, userRepo, collectionRepo, metricsRepo, mailer)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("could not start background jobs: %v", err)
	}
	defer scheduler.Stop()

	go rl.StartVisitorCleanupLoop()

	router := gbhttp.NewRouter(gbhttp.RouterConfig{
		MetricsEnabled: cfg.MetricsEnabled,
		StaticRoot:     cfg.StaticRoot,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("server running on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
