package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feed-api/avatars"
	"feed-api/handlers"
	"feed-api/initializers"
	"feed-api/middleware"
	"feed-api/pkg/appenv"
	"feed-api/pkg/config"
	"feed-api/pkg/i18n"
	"feed-api/pkg/logger"
	"feed-api/pkg/notify"
	"feed-api/projection"
	"feed-api/repository"
	"feed-api/websocket"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Env); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(db, cfg.MigrationsPath); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()
	if err := initializers.InitDefaults(ctx, db, cfg.ModeratorUserIDs); err != nil {
		logger.Fatal("failed to initialize default data", zap.Error(err))
	}

	avatarResolver, err := newAvatarResolver(ctx, cfg.Avatars)
	if err != nil {
		logger.Fatal("failed to initialize avatars", zap.Error(err))
	}

	activitiesRepo := repository.NewActivitiesRepository(db)
	groupsRepo := repository.NewGroupsRepository(db)
	rolesRepo := repository.NewRolesRepository(db)

	loc := i18n.Catalog(cfg.Catalogs.Translations)
	projector := &projection.Projector{
		Avatars: avatarResolver,
		Labels:  projection.TypeLabels(cfg.Catalogs.TypeLabels),
		Links: projection.LinkBuilder{
			BaseURL:   cfg.API.PublicBaseURL,
			Namespace: cfg.API.Namespace,
			Resource:  "activity",
			UsersURL:  cfg.API.UsersResourceURL,
		},
		Schema: projection.ActivitySchema(cfg.Catalogs.Components, cfg.Catalogs.Visibility),
	}

	hub := websocket.NewHub()
	notifier := &notify.WSNotifier{Hub: hub}

	activitiesHandler := handlers.NewActivitiesHandler(
		activitiesRepo,
		groupsRepo,
		rolesRepo,
		projector,
		cfg.Catalogs,
		loc,
	).WithNotifier(notifier)
	tagTypesHandler := handlers.NewTagTypesHandler(loc, cfg.API.Namespace)

	if cfg.Env == appenv.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware(logger.L()))
	r.Use(metrics.Middleware())
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}
	r.Use(middleware.CORSMiddleware(cfg.CORS, cfg.Env == appenv.Production))
	r.Use(middleware.IdentityMiddleware(cfg.JWTSecret))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimit))

	r.GET("/health", handlers.HealthCheck(db))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	r.GET("/ws", middleware.RequireIdentity(), websocket.ServeWS(hub))

	api := r.Group("/" + cfg.API.Namespace)
	{
		api.GET("/activity", activitiesHandler.GetActivities)
		api.POST("/activity", activitiesHandler.CreateActivity)
		api.OPTIONS("/activity", activitiesHandler.DescribeActivities)
		api.GET("/activity/:id", activitiesHandler.GetActivity)

		api.GET("/types", tagTypesHandler.GetTagTypes)
		api.OPTIONS("/types", tagTypesHandler.DescribeTagTypes)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", string(cfg.Env)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openDB(dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				return db, nil
			}
			db.Close()
		}
		logger.Warn("db connection failed, retrying in 2s", zap.Error(err), zap.Int("attempt", i+1))
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

func runMigrations(db *sql.DB, source string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func newAvatarResolver(ctx context.Context, cfg config.AvatarConfig) (projection.AvatarResolver, error) {
	if !cfg.MinioEnabled() {
		return avatars.TemplateResolver{Template: cfg.URLTemplate}, nil
	}
	clients, err := initializers.InitMinio(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return avatars.MinioResolver{
		Client:        clients.External,
		Bucket:        cfg.Bucket,
		ObjectPattern: cfg.ObjectPattern,
		Expiry:        cfg.Expiry,
	}, nil
}
