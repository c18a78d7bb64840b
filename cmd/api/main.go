package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/basabecode/tupijama.com-sub001/api/controllers"
	"github.com/basabecode/tupijama.com-sub001/api/routes"
	internalauth "github.com/basabecode/tupijama.com-sub001/internal/auth"
	"github.com/basabecode/tupijama.com-sub001/internal/orders"
	"github.com/basabecode/tupijama.com-sub001/internal/products"
	internalstorage "github.com/basabecode/tupijama.com-sub001/internal/storage"
	"github.com/basabecode/tupijama.com-sub001/pkg/auth/session"
	"github.com/basabecode/tupijama.com-sub001/pkg/config"
	"github.com/basabecode/tupijama.com-sub001/pkg/db"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
	"github.com/basabecode/tupijama.com-sub001/pkg/metrics"
	"github.com/basabecode/tupijama.com-sub001/pkg/migrate"
	"github.com/basabecode/tupijama.com-sub001/pkg/redis"
	"github.com/basabecode/tupijama.com-sub001/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "tupijama-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "fatal", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { _ = dbClient.Close() }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	// The storage tier needs service credentials. Without them the API
	// still serves everything else; admin storage calls fail at request
	// time instead of blocking startup.
	var gcsClient *gcs.Client
	var storageSvc *internalstorage.Service
	if cfg.GCP.HasServiceCredentials() {
		gcsClient, err = gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			return err
		}
		defer func() { _ = gcsClient.Close() }()
		storageSvc = internalstorage.NewService(gcsClient, cfg.Storage.MaxUploadMB, logg)
	} else {
		logg.Warn(ctx, "no service credentials configured, storage endpoints disabled")
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	productsSvc := products.NewService(products.NewRepository(dbClient.DB()))
	authSvc := internalauth.NewService(
		internalauth.NewUserRepository(dbClient.DB()),
		sessions,
		cfg.JWT,
		logg,
	)

	health := controllers.NewHealthController(logg)
	health.Register("postgres", dbClient)
	health.Register("redis", redisClient)
	if gcsClient != nil {
		health.Register("gcs", gcsClient)
	}

	handler := routes.New(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Sessions: sessions,
		Metrics:  metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Health:   health,
		Auth:     controllers.NewAuthController(authSvc, logg),
		Orders:   controllers.NewOrdersController(ordersRepo, logg),
		Products: controllers.NewProductsController(productsSvc, logg),
		Storage:  controllers.NewStorageController(storageSvc, logg),
		Pages:    controllers.NewPagesController(logg),
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", server.Addr), "listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
