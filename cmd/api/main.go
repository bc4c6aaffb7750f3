package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/images"
	"storefront/internal/metrics"
	"storefront/internal/migrate"
	memberrepo "storefront/internal/repository/member"
	productrepo "storefront/internal/repository/product"
	purchaserepo "storefront/internal/repository/purchase"
	"storefront/internal/repository/slot"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	checkoutsvc "storefront/internal/service/checkout"
	profilesvc "storefront/internal/service/profile"
	sessionsvc "storefront/internal/service/session"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	if cfg.MigrateOnStart {
		version, err := migrate.Apply(ctx, dbpool)
		if err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
		logger.Printf("migrations applied version=%d", version)
	}

	slotOpts := slot.Options{Pool: dbpool, SQLitePath: cfg.SlotSQLitePath}
	if cfg.SlotDriver == slot.DriverRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		slotOpts.Redis = redisClient
	}
	slots, err := slot.Open(cfg.SlotDriver, slotOpts)
	if err != nil {
		logger.Fatalf("open slot store: %v", err)
	}
	if closer, ok := slots.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	imageStore, err := images.Open(ctx, images.Options{
		Driver:      images.Driver(cfg.ImageDriver),
		Dir:         cfg.ImageDir,
		S3Bucket:    cfg.ImageS3Bucket,
		S3Region:    cfg.ImageS3Region,
		S3Endpoint:  cfg.ImageS3Endpoint,
		S3PathStyle: cfg.ImageS3PathStyle,
	})
	if err != nil {
		logger.Fatalf("open image store: %v", err)
	}
	logger.Printf("image store driver=%s", imageStore.Driver())

	catalog, err := catalogsvc.Load(ctx, productrepo.NewPostgres(dbpool, logger))
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}
	if catalog.Len() == 0 {
		logger.Printf("catalog is empty, run cmd/seed or cmd/importer")
	}

	recorder := metrics.NewPrometheus()
	purchaseRepo := purchaserepo.NewPostgres(dbpool, logger)
	sessionService := sessionsvc.New(memberrepo.NewPostgres(dbpool, logger), slots, imageStore, logger, recorder)
	profileLoader := profilesvc.NewLoader(sessionService, imageStore, logger)
	cart := cartsvc.New()
	checkout := checkoutsvc.New(cart, purchaseRepo, logger, recorder)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Session:     sessionService,
		Profile:     profileLoader,
		Catalog:     catalog,
		Purchases:   purchaseRepo,
		Assets:      images.NewAssets(cfg.AssetDir),
		Cart:        cart,
		Checkout:    checkout,
		Metrics:     recorder.Handler(),
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	if account, ok, err := sessionService.Current(ctx); err != nil {
		logger.Printf("read current account: %v", err)
	} else if ok {
		logger.Printf("resuming session account=%s", account)
		profileLoader.Refresh(ctx)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
