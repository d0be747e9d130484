package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/auth"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/cache"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/client"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/config"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/handler"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/limiter"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/middleware"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/scheduler"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/search"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/upload"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.BackendURL, cfg.BackendTimeout)
	api.OnCall(middleware.RecordBackendCall)

	// Redis backs sessions, list caching and rate limiting. Without it the
	// app keeps working with in-process sessions and no limits (fail-open).
	var (
		store      auth.Store
		redisCache *cache.RedisCache
		limits     *limiter.Limiter
	)
	rdb, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory sessions", "error", err)
		mem := auth.NewMemoryStore(cfg.SessionTTL)
		mem.Start(ctx, time.Minute)
		store = mem
	} else {
		defer rdb.Close()
		store = auth.NewRedisStore(rdb, cfg.SessionTTL)
		redisCache = cache.NewRedisCache(rdb)
		limits = limiter.NewLimiter(limiter.NewRedisCounter(rdb), limiter.DefaultLimits)
	}

	lists := cache.NewLists(redisCache, api, cfg.ListCacheTTL)
	lists.OnLookup(middleware.RecordListLookup)

	var refresher *scheduler.ListRefresher
	if cfg.ListRefresh > 0 {
		refresher = scheduler.NewListRefresher(lists, cfg.ListRefresh)
		go refresher.Start(ctx)
	}

	views := search.NewRegistry(cfg.SearchViewTTL)
	views.Start(ctx, time.Minute)
	uploads := upload.NewTracker(cfg.UploadTTL)
	uploads.Start(ctx, time.Minute)

	tmpl, err := web.Templates(cfg.StorageURL)
	if err != nil {
		logger.Error("parse templates", "error", err)
		os.Exit(1)
	}

	router := handler.NewRouter(handler.Deps{
		Sessions: &middleware.Sessions{
			Store:  store,
			API:    api,
			Secure: cfg.CookieSecure,
		},
		Views:       views,
		Uploads:     uploads,
		Lists:       lists,
		Limiter:     limits,
		Refresher:   refresher,
		Templates:   tmpl,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Uploads stream both files to the backend before answering.
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
