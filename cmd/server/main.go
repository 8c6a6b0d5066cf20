package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"Yatube/internal/api/middleware"
	"Yatube/internal/api/routes"
	"Yatube/internal/config"
	"Yatube/internal/core/follows"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/listing"
	"Yatube/internal/core/pagecache"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/uploads"
	"Yatube/internal/core/users"
	"Yatube/internal/db/migrations"
	postgresRepo "Yatube/internal/db/postgres"
	"Yatube/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	db, err := postgresRepo.Open(context.Background(), cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() { _ = db.Close() }()

	logger.Info("connected to database", "driver", cfg.Database.Driver)

	if err := migrations.Up(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	logger.Info("migrations completed successfully")

	// Initialize repositories and services
	userRepo := postgresRepo.NewUserRepository(db)
	userService := users.NewUserService(userRepo)

	groupRepo := postgresRepo.NewGroupRepository(db)
	groupService := groups.NewGroupService(groupRepo, logger)

	imageStore, err := uploads.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes, logger)
	if err != nil {
		log.Fatal("Failed to prepare upload directory:", err)
	}

	postRepo := postgresRepo.NewPostRepository(db)
	postService := posts.NewPostService(postRepo, groupService, imageStore, logger)

	followRepo := postgresRepo.NewFollowRepository(db)
	followService := follows.NewFollowService(followRepo, userService, logger)

	listingRepo := postgresRepo.NewListingRepository(db)
	listingService := listing.NewListingService(listingRepo, groupService, userService, followService)

	responseCache := pagecache.New(cfg.Cache.MaxEntries, logger)

	templates, err := web.NewTemplates()
	if err != nil {
		log.Fatal("Failed to load web templates:", err)
	}
	pages := web.NewHandlers(templates, logger)

	sessions := middleware.NewSessionAuth([]byte(cfg.Server.SessionSecret), cfg.Server.SecureCookies, userService)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	r := routes.NewRouter(routes.Deps{
		Users:     userService,
		Groups:    groupService,
		Posts:     postService,
		Follows:   followService,
		Listing:   listingService,
		Sessions:  sessions,
		Cache:     responseCache,
		Pages:     pages,
		Logger:    logger,
		UploadDir: imageStore.Root(),
		OpsToken:  cfg.Server.OpsToken,
		IndexTTL:  cfg.Cache.IndexTTL,
		MaxUpload: cfg.Uploads.MaxBytes,
	},
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
		chiMiddleware.Logger,
		chiMiddleware.Recoverer,
		rateLimiter.Middleware,
	)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// SIGHUP flushes the response cache; SIGINT/SIGTERM shut down
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-hup:
			responseCache.Clear()
			logger.Info("response cache flushed on SIGHUP")
		case <-stop:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown failed", "error", err)
			}
			logger.Info("server stopped")
			return
		}
	}
}
