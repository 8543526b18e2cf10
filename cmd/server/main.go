package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/api/handlers"
	"github.com/maheshrc27/postpilot/internal/api/middleware"
	job "github.com/maheshrc27/postpilot/internal/jobs"
	"github.com/maheshrc27/postpilot/internal/queue"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	resolver, err := service.NewMediaResolver(cfg.MediaDir)
	if err != nil {
		log.Fatalf("Failed to prepare media directory: %v", err)
	}

	var mediaStore service.MediaStore
	if cfg.R2.Enabled() {
		mediaStore, err = service.NewR2Store(ctx, cfg.R2)
		if err != nil {
			log.Fatalf("Failed to configure R2: %v", err)
		}
	}

	var credentials service.CredentialService
	switch cfg.CredentialBackend {
	case "keyring":
		credentials = service.NewKeyringCredentialService(cfg.SecretKey)
	default:
		credentials = service.NewEnvCredentialService()
	}

	formatter := service.NewContentFormatter(service.DefaultCharLimits(), nil)
	postQueue := repository.NewPostQueue(nil)
	postService := service.NewPostService(postQueue, formatter, resolver, cfg.Location())
	sentimentService := service.NewSentimentService(service.NewVaderScorer())
	registry := service.NewPublisherRegistry()
	factory := service.NewClientFactory(cfg.Dispatcher.PublishTimeout, mediaStore)

	refreshJob := job.NewCredentialsRefreshJob(credentials, factory, registry)
	refreshJob.Refresh(ctx)

	var (
		db          *sql.DB
		historyRepo repository.PostingHistoryRepository
		recorders   []queue.StatusRecorder
		history     queue.StatusRecorder
		asynqClient *asynq.Client
		asynqServer *asynq.Server
	)

	if cfg.PostgresURI != "" {
		db, err = sql.Open("postgres", cfg.PostgresURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatalf("Database is unreachable: %v", err)
		}

		historyRepo = repository.NewPostingHistoryRepository(db)
		if err := historyRepo.Migrate(ctx); err != nil {
			log.Fatalf("Failed to migrate posting history: %v", err)
		}
		history = queue.NewHistoryRecorder(historyRepo)
	}

	if cfg.RedisURI != "" {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		asynqClient = asynq.NewClient(redisConn)
		recorders = append(recorders, queue.NewStatusNotifier(asynqClient))

		if history != nil {
			asynqServer = asynq.NewServer(redisConn, asynq.Config{
				Concurrency: cfg.Dispatcher.Concurrency,
			})

			mux := asynq.NewServeMux()
			mux.HandleFunc(queue.TaskTypePostStatus, queue.HandlePostStatusTask(history))

			log.Println("Starting the Asynq server...")
			if err := asynqServer.Start(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}
	} else if history != nil {
		recorders = append(recorders, history)
	}

	dispatcher := queue.NewDispatcher(postQueue, registry, queue.Options{
		Interval:       cfg.Dispatcher.Interval,
		PublishTimeout: cfg.Dispatcher.PublishTimeout,
		MaxLateness:    cfg.Dispatcher.MaxLateness,
		Concurrency:    cfg.Dispatcher.Concurrency,
	}, recorders...)

	dispatchCtx, stopDispatcher := context.WithCancel(ctx)
	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		if err := dispatcher.Run(dispatchCtx); err != nil {
			log.Printf("Dispatcher exited: %v", err)
		}
	}()

	// cron jobs
	c := cron.New()
	if err := c.AddFunc(cfg.CredentialRefresh, refreshJob.RefreshClients); err != nil {
		log.Fatalf("Invalid CREDENTIAL_REFRESH schedule: %v", err)
	}
	c.Start()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       3600,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	post := handlers.NewPostHandler(postService, dispatcher)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/month", post.MonthPosts)
	api.Get("/posts/export", post.ExportPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Get("/posts/:id/history", handlers.NewHistoryHandler(postService, historyRepo).PostHistory)
	api.Get("/calendar", post.Calendar)
	api.Post("/dispatch", post.Dispatch)

	analytics := handlers.NewAnalyticsHandler(sentimentService, formatter)
	api.Post("/sentiment", analytics.Sentiment)
	api.Post("/hashtags/optimize", analytics.OptimizeHashtags)
	api.Get("/captions/suggest", analytics.SuggestCaption)

	creds := handlers.NewCredentialsHandler(credentials, refreshJob, registry, formatter)
	api.Put("/credentials/:platform", creds.SaveCredentials)
	api.Get("/platforms", creds.ListPlatforms)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}

	c.Stop()
	stopDispatcher()
	<-dispatcherDone

	if asynqServer != nil {
		asynqServer.Shutdown()
	}
	if asynqClient != nil {
		asynqClient.Close()
	}
	if db != nil {
		closeDB(db)
	}
	log.Println("Server shutdown complete.")
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}
