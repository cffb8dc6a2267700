package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"contentos/internal/config"
	"contentos/internal/database"
	"contentos/internal/gateway"
	"contentos/internal/handlers"
	"contentos/internal/health"
	"contentos/internal/imagequeue"
	"contentos/internal/logging"
	"contentos/internal/pins"
	"contentos/internal/project"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting ContentOS Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s)", cfg.Port)

	// Runtime settings with hot reload
	settingsStore, err := config.NewSettingsStore(cfg.SettingsPath)
	if err != nil {
		log.Fatalf("❌ Failed to load settings: %v", err)
	}
	defer settingsStore.Close()
	settingsStore.OnChange(func(s config.Settings) {
		log.Printf("🔄 Settings applied (useAI=%v, imageGeneration=%v)", s.UseAI, s.ImageGeneration)
	})

	// Local fallback store is mandatory; the system runs fully offline on it.
	localStore, err := database.NewLocalStore(cfg.LocalStorePath)
	if err != nil {
		log.Fatalf("❌ Failed to open local store: %v", err)
	}
	defer localStore.Close()

	// MongoDB is optional. A failed connection at startup is a degraded
	// start, not a fatal one; the gateways re-probe per operation.
	var mongoDB *database.MongoDB
	if cfg.MongoURI != "" {
		log.Println("🔗 Connecting to MongoDB...")
		mongoDB, err = database.NewMongoDB(cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Printf("⚠️ MongoDB unavailable, running on local storage: %v", err)
		} else {
			defer mongoDB.Close(context.Background())
			initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			if err := mongoDB.Initialize(initCtx); err != nil {
				log.Printf("⚠️ Failed to initialize MongoDB indexes: %v", err)
			}
			cancel()
		}
	} else {
		log.Println("⚠️ MONGODB_URI not set - documents persist to local storage only")
	}

	probeTimeout := time.Duration(cfg.ProbeTimeoutSeconds) * time.Second

	// Gateways
	gateway.InitMetrics()
	docStore := gateway.NewDocStore(mongoDB, localStore, probeTimeout)
	objectStore, err := gateway.NewObjectStore(gateway.ObjectStoreConfig{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	}, localStore, probeTimeout)
	if err != nil {
		log.Fatalf("❌ Failed to configure object storage: %v", err)
	}
	aiGateway := gateway.NewAIGateway(settingsStore.Current)

	// Services
	projectService := project.NewService(docStore)
	pinRegistry := pins.NewRegistry(docStore)
	imageQueue := imagequeue.NewQueue(aiGateway)
	healthService := health.NewService(
		health.NewAIProber(aiGateway),
		health.NewStoreProber(health.ServiceDatabase, docStore),
		health.NewStoreProber(health.ServiceObjects, objectStore),
	)

	// Periodic health refresh keeps the dashboard snapshot warm
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		log.Fatalf("❌ Failed to create scheduler: %v", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(30*time.Second),
		gocron.NewTask(func() { healthService.Refresh() }),
		gocron.WithName("health_refresh"),
	); err != nil {
		log.Fatalf("❌ Failed to register health refresh job: %v", err)
	}
	scheduler.Start()
	defer func() { _ = scheduler.Shutdown() }()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName:   "ContentOS",
		BodyLimit: 25 * 1024 * 1024, // multipart image uploads
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	prometheus := fiberprometheus.New("contentos")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	handlers.RegisterRoutes(app, &handlers.Handlers{
		Projects: handlers.NewProjectHandler(projectService),
		Pins:     handlers.NewPinHandler(pinRegistry),
		Generate: handlers.NewGenerateHandler(aiGateway, imageQueue),
		Assets:   handlers.NewAssetHandler(objectStore),
		Ingest:   handlers.NewIngestHandler(projectService),
		Settings: handlers.NewSettingsHandler(settingsStore),
		Profile:  handlers.NewProfileHandler(docStore),
		Health:   handlers.NewHealthHandler(healthService),
	})

	// Graceful shutdown
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("🛑 Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Shutdown error: %v", err)
		}
	}()

	log.Printf("🌐 Listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}

	log.Println("👋 Server stopped")
}
