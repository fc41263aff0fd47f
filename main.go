package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"eco-rewards-system/handlers"
	"eco-rewards-system/middleware"
	"eco-rewards-system/models"
	"eco-rewards-system/services"
	"eco-rewards-system/utils"
	"eco-rewards-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// currentSchemaVersion is bumped on breaking persisted-layout changes; the
// boot-time check runs migrations instead of forcing a clean slate.
const currentSchemaVersion = 1

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // photos arrive as base64 data URIs
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Name, X-User-Email, X-Partner-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if utils.R2Enabled() {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
	} else {
		log.Println("⚠️  R2 not configured, storing photos under ./uploads")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.EcoUser{},
		&models.Submission{},
		&models.UserBadge{},
		&models.SchemaMeta{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := ensureSchemaVersion(db); err != nil {
		log.Fatal("failed to reconcile schema version:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	aiServiceURL := os.Getenv("AI_SERVICE_URL")
	if aiServiceURL == "" {
		log.Fatal("AI_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("ECO_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("ECO_SERVICE_TOKEN environment variable not set")
	}

	aiClient := services.NewImpactServiceClient(aiServiceURL, serviceToken)
	ledgerService := services.NewLedgerService(db, aiClient)
	badgeService := services.NewBadgeService(db)
	leaderboardService := services.NewLeaderboardService(db)

	if err := leaderboardService.SeedSyntheticUsers(); err != nil {
		log.Fatal("failed to seed leaderboard:", err)
	}

	syncServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if syncServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}

	syncWorker := workers.NewProfileSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", serviceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go workers.PollLeaderboard(ctx, leaderboardService, 5*time.Second)

	go func() {
		log.Println("Starting Profile Sync Worker...")
		syncWorker.Start(ctx)
	}()

	ledgerService.StartDeliveryScheduler()

	handlers.SetupLedgerRoutes(app, ledgerService, badgeService, aiClient)
	handlers.SetupMarketRoutes(app, ledgerService, leaderboardService)
	handlers.SetupDeliveryRoutes(app, ledgerService)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Profile Sync Worker running")
	log.Println("✅ Leaderboard ticker running (every 5s)")
	log.Println("✅ Delivery simulation scheduler running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}

func ensureSchemaVersion(db *gorm.DB) error {
	var meta models.SchemaMeta
	err := db.First(&meta, "id = ?", 1).Error
	if err == gorm.ErrRecordNotFound {
		return db.Create(&models.SchemaMeta{ID: 1, Version: currentSchemaVersion}).Error
	}
	if err != nil {
		return err
	}
	if meta.Version < currentSchemaVersion {
		// Migration steps slot in here as the schema evolves
		meta.Version = currentSchemaVersion
		return db.Save(&meta).Error
	}
	return nil
}
