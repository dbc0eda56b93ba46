package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"agent-gamification-system/handlers"
	"agent-gamification-system/middleware"
	"agent-gamification-system/models"
	"agent-gamification-system/services"
	"agent-gamification-system/utils"
	"agent-gamification-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Agent{},
		&models.MissionTemplate{},
		&models.MissionSet{},
		&models.MissionSetItem{},
		&models.MissionAssignment{},
		&models.XPEvent{},
		&models.MonthlyRanking{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// One season/day boundary policy for the whole service. The ranking job
	// historically pinned America/New_York while the ledger read server-local
	// time — both now share this calendar.
	tz := os.Getenv("RANKING_TIMEZONE")
	if tz == "" {
		tz = "America/New_York"
	}
	calendar, err := services.NewCalendar(tz)
	if err != nil {
		log.Fatal("failed to load ranking timezone:", err)
	}

	ledgerService := services.NewLedgerService(db, calendar)
	missionService := services.NewMissionService(db, calendar, ledgerService)
	rankingService := services.NewRankingService(db, calendar)

	// --- CONFIGURE CRM profile sync ---
	crmServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if crmServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	crmServiceToken := os.Getenv("CRM_SERVICE_TOKEN")
	if crmServiceToken == "" {
		log.Fatal("CRM_SERVICE_TOKEN environment variable not set")
	}
	// --- END CONFIG ---

	syncWorker := workers.NewAgentSyncWorker(db, crmServiceURL, "/api/v1/public/agents", crmServiceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting Agent Sync Worker...")
		syncWorker.Start(ctx)
	}()

	services.StartSchedulers(missionService, rankingService)

	// ✅ Setup routes — enforced Gateway auth + consistent /s/ prefix
	handlers.SetupXPRoutes(app, ledgerService)
	handlers.SetupMissionRoutes(app, missionService)
	handlers.SetupRankingRoutes(app, rankingService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Agent Sync Worker running")
	log.Println("✅ Mission release sweep + nightly ranking rebuild scheduled")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
