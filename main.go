package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/middleware"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/routes"
	"github.com/TheSiteshKumar/parlegg/services"
	"github.com/TheSiteshKumar/parlegg/utils"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	// Load .env if present (do not overwrite already-set environment variables).
	// Always attempt to load so DB_HOST, DB_NAME, etc are available when running locally.
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	// Validate required environment variables
	requiredEnvVars := []string{"DB_HOST", "DB_USER", "DB_PASS", "DB_NAME", "JWT_SECRET"}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	// Connect to the database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto-migrate only in development to avoid accidental production schema changes
	if strings.ToLower(os.Getenv("ENV")) == "development" {
		log.Println("Running in development mode - performing auto-migration")
		if err := database.RunMigrationsWithBackup(db,
			&models.Admin{},
			&models.RefreshToken{},
			&models.User{},
			&models.Plan{},
			&models.Investment{},
			&models.EarningCredit{},
			&models.PlanPurchase{},
			&models.WalletBalance{},
			&models.BankDetail{},
			&models.Withdrawal{},
			&models.AddFundRequest{},
			&models.Referral{},
			&models.ReferralReward{},
			&models.Transaction{},
			&models.Setting{},
		); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		log.Println("Auto-migration completed successfully")
	} else {
		log.Println("Running in production mode - skipping auto-migration")
	}

	if err := seedPlans(db); err != nil {
		log.Fatalf("failed to seed plan catalog: %v", err)
	}

	// Optional in-process accrual sweep. When ACCRUAL_INTERVAL_MINUTES
	// is unset the cron endpoint is the only trigger.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()
	if raw := os.Getenv("ACCRUAL_INTERVAL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			log.Fatalf("invalid ACCRUAL_INTERVAL_MINUTES: %q", raw)
		}
		wallets := services.NewWalletService(db)
		calc := services.NewEarningsCalculator(utils.SiteLocation())
		accrual := services.NewAccrualService(db, calc, wallets)
		accrual.Start(rootCtx, time.Duration(minutes)*time.Minute)
		log.Printf("[accrual] background sweep enabled, every %d minutes", minutes)
	}

	// Initialize router
	router := routes.InitRouter()

	// Wrap router with global middleware in recommended order
	// Logging -> Security headers / CORS -> Request ID -> Max Body -> Timeout -> Recovery -> Metrics -> Suspicious Activity
	handler := middleware.RequestLogMiddleware(
		middleware.SecurityHeadersMiddleware(
			middleware.RequestIDMiddleware(
				middleware.MaxBodyMiddleware(
					middleware.TimeoutMiddleware(
						middleware.RecoveryMiddleware(
							middleware.MetricsMiddleware(
								middleware.SuspiciousActivityMiddleware(router),
							),
						),
					),
				),
			),
		),
	)

	// Create HTTP server with production-ready configuration
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	rootCancel()

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// seedPlans inserts the standard catalog. Existing rows are left
// untouched so admin edits survive restarts.
func seedPlans(db *gorm.DB) error {
	plans := []models.Plan{
		{Level: "600", Name: "Starter", Amount: 600, DailyReturns: 27, Duration: 45, TotalReturns: 1215, PurchaseLimit: 1, Status: "Active"},
		{Level: "3800", Name: "Silver", Amount: 3800, DailyReturns: 174, Duration: 45, TotalReturns: 7830, PurchaseLimit: 3, Status: "Active"},
		{Level: "9600", Name: "Gold", Amount: 9600, DailyReturns: 450, Duration: 45, TotalReturns: 20250, PurchaseLimit: 3, Status: "Active"},
		{Level: "20800", Name: "Platinum", Amount: 20800, DailyReturns: 987, Duration: 45, TotalReturns: 44415, PurchaseLimit: 0, Status: "Active"},
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "level"}},
		DoNothing: true,
	}).Create(&plans).Error
}
