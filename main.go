package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/WatermalonExp/student-ai-portal/shared/utils"
	v1 "github.com/WatermalonExp/student-ai-portal/v1"
	"github.com/WatermalonExp/student-ai-portal/v1/catalog"
	v1handlers "github.com/WatermalonExp/student-ai-portal/v1/handlers"
	v1middleware "github.com/WatermalonExp/student-ai-portal/v1/middleware"
	"github.com/WatermalonExp/student-ai-portal/v1/services"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load .env file if it exists (optional - fails silently if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	slog.SetDefault(logger)

	slog.Info("Starting Admissions Portal initialization")

	// Initialize GORM database connection for V1
	dbConfig := v1.NewDatabaseConfig()
	gormDB, err := v1.ConnectGormDB(dbConfig)
	if err != nil {
		slog.Error("Failed to connect to GORM database", "error", err)
		os.Exit(1)
	}

	// Reviewer capability comes from deployment config, never from user data
	reviewerEmails := strings.Split(utils.GetEnvOrDefault("REVIEWER_EMAILS", ""), ",")

	programmeCatalog := catalog.Default()
	fileStore := services.NewLocalFileStore(utils.GetEnvOrDefault("UPLOAD_ROOT", "uploads"))

	authService := services.NewAuthService(gormDB, reviewerEmails)
	documentService := services.NewDocumentService(gormDB, fileStore)
	decisionService := services.NewDecisionService(gormDB)
	applicationService := services.NewApplicationService(
		gormDB, programmeCatalog, documentService, decisionService, fileStore, authService)
	assistant := services.NewOllamaAssistant(utils.GetEnvOrDefault("ASSISTANT_MODEL", "llama3"))
	chatService := services.NewChatService(applicationService, programmeCatalog, assistant)

	v1Handler := v1handlers.NewV1Handler(applicationService, authService, chatService, programmeCatalog)

	// Create a mux for the authenticated API routes
	apiMux := http.NewServeMux()
	v1Handler.SetupV1Routes(apiMux)

	// Setup middleware chain (CORS -> Auth -> Metrics) for the API mux ONLY
	corsMiddleware := v1middleware.NewCORSMiddleware()
	authMiddleware := v1middleware.NewAuthMiddleware(authService)
	protectedAPIHandler := corsMiddleware(
		authMiddleware.Authenticate(
			v1middleware.MetricsMiddleware(apiMux),
		),
	)

	// Create the MAIN (top-level) mux for all incoming traffic
	topLevelMux := http.NewServeMux()

	// Public routes bypass authentication
	publicMux := http.NewServeMux()
	v1Handler.SetupPublicRoutes(publicMux)
	topLevelMux.Handle("/api/v1/auth/", corsMiddleware(publicMux))
	topLevelMux.Handle("/api/v1/programmes", corsMiddleware(publicMux))

	topLevelMux.Handle("/health", utils.PanicRecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type DBHealth struct {
			Status   string `json:"status"`
			Error    string `json:"error,omitempty"`
			Database string `json:"database,omitempty"`
		}
		type HealthStatus struct {
			Status    string              `json:"status"`
			Service   string              `json:"service"`
			Databases map[string]DBHealth `json:"databases"`
		}

		status := HealthStatus{
			Status:  "healthy",
			Service: "student-ai-portal",
			Databases: map[string]DBHealth{
				"v1": {Status: "unknown"},
			},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		sqlDB, err := gormDB.DB()
		if err != nil {
			status.Databases["v1"] = DBHealth{Status: "unhealthy", Error: err.Error()}
			status.Status = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			status.Databases["v1"] = DBHealth{Status: "unhealthy", Error: err.Error()}
			status.Status = "unhealthy"
		} else {
			status.Databases["v1"] = DBHealth{Status: "healthy", Database: dbConfig.Database}
		}

		statusCode := http.StatusOK
		if status.Status != "healthy" {
			statusCode = http.StatusServiceUnavailable
		}

		utils.RespondWithJSON(w, statusCode, status)
	})))

	topLevelMux.Handle("/metrics", promhttp.Handler())

	// Register the protected API routes to the top-level mux
	topLevelMux.Handle("/api/v1/", protectedAPIHandler)

	// Start server
	port := utils.GetEnvOrDefault("PORT", "3000")
	addr := ":" + port
	server := &http.Server{
		Addr:         addr,
		Handler:      topLevelMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Admissions Portal starting", "port", port, "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Failed to start Admissions Portal", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down Admissions Portal...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Gracefully close database connection
	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}

	slog.Info("Admissions Portal stopped")
}
