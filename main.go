// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"devflux/api/database"
	"devflux/api/handlers"
	"devflux/api/middleware"
	"devflux/api/store"
	"devflux/api/utils"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL Database (sessions, feedback, audit leads) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse Database (behavioral events) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	visitorStore := store.NewVisitorStore(dbClient.DB)
	eventStore := store.NewEventStore(chClient)

	// --- Initialize Handlers ---
	analyticsHandlers := handlers.NewAnalyticsHandlers(visitorStore, eventStore)
	leadHandlers := handlers.NewLeadHandlers(visitorStore)
	dashboardHandlers := handlers.NewDashboardHandlers(visitorStore, eventStore)
	downloadHandlers := handlers.NewDownloadHandlers()

	utils.UseJSONFieldNames()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Ingestion endpoints, called by the site's instrumentation.
		// Fire-and-forget from the browser: never block, never retry.
		api.POST("/analytics/session", analyticsHandlers.CreateSession)
		api.POST("/analytics/session/end", analyticsHandlers.EndSession)
		api.POST("/analytics/event", analyticsHandlers.TrackEvent)
		api.POST("/feedback", leadHandlers.CreateFeedback)
		api.POST("/audit-requests", leadHandlers.CreateAuditRequest)

		api.GET("/download/:token", downloadHandlers.Download)

		// Operator dashboard, guarded by the shared query secret.
		dashboard := api.Group("/dashboard")
		dashboard.Use(middleware.DashboardSecret())
		{
			dashboard.GET("/stats", dashboardHandlers.Stats)
			dashboard.GET("/sessions", dashboardHandlers.Sessions)
			dashboard.GET("/events", dashboardHandlers.Events)
			dashboard.GET("/feedback", dashboardHandlers.Feedback)
			dashboard.GET("/audits", dashboardHandlers.Audits)
			dashboard.GET("/export/:type", dashboardHandlers.Export)
			dashboard.GET("/download-token", downloadHandlers.MintToken)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("devflux API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
