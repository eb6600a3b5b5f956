package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/openfrosh/scunt/internal/database"
	"github.com/openfrosh/scunt/internal/logging"
	"github.com/openfrosh/scunt/internal/server"
)

func main() {
	// Missing .env is fine, env vars may come from the environment directly.
	godotenv.Load()

	port := os.Getenv("SCUNT_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("SCUNT_DB_PATH")
	if dbPath == "" {
		dbPath = "scunt.db"
	}

	jwtSecret := os.Getenv("SCUNT_JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("SCUNT_JWT_SECRET is required")
	}

	logger := logging.Setup(os.Getenv("SCUNT_LOG_LEVEL"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := server.New(db, []byte(jwtSecret), logger)

	// Periodically drop stale rate limiter buckets.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Scunt running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
