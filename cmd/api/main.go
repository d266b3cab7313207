package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fernweh-labs/unseen/internal/adapters/gemini"
	"github.com/fernweh-labs/unseen/internal/adapters/googleplaces"
	"github.com/fernweh-labs/unseen/internal/adapters/rest"
	"github.com/fernweh-labs/unseen/internal/adapters/sqlite"
	"github.com/fernweh-labs/unseen/internal/core/services"
)

func main() {
	// 1. Configuration (Environment Variables)
	// A .env file is optional; real env vars win either way.
	_ = godotenv.Load()

	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if mapsKey == "" || geminiKey == "" {
		log.Fatal("FATAL: GOOGLE_MAPS_API_KEY and GEMINI_API_KEY environment variables are required")
	}

	dbPath := os.Getenv("UNSEEN_DB")
	if dbPath == "" {
		dbPath = "unseen.db"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Snapshot Store
	store, err := sqlite.NewStore(dbPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer store.Close()

	// -- Google Maps Adapter
	places := googleplaces.NewClient(nil, "", mapsKey)

	// -- Gemini Adapter (reasoning and generation collaborator)
	llm, err := gemini.NewClient(context.Background(), geminiKey, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize gemini client: %v", err)
	}

	// 3. Initialize Core Logic (The Driver)
	// We inject the specific adapters into the agnostic service.
	svc := services.NewOrchestrator(places, llm, llm, store, services.Config{
		Tone: os.Getenv("UNSEEN_TONE"),
	})

	// 4. Initialize "Driving" Adapter (The Interface)
	handler := rest.NewHandler(svc, store)

	// 5. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("🧭 Unseen API is running on http://localhost:%s", port)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
