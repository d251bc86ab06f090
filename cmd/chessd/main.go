// Package main runs the chess API daemon. Games live in memory; the optional
// move journal is an in-memory SQLite database that ends with the process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessrules/cmd/chessd/cli"
	"chessrules/internal/service"
	"chessrules/internal/storage"
	"chessrules/internal/transport/http"
)

const (
	gracefulShutdownTimeout = time.Second * 5

	rateLimit    = 10
	devRateLimit = 20
)

func main() {
	// Offline engine tools
	if len(os.Args) > 1 && os.Args[1] == "tool" {
		if err := cli.Run(os.Args[2:], os.Stdout); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	var (
		apiHost = flag.String("api-host", "localhost", "API server host")
		apiPort = flag.Int("api-port", 8080, "API server port")
		dev     = flag.Bool("dev", false, "Development mode (relaxed rate limits)")
		journal = flag.Bool("journal", false, "Keep an in-memory move journal served at /games/:id/journal")
		pidPath = flag.String("pid", "", "Optional path to write PID file")
		pidLock = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	)
	flag.Parse()

	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// 1. Journal (optional, memory only)
	var store *storage.Store
	if *journal {
		dsn := storage.MemoryDSN(fmt.Sprintf("chessd_%d", os.Getpid()))
		var err error
		store, err = storage.NewStore(dsn)
		if err != nil {
			log.Fatalf("Failed to initialize journal: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize journal schema: %v", err)
		}
	} else {
		log.Printf("Move journal disabled (use -journal to enable)")
	}

	// 2. Service owns the store from here on and closes it on shutdown
	svc := service.New(store)

	// 3. HTTP app
	limit := rateLimit
	if *dev {
		limit = devRateLimit
	}
	app := http.NewFiberApp(svc, limit)

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Printf("Chess API Server starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		log.Printf("API Version: v1")
		log.Printf("Rate Limit: %d requests/second per IP", limit)
		if store != nil {
			log.Printf("Journal: Enabled (in-memory)")
		}
		log.Printf("API Endpoints: http://%s/api/v1/games", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Releases long-poll waiters and closes the journal
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	log.Println("Server exited")
}
