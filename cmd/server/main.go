package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nadmax/taskboard/internal/api"
	"github.com/nadmax/taskboard/internal/loader"
	"github.com/nadmax/taskboard/internal/middleware"
	"github.com/nadmax/taskboard/internal/source"
	"github.com/nadmax/taskboard/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const refreshAfter = 2 * time.Second

func main() {
	sourceURL := os.Getenv("SOURCE_URL")
	if sourceURL == "" {
		sourceURL = "http://localhost:9000/tasks.json"
	}

	seedKey := os.Getenv("SEED_KEY")
	if seedKey == "" {
		seedKey = "taskboard:seed"
	}

	var src source.Source
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisSource, err := source.NewRedisSource(redisAddr, seedKey)
		if err != nil {
			log.Fatal(err)
		}

		defer func() {
			if err := redisSource.Close(); err != nil {
				log.Printf("failed to close Redis source: %v", err)
			}
		}()

		src = redisSource
		log.Printf("Seeding from Redis at %s (key %s)", redisAddr, seedKey)
	} else {
		src = source.NewHTTPSource(sourceURL)
		log.Printf("Seeding from %s", sourceURL)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	taskStore := store.NewTaskStore()
	loader.New(src, taskStore).Start(ctx, refreshAfter)

	go startMetricsCollector(ctx, taskStore)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", middleware.MetricsMiddleware(api.NewAPI(taskStore)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("failed to shut down server: %v", err)
	}
}
