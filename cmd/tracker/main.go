package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mwalton/price-tracker/internal/api"
	"github.com/mwalton/price-tracker/internal/config"
	"github.com/mwalton/price-tracker/internal/database"
	"github.com/mwalton/price-tracker/internal/extract"
	"github.com/mwalton/price-tracker/internal/notify"
	"github.com/mwalton/price-tracker/internal/scheduler"
	"github.com/mwalton/price-tracker/internal/tracker"
)

func main() {
	log.Println("Starting price tracker...")

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	extractor := extract.NewHTTPClient(cfg.Extractor.BaseURL, cfg.Extractor.APIKey)
	svc := tracker.New(db, extractor)

	notifiers := []notify.Notifier{notify.NewConsole(os.Stdout)}

	var producer *notify.Producer
	if cfg.Kafka.Enabled {
		producer = notify.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		notifiers = append(notifiers, producer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(svc, notify.NewFanout(notifiers...), scheduler.Config{
		Recurring: cfg.Scheduler.Enabled,
		Interval:  cfg.Scheduler.Interval,
		SeedURLs:  cfg.Scheduler.SeedURLs,
	})

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Run(ctx)
	}()

	handler := api.NewHandler(svc, producer)
	srv := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: api.SetupRoutes(handler),
	}

	go func() {
		log.Printf("Server started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	wg.Wait()
	log.Println("Shutdown complete")
}
