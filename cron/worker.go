package cron

import (
	"context"
	"log"
	"time"

	"savoria/config"
	"savoria/services/catalog"

	"github.com/hibiken/asynq"
)

const TypeCatalogRefresh = "catalog:refresh"

// refreshInterval keeps the snapshot warm slightly ahead of its TTL so
// chat turns rarely pay the rebuild cost inline.
const refreshInterval = 45 * time.Minute

// InitCatalogWorker runs the async worker and its periodic scheduler
// in the background.
func InitCatalogWorker(cache *catalog.Cache) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCatalogRefresh, handleCatalogRefresh(cache))

	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register(
		"@every "+refreshInterval.String(),
		asynq.NewTask(TypeCatalogRefresh, nil),
	); err != nil {
		log.Printf("[CatalogWorker] ❌ Failed to register refresh schedule: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[CatalogWorker] ❌ Scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic.
	go func() {
		log.Println("[CatalogWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[CatalogWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Println("[CatalogWorker] ❗ Max retry attempts reached. Periodic refresh disabled.")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleCatalogRefresh(cache *catalog.Cache) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		snap, err := cache.Refresh(ctx)
		if err != nil {
			log.Printf("[CatalogWorker] 🔴 Catalog refresh failed: %v", err)
			return err
		}
		log.Printf("[CatalogWorker] ♻️ Catalog re-warmed with %d items", len(snap.Items))
		return nil
	}
}
