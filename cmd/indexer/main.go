package main

import (
	"context"
	"log"
	"time"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/database"
	pkgEvents "ai-docchat-be/pkg/events"
	"ai-docchat-be/pkg/indexing"
	"ai-docchat-be/pkg/lock"
	pkgNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/searchindex"
	pgvadapter "ai-docchat-be/pkg/searchindex/pgvector"

	"github.com/redis/go-redis/v9"
)

// Standalone index synchronizer worker. Can run alongside the REST
// process; the per-profile Redis lock keeps the two from writing the
// same backend index concurrently.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer func() { _ = sysLogger.Sync() }()

	registry := searchindex.NewRegistry()
	registry.Register(pgvadapter.ProviderName, pgvadapter.NewAdapter(db))

	var profileLocker indexing.Locker = indexing.NoopLocker{}
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Redis unavailable, running without the cross-process sync lock: %v", err)
	} else {
		profileLocker = lock.NewRedisLock(rdb, 2*time.Minute)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	gateway := service.NewIndexingGateway(uowFactory)

	synchronizer := indexing.NewSynchronizer(
		registry,
		gateway,
		gateway,
		gateway,
		indexing.NewDocumentIndexBuilder(),
		profileLocker,
		sysLogger,
		indexing.Options{
			TypeTag:      constant.IndexTypeInteractionDocuments,
			RecordType:   constant.RecordTypeInteraction,
			BatchSize:    cfg.Rag.SyncBatchSize,
			MaxPositions: constant.MaxDocumentsPerRecord,
		},
	)

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := synchronizer.Run(ctx); err != nil {
			sysLogger.Error("indexer", "synchronization run failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Event-driven runs: any document/interaction change event nudges a
	// synchronization pass.
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] NATS unavailable, indexer will rely on periodic runs only: %v", err)
	} else {
		defer natsSub.Close()
		subjects := map[string]string{
			"events." + pkgEvents.TypeDocumentUploaded:   "indexer-doc-uploaded",
			"events." + pkgEvents.TypeDocumentDeleted:    "indexer-doc-deleted",
			"events." + pkgEvents.TypeInteractionDeleted: "indexer-interaction-deleted",
		}
		for subject, durable := range subjects {
			if err := natsSub.Subscribe(subject, durable, func(ctx context.Context, event pkgEvents.Event) error {
				run()
				return nil
			}); err != nil {
				log.Printf("[WARN] Failed to subscribe to %s: %v", subject, err)
			}
		}
	}

	log.Printf("Indexer running, sync interval %ds", cfg.Rag.SyncIntervalSeconds)
	ticker := time.NewTicker(time.Duration(cfg.Rag.SyncIntervalSeconds) * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		run()
	}
}
