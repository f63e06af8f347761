package main

import (
	"context"
	"log"

	"ai-docchat-be/internal/bootstrap"
	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/server"
	"ai-docchat-be/internal/tracer"
	"ai-docchat-be/pkg/database"
)

func main() {
	// 1. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Configuration
	cfg := config.Load()

	// 3. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Dependency container
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Background synchronizer (nudge-driven plus periodic)
	if err := container.SyncConsumerService.Start(context.Background()); err != nil {
		log.Printf("Background sync consumer error: %v", err)
	}

	// 6. HTTP server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
