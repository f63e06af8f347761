package main

import (
	"log"
	"os"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/model"
	"ai-docchat-be/pkg/database"
	pgvadapter "ai-docchat-be/pkg/searchindex/pgvector"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Interaction{},
		&model.Document{},
		&model.DocumentChunk{},
		&model.IndexingTask{},
		&model.IndexProfile{},
		&model.SearchIndex{},
		&model.IndexedChunk{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: seed the default index profile and its backend index
	// so a fresh deployment can index documents without manual inserts.
	log.Println("Step 3: Seeding default index profile...")

	profileName := os.Getenv("RAG_INDEX_PROFILE_NAME")
	if profileName == "" {
		profileName = "interaction-documents-default"
	}
	indexName := os.Getenv("RAG_INDEX_NAME")
	if indexName == "" {
		indexName = "interaction-documents"
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SearchIndex{Name: indexName}).Error; err != nil {
		log.Fatalf("Error: Failed to seed search index: %v", err)
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&model.IndexProfile{
		Name:       profileName,
		Provider:   pgvadapter.ProviderName,
		IndexName:  indexName,
		Type:       constant.IndexTypeInteractionDocuments,
		LastTaskId: constant.WatermarkUnbounded,
	}).Error; err != nil {
		log.Fatalf("Error: Failed to seed index profile: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
