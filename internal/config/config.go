package config

import (
	"log"
	"os"
	"strconv"

	"ai-docchat-be/internal/constant"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
	TaskTopic    string // Indexing task nudge topic (in-process bus)
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", etc
	LLMModel          string // e.g. "llama3", "qwen2.5"
}

type RagConfig struct {
	ChunkSize           int
	ChunkOverlap        int
	EmbeddingCharBudget int
	SyncBatchSize       int
	SyncIntervalSeconds int
	IndexProfileName    string // Profile the context assembler resolves at chat time
	DefaultTopN         int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			TaskTopic:    getEnv("INDEXING_TASK_TOPIC_NAME", "INDEXING_TASK_APPENDED"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Rag: RagConfig{
			ChunkSize:           getEnvAsInt("RAG_CHUNK_SIZE", constant.DefaultChunkSize),
			ChunkOverlap:        getEnvAsInt("RAG_CHUNK_OVERLAP", constant.DefaultChunkOverlap),
			EmbeddingCharBudget: getEnvAsInt("RAG_EMBEDDING_CHAR_BUDGET", constant.DefaultEmbeddingCharBudget),
			SyncBatchSize:       getEnvAsInt("RAG_SYNC_BATCH_SIZE", constant.DefaultSyncBatchSize),
			SyncIntervalSeconds: getEnvAsInt("RAG_SYNC_INTERVAL_SECONDS", 30),
			IndexProfileName:    getEnv("RAG_INDEX_PROFILE_NAME", "interaction-documents-default"),
			DefaultTopN:         getEnvAsInt("RAG_DEFAULT_TOP_N", constant.DefaultTopN),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
