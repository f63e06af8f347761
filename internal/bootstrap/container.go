package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/controller"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/chunker"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/events"
	"ai-docchat-be/pkg/indexing"
	"ai-docchat-be/pkg/llm/factory"
	"ai-docchat-be/pkg/lock"
	pkgNats "ai-docchat-be/pkg/nats"
	ragcontext "ai-docchat-be/pkg/rag/context"
	ragsearch "ai-docchat-be/pkg/rag/search"
	"ai-docchat-be/pkg/searchindex"
	pgvadapter "ai-docchat-be/pkg/searchindex/pgvector"
	"ai-docchat-be/pkg/textextract"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	InteractionController controller.IInteractionController
	DocumentController    controller.IDocumentController
	ChatController        controller.IChatController

	// Background services (main.go starts these)
	SyncConsumerService service.ISyncConsumerService

	// Shared infrastructure
	Logger        logger.ILogger
	NatsPublisher *pkgNats.Publisher
	Synchronizer  *indexing.Synchronizer
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus (in-process nudges)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// 3. Embedding provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Keys.GoogleGemini != "" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		// Uploads stay plain text; retrieval is disabled until a provider
		// is configured.
		log.Printf("[WARN] No embedding provider configured, documents will not be embedded")
	}

	// 4. LLM provider
	llmKey := cfg.Keys.HuggingFace
	if cfg.Ai.LLMProvider == "gemini" {
		llmKey = cfg.Keys.GoogleGemini
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		llmKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. NATS (domain events, best-effort)
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 6. Redis (synchronizer lock)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)

	var profileLocker indexing.Locker = indexing.NoopLocker{}
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, falling back to in-process sync locking: %v", err)
	} else {
		profileLocker = lock.NewRedisLock(rdb, 2*time.Minute)
	}

	// 7. Search backends
	registry := searchindex.NewRegistry()
	registry.Register(pgvadapter.ProviderName, pgvadapter.NewAdapter(db))

	// 8. Ingestion pipeline pieces
	extractor := textextract.NewExtractor()
	textChunker := chunker.New(chunker.Options{
		ChunkSize: cfg.Rag.ChunkSize,
		Overlap:   cfg.Rag.ChunkOverlap,
	})
	gate := embedding.NewGate(cfg.Rag.EmbeddingCharBudget)
	settingsCache := memory.NewRetrievalSettingsCache()

	// 9. Retrieval side
	retrievalGateway := service.NewRetrievalGateway(uowFactory, settingsCache)
	searchService := ragsearch.NewService(registry, sysLogger)
	assembler := ragcontext.NewAssembler(
		retrievalGateway,
		retrievalGateway,
		retrievalGateway,
		embeddingProvider,
		searchService,
		sysLogger,
		cfg.Rag.IndexProfileName,
		cfg.Rag.DefaultTopN,
	)

	// 10. Index synchronizer
	indexingGateway := service.NewIndexingGateway(uowFactory)
	synchronizer := indexing.NewSynchronizer(
		registry,
		indexingGateway,
		indexingGateway,
		indexingGateway,
		indexing.NewDocumentIndexBuilder(),
		profileLocker,
		sysLogger,
		indexing.Options{
			TypeTag:      constant.IndexTypeInteractionDocuments,
			RecordType:   constant.RecordTypeInteraction,
			BatchSize:    cfg.Rag.SyncBatchSize,
			MaxPositions: constant.MaxDocumentsPerRecord,
			OnProfileSynced: func(profileName string, lastTaskId int64) {
				if natsPub == nil {
					return
				}
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := natsPub.Publish(ctx, events.NewIndexSynced(profileName, lastTaskId)); err != nil {
					sysLogger.Warn("bootstrap", "failed to publish index synced event", map[string]interface{}{
						"profile": profileName,
						"error":   err.Error(),
					})
				}
			},
		},
	)

	// 11. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.TaskTopic)
	interactionService := service.NewInteractionService(uowFactory, publisherService, natsPub, settingsCache, sysLogger)
	documentService := service.NewDocumentService(
		uowFactory,
		publisherService,
		natsPub,
		extractor,
		textChunker,
		gate,
		embeddingProvider,
		settingsCache,
		sysLogger,
	)
	chatService := service.NewChatService(uowFactory, assembler, llmProvider, sysLogger)
	syncConsumerService := service.NewSyncConsumerService(
		pubSub,
		cfg.Keys.TaskTopic,
		synchronizer,
		cfg.Rag.SyncIntervalSeconds,
		sysLogger,
	)

	// 12. Controllers
	return &Container{
		InteractionController: controller.NewInteractionController(interactionService),
		DocumentController:    controller.NewDocumentController(documentService),
		ChatController:        controller.NewChatController(chatService),
		SyncConsumerService:   syncConsumerService,
		Logger:                sysLogger,
		NatsPublisher:         natsPub,
		Synchronizer:          synchronizer,
	}
}
