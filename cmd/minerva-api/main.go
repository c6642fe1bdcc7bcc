package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/acampora/minerva/internal/adapters/http"
	"github.com/acampora/minerva/internal/adapters/llm"
	"github.com/acampora/minerva/internal/adapters/retriever"
	firestorestore "github.com/acampora/minerva/internal/adapters/storage/firestore"
	memstore "github.com/acampora/minerva/internal/adapters/storage/memory"
	"github.com/acampora/minerva/internal/app/chat"
	"github.com/acampora/minerva/internal/app/contextbuild"
	"github.com/acampora/minerva/internal/config"
	"github.com/acampora/minerva/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Completion backend
	var completion domain.CompletionClient
	var err error

	switch cfg.LLMBackend {
	case config.BackendMock:
		log.Println("[LLM] Using mock completion client")
		completion = llm.NewMockClient()
	case config.BackendVertex:
		log.Printf("[LLM] Using Vertex completion client (project=%s)", cfg.GCPProjectID)
		completion, err = llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName, cfg.Temperature)
		if err != nil {
			log.Fatalf("error initializing Vertex client: %v", err)
		}
	default:
		log.Printf("[LLM] Using OpenAI-compatible completion client (model=%s)", cfg.ModelName)
		completion, err = llm.NewOpenAIClient(cfg.GroqAPIKey, cfg.CompletionBaseURL, cfg.ModelName, cfg.Temperature)
		if err != nil {
			log.Fatalf("error initializing completion client: %v", err)
		}
	}

	// Storage: Firestore or Memory
	var store domain.TurnStore
	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore turn store (project=%s)", cfg.GCPProjectID)
		store, err = firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
	default:
		log.Println("[STORE] Using in-memory turn store")
		store = memstore.NewTurnStore()
	}

	// Context strategy: fixed window or retrieval-augmented
	var strategy contextbuild.Strategy
	var indexer domain.MemoryIndexer

	switch cfg.ContextStrategy {
	case config.StrategyRetrieval:
		log.Printf("[CONTEXT] Using retrieval-augmented context (weaviate=%s)", cfg.WeaviateHost)
		wv, err := retriever.NewWeaviateRetriever(cfg.WeaviateHost, cfg.WeaviateScheme, cfg.WeaviateClass)
		if err != nil {
			log.Fatalf("error initializing Weaviate retriever: %v", err)
		}
		strategy = contextbuild.RetrievalStrategy{
			Retriever:     wv,
			TopK:          cfg.RetrieverTopK,
			FilterPhrases: cfg.FilterPhrases,
		}
		indexer = wv
	default:
		log.Printf("[CONTEXT] Using fixed-window context (max_turns=%d)", cfg.ContextMaxTurns)
		strategy = contextbuild.WindowStrategy{
			MaxTurns:     cfg.ContextMaxTurns,
			SystemPrompt: llm.SystemPrompt,
		}
	}

	svc := chat.NewService(store, completion, strategy, indexer)
	handler := httpadapter.NewServer(svc)

	addr := ":" + cfg.Port
	log.Println("Minerva API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
