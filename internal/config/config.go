package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type LLMBackend string

const (
	BackendOpenAI LLMBackend = "openai"
	BackendVertex LLMBackend = "vertex"
	BackendMock   LLMBackend = "mock"
)

type ContextStrategy string

const (
	StrategyWindow    ContextStrategy = "window"
	StrategyRetrieval ContextStrategy = "retrieval"
)

type Config struct {
	Port string

	LLMBackend        LLMBackend
	GroqAPIKey        string
	CompletionBaseURL string
	ModelName         string
	Temperature       float32

	GCPProjectID string
	GCPLocation  string

	StorageBackend string // "memory" or "firestore"

	ContextStrategy ContextStrategy
	ContextMaxTurns int // 0 = unlimited

	WeaviateHost   string
	WeaviateScheme string
	WeaviateClass  string
	RetrieverTopK  int
	FilterPhrases  []string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, v)
	}
	return n
}

func getFloatEnv(key string, def float32) float32 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		log.Fatalf("%s must be a number, got %q", key, v)
	}
	return float32(f)
}

func getListEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Load reads all env vars and builds the config.
func Load() *Config {
	cfg := &Config{
		Port: getEnv("MINERVA_PORT", "8080"),

		LLMBackend:        LLMBackend(getEnv("MINERVA_LLM_BACKEND", "openai")),
		GroqAPIKey:        getEnv("MINERVA_GROQ_API_KEY", ""),
		CompletionBaseURL: getEnv("MINERVA_COMPLETION_BASE_URL", "https://api.groq.com/openai/v1"),
		ModelName:         getEnv("MINERVA_MODEL_NAME", "llama3-70b-8192"),
		Temperature:       getFloatEnv("MINERVA_TEMPERATURE", 0.7),

		GCPProjectID: getEnv("MINERVA_GCP_PROJECT", ""),
		GCPLocation:  getEnv("MINERVA_GCP_LOCATION", "us-central1"),

		StorageBackend: getEnv("MINERVA_STORAGE_BACKEND", "memory"),

		ContextStrategy: ContextStrategy(getEnv("MINERVA_CONTEXT_STRATEGY", "window")),
		ContextMaxTurns: getIntEnv("MINERVA_CONTEXT_MAX_TURNS", 20),

		WeaviateHost:   getEnv("MINERVA_WEAVIATE_HOST", "localhost:8081"),
		WeaviateScheme: getEnv("MINERVA_WEAVIATE_SCHEME", "http"),
		WeaviateClass:  getEnv("MINERVA_WEAVIATE_CLASS", "ChatMemory"),
		RetrieverTopK:  getIntEnv("MINERVA_RETRIEVER_TOP_K", 3),
		FilterPhrases:  getListEnv("MINERVA_FILTER_PHRASES", []string{"your name is"}),
	}

	switch cfg.LLMBackend {
	case BackendOpenAI, BackendVertex, BackendMock:
	default:
		log.Fatalf("MINERVA_LLM_BACKEND must be openai, vertex, or mock, got %q", cfg.LLMBackend)
	}

	switch cfg.ContextStrategy {
	case StrategyWindow, StrategyRetrieval:
	default:
		log.Fatalf("MINERVA_CONTEXT_STRATEGY must be window or retrieval, got %q", cfg.ContextStrategy)
	}

	if cfg.LLMBackend == BackendOpenAI && cfg.GroqAPIKey == "" {
		log.Fatal("MINERVA_GROQ_API_KEY must be set for the openai backend")
	}
	if cfg.LLMBackend == BackendVertex && cfg.GCPProjectID == "" {
		log.Fatal("MINERVA_GCP_PROJECT must be set for the vertex backend")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("MINERVA_GCP_PROJECT must be set for the firestore backend")
	}

	return cfg
}
