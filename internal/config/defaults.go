package config

// DefaultConfig returns a Config with sensible defaults for running cogfs
// entirely against a local Ollama install and an embedded vector store.
func DefaultConfig() *Config {
	return &Config{
		Indexing: IndexingConfig{
			PersistDir:     ".cogfs/index",
			CollectionName: "files",
			ExcludeGlobs:   []string{"**/*.tmp", "**/*.lock", "**/.DS_Store"},
		},
		Embedding: EmbeddingConfig{
			Provider:   EmbeddingProviderOllama,
			URL:        "http://localhost:11434",
			Model:      "nomic-embed-text",
			Dimensions: 768,
		},
		LLM: LLMConfig{
			Provider:     LLMProviderNone,
			RateLimitRPM: 60,
		},
		Organizer: OrganizerConfig{
			SkipConfirmation:       false,
			DryRunDefault:          true,
			ClusterOverrideMinTags: 2,
			MaxFolderDepth:         4,
		},
		Watch: WatchConfig{
			DebounceMillis: 500,
		},
		Server: ServerConfig{
			ListenAddress: "127.0.0.1:8420",
		},
	}
}
