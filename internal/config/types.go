package config

// EmbeddingProviderType identifies an embedding backend.
type EmbeddingProviderType string

const (
	EmbeddingProviderOllama EmbeddingProviderType = "ollama"
	EmbeddingProviderOpenAI EmbeddingProviderType = "openai"
	EmbeddingProviderTEI    EmbeddingProviderType = "tei"
)

// LLMProviderType identifies the provider used for tag-suggestion
// completions.
type LLMProviderType string

const (
	LLMProviderOpenAI LLMProviderType = "openai"
	LLMProviderOllama LLMProviderType = "ollama"
	LLMProviderNone   LLMProviderType = "none"
)

// Config is the top-level cogfs configuration, corresponding to
// cogfs.yaml.
type Config struct {
	Indexing  IndexingConfig  `yaml:"indexing" koanf:"indexing"`
	Embedding EmbeddingConfig `yaml:"embedding" koanf:"embedding"`
	LLM       LLMConfig       `yaml:"llm" koanf:"llm"`
	Organizer OrganizerConfig `yaml:"organizer" koanf:"organizer"`
	Watch     WatchConfig     `yaml:"watch" koanf:"watch"`
	Server    ServerConfig    `yaml:"server" koanf:"server"`
}

// IndexingConfig controls the local vector store.
type IndexingConfig struct {
	PersistDir     string   `yaml:"persist_dir" koanf:"persist_dir"`
	CollectionName string   `yaml:"collection_name" koanf:"collection_name"`
	ExcludeGlobs   []string `yaml:"exclude_globs" koanf:"exclude_globs"`
}

// EmbeddingConfig controls the embedding backend(s). Replicas, if set,
// enables round-robin/failover across multiple endpoints of the same
// provider.
type EmbeddingConfig struct {
	Provider   EmbeddingProviderType `yaml:"provider" koanf:"provider"`
	URL        string                `yaml:"url" koanf:"url"`
	Replicas   []string              `yaml:"replicas" koanf:"replicas"`
	Model      string                `yaml:"model" koanf:"model"`
	Dimensions int                   `yaml:"dimensions" koanf:"dimensions"`
}

// LLMConfig controls optional LLM-based tag suggestion.
type LLMConfig struct {
	Provider     LLMProviderType `yaml:"provider" koanf:"provider"`
	Model        string          `yaml:"model" koanf:"model"`
	URL          string          `yaml:"url" koanf:"url"`
	RateLimitRPM int             `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
}

// OrganizerConfig controls C9/C10 move planning.
type OrganizerConfig struct {
	SkipConfirmation       bool `yaml:"skip_confirmation" koanf:"skip_confirmation"`
	DryRunDefault          bool `yaml:"dry_run_default" koanf:"dry_run_default"`
	ClusterOverrideMinTags int  `yaml:"cluster_override_min_tags" koanf:"cluster_override_min_tags"`
	MaxFolderDepth         int  `yaml:"max_folder_depth" koanf:"max_folder_depth"`
}

// WatchConfig controls the filesystem watcher.
type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_millis" koanf:"debounce_millis"`
}

// ServerConfig controls the HTTP search/status server.
type ServerConfig struct {
	ListenAddress string `yaml:"listen_address" koanf:"listen_address"`
}
