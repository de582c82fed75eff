// Package config loads and validates cogfs.yaml, the koanf-backed
// configuration file covering the local index, embedding/LLM backends,
// the organizer's confirmation and clustering thresholds, the watcher's
// debounce interval, and the search server's listen address.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// SearchPaths lists, in priority order, where Load looks for a config
// file when no explicit path is given.
func SearchPaths() []string {
	var paths []string
	paths = append(paths, "cogfs.yaml", filepath.Join("config", "cogfs.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "cogfs", "cogfs.yaml"))
	}
	return paths
}

// Load reads configuration from path (or, if path is empty, the first
// existing entry in SearchPaths), then overlays COGFS_* environment
// variable overrides, e.g. COGFS_EMBEDDING_MODEL.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, candidate := range SearchPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config: reading %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: accessing %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("COGFS_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "COGFS_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshalling: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
		return fmt.Errorf("config: preparing directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

var validEmbeddingProviders = map[EmbeddingProviderType]bool{
	EmbeddingProviderOllama: true,
	EmbeddingProviderOpenAI: true,
	EmbeddingProviderTEI:    true,
}

var validLLMProviders = map[LLMProviderType]bool{
	LLMProviderOpenAI: true,
	LLMProviderOllama: true,
	LLMProviderNone:   true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Indexing.PersistDir == "" {
		return fmt.Errorf("config: indexing.persist_dir is required")
	}
	if c.Indexing.CollectionName == "" {
		return fmt.Errorf("config: indexing.collection_name is required")
	}

	if !validEmbeddingProviders[c.Embedding.Provider] {
		return fmt.Errorf("config: invalid embedding.provider %q: must be one of ollama, openai, tei", c.Embedding.Provider)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("config: embedding.model is required")
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("config: embedding.dimensions must be non-negative")
	}

	if !validLLMProviders[c.LLM.Provider] {
		return fmt.Errorf("config: invalid llm.provider %q: must be one of openai, ollama, none", c.LLM.Provider)
	}

	if c.Organizer.ClusterOverrideMinTags < 0 {
		return fmt.Errorf("config: organizer.cluster_override_min_tags must be non-negative")
	}
	if c.Organizer.MaxFolderDepth <= 0 {
		return fmt.Errorf("config: organizer.max_folder_depth must be positive")
	}

	if c.Watch.DebounceMillis < 0 {
		return fmt.Errorf("config: watch.debounce_millis must be non-negative")
	}

	if c.Server.ListenAddress == "" {
		return fmt.Errorf("config: server.listen_address is required")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for the
// API key of the given embedding or LLM provider, or "" for providers
// that do not use one (ollama, tei, none).
func APIKeyEnvVar(provider string) string {
	switch provider {
	case string(EmbeddingProviderOpenAI), string(LLMProviderOpenAI):
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
