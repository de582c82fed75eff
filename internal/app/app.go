// Package app wires cogfs's configuration to its components: the
// embedding backend, optional LLM tag suggester, vector store, analyzer
// pipeline, clusterer, taxonomy, organizer, and sync engine. The cmd
// package calls into App; App itself holds no cobra/CLI concerns.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cogfs/cogfs/internal/classify"
	"github.com/cogfs/cogfs/internal/cluster"
	"github.com/cogfs/cogfs/internal/config"
	"github.com/cogfs/cogfs/internal/embeddings"
	"github.com/cogfs/cogfs/internal/fingerprint"
	"github.com/cogfs/cogfs/internal/llm"
	"github.com/cogfs/cogfs/internal/organize"
	"github.com/cogfs/cogfs/internal/pipeline"
	"github.com/cogfs/cogfs/internal/progress"
	"github.com/cogfs/cogfs/internal/syncengine"
	"github.com/cogfs/cogfs/internal/vectordb"
)

// App holds the constructed, ready-to-use components for one run of a
// cogfs command against one base directory.
type App struct {
	Config    *config.Config
	Embedder  *embeddings.Service
	LLM       llm.Provider
	Store     vectordb.VectorStore
	PathIndex *syncengine.PathIndex
}

// Close releases resources held by App (currently just the path index).
func (a *App) Close() error {
	if a.PathIndex != nil {
		return a.PathIndex.Close()
	}
	return nil
}

// New constructs every backend from cfg. LLM is left nil when
// cfg.LLM.Provider is "none", per the organizer and scan commands'
// "LLM tags are optional" contract.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: invalid config: %w", err)
	}

	backend, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("app: building embedder: %w", err)
	}

	var provider llm.Provider
	if cfg.LLM.Provider != config.LLMProviderNone {
		provider, err = llm.NewProvider(string(cfg.LLM.Provider), cfg.LLM.Model)
		if err != nil {
			return nil, fmt.Errorf("app: building llm provider: %w", err)
		}
		if cfg.LLM.RateLimitRPM > 0 {
			provider = llm.NewRateLimitedProvider(provider, cfg.LLM.RateLimitRPM)
		}
	}

	store, err := vectordb.NewChromemStore(backend)
	if err != nil {
		return nil, fmt.Errorf("app: building vector store: %w", err)
	}
	if err := store.Load(context.Background(), cfg.Indexing.PersistDir); err != nil {
		// A first run has no persisted index yet; callers treat this as
		// starting from an empty store rather than a fatal error.
		_ = err
	}

	if err := os.MkdirAll(cfg.Indexing.PersistDir, 0o755); err != nil {
		return nil, fmt.Errorf("app: preparing index directory: %w", err)
	}
	pathIndex, err := syncengine.OpenPathIndex(filepath.Join(cfg.Indexing.PersistDir, "paths.db"))
	if err != nil {
		return nil, fmt.Errorf("app: opening path index: %w", err)
	}

	return &App{
		Config:    cfg,
		Embedder:  embeddings.NewService(backend),
		LLM:       provider,
		Store:     store,
		PathIndex: pathIndex,
	}, nil
}

func buildEmbedder(cfg config.EmbeddingConfig) (embeddings.Embedder, error) {
	if len(cfg.Replicas) > 1 {
		replicas := make([]embeddings.Embedder, 0, len(cfg.Replicas))
		for _, url := range cfg.Replicas {
			e, err := buildEmbedderFromURL(cfg.Provider, url, cfg.Model, cfg.Dimensions)
			if err != nil {
				return nil, err
			}
			replicas = append(replicas, e)
		}
		return embeddings.NewMultiReplica(replicas), nil
	}
	return buildEmbedderFromURL(cfg.Provider, cfg.URL, cfg.Model, cfg.Dimensions)
}

func buildEmbedderFromURL(provider config.EmbeddingProviderType, url, model string, dims int) (embeddings.Embedder, error) {
	switch provider {
	case config.EmbeddingProviderOllama:
		return embeddings.NewOllamaEmbedder(model, dims, url), nil
	case config.EmbeddingProviderOpenAI:
		return embeddings.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"), embeddings.OpenAIModel(model)), nil
	case config.EmbeddingProviderTEI:
		return embeddings.NewTEIEmbedder(url, model, dims), nil
	default:
		return nil, fmt.Errorf("app: unsupported embedding provider %q", provider)
	}
}

// Persist saves the vector store to its configured persistence directory.
func (a *App) Persist(ctx context.Context) error {
	return a.Store.Persist(ctx, a.Config.Indexing.PersistDir)
}

// Scan runs the analyzer pipeline over base and persists the result.
func (a *App) Scan(ctx context.Context, base string, reporter progress.Reporter) (*pipeline.Counters, []string, error) {
	analyzer := pipeline.New(base, pipeline.Dependencies{
		Embedder:     a.Embedder,
		Store:        a.Store,
		LLM:          a.LLM,
		LLMModel:     a.Config.LLM.Model,
		Progress:     reporter,
		ExcludeGlobs: a.Config.Indexing.ExcludeGlobs,
	})
	if err := analyzer.Run(ctx); err != nil {
		return analyzer.Counters(), analyzer.IndexedPaths(), err
	}
	for _, p := range analyzer.IndexedPaths() {
		if err := a.PathIndex.Upsert(p, time.Now().Unix()); err != nil {
			return analyzer.Counters(), analyzer.IndexedPaths(), err
		}
	}
	if err := a.Persist(ctx); err != nil {
		return analyzer.Counters(), analyzer.IndexedPaths(), err
	}
	return analyzer.Counters(), analyzer.IndexedPaths(), nil
}

// Sync reconciles the store against the current on-disk file set under
// base, re-indexing changed/new files and deleting vanished ones. The set
// of previously indexed paths comes from the path index rather than the
// caller, since the vector store supports lookup by path but not a full
// scan.
func (a *App) Sync(ctx context.Context, base string) (syncengine.Stats, error) {
	var currentPaths []string
	for p := range pipeline.WalkExcluding(ctx, base, a.Config.Indexing.ExcludeGlobs) {
		if classify.IsProtected(p, base) {
			continue
		}
		currentPaths = append(currentPaths, p)
	}

	indexedPaths, err := a.PathIndex.All()
	if err != nil {
		return syncengine.Stats{}, err
	}

	stats, err := syncengine.Sync(ctx, deletingStore{a.Store, a.PathIndex}, currentPaths, indexedPaths, a.indexOneForSync)
	if err != nil {
		return stats, err
	}
	return stats, a.Persist(ctx)
}

// indexOneForSync runs the full per-file pipeline (not just a fingerprint)
// over a single changed/new path, so a synced document gets the same
// text/tags/embedding a full scan would have produced, then records it in
// the path index. It is the syncengine.IndexFunc behind App.Sync.
func (a *App) indexOneForSync(ctx context.Context, path string) (vectordb.Document, error) {
	doc, _, err := a.AnalyzeFile(ctx, path, filepath.Dir(path))
	if err != nil {
		return vectordb.Document{}, err
	}
	if err := a.Store.AddDocuments(ctx, []vectordb.Document{doc}); err != nil {
		return vectordb.Document{}, err
	}
	if err := a.PathIndex.Upsert(path, doc.Metadata.UpdatedAt.Unix()); err != nil {
		return vectordb.Document{}, err
	}
	return doc, nil
}

// AnalyzeFile runs the single-file analysis pipeline (fingerprint,
// dispatch, tag, embed) over path without touching the store, for callers
// that need a document outside a full directory scan: the filesystem
// watcher's create/modify handler and the `tag` CLI command's preview
// mode. base bounds the LLM prompt's ancestor-directory context; it need
// not be the same base a scan was run against.
func (a *App) AnalyzeFile(ctx context.Context, path, base string) (vectordb.Document, pipeline.AnalyzeOutcome, error) {
	return pipeline.AnalyzeFile(ctx, path, base, pipeline.Dependencies{
		Embedder: a.Embedder,
		LLM:      a.LLM,
		LLMModel: a.Config.LLM.Model,
	})
}

// deletingStore wraps a VectorStore so that a syncengine delete also
// removes the path from the auxiliary path index, keeping the two in
// lockstep.
type deletingStore struct {
	vectordb.VectorStore
	pathIndex *syncengine.PathIndex
}

func (d deletingStore) DeleteByPath(ctx context.Context, path string) error {
	if err := d.VectorStore.DeleteByPath(ctx, path); err != nil {
		return err
	}
	return d.pathIndex.Delete(path)
}

// Organize clusters already-indexed documents, derives each one's
// taxonomy folder (cluster-overridden where applicable), and returns the
// resulting plan without executing it.
func (a *App) Organize(ctx context.Context, base string, opts organize.PlanOptions) (*organize.PreviewTree, error) {
	docs, err := a.allIndexedDocuments(ctx)
	if err != nil {
		return nil, err
	}

	clusterer := cluster.New(cluster.DefaultThreshold)
	for i, doc := range docs {
		if doc.Embedding != nil {
			clusterer.Add(i, doc.Embedding, doc.Metadata.Tags)
		}
	}
	dominantTagsByIndex := make(map[int][]string)
	for _, c := range clusterer.Clusters() {
		for _, m := range c.Members {
			dominantTagsByIndex[m.Index] = c.DominantTags
		}
	}

	entries := make([]organize.FileEntry, 0, len(docs))
	for i, doc := range docs {
		entries = append(entries, organize.FileEntry{
			Path:                doc.Metadata.Path,
			Tags:                doc.Metadata.Tags,
			IsProtected:         classify.IsProtected(doc.Metadata.Path, base),
			ClusterDominantTags: dominantTagsByIndex[i],
		})
	}

	return organize.Plan(base, entries, opts)
}

// allIndexedDocuments retrieves every document for every path the path
// index has recorded (chromem-go exposes no full-collection scan, only
// per-path and similarity lookups, hence the auxiliary index).
func (a *App) allIndexedDocuments(ctx context.Context) ([]vectordb.Document, error) {
	paths, err := a.PathIndex.All()
	if err != nil {
		return nil, err
	}
	var docs []vectordb.Document
	for _, p := range paths {
		found, err := a.Store.GetByPath(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("app: lookup %s: %w", p, err)
		}
		docs = append(docs, found...)
	}
	return docs, nil
}
