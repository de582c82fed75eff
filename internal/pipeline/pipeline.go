// Package pipeline runs the end-to-end per-file analysis sequence over a
// streamed directory walk: fingerprint, dispatch to a typed source,
// extract text and metadata, generate tags (optionally enriched by an LLM
// suggestion), build an embedding, and hand the result to an indexing
// sink. Concurrency is bounded by a semaphore; a single file's failure is
// contained and counted, never aborting the run.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cogfs/cogfs/internal/classify"
	"github.com/cogfs/cogfs/internal/embeddings"
	"github.com/cogfs/cogfs/internal/fingerprint"
	"github.com/cogfs/cogfs/internal/llm"
	"github.com/cogfs/cogfs/internal/progress"
	"github.com/cogfs/cogfs/internal/source"
	"github.com/cogfs/cogfs/internal/syncengine"
	"github.com/cogfs/cogfs/internal/tagging"
	"github.com/cogfs/cogfs/internal/vectordb"
)

// maxConcurrency bounds the worker pool size regardless of how many cores
// the host reports, so a single run never oversubscribes the embedding
// backend or the filesystem.
const maxConcurrency = 16

// embeddingMaxTokens is the token budget passed to EmbedChunked.
const embeddingMaxTokens = 512

// minExtractedTextChars is the shortest extracted-text length that is
// trusted as embedding input; shorter (or whitespace-only) text falls
// back to the synthesized descriptor.
const minExtractedTextChars = 10

// Counters are the thread-safe run totals the pipeline accumulates. All
// fields are updated with atomic operations, so a *Counters can be read
// concurrently with a run in progress.
type Counters struct {
	FilesIndexed      atomic.Int64
	EmbeddingsCreated atomic.Int64
	EmbeddingFailures atomic.Int64
	ProtectedFiles    atomic.Int64
	LLMSuccesses      atomic.Int64
	LLMFallbacks      atomic.Int64
	Errors            atomic.Int64
}

// Dependencies collects everything the analyzer needs beyond a root
// directory to process: LLM and Progress are optional (nil disables LLM
// tag enrichment / progress reporting).
type Dependencies struct {
	Embedder *embeddings.Service
	Store    vectordb.VectorStore
	LLM      llm.Provider
	LLMModel string
	Progress progress.Reporter

	// ExcludeGlobs, if non-empty, are doublestar patterns (relative to the
	// scanned base) that the walker skips entirely: these files are never
	// analyzed, tagged, or indexed at all, and unlike protected paths they
	// are not counted either.
	ExcludeGlobs []string
}

// Analyzer runs one scan of a base directory.
type Analyzer struct {
	deps     Dependencies
	base     string
	sem      chan struct{}
	counters Counters

	mu       sync.Mutex
	indexed  []string
	discover atomic.Int64
	complete atomic.Int64
}

// New constructs an Analyzer for base using deps. Worker concurrency is
// min(GOMAXPROCS, maxConcurrency).
func New(base string, deps Dependencies) *Analyzer {
	n := runtime.GOMAXPROCS(0)
	if n > maxConcurrency {
		n = maxConcurrency
	}
	if n < 1 {
		n = 1
	}
	return &Analyzer{
		deps: deps,
		base: filepath.Clean(base),
		sem:  make(chan struct{}, n),
	}
}

// Counters returns the run's live counters.
func (a *Analyzer) Counters() *Counters { return &a.counters }

// IndexedPaths returns every path the run successfully (re-)indexed, for
// the sync engine's diff against the store's existing index.
func (a *Analyzer) IndexedPaths() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.indexed))
	copy(out, a.indexed)
	return out
}

// Run streams the directory walk and processes each file through a
// semaphore-bounded worker pool, returning once every discovered file has
// been handled or ctx is canceled.
func (a *Analyzer) Run(ctx context.Context) error {
	if a.deps.Progress != nil {
		a.deps.Progress.Start(0)
		defer a.deps.Progress.Finish()
	}

	paths := WalkExcluding(ctx, a.base, a.deps.ExcludeGlobs)

	var wg sync.WaitGroup
	for path := range paths {
		a.discover.Add(1)
		path := path

		select {
		case a.sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-a.sem }()
			a.processOne(ctx, path)
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// processOne runs the full per-file sequence, containing any error by
// counting it and returning rather than propagating it to Run.
func (a *Analyzer) processOne(ctx context.Context, path string) {
	defer func() {
		completed := a.complete.Add(1)
		if a.deps.Progress != nil {
			a.deps.Progress.UpdateDiscovery(int(a.discover.Load()), int(completed), filepath.Base(path))
		}
	}()

	if classify.IsProtected(path, a.base) {
		a.counters.ProtectedFiles.Add(1)
		return
	}

	doc, outcome, err := AnalyzeFile(ctx, path, a.base, a.deps)
	if err != nil {
		a.counters.Errors.Add(1)
		return
	}

	if outcome.LLMAttempted {
		if outcome.LLMSucceeded {
			a.counters.LLMSuccesses.Add(1)
		} else {
			a.counters.LLMFallbacks.Add(1)
		}
	}
	if outcome.EmbeddingAttempted {
		if outcome.EmbeddingSucceeded {
			a.counters.EmbeddingsCreated.Add(1)
		} else {
			a.counters.EmbeddingFailures.Add(1)
		}
	}

	if a.deps.Store != nil {
		if err := a.deps.Store.AddDocuments(ctx, []vectordb.Document{doc}); err != nil {
			a.counters.Errors.Add(1)
			return
		}
	}

	a.mu.Lock()
	a.indexed = append(a.indexed, path)
	a.mu.Unlock()
	a.counters.FilesIndexed.Add(1)
}

// AnalyzeOutcome records which optional per-file steps were attempted and
// whether they succeeded, so a caller (the bounded-concurrency Analyzer,
// the sync engine's re-index path, or the filesystem watcher) can update
// its own counters without repeating AnalyzeFile's logic.
type AnalyzeOutcome struct {
	LLMAttempted       bool
	LLMSucceeded       bool
	EmbeddingAttempted bool
	EmbeddingSucceeded bool
}

// AnalyzeFile runs the single-file sequence shared by every entry point
// that needs a fully analyzed document — the bounded-concurrency scan
// pipeline, the sync engine's re-index of changed/new files, the
// filesystem watcher's create/modify handler, and the `tag` CLI command's
// preview mode: fingerprint, dispatch to a typed source, extract text and
// metadata, generate tags (path/content/extension, optionally enriched by
// an LLM suggestion), and embed. It does not touch the store; callers
// decide whether and how to persist the result. An error is returned only
// for the IoError/ParseError cases of §7 that leave no usable file at all
// (unreadable file, unreadable as text); every other per-step failure is
// contained in the outcome and the document still comes back usable.
func AnalyzeFile(ctx context.Context, path, base string, deps Dependencies) (vectordb.Document, AnalyzeOutcome, error) {
	var outcome AnalyzeOutcome

	meta, err := fingerprint.Fingerprint(path)
	if err != nil {
		return vectordb.Document{}, outcome, fmt.Errorf("pipeline: fingerprint %s: %w", path, err)
	}

	src := source.New(path, meta.Extension)
	text, err := src.ToText(ctx)
	if err != nil {
		return vectordb.Document{}, outcome, fmt.Errorf("pipeline: extract text %s: %w", path, err)
	}
	metadata, _ := src.ToMetadata(ctx)
	sourceTags, _ := src.GenerateTags(ctx)

	var llmTags []string
	if deps.LLM != nil {
		outcome.LLMAttempted = true
		ancestors := pathAncestors(path, base)
		tags, err := llm.SuggestTags(ctx, deps.LLM, deps.LLMModel, path, ancestors, text)
		if err == nil {
			llmTags = tags
			outcome.LLMSucceeded = true
		}
	}

	tags := tagging.Generate(path, meta.Extension, text, sourceTags, llmTags)

	embeddingInput := text
	if len(strings.TrimSpace(embeddingInput)) < minExtractedTextChars {
		embeddingInput = buildFallbackDescriptor(path, meta.Extension, tags)
	}

	var vec []float32
	if deps.Embedder != nil {
		outcome.EmbeddingAttempted = true
		vec, err = deps.Embedder.EmbedChunked(ctx, embeddingInput, embeddingMaxTokens)
		if err == nil {
			outcome.EmbeddingSucceeded = true
		} else {
			vec = nil
		}
	}

	doc := vectordb.Document{
		ID:        syncengine.DocumentID(meta.Hash, meta.UpdatedAt.Unix()),
		Content:   text,
		Embedding: vec,
		Metadata: vectordb.DocumentMetadata{
			Path:      path,
			Hash:      meta.Hash,
			Extension: meta.Extension,
			SizeBytes: meta.Size,
			Tags:      tags,
			Metadata:  metadata,
			CreatedAt: meta.CreatedAt,
			UpdatedAt: meta.UpdatedAt,
		},
	}
	return doc, outcome, nil
}

// buildFallbackDescriptor synthesizes a short, embeddable description of
// a file when extraction produced no usable text: "File: <name>[ (<ext>
// file)][. Tags: t1, t2, ...][. Document file.]", padded to at least 20
// characters so an essentially empty file still yields a stable, non-
// degenerate embedding.
func buildFallbackDescriptor(path, extension string, tags []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s", filepath.Base(path))
	if extension != "" {
		fmt.Fprintf(&sb, " (%s file)", extension)
	}
	if len(tags) > 0 {
		fmt.Fprintf(&sb, ". Tags: %s", strings.Join(tags, ", "))
	}
	if sb.Len() < 20 {
		sb.WriteString(". Document file.")
	}
	return sb.String()
}

// pathAncestors returns the directory names between base and path,
// shallowest first, used as LLM prompt context.
func pathAncestors(path, base string) []string {
	rel, err := filepath.Rel(base, filepath.Dir(path))
	if err != nil || rel == "." {
		return nil
	}
	return strings.Split(rel, string(filepath.Separator))
}
