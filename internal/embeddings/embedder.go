package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// ErrEmptyInput is returned when the caller asks to embed text shorter
// than three characters after trimming.
var ErrEmptyInput = errors.New("embeddings: input text is empty or too short")

// ErrEmptyOutput is returned when a backend call succeeds but returns a
// zero-length vector.
var ErrEmptyOutput = errors.New("embeddings: backend returned an empty vector")

// minEmbedChars is the shortest trimmed input Embed will accept.
const minEmbedChars = 3

// Embedder is the fixed contract every embedding backend implements: a
// batch embed call plus its advertised output dimension and a display
// name. Individual providers (Ollama, OpenAI, TEI, MultiReplica) satisfy
// this; Service wraps one to add the full C5 contract.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// Service wraps a backend Embedder with the rest of the C5 contract:
// empty-input/empty-output validation, dimension auto-discovery, and
// overlap-chunked mean pooling for text exceeding a token budget. The
// observed dimension is confined to one Service instance and updated
// atomically, never via a process-wide singleton.
type Service struct {
	backend   Embedder
	dimension atomic.Int64
	adjusted  atomic.Bool
}

// NewService wraps backend, seeding the observed dimension from the
// backend's advertised value.
func NewService(backend Embedder) *Service {
	s := &Service{backend: backend}
	s.dimension.Store(int64(backend.Dimensions()))
	return s
}

// Name returns the wrapped backend's display name.
func (s *Service) Name() string { return s.backend.Name() }

// Dimension returns the currently observed output dimension. It starts at
// the backend's advertised value and is adjusted at most once, by the
// first successful call, if the backend actually returns a different
// size; that size then becomes canonical for the remainder of the
// process's life.
func (s *Service) Dimension() int { return int(s.dimension.Load()) }

// Embed embeds a single text, enforcing the minimum-length input rule and
// the non-empty-output rule, and reconciling the observed dimension on
// first success.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(strings.TrimSpace(text)) < minEmbedChars {
		return nil, ErrEmptyInput
	}

	vecs, err := s.backend.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embeddings: backend error: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, ErrEmptyOutput
	}

	v := vecs[0]
	s.reconcileDimension(len(v))
	return v, nil
}

func (s *Service) reconcileDimension(observed int) {
	if observed != int(s.dimension.Load()) && s.adjusted.CompareAndSwap(false, true) {
		s.dimension.Store(int64(observed))
	}
}

// EmbedChunked embeds text that may exceed maxTokens estimated tokens by
// splitting it into overlapping windows and mean-pooling their embeddings
// component-wise. If the whole text already fits the budget it delegates
// straight to Embed, so embed_chunked(t) == embed(t) for single-chunk
// input.
func (s *Service) EmbedChunked(ctx context.Context, text string, maxTokens int) ([]float32, error) {
	if estimatedTokens(text) <= maxTokens {
		return s.Embed(ctx, text)
	}

	chunks := chunkText(text, maxTokens)

	var sum []float32
	count := 0
	wantDim := s.Dimension()

	for i, c := range chunks {
		v, err := s.Embed(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if wantDim != 0 && len(v) != wantDim {
			return nil, fmt.Errorf("embeddings: chunk %d dimension %d does not match %d", i+1, len(v), wantDim)
		}
		if sum == nil {
			sum = make([]float32, len(v))
			wantDim = len(v)
		}
		for j, x := range v {
			sum[j] += x
		}
		count++
	}

	if count == 0 {
		return nil, ErrEmptyOutput
	}
	mean := make([]float32, len(sum))
	for i, x := range sum {
		mean[i] = x / float32(count)
	}
	return mean, nil
}

// estimatedTokens approximates a token count at 4 characters per token.
func estimatedTokens(text string) int {
	return len(text) / 4
}

// chunkText splits text into overlapping windows of approximately
// maxTokens tokens (at 4 chars/token), with an overlap of 10% of
// maxTokens clamped to [20, 50] tokens.
func chunkText(text string, maxTokens int) []string {
	if maxTokens < 1 {
		maxTokens = 1
	}
	windowChars := maxTokens * 4

	overlapTokens := maxTokens / 10
	if overlapTokens < 20 {
		overlapTokens = 20
	}
	if overlapTokens > 50 {
		overlapTokens = 50
	}
	overlapChars := overlapTokens * 4
	if overlapChars >= windowChars {
		overlapChars = windowChars / 2
	}

	step := windowChars - overlapChars
	if step <= 0 {
		step = windowChars
	}

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + windowChars
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	if len(chunks) == 0 {
		chunks = []string{text}
	}
	return chunks
}
