package embeddings

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrAllBackendsFailed is returned once every configured replica has been
// tried and failed for a single Embed call.
var ErrAllBackendsFailed = errors.New("embeddings: all backend replicas failed")

// MultiReplica load-balances Embed calls across several Embedder replicas
// (typically several Ollama hosts behind different addresses), round-robin
// with sequential failover: if the chosen replica errors, every other
// replica is tried in rotation order before the call fails.
type MultiReplica struct {
	replicas []Embedder
	next     atomic.Uint64
}

// NewMultiReplica builds a MultiReplica over the given non-empty replica
// list. The replicas are assumed to share a model and dimension count.
func NewMultiReplica(replicas []Embedder) *MultiReplica {
	return &MultiReplica{replicas: replicas}
}

func (m *MultiReplica) Name() string {
	if len(m.replicas) == 0 {
		return "multireplica"
	}
	return m.replicas[0].Name()
}

func (m *MultiReplica) Dimensions() int {
	if len(m.replicas) == 0 {
		return 0
	}
	return m.replicas[0].Dimensions()
}

// Embed selects a starting replica by round-robin (an atomic counter
// modulo the replica count) and, on failure, fails over sequentially
// through the remaining replicas in rotation order. Only after every
// replica has failed does it return ErrAllBackendsFailed, wrapping the
// last observed error.
func (m *MultiReplica) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(m.replicas) == 0 {
		return nil, fmt.Errorf("multireplica: no replicas configured")
	}

	start := int(m.next.Add(1)-1) % len(m.replicas)

	var lastErr error
	for offset := 0; offset < len(m.replicas); offset++ {
		idx := (start + offset) % len(m.replicas)
		result, err := m.replicas[idx].Embed(ctx, texts)
		if err == nil {
			return result, nil
		}
		lastErr = fmt.Errorf("replica %d: %w", idx, err)
	}
	return nil, fmt.Errorf("%w: %v", ErrAllBackendsFailed, lastErr)
}
