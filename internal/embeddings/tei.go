package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// TEIEmbedder calls a Text-Embeddings-Inference-compatible HTTP backend:
// POST /embed with {"inputs": [...], "truncate": true}. The abstract
// embedding service contract allows the response to come back as a bare
// vector, as {"embeddings": [[...]]}, or as a bare list of vectors; this
// client accepts all three.
type TEIEmbedder struct {
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
}

// NewTEIEmbedder creates a TEI-compatible embedder against baseURL (no
// trailing slash expected).
func NewTEIEmbedder(baseURL, model string, dimensions int) *TEIEmbedder {
	return &TEIEmbedder{
		baseURL:    baseURL,
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{},
	}
}

func (e *TEIEmbedder) Name() string    { return "tei/" + e.model }
func (e *TEIEmbedder) Dimensions() int { return e.dimensions }

type teiRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate"`
}

// Embed posts the full batch of texts in one request and parses whichever
// of the three accepted response shapes the backend returns.
func (e *TEIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(teiRequest{Inputs: texts, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("marshal tei request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create tei request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tei request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tei response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tei returned status %d: %s", resp.StatusCode, string(raw))
	}

	result, err := parseTEIResponse(raw)
	if err != nil {
		return nil, err
	}
	if len(texts) == 1 && len(result) == 0 {
		return nil, fmt.Errorf("tei: empty embedding list in response")
	}
	return result, nil
}

// parseTEIResponse accepts any of the three response shapes named in the
// abstract embedding service's wire contract: a bare vector (one input),
// a bare matrix of vectors, or {"embeddings": [[...]]}.
func parseTEIResponse(raw []byte) ([][]float32, error) {
	var wrapped struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Embeddings) > 0 {
		return wrapped.Embeddings, nil
	}

	var matrix [][]float32
	if err := json.Unmarshal(raw, &matrix); err == nil && len(matrix) > 0 {
		return matrix, nil
	}

	var single []float32
	if err := json.Unmarshal(raw, &single); err == nil && len(single) > 0 {
		return [][]float32{single}, nil
	}

	return nil, fmt.Errorf("tei: unrecognized response shape")
}
