package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ollamaRequester talks to a local Ollama daemon's /api/embeddings endpoint.
// Ollama's batch_size is hardcoded to 1 (spec.md §4.5), so requestBatch
// always receives a single-element slice; it still honors the requester
// contract for symmetry with the other providers.
type ollamaRequester struct {
	client *http.Client
	url    string
	model  string
	dims   int
}

func newOllamaRequester(cfg Config, model string, dims int) *ollamaRequester {
	base := cfg.BaseURL
	if base == "" {
		base = "http://localhost:11434"
	}
	return &ollamaRequester{client: newHTTPClient(), url: base + "/api/embeddings", model: model, dims: dims}
}

func (o *ollamaRequester) dimensions() int { return o.dims }
func (o *ollamaRequester) close() error    { return nil }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}
type ollamaResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (o *ollamaRequester) requestBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		payload, err := json.Marshal(ollamaRequest{Model: o.model, Prompt: text})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(req)
		if err != nil {
			return nil, &RetryableError{Err: err}
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			wrapped := fmt.Errorf("ollama: status %d: %s", resp.StatusCode, string(body))
			if resp.StatusCode == 429 || resp.StatusCode >= 500 {
				return nil, &RetryableError{StatusCode: resp.StatusCode, Err: wrapped}
			}
			return nil, wrapped
		}

		var r ollamaResponse
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, err
		}
		out[i] = r.Embedding
	}
	return out, nil
}
