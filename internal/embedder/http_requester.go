package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// httpRequester is the shared plumbing for every HTTP-API provider (jina,
// voyage, openai, cohere, huggingface, custom): a single JSON POST per
// batch, shaped by encode/decode functions specific to that provider's wire
// format. No provider in the retrieved corpus ships a Go SDK for these
// embedding APIs, so a small hand-rolled client per shape is the grounded
// choice (see DESIGN.md).
type httpRequester struct {
	client  *http.Client
	url     string
	headers map[string]string
	dims    int

	encode func(texts []string, model string) ([]byte, error)
	decode func(body []byte) ([][]float32, error)
	model  string
}

func (h *httpRequester) dimensions() int { return h.dims }
func (h *httpRequester) close() error    { return nil }

func (h *httpRequester) requestBatch(ctx context.Context, texts []string) ([][]float32, error) {
	payload, err := h.encode(texts, h.model)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		err := fmt.Errorf("%s: status %d: %s", h.url, resp.StatusCode, string(body))
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			return nil, &RetryableError{StatusCode: resp.StatusCode, Err: err}
		}
		return nil, err
	}

	out, err := h.decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("%s returned %d embeddings for %d inputs", h.url, len(out), len(texts))
	}
	return out, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

// --- OpenAI -----------------------------------------------------------

type openAIItem struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}
type openAIResponse struct {
	Data []openAIItem `json:"data"`
}

func newOpenAIRequester(cfg Config, model string, dims int) *httpRequester {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return &httpRequester{
		client:  newHTTPClient(),
		url:     base + "/embeddings",
		headers: map[string]string{"Authorization": "Bearer " + cfg.APIKey},
		dims:    dims,
		model:   model,
		encode: func(texts []string, model string) ([]byte, error) {
			return json.Marshal(map[string]any{"input": texts, "model": model})
		},
		decode: func(body []byte) ([][]float32, error) {
			var r openAIResponse
			if err := json.Unmarshal(body, &r); err != nil {
				return nil, err
			}
			return sortedByIndex(r.Data, func(i openAIItem) (int, []float32) { return i.Index, i.Embedding }), nil
		},
	}
}

// --- Cohere -------------------------------------------------------------

type cohereResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func newCohereRequester(cfg Config, model string, dims int) *httpRequester {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.cohere.ai/v1"
	}
	return &httpRequester{
		client:  newHTTPClient(),
		url:     base + "/embed",
		headers: map[string]string{"Authorization": "Bearer " + cfg.APIKey},
		dims:    dims,
		model:   model,
		encode: func(texts []string, model string) ([]byte, error) {
			return json.Marshal(map[string]any{"texts": texts, "model": model, "input_type": "search_document"})
		},
		decode: func(body []byte) ([][]float32, error) {
			var r cohereResponse
			if err := json.Unmarshal(body, &r); err != nil {
				return nil, err
			}
			return r.Embeddings, nil
		},
	}
}

// --- Jina -----------------------------------------------------------------

type jinaItem struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}
type jinaResponse struct {
	Data []jinaItem `json:"data"`
}

func newJinaRequester(cfg Config, model string, dims int) *httpRequester {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.jina.ai/v1"
	}
	return &httpRequester{
		client:  newHTTPClient(),
		url:     base + "/embeddings",
		headers: map[string]string{"Authorization": "Bearer " + cfg.APIKey},
		dims:    dims,
		model:   model,
		encode: func(texts []string, model string) ([]byte, error) {
			return json.Marshal(map[string]any{"input": texts, "model": model})
		},
		decode: func(body []byte) ([][]float32, error) {
			var r jinaResponse
			if err := json.Unmarshal(body, &r); err != nil {
				return nil, err
			}
			return sortedByIndex(r.Data, func(i jinaItem) (int, []float32) { return i.Index, i.Embedding }), nil
		},
	}
}

// --- Voyage -----------------------------------------------------------------

type voyageResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func newVoyageRequester(cfg Config, model string, dims int) *httpRequester {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.voyageai.com/v1"
	}
	return &httpRequester{
		client:  newHTTPClient(),
		url:     base + "/embeddings",
		headers: map[string]string{"Authorization": "Bearer " + cfg.APIKey},
		dims:    dims,
		model:   model,
		encode: func(texts []string, model string) ([]byte, error) {
			return json.Marshal(map[string]any{"input": texts, "model": model, "input_type": "document"})
		},
		decode: func(body []byte) ([][]float32, error) {
			var r voyageResponse
			if err := json.Unmarshal(body, &r); err != nil {
				return nil, err
			}
			type item struct {
				Embedding []float32
				Index     int
			}
			items := make([]item, len(r.Data))
			for i, d := range r.Data {
				items[i] = item{Embedding: d.Embedding, Index: d.Index}
			}
			return sortedByIndex(items, func(i item) (int, []float32) { return i.Index, i.Embedding }), nil
		},
	}
}

// --- HuggingFace Inference API -------------------------------------------

func newHuggingFaceRequester(cfg Config, model string, dims int) *httpRequester {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api-inference.huggingface.co/pipeline/feature-extraction"
	}
	return &httpRequester{
		client:  newHTTPClient(),
		url:     base + "/" + model,
		headers: map[string]string{"Authorization": "Bearer " + cfg.APIKey},
		dims:    dims,
		model:   model,
		encode: func(texts []string, model string) ([]byte, error) {
			return json.Marshal(map[string]any{"inputs": texts, "options": map[string]any{"wait_for_model": true}})
		},
		decode: func(body []byte) ([][]float32, error) {
			var r [][]float32
			if err := json.Unmarshal(body, &r); err != nil {
				return nil, err
			}
			return r, nil
		},
	}
}

// --- Custom -----------------------------------------------------------------

// newCustomRequester uses cfg.Model and cfg.BaseURL verbatim, per spec.md
// §4.5: "For custom the user-supplied model and required base_url are used
// verbatim."
func newCustomRequester(cfg Config, dims int) *httpRequester {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}
	return &httpRequester{
		client:  newHTTPClient(),
		url:     cfg.BaseURL,
		headers: headers,
		dims:    dims,
		model:   cfg.Model,
		encode: func(texts []string, model string) ([]byte, error) {
			return json.Marshal(map[string]any{"input": texts, "model": model})
		},
		decode: func(body []byte) ([][]float32, error) {
			var r openAIResponse
			if err := json.Unmarshal(body, &r); err == nil && len(r.Data) > 0 {
				return sortedByIndex(r.Data, func(i openAIItem) (int, []float32) { return i.Index, i.Embedding }), nil
			}
			var plain [][]float32
			if err := json.Unmarshal(body, &plain); err != nil {
				return nil, err
			}
			return plain, nil
		},
	}
}

// sortedByIndex re-sorts a provider response that carries per-item indices
// (spec.md §4.5: "providers that include per-item indices must be
// re-sorted") back into input order.
func sortedByIndex[T any](items []T, get func(T) (int, []float32)) [][]float32 {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		ii, _ := get(sorted[i])
		jj, _ := get(sorted[j])
		return ii < jj
	})
	out := make([][]float32, len(sorted))
	for i, it := range sorted {
		_, emb := get(it)
		out[i] = emb
	}
	return out
}
