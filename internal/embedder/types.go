// Package embedder implements the embedding provider abstraction of
// spec.md §4.5: a closed set of providers, each rate-limited and retried the
// same way, batched so the returned order always matches the input order.
package embedder

import "context"

// Kind is the closed set of supported embedding providers.
type Kind string

const (
	KindJina            Kind = "jina"
	KindVoyage          Kind = "voyage"
	KindOpenAI          Kind = "openai"
	KindCohere          Kind = "cohere"
	KindHuggingFace     Kind = "huggingface"
	KindOllama          Kind = "ollama"
	KindLocalTransformer Kind = "local_transformer"
	KindCustom          Kind = "custom"
)

// Config configures a provider. APIKey/Model/BaseURL/Dimensions are optional
// except where a given provider requires them.
type Config struct {
	Provider   Kind
	APIKey     string
	Model      string
	BaseURL    string
	Dimensions int
}

// ConnectionResult is the outcome of TestConnection.
type ConnectionResult struct {
	Success   bool
	LatencyMS int64
	Error     string
}

// Provider is the embedding interface every provider kind satisfies.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	TestConnection(ctx context.Context) ConnectionResult
	Close() error
}

// requester is the narrow per-provider seam: given a single batch (already
// sized to the provider's batch_size), return one embedding per input text,
// in input order.
type requester interface {
	requestBatch(ctx context.Context, texts []string) ([][]float32, error)
	dimensions() int
	close() error
}
