package embedder

import (
	"errors"
	"fmt"
	"log"
)

// ErrMissingBaseURL is returned by New when Kind is custom and Config.BaseURL
// is empty, per spec.md §4.5/§7 (ConfigError: "missing base_url for custom
// embedder").
var ErrMissingBaseURL = errors.New("embedder: custom provider requires base_url")

// ErrUnknownProvider is returned by New for a Kind outside the closed set of
// spec.md §4.5.
var ErrUnknownProvider = errors.New("embedder: unknown provider")

// New builds the Provider for cfg.Provider, validating and (if necessary)
// substituting cfg.Model, per spec.md §4.5. logger receives one warning line
// when a model substitution occurs; a nil logger uses log.Default().
func New(cfg Config, logger *log.Logger) (Provider, error) {
	if logger == nil {
		logger = log.Default()
	}

	lim, ok := providerLimits[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	if cfg.Provider == KindCustom && cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	model, substituted := resolveModel(cfg.Provider, cfg.Model)
	if substituted {
		logger.Printf("embedder: model %q is not valid for provider %q, using default %q", cfg.Model, cfg.Provider, model)
	}

	dims := cfg.Dimensions
	if dims <= 0 {
		dims = defaultDimensions[cfg.Provider]
	}

	var req requester
	switch cfg.Provider {
	case KindJina:
		req = newJinaRequester(cfg, model, dims)
	case KindVoyage:
		req = newVoyageRequester(cfg, model, dims)
	case KindOpenAI:
		req = newOpenAIRequester(cfg, model, dims)
	case KindCohere:
		req = newCohereRequester(cfg, model, dims)
	case KindHuggingFace:
		req = newHuggingFaceRequester(cfg, model, dims)
	case KindOllama:
		req = newOllamaRequester(cfg, model, dims)
	case KindLocalTransformer:
		req = newLocalRequester(dims)
	case KindCustom:
		req = newCustomRequester(cfg, dims)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	return newBatchedProvider(req, lim), nil
}
