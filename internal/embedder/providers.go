package embedder

import "regexp"

// limits bundles the hardcoded (rpm, batch_size) pair of spec.md §4.5 for one
// provider kind.
type limits struct {
	rpm       int
	batchSize int
}

// providerLimits is the closed-set table of spec.md §4.5. Values for jina,
// voyage, openai, ollama, local_transformer, and custom are given literally
// in the spec; cohere and huggingface are not, so this picks values in the
// same spirit as their published batch APIs (documented in DESIGN.md).
var providerLimits = map[Kind]limits{
	KindJina:             {rpm: 60, batchSize: 100},
	KindVoyage:           {rpm: 3, batchSize: 8},
	KindOpenAI:           {rpm: 60, batchSize: 100},
	KindCohere:           {rpm: 100, batchSize: 96},
	KindHuggingFace:      {rpm: 60, batchSize: 50},
	KindOllama:           {rpm: 1000, batchSize: 1},
	KindLocalTransformer: {rpm: 10000, batchSize: 32},
	KindCustom:           {rpm: 60, batchSize: 50},
}

// defaultModels is the model substituted when Config.Model is empty or
// fails its provider's modelPattern.
var defaultModels = map[Kind]string{
	KindJina:             "jina-embeddings-v3",
	KindVoyage:           "voyage-code-3",
	KindOpenAI:           "text-embedding-3-small",
	KindCohere:           "embed-english-v3.0",
	KindHuggingFace:      "sentence-transformers/all-MiniLM-L6-v2",
	KindOllama:           "nomic-embed-text",
	KindLocalTransformer: "BAAI/bge-small-en-v1.5",
}

// modelPattern is the per-provider validation regex of spec.md §4.5. custom
// has no pattern: the user-supplied model is used verbatim.
var modelPattern = map[Kind]*regexp.Regexp{
	KindJina:             regexp.MustCompile(`^jina-embeddings`),
	KindVoyage:           regexp.MustCompile(`^voyage-`),
	KindOpenAI:           regexp.MustCompile(`^text-embedding-`),
	KindCohere:           regexp.MustCompile(`^embed-`),
	KindHuggingFace:      regexp.MustCompile(`^[\w.-]+/[\w.-]+$`),
	KindOllama:           regexp.MustCompile(`^[\w.:-]+$`),
	KindLocalTransformer: regexp.MustCompile(`^[\w.-]+/[\w.-]+$`),
}

// defaultDimensions is used when Config.Dimensions is unset (<=0) and the
// provider's actual dimensionality can't otherwise be inferred before the
// first request.
var defaultDimensions = map[Kind]int{
	KindJina:             1024,
	KindVoyage:           1024,
	KindOpenAI:           1536,
	KindCohere:           1024,
	KindHuggingFace:      384,
	KindOllama:           768,
	KindLocalTransformer: 384,
	KindCustom:           1536,
}

// resolveModel validates cfg.Model against its provider's pattern,
// substituting the provider default on mismatch and reporting that through
// substituted; it does not log (New logs the warning). custom and any
// empty pattern accept the given model verbatim.
func resolveModel(kind Kind, model string) (resolved string, substituted bool) {
	if kind == KindCustom {
		return model, false
	}
	pattern, hasPattern := modelPattern[kind]
	if model != "" && (!hasPattern || pattern.MatchString(model)) {
		return model, false
	}
	return defaultModels[kind], true
}
