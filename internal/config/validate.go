package config

import (
	"fmt"

	"github.com/adnify/retrieval/internal/indexsvc"
)

// Validate checks the enumerated constraints of spec.md §6/§7's
// ConfigError: mode must be one of the two closed values, and a custom
// embedding provider must carry a base_url.
func Validate(c *Config) error {
	switch indexsvc.Mode(c.Mode) {
	case indexsvc.ModeStructural, indexsvc.ModeSemantic:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", indexsvc.ModeStructural, indexsvc.ModeSemantic, c.Mode)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", c.ChunkOverlap)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}

	if c.Embedding.Provider == "custom" && c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required for the custom provider")
	}

	return nil
}
