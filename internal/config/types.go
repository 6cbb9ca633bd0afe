// Package config loads the layered configuration of spec.md §6's
// "Configuration (enumerated)" into an indexsvc.Config, following the
// teacher's internal/config: environment → YAML file → built-in defaults,
// via spf13/viper. Command-line flags are not one of the layers.
package config

import (
	"github.com/adnify/retrieval/internal/embedder"
	"github.com/adnify/retrieval/internal/indexsvc"
)

// FileName is the project config file name searched for under the
// workspace root, mirroring the teacher's ".cortex/config.yml" convention
// adapted to this project's state directory (spec.md §6).
const FileName = "config.yaml"

// EnvPrefix is the environment variable prefix bound by viper, e.g.
// ADNIFY_EMBEDDING_PROVIDER.
const EnvPrefix = "ADNIFY"

// Config is the on-disk/env-bound mirror of indexsvc.Config, using
// lowercase YAML keys and mapstructure tags for viper.
type Config struct {
	Mode         string   `yaml:"mode" mapstructure:"mode"`
	ChunkSize    int      `yaml:"chunk_size" mapstructure:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`
	MaxFileSize  int64    `yaml:"max_file_size" mapstructure:"max_file_size"`
	IgnoredDirs  []string `yaml:"ignored_dirs" mapstructure:"ignored_dirs"`
	IncludedExts []string `yaml:"included_exts" mapstructure:"included_exts"`

	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
}

// EmbeddingConfig mirrors embedder.Config for YAML/env binding.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"`
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	Model      string `yaml:"model" mapstructure:"model"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"`
}

// Default returns the defaults enumerated in spec.md §6.
func Default() *Config {
	def := indexsvc.DefaultConfig()
	return &Config{
		Mode:         string(def.Mode),
		ChunkSize:    def.ChunkSize,
		ChunkOverlap: def.ChunkOverlap,
		MaxFileSize:  def.MaxFileSize,
		IgnoredDirs:  def.IgnoredDirs,
		IncludedExts: def.IncludedExts,
		Embedding: EmbeddingConfig{
			Provider: string(embedder.KindLocalTransformer),
		},
	}
}

// ToServiceConfig converts the loaded Config into an indexsvc.Config.
func (c *Config) ToServiceConfig() indexsvc.Config {
	return indexsvc.Config{
		Mode:         indexsvc.Mode(c.Mode),
		ChunkSize:    c.ChunkSize,
		ChunkOverlap: c.ChunkOverlap,
		MaxFileSize:  c.MaxFileSize,
		IgnoredDirs:  c.IgnoredDirs,
		IncludedExts: c.IncludedExts,
		Embedding: embedder.Config{
			Provider:   embedder.Kind(c.Embedding.Provider),
			APIKey:     c.Embedding.APIKey,
			Model:      c.Embedding.Model,
			BaseURL:    c.Embedding.BaseURL,
			Dimensions: c.Embedding.Dimensions,
		},
	}
}
