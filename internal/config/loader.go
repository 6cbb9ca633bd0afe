package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adnify/retrieval/internal/indexsvc"
	"github.com/spf13/viper"
)

// Loader loads a workspace's Config from its state directory, following
// the priority order of spec.md §6: environment variables override the
// config file, which overrides built-in defaults.
type Loader interface {
	Load() (*Config, error)
}

type loader struct {
	workspace string
}

// NewLoader returns a Loader that searches
// workspace/<indexsvc.StateDirName>/config.yaml.
func NewLoader(workspace string) Loader {
	return &loader{workspace: workspace}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.workspace, indexsvc.StateDirName)
	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{
		"mode", "chunk_size", "chunk_overlap", "max_file_size",
		"embedding.provider", "embedding.api_key", "embedding.model",
		"embedding.base_url", "embedding.dimensions",
	} {
		_ = v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("mode", def.Mode)
	v.SetDefault("chunk_size", def.ChunkSize)
	v.SetDefault("chunk_overlap", def.ChunkOverlap)
	v.SetDefault("max_file_size", def.MaxFileSize)
	v.SetDefault("ignored_dirs", def.IgnoredDirs)
	v.SetDefault("included_exts", def.IncludedExts)
	v.SetDefault("embedding.provider", def.Embedding.Provider)
	v.SetDefault("embedding.model", def.Embedding.Model)
	v.SetDefault("embedding.base_url", def.Embedding.BaseURL)
	v.SetDefault("embedding.dimensions", def.Embedding.Dimensions)
}

// Load is a convenience wrapper around NewLoader(workspace).Load().
func Load(workspace string) (*Config, error) {
	return NewLoader(workspace).Load()
}

// LoadFromCwd loads configuration using the current working directory as
// the workspace root.
func LoadFromCwd() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return Load(wd)
}
