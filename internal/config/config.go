package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Data struct {
		Root     string `yaml:"root" toml:"root"`
		FileName string `yaml:"file_name" toml:"file_name"` // e.g. "edt.cru"
	} `yaml:"data" toml:"data"`
	Storage struct {
		DBPath string `yaml:"db_path" toml:"db_path"`
	} `yaml:"storage" toml:"storage"`
	Parser struct {
		Boilerplate  []string `yaml:"boilerplate" toml:"boilerplate"` // extra non-data line prefixes
		TraceTokens  bool     `yaml:"trace_tokens" toml:"trace_tokens"`
		TraceSymbols bool     `yaml:"trace_symbols" toml:"trace_symbols"`
	} `yaml:"parser" toml:"parser"`
	Output struct {
		PreviewLimit int `yaml:"preview_limit" toml:"preview_limit"`
	} `yaml:"output" toml:"output"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Data.Root = "SujetA_data"
	cfg.Data.FileName = "edt.cru"
	cfg.Storage.DBPath = "cru.db"
	cfg.Output.PreviewLimit = 10
	return &cfg
}

// LoadConfig reads a YAML or TOML file (chosen by extension) over the
// defaults, then applies environment overrides. A missing file yields an
// error wrapping os.ErrNotExist.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load config file
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(file), cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is LoadConfig falling back to Default (plus environment
// overrides) when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		_ = godotenv.Load()
		cfg = Default()
		applyEnv(cfg)
		return cfg, cfg.Validate()
	}
	return cfg, err
}

func applyEnv(cfg *Config) {
	if root := os.Getenv("CRU_DATA_ROOT"); root != "" {
		cfg.Data.Root = root
	}
	if name := os.Getenv("CRU_FILE_NAME"); name != "" {
		cfg.Data.FileName = name
	}
	if db := os.Getenv("CRU_DB_PATH"); db != "" {
		cfg.Storage.DBPath = db
	}
	if limit := os.Getenv("CRU_PREVIEW_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			cfg.Output.PreviewLimit = n
		}
	}
}

// Validate checks values that would make the tools misbehave.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.Data.FileName, `/\`) {
		return fmt.Errorf("data.file_name must be a bare file name, got %q", c.Data.FileName)
	}
	if c.Output.PreviewLimit < 0 {
		return fmt.Errorf("output.preview_limit must not be negative, got %d", c.Output.PreviewLimit)
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}
	return nil
}
