package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI struct {
		APIKey          string  `yaml:"api_key"`
		Model           string  `yaml:"model"`
		Temperature     float64 `yaml:"temperature"`
		TopP            float64 `yaml:"top_p"`
		TopK            float64 `yaml:"top_k"`
		MaxOutputTokens int     `yaml:"max_output_tokens"`
	} `yaml:"ai"`
	Run struct {
		MaxWorkers           int    `yaml:"max_workers"`
		RefinementIterations int    `yaml:"refinement_iterations"`
		QNumber              int    `yaml:"q_number"`
		ScoreResults         bool   `yaml:"score_results"`
		OutputDir            string `yaml:"output_dir"`
	} `yaml:"run"`
	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
	LogMode string `yaml:"log_mode"`
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// a .env file if present, and environment variable overrides, in that
// order.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := defaults()

	// 2. Load YAML config when the file exists
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("PROFILEFORGE_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if model := os.Getenv("PROFILEFORGE_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if workers := os.Getenv("PROFILEFORGE_MAX_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid PROFILEFORGE_MAX_WORKERS: %q", workers)
		}
		cfg.Run.MaxWorkers = n
	}

	if cfg.Run.MaxWorkers < 1 {
		return nil, fmt.Errorf("max_workers must be at least 1, got %d", cfg.Run.MaxWorkers)
	}
	if cfg.Run.RefinementIterations < 0 || cfg.Run.RefinementIterations > 1 {
		return nil, fmt.Errorf("refinement_iterations must be 0 or 1, got %d", cfg.Run.RefinementIterations)
	}
	if cfg.Run.QNumber < 0 {
		return nil, fmt.Errorf("q_number must not be negative, got %d", cfg.Run.QNumber)
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.AI.Model = "gemini-2.0-flash-exp"
	cfg.AI.Temperature = 0.5
	cfg.AI.TopP = 0.8
	cfg.AI.TopK = 40
	cfg.AI.MaxOutputTokens = 40000
	cfg.Run.MaxWorkers = 2
	cfg.Run.RefinementIterations = 0
	cfg.Run.QNumber = 5
	cfg.Run.OutputDir = "."
	cfg.Cache.Path = "api_cache.json"
	cfg.LogMode = "dev"
	return cfg
}
