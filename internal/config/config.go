package config

import (
	"time"

	"github.com/WJQSERVER/cfgtree"
)

// ServerConfig is the top-level configuration of the serving process. It is
// populated from defaults, an optional JSON or YAML file, environment
// variables and command-line flags, in that order of precedence.
//
// Struct tags:
//   - cfg: field name in the text form logged at startup (cfgtree).
//   - env: environment variable name (caarlos0/env).
//   - envPrefix: prefix applied to nested env lookups.
//   - json, yaml: keys in the config file.
type ServerConfig struct {
	ModelName        string            `cfg:"model_name" env:"MODEL_NAME" json:"model_name" yaml:"model_name"`
	ModelType        string            `cfg:"model_type" env:"MODEL_TYPE" json:"model_type" yaml:"model_type"`
	ServedModelNames []string          `cfg:"served_model_names" env:"SERVED_MODEL_NAMES" envSeparator:"," json:"served_model_names" yaml:"served_model_names"`
	Labels           map[string]string `cfg:"labels" env:"LABELS" json:"labels" yaml:"labels"`
	LogLevel         string            `cfg:"log_level" env:"LOG_LEVEL" json:"log_level" yaml:"log_level"`

	// APIKey guards the API. It never appears in the text form.
	APIKey string `cfg:"-" env:"API_KEY" json:"api_key" yaml:"api_key"`

	// ConfigFile is the optional path to a .json, .yaml or .yml file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	ConfigFile string `cfg:"config_file" env:"CONFIG" json:"-" yaml:"-"`

	HTTP     HTTP     `cfg:"http" envPrefix:"HTTP_" json:"http" yaml:"http"`
	Cache    Cache    `cfg:"cache" envPrefix:"CACHE_" json:"cache" yaml:"cache"`
	Parallel Parallel `cfg:"parallel" envPrefix:"PARALLEL_" json:"parallel" yaml:"parallel"`
}

// HTTP holds listener and timeout settings of the API server.
type HTTP struct {
	// Address in "host:port" form, e.g. "0.0.0.0:8000".
	// Env: HTTP_ADDRESS
	Address string `cfg:"address" env:"ADDRESS" json:"address" yaml:"address"`

	// Env: HTTP_READ_TIMEOUT
	ReadTimeout time.Duration `cfg:"read_timeout" env:"READ_TIMEOUT" json:"read_timeout,format:units" yaml:"read_timeout"`

	// Env: HTTP_WRITE_TIMEOUT
	WriteTimeout time.Duration `cfg:"write_timeout" env:"WRITE_TIMEOUT" json:"write_timeout,format:units" yaml:"write_timeout"`

	// ShutdownTimeout bounds the graceful shutdown after a stop signal.
	// Env: HTTP_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `cfg:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" json:"shutdown_timeout,format:units" yaml:"shutdown_timeout"`
}

// Cache holds the paged KV-cache settings.
type Cache struct {
	BlockSize            int     `cfg:"block_size" env:"BLOCK_SIZE" json:"block_size" yaml:"block_size"`
	MaxNumBlocks         int     `cfg:"max_num_blocks" env:"MAX_NUM_BLOCKS" json:"max_num_blocks" yaml:"max_num_blocks"`
	GPUMemoryUtilization float64 `cfg:"gpu_memory_utilization" env:"GPU_MEMORY_UTILIZATION" json:"gpu_memory_utilization" yaml:"gpu_memory_utilization"`
}

// Parallel holds the model parallelism layout.
type Parallel struct {
	TensorParallelSize   int `cfg:"tensor_parallel_size" env:"TENSOR_PARALLEL_SIZE" json:"tensor_parallel_size" yaml:"tensor_parallel_size"`
	PipelineParallelSize int `cfg:"pipeline_parallel_size" env:"PIPELINE_PARALLEL_SIZE" json:"pipeline_parallel_size" yaml:"pipeline_parallel_size"`
}

// Default returns the built-in configuration. Every call allocates its own
// slices and maps, so callers may modify the result freely.
func Default() *ServerConfig {
	return &ServerConfig{
		ModelName:        "Qwen3-Coder",
		ModelType:        "qwen_3_moe",
		ServedModelNames: []string{"Qwen3-Coder"},
		Labels:           map[string]string{},
		LogLevel:         "info",
		HTTP: HTTP{
			Address:         "0.0.0.0:8000",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Cache: Cache{
			BlockSize:            64,
			MaxNumBlocks:         1024,
			GPUMemoryUtilization: 0.9,
		},
		Parallel: Parallel{
			TensorParallelSize:   1,
			PipelineParallelSize: 1,
		},
	}
}

// String returns the indented text form of the configuration. Secrets are
// left out.
func (cfg *ServerConfig) String() string {
	return cfgtree.Format(cfg)
}

// GetServerConfig loads, merges, and validates the configuration from all
// available sources. Later sources override non-zero fields of earlier ones:
//  1. Default values
//  2. Config file (path resolved from sources 3 and 4)
//  3. Environment variables
//  4. Command-line flags (args, without the program name)
func GetServerConfig(args []string) (*ServerConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		build()
}
