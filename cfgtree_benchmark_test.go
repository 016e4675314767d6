package cfgtree

import (
	"io"
	"testing"
	"time"
)

// benchmark struct, shaped like a model-serving configuration
type benchmarkConfig struct {
	Model struct {
		Name      string            `cfg:"name"`
		Revision  string            `cfg:"revision"`
		NumLayers int               `cfg:"num_layers"`
		DType     string            `cfg:"dtype"`
		RopeScale float64           `cfg:"rope_scale"`
		Extra     map[string]string `cfg:"extra"`
	} `cfg:"model"`
	Cache struct {
		BlockSize    int     `cfg:"block_size"`
		MaxNumBlocks int     `cfg:"max_num_blocks"`
		GPUFraction  float64 `cfg:"gpu_fraction"`
		Swap         *struct {
			Enabled bool   `cfg:"enabled"`
			Path    string `cfg:"path"`
		} `cfg:"swap"`
	} `cfg:"cache"`
	Host     string        `cfg:"host"`
	Port     int           `cfg:"port"`
	Timeout  time.Duration `cfg:"timeout"`
	Devices  []int         `cfg:"devices"`
	Features []string      `cfg:"features"`
}

func newBenchmarkConfig() *benchmarkConfig {
	cfg := &benchmarkConfig{
		Host:     "0.0.0.0",
		Port:     8000,
		Timeout:  30 * time.Second,
		Devices:  []int{0, 1, 2, 3},
		Features: []string{"prefix-caching", "chunked-prefill"},
	}
	cfg.Model.Name = "Qwen3-Coder"
	cfg.Model.Revision = "main"
	cfg.Model.NumLayers = 48
	cfg.Model.DType = "bfloat16"
	cfg.Model.RopeScale = 1.0
	cfg.Model.Extra = map[string]string{"trust_remote_code": "true", "tokenizer": "auto"}
	cfg.Cache.BlockSize = 16
	cfg.Cache.MaxNumBlocks = 4096
	cfg.Cache.GPUFraction = 0.9
	return cfg
}

// BenchmarkFormat measures formatting a config tree into a string.
func BenchmarkFormat(b *testing.B) {
	cfg := newBenchmarkConfig()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Format(cfg)
	}
}

// BenchmarkEncoder measures streaming the same tree to a writer.
func BenchmarkEncoder(b *testing.B) {
	cfg := newBenchmarkConfig()
	enc := NewEncoder(io.Discard)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := enc.Encode(cfg); err != nil {
			b.Fatal(err)
		}
	}
}
