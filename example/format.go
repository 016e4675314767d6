package main

import (
	"fmt"
	"os"

	"github.com/WJQSERVER/cfgtree"
)

type InnerConfig struct {
	BlockSize    int `cfg:"block_size"`
	MaxNumBlocks int `cfg:"max_num_blocks"`
}

type SampleConfig struct {
	ModelName     string         `cfg:"model_name"`
	NumLayers     int            `cfg:"num_layers"`
	LearningRate  float64        `cfg:"learning_rate"`
	Enabled       bool           `cfg:"enabled"`
	Tags          []string       `cfg:"tags"`
	Meta          map[string]int `cfg:"meta"`
	OptionalField *string        `cfg:"optional_field"`
	Inner         InnerConfig    `cfg:"inner"`
}

// String makes the config print itself through fmt and log calls.
func (c *SampleConfig) String() string {
	return cfgtree.Format(c)
}

func main() {
	// Collections are built per instance, never shared between configs.
	cfg := &SampleConfig{
		ModelName:    "Qwen3-Coder",
		NumLayers:    32,
		LearningRate: 1e-4,
		Enabled:      true,
		Tags:         []string{"a", "b"},
		Meta:         map[string]int{"x": 1},
		Inner: InnerConfig{
			BlockSize:    64,
			MaxNumBlocks: 1024,
		},
	}

	fmt.Println(cfg)

	// 以流的形式写出, 每个块以换行结尾
	if err := cfgtree.NewEncoder(os.Stdout, cfgtree.WithIndent("\t")).Encode(cfg.Inner); err != nil {
		panic(err)
	}
}
