package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	envCfg  *ServerConfig
	flagCfg *ServerConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{}
}

func (b *configBuilder) build() (*ServerConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	configs := make([]*ServerConfig, 0, 3)
	if path := b.configFile(); path != "" {
		fileCfg, err := parseFile(path)
		if err != nil {
			return nil, fmt.Errorf("error occurred during building config: %w", err)
		}
		configs = append(configs, fileCfg)
	}
	if b.envCfg != nil {
		configs = append(configs, b.envCfg)
	}
	if b.flagCfg != nil {
		configs = append(configs, b.flagCfg)
	}

	config := Default()
	for _, cfg := range configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &ServerConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.envCfg = envCfg
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flagCfg, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.flagCfg = flagCfg
	return b
}

// configFile returns the file path named by the flags, else by the
// environment.
func (b *configBuilder) configFile() string {
	if b.flagCfg != nil && b.flagCfg.ConfigFile != "" {
		return b.flagCfg.ConfigFile
	}
	if b.envCfg != nil {
		return b.envCfg.ConfigFile
	}
	return ""
}
