package config

// validate checks that the final merged [ServerConfig] can be used at
// startup.
func (cfg *ServerConfig) validate() error {
	if cfg.ModelName == "" {
		return ErrInvalidModelConfigs
	}

	if cfg.HTTP.Address == "" || cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 || cfg.HTTP.ShutdownTimeout < 0 {
		return ErrInvalidHTTPConfigs
	}

	if cfg.Cache.BlockSize <= 0 || cfg.Cache.MaxNumBlocks <= 0 {
		return ErrInvalidCacheConfigs
	}
	if cfg.Cache.GPUMemoryUtilization <= 0 || cfg.Cache.GPUMemoryUtilization > 1 {
		return ErrInvalidCacheConfigs
	}

	if cfg.Parallel.TensorParallelSize <= 0 || cfg.Parallel.PipelineParallelSize <= 0 {
		return ErrInvalidParallelConfigs
	}

	return nil
}
