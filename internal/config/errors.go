package config

import "errors"

// Errors returned while loading and validating [ServerConfig].
var (
	// ErrInvalidHTTPConfigs indicates an empty listen address or a negative
	// timeout.
	ErrInvalidHTTPConfigs = errors.New("invalid http configuration")
	// ErrInvalidCacheConfigs indicates a non-positive block size or block
	// count, or a memory fraction outside (0, 1].
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidParallelConfigs indicates a non-positive parallel size.
	ErrInvalidParallelConfigs = errors.New("invalid parallel configuration")
	// ErrInvalidModelConfigs indicates an empty model name.
	ErrInvalidModelConfigs = errors.New("invalid model configuration")
	// ErrUnsupportedConfigFile indicates a config file extension other than
	// .json, .yaml or .yml.
	ErrUnsupportedConfigFile = errors.New("unsupported config file format")
)
