// Package handler implements the HTTP surface of the server: liveness, a
// greeting endpoint and a diagnostic view of the running configuration.
package handler

import (
	"github.com/WJQSERVER/cfgtree/internal/config"
	"github.com/WJQSERVER/cfgtree/internal/logger"
)

type Handler struct {
	cfg *config.ServerConfig

	logger *logger.Logger
}

func NewHandler(cfg *config.ServerConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		cfg:    cfg,
		logger: logger,
	}
}
