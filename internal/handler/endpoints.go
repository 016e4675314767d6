package handler

import (
	"net/http"

	"github.com/go-json-experiment/json"

	"github.com/WJQSERVER/cfgtree"
	"github.com/WJQSERVER/cfgtree/internal/logger"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.MarshalWrite(w, messageResponse{Message: "Hello World"}); err != nil {
		logger.FromRequest(r).Error().Err(err).Msg("error writing response")
	}
}

// getConfig serves the running configuration in its indented text form.
func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(cfgtree.Format(h.cfg))); err != nil {
		logger.FromRequest(r).Error().Err(err).Msg("error writing response")
	}
}
