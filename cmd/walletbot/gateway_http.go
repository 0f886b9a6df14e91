package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sipeed/walletbot/pkg/config"
	"github.com/sipeed/walletbot/pkg/logger"
)

// readiness is the live state reported by /ready.
type readiness struct {
	Store   string
	Session string
	Chains  []*config.EVMChain
}

type chainStatus struct {
	Name    string `json:"name"`
	ChainID int64  `json:"chain_id"`
}

// setupGatewayHTTP creates an HTTP server for health, readiness and metrics
func setupGatewayHTTP(cfg *config.Config, ready func() readiness) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"service": "walletbot",
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		state := ready()
		chains := make([]chainStatus, 0, len(state.Chains))
		for _, c := range state.Chains {
			chains = append(chains, chainStatus{Name: c.Name, ChainID: c.ChainID})
		}

		status, code := "ready", http.StatusOK
		if len(chains) == 0 {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]any{
			"status":  status,
			"service": "walletbot",
			"store":   state.Store,
			"session": state.Session,
			"chains":  chains,
		})
	})

	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf("%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WarnCF("gateway", "Failed to write response", map[string]any{"error": err.Error()})
	}
}
