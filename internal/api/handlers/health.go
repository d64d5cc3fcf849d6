package handlers

import (
	"encoding/json"
	"net/http"
)

// Health returns a simple JSON payload to indicate the API is alive.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Readiness reports whether a dataset is loaded and how the layout is doing.
func Readiness(layout LayoutController, nodes int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := layout.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"nodes":  nodes,
			"state":  snap.State,
			"alpha":  snap.Alpha,
			"tick":   snap.Tick,
		})
	}
}
