package handlers

import "net/http"

// Root is the unauthenticated liveness probe.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "hello-world!",
		"status":  "ok",
	})
}

// Healthz reports process liveness for orchestrators.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
