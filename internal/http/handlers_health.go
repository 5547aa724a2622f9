package httpx

import "net/http"

// healthStatus is the /healthz response body.
type healthStatus struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// healthHandler answers readiness/liveness checks and names the client store backend.
func healthHandler(storeBackend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		WriteJSON(w, http.StatusOK, healthStatus{Status: "ok", Store: storeBackend})
	}
}
