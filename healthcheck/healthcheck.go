package healthcheck

import (
	"encoding/json"
	"net/http"
)

// Self reports the liveness of the service.
func Self(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
