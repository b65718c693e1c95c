package handler

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

// Health is a liveness probe endpoint.
// Returns 200 OK if the server is running.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready is a readiness probe endpoint. It pings every registered dependency
// and returns 503 naming the dependencies that are down.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.health))
	for name := range h.health {
		names = append(names, name)
	}
	sort.Strings(names)

	status := make(map[string]string, len(names))
	var down []string
	for _, name := range names {
		if err := h.health[name].Ping(ctx); err != nil {
			logger.Log.Warn("readiness check failed", "dependency", name, "error", err)
			down = append(down, name)
			continue
		}
		status[name] = "ok"
	}

	if len(down) > 0 {
		utils.WriteError(w, http.StatusServiceUnavailable, "unavailable: "+strings.Join(down, ", "))
		return
	}
	utils.WriteJSON(w, http.StatusOK, "ok", status)
}
