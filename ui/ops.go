package ui

import (
	"encoding/json"
	"expvar"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"healthdash/internal/api"
	"healthdash/internal/dataset"
	"healthdash/internal/session"
)

// expvar names are process-global, so counters register once even when
// tests build several routers.
var publishOnce sync.Once

// NewOpsRouter builds the operational endpoints served away from the
// public port: liveness, readiness, the dataset profile, and expvar
// counters.
func NewOpsRouter(store *dataset.Store, sessions *session.Manager, hub *api.SSEHub) http.Handler {
	publishOnce.Do(func() {
		expvar.Publish("dashboard_active_sessions", expvar.Func(func() interface{} {
			return sessions.Len()
		}))
		expvar.Publish("dashboard_dataset_rows", expvar.Func(func() interface{} {
			return len(store.Rows())
		}))
		expvar.Publish("dashboard_sse_clients", expvar.Func(func() interface{} {
			return hub.TotalClients()
		}))
	})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		rows := len(store.Rows())
		if rows == 0 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "empty dataset"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ready", "rows": rows})
	})

	r.Get("/profile", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"profiles": store.Profiles(),
			"report":   store.Report(),
		})
	})

	r.Handle("/debug/vars", expvar.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[OPS] Failed to encode response: %v", err)
	}
}
