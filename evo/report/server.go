package report

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang/glog"
	"github.com/gorilla/websocket"

	"github.com/baldhumanity/neuroevo/evo/storage"
)

// NewRouter serves the live feed of hub and, when store is not nil, the run
// history it holds.
//
//	GET /api/ping
//	GET /api/latest
//	GET /api/runs
//	GET /api/runs/{runID}/generations
//	GET /api/runs/{runID}/champion
//	GET /ws
func NewRouter(hub *Hub, store storage.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/latest", func(w http.ResponseWriter, r *http.Request) {
		s, ok := hub.Latest()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no generation yet"})
			return
		}
		writeJSON(w, http.StatusOK, s)
	})

	if store != nil {
		r.Get("/api/runs", func(w http.ResponseWriter, r *http.Request) {
			runs, err := store.ListRuns(r.Context())
			if err != nil {
				glog.Errorf("report: list runs: %v", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
		})
		r.Get("/api/runs/{runID}/generations", func(w http.ResponseWriter, r *http.Request) {
			runID := chi.URLParam(r, "runID")
			summaries, err := store.ListSummaries(r.Context(), runID)
			if err != nil {
				glog.Errorf("report: list summaries for %s: %v", runID, err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "generations": summaries})
		})
		r.Get("/api/runs/{runID}/champion", func(w http.ResponseWriter, r *http.Request) {
			runID := chi.URLParam(r, "runID")
			champion, ok, err := store.GetChampion(r.Context(), runID)
			if err != nil {
				glog.Errorf("report: champion for %s: %v", runID, err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no champion for run"})
				return
			}
			writeJSON(w, http.StatusOK, champion)
		})
	}

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, w, r)
	})
	return r
}

func serveWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{send: make(chan []byte, 16)}
	hub.Register(client)

	if s, ok := hub.Latest(); ok {
		client.sendJSON(wsMessage{Type: "latest", Payload: mustMarshal(s)})
	}

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			glog.V(1).Infof("report: websocket write: %v", err)
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
