package project

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
	"github.com/ziadkadry99/routemap/internal/graphmodel"
	"github.com/ziadkadry99/routemap/internal/topology"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts project endpoints on the given router.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/projects/{project}", func(r chi.Router) {
		r.Get("/files", listFilesHandler(svc))
		r.Post("/files", createFileHandler(svc))
		r.Get("/files/{name}", getFileHandler(svc))
		r.Put("/files/{name}", saveFileHandler(svc))
		r.Delete("/files/{name}", deleteFileHandler(svc))
		r.Get("/topology", topologyHandler(svc))
		r.Get("/topology.mmd", mermaidHandler(svc))
		r.Get("/topology.html", reportHandler(svc))
		r.Get("/topology/ws", watchHandler(svc))
	})
}

type createFileRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type saveFileRequest struct {
	Code string `json:"code"`
}

func listFilesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := svc.Files(r.Context(), chi.URLParam(r, "project"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if files == nil {
			files = []ProjectFile{}
		}
		writeJSON(w, http.StatusOK, files)
	}
}

func getFileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.File(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

func createFileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if req.Type != "" {
			if _, ok := flowdoc.LookupFileType(req.Type); !ok {
				http.Error(w, "unknown file type", http.StatusBadRequest)
				return
			}
		}
		f, err := svc.CreateFile(r.Context(), chi.URLParam(r, "project"), req.Name, req.Type)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, f)
	}
}

func saveFileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveFileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		f, err := svc.SaveFile(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "name"), req.Code)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

func deleteFileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteFile(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "name")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func topologyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topo, err := svc.Topology(r.Context(), chi.URLParam(r, "project"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, graphmodel.Build(topo))
	}
}

func mermaidHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topo, err := svc.Topology(r.Context(), chi.URLParam(r, "project"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(graphmodel.Mermaid(graphmodel.Build(topo))))
	}
}

func reportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topo, err := svc.Topology(r.Context(), chi.URLParam(r, "project"))
		if err != nil {
			writeError(w, err)
			return
		}
		page, err := graphmodel.Report(topo)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}
}

// watchMessage is sent over the topology websocket.
type watchMessage struct {
	Type  string            `json:"type"` // "topology" or "error"
	Model *graphmodel.Model `json:"model,omitempty"`
	Error string            `json:"error,omitempty"`
}

func watchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "project")
		// Request timeouts must not end a long-lived watch.
		ctx := context.WithoutCancel(r.Context())

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			svc.log.Error("websocket upgrade", "project", projectID, "error", err)
			return
		}
		defer conn.Close()

		changes, cancel := svc.Hub().Subscribe(projectID)
		defer cancel()

		// The client never sends anything meaningful; reading detects close.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						svc.log.Debug("websocket read", "project", projectID, "error", err)
					}
					return
				}
			}
		}()

		send := func() bool {
			msg := watchMessage{Type: "topology"}
			topo, err := svc.Topology(ctx, projectID)
			if err != nil {
				msg = watchMessage{Type: "error", Error: err.Error()}
			} else {
				m := graphmodel.Build(topo)
				msg.Model = &m
			}
			if err := conn.WriteJSON(msg); err != nil {
				svc.log.Debug("websocket write", "project", projectID, "error", err)
				return false
			}
			return true
		}

		if !send() {
			return
		}
		for {
			select {
			case <-closed:
				return
			case <-changes:
				if !send() {
					return
				}
			}
		}
	}
}

// writeError maps service errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var pe *flowdoc.ParseError
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrFileExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, topology.ErrMalformedDocument), errors.As(err, &pe):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
