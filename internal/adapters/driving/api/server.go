// Package api exposes the ingestion and chat services over HTTP.
// Answers stream to the client as chunked plain text, one fragment per
// write, so browsers can render them as they arrive.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/paperchat/internal/core/domain"
	"github.com/custodia-labs/paperchat/internal/core/ports/driving"
	"github.com/custodia-labs/paperchat/internal/logger"
)

// Server serves the HTTP API.
type Server struct {
	httpServer *http.Server
	chat       driving.ChatService
	ingest     driving.IngestionService
}

// chatRequest is the POST chat body.
type chatRequest struct {
	Messages domain.History `json:"messages"`
}

// ingestResponse is the POST ingest reply.
type ingestResponse struct {
	Corpus     string `json:"corpus"`
	Outcome    string `json:"outcome"`
	ChunkCount int    `json:"chunk_count"`
}

// corporaResponse is the GET corpora reply.
type corporaResponse struct {
	Corpora []string `json:"corpora"`
}

// errorResponse is the error reply for every endpoint.
type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates an API server on addr.
func NewServer(addr string, chat driving.ChatService, ingest driving.IngestionService) *Server {
	s := &Server{
		chat:   chat,
		ingest: ingest,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/corpora", s.handleListCorpora)
	r.Route("/corpora/{corpus}", func(r chi.Router) {
		r.Post("/ingest", s.handleIngest)
		r.Post("/chat", s.handleChat)
	})

	return r
}

// ListenAndServe runs the server until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	logger.Info("http server listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleListCorpora(w http.ResponseWriter, r *http.Request) {
	names, err := s.chat.ListCorpora(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, corporaResponse{Corpora: names})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	corpus := chi.URLParam(r, "corpus")

	result, err := s.ingest.Ingest(r.Context(), corpus)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		Corpus:     result.Corpus.Name,
		Outcome:    string(result.Outcome),
		ChunkCount: result.ChunkCount,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	corpus := chi.URLParam(r, "corpus")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	stream, err := s.chat.Chat(r.Context(), corpus, req.Messages)
	if err != nil {
		writeError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			// Headers are gone; all we can do is stop mid-stream.
			logger.Warn("chat stream for %q aborted: %v", corpus, err)
			return
		}
		if _, err := io.WriteString(w, fragment); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCorpusNotFound), errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidHistory),
		errors.Is(err, domain.ErrManifestInvalid),
		errors.Is(err, domain.ErrDuplicateTitle):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingFailed),
		errors.Is(err, domain.ErrGenerationFailed),
		errors.Is(err, domain.ErrIndexUnavailable):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}
