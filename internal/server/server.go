// ABOUTME: HTTP API for post generation, document upload, and conversation reset
// ABOUTME: Error kinds map onto status codes in exactly one place

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/orchestrator"
)

// Service is what the handlers need from the orchestrator.
type Service interface {
	Generate(ctx context.Context, req orchestrator.Request) (*orchestrator.Result, error)
	IngestDocument(ctx context.Context, filename string, data []byte, conversationID string) (*models.Document, error)
	ClearConversation(conversationID string) error
}

// Server serves the HTTP API.
type Server struct {
	service        Service
	maxUploadBytes int64
	logger         *zap.Logger
	httpServer     *http.Server
}

// New creates a Server listening on addr.
func New(addr string, service Service, maxUploadBytes int64, logger *zap.Logger) *Server {
	s := &Server{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate-post", s.handleGenerate)
	mux.HandleFunc("POST /api/documents", s.handleUpload)
	mux.HandleFunc("DELETE /api/conversation/{id}", s.handleClear)
	mux.HandleFunc("GET /{$}", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// ListenAndServe blocks serving requests until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type generateRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type generateResponse struct {
	ConversationID string                `json:"conversation_id"`
	Tool           string                `json:"tool"`
	Post           *models.GeneratedPost `json:"post"`
	Truncated      bool                  `json:"truncated,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		s.writeError(w, errs.New(errs.KindUnsupportedFormat, "request body is not valid JSON"))
		return
	}
	if req.Query == "" {
		s.writeError(w, errs.New(errs.KindUnsupportedFormat, "query is required"))
		return
	}

	result, err := s.service.Generate(r.Context(), orchestrator.Request{
		Query:          req.Query,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, generateResponse{
		ConversationID: result.ConversationID,
		Tool:           string(result.Tool),
		Post:           result.Post,
		Truncated:      result.Truncated,
	})
}

type uploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	SizeBytes  int64  `json:"size_bytes"`
	TokenCount int    `json:"token_count"`
	Tier       string `json:"tier"`
	Message    string `json:"message"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// The multipart reader gets one extra KB of headroom; the ingestor
	// enforces the real ceiling with a proper error.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+1024)

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.writeError(w, errs.Wrap(errs.KindPayloadTooLarge, err, "upload too large or malformed"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, errs.New(errs.KindUnsupportedFormat, "multipart field %q is required", "file"))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc, err := s.service.IngestDocument(r.Context(), header.Filename, data, r.FormValue("conversation_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, uploadResponse{
		DocumentID: doc.DocumentID,
		Filename:   doc.Filename,
		SizeBytes:  doc.SizeBytes,
		TokenCount: doc.TokenCount,
		Tier:       string(doc.Tier),
		Message:    ingestMessage(doc),
	})
}

// ingestMessage tells the uploader how the document will be used.
func ingestMessage(doc *models.Document) string {
	if doc.Tier == models.TierDirect {
		return fmt.Sprintf("Document ingested; its full text will be used directly. Reference it as %s.", doc.DocumentID)
	}
	return fmt.Sprintf("Document ingested and indexed for retrieval. Reference it as %s.", doc.DocumentID)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearConversation(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		s.logger.Info("request rejected", zap.String("kind", string(kind)), zap.Error(err))
	}

	s.writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
	}
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindLimitExceeded:
		return http.StatusBadRequest
	case errs.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case errs.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case errs.KindSourceUnavailable, errs.KindUpstreamUnavailable, errs.KindGenerationInvalid:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
