package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// ServerInfo is the document served at "/". It mirrors what the real
// service publishes so the probe can be exercised locally.
type ServerInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Transport   string `json:"transport,omitempty"`
	MCPEndpoint string `json:"mcp_endpoint,omitempty"`
	HealthCheck string `json:"health_check,omitempty"`
}

func DefaultInfo() ServerInfo {
	return ServerInfo{
		Name:        "stub-mcp-server",
		Version:     "0.1.0",
		Description: "Local stand-in exposing only the plain HTTP info and health endpoints",
		Transport:   "StreamableHTTP",
		MCPEndpoint: "/mcp",
		HealthCheck: "/health",
	}
}

type Server struct {
	Logger *zap.Logger
	Info   ServerInfo
}

func NewServer(l *zap.Logger, info ServerInfo) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Info: info}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleInfo)

	return r
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.Logger.Info("info_served",
		zap.String("remote", r.RemoteAddr),
		zap.String("request_id", r.Header.Get("X-Request-Id")),
	)
	writeJSON(w, http.StatusOK, s.Info)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.Info.Name,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
