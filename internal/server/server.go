// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"retailtrends/internal/adapter/storage"
	"retailtrends/internal/config"
	"retailtrends/internal/server/handlers"
	"retailtrends/internal/service/generation"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	store *storage.RecordStore,
	runner *generation.Runner,
	natsConn *nats.Conn,
	latestKey string,
	eventsTopic string,
	log zerolog.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	analysisHandler := handlers.NewAnalysisHandler(store, latestKey)
	runHandler := handlers.NewRunHandler(runner)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Raw record sets
			r.Get("/records", analysisHandler.GetRecords)

			// Aggregated analysis views
			r.Route("/analysis", func(r chi.Router) {
				r.Get("/sentiment", analysisHandler.GetSentiment)
				r.Get("/products", analysisHandler.GetProducts)
				r.Get("/regions", analysisHandler.GetRegions)
			})

			// Generation runs
			r.Post("/runs", runHandler.TriggerRun)
		})
	})

	// Prometheus metrics
	router.Handle("/metrics", promhttp.Handler())

	// WebSocket endpoint for run lifecycle events
	router.Get("/ws/runs", handlers.RunWebSocketHandler(natsConn, eventsTopic, log))

	// Static dashboard
	if cfg.WebDir != "" {
		if _, err := os.Stat(cfg.WebDir); err == nil {
			router.Handle("/*", http.FileServer(http.Dir(cfg.WebDir)))
		}
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
