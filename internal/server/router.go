package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metricsMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// The /api surface is the analysis-server contract the frontend speaks.
	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.handleHealth)
		api.Get("/config", s.handleConfig)
		api.Get("/model/info", s.handleModelInfo)
		api.Post("/auth/login", s.handleLogin)
		api.Post("/analyze", s.handleAnalyze)
	})

	// Serves previously uploaded videos back for playback.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.cfg.Upload.Dir))))

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(s.authMiddleware)

		v1.Get("/incidents", s.handleListIncidents)
		v1.Post("/incidents", s.handleCreateIncident)
		v1.Get("/incidents/stats", s.handleIncidentStats)
		v1.Get("/incidents/{incidentID}", s.handleGetIncident)
		v1.With(s.requireRole("admin")).
			Patch("/incidents/{incidentID}/status", s.handleUpdateIncidentStatus)

		v1.Get("/sync", s.handleSync)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		duration := time.Since(start)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", duration).
			Msg("http request")
	})
}
