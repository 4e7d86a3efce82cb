package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/quantumtrio/kptsignal/internal/signal"
)

// Server exposes the analytics snapshot over HTTP. The snapshot is
// immutable, so handlers read it without locking.
type Server struct {
	snap *signal.Snapshot
}

func New(snap *signal.Snapshot) *Server {
	return &Server{snap: snap}
}

// Router wires the API routes. The dashboard is a separate static app, so
// CORS is open for GET/POST.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/overview", s.handleOverview)
		r.Get("/restaurants", s.handleRestaurants)
		r.Get("/restaurants/{restaurantID}", s.handleRestaurantDetail)
		r.Get("/city-analytics", s.handleCityAnalytics)
		r.Get("/hourly-patterns", s.handleHourlyPatterns)
		r.Get("/signal-flow", s.handleSignalFlow)
		r.Get("/rush-index", s.handleRushIndex)
		r.Get("/bias-heatmap", s.handleBiasHeatmap)
		r.Get("/simulation", s.handleSimulation)
		r.Post("/predict-kpt", s.handlePredictKPT)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
