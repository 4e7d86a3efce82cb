package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quantumtrio/kptsignal/internal/models"
	"github.com/quantumtrio/kptsignal/internal/signal"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "operational",
		"team":              "QuantumTrio",
		"data_source":       s.snap.DataSource,
		"system_kpis":       s.snap.SystemKPIs,
		"skipped_records":   s.snap.Skipped,
		"snapshot_built_at": s.snap.BuiltAt.Format(time.RFC3339),
		"timestamp":         time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleRestaurants(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	city := r.URL.Query().Get("city")
	bias := r.URL.Query().Get("bias")
	search := strings.ToLower(r.URL.Query().Get("search"))

	profiles := make([]models.RestaurantProfile, 0, len(s.snap.Profiles))
	for _, p := range s.snap.Profiles {
		if city != "" && p.City != city {
			continue
		}
		if bias != "" && p.DetectedBiasType != bias {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.RestaurantName), search) {
			continue
		}
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].ReliabilityScore != profiles[j].ReliabilityScore {
			return profiles[i].ReliabilityScore > profiles[j].ReliabilityScore
		}
		return profiles[i].RestaurantID < profiles[j].RestaurantID
	})

	total := len(profiles)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total":       total,
		"page":        page,
		"per_page":    perPage,
		"restaurants": profiles[start:end],
		"cities":      s.snap.Cities,
		"bias_types":  models.BiasTypes,
	})
}

func (s *Server) handleRestaurantDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "restaurantID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	profile, okProfile := s.snap.Profiles[id]
	restaurant, okRestaurant := s.snap.Restaurants[id]
	if !okProfile || !okRestaurant {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	orders := s.snap.OrdersForRestaurant(id, 100)
	recent := orders
	if len(recent) > 20 {
		recent = recent[:20]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"profile":       profile,
		"restaurant":    restaurant,
		"hourly_kpt":    signal.HourlyKPTForOrders(orders),
		"recent_orders": recent,
	})
}

func (s *Server) handleCityAnalytics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"cities": s.snap.CityAnalytics})
}

func (s *Server) handleHourlyPatterns(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"patterns": s.snap.HourlyPatterns})
}

func (s *Server) handleSignalFlow(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": s.snap.SignalFlow})
}

func (s *Server) handleRushIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"rush_data": s.snap.RushIndex})
}

func (s *Server) handleBiasHeatmap(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"heatmap": s.snap.BiasHeatmap})
}

func (s *Server) handleSimulation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.snap.Simulation)
}

type predictRequest struct {
	RestaurantID *int     `json:"restaurant_id"`
	ActiveOrders *int     `json:"active_orders"`
	StaffCount   *int     `json:"staff_count"`
	PeakHour     *int     `json:"peak_hour"`
	DistanceKm   *float64 `json:"distance_km"`
}

func (s *Server) handlePredictKPT(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	// An empty body means "all defaults", same as {}.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := signal.PredictInput{
		RestaurantID: intOr(req.RestaurantID, 1),
		ActiveOrders: intOr(req.ActiveOrders, 5),
		StaffCount:   intOr(req.StaffCount, 3),
		PeakHour:     intOr(req.PeakHour, 0),
		DistanceKm:   floatOr(req.DistanceKm, 3.0),
	}
	respondJSON(w, http.StatusOK, s.snap.Predict(in))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
