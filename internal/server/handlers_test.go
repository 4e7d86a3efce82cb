package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumtrio/kptsignal/internal/factories"
	"github.com/quantumtrio/kptsignal/internal/models"
	"github.com/quantumtrio/kptsignal/internal/signal"
)

func testServer(t *testing.T) (*httptest.Server, *signal.Snapshot) {
	t.Helper()
	gen := factories.NewGenerator(42)
	restaurants := gen.Restaurants(20)
	records := gen.TimingRecords(restaurants, 300)
	snap := signal.BuildSnapshot(restaurants, records, 42, "synthetic")

	ts := httptest.NewServer(New(snap).Router())
	t.Cleanup(ts.Close)
	return ts, snap
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts, _ := testServer(t)
	var body map[string]string
	status := getJSON(t, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestOverview(t *testing.T) {
	ts, snap := testServer(t)
	var body struct {
		Status     string            `json:"status"`
		DataSource string            `json:"data_source"`
		SystemKPIs models.SystemKPIs `json:"system_kpis"`
	}
	status := getJSON(t, ts.URL+"/api/overview", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "operational", body.Status)
	assert.Equal(t, "synthetic", body.DataSource)
	assert.Equal(t, snap.SystemKPIs.TotalOrders, body.SystemKPIs.TotalOrders)
}

type restaurantsResponse struct {
	Total       int                        `json:"total"`
	Page        int                        `json:"page"`
	PerPage     int                        `json:"per_page"`
	Restaurants []models.RestaurantProfile `json:"restaurants"`
	Cities      []string                   `json:"cities"`
	BiasTypes   []string                   `json:"bias_types"`
}

func TestRestaurantsPagination(t *testing.T) {
	ts, snap := testServer(t)

	var body restaurantsResponse
	status := getJSON(t, ts.URL+"/api/restaurants", &body)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, len(snap.Profiles), body.Total)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 20, body.PerPage)
	assert.LessOrEqual(t, len(body.Restaurants), 20)
	assert.Equal(t, models.BiasTypes, body.BiasTypes)
	assert.Equal(t, snap.Cities, body.Cities)

	// sorted by reliability, worst signals first
	for i := 1; i < len(body.Restaurants); i++ {
		assert.GreaterOrEqual(t,
			body.Restaurants[i-1].ReliabilityScore,
			body.Restaurants[i].ReliabilityScore,
		)
	}

	var page2 restaurantsResponse
	getJSON(t, ts.URL+"/api/restaurants?page=2&per_page=5", &page2)
	assert.Equal(t, 2, page2.Page)
	assert.Equal(t, 5, page2.PerPage)
	assert.LessOrEqual(t, len(page2.Restaurants), 5)

	// a page past the end is empty, not an error
	var far restaurantsResponse
	status = getJSON(t, ts.URL+"/api/restaurants?page=999", &far)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, far.Restaurants)
}

func TestRestaurantsFilters(t *testing.T) {
	ts, snap := testServer(t)

	city := snap.CityAnalytics[0].City
	var byCity restaurantsResponse
	getJSON(t, ts.URL+"/api/restaurants?city="+city, &byCity)
	require.NotEmpty(t, byCity.Restaurants)
	for _, p := range byCity.Restaurants {
		assert.Equal(t, city, p.City)
	}

	var byBias restaurantsResponse
	getJSON(t, ts.URL+"/api/restaurants?bias=reliable", &byBias)
	for _, p := range byBias.Restaurants {
		assert.Equal(t, models.BiasReliable, p.DetectedBiasType)
	}

	var bySearch restaurantsResponse
	getJSON(t, ts.URL+"/api/restaurants?search=zzzznotfound", &bySearch)
	assert.Zero(t, bySearch.Total)
}

func TestRestaurantDetail(t *testing.T) {
	ts, snap := testServer(t)

	var body struct {
		Profile      models.RestaurantProfile `json:"profile"`
		Restaurant   models.Restaurant        `json:"restaurant"`
		HourlyKPT    []signal.HourlyKPT       `json:"hourly_kpt"`
		RecentOrders []models.EnrichedOrder   `json:"recent_orders"`
	}
	status := getJSON(t, ts.URL+"/api/restaurants/1", &body)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, 1, body.Profile.RestaurantID)
	assert.Equal(t, snap.Profiles[1].ReliabilityScore, body.Profile.ReliabilityScore)
	assert.Equal(t, 1, body.Restaurant.ID)
	assert.NotEmpty(t, body.HourlyKPT)
	assert.NotEmpty(t, body.RecentOrders)
	assert.LessOrEqual(t, len(body.RecentOrders), 20)

	var errBody map[string]string
	status = getJSON(t, ts.URL+"/api/restaurants/9999", &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", errBody["error"])

	status = getJSON(t, ts.URL+"/api/restaurants/abc", &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCollectionsEndpoints(t *testing.T) {
	ts, snap := testServer(t)

	var cities struct {
		Cities []models.CityAnalytic `json:"cities"`
	}
	getJSON(t, ts.URL+"/api/city-analytics", &cities)
	assert.Equal(t, snap.CityAnalytics, cities.Cities)

	var patterns struct {
		Patterns []models.HourlyPattern `json:"patterns"`
	}
	getJSON(t, ts.URL+"/api/hourly-patterns", &patterns)
	assert.Len(t, patterns.Patterns, 24)

	var flow struct {
		Orders []models.SignalFlowEntry `json:"orders"`
	}
	getJSON(t, ts.URL+"/api/signal-flow", &flow)
	assert.Equal(t, snap.SignalFlow, flow.Orders)

	var rush struct {
		RushData []models.RushEntry `json:"rush_data"`
	}
	getJSON(t, ts.URL+"/api/rush-index", &rush)
	assert.Equal(t, snap.RushIndex, rush.RushData)

	var heatmap struct {
		Heatmap []models.HeatmapCell `json:"heatmap"`
	}
	getJSON(t, ts.URL+"/api/bias-heatmap", &heatmap)
	assert.Equal(t, snap.BiasHeatmap, heatmap.Heatmap)

	var sim models.SimulationReport
	getJSON(t, ts.URL+"/api/simulation", &sim)
	assert.Equal(t, snap.Simulation, sim)
}

func TestPredictKPT(t *testing.T) {
	ts, snap := testServer(t)

	payload := map[string]interface{}{
		"restaurant_id": 1,
		"active_orders": 6,
		"staff_count":   3,
		"peak_hour":     1,
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/predict-kpt", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pred models.Prediction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pred))

	want := snap.Predict(signal.PredictInput{
		RestaurantID: 1, ActiveOrders: 6, StaffCount: 3, PeakHour: 1, DistanceKm: 3.0,
	})
	assert.Equal(t, want, pred)
	assert.GreaterOrEqual(t, pred.CorrectedKPTMinutes, 5.0)
	assert.Contains(t, pred.ETARecommendation, fmt.Sprintf("%.1f", pred.RecommendedRiderDispatchOffset))
}

func TestPredictKPTDefaults(t *testing.T) {
	ts, snap := testServer(t)

	resp, err := http.Post(ts.URL+"/api/predict-kpt", "application/json", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pred models.Prediction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pred))

	want := snap.Predict(signal.PredictInput{
		RestaurantID: 1, ActiveOrders: 5, StaffCount: 3, PeakHour: 0, DistanceKm: 3.0,
	})
	assert.Equal(t, want, pred)
}

func TestPredictKPTBadBody(t *testing.T) {
	ts, _ := testServer(t)

	resp, err := http.Post(ts.URL+"/api/predict-kpt", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
