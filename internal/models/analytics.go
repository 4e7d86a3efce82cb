package models

// RestaurantProfile aggregates the timing signals of one restaurant.
type RestaurantProfile struct {
	RestaurantID     int     `json:"restaurant_id"`
	RestaurantName   string  `json:"restaurant_name"`
	City             string  `json:"city"`
	OrderCount       int     `json:"order_count"`
	AvgTrueKPT       float64 `json:"avg_true_kpt"`
	AvgMarkedKPT     float64 `json:"avg_marked_kpt"`
	AvgForBias       float64 `json:"avg_for_bias"`
	AvgIdleTime      float64 `json:"avg_idle_time"`
	ReliabilityScore float64 `json:"reliability_score"`
	DetectedBiasType string  `json:"detected_bias_type"`
	KPTErrorPct      float64 `json:"kpt_error_pct"`
	SignalQuality    string  `json:"signal_quality"`
}

// SystemKPIs are the platform-wide headline metrics.
type SystemKPIs struct {
	TotalOrders             int            `json:"total_orders"`
	TotalRestaurants        int            `json:"total_restaurants"`
	AvgTrueKPT              float64        `json:"avg_true_kpt"`
	AvgMarkedKPT            float64        `json:"avg_marked_kpt"`
	AvgIdleTime             float64        `json:"avg_idle_time"`
	AvgForBias              float64        `json:"avg_for_bias"`
	ETAErrorP50Before       float64        `json:"eta_error_p50_before"`
	ETAErrorP90Before       float64        `json:"eta_error_p90_before"`
	ETAErrorP50After        float64        `json:"eta_error_p50_after"`
	ETAErrorP90After        float64        `json:"eta_error_p90_after"`
	SignalImprovementPct    int            `json:"signal_improvement_pct"`
	BiasDistribution        map[string]int `json:"bias_distribution"`
	ReliableRestaurantsPct  float64        `json:"reliable_restaurants_pct"`
	HighBiasRestaurantsPct  float64        `json:"high_bias_restaurants_pct"`
}

type CityAnalytic struct {
	City            string  `json:"city"`
	Tier            int     `json:"tier"`
	OrderCount      int     `json:"order_count"`
	AvgIdleTime     float64 `json:"avg_idle_time"`
	AvgForBias      float64 `json:"avg_for_bias"`
	AvgTrueKPT      float64 `json:"avg_true_kpt"`
	DensityIndex    float64 `json:"density_index"`
	CongestionIndex float64 `json:"congestion_index"`
	RushIndex       float64 `json:"rush_index"`
}

type HourlyPattern struct {
	Hour       int     `json:"hour"`
	HourLabel  string  `json:"hour_label"`
	OrderCount int     `json:"order_count"`
	AvgKPT     float64 `json:"avg_kpt"`
	AvgBias    float64 `json:"avg_bias"`
	AvgIdle    float64 `json:"avg_idle"`
	IsPeak     bool    `json:"is_peak"`
}

// SignalFlowEntry is one row of the dashboard's live-correction timeline.
type SignalFlowEntry struct {
	OrderID       string  `json:"order_id"`
	Restaurant    string  `json:"restaurant"`
	TrueKPT       float64 `json:"true_kpt"`
	MarkedKPT     float64 `json:"marked_kpt"`
	CorrectedKPT  float64 `json:"corrected_kpt"`
	Bias          float64 `json:"bias"`
	Idle          float64 `json:"idle"`
	SignalQuality string  `json:"signal_quality"`
}

// RushEntry ranks a restaurant by how much its kitchen slows down at peak.
type RushEntry struct {
	RestaurantID   int     `json:"restaurant_id"`
	RestaurantName string  `json:"restaurant_name"`
	City           string  `json:"city"`
	PeakKPT        float64 `json:"peak_kpt"`
	OffPeakKPT     float64 `json:"off_peak_kpt"`
	RushMultiplier float64 `json:"rush_multiplier"`
	LoadSpike      float64 `json:"load_spike"`
}

// HeatmapCell counts detected bias types across a city's restaurants.
type HeatmapCell struct {
	City            string  `json:"city"`
	Total           int     `json:"total"`
	Reliable        int     `json:"reliable"`
	RiderTriggered  int     `json:"rider_triggered"`
	SystematicDelay int     `json:"systematic_delay"`
	PeakManipulator int     `json:"peak_manipulator"`
	ReliabilityRate float64 `json:"reliability_rate"`
}

// Prediction is the estimator output for one ad-hoc request.
type Prediction struct {
	RestaurantID                   int     `json:"restaurant_id"`
	RestaurantName                 string  `json:"restaurant_name"`
	City                           string  `json:"city"`
	RawKPTMinutes                  float64 `json:"raw_kpt_minutes"`
	CorrectedKPTMinutes            float64 `json:"corrected_kpt_minutes"`
	ConfidenceScore                float64 `json:"confidence_score"`
	SignalQuality                  string  `json:"signal_quality"`
	DetectedBiasType               string  `json:"detected_bias_type"`
	RushIndex                      float64 `json:"rush_index"`
	LoadIndex                      float64 `json:"load_index"`
	RecommendedRiderDispatchOffset float64 `json:"recommended_rider_dispatch_offset"`
	ETARecommendation              string  `json:"eta_recommendation"`
}

// ErrorHistogram buckets absolute ETA errors into 2-minute bins.
type ErrorHistogram struct {
	Buckets []string `json:"buckets"`
	Counts  []int    `json:"counts"`
}

// ErrorDistribution summarises one side of the correction simulation.
type ErrorDistribution struct {
	P50       float64        `json:"p50"`
	P75       float64        `json:"p75"`
	P90       float64        `json:"p90"`
	Mean      float64        `json:"mean"`
	Histogram ErrorHistogram `json:"histogram"`
}

type SimulationImprovement struct {
	P50ReductionPct          float64 `json:"p50_reduction_pct"`
	P90ReductionPct          float64 `json:"p90_reduction_pct"`
	MeanReductionPct         float64 `json:"mean_reduction_pct"`
	RiderIdleReductionPct    int     `json:"rider_idle_reduction_pct"`
	CancellationReductionPct int     `json:"cancellation_reduction_pct"`
}

// SimulationReport contrasts the error distribution before and after the
// hypothetical bias correction. The "after" numbers are illustrative, not
// measured.
type SimulationReport struct {
	Before      ErrorDistribution     `json:"before"`
	After       ErrorDistribution     `json:"after"`
	Improvement SimulationImprovement `json:"improvement"`
}
