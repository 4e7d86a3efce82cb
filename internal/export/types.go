package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantumtrio/kptsignal/internal/models"
	"github.com/quantumtrio/kptsignal/internal/signal"
)

// Topic names for the exported datasets.
const (
	TopicEnrichedOrders     = "enriched_orders"
	TopicRestaurantProfiles = "restaurant_profiles"
	TopicCityAnalytics      = "city_analytics"
	TopicHourlyPatterns     = "hourly_patterns"
)

// Topics in export order.
var Topics = []string{
	TopicEnrichedOrders,
	TopicRestaurantProfiles,
	TopicCityAnalytics,
	TopicHourlyPatterns,
}

// EnrichedOrderRecord is the flat, parquet-friendly rendering of an
// enriched order. Timestamps are unix seconds; optional ones are
// pointers.
type EnrichedOrderRecord struct {
	OrderID           string   `json:"order_id" parquet:"name=order_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	RestaurantID      int64    `json:"restaurant_id" parquet:"name=restaurant_id,type=INT64"`
	RestaurantName    string   `json:"restaurant_name" parquet:"name=restaurant_name,type=BYTE_ARRAY,convertedtype=UTF8"`
	City              string   `json:"city" parquet:"name=city,type=BYTE_ARRAY,convertedtype=UTF8"`
	CityTier          int64    `json:"city_tier" parquet:"name=city_tier,type=INT64"`
	CuisineType       string   `json:"cuisine_type" parquet:"name=cuisine_type,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderTime         *int64   `json:"order_time,omitempty" parquet:"name=order_time,type=INT64,repetitiontype=OPTIONAL"`
	ConfirmTime       int64    `json:"confirm_time" parquet:"name=confirm_time,type=INT64"`
	MerchantReadyTime int64    `json:"merchant_ready_time" parquet:"name=merchant_ready_time,type=INT64"`
	ActualReadyTime   int64    `json:"actual_ready_time" parquet:"name=actual_ready_time,type=INT64"`
	RiderAssignedTime *int64   `json:"rider_assigned_time,omitempty" parquet:"name=rider_assigned_time,type=INT64,repetitiontype=OPTIONAL"`
	RiderArrivalTime  int64    `json:"rider_arrival_time" parquet:"name=rider_arrival_time,type=INT64"`
	PickupTime        int64    `json:"pickup_time" parquet:"name=pickup_time,type=INT64"`
	ActiveOrders      int64    `json:"active_orders" parquet:"name=active_orders,type=INT64"`
	StaffCount        int64    `json:"staff_count" parquet:"name=staff_count,type=INT64"`
	PeakHour          int64    `json:"peak_hour" parquet:"name=peak_hour,type=INT64"`
	DistanceKm        float64  `json:"distance_km" parquet:"name=distance_km,type=DOUBLE"`
	TrueKPTMinutes    float64  `json:"true_kpt_minutes" parquet:"name=true_kpt_minutes,type=DOUBLE"`
	MarkedKPTMinutes  float64  `json:"marked_kpt_minutes" parquet:"name=marked_kpt_minutes,type=DOUBLE"`
	ForBiasMinutes    float64  `json:"for_bias_minutes" parquet:"name=for_bias_minutes,type=DOUBLE"`
	PrepGapMinutes    float64  `json:"prep_gap_minutes" parquet:"name=prep_gap_minutes,type=DOUBLE"`
	RiderIdleMinutes  float64  `json:"rider_idle_minutes" parquet:"name=rider_idle_minutes,type=DOUBLE"`
	LoadIndex         float64  `json:"load_index" parquet:"name=load_index,type=DOUBLE"`
	HourOfDay         int64    `json:"hour_of_day" parquet:"name=hour_of_day,type=INT64"`
	MerchantBiasType  string   `json:"merchant_bias_type" parquet:"name=merchant_bias_type,type=BYTE_ARRAY,convertedtype=UTF8"`
}

type RestaurantProfileRecord struct {
	RestaurantID     int64   `json:"restaurant_id" parquet:"name=restaurant_id,type=INT64"`
	RestaurantName   string  `json:"restaurant_name" parquet:"name=restaurant_name,type=BYTE_ARRAY,convertedtype=UTF8"`
	City             string  `json:"city" parquet:"name=city,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderCount       int64   `json:"order_count" parquet:"name=order_count,type=INT64"`
	AvgTrueKPT       float64 `json:"avg_true_kpt" parquet:"name=avg_true_kpt,type=DOUBLE"`
	AvgMarkedKPT     float64 `json:"avg_marked_kpt" parquet:"name=avg_marked_kpt,type=DOUBLE"`
	AvgForBias       float64 `json:"avg_for_bias" parquet:"name=avg_for_bias,type=DOUBLE"`
	AvgIdleTime      float64 `json:"avg_idle_time" parquet:"name=avg_idle_time,type=DOUBLE"`
	ReliabilityScore float64 `json:"reliability_score" parquet:"name=reliability_score,type=DOUBLE"`
	DetectedBiasType string  `json:"detected_bias_type" parquet:"name=detected_bias_type,type=BYTE_ARRAY,convertedtype=UTF8"`
	KPTErrorPct      float64 `json:"kpt_error_pct" parquet:"name=kpt_error_pct,type=DOUBLE"`
	SignalQuality    string  `json:"signal_quality" parquet:"name=signal_quality,type=BYTE_ARRAY,convertedtype=UTF8"`
}

type CityAnalyticRecord struct {
	City            string  `json:"city" parquet:"name=city,type=BYTE_ARRAY,convertedtype=UTF8"`
	Tier            int64   `json:"tier" parquet:"name=tier,type=INT64"`
	OrderCount      int64   `json:"order_count" parquet:"name=order_count,type=INT64"`
	AvgIdleTime     float64 `json:"avg_idle_time" parquet:"name=avg_idle_time,type=DOUBLE"`
	AvgForBias      float64 `json:"avg_for_bias" parquet:"name=avg_for_bias,type=DOUBLE"`
	AvgTrueKPT      float64 `json:"avg_true_kpt" parquet:"name=avg_true_kpt,type=DOUBLE"`
	DensityIndex    float64 `json:"density_index" parquet:"name=density_index,type=DOUBLE"`
	CongestionIndex float64 `json:"congestion_index" parquet:"name=congestion_index,type=DOUBLE"`
	RushIndex       float64 `json:"rush_index" parquet:"name=rush_index,type=DOUBLE"`
}

type HourlyPatternRecord struct {
	Hour       int64   `json:"hour" parquet:"name=hour,type=INT64"`
	HourLabel  string  `json:"hour_label" parquet:"name=hour_label,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderCount int64   `json:"order_count" parquet:"name=order_count,type=INT64"`
	AvgKPT     float64 `json:"avg_kpt" parquet:"name=avg_kpt,type=DOUBLE"`
	AvgBias    float64 `json:"avg_bias" parquet:"name=avg_bias,type=DOUBLE"`
	AvgIdle    float64 `json:"avg_idle" parquet:"name=avg_idle,type=DOUBLE"`
	IsPeak     bool    `json:"is_peak" parquet:"name=is_peak,type=BOOLEAN"`
}

// SchemaFor returns a zero record of the topic's row type, used to derive
// the parquet schema.
func SchemaFor(topic string) (interface{}, error) {
	switch topic {
	case TopicEnrichedOrders:
		return new(EnrichedOrderRecord), nil
	case TopicRestaurantProfiles:
		return new(RestaurantProfileRecord), nil
	case TopicCityAnalytics:
		return new(CityAnalyticRecord), nil
	case TopicHourlyPatterns:
		return new(HourlyPatternRecord), nil
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}
}

func NewEnrichedOrderRecord(o models.EnrichedOrder) EnrichedOrderRecord {
	return EnrichedOrderRecord{
		OrderID:           o.OrderID,
		RestaurantID:      int64(o.RestaurantID),
		RestaurantName:    o.RestaurantName,
		City:              o.City,
		CityTier:          int64(o.CityTier),
		CuisineType:       o.CuisineType,
		OrderTime:         unixOrNil(o.OrderTime),
		ConfirmTime:       o.ConfirmTime.Unix(),
		MerchantReadyTime: o.MerchantReadyTime.Unix(),
		ActualReadyTime:   o.ActualReadyTime.Unix(),
		RiderAssignedTime: unixOrNil(o.RiderAssignedTime),
		RiderArrivalTime:  o.RiderArrivalTime.Unix(),
		PickupTime:        o.PickupTime.Unix(),
		ActiveOrders:      int64(o.ActiveOrders),
		StaffCount:        int64(o.StaffCount),
		PeakHour:          int64(o.PeakHour),
		DistanceKm:        o.DistanceKm,
		TrueKPTMinutes:    o.TrueKPTMinutes,
		MarkedKPTMinutes:  o.MarkedKPTMinutes,
		ForBiasMinutes:    o.ForBiasMinutes,
		PrepGapMinutes:    o.PrepGapMinutes,
		RiderIdleMinutes:  o.RiderIdleMinutes,
		LoadIndex:         o.LoadIndex,
		HourOfDay:         int64(o.HourOfDay),
		MerchantBiasType:  o.MerchantBiasType,
	}
}

func NewRestaurantProfileRecord(p models.RestaurantProfile) RestaurantProfileRecord {
	return RestaurantProfileRecord{
		RestaurantID:     int64(p.RestaurantID),
		RestaurantName:   p.RestaurantName,
		City:             p.City,
		OrderCount:       int64(p.OrderCount),
		AvgTrueKPT:       p.AvgTrueKPT,
		AvgMarkedKPT:     p.AvgMarkedKPT,
		AvgForBias:       p.AvgForBias,
		AvgIdleTime:      p.AvgIdleTime,
		ReliabilityScore: p.ReliabilityScore,
		DetectedBiasType: p.DetectedBiasType,
		KPTErrorPct:      p.KPTErrorPct,
		SignalQuality:    p.SignalQuality,
	}
}

func NewCityAnalyticRecord(c models.CityAnalytic) CityAnalyticRecord {
	return CityAnalyticRecord{
		City:            c.City,
		Tier:            int64(c.Tier),
		OrderCount:      int64(c.OrderCount),
		AvgIdleTime:     c.AvgIdleTime,
		AvgForBias:      c.AvgForBias,
		AvgTrueKPT:      c.AvgTrueKPT,
		DensityIndex:    c.DensityIndex,
		CongestionIndex: c.CongestionIndex,
		RushIndex:       c.RushIndex,
	}
}

func NewHourlyPatternRecord(h models.HourlyPattern) HourlyPatternRecord {
	return HourlyPatternRecord{
		Hour:       int64(h.Hour),
		HourLabel:  h.HourLabel,
		OrderCount: int64(h.OrderCount),
		AvgKPT:     h.AvgKPT,
		AvgBias:    h.AvgBias,
		AvgIdle:    h.AvgIdle,
		IsPeak:     h.IsPeak,
	}
}

// RecordsFor flattens one topic's rows out of a snapshot.
func RecordsFor(topic string, snap *signal.Snapshot) ([]interface{}, error) {
	switch topic {
	case TopicEnrichedOrders:
		rows := make([]interface{}, 0, len(snap.Orders))
		for _, o := range snap.Orders {
			rows = append(rows, NewEnrichedOrderRecord(o))
		}
		return rows, nil
	case TopicRestaurantProfiles:
		ids := make([]int, 0, len(snap.Profiles))
		for id := range snap.Profiles {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		rows := make([]interface{}, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, NewRestaurantProfileRecord(snap.Profiles[id]))
		}
		return rows, nil
	case TopicCityAnalytics:
		rows := make([]interface{}, 0, len(snap.CityAnalytics))
		for _, c := range snap.CityAnalytics {
			rows = append(rows, NewCityAnalyticRecord(c))
		}
		return rows, nil
	case TopicHourlyPatterns:
		rows := make([]interface{}, 0, len(snap.HourlyPatterns))
		for _, h := range snap.HourlyPatterns {
			rows = append(rows, NewHourlyPatternRecord(h))
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}
}

func unixOrNil(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	u := t.Unix()
	return &u
}
