package models

// CityInfo is a static descriptor for a serviced city. Density and
// congestion are normalised to [0,1] and calibrated offline.
type CityInfo struct {
	Tier           int     `json:"tier"`
	Density        float64 `json:"density"`
	CongestionBase float64 `json:"congestion_base"`
}

// Cities is the reference table for known cities.
var Cities = map[string]CityInfo{
	"Mumbai":    {Tier: 1, Density: 0.95, CongestionBase: 0.80},
	"Delhi":     {Tier: 1, Density: 0.98, CongestionBase: 0.85},
	"Bengaluru": {Tier: 1, Density: 0.90, CongestionBase: 0.75},
	"Hyderabad": {Tier: 1, Density: 0.85, CongestionBase: 0.70},
	"Chennai":   {Tier: 1, Density: 0.88, CongestionBase: 0.72},
	"Kolkata":   {Tier: 1, Density: 0.87, CongestionBase: 0.73},
	"Pune":      {Tier: 2, Density: 0.75, CongestionBase: 0.60},
	"Ahmedabad": {Tier: 2, Density: 0.72, CongestionBase: 0.58},
	"Jaipur":    {Tier: 2, Density: 0.65, CongestionBase: 0.50},
	"Guwahati":  {Tier: 2, Density: 0.55, CongestionBase: 0.45},
	"Indore":    {Tier: 2, Density: 0.60, CongestionBase: 0.48},
	"Lucknow":   {Tier: 2, Density: 0.62, CongestionBase: 0.50},
	"Surat":     {Tier: 2, Density: 0.65, CongestionBase: 0.52},
	"Nagpur":    {Tier: 2, Density: 0.58, CongestionBase: 0.46},
	"Bhopal":    {Tier: 2, Density: 0.56, CongestionBase: 0.44},
}

// DefaultCity is the descriptor applied to cities missing from the table.
var DefaultCity = CityInfo{Tier: 2, Density: 0.60, CongestionBase: 0.50}

// CityInfoFor resolves a city name to its descriptor, falling back to
// DefaultCity for unlisted cities.
func CityInfoFor(city string) CityInfo {
	if ci, ok := Cities[city]; ok {
		return ci
	}
	return DefaultCity
}
