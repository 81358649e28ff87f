package incident

import "time"

// SeedIncidents returns the fixture records the dashboard starts with. Ids
// are stable literals so the demo deep-links keep working; timestamps are
// anchored relative to now so the feed looks fresh on every restart.
func SeedIncidents() []*Incident {
	now := time.Now()
	return []*Incident{
		{
			ID:   "seed-0001",
			Type: TypeAccident,
			Location: Location{
				Latitude:  37.5665,
				Longitude: 126.9780,
				Address:   "City Hall intersection, Jung-gu",
			},
			Severity:    SeverityHigh,
			Description: "Multi-vehicle collision blocking two lanes",
			Timestamp:   now.Add(-42 * time.Minute),
			Status:      StatusActive,
			DetectedBy:  SourceAI,
			CCTVID:      "cctv-014",
			Confidence:  Float64Ptr(0.91),
			DetectionBoxes: []DetectionBox{
				{X: 120, Y: 88, Width: 210, Height: 140, Class: "car_accident", Confidence: 0.91},
			},
		},
		{
			ID:   "seed-0002",
			Type: TypeFlooding,
			Location: Location{
				Latitude:  37.5172,
				Longitude: 127.0473,
				Address:   "Teheran-ro underpass, Gangnam-gu",
			},
			Severity:    SeverityCritical,
			Description: "Road surface flooded, water level rising",
			Timestamp:   now.Add(-65 * time.Minute),
			Status:      StatusMonitoring,
			DetectedBy:  SourceAI,
			CCTVID:      "cctv-031",
			Confidence:  Float64Ptr(0.87),
		},
		{
			ID:   "seed-0003",
			Type: TypeTrafficJam,
			Location: Location{
				Latitude:  37.5563,
				Longitude: 126.9723,
				Address:   "Seoul Station rotary",
			},
			Severity:    SeverityMedium,
			Description: "Heavy congestion, average speed below 10 km/h",
			Timestamp:   now.Add(-90 * time.Minute),
			Status:      StatusActive,
			DetectedBy:  SourceAI,
			CCTVID:      "cctv-007",
			Confidence:  Float64Ptr(0.78),
		},
		{
			ID:   "seed-0004",
			Type: TypeRoadClosure,
			Location: Location{
				Latitude:  37.5796,
				Longitude: 126.9770,
				Address:   "Sajik-ro near Gyeongbokgung",
			},
			Severity:    SeverityMedium,
			Description: "Lane closed for emergency utility work",
			Timestamp:   now.Add(-3 * time.Hour),
			Status:      StatusMonitoring,
			DetectedBy:  SourceManual,
		},
		{
			ID:   "seed-0005",
			Type: TypeHeavyRain,
			Location: Location{
				Latitude:  37.5311,
				Longitude: 126.9810,
				Address:   "Hangang bridge north ramp",
			},
			Severity:    SeverityLow,
			Description: "Reduced visibility reported by drivers",
			Timestamp:   now.Add(-5 * time.Hour),
			Status:      StatusResolved,
			DetectedBy:  SourceUserReport,
		},
	}
}
