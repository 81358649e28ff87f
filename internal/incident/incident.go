// Package incident holds the in-memory incident store and its data model.
// The store is the single source of truth for everything the dashboard
// renders; it is seeded with fixtures and fed by the synthetic generator
// and the video-analysis path.
package incident

import "time"

// Type enumerates the incident categories the dashboard knows how to render.
type Type string

const (
	TypeAccident    Type = "accident"
	TypeFlooding    Type = "flooding"
	TypeHeavyRain   Type = "heavy_rain"
	TypeTrafficJam  Type = "traffic_jam"
	TypeRoadClosure Type = "road_closure"
	TypeEmergency   Type = "emergency"
)

// Severity is ordered by ascending urgency.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank orders severities for min-severity filtering.
var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the urgency rank of s, -1 for unknown values.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// Status tracks the handling state of an incident. Transitions are
// deliberately unconstrained; any value may follow any other.
type Status string

const (
	StatusActive     Status = "active"
	StatusMonitoring Status = "monitoring"
	StatusResolved   Status = "resolved"
)

// Source identifies how an incident entered the system.
type Source string

const (
	SourceAI         Source = "ai"
	SourceManual     Source = "manual"
	SourceUserReport Source = "user_report"
)

// Location is a map point with a human-readable address.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Address   string  `json:"address"`
}

// DetectionBox is one simulated object-detector output: a pixel rectangle
// plus class label and confidence in [0,1].
type DetectionBox struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Incident is a detected or reported traffic-affecting event. ID, Timestamp,
// DetectedBy, CCTVID, Confidence and DetectionBoxes are immutable once set;
// only Status changes after creation.
type Incident struct {
	ID             string         `json:"id"`
	Type           Type           `json:"type"`
	Location       Location       `json:"location"`
	Severity       Severity       `json:"severity"`
	Description    string         `json:"description"`
	Timestamp      time.Time      `json:"timestamp"`
	Status         Status         `json:"status"`
	DetectedBy     Source         `json:"detectedBy"`
	CCTVID         string         `json:"cctvId,omitempty"`
	Confidence     *float64       `json:"confidence,omitempty"`
	DetectionBoxes []DetectionBox `json:"detectionBoxes,omitempty"`
}

// Draft is an incident before the store assigns its identity and timestamp.
type Draft struct {
	Type           Type
	Location       Location
	Severity       Severity
	Description    string
	Status         Status
	DetectedBy     Source
	CCTVID         string
	Confidence     *float64
	DetectionBoxes []DetectionBox
}

// Float64Ptr is a convenience for optional confidence values.
func Float64Ptr(v float64) *float64 { return &v }
