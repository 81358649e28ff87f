// Package analysis implements the mock video-analysis contract: an embedded
// engine that fabricates detections, the mapping from detector classes to
// incident records, and a client for an optional remote analyzer.
package analysis

import "traffic/pulse/internal/incident"

// Detection is one detector output on the wire. BBox is [x1, y1, x2, y2]
// in pixels.
type Detection struct {
	Class      string     `json:"class"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
}

// Result is the analyze response contract. Field names must stay verbatim
// for frontend compatibility.
type Result struct {
	VideoID         string      `json:"videoId"`
	Detections      []Detection `json:"detections"`
	ProcessedFrames int         `json:"processedFrames"`
	TotalFrames     int         `json:"totalFrames"`
	Status          string      `json:"status"`
}

// ModelInfo describes the (mock) model behind /api/model/info.
type ModelInfo struct {
	ModelType           string   `json:"model_type"`
	Device              string   `json:"device"`
	ConfidenceThreshold float64  `json:"confidence_threshold"`
	SupportedClasses    []string `json:"supported_classes"`
	IncidentTypes       []string `json:"incident_types"`
	DemoMode            bool     `json:"demo_mode"`
}

// CurrentModelInfo reports the embedded engine's metadata.
func CurrentModelInfo() ModelInfo {
	return ModelInfo{
		ModelType:           "Mock Traffic Analysis",
		Device:              "cpu (demo)",
		ConfidenceThreshold: 0.5,
		SupportedClasses:    SupportedClasses(),
		IncidentTypes: []string{
			string(incident.TypeAccident),
			string(incident.TypeFlooding),
			string(incident.TypeHeavyRain),
			string(incident.TypeTrafficJam),
			string(incident.TypeRoadClosure),
			string(incident.TypeEmergency),
		},
		DemoMode: true,
	}
}
