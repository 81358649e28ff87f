package analysis

import (
	"sort"
	"strings"

	"traffic/pulse/internal/incident"
)

// classToType maps detector class labels to incident types. Classes absent
// from this table are dropped, not errored.
var classToType = map[string]incident.Type{
	"car_accident":      incident.TypeAccident,
	"flood":             incident.TypeFlooding,
	"heavy_traffic":     incident.TypeTrafficJam,
	"blocked_road":      incident.TypeRoadClosure,
	"construction":      incident.TypeRoadClosure,
	"emergency_vehicle": incident.TypeEmergency,
}

// SupportedClasses lists the mappable detector classes, sorted for stable
// output.
func SupportedClasses() []string {
	out := make([]string, 0, len(classToType))
	for class := range classToType {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// SeverityFor derives incident severity from the detector class name and
// confidence. Accident/flood classes escalate to critical above 0.8,
// traffic/congestion classes cap at medium, everything else defaults to
// medium.
func SeverityFor(class string, confidence float64) incident.Severity {
	switch {
	case strings.Contains(class, "accident") || strings.Contains(class, "flood"):
		if confidence > 0.8 {
			return incident.SeverityCritical
		}
		return incident.SeverityHigh
	case strings.Contains(class, "traffic") || strings.Contains(class, "congestion"):
		if confidence > 0.7 {
			return incident.SeverityMedium
		}
		return incident.SeverityLow
	default:
		return incident.SeverityMedium
	}
}

// descriptions gives each mappable class a human-readable incident summary.
var descriptions = map[string]string{
	"car_accident":      "Vehicle collision detected in uploaded footage",
	"flood":             "Flooded roadway detected in uploaded footage",
	"heavy_traffic":     "Heavy traffic congestion detected in uploaded footage",
	"blocked_road":      "Road blockage detected in uploaded footage",
	"construction":      "Construction obstruction detected in uploaded footage",
	"emergency_vehicle": "Emergency vehicle detected in uploaded footage",
}

// IncidentsFromResult converts mapped detections into incident drafts pinned
// to the upload location. Unmapped classes yield nothing.
func IncidentsFromResult(res *Result, loc incident.Location) []incident.Draft {
	drafts := make([]incident.Draft, 0, len(res.Detections))
	for _, det := range res.Detections {
		typ, ok := classToType[det.Class]
		if !ok {
			continue
		}

		desc := descriptions[det.Class]
		if desc == "" {
			desc = "Incident detected in uploaded footage"
		}

		drafts = append(drafts, incident.Draft{
			Type:        typ,
			Location:    loc,
			Severity:    SeverityFor(det.Class, det.Confidence),
			Description: desc,
			Status:      incident.StatusActive,
			DetectedBy:  incident.SourceAI,
			Confidence:  incident.Float64Ptr(det.Confidence),
			DetectionBoxes: []incident.DetectionBox{
				{
					X:          int(det.BBox[0]),
					Y:          int(det.BBox[1]),
					Width:      int(det.BBox[2] - det.BBox[0]),
					Height:     int(det.BBox[3] - det.BBox[1]),
					Class:      det.Class,
					Confidence: det.Confidence,
				},
			},
		})
	}
	return drafts
}
