package server

import (
	"time"

	"traffic/pulse/internal/analysis"
	"traffic/pulse/internal/auth"
	"traffic/pulse/internal/incident"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

type CreateIncidentRequest struct {
	Type        string  `json:"type" validate:"required,oneof=accident flooding heavy_rain traffic_jam road_closure emergency"`
	Latitude    float64 `json:"lat" validate:"latitude"`
	Longitude   float64 `json:"lng" validate:"longitude"`
	Address     string  `json:"address" validate:"required,max=200"`
	Severity    string  `json:"severity" validate:"required,oneof=low medium high critical"`
	Description string  `json:"description" validate:"required,min=3,max=500"`
}

type UpdateIncidentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active monitoring resolved"`
}

type HealthResponse struct {
	Status           string   `json:"status"`
	Model            string   `json:"model"`
	Version          string   `json:"version"`
	Timestamp        float64  `json:"timestamp"`
	Uptime           string   `json:"uptime"`
	SupportedFormats []string `json:"supported_formats"`
	MaxFileSizeMB    int64    `json:"max_file_size_mb"`
	DemoMode         bool     `json:"demo_mode"`
}

type ConfigResponse struct {
	MapProvider string `json:"map_provider"`
	MapAPIKey   string `json:"map_api_key"`
	AnalyzeURL  string `json:"analyze_url"`
}

// AnalyzeResponse is the /api/analyze body: the detection result contract
// plus the convenience fields the frontend upload flow reads.
type AnalyzeResponse struct {
	analysis.Result
	Filename     string              `json:"filename"`
	Location     incident.Location   `json:"location"`
	Incidents    []incident.Incident `json:"incidents"`
	AnalysisTime string              `json:"analysisTime"`
	ModelVersion string              `json:"modelVersion"`
	FPS          int                 `json:"fps"`
	Degraded     bool                `json:"degraded,omitempty"`
}

type SyncResponse struct {
	Ready       bool                `json:"ready"`
	Incidents   []incident.Incident `json:"incidents"`
	Stats       incident.Stats      `json:"stats"`
	GeneratedAt time.Time           `json:"generated_at"`
}
