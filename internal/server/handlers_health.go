package server

import (
	"net/http"
	"time"

	"traffic/pulse/internal/analysis"
)

var supportedFormats = []string{"mp4", "avi", "mov", "mkv", "webm"}

// handleHealth godoc
// @Title Health check
// @Description Reports analyzer availability; the upload UI gates on it.
// @Resource System
// @Produce json
// @Success 200 {object} HealthResponse
// @Route /api/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	model := "Mock Traffic Analysis (Demo Mode)"
	if s.remote != nil {
		model = "Remote Traffic Analysis Proxy"
	}

	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:           "healthy",
		Model:            model,
		Version:          "2.0.0",
		Timestamp:        float64(time.Now().UnixMilli()) / 1000,
		Uptime:           time.Since(s.startedAt).String(),
		SupportedFormats: supportedFormats,
		MaxFileSizeMB:    s.cfg.Upload.MaxSizeMB,
		DemoMode:         s.remote == nil,
	})
}

// handleConfig godoc
// @Title Frontend configuration
// @Description Returns the map provider key and analyze endpoint.
// @Resource System
// @Produce json
// @Success 200 {object} ConfigResponse
// @Route /api/config [get]
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	analyzeURL := "/api/analyze"
	if s.cfg.Analysis.RemoteURL != "" {
		analyzeURL = s.cfg.Analysis.RemoteURL
	}
	s.writeJSON(w, http.StatusOK, ConfigResponse{
		MapProvider: s.cfg.Map.Provider,
		MapAPIKey:   s.cfg.Map.APIKey,
		AnalyzeURL:  analyzeURL,
	})
}

// handleModelInfo godoc
// @Title Model information
// @Description Returns static metadata about the (mock) detection model.
// @Resource System
// @Produce json
// @Success 200 {object} analysis.ModelInfo
// @Route /api/model/info [get]
func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, analysis.CurrentModelInfo())
}
