package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"traffic/pulse/internal/analysis"
	"traffic/pulse/internal/generator"
	"traffic/pulse/internal/incident"
)

// multipartMemoryLimit is how much of the upload is buffered in memory
// before spilling to temp files.
const multipartMemoryLimit = 32 << 20

// handleAnalyze godoc
// @Title Analyze uploaded video
// @Description Accepts a multipart video plus location, stores the file, runs the
// @Description (mock or remote) analysis and folds the detections into the incident store.
// @Resource Analysis
// @Accept mpfd
// @Produce json
// @Param video formData file true "Video file (mp4, avi, mov, mkv, webm)"
// @Param location formData string false "JSON-encoded {lat, lng, address}"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} APIError
// @Failure 502 {object} APIError
// @Route /api/analyze [post]
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxSizeMB<<20)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		s.writeError(w, http.StatusBadRequest, errNoVideoProvided, err.Error())
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errNoVideoProvided, nil)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.writeError(w, http.StatusBadRequest, "No file selected", nil)
		return
	}
	if !allowedFile(header.Filename) {
		s.writeError(w, http.StatusBadRequest, errInvalidFileFormat,
			"supported: "+strings.Join(supportedFormats, ", "))
		return
	}

	loc := s.parseUploadLocation(r.FormValue("location"))

	storedName := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(header.Filename))
	storedPath := filepath.Join(s.cfg.Upload.Dir, storedName)
	if err := saveUpload(storedPath, file); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to store upload", err.Error())
		return
	}

	s.log.Info().
		Str("filename", storedName).
		Str("address", loc.Address).
		Msg("analyzing uploaded video")

	start := time.Now()
	result, degraded, err := s.runAnalysis(r, storedPath, storedName, loc)
	if err != nil {
		analyzeRequestsTotal.WithLabelValues("remote", "error").Inc()
		s.writeError(w, http.StatusBadGateway, "analysis failed", err.Error())
		return
	}

	incidents := make([]incident.Incident, 0, len(result.Detections))
	for _, draft := range analysis.IncidentsFromResult(result, loc) {
		inc := s.store.Insert(draft)
		incidentsCreatedTotal.WithLabelValues(
			string(inc.Type), string(inc.Severity), string(inc.DetectedBy),
		).Inc()
		incidents = append(incidents, *inc)
	}
	analyzeRequestsTotal.WithLabelValues(s.analysisMode(degraded), "ok").Inc()

	modelVersion := "Demo-Mock-v2.0"
	if s.remote != nil && !degraded {
		modelVersion = "Remote-Proxy-v1.0"
	}

	s.log.Info().
		Int("detections", len(result.Detections)).
		Int("incidents", len(incidents)).
		Bool("degraded", degraded).
		Msg("analysis complete")

	s.writeJSON(w, http.StatusOK, AnalyzeResponse{
		Result:       *result,
		Filename:     storedName,
		Location:     loc,
		Incidents:    incidents,
		AnalysisTime: fmt.Sprintf("%.1fs", time.Since(start).Seconds()),
		ModelVersion: modelVersion,
		FPS:          30,
		Degraded:     degraded,
	})
}

// runAnalysis picks between the remote analyzer and the embedded engine.
func (s *Server) runAnalysis(r *http.Request, storedPath, storedName string, loc incident.Location) (*analysis.Result, bool, error) {
	if s.remote == nil {
		return s.engine.Analyze(), false, nil
	}

	video, err := os.Open(storedPath)
	if err != nil {
		return nil, false, fmt.Errorf("reopen stored upload: %w", err)
	}
	defer video.Close()

	return s.remote.Analyze(r.Context(), storedName, video, loc)
}

// parseUploadLocation decodes the location form field. A missing or
// malformed payload falls back to a random catalog location rather than
// failing the upload.
func (s *Server) parseUploadLocation(raw string) incident.Location {
	var loc incident.Location
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &loc); err == nil && loc.Address != "" {
			return loc
		}
		s.log.Warn().Str("location", raw).Msg("malformed location payload, using fallback")
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return generator.RandomLocation(s.rng)
}

func (s *Server) analysisMode(degraded bool) string {
	switch {
	case s.remote == nil:
		return "embedded"
	case degraded:
		return "degraded"
	default:
		return "remote"
	}
}

func allowedFile(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range supportedFormats {
		if ext == allowed {
			return true
		}
	}
	return false
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
