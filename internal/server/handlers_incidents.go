package server

import (
	"net/http"
	"time"

	"traffic/pulse/internal/auth"
	"traffic/pulse/internal/incident"

	"github.com/go-chi/chi/v5"
)

// handleListIncidents godoc
// @Title List incidents
// @Description Returns incidents newest first, optionally filtered.
// @Resource Incidents
// @Produce json
// @Param status query string false "Filter by status (active, monitoring, resolved)"
// @Param severity query string false "Filter by severity"
// @Param type query string false "Filter by incident type"
// @Param detected_by query string false "Filter by detection source (ai, manual, user_report)"
// @Param limit query int false "Maximum results" default(100)
// @Success 200 {array} incident.Incident
// @Route /v1/incidents [get]
func (s *Server) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := incident.Filter{
		Status:      incident.Status(q.Get("status")),
		Severity:    incident.Severity(q.Get("severity")),
		MinSeverity: incident.Severity(q.Get("min_severity")),
		Type:        incident.Type(q.Get("type")),
		DetectedBy:  incident.Source(q.Get("detected_by")),
		Limit:       parseLimit(r, 100, 500),
	}
	s.writeJSON(w, http.StatusOK, s.store.List(filter))
}

// handleGetIncident godoc
// @Title Get incident
// @Resource Incidents
// @Produce json
// @Success 200 {object} incident.Incident
// @Failure 404 {object} APIError
// @Route /v1/incidents/{incidentID} [get]
func (s *Server) handleGetIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "incidentID")
	inc, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, errIncidentNotFound, id)
		return
	}
	s.writeJSON(w, http.StatusOK, inc)
}

// handleCreateIncident godoc
// @Title Report incident
// @Description Registers a manually reported incident. Admin reports are tagged
// @Description manual, everyone else's user_report.
// @Resource Incidents
// @Accept json
// @Produce json
// @Param request body CreateIncidentRequest true "Incident payload"
// @Success 201 {object} incident.Incident
// @Failure 400 {object} APIError
// @Route /v1/incidents [post]
func (s *Server) handleCreateIncident(w http.ResponseWriter, r *http.Request) {
	var req CreateIncidentRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, errInvalidPayload, err.Error())
		return
	}

	source := incident.SourceUserReport
	if claims, ok := claimsFromContext(r.Context()); ok && claims.Role == auth.RoleAdmin {
		source = incident.SourceManual
	}

	inc := s.store.Insert(incident.Draft{
		Type: incident.Type(req.Type),
		Location: incident.Location{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Address:   req.Address,
		},
		Severity:    incident.Severity(req.Severity),
		Description: req.Description,
		Status:      incident.StatusActive,
		DetectedBy:  source,
	})
	incidentsCreatedTotal.WithLabelValues(
		string(inc.Type), string(inc.Severity), string(inc.DetectedBy),
	).Inc()

	s.log.Info().
		Str("incident_id", inc.ID).
		Str("type", string(inc.Type)).
		Str("detected_by", string(inc.DetectedBy)).
		Msg("incident reported")
	s.writeJSON(w, http.StatusCreated, inc)
}

// handleUpdateIncidentStatus godoc
// @Title Update incident status
// @Description Admin-only status change; transitions are unconstrained.
// @Resource Incidents
// @Accept json
// @Produce json
// @Param request body UpdateIncidentStatusRequest true "New status"
// @Success 200 {object} incident.Incident
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Route /v1/incidents/{incidentID}/status [patch]
func (s *Server) handleUpdateIncidentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "incidentID")

	var req UpdateIncidentStatusRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, errInvalidPayload, err.Error())
		return
	}

	if !s.store.UpdateStatus(id, incident.Status(req.Status)) {
		s.writeError(w, http.StatusNotFound, errIncidentNotFound, id)
		return
	}

	inc, _ := s.store.Get(id)
	s.log.Info().Str("incident_id", id).Str("status", req.Status).Msg("incident status updated")
	s.writeJSON(w, http.StatusOK, inc)
}

// handleIncidentStats godoc
// @Title Incident aggregates
// @Description Returns the dashboard header counters.
// @Resource Incidents
// @Produce json
// @Success 200 {object} incident.Stats
// @Route /v1/incidents/stats [get]
func (s *Server) handleIncidentStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Stats())
}

// handleSync godoc
// @Title Sync snapshot
// @Description Returns a consolidated snapshot for dashboard polling.
// @Resource Common
// @Produce json
// @Param limit query int false "Maximum incidents" default(100)
// @Success 200 {object} SyncResponse
// @Route /v1/sync [get]
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, SyncResponse{
		Ready:       s.store.Ready(),
		Incidents:   s.store.List(incident.Filter{Limit: parseLimit(r, 100, 500)}),
		Stats:       s.store.Stats(),
		GeneratedAt: time.Now().UTC(),
	})
}
