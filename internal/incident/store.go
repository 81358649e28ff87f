package incident

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Filter selects a subset of the store. Zero values match everything.
type Filter struct {
	Status      Status
	Severity    Severity
	MinSeverity Severity
	Type        Type
	DetectedBy  Source
	Limit       int
}

// Stats are the aggregate counts the dashboard header cards show.
type Stats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Monitoring     int `json:"monitoring"`
	Resolved       int `json:"resolved"`
	CriticalActive int `json:"critical_active"`
	AIDetected     int `json:"ai_detected"`
}

// Store is the authoritative in-memory incident collection. New records are
// prepended so iteration order is newest first. Records are never evicted;
// everything resets on process restart.
//
// The generator and HTTP handlers write from separate goroutines, so access
// is guarded accordingly.
type Store struct {
	mu        sync.RWMutex
	incidents []*Incident
	ready     bool
	now       func() time.Time
	newID     func() string
}

// Option customises a Store, mainly for deterministic tests.
type Option func(*Store)

// WithClock injects the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc injects the id generator.
func WithIDFunc(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore returns an empty store. Call Load to seed fixtures.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load seeds the fixture incidents after the given simulated delay and marks
// the store ready. Returns early with the context error if cancelled before
// the delay elapses.
func (s *Store) Load(ctx context.Context, delay time.Duration) error {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	seed := SeedIncidents()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents = append(seed, s.incidents...)
	s.ready = true
	return nil
}

// Ready reports whether the seed fixtures have landed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Insert assigns a fresh id and the current timestamp to draft and prepends
// the record. Enum fields are not validated; unknown values pass through the
// same way the dashboard treats them.
func (s *Store) Insert(draft Draft) *Incident {
	inc := &Incident{
		ID:             s.newID(),
		Type:           draft.Type,
		Location:       draft.Location,
		Severity:       draft.Severity,
		Description:    draft.Description,
		Timestamp:      s.now(),
		Status:         draft.Status,
		DetectedBy:     draft.DetectedBy,
		CCTVID:         draft.CCTVID,
		Confidence:     draft.Confidence,
		DetectionBoxes: draft.DetectionBoxes,
	}
	if inc.Status == "" {
		inc.Status = StatusActive
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents = append([]*Incident{inc}, s.incidents...)

	stored := *inc
	return &stored
}

// UpdateStatus replaces the status of the matching record in place and
// reports whether the id was found. A miss leaves the store untouched.
func (s *Store) UpdateStatus(id string, status Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inc := range s.incidents {
		if inc.ID == id {
			inc.Status = status
			return true
		}
	}
	return false
}

// Get returns a copy of the incident with the given id.
func (s *Store) Get(id string) (*Incident, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inc := range s.incidents {
		if inc.ID == id {
			found := *inc
			return &found, true
		}
	}
	return nil, false
}

// List returns copies of the incidents matching f, preserving relative
// order (newest first).
func (s *Store) List(f Filter) []Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Incident, 0, len(s.incidents))
	for _, inc := range s.incidents {
		if !matches(inc, f) {
			continue
		}
		out = append(out, *inc)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

// Snapshot returns a copy of the full collection, newest first.
func (s *Store) Snapshot() []Incident {
	return s.List(Filter{})
}

// Len reports the current record count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.incidents)
}

// Stats computes the dashboard aggregates over the current snapshot.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	st.Total = len(s.incidents)
	for _, inc := range s.incidents {
		switch inc.Status {
		case StatusActive:
			st.Active++
			if inc.Severity == SeverityCritical {
				st.CriticalActive++
			}
		case StatusMonitoring:
			st.Monitoring++
		case StatusResolved:
			st.Resolved++
		}
		if inc.DetectedBy == SourceAI {
			st.AIDetected++
		}
	}
	return st
}

func matches(inc *Incident, f Filter) bool {
	if f.Status != "" && inc.Status != f.Status {
		return false
	}
	if f.Severity != "" && inc.Severity != f.Severity {
		return false
	}
	if f.MinSeverity != "" && inc.Severity.Rank() < f.MinSeverity.Rank() {
		return false
	}
	if f.Type != "" && inc.Type != f.Type {
		return false
	}
	if f.DetectedBy != "" && inc.DetectedBy != f.DetectedBy {
		return false
	}
	return true
}
