// Package generator fabricates plausible incident records on a randomized
// interval so the dashboard shows a live feed without a real detection
// pipeline behind it. It is random noise with a fixed shape contract, not
// an algorithm.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"traffic/pulse/internal/incident"

	"github.com/rs/zerolog"
)

// Config tunes the tick cadence and emission probability.
type Config struct {
	MinInterval     time.Duration
	MaxInterval     time.Duration
	FireProbability float64
}

// DefaultConfig matches the cadence the dashboard demo runs with.
func DefaultConfig() Config {
	return Config{
		MinInterval:     20 * time.Second,
		MaxInterval:     60 * time.Second,
		FireProbability: 0.35,
	}
}

// template pairs an incident type with the severity and description the
// catalog assigns to it.
type template struct {
	typ         incident.Type
	severity    incident.Severity
	description string
}

// catalog is the fixed type/severity/description table the synthetic
// feed draws from. Every incident type appears at least once.
var catalog = []template{
	{incident.TypeAccident, incident.SeverityHigh, "Vehicle collision detected by CCTV analysis"},
	{incident.TypeAccident, incident.SeverityCritical, "Multi-vehicle pileup detected, lanes blocked"},
	{incident.TypeFlooding, incident.SeverityCritical, "Rapid water accumulation on roadway"},
	{incident.TypeHeavyRain, incident.SeverityMedium, "Heavy rainfall reducing visibility"},
	{incident.TypeTrafficJam, incident.SeverityMedium, "Severe congestion building up"},
	{incident.TypeTrafficJam, incident.SeverityLow, "Slow-moving traffic detected"},
	{incident.TypeRoadClosure, incident.SeverityHigh, "Road blocked by stalled vehicle"},
	{incident.TypeEmergency, incident.SeverityHigh, "Emergency vehicle activity detected"},
}

// locations is the fixed named-point catalog generated incidents are pinned to.
var locations = []incident.Location{
	{Latitude: 37.5665, Longitude: 126.9780, Address: "City Hall intersection, Jung-gu"},
	{Latitude: 37.5172, Longitude: 127.0473, Address: "Teheran-ro, Gangnam-gu"},
	{Latitude: 37.5563, Longitude: 126.9723, Address: "Seoul Station rotary"},
	{Latitude: 37.5796, Longitude: 126.9770, Address: "Sajik-ro near Gyeongbokgung"},
	{Latitude: 37.5311, Longitude: 126.9810, Address: "Hangang bridge north ramp"},
	{Latitude: 37.4979, Longitude: 127.0276, Address: "Gangnam Station crossing"},
	{Latitude: 37.5512, Longitude: 126.9882, Address: "Namsan tunnel 1 entrance"},
}

// RandomLocation picks a uniform point from the named-point catalog. The
// analyze handler uses it as the fallback when an upload carries a
// malformed location payload.
func RandomLocation(rng *rand.Rand) incident.Location {
	return locations[rng.Intn(len(locations))]
}

// Sink is where generated incidents land. *incident.Store satisfies it.
type Sink interface {
	Insert(incident.Draft) *incident.Incident
}

// Generator emits synthetic AI detections into a Sink.
type Generator struct {
	cfg  Config
	sink Sink
	rng  *rand.Rand
	log  zerolog.Logger
}

// New builds a generator. Passing a seeded rng makes runs reproducible;
// seed 0 callers should derive one from the clock themselves.
func New(cfg Config, sink Sink, rng *rand.Rand, log zerolog.Logger) *Generator {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 20 * time.Second
	}
	if cfg.MaxInterval < cfg.MinInterval {
		cfg.MaxInterval = cfg.MinInterval
	}
	return &Generator{
		cfg:  cfg,
		sink: sink,
		rng:  rng,
		log:  log.With().Str("component", "generator").Logger(),
	}
}

// Run loops until ctx is cancelled, sleeping a fresh random interval before
// every tick. The timer is always stopped on the way out so no orphaned
// tick outlives the owning scope.
func (g *Generator) Run(ctx context.Context) {
	timer := time.NewTimer(g.nextInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			g.log.Debug().Msg("generator stopped")
			return
		case <-timer.C:
			if inc, fired := g.Tick(); fired {
				g.log.Info().
					Str("incident_id", inc.ID).
					Str("type", string(inc.Type)).
					Str("severity", string(inc.Severity)).
					Msg("synthetic incident generated")
			}
			timer.Reset(g.nextInterval())
		}
	}
}

// Tick rolls the fire probability once and, on success, inserts one
// synthetic incident. Exposed so tests can drive the generator without a
// wall clock.
func (g *Generator) Tick() (*incident.Incident, bool) {
	if g.rng.Float64() >= g.cfg.FireProbability {
		return nil, false
	}

	tmpl := catalog[g.rng.Intn(len(catalog))]
	loc := locations[g.rng.Intn(len(locations))]
	confidence := 0.75 + g.rng.Float64()*0.20

	inc := g.sink.Insert(incident.Draft{
		Type:        tmpl.typ,
		Location:    loc,
		Severity:    tmpl.severity,
		Description: tmpl.description,
		Status:      incident.StatusActive,
		DetectedBy:  incident.SourceAI,
		CCTVID:      fmt.Sprintf("cctv-%03d", 1+g.rng.Intn(48)),
		Confidence:  incident.Float64Ptr(confidence),
		DetectionBoxes: []incident.DetectionBox{
			{
				X:          50 + g.rng.Intn(150),
				Y:          50 + g.rng.Intn(100),
				Width:      80 + g.rng.Intn(170),
				Height:     60 + g.rng.Intn(120),
				Class:      string(tmpl.typ),
				Confidence: confidence,
			},
		},
	})
	return inc, true
}

func (g *Generator) nextInterval() time.Duration {
	spread := g.cfg.MaxInterval - g.cfg.MinInterval
	if spread <= 0 {
		return g.cfg.MinInterval
	}
	return g.cfg.MinInterval + time.Duration(g.rng.Int63n(int64(spread)))
}
