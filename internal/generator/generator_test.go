package generator

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"traffic/pulse/internal/incident"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestGenerator(t *testing.T, cfg Config, seed int64) (*Generator, *incident.Store) {
	t.Helper()
	store := incident.NewStore()
	gen := New(cfg, store, rand.New(rand.NewSource(seed)), zerolog.Nop())
	return gen, store
}

func TestTickRespectsFireProbability(t *testing.T) {
	const (
		ticks = 2000
		p     = 0.35
	)
	gen, store := newTestGenerator(t, Config{
		MinInterval:     time.Second,
		MaxInterval:     time.Second,
		FireProbability: p,
	}, 42)

	fired := 0
	for i := 0; i < ticks; i++ {
		if _, ok := gen.Tick(); ok {
			fired++
		}
	}

	require.Equal(t, fired, store.Len())

	// Binomial bound: mean +/- 5 sigma keeps the test deterministic enough
	// for any fixed seed while still catching a broken probability roll.
	mean := float64(ticks) * p
	sigma := math.Sqrt(float64(ticks) * p * (1 - p))
	assert.InDelta(t, mean, float64(fired), 5*sigma)
}

func TestTickZeroProbabilityNeverFires(t *testing.T) {
	gen, store := newTestGenerator(t, Config{
		MinInterval:     time.Second,
		MaxInterval:     time.Second,
		FireProbability: 0,
	}, 7)

	for i := 0; i < 100; i++ {
		_, ok := gen.Tick()
		assert.False(t, ok)
	}
	assert.Equal(t, 0, store.Len())
}

func TestGeneratedIncidentShape(t *testing.T) {
	gen, _ := newTestGenerator(t, Config{
		MinInterval:     time.Second,
		MaxInterval:     time.Second,
		FireProbability: 1,
	}, 99)

	for i := 0; i < 200; i++ {
		inc, ok := gen.Tick()
		require.True(t, ok)

		assert.Equal(t, incident.SourceAI, inc.DetectedBy)
		assert.Equal(t, incident.StatusActive, inc.Status)
		assert.NotEmpty(t, inc.CCTVID)
		assert.NotEmpty(t, inc.Location.Address)
		assert.NotEmpty(t, inc.Description)

		require.NotNil(t, inc.Confidence)
		assert.GreaterOrEqual(t, *inc.Confidence, 0.75)
		assert.Less(t, *inc.Confidence, 0.95)

		require.Len(t, inc.DetectionBoxes, 1)
		box := inc.DetectionBoxes[0]
		assert.GreaterOrEqual(t, box.Confidence, 0.0)
		assert.LessOrEqual(t, box.Confidence, 1.0)
		assert.GreaterOrEqual(t, box.X, 50)
		assert.GreaterOrEqual(t, box.Y, 50)
		assert.Greater(t, box.Width, 0)
		assert.Greater(t, box.Height, 0)
	}
}

func TestGeneratedTypesCoverCatalog(t *testing.T) {
	gen, _ := newTestGenerator(t, Config{
		MinInterval:     time.Second,
		MaxInterval:     time.Second,
		FireProbability: 1,
	}, 3)

	seen := make(map[incident.Type]bool)
	for i := 0; i < 500; i++ {
		inc, ok := gen.Tick()
		require.True(t, ok)
		seen[inc.Type] = true
	}

	for _, typ := range []incident.Type{
		incident.TypeAccident,
		incident.TypeFlooding,
		incident.TypeHeavyRain,
		incident.TypeTrafficJam,
		incident.TypeRoadClosure,
		incident.TypeEmergency,
	} {
		assert.True(t, seen[typ], "type %s never generated", typ)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	gen, _ := newTestGenerator(t, Config{
		MinInterval:     time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		FireProbability: 1,
	}, 11)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gen.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("generator did not stop after cancellation")
	}
}

func TestRandomLocationDrawsFromCatalog(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 50; i++ {
		loc := RandomLocation(rng)
		assert.NotEmpty(t, loc.Address)
		assert.NotZero(t, loc.Latitude)
		assert.NotZero(t, loc.Longitude)
	}
}
