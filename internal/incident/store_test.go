package incident

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDraft(desc string) Draft {
	return Draft{
		Type:        TypeAccident,
		Location:    Location{Latitude: 37.5, Longitude: 127.0, Address: "Test crossing"},
		Severity:    SeverityHigh,
		Description: desc,
		Status:      StatusActive,
		DetectedBy:  SourceAI,
	}
}

func TestInsertPrependsAndCounts(t *testing.T) {
	store := NewStore()

	for i := 0; i < 5; i++ {
		store.Insert(testDraft(fmt.Sprintf("incident %d", i)))
	}

	require.Equal(t, 5, store.Len())
	snapshot := store.Snapshot()
	assert.Equal(t, "incident 4", snapshot[0].Description, "most recent insert must be first")
	assert.Equal(t, "incident 0", snapshot[4].Description)
}

func TestInsertAssignsUniqueIDs(t *testing.T) {
	store := NewStore()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		inc := store.Insert(testDraft("dup check"))
		require.NotEmpty(t, inc.ID)
		require.False(t, seen[inc.ID], "id %s reused", inc.ID)
		seen[inc.ID] = true
	}
}

func TestInsertTimestampsMonotonic(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store := NewStore(WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}))

	for i := 0; i < 10; i++ {
		store.Insert(testDraft("tick"))
	}

	snapshot := store.Snapshot()
	for i := 0; i < len(snapshot)-1; i++ {
		assert.False(t, snapshot[i].Timestamp.Before(snapshot[i+1].Timestamp),
			"newer records must not predate older ones")
	}
}

func TestInsertDefaultsStatusActive(t *testing.T) {
	store := NewStore()
	draft := testDraft("no status")
	draft.Status = ""

	inc := store.Insert(draft)
	assert.Equal(t, StatusActive, inc.Status)
}

func TestInsertPassesInvalidEnumsThrough(t *testing.T) {
	store := NewStore()
	draft := testDraft("weird")
	draft.Type = Type("meteor_strike")
	draft.Severity = Severity("apocalyptic")

	inc := store.Insert(draft)
	assert.Equal(t, Type("meteor_strike"), inc.Type)
	assert.Equal(t, Severity("apocalyptic"), inc.Severity)
}

func TestUpdateStatusChangesOnlyStatus(t *testing.T) {
	store := NewStore()
	store.Insert(testDraft("other"))
	target := store.Insert(testDraft("target"))

	before := store.Snapshot()
	require.True(t, store.UpdateStatus(target.ID, StatusResolved))
	after := store.Snapshot()

	require.Len(t, after, len(before))
	for i := range after {
		if after[i].ID == target.ID {
			assert.Equal(t, StatusResolved, after[i].Status)
			changed := after[i]
			changed.Status = before[i].Status
			assert.Equal(t, before[i], changed, "only status may change")
			continue
		}
		assert.Equal(t, before[i], after[i], "unrelated records must be untouched")
	}
}

func TestUpdateStatusMissingIDIsNoop(t *testing.T) {
	store := NewStore()
	store.Insert(testDraft("only"))

	before := store.Snapshot()
	assert.False(t, store.UpdateStatus("no-such-id", StatusResolved))
	assert.Equal(t, before, store.Snapshot())
}

func TestListFiltersByStatusPreservingOrder(t *testing.T) {
	store := NewStore()
	a := store.Insert(testDraft("a"))
	b := store.Insert(testDraft("b"))
	c := store.Insert(testDraft("c"))
	store.UpdateStatus(b.ID, StatusResolved)

	active := store.List(Filter{Status: StatusActive})
	require.Len(t, active, 2)
	assert.Equal(t, c.ID, active[0].ID)
	assert.Equal(t, a.ID, active[1].ID)
}

func TestListFilterCombinations(t *testing.T) {
	store := NewStore()
	jam := testDraft("jam")
	jam.Type = TypeTrafficJam
	jam.Severity = SeverityLow
	jam.DetectedBy = SourceUserReport
	store.Insert(jam)
	store.Insert(testDraft("crash"))

	assert.Len(t, store.List(Filter{Type: TypeTrafficJam}), 1)
	assert.Len(t, store.List(Filter{DetectedBy: SourceAI}), 1)
	assert.Len(t, store.List(Filter{MinSeverity: SeverityHigh}), 1)
	assert.Len(t, store.List(Filter{Severity: SeverityLow}), 1)
	assert.Len(t, store.List(Filter{Limit: 1}), 1)
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewStore()
	inserted := store.Insert(testDraft("copy"))

	got, ok := store.Get(inserted.ID)
	require.True(t, ok)
	got.Description = "mutated"

	again, _ := store.Get(inserted.ID)
	assert.Equal(t, "copy", again.Description)
}

func TestGetMissing(t *testing.T) {
	store := NewStore()
	_, ok := store.Get("nope")
	assert.False(t, ok)
}

func TestLoadSeedsFixturesAndMarksReady(t *testing.T) {
	store := NewStore()
	assert.False(t, store.Ready())

	require.NoError(t, store.Load(context.Background(), 0))
	assert.True(t, store.Ready())
	assert.Equal(t, len(SeedIncidents()), store.Len())

	// Inserts land ahead of the seed fixtures.
	inc := store.Insert(testDraft("fresh"))
	assert.Equal(t, inc.ID, store.Snapshot()[0].ID)
}

func TestLoadCancelledBeforeDelay(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Load(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, store.Ready())
	assert.Equal(t, 0, store.Len())
}

func TestStats(t *testing.T) {
	store := NewStore()
	crit := testDraft("critical crash")
	crit.Severity = SeverityCritical
	store.Insert(crit)

	report := testDraft("report")
	report.DetectedBy = SourceUserReport
	resolved := store.Insert(report)
	store.UpdateStatus(resolved.ID, StatusResolved)

	monitoring := store.Insert(testDraft("watching"))
	store.UpdateStatus(monitoring.ID, StatusMonitoring)

	stats := store.Stats()
	assert.Equal(t, Stats{
		Total:          3,
		Active:         1,
		Monitoring:     1,
		Resolved:       1,
		CriticalActive: 1,
		AIDetected:     2,
	}, stats)
}

func TestSeedConfidenceBounds(t *testing.T) {
	for _, inc := range SeedIncidents() {
		if inc.Confidence != nil {
			assert.GreaterOrEqual(t, *inc.Confidence, 0.0)
			assert.LessOrEqual(t, *inc.Confidence, 1.0)
		}
		for _, box := range inc.DetectionBoxes {
			assert.GreaterOrEqual(t, box.Confidence, 0.0)
			assert.LessOrEqual(t, box.Confidence, 1.0)
		}
	}
}
