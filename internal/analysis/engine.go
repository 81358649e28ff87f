package analysis

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// engineClasses are the labels the embedded engine emits. All of them map
// through classToType so every fabricated detection produces an incident.
var engineClasses = []string{
	"car_accident",
	"flood",
	"heavy_traffic",
	"blocked_road",
	"construction",
	"emergency_vehicle",
}

// Engine fabricates analyze results in the shape a real inference server
// would return. There is no model behind it.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine builds an engine around the given rng. A seeded rng makes the
// output reproducible for tests.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// Analyze fabricates 1-3 detections with confidences in [0.65, 0.95) and
// bounding boxes in fixed pixel ranges, plus plausible frame counts.
func (e *Engine) Analyze() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 1 + e.rng.Intn(3)
	detections := make([]Detection, 0, count)
	for i := 0; i < count; i++ {
		detections = append(detections, Detection{
			Class:      engineClasses[e.rng.Intn(len(engineClasses))],
			Confidence: 0.65 + e.rng.Float64()*0.30,
			BBox: [4]float64{
				float64(50 + e.rng.Intn(150)),  // x1
				float64(50 + e.rng.Intn(100)),  // y1
				float64(250 + e.rng.Intn(150)), // x2
				float64(200 + e.rng.Intn(100)), // y2
			},
		})
	}

	return &Result{
		VideoID:         uuid.NewString(),
		Detections:      detections,
		ProcessedFrames: 80 + e.rng.Intn(40),
		TotalFrames:     100 + e.rng.Intn(50),
		Status:          "completed",
	}
}
