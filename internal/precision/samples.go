package precision

import (
	"math"
	"time"
)

const (
	// MinTravel is the shortest target-to-target move, in pixels, that yields
	// an offset sample.
	MinTravel = 10.0
	// TimelineCap bounds the number of timeline points kept per run.
	TimelineCap = 100
	// recentWindow is the number of latest distances averaged per timeline point.
	recentWindow = 5
)

// Point is a screen position in pixels.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// OffsetRatio projects the click onto the path from the previous target to
// the current one. 1 is the current center, above 1 is past it. ok is false
// when the targets are closer than MinTravel.
func OffsetRatio(prev, target, click Point) (ratio float64, ok bool) {
	dx := target.X - prev.X
	dy := target.Y - prev.Y
	travel := math.Hypot(dx, dy)
	if travel < MinTravel {
		return 0, false
	}
	vx := click.X - prev.X
	vy := click.Y - prev.Y
	return (vx*dx + vy*dy) / (travel * travel), true
}

// Samples collects per-hit measurements for a run.
type Samples struct {
	OffsetRatios   []float64
	PixelDistances []float64
}

// Record stores the distance of a credited click from the target center and,
// when prev is known and far enough, its offset ratio.
func (s *Samples) Record(prev *Point, target, click Point) {
	s.PixelDistances = append(s.PixelDistances, click.Distance(target))
	if prev == nil {
		return
	}
	if ratio, ok := OffsetRatio(*prev, target, click); ok {
		s.OffsetRatios = append(s.OffsetRatios, ratio)
	}
}

// Reset clears all samples.
func (s *Samples) Reset() {
	s.OffsetRatios = nil
	s.PixelDistances = nil
}

// TimelinePoint is an accuracy and distance snapshot during a run.
type TimelinePoint struct {
	Elapsed     time.Duration
	Accuracy    float64
	AvgDistance float64
}

// Timeline is a capped series of snapshots.
type Timeline struct {
	Points []TimelinePoint
}

// Record appends a snapshot computed from the running tallies, dropping the
// oldest point beyond TimelineCap.
func (t *Timeline) Record(elapsed time.Duration, hits, misses int, distances []float64) {
	recent := distances
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	t.Points = append(t.Points, TimelinePoint{
		Elapsed:     elapsed,
		Accuracy:    Accuracy(hits, misses),
		AvgDistance: Mean(recent),
	})
	if len(t.Points) > TimelineCap {
		t.Points = append([]TimelinePoint(nil), t.Points[len(t.Points)-TimelineCap:]...)
	}
}

// Series splits the timeline into accuracy and distance values.
func (t Timeline) Series() (accuracy, distance []float64) {
	accuracy = make([]float64, len(t.Points))
	distance = make([]float64, len(t.Points))
	for i, p := range t.Points {
		accuracy[i] = p.Accuracy
		distance[i] = p.AvgDistance
	}
	return accuracy, distance
}
