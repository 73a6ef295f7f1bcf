// Package precision turns the hits, misses, and click samples of a run into a
// score, a grade, and a sensitivity recommendation.
package precision

import (
	"math"
	"time"
)

// Accuracy returns the hit rate in percent, 0 when there were no attempts.
func Accuracy(hits, misses int) float64 {
	total := hits + misses
	if total <= 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// CalculateScore rewards volume, accuracy, and a fast final interval:
// hits*100 + accuracy*50 + max(0, 1000-intervalMs).
func CalculateScore(hits, misses int, finalInterval time.Duration) int {
	if hits+misses <= 0 {
		return 0
	}
	speedBonus := math.Max(0, 1000-float64(finalInterval.Milliseconds()))
	return int(math.Floor(float64(hits)*100 + Accuracy(hits, misses)*50 + speedBonus))
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
