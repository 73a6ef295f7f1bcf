package precision

import (
	"fmt"
	"time"
)

// MinSamples is the number of hit samples needed before a run is graded or a
// sensitivity change is recommended.
const MinSamples = 3

// Overshoot and undershoot bands around a perfect mean ratio of 1.
const (
	overshootRatio  = 1.05
	undershootRatio = 0.95
)

// Verdict summarizes the aim tendency of a run.
type Verdict int

const (
	VerdictInsufficient Verdict = iota
	VerdictOptimal
	VerdictOvershoot
	VerdictUndershoot
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictInsufficient:
		return "insufficient"
	case VerdictOptimal:
		return "optimal"
	case VerdictOvershoot:
		return "overshoot"
	case VerdictUndershoot:
		return "undershoot"
	default:
		return "unknown"
	}
}

// Input is everything known about a finished run.
type Input struct {
	Hits           int
	Misses         int
	FinalInterval  time.Duration
	OffsetRatios   []float64
	PixelDistances []float64
	CurrentSens    float64
	Game           string
}

// Analysis is the result screen of a run.
type Analysis struct {
	Accuracy       float64
	AvgDistance    float64
	Score          int
	Grade          Grade
	Deviation      float64
	Verdict        Verdict
	Feedback       string
	Recommendation string
	Conversions    []Conversion
}

// Analyze grades a run and, with enough samples, recommends a sensitivity.
// Conversions are filled only when a current sensitivity and game are known.
func (t Table) Analyze(in Input) (Analysis, error) {
	a := Analysis{
		Accuracy:    Accuracy(in.Hits, in.Misses),
		AvgDistance: Mean(in.PixelDistances),
		Score:       CalculateScore(in.Hits, in.Misses, in.FinalInterval),
		Grade:       GradeNone,
		Verdict:     VerdictInsufficient,
	}
	if in.Hits+in.Misses > 0 {
		a.Grade = CalculateGrade(a.Accuracy, a.AvgDistance)
	}

	if len(in.OffsetRatios) < MinSamples {
		a.Feedback = "Not enough data collected. Try to hit more targets!"
		return a, nil
	}

	mean := Mean(in.OffsetRatios)
	a.Deviation = CalculateDeviationPercent(in.OffsetRatios)
	switch {
	case mean > overshootRatio:
		a.Verdict = VerdictOvershoot
		a.Feedback = fmt.Sprintf("You are consistently overshooting targets (average %.1f%% past center).", (mean-1)*100)
		a.Recommendation = "Reduce your sensitivity"
	case mean < undershootRatio:
		a.Verdict = VerdictUndershoot
		a.Feedback = fmt.Sprintf("You are consistently undershooting targets (average %.1f%% before center).", (1-mean)*100)
		a.Recommendation = "Increase your sensitivity"
	default:
		a.Verdict = VerdictOptimal
		a.Feedback = "Your aim is well centered relative to your movement."
		a.Recommendation = "Your sensitivity is optimal"
	}

	if in.CurrentSens > 0 && in.Game != "" {
		conv, err := t.Convert(in.CurrentSens, in.Game, a.Deviation)
		if err != nil {
			return a, err
		}
		a.Conversions = conv
	}
	return a, nil
}

// Analyze runs the analysis with the built-in table.
func Analyze(in Input) (Analysis, error) {
	return DefaultTable().Analyze(in)
}
