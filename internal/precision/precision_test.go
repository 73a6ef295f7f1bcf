package precision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateScore(t *testing.T) {
	tests := []struct {
		name     string
		hits     int
		misses   int
		interval time.Duration
		want     int
	}{
		{name: "perfect fast run", hits: 10, misses: 0, interval: 300 * time.Millisecond, want: 6700},
		{name: "no attempts", hits: 0, misses: 0, interval: time.Second, want: 0},
		{name: "only misses", hits: 0, misses: 5, interval: time.Second, want: 0},
		{name: "interval above bonus range", hits: 1, misses: 1, interval: 1200 * time.Millisecond, want: 2600},
		{name: "fractional accuracy floors", hits: 2, misses: 1, interval: 990 * time.Millisecond, want: 3543},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateScore(tt.hits, tt.misses, tt.interval))
		})
	}
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(0, 0))
	assert.Equal(t, 100.0, Accuracy(4, 0))
	assert.InDelta(t, 66.666, Accuracy(2, 1), 0.001)
}

func TestCalculateGrade(t *testing.T) {
	tests := []struct {
		accuracy float64
		distance float64
		want     Grade
	}{
		{96, 8, GradeSSS},
		{96, 12, GradeSS},
		{91, 14.9, GradeSS},
		{91, 15, GradeS},
		{86, 1, GradeS},
		{85, 1, GradeA},
		{80, 20, GradeA},
		{61, 20, GradeB},
		{50, 50, GradeC},
		{40, 0, GradeD},
		{0, 0, GradeD},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateGrade(tt.accuracy, tt.distance), "accuracy=%v distance=%v", tt.accuracy, tt.distance)
	}
}

func TestCalculateDeviationPercent(t *testing.T) {
	assert.Equal(t, 0.0, CalculateDeviationPercent(nil))
	assert.InDelta(t, 10.0, CalculateDeviationPercent([]float64{1.1, 1.1, 1.1}), 1e-9)
	assert.InDelta(t, -20.0, CalculateDeviationPercent([]float64{0.7, 0.9}), 1e-9)
}

func TestCalculateAdjustedSens(t *testing.T) {
	got, err := CalculateAdjustedSens(1.0, "cs2", 10)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got["cs2"], 1e-9)
	assert.InDelta(t, 0.9, got["apex"], 1e-9)
	assert.InDelta(t, 0.2828, got["valorant"], 1e-4)
	assert.InDelta(t, 0.9*3.839, got["r6"], 1e-9)
	assert.Len(t, got, 8)
}

func TestCalculateAdjustedSensFromOtherBaseline(t *testing.T) {
	got, err := CalculateAdjustedSens(0.4, "valorant", 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.4*3.181818, got["cs2"], 1e-9)
	assert.InDelta(t, 0.4, got["valorant"], 1e-9)
}

func TestCalculateAdjustedSensUnknownGame(t *testing.T) {
	_, err := CalculateAdjustedSens(1, "quake", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestParseTableRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty", yaml: "baseline: cs2\n"},
		{name: "zero multiplier", yaml: "baseline: cs2\ngames:\n  - key: cs2\n    multiplier: 0\n"},
		{name: "duplicate", yaml: "baseline: cs2\ngames:\n  - key: cs2\n    multiplier: 1\n  - key: CS2\n    multiplier: 1\n"},
		{name: "missing baseline", yaml: "baseline: r6\ngames:\n  - key: cs2\n    multiplier: 1\n"},
		{name: "not yaml", yaml: "games: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestTableWithOverrides(t *testing.T) {
	table, err := DefaultTable().WithOverrides(map[string]float64{"valorant": 0.3, "Quake": 2})
	require.NoError(t, err)

	val, ok := table.Lookup("valorant")
	require.True(t, ok)
	assert.Equal(t, 0.3, val.Ratio())
	quake, ok := table.Lookup("quake")
	require.True(t, ok)
	assert.Equal(t, 2.0, quake.Ratio())

	orig, _ := DefaultTable().Lookup("valorant")
	assert.InDelta(t, 1/3.181818, orig.Ratio(), 1e-12)

	_, err = DefaultTable().WithOverrides(map[string]float64{"cs2": -1})
	assert.Error(t, err)
}

func TestOffsetRatio(t *testing.T) {
	prev := Point{X: 0, Y: 0}
	target := Point{X: 100, Y: 0}

	ratio, ok := OffsetRatio(prev, target, Point{X: 110, Y: 5})
	require.True(t, ok)
	assert.InDelta(t, 1.1, ratio, 1e-9)

	ratio, ok = OffsetRatio(prev, target, Point{X: 90, Y: -30})
	require.True(t, ok)
	assert.InDelta(t, 0.9, ratio, 1e-9)

	_, ok = OffsetRatio(prev, Point{X: 6, Y: 6}, Point{X: 6, Y: 6})
	assert.False(t, ok)
}

func TestSamplesRecord(t *testing.T) {
	var s Samples
	s.Record(nil, Point{X: 10, Y: 10}, Point{X: 13, Y: 14})
	assert.Equal(t, []float64{5}, s.PixelDistances)
	assert.Empty(t, s.OffsetRatios)

	prev := Point{X: 10, Y: 10}
	s.Record(&prev, Point{X: 110, Y: 10}, Point{X: 120, Y: 10})
	assert.Equal(t, []float64{5, 10}, s.PixelDistances)
	require.Len(t, s.OffsetRatios, 1)
	assert.InDelta(t, 1.1, s.OffsetRatios[0], 1e-9)

	s.Reset()
	assert.Empty(t, s.PixelDistances)
}

func TestTimelineCapsAndAveragesRecent(t *testing.T) {
	var tl Timeline
	distances := []float64{100, 1, 2, 3, 4, 5}
	tl.Record(2*time.Second, 3, 1, distances)
	require.Len(t, tl.Points, 1)
	assert.Equal(t, 75.0, tl.Points[0].Accuracy)
	assert.Equal(t, 3.0, tl.Points[0].AvgDistance)

	for i := 0; i < TimelineCap+10; i++ {
		tl.Record(time.Duration(i)*time.Second, i, 0, nil)
	}
	assert.Len(t, tl.Points, TimelineCap)
	assert.Equal(t, time.Duration(TimelineCap+9)*time.Second, tl.Points[TimelineCap-1].Elapsed)

	acc, dist := tl.Series()
	assert.Len(t, acc, TimelineCap)
	assert.Len(t, dist, TimelineCap)
}

func TestAnalyzeNotEnoughData(t *testing.T) {
	a, err := Analyze(Input{
		Hits:           2,
		Misses:         0,
		FinalInterval:  980 * time.Millisecond,
		OffsetRatios:   []float64{1.2, 1.3},
		PixelDistances: []float64{3, 4},
		CurrentSens:    1,
		Game:           "cs2",
	})
	require.NoError(t, err)
	assert.Equal(t, VerdictInsufficient, a.Verdict)
	assert.Equal(t, GradeSSS, a.Grade)
	assert.Contains(t, a.Feedback, "Not enough data")
	assert.Empty(t, a.Recommendation)
	assert.Nil(t, a.Conversions)
	assert.Equal(t, 100.0, a.Accuracy)
	assert.Equal(t, 5220, a.Score)
}

func TestAnalyzeGradesShortRuns(t *testing.T) {
	a, err := Analyze(Input{Hits: 0, Misses: 5, FinalInterval: time.Second})
	require.NoError(t, err)
	assert.Equal(t, VerdictInsufficient, a.Verdict)
	assert.Equal(t, GradeD, a.Grade)

	a, err = Analyze(Input{FinalInterval: time.Second})
	require.NoError(t, err)
	assert.Equal(t, GradeNone, a.Grade)
	assert.Zero(t, a.Score)
}

func TestAnalyzeVerdicts(t *testing.T) {
	tests := []struct {
		name    string
		ratios  []float64
		verdict Verdict
		rec     string
	}{
		{name: "overshoot", ratios: []float64{1.1, 1.1, 1.1}, verdict: VerdictOvershoot, rec: "Reduce"},
		{name: "undershoot", ratios: []float64{0.8, 0.9, 0.85}, verdict: VerdictUndershoot, rec: "Increase"},
		{name: "optimal", ratios: []float64{1.02, 0.98, 1.0}, verdict: VerdictOptimal, rec: "optimal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(Input{
				Hits:           20,
				Misses:         0,
				FinalInterval:  800 * time.Millisecond,
				OffsetRatios:   tt.ratios,
				PixelDistances: []float64{5, 6, 7},
				CurrentSens:    1,
				Game:           "cs2",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.verdict, a.Verdict)
			assert.Contains(t, a.Recommendation, tt.rec)
			assert.Equal(t, GradeSSS, a.Grade)
			require.Len(t, a.Conversions, 8)
			assert.Equal(t, "cs2", a.Conversions[0].Game.Key)
			assert.InDelta(t, 1-a.Deviation/100, a.Conversions[0].Sensitivity, 1e-9)
		})
	}
}

func TestAnalyzeUnknownGame(t *testing.T) {
	_, err := Analyze(Input{
		Hits:           5,
		OffsetRatios:   []float64{1, 1, 1},
		PixelDistances: []float64{1, 1, 1},
		CurrentSens:    1,
		Game:           "quake",
	})
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestAnalyzeWithoutSensitivitySkipsConversions(t *testing.T) {
	a, err := Analyze(Input{
		Hits:           5,
		OffsetRatios:   []float64{1, 1, 1},
		PixelDistances: []float64{20, 20, 20},
	})
	require.NoError(t, err)
	assert.Equal(t, VerdictOptimal, a.Verdict)
	assert.Equal(t, GradeS, a.Grade)
	assert.Nil(t, a.Conversions)
}
