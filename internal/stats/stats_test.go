package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/findsens/internal/model"
	"github.com/verte-zerg/findsens/internal/precision"
)

func sampleRuns() []model.RunAggregate {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	return []model.RunAggregate{
		{RunID: 1, EndedAt: base, Mode: "standard", Hits: 30, Misses: 10, DurationMs: 60000, Score: 5000, Grade: "B", Accuracy: 75, AvgDistance: 20, Deviation: 8},
		{RunID: 2, EndedAt: base.Add(time.Hour), Mode: "standard", LifeMode: true, Hits: 50, Misses: 5, DurationMs: 90000, Score: 9000, Grade: "S", Accuracy: 90.9, AvgDistance: 12, Deviation: 2},
		{RunID: 3, EndedAt: base.Add(2 * time.Hour), Mode: "small", Hits: 1, Misses: 0, DurationMs: 3000, Score: 5100, Grade: "-", Accuracy: 100},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRuns())
	assert.Equal(t, 3, s.Runs)
	assert.Equal(t, 81, s.Hits)
	assert.Equal(t, 15, s.Misses)
	assert.Equal(t, 153*time.Second, s.PlayTime)
	assert.Equal(t, 9000, s.BestScore)
	assert.InDelta(t, 6366.67, s.AvgScore, 0.01)
	assert.InDelta(t, 16.0, s.AvgDistance, 1e-9)
	assert.InDelta(t, 5.0, s.AvgDeviation, 1e-9)
	assert.Equal(t, precision.GradeS, s.BestGrade)
	assert.Equal(t, map[precision.Grade]int{precision.GradeB: 1, precision.GradeS: 1}, s.Grades)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Runs)
	assert.Equal(t, precision.GradeNone, s.BestGrade)
}

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 5, 7}, MovingAverage([]float64{2, 4, 6, 8}, 2))
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 0))
	assert.Empty(t, MovingAverage(nil, 3))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "+++", Sparkline([]float64{4, 4, 4}))
	line := Sparkline([]float64{0, 5, 10})
	require.Len(t, line, 3)
	assert.Equal(t, byte(' '), line[0])
	assert.Equal(t, byte('@'), line[2])
}

func TestBestRuns(t *testing.T) {
	best := BestRuns(sampleRuns(), 2)
	require.Len(t, best, 2)
	assert.Equal(t, int64(2), best[0].RunID)
	assert.Equal(t, int64(3), best[1].RunID)
	assert.Nil(t, BestRuns(sampleRuns(), 0))
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, sampleRuns()))
	out := buf.String()
	assert.Contains(t, out, "Runs: 3 (2m33s played)")
	assert.Contains(t, out, "Best Score: 9000")
	assert.Contains(t, out, "Best Grade: S")
	assert.Contains(t, out, "Grades: S×1 B×1")
	assert.Contains(t, out, "Score Trend:  @ \n")

	buf.Reset()
	require.NoError(t, RenderSummary(&buf, nil))
	assert.Equal(t, "No runs found.\n", buf.String())
}

func TestRenderCurvesWithSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCurvesWithSize(&buf, sampleRuns(), 2, 40, 4, false))
	out := buf.String()
	assert.Contains(t, out, "Learning Curves")
	assert.Contains(t, out, "Score: min=")
	assert.Contains(t, out, "Click Distance (px)")
}

func TestRenderRunTableNewestFirst(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRunTable(&buf, sampleRuns()))
	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "Runs", lines[0])
	assert.Contains(t, lines[1], "Grade")
	assert.Contains(t, lines[2], "small")
	assert.Contains(t, lines[4], "75.0%")
}

func TestRenderBestRunsScoreOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBestRuns(&buf, BestRuns(sampleRuns(), 3)))
	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "Best Runs", lines[0])
	assert.Contains(t, lines[2], "9000")
	assert.Contains(t, lines[3], "5100")
	assert.Contains(t, lines[4], "5000")

	buf.Reset()
	require.NoError(t, RenderBestRuns(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestRenderLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderLeaderboard(&buf, []model.LeaderboardEntry{
		{Name: "ace", Country: "KR", Score: 12840, Accuracy: 97.5, Grade: "SSS"},
		{Name: "Anonymous", Country: "Global", Score: 950, Accuracy: 40, Grade: "D"},
	}))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "Leaderboard", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "  #1 ace"))
	assert.Contains(t, lines[3], "Anonymous")

	buf.Reset()
	require.NoError(t, RenderLeaderboard(&buf, nil))
	assert.Equal(t, "Leaderboard is empty.\n", buf.String())
}

func TestRenderConversions(t *testing.T) {
	conv, err := precision.DefaultTable().Convert(1, "cs2", 0)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, RenderConversions(&buf, conv, "cs2"))
	out := buf.String()
	assert.Contains(t, out, "Converted Sensitivity")
	assert.Contains(t, out, "CS2")
	assert.Contains(t, out, "1.000 ◀")
	assert.Contains(t, out, "0.314")
}
