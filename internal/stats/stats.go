// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/findsens/internal/model"
	"github.com/verte-zerg/findsens/internal/precision"
)

const sparkChars = " .:-=+*#%@"

const sparkRuns = 40

// Summary aggregates a list of runs.
type Summary struct {
	Runs         int
	Hits         int
	Misses       int
	PlayTime     time.Duration
	AvgScore     float64
	BestScore    int
	AvgAccuracy  float64
	AvgDistance  float64
	AvgDeviation float64
	BestGrade    precision.Grade
	Grades       map[precision.Grade]int
}

// Summarize computes the summary of runs. Averages of distance and deviation
// skip ungraded runs.
func Summarize(runs []model.RunAggregate) Summary {
	s := Summary{Runs: len(runs), BestGrade: precision.GradeNone, Grades: map[precision.Grade]int{}}
	if len(runs) == 0 {
		return s
	}
	rank := map[precision.Grade]int{}
	for i, g := range precision.Grades {
		rank[g] = i
	}
	var scoreSum, accSum, distSum, devSum float64
	graded := 0
	for _, r := range runs {
		s.Hits += r.Hits
		s.Misses += r.Misses
		s.PlayTime += time.Duration(r.DurationMs) * time.Millisecond
		scoreSum += float64(r.Score)
		accSum += r.Accuracy
		s.BestScore = max(s.BestScore, r.Score)

		g := precision.Grade(r.Grade)
		pos, ok := rank[g]
		if !ok {
			continue
		}
		s.Grades[g]++
		graded++
		distSum += r.AvgDistance
		devSum += r.Deviation
		if best, ok := rank[s.BestGrade]; !ok || pos < best {
			s.BestGrade = g
		}
	}
	n := float64(len(runs))
	s.AvgScore = scoreSum / n
	s.AvgAccuracy = accSum / n
	if graded > 0 {
		s.AvgDistance = distSum / float64(graded)
		s.AvgDeviation = devSum / float64(graded)
	}
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := bounds(values)
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	top := float64(len(sparkChars) - 1)
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * top))
		b.WriteByte(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}

// BestRuns returns the n highest scoring runs, most recent first on ties.
func BestRuns(runs []model.RunAggregate, n int) []model.RunAggregate {
	if n <= 0 || len(runs) == 0 {
		return nil
	}
	sorted := append([]model.RunAggregate(nil), runs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score == sorted[j].Score {
			return sorted[i].EndedAt.After(sorted[j].EndedAt)
		}
		return sorted[i].Score > sorted[j].Score
	})
	return sorted[:min(n, len(sorted))]
}

// RenderSummary prints a summary for runs.
func RenderSummary(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	s := Summarize(runs)
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d (%s played)", s.Runs, s.PlayTime.Round(time.Second)),
		fmt.Sprintf("Avg Score: %.0f", s.AvgScore),
		fmt.Sprintf("Best Score: %d", s.BestScore),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
		fmt.Sprintf("Avg Distance: %.1fpx", s.AvgDistance),
		fmt.Sprintf("Avg Deviation: %+.1f%%", s.AvgDeviation),
		fmt.Sprintf("Best Grade: %s", s.BestGrade),
		"Grades: " + gradeLine(s.Grades),
		"Score Trend: " + Sparkline(recentScores(runs, sparkRuns)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func recentScores(runs []model.RunAggregate, n int) []float64 {
	if len(runs) > n {
		runs = runs[len(runs)-n:]
	}
	out := make([]float64, len(runs))
	for i, r := range runs {
		out[i] = float64(r.Score)
	}
	return out
}

func gradeLine(counts map[precision.Grade]int) string {
	parts := make([]string, 0, len(precision.Grades))
	for _, g := range precision.Grades {
		if counts[g] > 0 {
			parts = append(parts, fmt.Sprintf("%s×%d", g, counts[g]))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// RenderCurves prints learning curves for score, accuracy, and distance.
func RenderCurves(w io.Writer, runs []model.RunAggregate, window int) error {
	return RenderCurvesWithSize(w, runs, window, 0, 10, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, runs []model.RunAggregate, window, totalWidth, height int, useColor bool) error {
	if len(runs) == 0 {
		return nil
	}
	scores := make([]float64, len(runs))
	accs := make([]float64, len(runs))
	var dists []float64
	for i, r := range runs {
		scores[i] = float64(r.Score)
		accs[i] = r.Accuracy
		if r.Grade != string(precision.GradeNone) {
			dists = append(dists, r.AvgDistance)
		}
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if err := (Plot{
		Title:  "Learning Curves",
		Series: []Series{{Name: "Score", Values: MovingAverage(scores, window)}, {Name: "Accuracy", Values: MovingAverage(accs, window)}},
		Width:  width,
		Height: height,
		Color:  useColor,
	}).Render(w); err != nil {
		return err
	}
	return Plot{
		Title:  "Click Distance (px)",
		Series: []Series{{Name: "Distance", Values: MovingAverage(dists, window)}},
		Width:  width,
		Height: height,
		Color:  useColor,
	}.Render(w)
}

// RenderRunTable prints the given runs, newest first.
func RenderRunTable(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Runs"); err != nil {
		return err
	}
	headers, rows := RunRows(runs)
	for _, line := range formatTable(headers, rows, map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true, 8: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderBestRuns prints runs in the given order, highest score first when
// fed from BestRuns.
func RenderBestRuns(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Best Runs"); err != nil {
		return err
	}
	headers, rows := RunRows(runs)
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	for _, line := range formatTable(headers, rows, map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true, 8: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RunRows formats runs newest first for tabular display.
func RunRows(runs []model.RunAggregate) ([]string, [][]string) {
	headers := []string{"Date", "Mode", "Life", "Hits", "Misses", "Acc", "Dist", "Score", "Grade"}
	rows := make([][]string, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		life := "no"
		if r.LifeMode {
			life = "yes"
		}
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			r.Mode,
			life,
			fmt.Sprintf("%d", r.Hits),
			fmt.Sprintf("%d", r.Misses),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%.1f", r.AvgDistance),
			fmt.Sprintf("%d", r.Score),
			r.Grade,
		})
	}
	return headers, rows
}

// RenderLeaderboard prints ranked entries.
func RenderLeaderboard(w io.Writer, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "Leaderboard is empty.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Leaderboard"); err != nil {
		return err
	}
	headers, rows := LeaderboardRows(entries)
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// LeaderboardRows formats ranked entries for tabular display.
func LeaderboardRows(entries []model.LeaderboardEntry) ([]string, [][]string) {
	headers := []string{"Rank", "Name", "Country", "Score", "Acc", "Grade", "Date"}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("#%d", i+1),
			e.Name,
			e.Country,
			fmt.Sprintf("%d", e.Score),
			fmt.Sprintf("%.1f%%", e.Accuracy),
			e.Grade,
			e.CreatedAt.Local().Format("2006-01-02"),
		})
	}
	return headers, rows
}

// RenderConversions prints converted sensitivities, marking the source game.
func RenderConversions(w io.Writer, conversions []precision.Conversion, from string) error {
	if len(conversions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Converted Sensitivity"); err != nil {
		return err
	}
	headers := []string{"Game", "Sensitivity", ""}
	rows := make([][]string, 0, len(conversions))
	for _, c := range conversions {
		mark := ""
		if strings.EqualFold(c.Game.Key, from) {
			mark = "◀"
		}
		rows = append(rows, []string{c.Game.Name, fmt.Sprintf("%.3f", c.Sensitivity), mark})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
