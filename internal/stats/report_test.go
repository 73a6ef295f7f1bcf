package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/findsens/internal/model"
	"github.com/verte-zerg/findsens/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "findsens.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 4; i++ {
		start := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute)
		id, err := st.InsertRun(ctx, model.RunRecord{
			StartedAt:  start,
			EndedAt:    start.Add(30 * time.Second),
			Mode:       "standard",
			Hits:       10 + i,
			Misses:     2,
			DurationMs: 30000,
			Score:      1000 * (i + 1),
			Grade:      "A",
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	for _, score := range []int{300, 900} {
		_, err := st.SaveRanking(ctx, model.LeaderboardEntry{Name: "p", Score: score})
		require.NoError(t, err)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 3, CurveWindow: 2}, 1)
	require.NoError(t, err)
	require.Len(t, report.Runs, 3)
	assert.Equal(t, ids[1], report.Runs[0].RunID)
	assert.Equal(t, ids[3], report.Runs[2].RunID)
	require.Len(t, report.Window, 2)
	assert.Equal(t, ids[2], report.Window[0].RunID)
	require.NotEmpty(t, report.Best)
	assert.Equal(t, 4000, report.Best[0].Score)
	require.Len(t, report.Leaderboard, 1)
	assert.Equal(t, 900, report.Leaderboard[0].Score)
}
