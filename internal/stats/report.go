package stats

import (
	"context"

	"github.com/verte-zerg/findsens/internal/model"
	"github.com/verte-zerg/findsens/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Runs        []model.RunAggregate
	Window      []model.RunAggregate
	Best        []model.RunAggregate
	Leaderboard []model.LeaderboardEntry
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig, leaderboardLimit int) (Report, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	board, err := st.TopRankings(ctx, leaderboardLimit)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Runs:        runs,
		Window:      lastRuns(runs, cfg.CurveWindow),
		Best:        BestRuns(runs, 5),
		Leaderboard: board,
	}, nil
}

func lastRuns(runs []model.RunAggregate, window int) []model.RunAggregate {
	if window <= 0 || len(runs) <= window {
		return runs
	}
	return runs[len(runs)-window:]
}
