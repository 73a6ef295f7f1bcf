package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/findsens/internal/mice"
	"github.com/verte-zerg/findsens/internal/model"
	"github.com/verte-zerg/findsens/internal/stats"
	"github.com/verte-zerg/findsens/internal/statsui"
	"github.com/verte-zerg/findsens/internal/store"
)

var (
	statsMode        string
	statsLifeOnly    bool
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	boardLimit int

	convertGame      string
	convertSens      float64
	convertDeviation float64

	miceBrand string
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	if err := ensureDir(configPath); err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(err, "failed to stat config")
		}
		if err := os.WriteFile(configPath, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return errors.Wrap(err, "failed to write config")
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], configPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "failed to open editor")
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# findsens configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# mode = %q          # Grid mode: standard (16x9) or small (32x18)
# life-mode = false         # Five misses end the run
# game = %q               # Game your sensitivity belongs to
# sens = 1.0                # Current in-game sensitivity
# dpi = 800                 # Mouse DPI
# mouse = "Logitech G Pro X Superlight"
# min-travel = 0            # Minimum distance in cells between targets

[engine]
# initial-interval = "1s"   # Starting flash interval, also the ceiling
# min-interval = "300ms"    # Fastest flash interval
# interval-step = "10ms"    # Speed-up per hit
# miss-penalty = "50ms"     # Slow-down per miss
# hit-cooldown = "150ms"    # Minimum gap between credited hits
# max-misses = 5            # Lives in life mode
# max-no-clicks = 10        # Consecutive misses before the run ends as idle

[sensitivity]
# Multipliers relative to cs2 (1.0). Adds a game when the key is new.
# valorant = 0.314286
# r6 = 3.839

[log]
# level = %q
# file = "stderr"           # Path, stderr, stdout or none
`, defaultMode, defaultGame, defaultLogLevel)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show run history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "grid mode filter")
	cmd.Flags().BoolVar(&statsLifeOnly, "life-only", false, "only life mode runs")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	_, closer, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg, err := statsConfig()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return renderPlainStats(cmd, st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg, store.LeaderboardSize), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return errors.Wrap(err, "failed to run stats TUI")
	}
	return nil
}

func statsConfig() (model.StatsConfig, error) {
	var since *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, errors.Wrap(err, "invalid --since value")
		}
		since = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, errors.New("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, errors.New("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Mode:        strings.ToLower(strings.TrimSpace(statsMode)),
		LifeOnly:    statsLifeOnly,
		Since:       since,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func renderPlainStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(cmd.Context(), st, cfg, store.LeaderboardSize)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Runs); err != nil {
		return err
	}
	if len(report.Runs) == 0 {
		return nil
	}
	if err := stats.RenderCurves(out, report.Runs, cfg.CurveWindow); err != nil {
		return err
	}
	if err := stats.RenderBestRuns(out, report.Best); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	return stats.RenderRunTable(out, report.Window)
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the local life mode leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().IntVar(&boardLimit, "limit", defaultBoardLimit, fmt.Sprintf("entries to show (max %d)", store.LeaderboardSize))
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	_, closer, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	entries, err := st.TopRankings(cmd.Context(), boardLimit)
	if err != nil {
		return err
	}
	return stats.RenderLeaderboard(cmd.OutOrStdout(), entries)
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a sensitivity between games",
		Args:  cobra.NoArgs,
		RunE:  runConvertCmd,
	}
	cmd.Flags().StringVar(&convertGame, "game", defaultGame, "source game")
	cmd.Flags().Float64Var(&convertSens, "sens", 0, "sensitivity in the source game")
	cmd.Flags().Float64Var(&convertDeviation, "deviation", 0, "measured deviation in percent (positive means overshoot)")
	_ = cmd.MarkFlagRequired("sens")
	return cmd
}

func runConvertCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, closer, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	if convertSens <= 0 {
		return errors.New("--sens must be > 0")
	}
	table, err := loadTable(fileCfg)
	if err != nil {
		return err
	}
	game := strings.ToLower(strings.TrimSpace(convertGame))
	conversions, err := table.Convert(convertSens, game, convertDeviation)
	if err != nil {
		return err
	}
	return stats.RenderConversions(cmd.OutOrStdout(), conversions, game)
}

func newMiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mice",
		Short: "List the built-in mouse reference",
		Args:  cobra.NoArgs,
		RunE:  runMiceCmd,
	}
	cmd.Flags().StringVar(&miceBrand, "brand", "", "show models of one brand")
	return cmd
}

func runMiceCmd(cmd *cobra.Command, _ []string) error {
	catalog := mice.Default()
	out := cmd.OutOrStdout()
	if miceBrand != "" {
		brand, err := catalog.Brand(miceBrand)
		if err != nil {
			return err
		}
		for _, m := range brand.Models {
			if _, err := fmt.Fprintf(out, "%s %s\n", brand.Name, m); err != nil {
				return errors.Wrap(err, "failed to write output")
			}
		}
		return nil
	}
	for _, b := range catalog.Brands {
		if _, err := fmt.Fprintf(out, "%-12s %d models\n", b.Name, len(b.Models)); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}
	return nil
}
