// Package main provides the CLI entrypoint for findsens.
package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/findsens/internal/config"
	"github.com/verte-zerg/findsens/internal/engine"
	"github.com/verte-zerg/findsens/internal/grid"
	"github.com/verte-zerg/findsens/internal/logger"
	"github.com/verte-zerg/findsens/internal/mice"
	"github.com/verte-zerg/findsens/internal/model"
	"github.com/verte-zerg/findsens/internal/precision"
	"github.com/verte-zerg/findsens/internal/store"
	"github.com/verte-zerg/findsens/internal/tui"
)

const (
	defaultMode        = "standard"
	defaultGame        = "cs2"
	defaultLogLevel    = "info"
	defaultCurveWindow = 10
	defaultBoardLimit  = 10
)

var (
	configPath string
	dbPath     string
	logLevel   string
	logFile    string

	playMode      string
	playLife      bool
	playGame      string
	playSens      float64
	playDPI       int
	playMouse     string
	playSeed      int64
	playMinTravel int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "findsens",
		Short:         "Terminal aim trainer and sensitivity checker",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPlayCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	pf.StringVar(&dbPath, "db", config.DefaultDBPath(), "database path")
	pf.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", config.DefaultLogPath(), "log file path, or stderr/none")

	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "grid mode (standard 16x9, small 32x18)")
	rootCmd.Flags().BoolVar(&playLife, "life", false, "start in life mode (5 misses end the run)")
	rootCmd.Flags().StringVar(&playGame, "game", defaultGame, "game your sensitivity belongs to")
	rootCmd.Flags().Float64Var(&playSens, "sens", 0, "current in-game sensitivity (0 skips recommendations)")
	rootCmd.Flags().IntVar(&playDPI, "dpi", 0, "mouse DPI (informational)")
	rootCmd.Flags().StringVar(&playMouse, "mouse", "", "mouse model, e.g. \"Logitech G Pro X Superlight\"")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "target sequence seed (0 picks one from the clock)")
	rootCmd.Flags().IntVar(&playMinTravel, "min-travel", 0, "minimum distance in cells between targets")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newMiceCmd())

	return rootCmd
}

// loadSettings reads the config file, applies the [log] section and starts
// logging. The returned closer flushes the log file.
func loadSettings(cmd *cobra.Command) (config.FileConfig, io.Closer, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.FileConfig{}, nil, errors.Wrap(err, "failed to load config")
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	closer, err := logger.Init(logConfig(logFile, logLevel))
	if err != nil {
		return config.FileConfig{}, nil, errors.Wrap(err, "failed to init logger")
	}
	return fileCfg, closer, nil
}

func logConfig(file, level string) logger.Config {
	switch strings.ToLower(strings.TrimSpace(file)) {
	case "", "none":
		return logger.Config{Output: "none", Level: level}
	case "stderr", "stdout":
		return logger.Config{Output: strings.ToLower(file), Level: level}
	}
	return logger.Config{Output: "file", Level: level, File: file}
}

func loadTable(fileCfg config.FileConfig) (precision.Table, error) {
	table := precision.DefaultTable()
	if len(fileCfg.Sensitivity) == 0 {
		return table, nil
	}
	table, err := table.WithOverrides(fileCfg.Sensitivity)
	if err != nil {
		return precision.Table{}, errors.Wrap(err, "invalid [sensitivity] section")
	}
	return table, nil
}

func engineConfig(ec config.EngineConfig) (engine.Config, error) {
	var cfg engine.Config
	applyDuration(&cfg.InitialInterval, ec.InitialInterval)
	applyDuration(&cfg.MinInterval, ec.MinInterval)
	applyDuration(&cfg.IntervalStep, ec.IntervalStep)
	applyDuration(&cfg.MissPenalty, ec.MissPenalty)
	applyDuration(&cfg.HitCooldown, ec.HitCooldown)
	if ec.MaxMisses != nil {
		cfg.MaxMisses = *ec.MaxMisses
	}
	if ec.MaxNoClicks != nil {
		cfg.MaxNoClicks = *ec.MaxNoClicks
	}
	return cfg.Normalize()
}

func applyDuration(target *time.Duration, value *config.Duration) {
	if value != nil {
		*target = value.Duration
	}
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, closer, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	applyStringConfig(cmd, "mode", &playMode, fileCfg.Play.Mode)
	applyBoolConfig(cmd, "life", &playLife, fileCfg.Play.LifeMode)
	applyStringConfig(cmd, "game", &playGame, fileCfg.Play.Game)
	applyFloatConfig(cmd, "sens", &playSens, fileCfg.Play.Sens)
	applyIntConfig(cmd, "dpi", &playDPI, fileCfg.Play.DPI)
	applyStringConfig(cmd, "mouse", &playMouse, fileCfg.Play.Mouse)
	applyIntConfig(cmd, "min-travel", &playMinTravel, fileCfg.Play.MinTravel)

	cfg := model.Config{
		Mode:      strings.ToLower(strings.TrimSpace(playMode)),
		LifeMode:  playLife,
		Game:      strings.ToLower(strings.TrimSpace(playGame)),
		Sens:      playSens,
		DPI:       playDPI,
		Mouse:     strings.TrimSpace(playMouse),
		Seed:      playSeed,
		MinTravel: playMinTravel,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	table, err := loadTable(fileCfg)
	if err != nil {
		return err
	}
	engCfg, err := engineConfig(fileCfg.Engine)
	if err != nil {
		return err
	}
	if cfg.Mouse != "" {
		if _, _, ok := mice.Default().Find(cfg.Mouse); !ok {
			zlog.Warn().Str("mouse", cfg.Mouse).Msg("mouse not in the built-in list")
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	m, err := tui.NewModel(tui.Options{
		Config: cfg,
		Engine: engCfg,
		Table:  table,
		Store:  st,
		Logger: zlog.Logger,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	zlog.Info().Str("mode", cfg.Mode).Bool("life", cfg.LifeMode).Str("game", cfg.Game).Float64("sens", cfg.Sens).Msg("starting trainer")
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return errors.Wrap(err, "failed to run TUI")
	}
	return nil
}

func validateConfig(cfg model.Config) error {
	if _, err := grid.ParseMode(cfg.Mode); err != nil {
		return errors.Newf("--mode must be one of %s, %s", grid.ModeStandard, grid.ModeSmall)
	}
	if cfg.Sens < 0 {
		return errors.New("--sens must be >= 0")
	}
	if cfg.DPI < 0 {
		return errors.New("--dpi must be >= 0")
	}
	if cfg.MinTravel < 0 {
		return errors.New("--min-travel must be >= 0")
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open db")
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		zlog.Error().Err(err).Msg("failed to close db")
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}
	return nil
}
