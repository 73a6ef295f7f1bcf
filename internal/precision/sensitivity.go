package precision

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

//go:embed games.yaml
var gamesYAML []byte

// ErrUnknownGame is returned for a game key missing from the table.
var ErrUnknownGame = errors.New("unknown game")

// Game is one row of the conversion table.
type Game struct {
	Key        string  `yaml:"key"`
	Name       string  `yaml:"name"`
	Multiplier float64 `yaml:"multiplier"`
	Divisor    float64 `yaml:"divisor"`
}

// Ratio returns the effective conversion ratio to the baseline game.
func (g Game) Ratio() float64 {
	if g.Divisor == 0 {
		return g.Multiplier
	}
	return g.Multiplier / g.Divisor
}

// Table maps game keys to sensitivity ratios.
type Table struct {
	Baseline string `yaml:"baseline"`
	Games    []Game `yaml:"games"`
}

// Conversion is a converted sensitivity for one game.
type Conversion struct {
	Game        Game
	Sensitivity float64
}

// DefaultTable returns the built-in conversion table.
func DefaultTable() Table {
	t, err := ParseTable(gamesYAML)
	if err != nil {
		panic(errors.AssertionFailedf("embedded games table: %v", err))
	}
	return t
}

// ParseTable decodes and checks a YAML conversion table.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, errors.Wrap(err, "failed to decode games table")
	}
	if len(t.Games) == 0 {
		return Table{}, errors.New("games table is empty")
	}
	seen := make(map[string]struct{}, len(t.Games))
	for i := range t.Games {
		g := &t.Games[i]
		g.Key = strings.ToLower(strings.TrimSpace(g.Key))
		if g.Key == "" {
			return Table{}, errors.Newf("game #%d has no key", i+1)
		}
		if _, ok := seen[g.Key]; ok {
			return Table{}, errors.Newf("duplicate game %q", g.Key)
		}
		seen[g.Key] = struct{}{}
		if g.Ratio() <= 0 {
			return Table{}, errors.Newf("game %q must have a positive multiplier", g.Key)
		}
		if g.Name == "" {
			g.Name = g.Key
		}
	}
	if _, ok := seen[t.Baseline]; !ok {
		return Table{}, errors.Wrapf(ErrUnknownGame, "baseline %q", t.Baseline)
	}
	return t, nil
}

// WithOverrides returns a copy with ratios replaced by the given values.
// Unknown keys are appended as new games.
func (t Table) WithOverrides(ratios map[string]float64) (Table, error) {
	out := Table{Baseline: t.Baseline, Games: append([]Game(nil), t.Games...)}
	keys := make([]string, 0, len(ratios))
	for k := range ratios {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, raw := range keys {
		ratio := ratios[raw]
		key := strings.ToLower(strings.TrimSpace(raw))
		if ratio <= 0 {
			return Table{}, errors.Newf("game %q must have a positive multiplier", key)
		}
		idx := out.index(key)
		if idx < 0 {
			out.Games = append(out.Games, Game{Key: key, Name: key, Multiplier: ratio})
			continue
		}
		out.Games[idx].Multiplier = ratio
		out.Games[idx].Divisor = 0
	}
	return out, nil
}

// Lookup returns the game with the given key.
func (t Table) Lookup(key string) (Game, bool) {
	idx := t.index(strings.ToLower(strings.TrimSpace(key)))
	if idx < 0 {
		return Game{}, false
	}
	return t.Games[idx], true
}

func (t Table) index(key string) int {
	for i, g := range t.Games {
		if g.Key == key {
			return i
		}
	}
	return -1
}

// Convert applies the deviation correction to currentSens in game and returns
// the equivalent sensitivity for every game in table order.
func (t Table) Convert(currentSens float64, game string, deviationPercent float64) ([]Conversion, error) {
	from, ok := t.Lookup(game)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownGame, "%q", game)
	}
	perfect := currentSens * (1 - deviationPercent/100)
	base := perfect / from.Ratio()
	out := make([]Conversion, 0, len(t.Games))
	for _, g := range t.Games {
		out = append(out, Conversion{Game: g, Sensitivity: base * g.Ratio()})
	}
	return out, nil
}

// AdjustedSens is Convert keyed by game.
func (t Table) AdjustedSens(currentSens float64, game string, deviationPercent float64) (map[string]float64, error) {
	conv, err := t.Convert(currentSens, game, deviationPercent)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(conv))
	for _, c := range conv {
		out[c.Game.Key] = c.Sensitivity
	}
	return out, nil
}

// CalculateAdjustedSens converts with the built-in table.
func CalculateAdjustedSens(currentSens float64, game string, deviationPercent float64) (map[string]float64, error) {
	return DefaultTable().AdjustedSens(currentSens, game, deviationPercent)
}

// CalculateDeviationPercent returns how far, in percent, the average offset
// ratio lands past (positive) or short of (negative) the target center.
func CalculateDeviationPercent(offsetRatios []float64) float64 {
	if len(offsetRatios) == 0 {
		return 0
	}
	return (Mean(offsetRatios) - 1) * 100
}
