package engine

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned when engine tuning values are inconsistent.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config holds the tuning values of a session. Zero fields take their defaults.
type Config struct {
	InitialInterval time.Duration `default:"1s" validate:"gt=0"`
	MinInterval     time.Duration `default:"300ms" validate:"gt=0,ltefield=InitialInterval"`
	IntervalStep    time.Duration `default:"10ms" validate:"gte=0"`
	MissPenalty     time.Duration `default:"50ms" validate:"gte=0"`
	HitCooldown     time.Duration `default:"150ms" validate:"gte=0"`
	TickInterval    time.Duration `default:"100ms" validate:"gt=0"`
	MaxMisses       int           `default:"5" validate:"gt=0"`
	MaxNoClicks     int           `default:"10" validate:"gt=0"`
}

var validate = validator.New()

// DefaultConfig returns the canonical tuning: 1000ms start, 300ms floor,
// -10ms per hit, +50ms per miss, 5 lives, 10 idle misses.
func DefaultConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(errors.AssertionFailedf("engine defaults: %v", err))
	}
	return cfg
}

// Normalize fills zero fields with defaults and validates the result.
func (c Config) Normalize() (Config, error) {
	if err := defaults.Set(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to apply engine defaults")
	}
	if err := validate.Struct(c); err != nil {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	return c, nil
}
