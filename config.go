// config.go: mutable process-wide Configuration (§3, §4.6)

package simtemp

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Bounds from §3/§8.
const (
	MinPeriodMs = 1
	MaxPeriodMs = 10000

	MinThresholdMC = -50000
	MaxThresholdMC = 150000

	// DefaultPeriodMs and DefaultThresholdMC are the initial Configuration
	// values (§3).
	DefaultPeriodMs    = 100
	DefaultThresholdMC = 45000
)

// DefaultMode is the initial generation mode.
var DefaultMode = ModeRamp

// Config is the value used to seed a Device's initial Configuration, and
// the shape loaded from an optional YAML file via LoadConfigFile. Every
// field it sets remains writable afterwards through the runtime control
// plane (§4.6); this struct only controls what the Producer starts with.
type Config struct {
	PeriodMs    int    `yaml:"sampling_ms"`
	ThresholdMC int32  `yaml:"threshold_mc"`
	Mode        string `yaml:"mode"`
}

// DefaultConfig returns the Configuration defaults from §3, the same
// pattern jhkimqd-chaos-utils/pkg/config.DefaultConfig follows: a
// fully-populated struct rather than relying on zero values.
func DefaultConfig() Config {
	return Config{
		PeriodMs:    DefaultPeriodMs,
		ThresholdMC: DefaultThresholdMC,
		Mode:        DefaultMode.String(),
	}
}

// LoadConfigFile reads a YAML file shaped like Config and overlays it on
// top of DefaultConfig(); zero-value fields in the file leave the default
// in place. A missing file is not an error — it simply yields defaults,
// since the control plane lets every value be set at runtime regardless.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("simtemp: read config file: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("simtemp: parse config file: %w", err)
	}

	if overlay.PeriodMs != 0 {
		cfg.PeriodMs = overlay.PeriodMs
	}
	if overlay.ThresholdMC != 0 {
		cfg.ThresholdMC = overlay.ThresholdMC
	}
	if overlay.Mode != "" {
		cfg.Mode = overlay.Mode
	}

	return cfg, nil
}

// Validate checks cfg against the §3/§8 bounds without mutating any live
// device state.
func (c Config) Validate() error {
	if c.PeriodMs < MinPeriodMs || c.PeriodMs > MaxPeriodMs {
		return ErrInvalidArgument
	}
	if c.ThresholdMC < MinThresholdMC || c.ThresholdMC > MaxThresholdMC {
		return ErrInvalidArgument
	}
	if _, err := ParseMode(c.Mode); err != nil {
		return err
	}
	return nil
}

// liveConfig is the running, lock-free configuration surface the
// Producer reads on every tick and the control plane (§4.6) writes.
// Numeric scalars use atomics per §5 ("Configuration scalars are updated
// ... using atomic stores"); mode is stored as its small integer
// encoding in an atomic.Int32 for the same reason, rather than behind a
// mutex.
type liveConfig struct {
	periodMs    atomic.Int64
	thresholdMC atomic.Int32
	mode        atomic.Int32
}

func newLiveConfig(cfg Config) (*liveConfig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, _ := ParseMode(cfg.Mode)

	lc := &liveConfig{}
	lc.periodMs.Store(int64(cfg.PeriodMs))
	lc.thresholdMC.Store(cfg.ThresholdMC)
	lc.mode.Store(int32(mode))
	return lc, nil
}

func (lc *liveConfig) PeriodMs() int      { return int(lc.periodMs.Load()) }
func (lc *liveConfig) ThresholdMC() int32 { return lc.thresholdMC.Load() }
func (lc *liveConfig) Mode() Mode         { return Mode(lc.mode.Load()) }

// setPeriodMs validates and stores ms, leaving the prior value unchanged
// on rejection (§8 "Rejected attribute writes leave the prior value
// intact").
func (lc *liveConfig) setPeriodMs(ms int) error {
	if ms < MinPeriodMs || ms > MaxPeriodMs {
		return ErrInvalidArgument
	}
	lc.periodMs.Store(int64(ms))
	return nil
}

func (lc *liveConfig) setThresholdMC(mc int32) error {
	if mc < MinThresholdMC || mc > MaxThresholdMC {
		return ErrInvalidArgument
	}
	lc.thresholdMC.Store(mc)
	return nil
}

func (lc *liveConfig) setMode(s string) error {
	mode, err := ParseMode(s)
	if err != nil {
		return err
	}
	lc.mode.Store(int32(mode))
	return nil
}
