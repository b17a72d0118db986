// File: internal/config/humanoid_config.go
// This file defines the HumanoidConfig struct, which contains all the tunable
// parameters of the motion and cadence models: trajectory sampling rate,
// destination jitter, Bezier control point spread, press hold ranges and the
// typing delay distribution.
//
// The configuration is loaded from a file (e.g., YAML) using Viper, so the
// driver's "personality" can be tuned without changing the core code.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// HumanoidConfig holds the tunable parameters of the input synthesis engine.
type HumanoidConfig struct {
	// Trajectory sampling
	SampleRateHz float64 `mapstructure:"sample_rate_hz" yaml:"sample_rate_hz"`

	// Destination jitter, applied per axis as U(-EndJitter, EndJitter).
	EndJitter float64 `mapstructure:"end_jitter" yaml:"end_jitter"`

	// Control points. Ctrl1 sits at Ctrl1Ratio along the segment with a
	// symmetric spread; Ctrl2 at Ctrl2Ratio with an asymmetric (overshoot) spread.
	Ctrl1Ratio     float64 `mapstructure:"ctrl1_ratio" yaml:"ctrl1_ratio"`
	Ctrl1Spread    float64 `mapstructure:"ctrl1_spread" yaml:"ctrl1_spread"`
	Ctrl2Ratio     float64 `mapstructure:"ctrl2_ratio" yaml:"ctrl2_ratio"`
	Ctrl2SpreadMin float64 `mapstructure:"ctrl2_spread_min" yaml:"ctrl2_spread_min"`
	Ctrl2SpreadMax float64 `mapstructure:"ctrl2_spread_max" yaml:"ctrl2_spread_max"`

	// Clicking Behavior
	ClickHoldMinMs float64 `mapstructure:"click_hold_min_ms" yaml:"click_hold_min_ms"`
	ClickHoldMaxMs float64 `mapstructure:"click_hold_max_ms" yaml:"click_hold_max_ms"`

	// Dragging Behavior (settle time around the drag stroke)
	DragSettleMinMs float64 `mapstructure:"drag_settle_min_ms" yaml:"drag_settle_min_ms"`
	DragSettleMaxMs float64 `mapstructure:"drag_settle_max_ms" yaml:"drag_settle_max_ms"`

	// Typing Behavior
	KeyHoldMinMs        float64 `mapstructure:"key_hold_min_ms" yaml:"key_hold_min_ms"`
	KeyHoldMaxMs        float64 `mapstructure:"key_hold_max_ms" yaml:"key_hold_max_ms"`
	KeyDelayStdDevRatio float64 `mapstructure:"key_delay_stddev_ratio" yaml:"key_delay_stddev_ratio"`
	KeyDelayMinMs       float64 `mapstructure:"key_delay_min_ms" yaml:"key_delay_min_ms"`
	CharsPerWord        float64 `mapstructure:"chars_per_word" yaml:"chars_per_word"`
	// FoldCase types A-Z with the lowercase key codes (no shift).
	FoldCase bool `mapstructure:"fold_case" yaml:"fold_case"`

	// Seed fixes the random stream when non-zero.
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
}

// DefaultHumanoidConfig returns the stock motion and cadence parameters.
func DefaultHumanoidConfig() HumanoidConfig {
	return HumanoidConfig{
		SampleRateHz:        80,
		EndJitter:           2,
		Ctrl1Ratio:          0.2,
		Ctrl1Spread:         40,
		Ctrl2Ratio:          0.8,
		Ctrl2SpreadMin:      -20,
		Ctrl2SpreadMax:      60,
		ClickHoldMinMs:      30,
		ClickHoldMaxMs:      75,
		DragSettleMinMs:     100,
		DragSettleMaxMs:     200,
		KeyHoldMinMs:        25,
		KeyHoldMaxMs:        60,
		KeyDelayStdDevRatio: 0.3,
		KeyDelayMinMs:       10,
		CharsPerWord:        5,
	}
}

func setHumanoidDefaults(v *viper.Viper) {
	d := DefaultHumanoidConfig()
	v.SetDefault("humanoid.sample_rate_hz", d.SampleRateHz)
	v.SetDefault("humanoid.end_jitter", d.EndJitter)
	v.SetDefault("humanoid.ctrl1_ratio", d.Ctrl1Ratio)
	v.SetDefault("humanoid.ctrl1_spread", d.Ctrl1Spread)
	v.SetDefault("humanoid.ctrl2_ratio", d.Ctrl2Ratio)
	v.SetDefault("humanoid.ctrl2_spread_min", d.Ctrl2SpreadMin)
	v.SetDefault("humanoid.ctrl2_spread_max", d.Ctrl2SpreadMax)
	v.SetDefault("humanoid.click_hold_min_ms", d.ClickHoldMinMs)
	v.SetDefault("humanoid.click_hold_max_ms", d.ClickHoldMaxMs)
	v.SetDefault("humanoid.drag_settle_min_ms", d.DragSettleMinMs)
	v.SetDefault("humanoid.drag_settle_max_ms", d.DragSettleMaxMs)
	v.SetDefault("humanoid.key_hold_min_ms", d.KeyHoldMinMs)
	v.SetDefault("humanoid.key_hold_max_ms", d.KeyHoldMaxMs)
	v.SetDefault("humanoid.key_delay_stddev_ratio", d.KeyDelayStdDevRatio)
	v.SetDefault("humanoid.key_delay_min_ms", d.KeyDelayMinMs)
	v.SetDefault("humanoid.chars_per_word", d.CharsPerWord)
	v.SetDefault("humanoid.fold_case", d.FoldCase)
	v.SetDefault("humanoid.seed", d.Seed)
}

// Validate checks the humanoid parameters for sane ranges.
func (h *HumanoidConfig) Validate() error {
	if h.SampleRateHz <= 0 {
		return fmt.Errorf("sample_rate_hz must be positive")
	}
	if h.EndJitter < 0 || h.Ctrl1Spread < 0 {
		return fmt.Errorf("end_jitter and ctrl1_spread must not be negative")
	}
	if h.Ctrl2SpreadMax < h.Ctrl2SpreadMin {
		return fmt.Errorf("ctrl2_spread_max must be >= ctrl2_spread_min")
	}
	if err := validateRange("click_hold", h.ClickHoldMinMs, h.ClickHoldMaxMs); err != nil {
		return err
	}
	if err := validateRange("drag_settle", h.DragSettleMinMs, h.DragSettleMaxMs); err != nil {
		return err
	}
	if err := validateRange("key_hold", h.KeyHoldMinMs, h.KeyHoldMaxMs); err != nil {
		return err
	}
	if h.KeyDelayStdDevRatio < 0 {
		return fmt.Errorf("key_delay_stddev_ratio must not be negative")
	}
	if h.KeyDelayMinMs < 0 {
		return fmt.Errorf("key_delay_min_ms must not be negative")
	}
	if h.CharsPerWord <= 0 {
		return fmt.Errorf("chars_per_word must be positive")
	}
	return nil
}

func validateRange(name string, min, max float64) error {
	if min < 0 {
		return fmt.Errorf("%s_min_ms must not be negative", name)
	}
	if max <= min {
		return fmt.Errorf("%s_max_ms must be greater than %s_min_ms", name, name)
	}
	return nil
}
