package orbital

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	// MuSun is the heliocentric gravitational parameter in AU³/day², for
	// day/AU-scale planetary motion.
	MuSun = 0.0002959122082855911
	// minRadiusScale and escapeRadiusScale derive the radial event thresholds
	// from the target radius when a scenario does not set them explicitly.
	minRadiusScale    = 0.2
	escapeRadiusScale = 5.0
)

// AnalysisConfig holds the recognized tunables of the rollout analytics engine.
type AnalysisConfig struct {
	TargetRadius         float64
	PositionTolerance    float64
	VelocityTolerance    float64
	ThrustSpikeThreshold float64
	DebounceWindow       int     // consecutive in-tolerance frames before a capture
	Mu                   float64 // gravitational parameter of the central body
	MinRadius            float64 // below this radial distance, a too_close event fires
	EscapeRadius         float64 // above this radial distance, an escape event fires
}

// DefaultAnalysisConfig returns the analysis configuration with its defaults,
// in dimensionless units.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		TargetRadius:         1.0,
		PositionTolerance:    0.05,
		VelocityTolerance:    0.05,
		ThrustSpikeThreshold: 0.02,
		DebounceWindow:       30,
		Mu:                   1.0,
		MinRadius:            minRadiusScale * 1.0,
		EscapeRadius:         escapeRadiusScale * 1.0,
	}
}

// LoadAnalysisConfig reads the [analysis] section of the scenario TOML file at
// the given path (without extension), falling back to the defaults for any
// missing key. min_radius and escape_radius follow the configured target
// radius unless the scenario sets them itself.
func LoadAnalysisConfig(path, name string) (AnalysisConfig, error) {
	cfg := DefaultAnalysisConfig()
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(name)
	v.SetDefault("analysis.target_radius", cfg.TargetRadius)
	v.SetDefault("analysis.position_tolerance", cfg.PositionTolerance)
	v.SetDefault("analysis.velocity_tolerance", cfg.VelocityTolerance)
	v.SetDefault("analysis.thrust_spike_threshold", cfg.ThrustSpikeThreshold)
	v.SetDefault("analysis.debounce_window", cfg.DebounceWindow)
	v.SetDefault("analysis.mu", cfg.Mu)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("%s/%s.toml: %w", path, name, err)
	}
	cfg.TargetRadius = v.GetFloat64("analysis.target_radius")
	cfg.PositionTolerance = v.GetFloat64("analysis.position_tolerance")
	cfg.VelocityTolerance = v.GetFloat64("analysis.velocity_tolerance")
	cfg.ThrustSpikeThreshold = v.GetFloat64("analysis.thrust_spike_threshold")
	cfg.DebounceWindow = v.GetInt("analysis.debounce_window")
	cfg.Mu = v.GetFloat64("analysis.mu")
	cfg.MinRadius = minRadiusScale * cfg.TargetRadius
	if v.IsSet("analysis.min_radius") {
		cfg.MinRadius = v.GetFloat64("analysis.min_radius")
	}
	cfg.EscapeRadius = escapeRadiusScale * cfg.TargetRadius
	if v.IsSet("analysis.escape_radius") {
		cfg.EscapeRadius = v.GetFloat64("analysis.escape_radius")
	}
	return cfg, nil
}
