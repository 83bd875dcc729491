// Package config loads the engine's run-time configuration: the base
// time unit, RNG stream/replication bounds, data-collection suppression
// globs, and trace knobs. Bound with viper so YAML files and
// environment variables (SIMGO_ prefix) both populate it.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/simgo/simgo/internal/simtime"
)

// Config is the engine's resolved configuration, consumed at
// run_single's entry point.
type Config struct {
	SimTime        SimTimeConfig
	SimRandom      SimRandomConfig
	DataCollection DataCollectionConfig
	SimTrace       SimTraceConfig
}

type SimTimeConfig struct {
	BaseTimeUnit string // "seconds" | "minutes" | "hours" | "none"
}

// Unit resolves BaseTimeUnit to a simtime.Unit, defaulting to None.
func (c SimTimeConfig) Unit() simtime.Unit {
	switch strings.ToLower(c.BaseTimeUnit) {
	case "seconds":
		return simtime.Seconds
	case "minutes":
		return simtime.Minutes
	case "hours":
		return simtime.Hours
	default:
		return simtime.None
	}
}

type SimRandomConfig struct {
	StreamsPerRun   int
	MaxReplications int
}

type DataCollectionConfig struct {
	DisableElements []string
	DisableDatasets []string // "[elementGlob] datasetGlob" entries
}

type SimTraceConfig struct {
	Enabled     bool
	MaxEvents   int
	TraceType   string
	Destination string
}

// Defaults matches the engine's documented defaults for options a config
// file or environment omits.
func Defaults() Config {
	return Config{
		SimTime:   SimTimeConfig{BaseTimeUnit: "none"},
		SimRandom: SimRandomConfig{StreamsPerRun: 2000, MaxReplications: 100},
	}
}

// Load reads configuration from path (if non-empty) and the environment
// (SIMGO_ prefixed, e.g. SIMGO_SIMTIME_BASETIMEUNIT), layered over
// Defaults().
func Load(path string) (Config, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("simtime.basetimeunit", d.SimTime.BaseTimeUnit)
	v.SetDefault("simrandom.streamsperrun", d.SimRandom.StreamsPerRun)
	v.SetDefault("simrandom.maxreplications", d.SimRandom.MaxReplications)

	v.SetEnvPrefix("SIMGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		SimTime: SimTimeConfig{BaseTimeUnit: v.GetString("simtime.basetimeunit")},
		SimRandom: SimRandomConfig{
			StreamsPerRun:   v.GetInt("simrandom.streamsperrun"),
			MaxReplications: v.GetInt("simrandom.maxreplications"),
		},
		DataCollection: DataCollectionConfig{
			DisableElements: v.GetStringSlice("datacollection.disableelements"),
			DisableDatasets: v.GetStringSlice("datacollection.disabledatasets"),
		},
		SimTrace: SimTraceConfig{
			Enabled:     v.GetBool("simtrace.enabled"),
			MaxEvents:   v.GetInt("simtrace.maxevents"),
			TraceType:   v.GetString("simtrace.tracetype"),
			Destination: v.GetString("simtrace.destination"),
		},
	}
	return cfg, nil
}
