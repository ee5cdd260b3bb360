// Package config holds the generation settings shared by the commands.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"worldgen/internal/core"
	"worldgen/internal/heightmap"
)

// ErrInvalid reports a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid")

// Config is the full generation configuration.
type Config struct {
	Entropy     float64 `json:"entropy"`
	Granularity float64 `json:"granularity"`
	Power       int     `json:"power"`
	Seed        int64   `json:"seed"`

	OceanTarget    float64 `json:"ocean_target"`
	OceanTolerance float64 `json:"ocean_tolerance"`
	MaxPasses      int     `json:"max_passes"`

	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`

	Plan       string `json:"plan"`
	PlanSource string `json:"plan_source,omitempty"`
	Catalog    string `json:"catalog,omitempty"`

	TPS   int `json:"tps"`
	Scale int `json:"scale"`
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		Entropy:        100,
		Granularity:    0.5,
		Power:          6,
		OceanTarget:    0.25,
		OceanTolerance: 0.05,
		MaxPasses:      heightmap.DefaultMaxPasses,
		Width:          33,
		Height:         33,
		Depth:          17,
		Plan:           "default",
		TPS:            60,
		Scale:          8,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.Float64Var(&c.Entropy, "entropy", c.Entropy, "initial random displacement magnitude")
	fs.Float64Var(&c.Granularity, "granularity", c.Granularity, "entropy decay factor per level")
	fs.IntVar(&c.Power, "power", c.Power, "heightmap size exponent (size = 2^power+1)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 derives one from the clock)")
	fs.Float64Var(&c.OceanTarget, "ocean", c.OceanTarget, "target ocean fraction")
	fs.Float64Var(&c.OceanTolerance, "tolerance", c.OceanTolerance, "accepted deviation from the ocean fraction")
	fs.IntVar(&c.MaxPasses, "max-passes", c.MaxPasses, "sea level calibration pass limit")
	fs.IntVar(&c.Width, "w", c.Width, "terrain width")
	fs.IntVar(&c.Height, "h", c.Height, "terrain height")
	fs.IntVar(&c.Depth, "d", c.Depth, "terrain depth")
	fs.StringVar(&c.Plan, "plan", c.Plan, "registered build plan")
	fs.StringVar(&c.PlanSource, "plan-src", c.PlanSource, "plan file source (path, url, git::...)")
	fs.StringVar(&c.Catalog, "catalog", c.Catalog, "world catalog directory")
	fs.IntVar(&c.TPS, "tps", c.TPS, "build steps per second (0 = unpaced)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
}

// Load reads a JSON config file on top of the defaults.
func Load(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Merge layers fromFile under flags: every field whose flag name is in
// explicit keeps the value in flags, all others take fromFile's.
func Merge(flags, fromFile Config, explicit map[string]bool) Config {
	out := fromFile
	take := func(name string, apply func()) {
		if explicit[name] {
			apply()
		}
	}
	take("entropy", func() { out.Entropy = flags.Entropy })
	take("granularity", func() { out.Granularity = flags.Granularity })
	take("power", func() { out.Power = flags.Power })
	take("seed", func() { out.Seed = flags.Seed })
	take("ocean", func() { out.OceanTarget = flags.OceanTarget })
	take("tolerance", func() { out.OceanTolerance = flags.OceanTolerance })
	take("max-passes", func() { out.MaxPasses = flags.MaxPasses })
	take("w", func() { out.Width = flags.Width })
	take("h", func() { out.Height = flags.Height })
	take("d", func() { out.Depth = flags.Depth })
	take("plan", func() { out.Plan = flags.Plan })
	take("plan-src", func() { out.PlanSource = flags.PlanSource })
	take("catalog", func() { out.Catalog = flags.Catalog })
	take("tps", func() { out.TPS = flags.TPS })
	take("scale", func() { out.Scale = flags.Scale })
	return out
}

// FromMap overrides fields from flag-style key/value pairs. Unknown keys and
// unparsable values are reported.
func (c *Config) FromMap(kv map[string]string) error {
	for k, v := range kv {
		var err error
		switch k {
		case "entropy":
			c.Entropy, err = strconv.ParseFloat(v, 64)
		case "granularity":
			c.Granularity, err = strconv.ParseFloat(v, 64)
		case "power":
			c.Power, err = strconv.Atoi(v)
		case "seed":
			c.Seed, err = strconv.ParseInt(v, 10, 64)
		case "ocean":
			c.OceanTarget, err = strconv.ParseFloat(v, 64)
		case "tolerance":
			c.OceanTolerance, err = strconv.ParseFloat(v, 64)
		case "max-passes":
			c.MaxPasses, err = strconv.Atoi(v)
		case "plan":
			c.Plan = v
		default:
			return fmt.Errorf("%w: unknown key %q", ErrInvalid, k)
		}
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, k, v, err)
		}
	}
	return nil
}

// Validate checks every setting and reports the first problem.
func (c Config) Validate() error {
	switch {
	case c.Power < 1 || c.Power > 14:
		return fmt.Errorf("%w: power %d outside [1,14]", ErrInvalid, c.Power)
	case !(c.Granularity > 0) || math.IsInf(c.Granularity, 0):
		return fmt.Errorf("%w: granularity %v must be positive", ErrInvalid, c.Granularity)
	case !(c.Entropy >= 0) || math.IsInf(c.Entropy, 0):
		return fmt.Errorf("%w: entropy %v must be non-negative", ErrInvalid, c.Entropy)
	case !(c.OceanTarget >= 0 && c.OceanTarget <= 1):
		return fmt.Errorf("%w: ocean target %v outside [0,1]", ErrInvalid, c.OceanTarget)
	case !(c.OceanTolerance >= 0):
		return fmt.Errorf("%w: tolerance %v must be non-negative", ErrInvalid, c.OceanTolerance)
	case c.MaxPasses < 0:
		return fmt.Errorf("%w: max passes %d", ErrInvalid, c.MaxPasses)
	case c.Width < 1 || c.Height < 1 || c.Depth < 1:
		return fmt.Errorf("%w: terrain %dx%dx%d", ErrInvalid, c.Width, c.Height, c.Depth)
	case c.Plan == "" && c.PlanSource == "":
		return fmt.Errorf("%w: no build plan", ErrInvalid)
	case c.TPS < 0 || c.Scale < 1:
		return fmt.Errorf("%w: tps %d scale %d", ErrInvalid, c.TPS, c.Scale)
	}
	return nil
}

// Size returns the heightmap edge length, 2^Power+1.
func (c Config) Size() int { return heightmap.SizeForPower(c.Power) }

// Parameters describes the effective settings for reports.
func (c Config) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "Heightmap", Params: []core.Parameter{
			core.IntParam("seed", "Seed", c.Seed),
			core.FloatParam("entropy", "Entropy", c.Entropy),
			core.FloatParam("granularity", "Granularity", c.Granularity),
			core.IntParam("size", "Size", int64(c.Size())),
		}},
		{Name: "Ocean", Params: []core.Parameter{
			core.FloatParam("ocean", "Target fraction", c.OceanTarget),
			core.FloatParam("tolerance", "Tolerance", c.OceanTolerance),
			core.IntParam("max-passes", "Max passes", int64(c.MaxPasses)),
		}},
		{Name: "Terrain", Params: []core.Parameter{
			core.IntParam("w", "Width", int64(c.Width)),
			core.IntParam("h", "Height", int64(c.Height)),
			core.IntParam("d", "Depth", int64(c.Depth)),
			core.StringParam("plan", "Plan", c.Plan),
		}},
	}}
}
