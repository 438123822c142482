// Public domain.

// Package config loads rvcorr run configuration.
//
// Configuration is a TOML file.  Keys not present keep their defaults:
//
//	ntemps        = 20
//	nwalkers      = 100
//	npl           = 1
//	seed          = 0          # 0: from the clock, or 3 if repeatable
//	repeatable    = false
//	order_periods = true
//	sigma_factor  = 0.1
//	workers       = 0          # 0: GOMAXPROCS
//	prefix        = "chain"
//	policy        = "heuristic" # or "data", "explicit"
//	bounds_file   = ""         # explicit policy
//
//	[[observatory]]
//	name = "HIRES"
//	file = "hires.rv"
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/soniakeys/rvcorr/internal/params"
	"github.com/soniakeys/rvcorr/internal/posterior"
)

// Initialization policies.
const (
	PolicyHeuristic = "heuristic" // bounds from data, then FromBounds
	PolicyData      = "data"      // FromData
	PolicyExplicit  = "explicit"  // bounds from BoundsFile, then FromBounds
)

// Observatory names a data file.
type Observatory struct {
	Name string `toml:"name"`
	File string `toml:"file"`
}

// Config is a run configuration.
type Config struct {
	NTemps        int           `toml:"ntemps"`
	NWalkers      int           `toml:"nwalkers"`
	Npl           int           `toml:"npl"`
	Seed          uint64        `toml:"seed"`
	Repeatable    bool          `toml:"repeatable"`
	OrderPeriods  bool          `toml:"order_periods"`
	SigmaFactor   float64       `toml:"sigma_factor"`
	Workers       int           `toml:"workers"`
	Prefix        string        `toml:"prefix"`
	Policy        string        `toml:"policy"`
	BoundsFile    string        `toml:"bounds_file"`
	Observatories []Observatory `toml:"observatory"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		NTemps:       20,
		NWalkers:     100,
		Npl:          1,
		OrderPeriods: true,
		SigmaFactor:  .1,
		Prefix:       "chain",
		Policy:       PolicyHeuristic,
	}
}

// Load reads the named file over the defaults and validates the result.
// Relative data and bounds file names are taken relative to the directory
// of the configuration file.
func Load(name string) (*Config, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	dir := filepath.Dir(name)
	rel := func(f string) string {
		if f == "" || filepath.IsAbs(f) {
			return f
		}
		return filepath.Join(dir, f)
	}
	for i := range c.Observatories {
		c.Observatories[i].File = rel(c.Observatories[i].File)
	}
	c.BoundsFile = rel(c.BoundsFile)
	return c, nil
}

// Parse decodes TOML over the defaults and validates the result.  Unknown
// keys are an error.
func Parse(b []byte) (*Config, error) {
	c := Default()
	d := toml.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	if err := d.Decode(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges and policy requirements.
func (c *Config) Validate() error {
	switch {
	case c.NTemps < 1:
		return fmt.Errorf("config: ntemps %d, need at least 1", c.NTemps)
	case c.NWalkers < 1:
		return fmt.Errorf("config: nwalkers %d, need at least 1", c.NWalkers)
	case c.Npl < 0:
		return fmt.Errorf("config: npl %d, can't be negative", c.Npl)
	case !(c.SigmaFactor > 0):
		return fmt.Errorf("config: sigma_factor %g, must be positive", c.SigmaFactor)
	case c.Workers < 0:
		return fmt.Errorf("config: workers %d, can't be negative", c.Workers)
	case c.Prefix == "":
		return fmt.Errorf("config: empty prefix")
	case len(c.Observatories) == 0:
		return fmt.Errorf("config: no observatories")
	}
	for i, o := range c.Observatories {
		if o.File == "" {
			return fmt.Errorf("config: observatory %d (%s) has no file", i, o.Name)
		}
	}
	switch c.Policy {
	case PolicyHeuristic, PolicyData:
	case PolicyExplicit:
		if c.BoundsFile == "" {
			return fmt.Errorf("config: policy %s needs bounds_file", c.Policy)
		}
	default:
		return fmt.Errorf("config: unknown policy %q", c.Policy)
	}
	return nil
}

// Layout returns the parameter layout of the configured model.
func (c *Config) Layout() params.Layout {
	return params.Layout{Nobs: len(c.Observatories), Npl: c.Npl}
}

// RandSeed returns the seed for random draws: Seed if set, a fixed value
// if Repeatable, otherwise the clock.
func (c *Config) RandSeed() uint64 {
	switch {
	case c.Seed != 0:
		return c.Seed
	case c.Repeatable:
		return 3
	}
	return uint64(time.Now().UnixNano())
}

// LoadBounds reads explicit prior bounds for layout l.  The file has two
// rows of whitespace separated values, minima then maxima, in flat
// parameter order.  Inf and -Inf are accepted.  Lines starting with # are
// skipped.
func LoadBounds(name string, l params.Layout) (*posterior.Bounds, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []*params.Params
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		s := strings.TrimSpace(sc.Text())
		if s == "" || s[0] == '#' {
			continue
		}
		fs := strings.Fields(s)
		x := make([]float64, len(fs))
		for i, v := range fs {
			if x[i], err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", name, line, err)
			}
		}
		p, err := params.Unpack(l, x)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		rows = append(rows, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) != 2 {
		return nil, fmt.Errorf("%s: %d rows, want minima and maxima", name, len(rows))
	}
	b := &posterior.Bounds{Min: rows[0], Max: rows[1]}
	if err := b.Validate(l); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}
