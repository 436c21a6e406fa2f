// Package config loads device profiles from YAML with environment overrides.
package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"

	"github.com/signalhound/sighound/device"
	"github.com/signalhound/sighound/errors"
)

// Profile describes how to open and configure an analyzer source.
type Profile struct {
	Series     string  `yaml:"series" env:"SIGHOUND_SERIES"`
	Center     float64 `yaml:"center" env:"SIGHOUND_CENTER"`
	RefLevel   float64 `yaml:"reflevel" env:"SIGHOUND_REFLEVEL"`
	Atten      int     `yaml:"atten" env:"SIGHOUND_ATTEN"`
	Decimation int     `yaml:"decimation" env:"SIGHOUND_DECIMATION"`
	Bandwidth  float64 `yaml:"bandwidth" env:"SIGHOUND_BANDWIDTH"`
	SWFilter   bool    `yaml:"swfilter" env:"SIGHOUND_SWFILTER"`
	Purge      bool    `yaml:"purge" env:"SIGHOUND_PURGE"`
}

// Default returns the stock SP series profile.
func Default() Profile {
	return Profile{
		Series:     string(device.SP),
		Center:     915e6,
		RefLevel:   -20,
		Atten:      -1, // auto
		Decimation: 4,
		Bandwidth:  100e3,
		SWFilter:   true,
	}
}

// Load reads a profile file (optional) and applies SIGHOUND_* environment
// overrides on top of it.
func Load(path string) (Profile, error) {
	p := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Profile{}, errors.ParseFailed("profile", err)
		}
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return Profile{}, errors.ParseFailed("profile", err)
		}
	}

	if err := env.Parse(&p); err != nil {
		return Profile{}, errors.ParseFailed("environment", err)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks the profile against device limits.
func (p Profile) Validate() error {
	switch device.Series(p.Series) {
	case device.SP, device.SM, device.BB:
	default:
		return errors.InvalidInput(errors.PhaseConfigure, "unknown analyzer series "+p.Series)
	}
	if p.Center <= 0 {
		return errors.OutOfRange(errors.PhaseConfigure, "center", p.Center)
	}
	if p.Decimation < 1 {
		return errors.OutOfRange(errors.PhaseConfigure, "decimation", p.Decimation)
	}
	if p.Bandwidth <= 0 {
		return errors.OutOfRange(errors.PhaseConfigure, "bandwidth", p.Bandwidth)
	}
	return nil
}

// DeviceSeries returns the analyzer series named by the profile.
func (p Profile) DeviceSeries() device.Series {
	return device.Series(p.Series)
}

// IQConfig converts the profile into analyzer streaming parameters.
func (p Profile) IQConfig() device.IQConfig {
	return device.IQConfig{
		Center:     p.Center,
		RefLevel:   p.RefLevel,
		Atten:      p.Atten,
		Decimation: p.Decimation,
		SWFilter:   p.SWFilter,
		Bandwidth:  p.Bandwidth,
	}
}
