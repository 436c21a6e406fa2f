package blocks

import "github.com/signalhound/sighound/device"

// SPSeries streams IQ from an SP series spectrum analyzer.
type SPSeries struct {
	*source
}

// NewSPSeries creates an SP series source over an opened analyzer.
func NewSPSeries(dev device.Analyzer, cfg device.IQConfig, purge bool) *SPSeries {
	return &SPSeries{source: newSource("sp_series", dev, cfg, purge)}
}
