package blocks

import "github.com/signalhound/sighound/device"

// BBSeries streams IQ from a BB series spectrum analyzer.
type BBSeries struct {
	*source
}

// NewBBSeries creates a BB series source over an opened analyzer.
func NewBBSeries(dev device.Analyzer, cfg device.IQConfig, purge bool) *BBSeries {
	return &BBSeries{source: newSource("bb_series", dev, cfg, purge)}
}
