package blocks

import "github.com/signalhound/sighound/device"

// SMSeries streams IQ from an SM series spectrum analyzer.
type SMSeries struct {
	*source
}

// NewSMSeries creates an SM series source over an opened analyzer.
func NewSMSeries(dev device.Analyzer, cfg device.IQConfig, purge bool) *SMSeries {
	return &SMSeries{source: newSource("sm_series", dev, cfg, purge)}
}
