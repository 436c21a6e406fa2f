package device

import (
	"context"

	"go.uber.org/zap"

	"github.com/signalhound/sighound/errors"
)

// Series identifies a Signal Hound device family.
type Series string

const (
	SP  Series = "sp"  // SP series spectrum analyzers
	SM  Series = "sm"  // SM series spectrum analyzers
	BB  Series = "bb"  // BB series spectrum analyzers
	VSG Series = "vsg" // VSG series vector signal generators
)

// Valid reports whether s names a known analyzer or generator family.
func (s Series) Valid() bool {
	switch s {
	case SP, SM, BB, VSG:
		return true
	}
	return false
}

// Status is a vendor API status code. Zero means success, positive values
// are warnings, negative values are errors.
type Status int32

func (s Status) Ok() bool      { return s == 0 }
func (s Status) Warning() bool { return s > 0 }
func (s Status) Fatal() bool   { return s < 0 }

// Check logs warning statuses and converts fatal ones to errors.
func Check(phase errors.Phase, call string, s Status) error {
	if s.Warning() {
		Logger().Warn("device warning",
			zap.String("call", call),
			zap.Int32("status", int32(s)))
		return nil
	}
	if s.Fatal() {
		return errors.Device(phase, call, int32(s))
	}
	return nil
}

// IQConfig carries the analyzer streaming parameters.
type IQConfig struct {
	Center     float64 // center frequency, Hz
	RefLevel   float64 // reference level, dBm
	Atten      int     // attenuator setting, dB; negative selects auto
	Decimation int     // sample rate divider
	SWFilter   bool    // software filter on the IQ stream
	Bandwidth  float64 // IQ bandwidth, Hz
}

// IQParams reports the streaming parameters the device actually applied.
type IQParams struct {
	SampleRate float64 // Hz
	Bandwidth  float64 // Hz
}

// GenConfig carries the generator output parameters.
type GenConfig struct {
	Center     float64 // output frequency, Hz
	SampleRate float64 // Hz
	Level      float64 // output level, dBm
	IOffset    int     // I DC offset adjustment
	QOffset    int     // Q DC offset adjustment
}

// GenParams reports the output parameters the generator actually applied.
type GenParams struct {
	Center     float64
	SampleRate float64
	Level      float64
}

// Analyzer is an opened IQ-streaming receiver.
type Analyzer interface {
	// Serial returns the device serial number.
	Serial() int

	// Configure applies cfg and re-enters IQ streaming mode, returning the
	// parameters the device actually applied.
	Configure(ctx context.Context, cfg IQConfig) (IQParams, error)

	// ReadIQ fills dst with consecutive IQ samples. When purge is set, stale
	// buffered samples are discarded first.
	ReadIQ(ctx context.Context, dst []complex64, purge bool) (int, error)

	// Abort stops any active streaming.
	Abort(ctx context.Context) error

	// Close releases the device.
	Close(ctx context.Context) error
}

// Generator is an opened IQ-consuming transmitter.
type Generator interface {
	Serial() int
	Configure(ctx context.Context, cfg GenConfig) (GenParams, error)

	// WriteIQ submits a frame of IQ samples for transmission.
	WriteIQ(ctx context.Context, src []complex64) error

	Close(ctx context.Context) error
}
