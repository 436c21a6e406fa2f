package blocks

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/signalhound/sighound/device"
)

// VSGSeries submits IQ frames to a VSG series vector signal generator.
type VSGSeries struct {
	dev device.Generator

	mu     sync.Mutex
	cfg    device.GenConfig
	dirty  bool
	params device.GenParams
}

// NewVSGSeries creates a VSG series sink over an opened generator.
func NewVSGSeries(dev device.Generator, cfg device.GenConfig) *VSGSeries {
	Logger().Info("block created",
		zap.String("block", "vsg_series"),
		zap.Int("serial", dev.Serial()))
	return &VSGSeries{dev: dev, cfg: cfg, dirty: true}
}

func (b *VSGSeries) Name() string {
	return "vsg_series"
}

// Work submits one IQ frame, applying any pending configuration change first.
func (b *VSGSeries) Work(ctx context.Context, in []complex64) error {
	b.mu.Lock()
	if b.dirty {
		params, err := b.dev.Configure(ctx, b.cfg)
		if err != nil {
			b.mu.Unlock()
			return err
		}
		b.params = params
		b.dirty = false
	}
	b.mu.Unlock()

	return b.dev.WriteIQ(ctx, in)
}

// Params returns the output parameters from the last reconfigure.
func (b *VSGSeries) Params() device.GenParams {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.params
}

func (b *VSGSeries) SetCenter(hz float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg.Center = hz
	b.dirty = true
}

func (b *VSGSeries) SetSampleRate(hz float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg.SampleRate = hz
	b.dirty = true
}

func (b *VSGSeries) SetLevel(dbm float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg.Level = dbm
	b.dirty = true
}

func (b *VSGSeries) SetIQOffset(i, q int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg.IOffset = i
	b.cfg.QOffset = q
	b.dirty = true
}

func (b *VSGSeries) Close(ctx context.Context) error {
	return b.dev.Close(ctx)
}
