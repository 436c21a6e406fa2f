package blocks

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/signalhound/sighound/device"
	"github.com/signalhound/sighound/errors"
)

// Source is the interface satisfied by the analyzer-backed blocks.
type Source interface {
	Name() string
	Work(ctx context.Context, out []complex64) (int, error)
	Params() device.IQParams
	SetCenter(hz float64)
	SetRefLevel(dbm float64)
	SetAtten(db int)
	SetDecimation(decimation int)
	SetSWFilter(on bool)
	SetBandwidth(hz float64)
	SetPurge(on bool)
	Close(ctx context.Context) error
}

// NewSource creates the source block matching an analyzer series.
func NewSource(series device.Series, dev device.Analyzer, cfg device.IQConfig, purge bool) (Source, error) {
	switch series {
	case device.SP:
		return NewSPSeries(dev, cfg, purge), nil
	case device.SM:
		return NewSMSeries(dev, cfg, purge), nil
	case device.BB:
		return NewBBSeries(dev, cfg, purge), nil
	}
	return nil, errors.InvalidInput(errors.PhaseDevice, "no source block for series "+string(series))
}

// source is the shared sync-block core for analyzer-backed sources.
type source struct {
	name string
	dev  device.Analyzer

	mu     sync.Mutex
	cfg    device.IQConfig
	purge  bool
	dirty  bool
	params device.IQParams
}

func newSource(name string, dev device.Analyzer, cfg device.IQConfig, purge bool) *source {
	Logger().Info("block created",
		zap.String("block", name),
		zap.Int("serial", dev.Serial()))
	return &source{
		name:  name,
		dev:   dev,
		cfg:   cfg,
		purge: purge,
		dirty: true,
	}
}

func (s *source) Name() string {
	return s.name
}

// Work fills out with consecutive IQ samples, applying any pending
// configuration change first.
func (s *source) Work(ctx context.Context, out []complex64) (int, error) {
	s.mu.Lock()
	if s.dirty {
		params, err := s.dev.Configure(ctx, s.cfg)
		if err != nil {
			s.mu.Unlock()
			return 0, err
		}
		s.params = params
		s.dirty = false
	}
	purge := s.purge
	s.mu.Unlock()

	return s.dev.ReadIQ(ctx, out, purge)
}

// Params returns the streaming parameters from the last reconfigure.
func (s *source) Params() device.IQParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

func (s *source) SetCenter(hz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Center = hz
	s.dirty = true
}

func (s *source) SetRefLevel(dbm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.RefLevel = dbm
	s.dirty = true
}

func (s *source) SetAtten(db int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Atten = db
	s.dirty = true
}

func (s *source) SetDecimation(decimation int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Decimation = decimation
	s.dirty = true
}

func (s *source) SetSWFilter(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.SWFilter = on
	s.dirty = true
}

func (s *source) SetBandwidth(hz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Bandwidth = hz
	s.dirty = true
}

// SetPurge only changes what the next read does with stale samples.
func (s *source) SetPurge(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purge = on
}

// Close aborts streaming and releases the device.
func (s *source) Close(ctx context.Context) error {
	if err := s.dev.Abort(ctx); err != nil {
		return err
	}
	return s.dev.Close(ctx)
}
