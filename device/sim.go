package device

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/signalhound/sighound/errors"
)

// simBaseRate is the undecimated sample rate of the simulated front end.
const simBaseRate = 50e6

// SimAnalyzer is a pure-Go analyzer producing a tone in noise. It stands in
// for hardware when the native extension is absent.
type SimAnalyzer struct {
	mu         sync.Mutex
	serial     int
	toneOffset float64 // Hz from center
	cfg        IQConfig
	params     IQParams
	phase      float64
	rng        *rand.Rand
	configured bool
	closed     bool
}

// NewSimAnalyzer creates a simulated analyzer emitting a tone at the given
// offset from the configured center frequency.
func NewSimAnalyzer(serial int, toneOffset float64) *SimAnalyzer {
	return &SimAnalyzer{
		serial:     serial,
		toneOffset: toneOffset,
		rng:        rand.New(rand.NewPCG(uint64(serial), 0x5167)),
	}
}

func (a *SimAnalyzer) Serial() int {
	return a.serial
}

func (a *SimAnalyzer) Configure(_ context.Context, cfg IQConfig) (IQParams, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return IQParams{}, errors.NotInitialized(errors.PhaseConfigure, "device")
	}
	if cfg.Decimation < 1 {
		return IQParams{}, errors.OutOfRange(errors.PhaseConfigure, "decimation", cfg.Decimation)
	}
	if cfg.Center <= 0 {
		return IQParams{}, errors.OutOfRange(errors.PhaseConfigure, "center", cfg.Center)
	}

	rate := simBaseRate / float64(cfg.Decimation)
	bw := cfg.Bandwidth
	if limit := 0.8 * rate; bw <= 0 || bw > limit {
		bw = limit
	}

	a.cfg = cfg
	a.params = IQParams{SampleRate: rate, Bandwidth: bw}
	a.configured = true
	a.phase = 0
	return a.params, nil
}

func (a *SimAnalyzer) ReadIQ(_ context.Context, dst []complex64, purge bool) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, errors.NotInitialized(errors.PhaseStream, "device")
	}
	if !a.configured {
		return 0, errors.NotInitialized(errors.PhaseStream, "streaming")
	}

	if purge {
		a.phase = 0
	}

	step := 2 * math.Pi * a.toneOffset / a.params.SampleRate
	const amp = 0.5
	const noise = 0.001
	for i := range dst {
		re := amp*math.Cos(a.phase) + a.rng.NormFloat64()*noise
		im := amp*math.Sin(a.phase) + a.rng.NormFloat64()*noise
		dst[i] = complex(float32(re), float32(im))
		a.phase += step
		if a.phase > 2*math.Pi {
			a.phase -= 2 * math.Pi
		}
	}
	return len(dst), nil
}

func (a *SimAnalyzer) Abort(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configured = false
	return nil
}

func (a *SimAnalyzer) Close(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// SimGenerator is a pure-Go generator that counts submitted samples.
type SimGenerator struct {
	mu      sync.Mutex
	serial  int
	cfg     GenConfig
	written int
	closed  bool
}

// NewSimGenerator creates a simulated generator.
func NewSimGenerator(serial int) *SimGenerator {
	return &SimGenerator{serial: serial}
}

func (g *SimGenerator) Serial() int {
	return g.serial
}

func (g *SimGenerator) Configure(_ context.Context, cfg GenConfig) (GenParams, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return GenParams{}, errors.NotInitialized(errors.PhaseConfigure, "device")
	}
	if cfg.SampleRate <= 0 {
		return GenParams{}, errors.OutOfRange(errors.PhaseConfigure, "samplerate", cfg.SampleRate)
	}

	g.cfg = cfg
	return GenParams{Center: cfg.Center, SampleRate: cfg.SampleRate, Level: cfg.Level}, nil
}

func (g *SimGenerator) WriteIQ(_ context.Context, src []complex64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return errors.NotInitialized(errors.PhaseStream, "device")
	}
	g.written += len(src)
	return nil
}

// Written returns the total number of samples submitted.
func (g *SimGenerator) Written() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.written
}

func (g *SimGenerator) Close(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}
