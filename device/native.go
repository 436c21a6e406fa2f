package device

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/signalhound/sighound/engine"
	"github.com/signalhound/sighound/errors"
	"github.com/signalhound/sighound/extension"
	"github.com/signalhound/sighound/iq"
)

// caller is the surface native devices need from the loaded extension.
type caller interface {
	Lookup(name string) (engine.ExportDef, bool)
	Call(ctx context.Context, name string, args ...uint64) ([]uint64, error)
	Alloc(ctx context.Context, size uint32) (uint32, error)
	MemoryRead(offset, length uint32) ([]byte, error)
	MemoryWrite(offset uint32, data []byte) error
}

// Conventional export names bound per series prefix.
var analyzerExports = []string{
	"open-device",
	"get-serial",
	"configure",
	"get-sample-rate",
	"get-bandwidth",
	"get-iq",
	"abort",
	"close-device",
}

var generatorExports = []string{
	"open-device",
	"get-serial",
	"configure",
	"get-frequency",
	"get-sample-rate",
	"get-level",
	"submit-iq",
	"close-device",
}

// OpenAnalyzer opens a native analyzer of the given series through the
// loaded extension.
func OpenAnalyzer(ctx context.Context, ext *extension.Extension, series Series) (Analyzer, error) {
	if ext.Absent() {
		return nil, errors.NotInitialized(errors.PhaseDevice, "native extension")
	}
	return openNativeAnalyzer(ctx, ext, series)
}

// OpenGenerator opens a native VSG generator through the loaded extension.
func OpenGenerator(ctx context.Context, ext *extension.Extension) (Generator, error) {
	if ext.Absent() {
		return nil, errors.NotInitialized(errors.PhaseDevice, "native extension")
	}
	return openNativeGenerator(ctx, ext)
}

// bind verifies all required series exports are forwarded.
func bind(c caller, series Series, names []string) error {
	for _, name := range names {
		sym := string(series) + "-" + name
		if _, ok := c.Lookup(sym); !ok {
			return errors.New(errors.PhaseDevice, errors.KindNotFound).
				Path(string(series)).
				Detail("extension does not export %q", sym).
				Build()
		}
	}
	return nil
}

func callStatus(ctx context.Context, c caller, phase errors.Phase, name string, args ...uint64) error {
	results, err := c.Call(ctx, name, args...)
	if err != nil {
		return errors.Wrap(phase, errors.KindDeviceStatus, err, name)
	}
	if len(results) != 1 {
		return errors.InvalidInput(phase, name+" returned no status")
	}
	return Check(phase, name, Status(int32(results[0])))
}

func callF64(ctx context.Context, c caller, phase errors.Phase, name string, args ...uint64) (float64, error) {
	results, err := c.Call(ctx, name, args...)
	if err != nil {
		return 0, errors.Wrap(phase, errors.KindDeviceStatus, err, name)
	}
	if len(results) != 1 {
		return 0, errors.InvalidInput(phase, name+" returned no value")
	}
	return api.DecodeF64(results[0]), nil
}

// open performs the shared open-device/get-serial handshake.
func open(ctx context.Context, c caller, series Series) (handle, serial int32, err error) {
	sym := string(series) + "-open-device"
	results, err := c.Call(ctx, sym)
	if err != nil {
		return 0, 0, errors.Wrap(errors.PhaseDevice, errors.KindDeviceStatus, err, sym)
	}
	if len(results) != 1 {
		return 0, 0, errors.InvalidInput(errors.PhaseDevice, sym+" returned no handle")
	}
	handle = int32(results[0])
	if handle < 0 {
		return 0, 0, errors.Device(errors.PhaseDevice, sym, handle)
	}

	sym = string(series) + "-get-serial"
	results, err = c.Call(ctx, sym, api.EncodeI32(handle))
	if err != nil {
		return 0, 0, errors.Wrap(errors.PhaseDevice, errors.KindDeviceStatus, err, sym)
	}
	if len(results) == 1 {
		serial = int32(results[0])
		if serial < 0 {
			return 0, 0, errors.Device(errors.PhaseDevice, sym, serial)
		}
	}

	// api-version is optional; log it when the extension exports one.
	if _, ok := c.Lookup("api-version"); ok {
		if results, err := c.Call(ctx, "api-version"); err == nil && len(results) == 1 {
			Logger().Info("extension API version", zap.Int32("version", int32(results[0])))
		}
	}

	Logger().Info("device opened",
		zap.String("series", string(series)),
		zap.Int32("serial", serial))
	return handle, serial, nil
}

type nativeAnalyzer struct {
	c      caller
	series Series
	handle int32
	serial int32

	bufPtr uint32
	bufCap uint32
}

func openNativeAnalyzer(ctx context.Context, c caller, series Series) (*nativeAnalyzer, error) {
	if series == VSG || !series.Valid() {
		return nil, errors.InvalidInput(errors.PhaseDevice, "series "+string(series)+" is not an analyzer")
	}
	if err := bind(c, series, analyzerExports); err != nil {
		return nil, err
	}
	handle, serial, err := open(ctx, c, series)
	if err != nil {
		return nil, err
	}
	return &nativeAnalyzer{c: c, series: series, handle: handle, serial: serial}, nil
}

func (a *nativeAnalyzer) sym(name string) string {
	return string(a.series) + "-" + name
}

func (a *nativeAnalyzer) Serial() int {
	return int(a.serial)
}

func (a *nativeAnalyzer) Configure(ctx context.Context, cfg IQConfig) (IQParams, error) {
	swfilter := int32(0)
	if cfg.SWFilter {
		swfilter = 1
	}

	err := callStatus(ctx, a.c, errors.PhaseConfigure, a.sym("configure"),
		api.EncodeI32(a.handle),
		api.EncodeF64(cfg.Center),
		api.EncodeF64(cfg.RefLevel),
		api.EncodeI32(int32(cfg.Atten)),
		api.EncodeI32(int32(cfg.Decimation)),
		api.EncodeI32(swfilter),
		api.EncodeF64(cfg.Bandwidth),
	)
	if err != nil {
		return IQParams{}, err
	}

	var params IQParams
	if params.SampleRate, err = callF64(ctx, a.c, errors.PhaseConfigure, a.sym("get-sample-rate"), api.EncodeI32(a.handle)); err != nil {
		return IQParams{}, err
	}
	if params.Bandwidth, err = callF64(ctx, a.c, errors.PhaseConfigure, a.sym("get-bandwidth"), api.EncodeI32(a.handle)); err != nil {
		return IQParams{}, err
	}

	Logger().Info("streaming configured",
		zap.String("series", string(a.series)),
		zap.Float64("sample_rate", params.SampleRate),
		zap.Float64("bandwidth", params.Bandwidth))
	return params, nil
}

func (a *nativeAnalyzer) ReadIQ(ctx context.Context, dst []complex64, purge bool) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	// Interleaved f32 I/Q pairs in extension memory.
	need := uint32(len(dst)) * 8
	if a.bufCap < need {
		ptr, err := a.c.Alloc(ctx, need)
		if err != nil {
			return 0, errors.Wrap(errors.PhaseStream, errors.KindInvalidData, err, "allocate IQ buffer")
		}
		a.bufPtr, a.bufCap = ptr, need
	}

	purgeArg := int32(0)
	if purge {
		purgeArg = 1
	}
	err := callStatus(ctx, a.c, errors.PhaseStream, a.sym("get-iq"),
		api.EncodeI32(a.handle),
		api.EncodeI32(int32(a.bufPtr)),
		api.EncodeI32(int32(len(dst))),
		api.EncodeI32(purgeArg),
	)
	if err != nil {
		return 0, err
	}

	raw, err := a.c.MemoryRead(a.bufPtr, need)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseStream, errors.KindInvalidData, err, "read IQ buffer")
	}
	return iq.FromInterleavedF32LE(dst, raw), nil
}

func (a *nativeAnalyzer) Abort(ctx context.Context) error {
	return callStatus(ctx, a.c, errors.PhaseStream, a.sym("abort"), api.EncodeI32(a.handle))
}

func (a *nativeAnalyzer) Close(ctx context.Context) error {
	return callStatus(ctx, a.c, errors.PhaseDevice, a.sym("close-device"), api.EncodeI32(a.handle))
}

type nativeGenerator struct {
	c      caller
	handle int32
	serial int32

	bufPtr uint32
	bufCap uint32
}

func openNativeGenerator(ctx context.Context, c caller) (*nativeGenerator, error) {
	if err := bind(c, VSG, generatorExports); err != nil {
		return nil, err
	}
	handle, serial, err := open(ctx, c, VSG)
	if err != nil {
		return nil, err
	}
	return &nativeGenerator{c: c, handle: handle, serial: serial}, nil
}

func (g *nativeGenerator) Serial() int {
	return int(g.serial)
}

func (g *nativeGenerator) Configure(ctx context.Context, cfg GenConfig) (GenParams, error) {
	err := callStatus(ctx, g.c, errors.PhaseConfigure, "vsg-configure",
		api.EncodeI32(g.handle),
		api.EncodeF64(cfg.Center),
		api.EncodeF64(cfg.SampleRate),
		api.EncodeF64(cfg.Level),
		api.EncodeI32(int32(cfg.IOffset)),
		api.EncodeI32(int32(cfg.QOffset)),
	)
	if err != nil {
		return GenParams{}, err
	}

	var params GenParams
	if params.Center, err = callF64(ctx, g.c, errors.PhaseConfigure, "vsg-get-frequency", api.EncodeI32(g.handle)); err != nil {
		return GenParams{}, err
	}
	if params.SampleRate, err = callF64(ctx, g.c, errors.PhaseConfigure, "vsg-get-sample-rate", api.EncodeI32(g.handle)); err != nil {
		return GenParams{}, err
	}
	if params.Level, err = callF64(ctx, g.c, errors.PhaseConfigure, "vsg-get-level", api.EncodeI32(g.handle)); err != nil {
		return GenParams{}, err
	}

	Logger().Info("generator configured",
		zap.Float64("frequency", params.Center),
		zap.Float64("sample_rate", params.SampleRate),
		zap.Float64("level", params.Level))
	return params, nil
}

func (g *nativeGenerator) WriteIQ(ctx context.Context, src []complex64) error {
	if len(src) == 0 {
		return nil
	}

	need := uint32(len(src)) * 8
	if g.bufCap < need {
		ptr, err := g.c.Alloc(ctx, need)
		if err != nil {
			return errors.Wrap(errors.PhaseStream, errors.KindInvalidData, err, "allocate IQ buffer")
		}
		g.bufPtr, g.bufCap = ptr, need
	}

	raw := iq.AppendInterleavedF32LE(make([]byte, 0, need), src)
	if err := g.c.MemoryWrite(g.bufPtr, raw); err != nil {
		return errors.Wrap(errors.PhaseStream, errors.KindInvalidData, err, "write IQ buffer")
	}

	return callStatus(ctx, g.c, errors.PhaseStream, "vsg-submit-iq",
		api.EncodeI32(g.handle),
		api.EncodeI32(int32(g.bufPtr)),
		api.EncodeI32(int32(len(src))),
	)
}

func (g *nativeGenerator) Close(ctx context.Context) error {
	return callStatus(ctx, g.c, errors.PhaseDevice, "vsg-close-device", api.EncodeI32(g.handle))
}
