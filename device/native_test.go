package device

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/signalhound/sighound/engine"
	"github.com/signalhound/sighound/errors"
	"github.com/signalhound/sighound/iq"
)

// fakeExt implements caller with canned handlers and a flat memory.
type fakeExt struct {
	handlers map[string]func(args []uint64) ([]uint64, error)
	calls    []string
	mem      []byte
	nextPtr  uint32
	allocs   int
}

func newFakeExt() *fakeExt {
	return &fakeExt{
		handlers: make(map[string]func(args []uint64) ([]uint64, error)),
		mem:      make([]byte, 1<<16),
		nextPtr:  1024,
	}
}

func (f *fakeExt) handle(name string, fn func(args []uint64) ([]uint64, error)) {
	f.handlers[name] = fn
}

func (f *fakeExt) status(name string, s int32) {
	f.handle(name, func([]uint64) ([]uint64, error) {
		return []uint64{api.EncodeI32(s)}, nil
	})
}

func (f *fakeExt) f64(name string, v float64) {
	f.handle(name, func([]uint64) ([]uint64, error) {
		return []uint64{api.EncodeF64(v)}, nil
	})
}

func (f *fakeExt) Lookup(name string) (engine.ExportDef, bool) {
	_, ok := f.handlers[name]
	return engine.ExportDef{Name: name}, ok
}

func (f *fakeExt) Call(_ context.Context, name string, args ...uint64) ([]uint64, error) {
	fn, ok := f.handlers[name]
	if !ok {
		return nil, fmt.Errorf("function %q not exported", name)
	}
	f.calls = append(f.calls, name)
	return fn(args)
}

func (f *fakeExt) Alloc(_ context.Context, size uint32) (uint32, error) {
	f.allocs++
	ptr := f.nextPtr
	f.nextPtr += size
	return ptr, nil
}

func (f *fakeExt) MemoryRead(offset, length uint32) ([]byte, error) {
	out := make([]byte, length)
	copy(out, f.mem[offset:offset+length])
	return out, nil
}

func (f *fakeExt) MemoryWrite(offset uint32, data []byte) error {
	copy(f.mem[offset:], data)
	return nil
}

// analyzerFake wires the full sp-series export set with sane defaults.
func analyzerFake() *fakeExt {
	f := newFakeExt()
	f.status("sp-open-device", 1)
	f.status("sp-get-serial", 12345)
	f.status("sp-configure", 0)
	f.f64("sp-get-sample-rate", 12.5e6)
	f.f64("sp-get-bandwidth", 10e6)
	f.status("sp-get-iq", 0)
	f.status("sp-abort", 0)
	f.status("sp-close-device", 0)
	return f
}

func TestCheck(t *testing.T) {
	if err := Check(errors.PhaseStream, "sp-get-iq", 0); err != nil {
		t.Errorf("ok status should not error: %v", err)
	}
	if err := Check(errors.PhaseStream, "sp-get-iq", 2); err != nil {
		t.Errorf("warning status should not error: %v", err)
	}
	err := Check(errors.PhaseStream, "sp-get-iq", -3)
	if err == nil {
		t.Fatalf("fatal status should error")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseStream, Kind: errors.KindDeviceStatus}) {
		t.Errorf("want stream/device_status, got %v", err)
	}
}

func TestOpenNativeAnalyzer_MissingExport(t *testing.T) {
	f := analyzerFake()
	delete(f.handlers, "sp-abort")

	_, err := openNativeAnalyzer(context.Background(), f, SP)
	if err == nil {
		t.Fatalf("missing export should fail the open")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDevice, Kind: errors.KindNotFound}) {
		t.Errorf("want device/not_found, got %v", err)
	}
}

func TestOpenNativeAnalyzer_RejectsVSG(t *testing.T) {
	if _, err := openNativeAnalyzer(context.Background(), analyzerFake(), VSG); err == nil {
		t.Fatalf("vsg is not an analyzer series")
	}
}

func TestOpenNativeAnalyzer_NegativeHandle(t *testing.T) {
	f := analyzerFake()
	f.status("sp-open-device", -8)

	_, err := openNativeAnalyzer(context.Background(), f, SP)
	if err == nil {
		t.Fatalf("negative handle should fail the open")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDevice, Kind: errors.KindDeviceStatus}) {
		t.Errorf("want device/device_status, got %v", err)
	}
}

func TestNativeAnalyzer_ConfigureAndRead(t *testing.T) {
	ctx := context.Background()
	f := analyzerFake()

	want := []complex64{complex(0.25, -0.25), complex(0.5, 0.125), complex(-1, 1)}
	f.handle("sp-get-iq", func(args []uint64) ([]uint64, error) {
		ptr := uint32(api.DecodeI32(args[1]))
		copy(f.mem[ptr:], iq.AppendInterleavedF32LE(nil, want))
		return []uint64{0}, nil
	})

	a, err := openNativeAnalyzer(ctx, f, SP)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if a.Serial() != 12345 {
		t.Errorf("Serial() = %d, want 12345", a.Serial())
	}

	params, err := a.Configure(ctx, IQConfig{
		Center: 915e6, RefLevel: -20, Atten: -1,
		Decimation: 4, SWFilter: true, Bandwidth: 10e6,
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if params.SampleRate != 12.5e6 || params.Bandwidth != 10e6 {
		t.Errorf("params = %+v", params)
	}

	dst := make([]complex64, len(want))
	n, err := a.ReadIQ(ctx, dst, true)
	if err != nil {
		t.Fatalf("read IQ: %v", err)
	}
	if n != len(want) {
		t.Fatalf("read %d samples, want %d", n, len(want))
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, dst[i], want[i])
		}
	}

	// Same frame size reuses the buffer allocation.
	if _, err := a.ReadIQ(ctx, dst, false); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if f.allocs != 1 {
		t.Errorf("allocated %d times for equal frames, want 1", f.allocs)
	}

	// Larger frame reallocates.
	big := make([]complex64, len(want)*2)
	if _, err := a.ReadIQ(ctx, big, false); err != nil {
		t.Fatalf("large read: %v", err)
	}
	if f.allocs != 2 {
		t.Errorf("allocated %d times after growth, want 2", f.allocs)
	}

	if err := a.Abort(ctx); err != nil {
		t.Errorf("abort: %v", err)
	}
	if err := a.Close(ctx); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestNativeAnalyzer_WarningStatusIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := analyzerFake()
	f.status("sp-get-iq", 1) // e.g. IQ overrange warning

	a, err := openNativeAnalyzer(ctx, f, SP)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := a.ReadIQ(ctx, make([]complex64, 4), false); err != nil {
		t.Errorf("warning status should not fail the read: %v", err)
	}
}

func TestNativeAnalyzer_FatalStatusPropagates(t *testing.T) {
	ctx := context.Background()
	f := analyzerFake()
	f.status("sp-get-iq", -5)

	a, err := openNativeAnalyzer(ctx, f, SP)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := a.ReadIQ(ctx, make([]complex64, 4), false); err == nil {
		t.Errorf("fatal status should fail the read")
	}
}

func TestNativeGenerator_WriteIQ(t *testing.T) {
	ctx := context.Background()
	f := newFakeExt()
	f.status("vsg-open-device", 2)
	f.status("vsg-get-serial", 777)
	f.status("vsg-configure", 0)
	f.f64("vsg-get-frequency", 2.4e9)
	f.f64("vsg-get-sample-rate", 50e6)
	f.f64("vsg-get-level", -10)
	f.status("vsg-close-device", 0)

	var gotPtr uint32
	var gotCount int32
	f.handle("vsg-submit-iq", func(args []uint64) ([]uint64, error) {
		gotPtr = uint32(api.DecodeI32(args[1]))
		gotCount = api.DecodeI32(args[2])
		return []uint64{0}, nil
	})

	g, err := openNativeGenerator(ctx, f)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if g.Serial() != 777 {
		t.Errorf("Serial() = %d, want 777", g.Serial())
	}

	params, err := g.Configure(ctx, GenConfig{Center: 2.4e9, SampleRate: 50e6, Level: -10})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if params.Center != 2.4e9 || params.SampleRate != 50e6 || params.Level != -10 {
		t.Errorf("params = %+v", params)
	}

	frame := []complex64{complex(0.5, 0), complex(0, -0.5)}
	if err := g.WriteIQ(ctx, frame); err != nil {
		t.Fatalf("write IQ: %v", err)
	}
	if int(gotCount) != len(frame) {
		t.Errorf("submitted %d samples, want %d", gotCount, len(frame))
	}

	decoded := make([]complex64, len(frame))
	raw, _ := f.MemoryRead(gotPtr, uint32(len(frame)*8))
	iq.FromInterleavedF32LE(decoded, raw)
	for i := range frame {
		if decoded[i] != frame[i] {
			t.Errorf("submitted sample %d = %v, want %v", i, decoded[i], frame[i])
		}
	}
}

func TestOpenAnalyzer_AbsentExtension(t *testing.T) {
	_, err := OpenAnalyzer(context.Background(), nil, SP)
	if err == nil {
		t.Fatalf("opening without a loaded extension should fail")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDevice, Kind: errors.KindNotInitialized}) {
		t.Errorf("want device/not_initialized, got %v", err)
	}
}
