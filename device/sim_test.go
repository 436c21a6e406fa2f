package device

import (
	"context"
	"math"
	"testing"

	"github.com/signalhound/sighound/iq"
)

func TestSimAnalyzer_Configure(t *testing.T) {
	ctx := context.Background()
	a := NewSimAnalyzer(1001, 25e3)

	params, err := a.Configure(ctx, IQConfig{Center: 915e6, Decimation: 4, Bandwidth: 1e6})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if params.SampleRate != 12.5e6 {
		t.Errorf("sample rate = %v, want 12.5e6", params.SampleRate)
	}
	if params.Bandwidth != 1e6 {
		t.Errorf("bandwidth = %v, want 1e6", params.Bandwidth)
	}

	// Bandwidth is clamped to what the rate supports.
	params, err = a.Configure(ctx, IQConfig{Center: 915e6, Decimation: 100, Bandwidth: 1e9})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if params.Bandwidth != 0.8*params.SampleRate {
		t.Errorf("bandwidth = %v, want clamped to %v", params.Bandwidth, 0.8*params.SampleRate)
	}

	if _, err := a.Configure(ctx, IQConfig{Center: 915e6, Decimation: 0}); err == nil {
		t.Errorf("zero decimation should be rejected")
	}
	if _, err := a.Configure(ctx, IQConfig{Center: -1, Decimation: 1}); err == nil {
		t.Errorf("negative center should be rejected")
	}
}

func TestSimAnalyzer_ReadIQ(t *testing.T) {
	ctx := context.Background()
	a := NewSimAnalyzer(1001, 25e3)

	if _, err := a.ReadIQ(ctx, make([]complex64, 16), false); err == nil {
		t.Fatalf("read before configure should fail")
	}

	if _, err := a.Configure(ctx, IQConfig{Center: 915e6, Decimation: 4, Bandwidth: 1e6}); err != nil {
		t.Fatalf("configure: %v", err)
	}

	frame := make([]complex64, 4096)
	n, err := a.ReadIQ(ctx, frame, false)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != len(frame) {
		t.Fatalf("read %d samples, want %d", n, len(frame))
	}

	// Half-scale tone: about -6 dBFS.
	if p := iq.PowerDBFS(frame); math.Abs(p+6.02) > 0.5 {
		t.Errorf("tone power = %.2f dBFS, want ~-6", p)
	}
}

func TestSimAnalyzer_Lifecycle(t *testing.T) {
	ctx := context.Background()
	a := NewSimAnalyzer(1, 0)

	if a.Serial() != 1 {
		t.Errorf("Serial() = %d, want 1", a.Serial())
	}

	if _, err := a.Configure(ctx, IQConfig{Center: 1e9, Decimation: 2}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := a.Abort(ctx); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if _, err := a.ReadIQ(ctx, make([]complex64, 4), false); err == nil {
		t.Errorf("read after abort should fail until reconfigured")
	}

	if err := a.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := a.Configure(ctx, IQConfig{Center: 1e9, Decimation: 2}); err == nil {
		t.Errorf("configure after close should fail")
	}
}

func TestSimGenerator(t *testing.T) {
	ctx := context.Background()
	g := NewSimGenerator(5)

	if _, err := g.Configure(ctx, GenConfig{Center: 2.4e9, SampleRate: 0}); err == nil {
		t.Errorf("zero sample rate should be rejected")
	}

	params, err := g.Configure(ctx, GenConfig{Center: 2.4e9, SampleRate: 50e6, Level: -10})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if params.Center != 2.4e9 {
		t.Errorf("params = %+v", params)
	}

	if err := g.WriteIQ(ctx, make([]complex64, 100)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := g.WriteIQ(ctx, make([]complex64, 28)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if g.Written() != 128 {
		t.Errorf("Written() = %d, want 128", g.Written())
	}

	if err := g.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := g.WriteIQ(ctx, make([]complex64, 1)); err == nil {
		t.Errorf("write after close should fail")
	}
}
