package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseConfigure,
				Kind:   KindOutOfRange,
				Path:   []string{"sp", "decimation"},
				Detail: "must be a power of two",
			},
			contains: []string{"[configure]", "out_of_range", "sp.decimation", "must be a power of two"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseProbe,
				Kind:  KindNotFound,
			},
			contains: []string{"[probe]", "not_found"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "compile extension",
				Cause:  errors.New("invalid magic number"),
			},
			contains: []string{"[load]", "invalid_data", "compile extension", "caused by", "invalid magic number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Load("read extension", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should match the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestError_Is(t *testing.T) {
	err := NotFound(PhaseDevice, "export", "sp-open-device")

	if !errors.Is(err, &Error{Phase: PhaseDevice, Kind: KindNotFound}) {
		t.Errorf("Is should match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseLoad, Kind: KindNotFound}) {
		t.Errorf("Is should not match a different phase")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("short read")
	err := New(PhaseStream, KindInvalidData).
		Path("bb", "get-iq").
		Detail("expected %d samples, got %d", 4096, 100).
		Cause(cause).
		Build()

	if err.Phase != PhaseStream || err.Kind != KindInvalidData {
		t.Fatalf("builder lost phase/kind: %+v", err)
	}
	if err.Detail != "expected 4096 samples, got 100" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if len(err.Path) != 2 || err.Path[0] != "bb" {
		t.Errorf("Path = %v", err.Path)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause not preserved")
	}
}

func TestDevice(t *testing.T) {
	err := Device(PhaseStream, "sp-get-iq", -3)
	msg := err.Error()
	for _, s := range []string{"device_status", "sp-get-iq", "status -3"} {
		if !strings.Contains(msg, s) {
			t.Errorf("error message %q does not contain %q", msg, s)
		}
	}
}
