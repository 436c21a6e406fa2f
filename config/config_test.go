package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signalhound/sighound/device"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.DeviceSeries() != device.SP {
		t.Errorf("default series = %q, want sp", p.Series)
	}
	if p.Center != 915e6 || p.Decimation != 4 {
		t.Errorf("unexpected defaults: %+v", p)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeProfile(t, `
series: bb
center: 2.44e9
reflevel: -30
atten: 10
decimation: 8
bandwidth: 5e6
swfilter: false
purge: true
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.DeviceSeries() != device.BB {
		t.Errorf("series = %q, want bb", p.Series)
	}
	if p.Center != 2.44e9 || p.Atten != 10 || p.Decimation != 8 {
		t.Errorf("parsed profile = %+v", p)
	}
	if !p.Purge || p.SWFilter {
		t.Errorf("bool fields = %+v", p)
	}

	cfg := p.IQConfig()
	if cfg.Center != 2.44e9 || cfg.Bandwidth != 5e6 || cfg.SWFilter {
		t.Errorf("IQConfig() = %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeProfile(t, "series: sp\ncenter: 1e9\n")
	t.Setenv("SIGHOUND_SERIES", "sm")
	t.Setenv("SIGHOUND_CENTER", "5.8e9")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.DeviceSeries() != device.SM {
		t.Errorf("series = %q, want env override sm", p.Series)
	}
	if p.Center != 5.8e9 {
		t.Errorf("center = %v, want env override 5.8e9", p.Center)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad series", "series: xx\n"},
		{"vsg is not an analyzer", "series: vsg\n"},
		{"zero center", "series: sp\ncenter: 0\n"},
		{"zero decimation", "series: sp\ndecimation: 0\n"},
		{"negative bandwidth", "series: sp\nbandwidth: -1\n"},
		{"not yaml", "series: [unterminated\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeProfile(t, tt.content)); err == nil {
				t.Errorf("profile %q should be rejected", tt.content)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing profile file should be an error")
	}
}
