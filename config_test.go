package simtemp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"period_too_low", Config{PeriodMs: 0, ThresholdMC: 0, Mode: "normal"}, true},
		{"period_too_high", Config{PeriodMs: MaxPeriodMs + 1, ThresholdMC: 0, Mode: "normal"}, true},
		{"period_at_min", Config{PeriodMs: MinPeriodMs, ThresholdMC: 0, Mode: "normal"}, false},
		{"threshold_too_low", Config{PeriodMs: 100, ThresholdMC: MinThresholdMC - 1, Mode: "normal"}, true},
		{"threshold_too_high", Config{PeriodMs: 100, ThresholdMC: MaxThresholdMC + 1, Mode: "normal"}, true},
		{"unknown_mode", Config{PeriodMs: 100, ThresholdMC: 0, Mode: "bogus"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfigFile(filepath.Join(dir, "does_not_exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigFile on missing file: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfigFile on missing file = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfigFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simtemp.yaml")
	if err := os.WriteFile(path, []byte("sampling_ms: 250\nmode: noisy\n"), 0o644); err != nil {
		t.Fatalf("writing test fixture: %v", err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.PeriodMs != 250 {
		t.Errorf("PeriodMs = %d, want 250", cfg.PeriodMs)
	}
	if cfg.Mode != "noisy" {
		t.Errorf("Mode = %q, want noisy", cfg.Mode)
	}
	if cfg.ThresholdMC != DefaultThresholdMC {
		t.Errorf("ThresholdMC = %d, want default %d (untouched by overlay)", cfg.ThresholdMC, DefaultThresholdMC)
	}
}

func TestLiveConfigRejectedWriteLeavesPriorValue(t *testing.T) {
	lc, err := newLiveConfig(DefaultConfig())
	if err != nil {
		t.Fatalf("newLiveConfig: %v", err)
	}

	before := lc.PeriodMs()
	if err := lc.setPeriodMs(MaxPeriodMs + 1); err != ErrInvalidArgument {
		t.Fatalf("setPeriodMs(out of range) error = %v, want ErrInvalidArgument", err)
	}
	if lc.PeriodMs() != before {
		t.Errorf("PeriodMs() after rejected write = %d, want unchanged %d", lc.PeriodMs(), before)
	}

	if err := lc.setMode("bogus"); err != ErrInvalidArgument {
		t.Fatalf("setMode(bogus) error = %v, want ErrInvalidArgument", err)
	}
	if lc.Mode() != DefaultMode {
		t.Errorf("Mode() after rejected write = %v, want unchanged %v", lc.Mode(), DefaultMode)
	}
}
