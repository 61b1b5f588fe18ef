package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HAZREPORT_DATA_DIR", "")
	t.Setenv("HAZREPORT_OUTPUT_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir default not applied")
	}
	if cfg.OutputDir != "." {
		t.Errorf("OutputDir = %q, want .", cfg.OutputDir)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HAZREPORT_DATA_DIR", "/tmp/hz-data")
	t.Setenv("HAZREPORT_OUTPUT_DIR", "/tmp/hz-out")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DataDir != "/tmp/hz-data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.OutputDir != "/tmp/hz-out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if got := cfg.DatabasePath(); got != filepath.Join("/tmp/hz-data", "hazreport.db") {
		t.Errorf("DatabasePath() = %q", got)
	}
}
