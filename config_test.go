package main

import (
	"os"
	"path"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := path.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return file
}

func TestReadConfig(t *testing.T) {
	file := writeConfig(t, `
run:
  period: AM
  output-dir: ./out
network:
  snapshot: ./net.json
fares:
  system-file: ./fares.far
  matrix-file: ./fares.mat
  max-transfer-distance: 5280
variants:
  - name: ALLBUS
    modes: [b, x]
`)
	config, err := ReadConfig(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Run.Period != "AM" {
		t.Errorf("config.Run.Period = %s; want AM", config.Run.Period)
	}
	if config.Fares.MaxTransferDistance != 5280 {
		t.Errorf("config.Fares.MaxTransferDistance = %v; want 5280", config.Fares.MaxTransferDistance)
	}
	// threshold defaults when omitted
	if config.Fares.ZoneShareThreshold != 0.1 {
		t.Errorf("config.Fares.ZoneShareThreshold = %v; want 0.1", config.Fares.ZoneShareThreshold)
	}
	if len(config.Variants) != 1 || config.Variants[0].Name != "ALLBUS" {
		t.Errorf("unexpected variants: %+v", config.Variants)
	}
}

func TestReadConfigRejectsMissingFields(t *testing.T) {
	file := writeConfig(t, `
run:
  period: AM
`)
	if _, err := ReadConfig(file); err == nil {
		t.Errorf("expected a validation error")
	}
}

func TestReadConfigRejectsBadVariant(t *testing.T) {
	file := writeConfig(t, `
run:
  period: AM
  output-dir: ./out
network:
  snapshot: ./net.json
fares:
  system-file: ./fares.far
  matrix-file: ./fares.mat
  max-transfer-distance: 5280
variants:
  - name: EMPTY
    modes: []
`)
	if _, err := ReadConfig(file); err == nil {
		t.Errorf("expected a validation error for an empty mode list")
	}
}
