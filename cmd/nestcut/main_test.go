package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fabworks/nestcut/internal/config"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("cannot write %s: %v", name, err)
	}
	return path
}

func TestRunSheetJob_SkipsExportsWhenNothingPlaced(t *testing.T) {
	// An all-unplaced result is a valid outcome and must not turn the
	// empty exports into a fatal error.
	partsPath = writeTempFile(t, "parts.csv",
		"Label,Length,Width,Thickness,Grade,Quantity\nHuge,5000,3000,8,S355,1\n")
	defer func() { partsPath = "" }()

	outDir := t.TempDir()
	cfg := &config.Config{
		Sheets: []config.StockSheet{
			{Label: "Small", Length: 1000, Width: 500, Thickness: 8, Grade: "S355", Quantity: 1},
		},
		Export: config.ExportConfig{
			PDF:    filepath.Join(outDir, "layout.pdf"),
			Excel:  filepath.Join(outDir, "layout.xlsx"),
			Labels: filepath.Join(outDir, "labels.pdf"),
		},
	}

	if err := runSheetJob(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, path := range []string{cfg.Export.PDF, cfg.Export.Excel, cfg.Export.Labels} {
		if _, err := os.Stat(path); err == nil {
			t.Errorf("expected no export file at %s", path)
		}
	}
}

func TestRunLinearJob_SkipsExportsWhenNothingPlaced(t *testing.T) {
	barsPath = writeTempFile(t, "bars.csv",
		"Label,Material,Length,Quantity\nLong,HEA 100,7000,1\n")
	defer func() { barsPath = "" }()

	outDir := t.TempDir()
	cfg := &config.Config{
		Linear: config.LinearConfig{StockLength: 6000, Kerf: 3, Goal: "speed", Trials: 1},
		Export: config.ExportConfig{
			PDF:   filepath.Join(outDir, "layout.pdf"),
			Excel: filepath.Join(outDir, "layout.xlsx"),
		},
	}

	if err := runLinearJob(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, path := range []string{withSuffix(cfg.Export.PDF, "_bars"), withSuffix(cfg.Export.Excel, "_bars")} {
		if _, err := os.Stat(path); err == nil {
			t.Errorf("expected no export file at %s", path)
		}
	}
}
