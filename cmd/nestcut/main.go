// Command nestcut reads part lists, nests them onto sheet and bar
// stock, and writes shop-floor documents.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fabworks/nestcut/internal/config"
	"github.com/fabworks/nestcut/internal/engine"
	"github.com/fabworks/nestcut/internal/export"
	"github.com/fabworks/nestcut/internal/importer"
	"github.com/fabworks/nestcut/internal/model"
)

var (
	configPath string
	partsPath  string
	barsPath   string

	dxfThickness float64
	dxfGrade     string

	seed int64
)

func param() {
	flag.StringVar(&configPath, "config", "", "path to the YAML job configuration")
	flag.StringVar(&partsPath, "parts", "", "sheet part list (.csv, .xlsx, or .dxf)")
	flag.StringVar(&barsPath, "bars", "", "bar cut list (.csv or .xlsx)")
	flag.Float64Var(&dxfThickness, "thickness", 0, "part thickness in mm, required for DXF input")
	flag.StringVar(&dxfGrade, "grade", "", "material grade, required for DXF input")
	flag.Int64Var(&seed, "seed", 0, "random seed for the waste search; 0 uses the configured seed")

	flag.Parse()
}

func main() {
	param()

	if partsPath == "" && barsPath == "" {
		log.Fatal("nothing to do: pass -parts and/or -bars")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if seed == 0 {
		seed = cfg.Linear.Seed
	}

	var g errgroup.Group

	if partsPath != "" {
		g.Go(func() error {
			return runSheetJob(cfg)
		})
	}
	if barsPath != "" {
		g.Go(func() error {
			return runLinearJob(cfg)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

func runSheetJob(cfg *config.Config) error {
	parts, err := importParts(partsPath)
	if err != nil {
		return err
	}

	capacities := cfg.Capacities()
	if len(capacities) == 0 {
		return fmt.Errorf("no sheet stock in configuration")
	}

	packer := engine.NewSheetPacker(cfg.SheetSettings())
	result, err := packer.Pack(parts, capacities)
	if err != nil {
		return fmt.Errorf("sheet nesting: %w", err)
	}

	densities := cfg.DensityTable()
	log.Printf("sheets: %d layouts, %d unplaced, waste %.1f%%, placed weight %.1f kg",
		len(result.Layouts), len(result.UnplacedParts),
		result.TotalWastePercentage(), result.TotalUsedWeight(densities))

	if len(result.Layouts) == 0 {
		log.Print("no sheet layouts produced, skipping exports")
		return nil
	}

	if path := cfg.Export.PDF; path != "" {
		if err := export.ExportPDF(path, result, cfg.SheetSettings(), densities); err != nil {
			return fmt.Errorf("pdf export: %w", err)
		}
		log.Printf("wrote %s", path)
	}
	if path := cfg.Export.Excel; path != "" {
		if err := export.ExportExcel(path, result, densities); err != nil {
			return fmt.Errorf("excel export: %w", err)
		}
		log.Printf("wrote %s", path)
	}
	if path := cfg.Export.Labels; path != "" {
		if err := export.ExportLabels(path, result); err != nil {
			return fmt.Errorf("label export: %w", err)
		}
		log.Printf("wrote %s", path)
	}

	return nil
}

func runLinearJob(cfg *config.Config) error {
	parts, err := importLinearParts(barsPath, cfg.Linear.Kerf)
	if err != nil {
		return err
	}

	settings := cfg.LinearSettings()
	packer := engine.NewLinearPacker(settings, seed)
	result, err := packer.Pack(parts)
	if err != nil {
		return fmt.Errorf("bar nesting: %w", err)
	}

	log.Printf("bars: %d used, %d unplaced, waste %.0f mm (%.1f%%)",
		result.StocksUsed, len(result.UnplacedParts),
		result.TotalWaste(), result.TotalWastePercentage())

	if len(result.Layouts) == 0 {
		log.Print("no bar layouts produced, skipping exports")
		return nil
	}

	if path := cfg.Export.PDF; path != "" {
		barPath := withSuffix(path, "_bars")
		if err := export.ExportLinearPDF(barPath, result, settings); err != nil {
			return fmt.Errorf("pdf export: %w", err)
		}
		log.Printf("wrote %s", barPath)
	}
	if path := cfg.Export.Excel; path != "" {
		barPath := withSuffix(path, "_bars")
		if err := export.ExportLinearExcel(barPath, result, settings); err != nil {
			return fmt.Errorf("excel export: %w", err)
		}
		log.Printf("wrote %s", barPath)
	}

	return nil
}

func importParts(path string) ([]model.Part, error) {
	var result importer.ImportResult

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		result = importer.ImportCSV(path)
	case ".xlsx":
		result = importer.ImportExcel(path)
	case ".dxf":
		result = importer.ImportDXF(path, dxfThickness, dxfGrade)
	default:
		return nil, fmt.Errorf("unsupported part list format: %s", path)
	}

	for _, w := range result.Warnings {
		log.Printf("warning: %s", w)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("import %s: %s", path, strings.Join(result.Errors, "; "))
	}

	return result.Parts, nil
}

func importLinearParts(path string, kerf float64) ([]model.LinearPart, error) {
	var result importer.LinearImportResult

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		result = importer.ImportLinearCSV(path, kerf)
	case ".xlsx":
		result = importer.ImportLinearExcel(path, kerf)
	default:
		return nil, fmt.Errorf("unsupported bar list format: %s", path)
	}

	for _, w := range result.Warnings {
		log.Printf("warning: %s", w)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("import %s: %s", path, strings.Join(result.Errors, "; "))
	}

	return result.Parts, nil
}

// withSuffix inserts a suffix before the file extension.
func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
