package export

import (
	"fmt"

	"github.com/fabworks/nestcut/internal/model"
	"github.com/xuri/excelize/v2"
)

// ExportExcel writes a cutting list workbook for a sheet nesting result.
// The workbook has one worksheet per concern: placed parts with their
// positions, per-sheet totals, and unplaced parts.
func ExportExcel(path string, result model.SheetNestingResult, densities model.DensityTable) error {
	if len(result.Layouts) == 0 && len(result.UnplacedParts) == 0 {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writePlacementsSheet(f, result); err != nil {
		return err
	}
	if err := writeSheetTotals(f, result, densities); err != nil {
		return err
	}
	if err := writeUnplacedSheet(f, result.UnplacedParts); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writePlacementsSheet(f *excelize.File, result model.SheetNestingResult) error {
	const name = "Placements"
	f.SetSheetName(f.GetSheetName(0), name)

	headers := []interface{}{"Sheet", "Stock", "Part", "Length (mm)", "Width (mm)", "Thickness (mm)", "Grade", "X (mm)", "Y (mm)", "Rotated"}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	rowNum := 2
	for sheetIdx, layout := range result.Layouts {
		for _, p := range layout.Parts {
			row := []interface{}{
				sheetIdx + 1,
				layout.Sheet.Label,
				p.Part.Label,
				p.Part.Length,
				p.Part.Width,
				p.Part.Thickness,
				p.Part.Grade,
				p.X,
				p.Y,
				p.Rotated,
			}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("failed to write placement row: %w", err)
			}
			rowNum++
		}
	}

	return f.SetColWidth(name, "A", "J", 14)
}

func writeSheetTotals(f *excelize.File, result model.SheetNestingResult, densities model.DensityTable) error {
	const name = "Sheet Totals"
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	headers := []interface{}{"Sheet", "Stock", "Length (mm)", "Width (mm)", "Thickness (mm)", "Grade", "Parts", "Used Area (mm2)", "Waste (%)", "Used Weight (kg)", "Waste Weight (kg)"}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, layout := range result.Layouts {
		density := densities.Lookup(layout.Sheet.Grade)
		row := []interface{}{
			i + 1,
			layout.Sheet.Label,
			layout.Sheet.Length,
			layout.Sheet.Width,
			layout.Sheet.Thickness,
			layout.Sheet.Grade,
			len(layout.Parts),
			layout.UsedArea(),
			layout.WastePercentage(),
			layout.UsedWeight(density),
			layout.WasteWeight(density),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write totals row: %w", err)
		}
	}

	// Grand total row below the per-sheet rows
	totalRow := []interface{}{
		"Total", "", "", "", "", "",
		countPlaced(result),
		result.TotalUsedArea(),
		result.TotalWastePercentage(),
		result.TotalUsedWeight(densities),
		result.TotalWasteWeight(densities),
	}
	cell, err := excelize.CoordinatesToCellName(1, len(result.Layouts)+3)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(name, cell, &totalRow); err != nil {
		return fmt.Errorf("failed to write total row: %w", err)
	}

	return f.SetColWidth(name, "A", "K", 15)
}

func writeUnplacedSheet(f *excelize.File, unplaced []model.Part) error {
	const name = "Unplaced"
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	headers := []interface{}{"Part", "Length (mm)", "Width (mm)", "Thickness (mm)", "Grade", "Quantity"}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, p := range unplaced {
		row := []interface{}{p.Label, p.Length, p.Width, p.Thickness, p.Grade, p.Quantity}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write unplaced row: %w", err)
		}
	}

	return f.SetColWidth(name, "A", "F", 14)
}

// ExportLinearExcel writes a cutting list workbook for a bar nesting
// result: one row per cut with its bar assignment, plus bar totals.
func ExportLinearExcel(path string, result model.LinearNestingResult, settings model.LinearSettings) error {
	if len(result.Layouts) == 0 && len(result.UnplacedParts) == 0 {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const cuts = "Cuts"
	f.SetSheetName(f.GetSheetName(0), cuts)

	headers := []interface{}{"Bar", "Material", "Cut", "Length (mm)", "Effective Length (mm)"}
	if err := f.SetSheetRow(cuts, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	rowNum := 2
	for barIdx, layout := range result.Layouts {
		for _, cut := range layout.Cuts {
			row := []interface{}{barIdx + 1, layout.RawMaterial, cut.ID, cut.Length, cut.EffectiveLength}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(cuts, cell, &row); err != nil {
				return fmt.Errorf("failed to write cut row: %w", err)
			}
			rowNum++
		}
	}
	if err := f.SetColWidth(cuts, "A", "E", 16); err != nil {
		return err
	}

	const bars = "Bar Totals"
	if _, err := f.NewSheet(bars); err != nil {
		return err
	}

	barHeaders := []interface{}{"Bar", "Material", "Stock Length (mm)", "Cuts", "Used (mm)", "Waste (mm)", "Waste (%)"}
	if err := f.SetSheetRow(bars, "A1", &barHeaders); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, layout := range result.Layouts {
		row := []interface{}{
			i + 1,
			layout.RawMaterial,
			layout.StockLength,
			len(layout.Cuts),
			layout.UsedLength(),
			layout.WasteLength(),
			layout.WastePercentage(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(bars, cell, &row); err != nil {
			return fmt.Errorf("failed to write bar row: %w", err)
		}
	}

	totalRow := []interface{}{
		"Total", "", "", "", "",
		result.TotalWaste(),
		result.TotalWastePercentage(),
	}
	cell, err := excelize.CoordinatesToCellName(1, len(result.Layouts)+3)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(bars, cell, &totalRow); err != nil {
		return fmt.Errorf("failed to write total row: %w", err)
	}
	if err := f.SetColWidth(bars, "A", "G", 16); err != nil {
		return err
	}

	if len(result.UnplacedParts) > 0 {
		const name = "Unplaced"
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		unplacedHeaders := []interface{}{"Part", "Material", "Length (mm)", "Quantity"}
		if err := f.SetSheetRow(name, "A1", &unplacedHeaders); err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
		for i, p := range result.UnplacedParts {
			row := []interface{}{p.Label, p.RawMaterial, p.Length, p.Quantity}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("failed to write unplaced row: %w", err)
			}
		}
		if err := f.SetColWidth(name, "A", "D", 16); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
