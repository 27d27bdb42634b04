package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fabworks/nestcut/internal/model"
	"github.com/xuri/excelize/v2"
)

// LinearImportResult holds the bar cut list rows of one import
// operation plus per-row diagnostics.
type LinearImportResult struct {
	Parts    []model.LinearPart
	Errors   []string
	Warnings []string
}

// linearColumnMapping maps bar cut list column roles to their indices.
type linearColumnMapping struct {
	Label    int
	Material int
	Length   int
	Quantity int
}

var linearHeaderAliases = map[string][]string{
	"label":    {"label", "name", "part", "part name", "description", "desc", "item", "pos", "position"},
	"material": {"material", "profile", "section", "raw material", "stock", "mat"},
	"length":   {"length", "len", "l", "cut length"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
}

// ImportLinearCSV imports bar parts from a CSV file, auto-detecting the
// delimiter the same way the sheet importer does. The kerf is baked into
// each part's effective length so the packer sees the space a cut really
// consumes.
func ImportLinearCSV(path string, kerf float64) LinearImportResult {
	result := LinearImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	records, err := readCSV(bytes.NewReader(data), DetectCSVDelimiter(data))
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importLinearFromRows(records, "Line", kerf)
}

// ImportLinearCSVFromReader imports bar parts from a CSV reader with a
// known delimiter.
func ImportLinearCSVFromReader(reader io.Reader, delimiter rune, kerf float64) LinearImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return LinearImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importLinearFromRows(records, "Line", kerf)
}

// ImportLinearExcel imports bar parts from the first sheet of an .xlsx file.
func ImportLinearExcel(path string, kerf float64) LinearImportResult {
	result := LinearImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importLinearFromRows(rows, "Row", kerf)
}

func detectLinearColumns(row []string) (linearColumnMapping, bool) {
	mapping := linearColumnMapping{Label: -1, Material: -1, Length: -1, Quantity: -1}

	set := func(target *int, idx int) {
		if *target == -1 {
			*target = idx
		}
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range linearHeaderAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "label":
					set(&mapping.Label, i)
				case "material":
					set(&mapping.Material, i)
				case "length":
					set(&mapping.Length, i)
				case "quantity":
					set(&mapping.Quantity, i)
				}
			}
		}
	}

	if !isHeader {
		// Positional fallback: Label, Material, Length, Quantity
		return linearColumnMapping{Label: 0, Material: 1, Length: 2, Quantity: 3}, false
	}

	return mapping, true
}

func parseLinearRow(row []string, mapping linearColumnMapping, rowLabel string, partCount int, kerf float64) (model.LinearPart, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Cut %d", partCount+1)
	}

	material := getCell(row, mapping.Material)
	if material == "" {
		return model.LinearPart{}, fmt.Sprintf("%s: Missing raw material", rowLabel)
	}

	length, errMsg := parseDimension(row, mapping.Length, "length", rowLabel)
	if errMsg != "" {
		return model.LinearPart{}, errMsg
	}

	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		return model.LinearPart{}, fmt.Sprintf("%s: Missing quantity value", rowLabel)
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return model.LinearPart{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
	}

	if length <= 0 || qty <= 0 {
		return model.LinearPart{}, fmt.Sprintf("%s: Length and quantity must be positive", rowLabel)
	}

	return model.NewLinearPart(label, material, length, qty, kerf), ""
}

func importLinearFromRows(rows [][]string, rowPrefix string, kerf float64) LinearImportResult {
	result := LinearImportResult{}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := detectLinearColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1

		var missing []string
		if mapping.Material == -1 {
			missing = append(missing, "Material")
		}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Quantity == -1 {
			missing = append(missing, "Quantity")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		part, errMsg := parseLinearRow(row, mapping, rowLabel, len(result.Parts), kerf)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Parts = append(result.Parts, part)
	}

	if len(result.Parts) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No valid part rows found")
	}

	return result
}
