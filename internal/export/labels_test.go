package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fabworks/nestcut/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	result := buildTestResult()
	err := ExportLabels(path, result)
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	err := ExportLabels(path, model.SheetNestingResult{})
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportLabels_NoPlacements(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "no_placements.pdf")

	result := model.SheetNestingResult{
		Layouts: []model.SheetLayout{
			{Sheet: model.SheetCapacity{ID: "s1", Label: "Plate", Length: 2000, Width: 1000}},
		},
	}
	err := ExportLabels(path, result)
	if err == nil {
		t.Fatal("expected error for result with no placements, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	result := buildTestResult()
	labels := CollectLabelInfos(result)

	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}

	if labels[0].PartLabel != "Gusset" {
		t.Errorf("expected first label to be 'Gusset', got %q", labels[0].PartLabel)
	}
	if labels[0].Length != 600 || labels[0].Width != 400 {
		t.Errorf("wrong dimensions: got %.0fx%.0f, want 600x400", labels[0].Length, labels[0].Width)
	}
	if labels[0].Grade != "S355" {
		t.Errorf("expected grade 'S355', got %q", labels[0].Grade)
	}
	if labels[0].SheetIndex != 1 {
		t.Errorf("expected sheet index 1, got %d", labels[0].SheetIndex)
	}
	if labels[0].Rotated {
		t.Error("expected first label not rotated")
	}

	if !labels[2].Rotated {
		t.Error("expected third label to be rotated")
	}

	if labels[3].SheetIndex != 2 {
		t.Errorf("expected sheet index 2 for fourth label, got %d", labels[3].SheetIndex)
	}
}

func TestLabelInfo_JSONRoundTrip(t *testing.T) {
	info := LabelInfo{
		PartLabel:  "Test Part",
		Length:     300,
		Width:      200,
		Thickness:  6,
		Grade:      "S235",
		SheetIndex: 1,
		SheetLabel: "Plate",
		Rotated:    true,
		X:          50,
		Y:          100,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded LabelInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if decoded.PartLabel != info.PartLabel {
		t.Errorf("label mismatch: got %q, want %q", decoded.PartLabel, info.PartLabel)
	}
	if decoded.Length != info.Length || decoded.Width != info.Width {
		t.Errorf("dimensions mismatch: got %.0fx%.0f, want %.0fx%.0f",
			decoded.Length, decoded.Width, info.Length, info.Width)
	}
	if decoded.Rotated != info.Rotated {
		t.Error("rotated flag mismatch")
	}
}

func TestExportLabels_ManyParts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many_labels.pdf")

	// 35 placements force a second label page
	parts := make([]model.PlacedPart, 35)
	for i := range parts {
		parts[i] = model.PlacedPart{
			Part: model.Part{
				ID:        "p" + string(rune('A'+i%26)),
				Label:     "Part " + string(rune('A'+i%26)),
				Length:    50 + float64(i*5),
				Width:     100 + float64(i*10),
				Thickness: 5,
				Grade:     "S235",
				Quantity:  1,
			},
			X: float64(i * 110), Y: 10,
		}
	}

	result := model.SheetNestingResult{
		Layouts: []model.SheetLayout{
			{
				Sheet: model.SheetCapacity{
					ID: "s1", Label: "Large Plate", Length: 3000, Width: 5000,
					Thickness: 5, Grade: "S235", Quantity: 1,
				},
				Parts: parts,
			},
		},
	}

	err := ExportLabels(path, result)
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}
