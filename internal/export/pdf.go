// Package export writes nesting results to shop-floor documents:
// PDF layout drawings, Excel cutting lists, and QR-coded part labels.
package export

import (
	"fmt"
	"math"

	"github.com/fabworks/nestcut/internal/model"
	"github.com/go-pdf/fpdf"
)

// partColor represents an RGB color for a placed part.
type partColor struct {
	R, G, B int
}

var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0

	barRowHeight = 14.0
	barGap       = 8.0
)

// ExportPDF generates a PDF document for a sheet nesting result. Each
// layout is rendered on its own page with a scaled drawing, followed by
// a summary page with waste and weight statistics.
func ExportPDF(path string, result model.SheetNestingResult, settings model.SheetSettings, densities model.DensityTable) error {
	if len(result.Layouts) == 0 {
		return fmt.Errorf("no layouts to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, layout := range result.Layouts {
		pdf.AddPage()
		renderLayoutPage(pdf, layout, settings, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, settings, densities)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws a single sheet layout on the current PDF page.
// The sheet width runs along the page's horizontal axis and the sheet
// length down the vertical axis, matching packer coordinates.
func renderLayoutPage(pdf *fpdf.Fpdf, layout model.SheetLayout, settings model.SheetSettings, sheetNum int) {
	sheet := layout.Sheet

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d: %s %.0fx%.0fx%.0f mm %s",
		sheetNum, sheet.Label, sheet.Length, sheet.Width, sheet.Thickness, sheet.Grade)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Parts: %d | Used area: %.0f mm2 | Waste: %.0f mm2 (%.1f%%)",
		len(layout.Parts), layout.UsedArea(), layout.WasteArea(), layout.WastePercentage())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scaleX := drawWidth / sheet.Width
	scaleY := drawHeight / sheet.Length
	scale := math.Min(scaleX, scaleY)

	canvasW := sheet.Width * scale
	canvasH := sheet.Length * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Sheet background (steel grey)
	pdf.SetFillColor(200, 205, 210)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawEdgeClearance(pdf, sheet, settings, scale, offsetX, offsetY, canvasW, canvasH)

	for i, p := range layout.Parts {
		col := partColors[i%len(partColors)]
		pw := p.ExtentH() * scale
		ph := p.ExtentV() * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Part label only if the rectangle is large enough
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := p.Part.Label
			dims := fmt.Sprintf("%.0fx%.0f", p.Part.Length, p.Part.Width)

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, sheet, offsetX, offsetY, canvasW, canvasH)
	drawPartsLegend(pdf, layout, offsetY+canvasH+5)
}

// drawEdgeClearance hatches the border strip that the packer keeps free
// of parts.
func drawEdgeClearance(pdf *fpdf.Fpdf, sheet model.SheetCapacity, settings model.SheetSettings, scale, offsetX, offsetY, canvasW, canvasH float64) {
	if settings.EdgeClearance <= 0 {
		return
	}

	ec := settings.EdgeClearance * scale
	if 2*ec >= canvasW || 2*ec >= canvasH {
		return
	}

	zones := [][4]float64{
		{offsetX, offsetY, canvasW, ec},                    // top
		{offsetX, offsetY + canvasH - ec, canvasW, ec},     // bottom
		{offsetX, offsetY + ec, ec, canvasH - 2*ec},        // left
		{offsetX + canvasW - ec, offsetY + ec, ec, canvasH - 2*ec}, // right
	}

	pdf.SetFillColor(255, 200, 200)
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)
	for _, z := range zones {
		pdf.Rect(z[0], z[1], z[2], z[3], "F")
		drawHatchPattern(pdf, z[0], z[1], z[2], z[3])
	}
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark
// keep-out strips.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and length labels outside the
// sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sheet model.SheetCapacity, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", sheet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%.0f mm", sheet.Length)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX-3-lLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPartsLegend renders a compact legend of placed parts at the bottom
// of the layout page.
func drawPartsLegend(pdf *fpdf.Fpdf, layout model.SheetLayout, startY float64) {
	if len(layout.Parts) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Parts placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range layout.Parts {
		col := partColors[i%len(partColors)]
		label := fmt.Sprintf("%s (%.0fx%.0f)", p.Part.Label, p.Part.Length, p.Part.Width)
		if p.Rotated {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.SheetNestingResult, settings model.SheetSettings, densities model.DensityTable) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Nesting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Sheets Used", fmt.Sprintf("%d", len(result.Layouts))},
		{"Parts Placed", fmt.Sprintf("%d", countPlaced(result))},
		{"Unplaced Parts", fmt.Sprintf("%d", len(result.UnplacedParts))},
		{"Overall Waste", fmt.Sprintf("%.1f%%", result.TotalWastePercentage())},
		{"Placed Weight", fmt.Sprintf("%.1f kg", result.TotalUsedWeight(densities))},
		{"Waste Weight", fmt.Sprintf("%.1f kg", result.TotalWasteWeight(densities))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sheet Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 55, 45, 30, 25, 30, 55}
	headers := []string{"Sheet", "Stock", "Dimensions", "Grade", "Parts", "Waste", "Used / Total Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, layout := range result.Layouts {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			layout.Sheet.Label,
			fmt.Sprintf("%.0f x %.0f mm", layout.Sheet.Length, layout.Sheet.Width),
			layout.Sheet.Grade,
			fmt.Sprintf("%d", len(layout.Parts)),
			fmt.Sprintf("%.1f%%", layout.WastePercentage()),
			fmt.Sprintf("%.0f / %.0f mm2", layout.UsedArea(), layout.Sheet.Area()),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(result.UnplacedParts) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Parts", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, part := range result.UnplacedParts {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %.0f x %.0f x %.0f mm %s (qty: %d)",
				part.Label, part.Length, part.Width, part.Thickness, part.Grade, part.Quantity)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Placement Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Edge Clearance", fmt.Sprintf("%.1f mm", settings.EdgeClearance)},
		{"Part Clearance", fmt.Sprintf("%.1f mm", settings.PartClearance)},
		{"Rotation", onOff(settings.AllowRotation)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by NestCut", "", 0, "C", false, 0, "")
}

// ExportLinearPDF generates a PDF for a bar nesting result. Bars are
// drawn as horizontal strips with their cut segments, followed by the
// waste totals.
func ExportLinearPDF(path string, result model.LinearNestingResult, settings model.LinearSettings) error {
	if len(result.Layouts) == 0 {
		return fmt.Errorf("no layouts to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Bar Cutting Plan", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Bars: %d | Total waste: %.0f mm (%.1f%%) | Stock length: %.0f mm",
		result.StocksUsed, result.TotalWaste(), result.TotalWastePercentage(), settings.StockLength)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	y := drawAreaTop
	for i, layout := range result.Layouts {
		if y+barRowHeight+barGap > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
		}
		renderBar(pdf, layout, i+1, y)
		y += barRowHeight + barGap
	}

	if len(result.UnplacedParts) > 0 {
		if y+10 > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 6, "WARNING: Unplaced Cuts", "", 0, "L", false, 0, "")
		y += 7

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, part := range result.UnplacedParts {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s (%s): %.0f mm (qty: %d)", part.Label, part.RawMaterial, part.Length, part.Quantity)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderBar draws one stock bar as a horizontal strip with its cuts.
func renderBar(pdf *fpdf.Fpdf, layout model.StockLayout, barNum int, y float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	title := fmt.Sprintf("Bar %d: %s (waste %.0f mm)", barNum, layout.RawMaterial, layout.WasteLength())
	pdf.CellFormat(120, 4, title, "", 0, "L", false, 0, "")

	barY := y + 5
	barW := pageWidth - marginLeft - marginRight
	scale := barW / layout.StockLength

	pdf.SetFillColor(200, 205, 210)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(marginLeft, barY, barW, barRowHeight-5, "FD")

	x := marginLeft
	for i, cut := range layout.Cuts {
		col := partColors[i%len(partColors)]
		cw := cut.EffectiveLength * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x, barY, cw, barRowHeight-5, "FD")

		label := fmt.Sprintf("%s %.0f", cut.ID, cut.Length)
		pdf.SetFont("Helvetica", "", 6)
		if pdf.GetStringWidth(label) < cw-1 {
			pdf.SetXY(x, barY+(barRowHeight-5)/2-1.5)
			pdf.CellFormat(cw, 3, label, "", 0, "C", false, 0, "")
		}

		x += cw
	}
}

func onOff(b bool) string {
	if b {
		return "allowed"
	}
	return "disabled"
}

// labelFontSize returns an appropriate font size based on the rectangle
// dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// countPlaced returns the total number of placed parts across all layouts.
func countPlaced(result model.SheetNestingResult) int {
	total := 0
	for _, l := range result.Layouts {
		total += len(l.Parts)
	}
	return total
}
