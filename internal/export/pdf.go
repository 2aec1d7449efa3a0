// Package export renders rack layouts to printable files: a PDF elevation
// of both rack faces and sheets of QR-coded asset labels. Both consume the
// engine's render projection and never modify the layout.
package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/engine"
	"github.com/piwi3910/RackPlan/internal/model"
)

// rgb is a fill colour for a device block.
type rgb struct {
	R, G, B int
}

// fallbackColour is used when a device colour cannot be parsed.
var fallbackColour = rgb{R: 158, G: 158, B: 158}

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	maxUnitH     = 7.0  // mm per U on short racks
	railWidth    = 8.0  // mm for the U-number rail
	faceGap      = 20.0 // mm between the front and rear elevations
)

// ExportPDF writes an elevation drawing of the layout's rack to path: the
// front and rear faces side by side on the first page, followed by a device
// list.
func ExportPDF(path string, layout model.Layout) error {
	if layout.Rack.Height < 1 {
		return fmt.Errorf("rack has no height to export")
	}
	cat := catalog.NewLibrary(layout.DeviceTypes)
	items := engine.Project(layout.Rack, cat)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderElevationPage(pdf, layout, items, engine.FaceOccupancy(layout.Rack, cat))

	pdf.AddPage()
	renderDeviceListPage(pdf, layout, items)

	return pdf.OutputFileAndClose(path)
}

// elevation holds the geometry shared by both face drawings.
type elevation struct {
	top    float64 // y of the top edge of the rack
	unitH  float64 // mm per U
	width  float64 // mm for the mounting area
	limit  float64 // U number just above the top unit
	base   float64 // lowest U number
	height int
}

// y returns the page y coordinate of U position u.
func (e elevation) y(u float64) float64 {
	return e.top + (e.limit-u)*e.unitH
}

func renderElevationPage(pdf *fpdf.Fpdf, layout model.Layout, items []engine.RenderItem, occ engine.Occupancy) {
	rack := layout.Rack

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%dU, %d\")", rack.Name, rack.Height, rack.Width)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Devices: %d | Front: %gU used | Rear: %gU used | Free front: %gU",
		len(items), occ.Front, occ.Rear, float64(occ.Total)-occ.Front)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - 10
	faceWidth := (drawWidth-faceGap)/2 - 2*railWidth

	e := elevation{
		top:    drawAreaTop + 6,
		unitH:  math.Min(maxUnitH, (drawHeight-6)/float64(rack.Height)),
		width:  faceWidth,
		limit:  rack.Limit(),
		base:   rack.BaseUnit(),
		height: rack.Height,
	}

	leftX := marginLeft + railWidth
	rightX := leftX + faceWidth + 2*railWidth + faceGap
	drawFace(pdf, e, leftX, "FRONT", model.FaceFront, items, layout.DeviceTypes)
	drawFace(pdf, e, rightX, "REAR", model.FaceRear, items, layout.DeviceTypes)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(drawWidth, 4, "Generated by RackPlan", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawFace renders one face of the rack: rails with U numbers, empty unit
// outlines and every device visible from that face.
func drawFace(pdf *fpdf.Fpdf, e elevation, x float64, title string, face model.Face, items []engine.RenderItem, types []model.DeviceType) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(x, e.top-6)
	pdf.CellFormat(e.width, 5, title, "", 0, "C", false, 0, "")

	// Rails
	pdf.SetFillColor(60, 60, 60)
	pdf.Rect(x-railWidth, e.top, railWidth, float64(e.height)*e.unitH, "F")
	pdf.Rect(x+e.width, e.top, railWidth, float64(e.height)*e.unitH, "F")

	// Empty units and U numbers
	pdf.SetFont("Helvetica", "", unitFontSize(e.unitH))
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(210, 210, 210)
	pdf.SetLineWidth(0.1)
	for i := 0; i < e.height; i++ {
		u := e.base + float64(i)
		y := e.y(u + 1)
		pdf.Rect(x, y, e.width, e.unitH, "D")
		label := strconv.Itoa(int(u))
		pdf.SetXY(x-railWidth, y)
		pdf.CellFormat(railWidth, e.unitH, label, "", 0, "C", false, 0, "")
		pdf.SetXY(x+e.width, y)
		pdf.CellFormat(railWidth, e.unitH, label, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)

	for _, it := range items {
		if !engine.FacesIntersect(it.Face, face) {
			continue
		}
		drawDevice(pdf, e, x, it, types)
	}
}

func drawDevice(pdf *fpdf.Fpdf, e elevation, x float64, it engine.RenderItem, types []model.DeviceType) {
	top := e.y(it.Device.Position + it.Type.UHeight)
	h := it.Type.UHeight * e.unitH

	c := parseHex(it.Colour)
	pdf.SetFillColor(c.R, c.G, c.B)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, top, e.width, h, "FD")

	if it.Type.IsContainer() {
		drawBays(pdf, e, x, top, it, types)
	}

	if h < 3 {
		return
	}
	name := it.Device.Name
	if name == "" {
		name = it.Type.DisplayName()
	}
	pdf.SetFont("Helvetica", "", labelFontSize(e.width, h))
	pdf.SetTextColor(textColour(c))
	name = truncate(pdf, name, e.width-2)
	pdf.SetXY(x+1, top)
	pdf.CellFormat(e.width-2, math.Min(h, e.unitH), name, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawBays outlines a container's slots and fills the occupied ones.
func drawBays(pdf *fpdf.Fpdf, e elevation, x, top float64, it engine.RenderItem, types []model.DeviceType) {
	parentH := it.Type.UHeight * e.unitH
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(80, 80, 80)

	for _, slot := range it.Type.Slots {
		frac := slot.WidthFraction
		if frac == 0 {
			frac = 1
		}
		sh := parentH
		if slot.HeightUnits > 0 {
			sh = slot.HeightUnits * e.unitH
		}
		sx := x + float64(slot.Position.Col)*frac*e.width
		sy := top + parentH - float64(slot.Position.Row+1)*sh
		sw := frac * e.width

		child := it.Device.ChildInSlot(slot.ID)
		if child == nil {
			pdf.Rect(sx, sy, sw, sh, "D")
			continue
		}
		col := parseHex(childColour(*child, types))
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(sx+0.5, sy+0.5, sw-1, sh-1, "FD")
	}
}

func childColour(c model.ChildDevice, types []model.DeviceType) string {
	for _, dt := range types {
		if dt.Slug == c.DeviceType {
			return engine.EffectiveColour(model.PlacedDevice{}, dt)
		}
	}
	return model.CategoryOther.Colour()
}

func renderDeviceListPage(pdf *fpdf.Fpdf, layout model.Layout, items []engine.RenderItem) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Device List", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	colWidths := []float64{22, 16, 50, 52, 40}
	headers := []string{"Units", "Face", "Name", "Type", "ID"}

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, h := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	if len(items) == 0 {
		pdf.SetXY(marginLeft, y+2)
		pdf.CellFormat(100, 6, "No devices placed.", "", 0, "L", false, 0, "")
		return
	}

	row := 0
	addRow := func(cells []string) {
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
			header()
		}
		if row%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos := marginLeft
		for j, cell := range cells {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, truncate(pdf, cell, colWidths[j]-2), "1", 0, "L", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
		row++
	}

	// Top of the rack first, as the list is read alongside the drawing.
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		name := it.Device.Name
		if name == "" {
			name = it.Type.DisplayName()
		}
		addRow([]string{it.Range, string(it.Face), name, it.Type.Slug, it.Device.ID})
		for _, c := range it.Device.Children {
			addRow([]string{"  bay " + c.SlotID, "", c.Name, c.DeviceType, c.ID})
		}
	}
}

// parseHex converts "#rrggbb" to an rgb value.
func parseHex(s string) rgb {
	if len(s) != 7 || s[0] != '#' {
		return fallbackColour
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return fallbackColour
	}
	return rgb{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// textColour picks black or white text for readability on c.
func textColour(c rgb) (int, int, int) {
	luma := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if luma > 140 {
		return 0, 0, 0
	}
	return 255, 255, 255
}

// truncate shortens s with an ellipsis until it fits in width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 12:
		return 8
	case minDim > 5:
		return 7
	default:
		return 5
	}
}

func unitFontSize(unitH float64) float64 {
	if unitH >= 5 {
		return 6
	}
	return 4
}
