package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/engine"
	"github.com/piwi3910/RackPlan/internal/model"
)

// LabelInfo holds the data encoded into each asset label's QR code.
type LabelInfo struct {
	ID     string `json:"id"`
	Rack   string `json:"rack"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Range  string `json:"range"`
	Face   string `json:"face"`
	Bay    string `json:"bay,omitempty"`
	Colour string `json:"-"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
	stripeWidth     = 1.5  // mm colour stripe on the left edge
)

// ExportLabels generates a PDF of QR-coded asset labels, one for every
// placement and every bay child in the layout. Labels are laid out on a
// standard label sheet (Avery 5160, 3 columns x 10 rows on US Letter).
func ExportLabels(path string, layout model.Layout) error {
	labels := CollectLabelInfos(layout)
	if len(labels) == 0 {
		return fmt.Errorf("no devices placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	c := parseHex(info.Colour)
	pdf.SetFillColor(c.R, c.G, c.B)
	pdf.Rect(x, y, stripeWidth, labelHeight, "F")

	qrPNG, err := encodeQR(info)
	if err != nil {
		return err
	}

	// IDs are unique per layout so they double as image names.
	imgName := "qr_" + info.ID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + stripeWidth + labelPadding
	textW := labelWidth - qrSize - stripeWidth - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.Name, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	where := fmt.Sprintf("%s  %s", info.Range, info.Face)
	if info.Bay != "" {
		where = fmt.Sprintf("%s  bay %s", info.Range, info.Bay)
	}
	pdf.CellFormat(textW, 3.5, where, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, truncate(pdf, info.Type, textW), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, truncate(pdf, info.Rack, textW), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// encodeQR renders info as a PNG QR code holding its JSON form.
func encodeQR(info LabelInfo) ([]byte, error) {
	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal label info: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// CollectLabelInfos extracts label information for every placement in the
// layout, bottom-up, with each container's children following it.
// Placements whose type cannot be resolved are skipped.
func CollectLabelInfos(layout model.Layout) []LabelInfo {
	cat := catalog.NewLibrary(layout.DeviceTypes)
	var labels []LabelInfo
	for _, it := range engine.Project(layout.Rack, cat) {
		name := it.Device.Name
		if name == "" {
			name = it.Type.DisplayName()
		}
		labels = append(labels, LabelInfo{
			ID:     it.Device.ID,
			Rack:   layout.Rack.Name,
			Name:   name,
			Type:   it.Type.Slug,
			Range:  it.Range,
			Face:   string(it.Face),
			Colour: it.Colour,
		})
		for _, c := range it.Device.Children {
			childName := c.Name
			if childName == "" {
				childName = c.DeviceType
			}
			labels = append(labels, LabelInfo{
				ID:     c.ID,
				Rack:   layout.Rack.Name,
				Name:   childName,
				Type:   c.DeviceType,
				Range:  it.Range,
				Face:   string(it.Face),
				Bay:    c.SlotID,
				Colour: childColour(c, layout.DeviceTypes),
			})
		}
	}
	return labels
}
