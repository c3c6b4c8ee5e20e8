package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
)

// A4 横向页面布局（毫米）。
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
)

// WritePDF 生成 PDF 报告：每个图集页面一页布局图，最后一页为汇总。
func WritePDF(w io.Writer, layout *Layout) error {
	if len(layout.Pages) == 0 {
		return fmt.Errorf("no pages to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle("texpack "+layout.Meta.BuildID, false)

	for i := range layout.Pages {
		pdf.AddPage()
		renderAtlasPage(pdf, &layout.Pages[i])
	}

	pdf.AddPage()
	renderSummaryPage(pdf, layout)

	return pdf.Output(w)
}

func renderAtlasPage(pdf *fpdf.Fpdf, page *PageInfo) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%d x %d)", page.AtlasName, page.TotalSize.W, page.TotalSize.H)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Sprites: %d | Free rects: %d | Bin: %d x %d | Occupancy: %.1f%%",
		len(page.Sprites), len(page.Free), page.BinSize.W, page.BinSize.H, page.Occupancy*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	if page.TotalSize.W <= 0 || page.TotalSize.H <= 0 {
		return
	}
	drawW := pageWidth - marginLeft - marginRight
	drawH := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawW/float64(page.TotalSize.W), drawH/float64(page.TotalSize.H))
	canvasW := float64(page.TotalSize.W) * scale
	canvasH := float64(page.TotalSize.H) * scale
	offsetX := marginLeft + (drawW-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(230, 230, 230)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, s := range page.Sprites {
		col := palette[i%len(palette)]
		px := offsetX + float64(s.Region.X)*scale
		py := offsetY + float64(s.Region.Y)*scale
		pw := float64(s.Region.W) * scale
		ph := float64(s.Region.H) * scale

		pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 5 {
			pdf.SetFont("Helvetica", "", 6)
			pdf.SetTextColor(0, 0, 0)
			label := s.Filename
			if s.Rotated {
				label += " (R)"
			}
			for len(label) > 1 && pdf.GetStringWidth(label) > pw-1 {
				label = label[:len(label)-1]
			}
			pdf.SetXY(px, py+ph/2-2)
			pdf.CellFormat(pw, 4, label, "", 0, "C", false, 0, "")
		}
	}

	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	for _, f := range page.Free {
		x := math.Min(float64(f.X), float64(page.TotalSize.W))
		y := math.Min(float64(f.Y), float64(page.TotalSize.H))
		w := math.Min(float64(f.X+f.W), float64(page.TotalSize.W)) - x
		h := math.Min(float64(f.Y+f.H), float64(page.TotalSize.H)) - y
		if w <= 0 || h <= 0 {
			continue
		}
		pdf.Rect(offsetX+x*scale, offsetY+y*scale, w*scale, h*scale, "D")
	}
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetTextColor(0, 0, 0)
}

func renderSummaryPage(pdf *fpdf.Fpdf, layout *Layout) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Summary", "", 0, "L", false, 0, "")

	lines := []string{
		"Build: " + layout.Meta.BuildID,
		"Created: " + layout.Meta.Timestamp,
		"Heuristic: " + layout.Meta.Heuristic,
		fmt.Sprintf("Pages: %d", len(layout.Pages)),
		fmt.Sprintf("Sprites: %d", layout.SpriteCount()),
		fmt.Sprintf("Occupancy: %.1f%%", layout.Meta.Occupancy*100),
	}
	pdf.SetFont("Helvetica", "", 11)
	y := marginTop + headerHeight + 4
	for _, line := range lines {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, line, "", 0, "L", false, 0, "")
		y += 7
	}

	y += 4
	pdf.SetFont("Helvetica", "B", 10)
	headers := []string{"Page", "Size", "Sprites", "Occupancy"}
	widths := []float64{80, 50, 30, 30}
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 6, h, "B", 0, "L", false, 0, "")
		x += widths[i]
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, page := range layout.Pages {
		y += 6
		if y > pageHeight-marginBottom {
			break
		}
		row := []string{
			page.AtlasName,
			fmt.Sprintf("%d x %d", page.TotalSize.W, page.TotalSize.H),
			fmt.Sprintf("%d", len(page.Sprites)),
			fmt.Sprintf("%.1f%%", page.Occupancy*100),
		}
		x = marginLeft
		for i, cell := range row {
			pdf.SetXY(x, y)
			pdf.CellFormat(widths[i], 6, cell, "", 0, "L", false, 0, "")
			x += widths[i]
		}
	}
}
