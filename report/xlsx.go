package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	spritesSheet = "Sprites"
	pagesSheet   = "Pages"
)

// WriteXLSX 把所有精灵的位置写成 Excel 表格，另附一张页面汇总表。
func WriteXLSX(w io.Writer, layout *Layout) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), spritesSheet); err != nil {
		return err
	}
	header := []interface{}{"Page", "Name", "X", "Y", "Width", "Height", "Rotated", "Trimmed"}
	if err := f.SetSheetRow(spritesSheet, "A1", &header); err != nil {
		return err
	}
	row := 2
	for _, page := range layout.Pages {
		for _, s := range page.Sprites {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := []interface{}{page.AtlasName, s.Filename, s.Region.X, s.Region.Y, s.Region.W, s.Region.H, s.Rotated, s.Trimmed}
			if err := f.SetSheetRow(spritesSheet, cell, &values); err != nil {
				return fmt.Errorf("row %d: %w", row, err)
			}
			row++
		}
	}

	if _, err := f.NewSheet(pagesSheet); err != nil {
		return err
	}
	header = []interface{}{"Page", "Width", "Height", "Sprites", "Free rects", "Occupancy"}
	if err := f.SetSheetRow(pagesSheet, "A1", &header); err != nil {
		return err
	}
	for i, page := range layout.Pages {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{page.AtlasName, page.TotalSize.W, page.TotalSize.H, len(page.Sprites), len(page.Free), page.Occupancy}
		if err := f.SetSheetRow(pagesSheet, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
