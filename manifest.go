package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"texpack/spritepacker"
)

// ManifestResult 是导入条目清单的结果。Errors 非空时清单不可用。
type ManifestResult struct {
	Items    []spritepacker.Item
	Errors   []string
	Warnings []string
}

// manifestColumns 记录各列所在的下标，-1 表示不存在。
type manifestColumns struct {
	Name     int
	Width    int
	Height   int
	Quantity int
}

// headerAliases 列名的别名（小写）
var headerAliases = map[string][]string{
	"name":     {"name", "label", "sprite", "file", "filename", "item"},
	"width":    {"width", "w"},
	"height":   {"height", "h"},
	"quantity": {"quantity", "qty", "count"},
}

// detectDelimiter 依次尝试逗号、分号、制表符和竖线，选列数最一致的那个。
func detectDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}
		score := 0
		for _, row := range records {
			if len(row) == len(records[0]) {
				score++
			}
		}
		if weighted := score*10 + len(records[0]); weighted > bestScore {
			best, bestScore = delim, weighted
		}
	}
	return best
}

// detectColumns 根据表头识别列；没有表头时按 名称,宽,高,数量 的位置处理。
func detectColumns(row []string) (manifestColumns, bool) {
	cols := manifestColumns{Name: -1, Width: -1, Height: -1, Quantity: -1}
	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "name":
					if cols.Name == -1 {
						cols.Name = i
					}
				case "width":
					if cols.Width == -1 {
						cols.Width = i
					}
				case "height":
					if cols.Height == -1 {
						cols.Height = i
					}
				case "quantity":
					if cols.Quantity == -1 {
						cols.Quantity = i
					}
				}
			}
		}
	}
	if !isHeader {
		return manifestColumns{Name: 0, Width: 1, Height: 2, Quantity: 3}, false
	}
	return cols, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDimension(row []string, idx int, what, rowLabel string) (int, string) {
	s := cell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: 缺少%s", rowLabel, what)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Sprintf("%s: 无效的%s '%s'", rowLabel, what, s)
	}
	if v <= 0 {
		return 0, fmt.Sprintf("%s: %s必须为正数", rowLabel, what)
	}
	return v, ""
}

// ImportManifest 按扩展名导入 CSV 或 Excel 清单。
func ImportManifest(path string) ManifestResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ImportManifestExcel(path)
	default:
		return ImportManifestCSV(path)
	}
}

// ImportManifestCSV 导入 CSV 清单，自动识别分隔符和表头。
func ImportManifestCSV(path string) ManifestResult {
	var result ManifestResult
	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("无法打开清单: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "清单为空")
		return result
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("无法读取 CSV: %v", err))
		return result
	}
	return importRows(records, "Line")
}

// ImportManifestExcel 导入 Excel 清单的第一张工作表。
func ImportManifestExcel(path string) ManifestResult {
	var result ManifestResult
	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("无法打开 Excel 文件: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel 文件没有工作表")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("无法读取 Excel 数据: %v", err))
		return result
	}
	return importRows(rows, "Row")
}

func importRows(rows [][]string, rowPrefix string) ManifestResult {
	var result ManifestResult
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "清单为空")
		return result
	}

	cols, hasHeader := detectColumns(rows[0])
	start := 0
	if hasHeader {
		start = 1
		if cols.Width == -1 || cols.Height == -1 {
			result.Errors = append(result.Errors, "表头中缺少 width 或 height 列")
			return result
		}
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)

		name := cell(row, cols.Name)
		if name == "" {
			name = fmt.Sprintf("item_%d", len(result.Items))
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: 没有名称，使用 %s", rowLabel, name))
		}
		width, msg := parseDimension(row, cols.Width, "宽度", rowLabel)
		if msg != "" {
			result.Errors = append(result.Errors, msg)
			continue
		}
		height, msg := parseDimension(row, cols.Height, "高度", rowLabel)
		if msg != "" {
			result.Errors = append(result.Errors, msg)
			continue
		}
		qty := 1
		if cell(row, cols.Quantity) != "" {
			if qty, msg = parseDimension(row, cols.Quantity, "数量", rowLabel); msg != "" {
				result.Errors = append(result.Errors, msg)
				continue
			}
		}

		for k := 0; k < qty; k++ {
			item := spritepacker.Item{Name: name, Width: width, Height: height}
			if qty > 1 {
				item.Name = fmt.Sprintf("%s_%d", name, k)
			}
			result.Items = append(result.Items, item)
		}
	}
	return result
}
