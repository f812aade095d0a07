// Package export renders a designer workbook to an XLSX file. Only values,
// column titles, bold styling and comments carry over; formula evaluation
// stays with the client grid widget, so formulas are written verbatim.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-fc/meridian/internal/grid"
)

// WriteWorkbook renders every sheet of the workbook into a new XLSX file.
func WriteWorkbook(wb *grid.Workbook) (*excelize.File, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("export: empty workbook")
	}

	f := excelize.NewFile()
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export: new style: %w", err)
	}

	for i, sheet := range wb.Sheets {
		name := sheetName(sheet, i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("export: rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("export: new sheet: %w", err)
			}
		}
		if err := writeSheet(f, name, sheet, boldStyle); err != nil {
			return nil, err
		}
	}

	if idx, err := f.GetSheetIndex(sheetName(wb.Active(), wb.ActiveSheet)); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// WorkbookBytes renders the workbook and returns the raw XLSX payload.
func WorkbookBytes(wb *grid.Workbook) ([]byte, error) {
	f, err := WriteWorkbook(wb)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, sheet *grid.Sheet, boldStyle int) error {
	if sheet == nil {
		return nil
	}

	// Titled columns become a header row above the data.
	headerRows := 0
	if hasTitles(sheet.Columns) {
		headerRows = 1
		for col, def := range sheet.Columns {
			if def.Title == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return fmt.Errorf("export: cell name: %w", err)
			}
			if err := f.SetCellValue(name, cell, def.Title); err != nil {
				return fmt.Errorf("export: set header: %w", err)
			}
			if err := f.SetCellStyle(name, cell, cell, boldStyle); err != nil {
				return fmt.Errorf("export: style header: %w", err)
			}
		}
	}

	for row, cells := range sheet.Data {
		for col, value := range cells {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+1+headerRows)
			if err != nil {
				return fmt.Errorf("export: cell name: %w", err)
			}
			if formula, ok := sheet.Formulas[grid.Coord{Row: row, Col: col}.Key()]; ok {
				if err := f.SetCellFormula(name, cell, formula); err != nil {
					return fmt.Errorf("export: set formula: %w", err)
				}
				continue
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("export: set cell: %w", err)
			}
		}
	}

	for key, style := range sheet.Styles {
		if !strings.Contains(style, "bold") {
			continue
		}
		c, ok := grid.ParseKey(key)
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1+headerRows)
		if err != nil {
			continue
		}
		if err := f.SetCellStyle(name, cell, cell, boldStyle); err != nil {
			return fmt.Errorf("export: set style: %w", err)
		}
	}

	for key, comment := range sheet.Comments {
		c, ok := grid.ParseKey(key)
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1+headerRows)
		if err != nil {
			continue
		}
		if err := f.AddComment(name, excelize.Comment{
			Cell:      cell,
			Author:    "Meridian",
			Paragraph: []excelize.RichTextRun{{Text: comment}},
		}); err != nil {
			return fmt.Errorf("export: add comment: %w", err)
		}
	}

	return writeFooter(f, name, sheet, headerRows)
}

// writeFooter appends a grand-total line under the data so exported files
// are readable standalone.
func writeFooter(f *excelize.File, name string, sheet *grid.Sheet, headerRows int) error {
	total := 0.0
	count := 0
	for _, cells := range sheet.Data {
		for _, value := range cells {
			if n, ok := value.(float64); ok {
				total += n
				count++
			}
		}
	}
	if count == 0 {
		return nil
	}
	printer := message.NewPrinter(language.English)
	cell, err := excelize.CoordinatesToCellName(1, len(sheet.Data)+headerRows+2)
	if err != nil {
		return fmt.Errorf("export: footer cell: %w", err)
	}
	footer := printer.Sprintf("Total across %d numeric cells: %.2f", count, total)
	if err := f.SetCellValue(name, cell, footer); err != nil {
		return fmt.Errorf("export: set footer: %w", err)
	}
	return nil
}

func hasTitles(columns []grid.ColumnDef) bool {
	for _, def := range columns {
		if def.Title != "" {
			return true
		}
	}
	return false
}

func sheetName(sheet *grid.Sheet, idx int) string {
	if sheet == nil || strings.TrimSpace(sheet.Name) == "" {
		return fmt.Sprintf("Sheet%d", idx+1)
	}
	// Excel limits sheet names to 31 characters.
	name := sheet.Name
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
