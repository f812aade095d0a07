package grid

import "errors"

// ErrLastSheet indicates an attempt to remove the only remaining sheet.
var ErrLastSheet = errors.New("grid: workbook must keep at least one sheet")

// ErrSheetOutOfRange indicates a sheet index outside the workbook.
var ErrSheetOutOfRange = errors.New("grid: sheet index out of range")

// Workbook is the multi-sheet container owned by a single designer
// session. It is not safe for concurrent use; the owning session
// serialises access.
type Workbook struct {
	Sheets      []*Sheet `json:"sheets"`
	ActiveSheet int      `json:"activeSheetIndex"`
}

// NewWorkbook creates a workbook with one default sheet.
func NewWorkbook() *Workbook {
	return &Workbook{Sheets: []*Sheet{NewSheet("Sheet 1")}}
}

// Active returns the currently selected sheet.
func (w *Workbook) Active() *Sheet {
	if w == nil || len(w.Sheets) == 0 {
		return nil
	}
	if w.ActiveSheet < 0 || w.ActiveSheet >= len(w.Sheets) {
		return w.Sheets[0]
	}
	return w.Sheets[w.ActiveSheet]
}

// AddSheet appends a new sheet and makes it active.
func (w *Workbook) AddSheet(name string) *Sheet {
	if w == nil {
		return nil
	}
	sheet := NewSheet(name)
	w.Sheets = append(w.Sheets, sheet)
	w.ActiveSheet = len(w.Sheets) - 1
	return sheet
}

// AppendSheet appends an existing sheet and makes it active. Report
// execution uses this to attach its result sheet.
func (w *Workbook) AppendSheet(sheet *Sheet) {
	if w == nil || sheet == nil {
		return
	}
	w.Sheets = append(w.Sheets, sheet)
	w.ActiveSheet = len(w.Sheets) - 1
}

// SelectSheet switches the active sheet.
func (w *Workbook) SelectSheet(idx int) error {
	if w == nil || idx < 0 || idx >= len(w.Sheets) {
		return ErrSheetOutOfRange
	}
	w.ActiveSheet = idx
	return nil
}

// RemoveSheet deletes a sheet, refusing to drop the last one. The active
// index is clamped so it always points at a valid sheet.
func (w *Workbook) RemoveSheet(idx int) error {
	if w == nil || idx < 0 || idx >= len(w.Sheets) {
		return ErrSheetOutOfRange
	}
	if len(w.Sheets) == 1 {
		return ErrLastSheet
	}
	w.Sheets = append(w.Sheets[:idx], w.Sheets[idx+1:]...)
	if w.ActiveSheet >= len(w.Sheets) {
		w.ActiveSheet = len(w.Sheets) - 1
	} else if w.ActiveSheet > idx {
		w.ActiveSheet--
	}
	return nil
}
