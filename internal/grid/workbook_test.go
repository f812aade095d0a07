package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookKeepsAtLeastOneSheet(t *testing.T) {
	wb := NewWorkbook()
	require.Len(t, wb.Sheets, 1)

	err := wb.RemoveSheet(0)
	assert.ErrorIs(t, err, ErrLastSheet)

	wb.AddSheet("Second")
	assert.Equal(t, 1, wb.ActiveSheet)

	require.NoError(t, wb.RemoveSheet(1))
	assert.Equal(t, 0, wb.ActiveSheet)
	assert.NotNil(t, wb.Active())
}

func TestWorkbookActiveIndexStaysValid(t *testing.T) {
	wb := NewWorkbook()
	wb.AddSheet("Second")
	wb.AddSheet("Third")
	require.NoError(t, wb.SelectSheet(2))

	require.NoError(t, wb.RemoveSheet(0))
	assert.Equal(t, 1, wb.ActiveSheet)
	assert.Equal(t, "Third", wb.Active().Name)

	assert.ErrorIs(t, wb.SelectSheet(7), ErrSheetOutOfRange)
}

func TestSheetGrowsOnDemand(t *testing.T) {
	sheet := NewSheet("grow")
	sheet.SetValue(40, 12, "far")
	assert.Equal(t, "far", sheet.Text(40, 12))
	assert.GreaterOrEqual(t, sheet.RowCount(), 41)
	assert.GreaterOrEqual(t, len(sheet.Columns), 13)
}

func TestSheetRemoveRowShiftsMetadata(t *testing.T) {
	sheet := NewSheet("meta")
	sheet.SetValue(1, 0, "a")
	sheet.SetValue(2, 0, "b")
	sheet.SetStyle(2, 0, "bold")
	sheet.SetComment(2, 0, "note")
	sheet.SetFormula(3, 1, "=SUM(A1:A2)")

	sheet.RemoveRow(1)

	assert.Equal(t, "b", sheet.Text(1, 0))
	assert.Equal(t, "bold", sheet.Styles[Coord{Row: 1, Col: 0}.Key()])
	assert.Equal(t, "note", sheet.Comments[Coord{Row: 1, Col: 0}.Key()])
	assert.Equal(t, "=SUM(A1:A2)", sheet.Formulas[Coord{Row: 2, Col: 1}.Key()])
}

func TestCoordKeyRoundTrip(t *testing.T) {
	c := Coord{Row: 12, Col: 3}
	parsed, ok := ParseKey(c.Key())
	require.True(t, ok)
	assert.Equal(t, c, parsed)

	_, ok = ParseKey("nonsense")
	assert.False(t, ok)
	_, ok = ParseKey("1_x")
	assert.False(t, ok)
}

func TestWorkbookJSONRoundTripPreservesBindings(t *testing.T) {
	wb := NewWorkbook()
	sheet := wb.Active()
	sheet.SetValue(1, 0, "1000")
	sheet.Bindings.SetRow(1, Binding{Type: "account", Code: "1000", Name: "Cash"})
	sheet.Bindings.SetColumn(2, Binding{Type: "entity", Code: "ENT01"})
	sheet.Bindings.SetCell(Coord{Row: 1, Col: 2}, Binding{Type: "account", Code: "1000"})

	raw, err := json.Marshal(wb)
	require.NoError(t, err)

	var restored Workbook
	require.NoError(t, json.Unmarshal(raw, &restored))

	b, ok := restored.Active().Bindings.Row(1)
	require.True(t, ok)
	assert.Equal(t, "Cash", b.Name)
	_, ok = restored.Active().Bindings.Column(2)
	assert.True(t, ok)
	_, ok = restored.Active().Bindings.Cell(Coord{Row: 1, Col: 2})
	assert.True(t, ok)
}
