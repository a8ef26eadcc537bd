package writeback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetRows(rows ...[]interface{}) [][]interface{} { return rows }

func row(cells ...string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

func TestLocateRowFindsMatch(t *testing.T) {
	rows := sheetRows(
		row("Professional", "Date", "Time"),
		row("Dr. Priya", "Monday, Mar 3", "10:00 AM"),
		row("Dr. Arjun", "Tuesday, Mar 4", "11:00 AM"),
	)

	idx, res := locateRow(rows, "Dr. Arjun", "Tuesday, Mar 4", "11:00 AM")
	require.True(t, res.found)
	assert.Equal(t, 3, idx, "sheet rows are 1-indexed including the header")
}

func TestLocateRowMatchesCaseInsensitive(t *testing.T) {
	rows := sheetRows(
		row("Counsellor", "Session Date", "Time Slot"),
		row("  DR. PRIYA ", " monday, mar 3 ", "10:00 am"),
	)

	idx, res := locateRow(rows, "Dr. Priya", "Monday, Mar 3", "10:00 AM")
	require.True(t, res.found)
	assert.Equal(t, 2, idx)
}

func TestLocateRowWithoutProfessionalColumn(t *testing.T) {
	rows := sheetRows(
		row("Date", "Time"),
		row("Monday, Mar 3", "10:00 AM"),
	)

	// With no professional column, only date and time participate.
	idx, res := locateRow(rows, "General", "Monday, Mar 3", "10:00 AM")
	require.True(t, res.found)
	assert.Equal(t, 2, idx)
}

func TestLocateRowNotFound(t *testing.T) {
	rows := sheetRows(
		row("Professional", "Date", "Time"),
		row("Dr. Priya", "Monday, Mar 3", "10:00 AM"),
	)

	_, res := locateRow(rows, "Dr. Priya", "Monday, Mar 3", "2:00 PM")
	assert.False(t, res.found)
	assert.Contains(t, res.reason, "not found")
}

func TestLocateRowMissingTimeColumn(t *testing.T) {
	rows := sheetRows(
		row("Professional", "Date"),
		row("Dr. Priya", "Monday, Mar 3"),
	)

	_, res := locateRow(rows, "Dr. Priya", "Monday, Mar 3", "10:00 AM")
	assert.False(t, res.found)
	assert.Contains(t, res.reason, "Date/Time")
}

func TestRemoveSlotUnconfigured(t *testing.T) {
	c := NewClient(context.Background(), "", "", "")
	assert.False(t, c.Configured())

	res := c.RemoveSlot(context.Background(), "Dr. Priya", "Monday, Mar 3", "10:00 AM")
	assert.False(t, res.Removed)
	assert.Contains(t, res.Reason, "not configured")
}

func TestCellHelpers(t *testing.T) {
	r := row("a", "b")
	assert.Equal(t, "a", cellAt(r, 0))
	assert.Equal(t, "", cellAt(r, 5))
	assert.Equal(t, "", cellAt(r, -1))
	assert.Equal(t, "42", cellString(42))
}
