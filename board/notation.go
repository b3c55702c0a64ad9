package board

import (
	"fmt"

	"boardbot/types"
)

// Notation coordinate system:
// - Columns: a, b, c, ... (left to right)
// - Rows: 1..N counted from the bottom edge of the screen
//
// Gravity boards store row 0 at the bottom, so the row number is Row+1.
// Free boards store row 0 at the top and are inverted, as on a Go board.

// Notation renders cell as a short coordinate such as "d1" or "g7".
func Notation(cell types.Placement, v types.Variant) string {
	col := rune('a' + cell.Column)
	return fmt.Sprintf("%c%d", col, DisplayRow(cell.Row, v))
}

// DisplayRow returns the 1-based row label printed beside the board.
func DisplayRow(row int, v types.Variant) int {
	if v.Gravity {
		return row + 1
	}
	return v.Rows - row
}

// ScreenRow returns the screen line (0 = top) on which row is drawn.
func ScreenRow(row int, v types.Variant) int {
	if v.Gravity {
		return v.Rows - 1 - row
	}
	return row
}

// BoardRow is the inverse of ScreenRow.
func BoardRow(screenRow int, v types.Variant) int {
	if v.Gravity {
		return v.Rows - 1 - screenRow
	}
	return screenRow
}
