// Package board maps requested placements to concrete cells.
//
// None of the functions clamp coordinates. Callers reject out-of-bounds
// targets with InBounds before consulting the rest of the model.
package board

import "boardbot/types"

// NextOpenCell returns the landing cell for a piece dropped into column on a
// gravity board: one row above the highest piece already in that column.
func NextOpenCell(column int, placements []types.Placement) types.Placement {
	top := -1
	for _, p := range placements {
		if p.Column == column && p.Row > top {
			top = p.Row
		}
	}
	return types.Placement{Row: top + 1, Column: column}
}

// IsColumnFull reports whether column has no landing cell left.
func IsColumnFull(column int, placements []types.Placement, height int) bool {
	return NextOpenCell(column, placements).Row >= height
}

// IsCellOccupied reports whether cell is held by anyone.
func IsCellOccupied(cell types.Placement, placements []types.Placement) bool {
	for _, p := range placements {
		if p == cell {
			return true
		}
	}
	return false
}

// InBounds reports whether cell lies on a board of variant v.
func InBounds(cell types.Placement, v types.Variant) bool {
	return cell.Row >= 0 && cell.Row < v.Rows && cell.Column >= 0 && cell.Column < v.Columns
}

// ColumnInBounds reports whether column exists on a board of variant v.
func ColumnInBounds(column int, v types.Variant) bool {
	return column >= 0 && column < v.Columns
}

// IsBoardFull reports whether no further placement is possible.
func IsBoardFull(placements []types.Placement, v types.Variant) bool {
	if v.Gravity {
		for c := 0; c < v.Columns; c++ {
			if !IsColumnFull(c, placements, v.Rows) {
				return false
			}
		}
		return true
	}
	seen := make(map[types.Placement]struct{}, len(placements))
	for _, p := range placements {
		if InBounds(p, v) {
			seen[p] = struct{}{}
		}
	}
	return len(seen) >= v.Cells()
}

// Resolve turns a requested target into the cell it would occupy.
// On gravity boards only target.Column is used.
func Resolve(target types.Placement, placements []types.Placement, v types.Variant) (types.Placement, bool) {
	if v.Gravity {
		if !ColumnInBounds(target.Column, v) || IsColumnFull(target.Column, placements, v.Rows) {
			return types.Placement{}, false
		}
		return NextOpenCell(target.Column, placements), true
	}
	if !InBounds(target, v) || IsCellOccupied(target, placements) {
		return types.Placement{}, false
	}
	return target, true
}
