package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardbot/types"
)

func p(row, col int) types.Placement {
	return types.Placement{Row: row, Column: col}
}

func TestNextOpenCell(t *testing.T) {
	tests := []struct {
		name       string
		column     int
		placements []types.Placement
		want       types.Placement
	}{
		{"empty board", 3, nil, p(0, 3)},
		{"other columns ignored", 3, []types.Placement{p(0, 2), p(1, 2), p(0, 4)}, p(0, 3)},
		{"stacks on top", 3, []types.Placement{p(0, 3), p(1, 3)}, p(2, 3)},
		{"unordered input", 0, []types.Placement{p(2, 0), p(0, 0), p(1, 0)}, p(3, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextOpenCell(tt.column, tt.placements))
		})
	}
}

func TestNextOpenCellIsPure(t *testing.T) {
	placements := []types.Placement{p(0, 1), p(1, 1)}
	first := NextOpenCell(1, placements)
	second := NextOpenCell(1, placements)

	assert.Equal(t, first, second)
	assert.Equal(t, []types.Placement{p(0, 1), p(1, 1)}, placements)
}

func TestIsColumnFull(t *testing.T) {
	var column []types.Placement
	for row := 0; row < types.ConnectFour.Rows; row++ {
		require.False(t, IsColumnFull(5, column, types.ConnectFour.Rows), "row %d", row)
		column = append(column, p(row, 5))
	}
	assert.True(t, IsColumnFull(5, column, types.ConnectFour.Rows))
	assert.False(t, IsColumnFull(4, column, types.ConnectFour.Rows))
}

func TestIsCellOccupied(t *testing.T) {
	placements := []types.Placement{p(6, 6), p(6, 7)}

	assert.True(t, IsCellOccupied(p(6, 7), placements))
	assert.False(t, IsCellOccupied(p(7, 6), placements))
	assert.False(t, IsCellOccupied(p(0, 0), nil))
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		cell types.Placement
		v    types.Variant
		want bool
	}{
		{p(0, 0), types.ConnectFour, true},
		{p(5, 6), types.ConnectFour, true},
		{p(6, 0), types.ConnectFour, false},
		{p(0, 7), types.ConnectFour, false},
		{p(-1, 0), types.ConnectFour, false},
		{p(12, 12), types.Gomoku, true},
		{p(13, 12), types.Gomoku, false},
		{p(0, -1), types.Gomoku, false},
	}
	for _, tt := range tests {
		if got := InBounds(tt.cell, tt.v); got != tt.want {
			t.Errorf("InBounds(%v, %s) = %v, want %v", tt.cell, tt.v.Name, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("gravity ignores requested row", func(t *testing.T) {
		got, ok := Resolve(p(4, 2), []types.Placement{p(0, 2)}, types.ConnectFour)
		require.True(t, ok)
		assert.Equal(t, p(1, 2), got)
	})

	t.Run("gravity rejects full and missing columns", func(t *testing.T) {
		var full []types.Placement
		for row := 0; row < types.ConnectFour.Rows; row++ {
			full = append(full, p(row, 0))
		}
		_, ok := Resolve(p(0, 0), full, types.ConnectFour)
		assert.False(t, ok)
		_, ok = Resolve(p(0, 7), nil, types.ConnectFour)
		assert.False(t, ok)
		_, ok = Resolve(p(0, -1), nil, types.ConnectFour)
		assert.False(t, ok)
	})

	t.Run("free board takes the exact cell", func(t *testing.T) {
		got, ok := Resolve(p(6, 6), nil, types.Gomoku)
		require.True(t, ok)
		assert.Equal(t, p(6, 6), got)

		_, ok = Resolve(p(6, 6), []types.Placement{p(6, 6)}, types.Gomoku)
		assert.False(t, ok)
		_, ok = Resolve(p(13, 0), nil, types.Gomoku)
		assert.False(t, ok)
	})
}

func TestIsBoardFull(t *testing.T) {
	var placements []types.Placement
	for c := 0; c < types.ConnectFour.Columns; c++ {
		for r := 0; r < types.ConnectFour.Rows; r++ {
			placements = append(placements, p(r, c))
		}
	}
	assert.True(t, IsBoardFull(placements, types.ConnectFour))
	assert.False(t, IsBoardFull(placements[1:], types.ConnectFour))

	assert.False(t, IsBoardFull(placements, types.Gomoku))
}

func TestNotation(t *testing.T) {
	tests := []struct {
		cell types.Placement
		v    types.Variant
		want string
	}{
		{p(0, 0), types.ConnectFour, "a1"},
		{p(5, 6), types.ConnectFour, "g6"},
		{p(0, 0), types.Gomoku, "a13"},
		{p(12, 12), types.Gomoku, "m1"},
		{p(6, 6), types.Gomoku, "g7"},
	}
	for _, tt := range tests {
		if got := Notation(tt.cell, tt.v); got != tt.want {
			t.Errorf("Notation(%v, %s) = %q, want %q", tt.cell, tt.v.Name, got, tt.want)
		}
	}
}

func TestScreenRowRoundTrip(t *testing.T) {
	for _, v := range types.Variants {
		for row := 0; row < v.Rows; row++ {
			if got := BoardRow(ScreenRow(row, v), v); got != row {
				t.Fatalf("%s: BoardRow(ScreenRow(%d)) = %d", v.Name, row, got)
			}
		}
	}
	assert.Equal(t, 5, ScreenRow(0, types.ConnectFour))
	assert.Equal(t, 0, ScreenRow(0, types.Gomoku))
}
