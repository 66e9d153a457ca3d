package model

import "strings"

// Render draws the board row by row starting at row 0, one glyph per cell
// and '.' for empty cells. Owners are not distinguished.
func Render(board *BoardState) string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if p := board.Get(row, col); p != nil {
				sb.WriteByte(p.Type.glyph())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
