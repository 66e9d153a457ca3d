package testutil

import "github.com/benbeisheim/gridchess-backend/internal/model"

// Placement puts a piece on a square of a test board.
type Placement struct {
	Row, Col int
	Piece    model.Piece
}

// At builds a Placement.
func At(row, col int, kind model.PieceType, owner model.Owner) Placement {
	return Placement{Row: row, Col: col, Piece: model.Piece{Type: kind, Owner: owner}}
}

// BoardWith returns an otherwise empty board holding the given pieces.
func BoardWith(placements ...Placement) *model.BoardState {
	board := model.NewEmptyBoard()
	for _, p := range placements {
		board.Set(p.Row, p.Col, p.Piece)
	}
	return board
}
