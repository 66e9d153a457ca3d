package model

import "fmt"

const BoardSize = 8

type PieceType string

func (p PieceType) glyph() byte {
	switch p {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'P'
	}
	return '?'
}

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Owner identifies one of the two sides. White advances toward increasing
// rows, Black toward decreasing rows.
type Owner int

const (
	White Owner = 0
	Black Owner = 1
)

func (o Owner) String() string {
	switch o {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return fmt.Sprintf("owner(%d)", int(o))
}

func (o Owner) Opponent() Owner {
	if o == White {
		return Black
	}
	return White
}

func (o Owner) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Owner) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*o = White
	case "black":
		*o = Black
	default:
		return fmt.Errorf("unknown owner %q", text)
	}
	return nil
}

type Piece struct {
	Type  PieceType `json:"type"`
	Owner Owner     `json:"owner"`
}

// BoardState is the 8x8 grid of optional occupants. Indexing outside the
// grid panics; callers validate coordinates first.
type BoardState struct {
	Board [BoardSize][BoardSize]*Piece `json:"board"`
}

// Get returns a copy of the occupant, or nil for an empty cell. Changing
// the result does not change the board; use Set.
func (b *BoardState) Get(row, col int) *Piece {
	p := b.Board[row][col]
	if p == nil {
		return nil
	}
	occupant := *p
	return &occupant
}

func (b *BoardState) At(sq Square) *Piece {
	return b.Get(sq.Row, sq.Col)
}

// Set overwrites the cell unconditionally.
func (b *BoardState) Set(row, col int, piece Piece) {
	b.Board[row][col] = &piece
}

func (b *BoardState) Clear(row, col int) {
	b.Board[row][col] = nil
}

func (b *BoardState) IsEmpty(row, col int) bool {
	return b.Board[row][col] == nil
}

// Clone returns a deep copy that shares no cells with b.
func (b *BoardState) Clone() *BoardState {
	clone := &BoardState{}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if p := b.Board[row][col]; p != nil {
				clone.Set(row, col, *p)
			}
		}
	}
	return clone
}

func NewEmptyBoard() *BoardState {
	return &BoardState{}
}

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting arrangement: White on rows 0-1,
// Black mirrored on rows 6-7.
func NewBoard() *BoardState {
	board := NewEmptyBoard()
	for col := 0; col < BoardSize; col++ {
		board.Set(0, col, Piece{Type: backRank[col], Owner: White})
		board.Set(1, col, Piece{Type: Pawn, Owner: White})
		board.Set(6, col, Piece{Type: Pawn, Owner: Black})
		board.Set(7, col, Piece{Type: backRank[col], Owner: Black})
	}
	return board
}
