package model

import (
	"fmt"
	"strings"
)

type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// String renders the square as a file letter and rank digit, e.g. "e2".
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, s.Row+1)
}

type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func (m Move) String() string {
	return m.From.String() + " " + m.To.String()
}

// ParseSquare maps "<file><rank>" to zero-based indices: the file letter
// selects the column and the rank digit the row.
func ParseSquare(token string) (Square, error) {
	if len(token) != 2 {
		return Square{}, fmt.Errorf("%w: square %q", ErrMalformedMove, token)
	}
	sq := Square{Row: int(token[1]) - '1', Col: int(token[0]) - 'a'}
	if !sq.InBounds() {
		return Square{}, fmt.Errorf("%w: square %q", ErrMalformedMove, token)
	}
	return sq, nil
}

// ParseMove reads two whitespace separated squares such as "e2 e4".
// Tokens after the second are ignored.
func ParseMove(input string) (Move, error) {
	parts := strings.Fields(input)
	if len(parts) < 2 {
		return Move{}, fmt.Errorf("%w: want two squares, got %q", ErrMalformedMove, input)
	}
	from, err := ParseSquare(parts[0])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(parts[1])
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}

// MoveRequest is the wire form of a move: either explicit squares or
// algebraic notation.
type MoveRequest struct {
	From     *Square `json:"from,omitempty"`
	To       *Square `json:"to,omitempty"`
	Notation string  `json:"notation,omitempty"`
}

func (r MoveRequest) Resolve() (Move, error) {
	if r.Notation != "" {
		return ParseMove(r.Notation)
	}
	if r.From == nil || r.To == nil {
		return Move{}, fmt.Errorf("%w: from and to are required", ErrMalformedMove)
	}
	return Move{From: *r.From, To: *r.To}, nil
}

type Ply struct {
	Piece         Piece  `json:"piece"`
	From          Square `json:"from"`
	To            Square `json:"to"`
	CapturedPiece *Piece `json:"capturedPiece"`
	Notation      string `json:"notation"`
}

func notation(piece Piece, captured *Piece, m Move) string {
	sep := "-"
	if captured != nil {
		sep = "x"
	}
	return fmt.Sprintf("%c%s%s%s", piece.Type.glyph(), m.From, sep, m.To)
}
