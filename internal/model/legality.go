package model

// Judge decides whether move is legal on board without touching it.
func Judge(board *BoardState, move Move) Reason {
	from, to := move.From, move.To
	if !from.InBounds() || !to.InBounds() {
		return OutOfBounds
	}
	piece := board.At(from)
	if piece == nil {
		return NoPieceAtSource
	}
	if from == to {
		return NullMove
	}

	rowDiff := abs(to.Row - from.Row)
	colDiff := abs(to.Col - from.Col)

	switch piece.Type {
	case Pawn:
		return judgePawn(board, piece, from, to, rowDiff, colDiff)
	case Rook:
		// Straight lines only. Rooks do not check their path.
		if rowDiff > 0 && colDiff > 0 {
			return IllegalGeometry
		}
		return Legal
	case Knight:
		// Only (2,x) and (x,2) shapes are inspected; other offsets pass.
		if (rowDiff == 2 && colDiff != 1) || (colDiff == 2 && rowDiff != 1) {
			return IllegalGeometry
		}
		return Legal
	case Bishop:
		if rowDiff != colDiff {
			return IllegalGeometry
		}
		if !pathClear(board, from, to, diagonalWalk) {
			return PathBlocked
		}
		return Legal
	case Queen:
		if rowDiff != colDiff && rowDiff > 0 && colDiff > 0 {
			return IllegalGeometry
		}
		walk := straightWalk
		if rowDiff == colDiff {
			walk = diagonalWalk
		}
		if !pathClear(board, from, to, walk) {
			return PathBlocked
		}
		return Legal
	case King:
		if rowDiff > 1 || colDiff > 1 {
			return IllegalGeometry
		}
		return Legal
	default:
		return IllegalGeometry
	}
}

func judgePawn(board *BoardState, piece *Piece, from, to Square, rowDiff, colDiff int) Reason {
	if piece.Owner == White && to.Row <= from.Row {
		return IllegalGeometry
	}
	if piece.Owner == Black && to.Row >= from.Row {
		return IllegalGeometry
	}
	if rowDiff > 2 || colDiff > 1 {
		return IllegalGeometry
	}
	if rowDiff == 1 && colDiff == 1 {
		target := board.At(to)
		if target == nil || target.Owner == piece.Owner {
			return CaptureRequired
		}
	}
	return Legal
}

// walkCondition reports whether the walk should inspect (row, col) before
// reaching to.
type walkCondition func(row, col int, to Square) bool

// diagonalWalk stops as soon as either axis reaches the destination.
func diagonalWalk(row, col int, to Square) bool {
	return row != to.Row && col != to.Col
}

// straightWalk stops only when both axes reach the destination.
func straightWalk(row, col int, to Square) bool {
	return row != to.Row || col != to.Col
}

// pathClear steps one cell at a time from from toward to and requires every
// visited cell to be empty. Endpoints are never inspected.
func pathClear(board *BoardState, from, to Square, cont walkCondition) bool {
	rowDir := sign(to.Row - from.Row)
	colDir := sign(to.Col - from.Col)

	row := from.Row + rowDir
	col := from.Col + colDir

	for cont(row, col, to) {
		if !board.IsEmpty(row, col) {
			return false
		}
		row += rowDir
		col += colDir
	}
	return true
}

// Apply judges move and, when legal, relocates the occupant, overwriting
// whatever stood on the destination.
func (b *BoardState) Apply(move Move) Reason {
	reason := Judge(b, move)
	if reason != Legal {
		return reason
	}
	piece := b.At(move.From)
	b.Set(move.To.Row, move.To.Col, *piece)
	b.Clear(move.From.Row, move.From.Col)
	return Legal
}

// MovePiece reports whether move was legal and performed.
func (b *BoardState) MovePiece(move Move) bool {
	return b.Apply(move) == Legal
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
