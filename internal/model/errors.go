package model

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrMalformedMove = errors.New("malformed move")
	ErrGameNotFound  = errors.New("game not found")
	ErrGameExists    = errors.New("game already exists")
	ErrGameFull      = errors.New("game is full")
	ErrNotAuthorized = errors.New("not authorized to join this game")
	ErrAlreadyQueued = errors.New("player already in queue")
)

// Reason is the verdict of the legality engine. Legal is the only
// accepting value.
type Reason int

const (
	Legal Reason = iota
	OutOfBounds
	NoPieceAtSource
	NullMove
	IllegalGeometry
	PathBlocked
	CaptureRequired
)

var reasonNames = map[Reason]string{
	Legal:           "legal",
	OutOfBounds:     "out_of_bounds",
	NoPieceAtSource: "no_piece_at_source",
	NullMove:        "null_move",
	IllegalGeometry: "illegal_geometry",
	PathBlocked:     "path_blocked",
	CaptureRequired: "capture_required",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// RejectedMoveError carries the move and the rule that refused it.
type RejectedMoveError struct {
	Move   Move
	Reason Reason
}

func (e *RejectedMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Move, e.Reason)
}

func (e *RejectedMoveError) Unwrap() error {
	return ErrIllegalMove
}
