package errors

import "errors"

var (
	ErrOffBoard      = errors.New("point is outside the board")
	ErrNotStone      = errors.New("color is not a stone")
	ErrOccupied      = errors.New("point is already occupied")
	ErrKo            = errors.New("point is forbidden by ko")
	ErrSuicide       = errors.New("move is suicide")
	ErrBadSize       = errors.New("board size out of range")
	ErrBadPosition   = errors.New("malformed board position")
	ErrWrongTurn     = errors.New("not this color's turn")
	ErrInvalidColor  = errors.New("unknown color")
	ErrBoardNotFound = errors.New("board not found")
	ErrInternal      = errors.New("internal error")
)
