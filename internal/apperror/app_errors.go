package apperror

import "errors"

var (
	ErrBoardNotFound    = errors.New("board not found")
	ErrNoMatchingNode   = errors.New("no matching node")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidPieceKind = errors.New("invalid piece kind")
	ErrNodeOutOfRange   = errors.New("node index out of range")
	ErrInvalidGeometry  = errors.New("invalid board geometry")
	ErrInvalidLogLevel  = errors.New("invalid log level")
)
