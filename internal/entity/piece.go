package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

type PieceKind int

const (
	PieceNone PieceKind = iota
	PieceBlack
	PieceWhite
)

const (
	pieceNoneName  = "none"
	pieceBlackName = "black"
	pieceWhiteName = "white"
)

// Node is a grid intersection, 0-indexed on both axes.
type Node struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pixel is a position in the renderer's coordinate system.
type Pixel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Piece is a marker on the board. Position is derived from the node it sits on.
type Piece struct {
	Kind     PieceKind `json:"kind"`
	Position Pixel     `json:"position"`
}

// Placement is the result of a successful Place.
type Placement struct {
	Node  Node  `json:"node"`
	Piece Piece `json:"piece"`
}

func ParsePieceKind(s string) (PieceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case pieceNoneName:
		return PieceNone, nil
	case pieceBlackName:
		return PieceBlack, nil
	case pieceWhiteName:
		return PieceWhite, nil
	default:
		return PieceNone, fmt.Errorf("%w: %q", apperror.ErrInvalidPieceKind, s)
	}
}

// IsPlayable reports whether the kind can be placed on a board.
func (that PieceKind) IsPlayable() bool {
	return that == PieceBlack || that == PieceWhite
}

func (that PieceKind) String() string {
	switch that {
	case PieceNone:
		return pieceNoneName
	case PieceBlack:
		return pieceBlackName
	case PieceWhite:
		return pieceWhiteName
	default:
		return fmt.Sprintf("PieceKind(%d)", int(that))
	}
}

func (that PieceKind) MarshalText() ([]byte, error) {
	if that != PieceNone && !that.IsPlayable() {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidPieceKind, int(that))
	}

	return []byte(that.String()), nil
}

func (that *PieceKind) UnmarshalText(text []byte) error {
	kind, err := ParsePieceKind(string(text))
	if err != nil {
		return err
	}

	*that = kind

	return nil
}
