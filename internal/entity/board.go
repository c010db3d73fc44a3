package entity

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

// Board owns the grid of pieces and the last placed node. Cells are write-once.
type Board struct {
	ID string

	mu         sync.RWMutex
	geometry   Geometry
	cells      []PieceKind
	lastPlaced *Node
}

func NewBoard(id string, geometry Geometry) (*Board, error) {
	if err := geometry.Validate(); err != nil {
		return nil, err
	}

	return &Board{
		ID:       id,
		geometry: geometry,
		cells:    make([]PieceKind, geometry.GridSize*geometry.GridSize),
	}, nil
}

func (that *Board) Geometry() Geometry {
	return that.geometry
}

// ResolveNode does not look at occupancy.
func (that *Board) ResolveNode(pixelX, pixelY int) (Node, bool) {
	return that.geometry.ResolveNode(pixelX, pixelY)
}

func (that *Board) CanPlace(pixelX, pixelY int) bool {
	node, ok := that.geometry.ResolveNode(pixelX, pixelY)
	if !ok {
		return false
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.cells[that.index(node)] == PieceNone
}

// Place puts a piece of the given kind on the node under the pixel coordinate.
// It reports false and changes nothing when no node matches or the node is taken.
// Panics if kind is not Black or White.
func (that *Board) Place(pixelX, pixelY int, kind PieceKind) (Placement, bool) {
	placement, err := that.TryPlace(pixelX, pixelY, kind)

	return placement, err == nil
}

// TryPlace is Place with the reason for a rejected placement:
// apperror.ErrNoMatchingNode or apperror.ErrCellOccupied.
func (that *Board) TryPlace(pixelX, pixelY int, kind PieceKind) (Placement, error) {
	if !kind.IsPlayable() {
		panic(fmt.Errorf("%w: %s", apperror.ErrInvalidPieceKind, kind))
	}

	node, ok := that.geometry.ResolveNode(pixelX, pixelY)
	if !ok {
		return Placement{}, apperror.ErrNoMatchingNode
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	idx := that.index(node)
	if that.cells[idx] != PieceNone {
		return Placement{}, apperror.ErrCellOccupied
	}

	that.cells[idx] = kind
	that.lastPlaced = &node

	return Placement{
		Node: node,
		Piece: Piece{
			Kind:     kind,
			Position: that.geometry.PixelOf(node),
		},
	}, nil
}

// PieceKindAt returns the kind on a node. Panics if the node is off the grid.
func (that *Board) PieceKindAt(x, y int) PieceKind {
	node := Node{X: x, Y: y}
	if !that.geometry.Contains(node) {
		panic(fmt.Errorf("%w: (%d, %d) on %dx%d grid", apperror.ErrNodeOutOfRange, x, y, that.geometry.GridSize, that.geometry.GridSize))
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.cells[that.index(node)]
}

func (that *Board) LastPlaced() (Node, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.lastPlaced == nil {
		return Node{}, false
	}

	return *that.lastPlaced, true
}

// Pieces lists every occupied node in row-major order.
func (that *Board) Pieces() []Placement {
	that.mu.RLock()
	defer that.mu.RUnlock()

	size := that.geometry.GridSize
	placements := make([]Placement, 0, len(that.cells))

	for idx, kind := range that.cells {
		if kind == PieceNone {
			continue
		}

		node := Node{X: idx % size, Y: idx / size}
		placements = append(placements, Placement{
			Node:  node,
			Piece: Piece{Kind: kind, Position: that.geometry.PixelOf(node)},
		})
	}

	return placements
}

func (that *Board) index(node Node) int {
	return node.Y*that.geometry.GridSize + node.X
}
