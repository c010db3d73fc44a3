package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const (
	DefaultGridSize    = 9
	DefaultPixelOffset = 75
	DefaultNodeSpacing = 75
	DefaultSnapRadius  = 10

	// MaxGridSize bounds the cells allocated per board.
	MaxGridSize = 64
)

// Geometry maps between renderer pixels and grid nodes.
type Geometry struct {
	GridSize    int `json:"grid_size"`
	PixelOffset int `json:"pixel_offset"`
	NodeSpacing int `json:"node_spacing"`
	SnapRadius  int `json:"snap_radius"`
}

func DefaultGeometry() Geometry {
	return Geometry{
		GridSize:    DefaultGridSize,
		PixelOffset: DefaultPixelOffset,
		NodeSpacing: DefaultNodeSpacing,
		SnapRadius:  DefaultSnapRadius,
	}
}

// Validate checks that the geometry describes a usable board. Tolerance bands of
// adjacent nodes must not overlap.
func (that Geometry) Validate() error {
	switch {
	case that.GridSize <= 0, that.GridSize > MaxGridSize:
		return fmt.Errorf("%w: grid size %d not in [1, %d]", apperror.ErrInvalidGeometry, that.GridSize, MaxGridSize)
	case that.NodeSpacing <= 0:
		return fmt.Errorf("%w: node spacing %d", apperror.ErrInvalidGeometry, that.NodeSpacing)
	case that.SnapRadius < 0:
		return fmt.Errorf("%w: snap radius %d", apperror.ErrInvalidGeometry, that.SnapRadius)
	case 2*that.SnapRadius >= that.NodeSpacing:
		return fmt.Errorf("%w: snap radius %d overlaps spacing %d", apperror.ErrInvalidGeometry, that.SnapRadius, that.NodeSpacing)
	}

	return nil
}

// Contains reports whether the node lies on the grid.
func (that Geometry) Contains(node Node) bool {
	return node.X >= 0 && node.X < that.GridSize && node.Y >= 0 && node.Y < that.GridSize
}

// PixelOf returns the exact pixel position of a node.
func (that Geometry) PixelOf(node Node) Pixel {
	return Pixel{
		X: node.X*that.NodeSpacing + that.PixelOffset,
		Y: node.Y*that.NodeSpacing + that.PixelOffset,
	}
}

// ResolveNode snaps a pixel coordinate to the node whose tolerance band contains it.
// Both axes are resolved independently and must land on the grid.
func (that Geometry) ResolveNode(pixelX, pixelY int) (Node, bool) {
	x, ok := that.resolveAxis(pixelX)
	if !ok || x >= that.GridSize {
		return Node{}, false
	}

	y, ok := that.resolveAxis(pixelY)
	if !ok || y >= that.GridSize {
		return Node{}, false
	}

	return Node{X: x, Y: y}, true
}

func (that Geometry) resolveAxis(p int) (int, bool) {
	if p < that.PixelOffset-that.SnapRadius {
		return 0, false
	}

	shifted := p - that.PixelOffset

	// near band of node 0, before its exact position; keeps division on non-negative operands
	if shifted < 0 {
		return 0, true
	}

	quotient := shifted / that.NodeSpacing
	remainder := shifted % that.NodeSpacing

	switch {
	case remainder <= that.SnapRadius:
		return quotient, true
	case remainder >= that.NodeSpacing-that.SnapRadius:
		return quotient + 1, true
	default:
		return 0, false
	}
}
