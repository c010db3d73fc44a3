package entity

import (
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometry_ResolveNode(t *testing.T) {
	geometry := DefaultGeometry()

	t.Run("Exact node position resolves to the node", func(t *testing.T) {
		// When: resolving the pixel position of node (0,0)
		node, ok := geometry.ResolveNode(75, 75)

		// Then: node (0,0) should match
		require.True(t, ok)
		assert.Equal(t, Node{X: 0, Y: 0}, node)
	})

	t.Run("Near side of the tolerance band resolves to the node", func(t *testing.T) {
		// When: resolving a pixel 9 px past node 0
		node, ok := geometry.ResolveNode(84, 75)

		// Then: node (0,0) should match
		require.True(t, ok)
		assert.Equal(t, Node{X: 0, Y: 0}, node)
	})

	t.Run("Far side of the tolerance band resolves to the next node", func(t *testing.T) {
		// When: resolving a pixel 9 px before node 1
		node, ok := geometry.ResolveNode(141, 75)

		// Then: node (1,0) should match
		require.True(t, ok)
		assert.Equal(t, Node{X: 1, Y: 0}, node)
	})

	t.Run("Dead zone between nodes has no match", func(t *testing.T) {
		// When: resolving a pixel between node 0 and node 1 bands
		_, ok := geometry.ResolveNode(100, 75)

		// Then: nothing should match
		assert.False(t, ok)
	})

	t.Run("Pixel above and left of the grid has no match", func(t *testing.T) {
		// When: resolving a pixel below the lower bound on both axes
		_, ok := geometry.ResolveNode(1, 1)

		// Then: nothing should match
		assert.False(t, ok)
	})

	t.Run("Band before node 0 resolves to node 0", func(t *testing.T) {
		// When: resolving pixels inside the band but before node 0's exact position
		nodeAtEdge, okAtEdge := geometry.ResolveNode(65, 70)
		_, okOutside := geometry.ResolveNode(64, 75)

		// Then: the band edge should match node 0 and one pixel further should not
		require.True(t, okAtEdge)
		assert.Equal(t, Node{X: 0, Y: 0}, nodeAtEdge)
		assert.False(t, okOutside)
	})

	t.Run("Band past the last node has no match", func(t *testing.T) {
		// When: resolving a pixel within the band of a node beyond the grid
		_, ok := geometry.ResolveNode(740, 75)

		// Then: nothing should match
		assert.False(t, ok)
	})

	t.Run("One axis without a match rejects the whole lookup", func(t *testing.T) {
		// When: x is on node 2 and y is in a dead zone
		_, ok := geometry.ResolveNode(225, 110)

		// Then: nothing should match
		assert.False(t, ok)
	})
}

func TestGeometry_ResolveNodeProperties(t *testing.T) {
	geometry := DefaultGeometry()

	t.Run("Every pixel below the lower bound has no match", func(t *testing.T) {
		for p := -200; p < geometry.PixelOffset-geometry.SnapRadius; p++ {
			_, ok := geometry.resolveAxis(p)
			assert.False(t, ok, "pixel %d", p)
		}
	})

	t.Run("Every node round-trips through its pixel position", func(t *testing.T) {
		for g := 0; g < geometry.GridSize; g++ {
			pixel := geometry.PixelOf(Node{X: g, Y: g})

			node, ok := geometry.ResolveNode(pixel.X, geometry.PixelOffset)
			require.True(t, ok)
			assert.Equal(t, g, node.X)

			node, ok = geometry.ResolveNode(geometry.PixelOffset, pixel.Y)
			require.True(t, ok)
			assert.Equal(t, g, node.Y)
		}
	})

	t.Run("Every pixel in a dead zone has no match", func(t *testing.T) {
		for g := 0; g < geometry.GridSize; g++ {
			base := g*geometry.NodeSpacing + geometry.PixelOffset
			for d := geometry.SnapRadius + 1; d <= geometry.NodeSpacing-geometry.SnapRadius-1; d++ {
				_, ok := geometry.resolveAxis(base + d)
				assert.False(t, ok, "pixel %d", base+d)
			}
		}
	})
}

func TestGeometry_PixelOf(t *testing.T) {
	// Given: the default geometry
	geometry := DefaultGeometry()

	// When: deriving the pixel position of node (2,8)
	pixel := geometry.PixelOf(Node{X: 2, Y: 8})

	// Then: it should be offset plus spacing per index on each axis
	assert.Equal(t, Pixel{X: 225, Y: 675}, pixel)
}

func TestGeometry_Validate(t *testing.T) {
	testCases := []struct {
		name     string
		geometry Geometry
		wantErr  bool
	}{
		{name: "default", geometry: DefaultGeometry()},
		{name: "largest grid", geometry: Geometry{GridSize: MaxGridSize, PixelOffset: 75, NodeSpacing: 75, SnapRadius: 10}},
		{name: "grid too large", geometry: Geometry{GridSize: MaxGridSize + 1, PixelOffset: 75, NodeSpacing: 75, SnapRadius: 10}, wantErr: true},
		{name: "zero grid", geometry: Geometry{GridSize: 0, PixelOffset: 75, NodeSpacing: 75, SnapRadius: 10}, wantErr: true},
		{name: "zero spacing", geometry: Geometry{GridSize: 9, PixelOffset: 75, NodeSpacing: 0, SnapRadius: 10}, wantErr: true},
		{name: "negative radius", geometry: Geometry{GridSize: 9, PixelOffset: 75, NodeSpacing: 75, SnapRadius: -1}, wantErr: true},
		{name: "overlapping bands", geometry: Geometry{GridSize: 9, PixelOffset: 75, NodeSpacing: 20, SnapRadius: 10}, wantErr: true},
		{name: "zero radius", geometry: Geometry{GridSize: 15, PixelOffset: 0, NodeSpacing: 30, SnapRadius: 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.geometry.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, apperror.ErrInvalidGeometry)
				return
			}

			assert.NoError(t, err)
		})
	}
}
