/*
Copyright © 2019 the vertgrid authors.
This file is part of vertgrid.

vertgrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

vertgrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with vertgrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package vertgrid models the spatial geometry of an unstructured, layered
// computational grid whose cells are arbitrary polygons (or, for
// one-dimensional networks, line segments) defined by shared vertices. It
// provides lazily computed, cached derived geometry (cell centers, cell
// vertex rings, extents), coordinate transformation between the grid's local
// frame and a rotated and offset world frame, point-in-cell spatial lookup
// across layers, and normalization of client arrays into per-layer plotting
// slices.
package vertgrid

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// A Vertex is one entry in the grid's vertex table. Z is only meaningful for
// one-dimensional grids.
type Vertex struct {
	ID      int
	X, Y, Z float64
}

// A Cell2D describes one polygonal cell: its index within a layer, its
// center coordinates in the grid's local frame, and its ordered ring of
// vertex IDs. Negative vertex IDs are treated as unused padding slots and
// are dropped during grid construction.
type Cell2D struct {
	ID       int
	X, Y     float64
	Vertices []int
}

// A Cell1D describes one line-segment cell in a one-dimensional grid.
// One-dimensional grids always have exactly one layer.
type Cell1D struct {
	ID       int
	X, Y, Z  float64
	Vertices []int
}

// A ZCoordFunc computes per-cell vertical vertex and center coordinates for
// two-dimensional grids, aligned to the grid's cell ordering. It is the
// collaborator that supplies elevation midpoints; the default implementation
// (see Config.ZCoords) derives layer midpoints from the grid's elevation
// table.
type ZCoordFunc func(g *Grid) (zvertices, zcenters [][]float64, err error)

// Config holds the information needed to construct a Grid. Either Cell2D or
// Cell1D must be supplied, not both. Botm, when given, takes precedence over
// NLay and NCPL for determining the grid dimensions.
type Config struct {
	Vertices []Vertex
	Cell2D   []Cell2D
	Cell1D   []Cell1D

	// Top holds top elevations for the cells in the uppermost layer
	// (length NCPL), and Botm holds bottom elevations for all cells
	// (shape [NLay][NCPL]).
	Top  []float64
	Botm *sparse.DenseArray

	// IDomain gives the active-domain flag for each cell
	// (shape [NLay][NCPL]).
	IDomain *sparse.DenseArray

	// XOff and YOff give the world coordinates of the grid origin, and
	// Rotation gives the counter-clockwise rotation of the grid about the
	// origin in degrees.
	XOff, YOff float64
	Rotation   float64

	// NLay and NCPL optionally specify the grid dimensions when Botm is
	// not given.
	NLay, NCPL int

	// ZCoords optionally overrides the vertical-coordinate calculation
	// for two-dimensional grids.
	ZCoords ZCoordFunc
}

// Grid is an unstructured, layered model grid. The topology (vertex table,
// cell-to-vertex rings, elevations) is set at construction; the reference
// frame and elevation arrays may be replaced afterwards through the
// setters, which invalidate all cached derived geometry.
//
// A Grid is not safe for concurrent use; callers that share one across
// goroutines must provide their own locking.
type Grid struct {
	vertices  []Vertex
	vertIndex map[int]int // vertex ID to row in vertices

	// Cell-to-vertex topology in compressed form: the ring for cell i is
	// iverts[ivertPtr[i]:ivertPtr[i+1]], holding rows into the vertex
	// table.
	iverts   []int
	ivertPtr []int

	cellX, cellY []float64
	cellZ        []float64 // one-dimensional grids only
	oneD         bool

	top     []float64
	botm    *sparse.DenseArray
	idomain *sparse.DenseArray

	nlay, ncpl int // configured sizes, used when botm is unset

	xoff, yoff float64
	angrot     float64 // degrees counter-clockwise

	zcoords ZCoordFunc

	// generation increments on every mutation that affects derived
	// geometry; cached bundles stamped with an older value are stale.
	generation uint64
	cache      geomCache
	locator    locatorCache
}

// NewGrid constructs a grid from cfg. Every vertex ID referenced by a cell
// must exist in the vertex table, and vertex IDs must be unique.
func NewGrid(cfg Config) (*Grid, error) {
	if cfg.Cell2D != nil && cfg.Cell1D != nil {
		return nil, fmt.Errorf("vertgrid: only one of Cell2D and Cell1D may be given")
	}
	g := &Grid{
		top:     cfg.Top,
		botm:    cfg.Botm,
		idomain: cfg.IDomain,
		xoff:    cfg.XOff,
		yoff:    cfg.YOff,
		angrot:  cfg.Rotation,
		zcoords: cfg.ZCoords,
	}
	if g.zcoords == nil {
		g.zcoords = layerMidpointZCoords
	}
	if cfg.Botm == nil {
		g.nlay = cfg.NLay
		g.ncpl = cfg.NCPL
	}
	if cfg.Botm != nil {
		if len(cfg.Botm.Shape) != 2 {
			return nil, fmt.Errorf("vertgrid: botm must have 2 dimensions but has %d", len(cfg.Botm.Shape))
		}
		if cfg.Top != nil && len(cfg.Top) != cfg.Botm.Shape[1] {
			return nil, fmt.Errorf("vertgrid: top length %d does not match botm cell count %d",
				len(cfg.Top), cfg.Botm.Shape[1])
		}
	}
	if err := g.setVertices(cfg.Vertices); err != nil {
		return nil, err
	}
	switch {
	case cfg.Cell1D != nil:
		g.oneD = true
		g.cellZ = make([]float64, len(cfg.Cell1D))
		for i, c := range cfg.Cell1D {
			if err := g.addCell(c.X, c.Y, c.Vertices); err != nil {
				return nil, err
			}
			g.cellZ[i] = c.Z
		}
	case cfg.Cell2D != nil:
		for _, c := range cfg.Cell2D {
			if err := g.addCell(c.X, c.Y, c.Vertices); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func (g *Grid) setVertices(verts []Vertex) error {
	idx := make(map[int]int, len(verts))
	for i, v := range verts {
		if _, ok := idx[v.ID]; ok {
			return fmt.Errorf("vertgrid: duplicate vertex ID %d", v.ID)
		}
		idx[v.ID] = i
	}
	// Existing cell rings must still resolve, by vertex ID, against the
	// new table.
	newRows := make([]int, len(g.iverts))
	for i, row := range g.iverts {
		id := g.vertices[row].ID
		nrow, ok := idx[id]
		if !ok {
			return fmt.Errorf("vertgrid: vertex ID %d is referenced by a cell but missing from the vertex table", id)
		}
		newRows[i] = nrow
	}
	copy(g.iverts, newRows)
	g.vertices = verts
	g.vertIndex = idx
	return nil
}

func (g *Grid) addCell(x, y float64, vertIDs []int) error {
	if g.ivertPtr == nil {
		g.ivertPtr = []int{0}
	}
	for _, id := range vertIDs {
		if id < 0 { // unused padding slot
			continue
		}
		row, ok := g.vertIndex[id]
		if !ok {
			return fmt.Errorf("vertgrid: cell %d references undefined vertex ID %d", len(g.cellX), id)
		}
		g.iverts = append(g.iverts, row)
	}
	g.ivertPtr = append(g.ivertPtr, len(g.iverts))
	g.cellX = append(g.cellX, x)
	g.cellY = append(g.cellY, y)
	return nil
}

// ncells returns the number of cells in the topology table.
func (g *Grid) ncells() int { return len(g.cellX) }

// ring returns the vertex-table rows making up the ring of cell i.
func (g *Grid) ring(i int) []int {
	return g.iverts[g.ivertPtr[i]:g.ivertPtr[i+1]]
}

// NLay returns the number of vertical layers in the grid.
func (g *Grid) NLay() int {
	if g.oneD {
		return 1
	}
	if g.botm != nil {
		return g.botm.Shape[0]
	}
	return g.nlay
}

// NCPL returns the number of cells per layer.
func (g *Grid) NCPL() int {
	if g.oneD {
		return g.ncells()
	}
	if g.botm != nil {
		return g.botm.Shape[1]
	}
	if g.ncells() > 0 && g.nlay == 0 {
		return g.ncells()
	}
	return g.ncpl
}

// NNodes returns the total number of cells across all layers.
func (g *Grid) NNodes() int { return g.NLay() * g.NCPL() }

// NVert returns the number of vertices in the vertex table.
func (g *Grid) NVert() int { return len(g.vertices) }

// Shape returns the grid dimensions as (number of layers, cells per layer).
func (g *Grid) Shape() (nlay, ncpl int) { return g.NLay(), g.NCPL() }

// Valid reports whether the grid has both a vertex table and cell topology.
func (g *Grid) Valid() bool {
	return len(g.vertices) > 0 && g.ncells() > 0
}

// Complete reports whether the grid additionally has elevation and domain
// data, which some operations require.
func (g *Grid) Complete() bool {
	return g.Valid() && g.top != nil && g.botm != nil && g.idomain != nil
}

// XOffset returns the world x coordinate of the grid origin.
func (g *Grid) XOffset() float64 { return g.xoff }

// YOffset returns the world y coordinate of the grid origin.
func (g *Grid) YOffset() float64 { return g.yoff }

// Rotation returns the grid rotation about the origin in
// counter-clockwise degrees.
func (g *Grid) Rotation() float64 { return g.angrot }

// Top returns the top elevations of the uppermost layer. The returned slice
// is owned by the grid and must not be modified.
func (g *Grid) Top() []float64 { return g.top }

// Botm returns the bottom elevations of all layers, with shape
// [NLay][NCPL]. The returned array is owned by the grid and must not be
// modified.
func (g *Grid) Botm() *sparse.DenseArray { return g.botm }

// IDomain returns the active-domain flags, or nil if they have not been
// set. The returned array is owned by the grid and must not be modified.
func (g *Grid) IDomain() *sparse.DenseArray { return g.idomain }

// TopBotm stacks the top elevations on top of the layer bottoms, giving the
// elevation of every layer boundary with shape [NLay+1][NCPL]:
// TopBotm[lay] is the top of layer lay and TopBotm[lay+1] its bottom. It
// returns nil if the elevation arrays are unset. The result is newly
// allocated on each call.
func (g *Grid) TopBotm() *sparse.DenseArray {
	if g.top == nil || g.botm == nil {
		return nil
	}
	nlay, ncpl := g.botm.Shape[0], g.botm.Shape[1]
	tb := sparse.ZerosDense(nlay+1, ncpl)
	copy(tb.Elements[:ncpl], g.top)
	copy(tb.Elements[ncpl:], g.botm.Elements)
	return tb
}

// IVerts returns the ordered vertex-ID ring of every cell.
func (g *Grid) IVerts() [][]int {
	out := make([][]int, g.ncells())
	for i := range out {
		ring := g.ring(i)
		ids := make([]int, len(ring))
		for j, row := range ring {
			ids[j] = g.vertices[row].ID
		}
		out[i] = ids
	}
	return out
}

// SetOrigin moves the grid origin to the given world coordinates,
// invalidating all cached derived geometry.
func (g *Grid) SetOrigin(xoff, yoff float64) {
	g.xoff, g.yoff = xoff, yoff
	g.generation++
}

// SetRotation changes the grid rotation (counter-clockwise degrees about
// the origin), invalidating all cached derived geometry.
func (g *Grid) SetRotation(deg float64) {
	g.angrot = deg
	g.generation++
}

// SetElevations replaces the elevation arrays, invalidating all cached
// derived geometry.
func (g *Grid) SetElevations(top []float64, botm *sparse.DenseArray) error {
	if botm != nil && len(botm.Shape) != 2 {
		return fmt.Errorf("vertgrid: botm must have 2 dimensions but has %d", len(botm.Shape))
	}
	if top != nil && botm != nil && len(top) != botm.Shape[1] {
		return fmt.Errorf("vertgrid: top length %d does not match botm cell count %d",
			len(top), botm.Shape[1])
	}
	g.top, g.botm = top, botm
	g.generation++
	return nil
}

// SetIDomain replaces the active-domain flags. The domain flags do not
// participate in derived geometry, so the geometry cache is left intact.
func (g *Grid) SetIDomain(idomain *sparse.DenseArray) {
	g.idomain = idomain
}

// SetVertices replaces the vertex table, invalidating all cached derived
// geometry. Every vertex ID referenced by a cell must exist in the new
// table.
func (g *Grid) SetVertices(verts []Vertex) error {
	if err := g.setVertices(verts); err != nil {
		return err
	}
	g.generation++
	return nil
}

// Scale returns a new grid with all lengths (vertex coordinates, cell
// centers, elevations, and origin offsets) multiplied by factor. The
// rotation angle and domain flags carry over unchanged. The grid must be
// complete.
func (g *Grid) Scale(factor float64) (*Grid, error) {
	if !g.Complete() {
		return nil, fmt.Errorf("vertgrid: cannot scale: %w", ErrIncomplete)
	}
	cfg := Config{
		XOff:     g.xoff * factor,
		YOff:     g.yoff * factor,
		Rotation: g.angrot,
		IDomain:  g.idomain,
		ZCoords:  g.zcoords,
	}
	cfg.Vertices = make([]Vertex, len(g.vertices))
	for i, v := range g.vertices {
		cfg.Vertices[i] = Vertex{ID: v.ID, X: v.X * factor, Y: v.Y * factor, Z: v.Z * factor}
	}
	iv := g.IVerts()
	if g.oneD {
		cfg.Cell1D = make([]Cell1D, g.ncells())
		for i := range cfg.Cell1D {
			cfg.Cell1D[i] = Cell1D{
				ID:       i,
				X:        g.cellX[i] * factor,
				Y:        g.cellY[i] * factor,
				Z:        g.cellZ[i] * factor,
				Vertices: iv[i],
			}
		}
	} else {
		cfg.Cell2D = make([]Cell2D, g.ncells())
		for i := range cfg.Cell2D {
			cfg.Cell2D[i] = Cell2D{
				ID:       i,
				X:        g.cellX[i] * factor,
				Y:        g.cellY[i] * factor,
				Vertices: iv[i],
			}
		}
	}
	cfg.Top = make([]float64, len(g.top))
	for i, v := range g.top {
		cfg.Top[i] = v * factor
	}
	cfg.Botm = sparse.ZerosDense(g.botm.Shape...)
	for i, v := range g.botm.Elements {
		cfg.Botm.Elements[i] = v * factor
	}
	return NewGrid(cfg)
}

// layerMidpointZCoords is the default vertical-coordinate calculation for
// two-dimensional grids: vertex elevations are the layer boundaries from
// the elevation table and cell-center elevations are the layer midpoints.
// Grids without elevation data get empty vertical coordinates.
func layerMidpointZCoords(g *Grid) (zvertices, zcenters [][]float64, err error) {
	tb := g.TopBotm()
	if tb == nil {
		return nil, nil, nil
	}
	nlay, ncpl := tb.Shape[0]-1, tb.Shape[1]
	zvertices = make([][]float64, nlay+1)
	for lay := 0; lay <= nlay; lay++ {
		zvertices[lay] = append([]float64(nil), tb.Elements[lay*ncpl:(lay+1)*ncpl]...)
	}
	zcenters = make([][]float64, nlay)
	for lay := 0; lay < nlay; lay++ {
		zc := make([]float64, ncpl)
		for i := 0; i < ncpl; i++ {
			zc[i] = (tb.Get(lay, i) + tb.Get(lay+1, i)) / 2
		}
		zcenters[lay] = zc
	}
	return zvertices, zcenters, nil
}
