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

package vertgrid

import "fmt"

// CellCenters holds the world coordinates of every cell center. X and Y
// have length NCPL. Z has one row per layer (or is nil when the grid has no
// vertical data).
type CellCenters struct {
	X, Y []float64
	Z    [][]float64
}

// VertexRings holds the world coordinates of every cell's vertex ring, in
// the order given by the topology. X and Y have one row per cell. For
// two-dimensional grids Z holds the layer-boundary elevations (NLay+1 rows
// of length NCPL); for one-dimensional grids it holds one vertical ring per
// cell. Z is nil when the grid has no vertical data.
type VertexRings struct {
	X, Y, Z [][]float64
}

// geomCache memoizes the two derived geometry bundles (cell centers and
// vertex rings), which are always built together in one pass. stamp records
// the grid generation at build time; a bundle whose stamp trails the
// current generation is stale and is rebuilt on the next read.
type geomCache struct {
	centers *CellCenters
	rings   *VertexRings
	stamp   uint64
	ok      bool
}

// geometry returns the cached derived-geometry bundles, rebuilding them
// first if they are absent or stale. The returned values are shared views:
// callers must treat them as read-only. External callers get owning copies
// through XYZCellCenters and XYZVertices instead.
func (g *Grid) geometry() (*CellCenters, *VertexRings, error) {
	if !g.cache.ok || g.cache.stamp != g.generation {
		if err := g.buildGeometry(); err != nil {
			return nil, nil, err
		}
	}
	return g.cache.centers, g.cache.rings, nil
}

// buildGeometry populates the geometry cache: it resolves each cell's
// vertex-ID ring against the vertex table, records the cell centers, and,
// when a reference frame is configured, passes every produced coordinate
// through the local-to-world transform. Cell order and ring order are
// preserved exactly as given in the topology.
func (g *Grid) buildGeometry() error {
	if !g.Valid() {
		return fmt.Errorf("vertgrid: cannot build grid geometry: %w", ErrIncomplete)
	}
	n := g.ncells()
	centers := &CellCenters{
		X: append([]float64(nil), g.cellX...),
		Y: append([]float64(nil), g.cellY...),
	}
	rings := &VertexRings{
		X: make([][]float64, n),
		Y: make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		ring := g.ring(i)
		xs := make([]float64, len(ring))
		ys := make([]float64, len(ring))
		for j, row := range ring {
			xs[j] = g.vertices[row].X
			ys[j] = g.vertices[row].Y
		}
		rings.X[i] = xs
		rings.Y[i] = ys
	}

	if g.oneD {
		centers.Z = [][]float64{append([]float64(nil), g.cellZ...)}
		rings.Z = make([][]float64, n)
		for i := 0; i < n; i++ {
			ring := g.ring(i)
			zs := make([]float64, len(ring))
			for j, row := range ring {
				zs[j] = g.vertices[row].Z
			}
			rings.Z[i] = zs
		}
	} else {
		zv, zc, err := g.zcoords(g)
		if err != nil {
			return fmt.Errorf("vertgrid: computing vertical coordinates: %w", err)
		}
		rings.Z = zv
		centers.Z = zc
	}

	if g.hasRefFrame() {
		centers.X, centers.Y = g.ToWorldSlice(centers.X, centers.Y)
		for i := 0; i < n; i++ {
			rings.X[i], rings.Y[i] = g.ToWorldSlice(rings.X[i], rings.Y[i])
		}
	}

	g.cache = geomCache{centers: centers, rings: rings, stamp: g.generation, ok: true}
	return nil
}

// XYZCellCenters returns the world coordinates of all cell centers. The
// result is an owning copy, safe for the caller to modify.
func (g *Grid) XYZCellCenters() (CellCenters, error) {
	c, _, err := g.geometry()
	if err != nil {
		return CellCenters{}, err
	}
	return CellCenters{
		X: append([]float64(nil), c.X...),
		Y: append([]float64(nil), c.Y...),
		Z: copyRows(c.Z),
	}, nil
}

// XYZVertices returns the world coordinates of every cell's vertex ring.
// The result is an owning copy, safe for the caller to modify.
func (g *Grid) XYZVertices() (VertexRings, error) {
	_, r, err := g.geometry()
	if err != nil {
		return VertexRings{}, err
	}
	return VertexRings{
		X: copyRows(r.X),
		Y: copyRows(r.Y),
		Z: copyRows(r.Z),
	}, nil
}

func copyRows(rows [][]float64) [][]float64 {
	if rows == nil {
		return nil
	}
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}
