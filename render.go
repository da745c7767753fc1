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

import (
	"math"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
)

// Extent returns the bounding extents of the grid's vertex rings in world
// coordinates.
func (g *Grid) Extent() (xmin, xmax, ymin, ymax float64, err error) {
	_, rings, err := g.geometry()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	first := true
	for i := range rings.X {
		if len(rings.X[i]) == 0 {
			continue
		}
		if first {
			xmin, xmax = floats.Min(rings.X[i]), floats.Max(rings.X[i])
			ymin, ymax = floats.Min(rings.Y[i]), floats.Max(rings.Y[i])
			first = false
			continue
		}
		xmin = math.Min(xmin, floats.Min(rings.X[i]))
		xmax = math.Max(xmax, floats.Max(rings.X[i]))
		ymin = math.Min(ymin, floats.Min(rings.Y[i]))
		ymax = math.Max(ymax, floats.Max(rings.Y[i]))
	}
	return xmin, xmax, ymin, ymax, nil
}

// Bounds returns the grid extent as a rectangle.
func (g *Grid) Bounds() (*geom.Bounds, error) {
	xmin, xmax, ymin, ymax, err := g.Extent()
	if err != nil {
		return nil, err
	}
	return &geom.Bounds{
		Min: geom.Point{X: xmin, Y: ymin},
		Max: geom.Point{X: xmax, Y: ymax},
	}, nil
}

// GridLines returns the grid's edges as two-point lines in world
// coordinates, one per consecutive vertex-ring edge per cell, suitable for
// edge-collection rendering. For each cell the closing edge (last vertex
// back to first) comes first, matching the ring traversal order.
func (g *Grid) GridLines() ([]geom.LineString, error) {
	_, rings, err := g.geometry()
	if err != nil {
		return nil, err
	}
	var lines []geom.LineString
	for c := range rings.X {
		xs, ys := rings.X[c], rings.Y[c]
		n := len(xs)
		for i := 0; i < n; i++ {
			j := i - 1
			if j < 0 {
				j = n - 1
			}
			lines = append(lines, geom.LineString{
				{X: xs[j], Y: ys[j]},
				{X: xs[i], Y: ys[i]},
			})
		}
	}
	return lines, nil
}

// CellPolygons returns one closed polygon per cell (the first ring point
// repeated at the end), in world coordinates, for filled-polygon rendering.
func (g *Grid) CellPolygons() ([]geom.Polygon, error) {
	_, rings, err := g.geometry()
	if err != nil {
		return nil, err
	}
	polys := make([]geom.Polygon, g.NCPL())
	for c := range polys {
		xs, ys := rings.X[c], rings.Y[c]
		ring := make([]geom.Point, len(xs), len(xs)+1)
		for i := range xs {
			ring[i] = geom.Point{X: xs[i], Y: ys[i]}
		}
		if len(ring) > 0 {
			ring = append(ring, ring[0])
		}
		polys[c] = geom.Polygon{ring}
	}
	return polys, nil
}

// CellGeometries returns, for each cell index in [0, NCPL), its closed
// vertex ring as a single-element polygon list: one row per cell, to be
// joined with per-cell attribute data by tabular geospatial exporters.
func (g *Grid) CellGeometries() ([][]geom.Polygon, error) {
	polys, err := g.CellPolygons()
	if err != nil {
		return nil, err
	}
	rows := make([][]geom.Polygon, len(polys))
	for i, p := range polys {
		rows[i] = []geom.Polygon{p}
	}
	return rows, nil
}

// CellVertices returns the world coordinates of the vertex ring of the
// cell with the given index. Flattened multi-layer node indices are
// accepted: indices at or above NCPL wrap modulo NCPL, since cell geometry
// repeats identically in every layer. Indices outside [0, NNodes) return
// an IndexError.
func (g *Grid) CellVertices(cellid int) ([]geom.Point, error) {
	if cellid < 0 || cellid >= g.NNodes() {
		return nil, &IndexError{Index: cellid, Size: g.NNodes()}
	}
	cellid %= g.NCPL()
	_, rings, err := g.geometry()
	if err != nil {
		return nil, err
	}
	xs, ys := rings.X[cellid], rings.Y[cellid]
	verts := make([]geom.Point, len(xs))
	for i := range xs {
		verts[i] = geom.Point{X: xs[i], Y: ys[i]}
	}
	return verts, nil
}

// Vertices returns the full vertex table transformed to world coordinates,
// in table order.
func (g *Grid) Vertices() []geom.Point {
	out := make([]geom.Point, len(g.vertices))
	for i, v := range g.vertices {
		x, y := g.ToWorld(v.X, v.Y)
		out[i] = geom.Point{X: x, Y: y}
	}
	return out
}
