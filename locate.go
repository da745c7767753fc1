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
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"gonum.org/v1/gonum/floats"
)

// boundaryTolerance is the width of the band around a cell's perimeter
// within which a point still counts as inside the cell. Combined with the
// ascending-index scan it makes points on an edge shared by two cells
// resolve to the lower-indexed cell. The magnitude is a tunable tolerance,
// not an exact constant.
const boundaryTolerance = 1e-9

// locatorCache is the generation-stamped spatial index over the cell
// polygons used to reject candidate cells cheaply during point location.
type locatorCache struct {
	tree  *rtree.Rtree
	stamp uint64
}

// cellItem is an rtree entry pairing a cell's polygon with its index so
// that spatial-index hits can be mapped back to cells.
type cellItem struct {
	geom.Polygonal
	cell int
}

func (g *Grid) locatorTree() (*rtree.Rtree, error) {
	if g.locator.tree != nil && g.locator.stamp == g.generation {
		return g.locator.tree, nil
	}
	_, rings, err := g.geometry()
	if err != nil {
		return nil, err
	}
	tree := rtree.NewTree(25, 50)
	for i := range rings.X {
		ring := make([]geom.Point, len(rings.X[i]))
		for j := range rings.X[i] {
			ring[j] = geom.Point{X: rings.X[i][j], Y: rings.Y[i][j]}
		}
		tree.Insert(&cellItem{Polygonal: geom.Polygon{ring}, cell: i})
	}
	g.locator = locatorCache{tree: tree, stamp: g.generation}
	return tree, nil
}

// Intersect returns the index of the cell containing the point (x, y).
// When the point lies on an edge shared by two cells, the cell with the
// lower index is returned. If local is true, x and y are interpreted in the
// grid's local frame instead of world coordinates. If no cell contains the
// point, Intersect returns an error wrapping ErrOutside, unless forgive is
// true, in which case it returns the sentinel index -1 and a nil error.
func (g *Grid) Intersect(x, y float64, local, forgive bool) (int, error) {
	cell, _, err := g.locate(x, y, 0, false, local, forgive)
	return cell, err
}

// IntersectZ is like Intersect but additionally resolves the vertical
// layer: it returns the first (layer, cell) for which the elevation table
// brackets z. The forgive sentinel is (-1, -1).
func (g *Grid) IntersectZ(x, y, z float64, local, forgive bool) (lay, cell int, err error) {
	cell, lay, err = g.locate(x, y, z, true, local, forgive)
	return lay, cell, err
}

func (g *Grid) locate(x, y, z float64, hasZ, local, forgive bool) (cell, lay int, err error) {
	if local {
		x, y = g.ToWorld(x, y)
	}
	_, rings, err := g.geometry()
	if err != nil {
		return -1, -1, err
	}
	var tb [][]float64
	if hasZ {
		rows, err2 := g.topBotmRows()
		if err2 != nil {
			return -1, -1, err2
		}
		tb = rows
	}
	tree, err := g.locatorTree()
	if err != nil {
		return -1, -1, err
	}
	hits := tree.SearchIntersect(geom.NewBoundsPoint(geom.Point{X: x, Y: y}))
	candidates := make([]int, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, h.(*cellItem).cell)
	}
	// The first matching cell wins, so candidates are visited in
	// ascending index order.
	sort.Ints(candidates)
	for _, c := range candidates {
		xs, ys := rings.X[c], rings.Y[c]
		if len(xs) == 0 {
			continue
		}
		if x < floats.Min(xs) || x > floats.Max(xs) ||
			y < floats.Min(ys) || y > floats.Max(ys) {
			continue
		}
		eps := boundaryTolerance
		if ringClockwise(xs, ys) {
			eps = -eps
		}
		if !pointInRing(x, y, xs, ys, eps) {
			continue
		}
		if !hasZ {
			return c, 0, nil
		}
		for l := 0; l+1 < len(tb); l++ {
			if tb[l][c] >= z && z >= tb[l+1][c] {
				return c, l, nil
			}
		}
	}
	if forgive {
		return -1, -1, nil
	}
	return -1, -1, ErrOutside
}

// topBotmRows returns the layer-boundary elevation table as per-layer rows
// ([NLay+1][NCPL]).
func (g *Grid) topBotmRows() ([][]float64, error) {
	t := g.TopBotm()
	if t == nil {
		return nil, ErrIncomplete
	}
	ncpl := t.Shape[1]
	rows := make([][]float64, t.Shape[0])
	for i := range rows {
		rows[i] = t.Elements[i*ncpl : (i+1)*ncpl]
	}
	return rows, nil
}

// ringClockwise reports whether the ring traced by xs and ys winds
// clockwise, using the signed shoelace sum over the closed ring.
func ringClockwise(xs, ys []float64) bool {
	var sum float64
	n := len(xs)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += (xs[j] - xs[i]) * (ys[j] + ys[i])
	}
	return sum > 0
}

// pointInRing reports whether (x, y) lies within the ring traced by xs and
// ys, with the ring boundary offset by eps. The sign of eps selects the
// offset direction relative to the ring winding: a positive eps on a
// counter-clockwise ring, or a negative eps on a clockwise ring, widens the
// cell outward by |eps| so that points on the boundary are treated as
// inside; the opposite pairing narrows it, excluding the boundary band.
func pointInRing(x, y float64, xs, ys []float64, eps float64) bool {
	outward := (eps >= 0) != ringClockwise(xs, ys)
	if nearRing(x, y, xs, ys, math.Abs(eps)) {
		return outward
	}
	ring := make([]geom.Point, len(xs))
	for i := range xs {
		ring[i] = geom.Point{X: xs[i], Y: ys[i]}
	}
	return geom.Point{X: x, Y: y}.Within(geom.Polygon{ring}) != geom.Outside
}

// nearRing reports whether (x, y) is within dist of any edge of the ring,
// including the closing edge from the last vertex back to the first.
func nearRing(x, y float64, xs, ys []float64, dist float64) bool {
	p := geom.Point{X: x, Y: y}
	n := len(xs)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a := geom.Point{X: xs[i], Y: ys[i]}
		b := geom.Point{X: xs[j], Y: ys[j]}
		if distPointToSegment(p, a, b) <= dist {
			return true
		}
	}
	return false
}

// distPointToSegment returns the shortest distance from p to the segment ab.
// From http://geomalgorithms.com/a02-_lines.html.
func distPointToSegment(p, a, b geom.Point) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	wx, wy := p.X-a.X, p.Y-a.Y

	c1 := wx*vx + wy*vy
	if c1 <= 0 {
		return math.Hypot(wx, wy)
	}
	c2 := vx*vx + vy*vy
	if c2 <= c1 {
		return math.Hypot(p.X-b.X, p.Y-b.Y)
	}
	t := c1 / c2
	return math.Hypot(p.X-(a.X+t*vx), p.Y-(a.Y+t*vy))
}
