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
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/ctessum/geom"
)

func TestCellVerticesLayerInvariant(t *testing.T) {
	g := testGrid(t) // nlay=3, ncpl=4
	for cellid := 0; cellid < 4; cellid++ {
		base, err := g.CellVertices(cellid)
		if err != nil {
			t.Fatal(err)
		}
		for lay := 1; lay < 3; lay++ {
			have, err := g.CellVertices(cellid + lay*4)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(base, have) {
				t.Errorf("cell %d layer %d: want %v but have %v", cellid, lay, base, have)
			}
		}
	}
}

func TestCellVerticesOutOfRange(t *testing.T) {
	g := testGrid(t)
	var idxErr *IndexError
	if _, err := g.CellVertices(g.NNodes()); !errors.As(err, &idxErr) {
		t.Errorf("want an IndexError but have %v", err)
	}
	if _, err := g.CellVertices(-1); !errors.As(err, &idxErr) {
		t.Errorf("want an IndexError but have %v", err)
	}
}

func TestCellVerticesWorldFrame(t *testing.T) {
	cfg := testConfig()
	cfg.XOff, cfg.YOff = 10, 20
	g, err := NewGrid(cfg)
	if err != nil {
		t.Fatal(err)
	}
	have, err := g.CellVertices(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.Point{{X: 10, Y: 22}, {X: 11, Y: 22}, {X: 11, Y: 21}, {X: 10, Y: 21}}
	if !reflect.DeepEqual(want, have) {
		t.Errorf("want %v but have %v", want, have)
	}
}

func TestGridLines(t *testing.T) {
	g := testGrid(t)
	lines, err := g.GridLines()
	if err != nil {
		t.Fatal(err)
	}
	// One line per ring edge: 4 cells of 4 edges each.
	if len(lines) != 16 {
		t.Fatalf("want 16 lines but have %d", len(lines))
	}
	// The first line of each cell is its closing edge.
	want := geom.LineString{{X: 0, Y: 1}, {X: 0, Y: 2}}
	if !reflect.DeepEqual(want, lines[0]) {
		t.Errorf("want %v but have %v", want, lines[0])
	}
	for _, l := range lines {
		if len(l) != 2 {
			t.Fatalf("want 2-point lines but have %d points", len(l))
		}
	}
}

func TestCellPolygons(t *testing.T) {
	g := testGrid(t)
	polys, err := g.CellPolygons()
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 4 {
		t.Fatalf("want 4 polygons but have %d", len(polys))
	}
	for i, p := range polys {
		ring := p[0]
		if len(ring) != 5 {
			t.Fatalf("polygon %d: want a closed 5-point ring but have %d points", i, len(ring))
		}
		if !ring[0].Equals(ring[len(ring)-1]) {
			t.Errorf("polygon %d: ring is not closed", i)
		}
	}
	if a := polys[0].Area(); math.Abs(a-1) > 1e-12 {
		t.Errorf("polygon 0 area: want 1 but have %g", a)
	}
}

func TestCellGeometries(t *testing.T) {
	g := testGrid(t)
	rows, err := g.CellGeometries()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("want 4 rows but have %d", len(rows))
	}
	polys, err := g.CellPolygons()
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		if len(row) != 1 {
			t.Fatalf("row %d: want a single-polygon row but have %d", i, len(row))
		}
		if !reflect.DeepEqual(row[0], polys[i]) {
			t.Errorf("row %d disagrees with CellPolygons", i)
		}
	}
}

func TestExtent(t *testing.T) {
	g := testGrid(t)
	xmin, xmax, ymin, ymax, err := g.Extent()
	if err != nil {
		t.Fatal(err)
	}
	want := [4]float64{0, 2, 0, 2}
	if have := [4]float64{xmin, xmax, ymin, ymax}; have != want {
		t.Errorf("want %v but have %v", want, have)
	}

	// A 90 degree rotation about the origin maps (x, y) to (-y, x).
	g.SetRotation(90)
	xmin, xmax, ymin, ymax, err = g.Extent()
	if err != nil {
		t.Fatal(err)
	}
	tol := 1e-12
	if math.Abs(xmin+2) > tol || math.Abs(xmax) > tol ||
		math.Abs(ymin) > tol || math.Abs(ymax-2) > tol {
		t.Errorf("rotated: want (-2, 0, 0, 2) but have (%g, %g, %g, %g)", xmin, xmax, ymin, ymax)
	}
}

func TestBounds(t *testing.T) {
	g := testGrid(t)
	b, err := g.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	want := &geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 2, Y: 2}}
	if !reflect.DeepEqual(want, b) {
		t.Errorf("want %v but have %v", want, b)
	}
}

func TestVerticesWorldFrame(t *testing.T) {
	cfg := testConfig()
	cfg.XOff, cfg.YOff = 1, 2
	g, err := NewGrid(cfg)
	if err != nil {
		t.Fatal(err)
	}
	verts := g.Vertices()
	if len(verts) != 9 {
		t.Fatalf("want 9 vertices but have %d", len(verts))
	}
	if want := (geom.Point{X: 1, Y: 4}); !verts[0].Equals(want) {
		t.Errorf("vertex 0: want %v but have %v", want, verts[0])
	}
}

func TestGeometryIncomplete(t *testing.T) {
	g, err := NewGrid(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, _, err := g.Extent(); !errors.Is(err, ErrIncomplete) {
		t.Errorf("want ErrIncomplete but have %v", err)
	}
	if _, err := g.XYZCellCenters(); !errors.Is(err, ErrIncomplete) {
		t.Errorf("want ErrIncomplete but have %v", err)
	}
}
