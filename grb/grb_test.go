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

package grb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fixtureGRB builds the bytes of a binary grid file describing two adjacent
// unit-square cells in one layer, with the given grid type in the header.
func fixtureGRB(t *testing.T, gridType string) []byte {
	t.Helper()
	const lentxt = 60
	var buf bytes.Buffer
	header := func(s string) { fmt.Fprintf(&buf, "%-50s", s) }
	def := func(s string) { fmt.Fprintf(&buf, "%-*s", lentxt, s) }
	write := func(data interface{}) {
		if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
			t.Fatal(err)
		}
	}

	type variable struct {
		def  string
		data interface{}
	}
	vars := []variable{
		{"NCELLS INTEGER NDIM 0", []int32{2}},
		{"NLAY INTEGER NDIM 0", []int32{1}},
		{"NCPL INTEGER NDIM 0", []int32{2}},
		{"NVERT INTEGER NDIM 0", []int32{6}},
		{"XORIGIN DOUBLE NDIM 0", []float64{100}},
		{"YORIGIN DOUBLE NDIM 0", []float64{200}},
		{"ANGROT DOUBLE NDIM 0", []float64{0}},
		{"TOP DOUBLE NDIM 1 2", []float64{0, 0}},
		{"BOTM DOUBLE NDIM 1 2", []float64{-1, -1}},
		{"VERTICES DOUBLE NDIM 2 6 2", []float64{
			0, 0, 1, 0, 2, 0,
			0, 1, 1, 1, 2, 1,
		}},
		{"CELLX DOUBLE NDIM 1 2", []float64{0.5, 1.5}},
		{"CELLY DOUBLE NDIM 1 2", []float64{0.5, 0.5}},
		{"IAVERT INTEGER NDIM 1 3", []int32{1, 6, 11}},
		// Rings are 1-based and close on their starting vertex.
		{"JAVERT INTEGER NDIM 1 10", []int32{1, 2, 5, 4, 1, 2, 3, 6, 5, 2}},
		{"IDOMAIN INTEGER NDIM 1 2", []int32{1, 1}},
	}

	header("GRID " + gridType)
	header("VERSION 1")
	header(fmt.Sprintf("NTXT %d", len(vars)))
	header(fmt.Sprintf("LENTXT %d", lentxt))
	for _, v := range vars {
		def(v.def)
	}
	for _, v := range vars {
		write(v.data)
	}
	return buf.Bytes()
}

func TestRead(t *testing.T) {
	f, err := Read(bytes.NewReader(fixtureGRB(t, "DISV")))
	if err != nil {
		t.Fatal(err)
	}
	if f.GridType != "DISV" {
		t.Errorf("grid type: want DISV but have %s", f.GridType)
	}
	if f.Version != 1 {
		t.Errorf("version: want 1 but have %d", f.Version)
	}
	iavert, ok := f.Ints("IAVERT")
	if !ok {
		t.Fatal("missing IAVERT")
	}
	if want := []int32{1, 6, 11}; !reflect.DeepEqual(want, iavert) {
		t.Errorf("IAVERT: want %v but have %v", want, iavert)
	}
	cellx, ok := f.Doubles("CELLX")
	if !ok {
		t.Fatal("missing CELLX")
	}
	if want := []float64{0.5, 1.5}; !cmp.Equal(want, cellx) {
		t.Errorf("CELLX: %s", cmp.Diff(want, cellx))
	}
}

func TestReadGrid(t *testing.T) {
	g, err := ReadGrid(bytes.NewReader(fixtureGRB(t, "DISV")))
	if err != nil {
		t.Fatal(err)
	}
	if nlay := g.NLay(); nlay != 1 {
		t.Errorf("nlay: want 1 but have %d", nlay)
	}
	if ncpl := g.NCPL(); ncpl != 2 {
		t.Errorf("ncpl: want 2 but have %d", ncpl)
	}
	if nv := g.NVert(); nv != 6 {
		t.Errorf("nvert: want 6 but have %d", nv)
	}
	if xoff := g.XOffset(); xoff != 100 {
		t.Errorf("xoff: want 100 but have %g", xoff)
	}
	if !g.Complete() {
		t.Error("grid read from file should be complete")
	}
	// The closing duplicate vertex is dropped from each ring.
	want := [][]int{{0, 1, 4, 3}, {1, 2, 5, 4}}
	if have := g.IVerts(); !reflect.DeepEqual(want, have) {
		t.Errorf("iverts: want %v but have %v", want, have)
	}
	// The shared edge midpoint, in world coordinates, resolves to the
	// lower-indexed cell.
	cell, err := g.Intersect(101, 200.5, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if cell != 0 {
		t.Errorf("want cell 0 but have %d", cell)
	}
}

func TestReadGridRejectsNonVertexGrid(t *testing.T) {
	_, err := ReadGrid(bytes.NewReader(fixtureGRB(t, "DIS")))
	if err == nil {
		t.Fatal("want an error for a non-DISV grid file")
	}
}

func TestReadTruncated(t *testing.T) {
	data := fixtureGRB(t, "DISV")
	if _, err := Read(bytes.NewReader(data[:len(data)-8])); err == nil {
		t.Error("want an error for a truncated file")
	}
	if _, err := Read(bytes.NewReader(data[:40])); err == nil {
		t.Error("want an error for a truncated header")
	}
}
