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
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

// counting returns an array of the given shape filled with 0, 1, 2, ...
func counting(shape ...int) *sparse.DenseArray {
	a := sparse.ZerosDense(shape...)
	for i := range a.Elements {
		a.Elements[i] = float64(i)
	}
	return a
}

func TestPlottableLayerArrayRank1(t *testing.T) {
	g := testGrid(t) // nlay=3, ncpl=4

	// Length ncpl: returned unchanged for any layer.
	a := counting(4)
	for layer := 0; layer < 3; layer++ {
		have, err := g.PlottableLayerArray(a, layer)
		if err != nil {
			t.Fatal(err)
		}
		if want := []float64{0, 1, 2, 3}; !reflect.DeepEqual(want, have) {
			t.Errorf("layer %d: want %v but have %v", layer, want, have)
		}
	}

	// Length nlay*ncpl: reshaped to [nlay][ncpl] and indexed.
	flat := counting(12)
	have, err := g.PlottableLayerArray(flat, 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{8, 9, 10, 11}; !reflect.DeepEqual(want, have) {
		t.Errorf("want %v but have %v", want, have)
	}

	// Any other length is a shape error.
	var shapeErr *ShapeError
	if _, err := g.PlottableLayerArray(counting(7), 0); !errors.As(err, &shapeErr) {
		t.Errorf("want a ShapeError but have %v", err)
	}
}

func TestPlottableLayerArrayRank2(t *testing.T) {
	g := testGrid(t)
	a := counting(3, 4)
	flat := counting(12)
	for layer := 0; layer < 3; layer++ {
		r2, err := g.PlottableLayerArray(a, layer)
		if err != nil {
			t.Fatal(err)
		}
		r1, err := g.PlottableLayerArray(flat, layer)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(r2, r1) {
			t.Errorf("layer %d: rank-2 indexing %v disagrees with reshaped rank-1 %v", layer, r2, r1)
		}
	}

	var idxErr *IndexError
	if _, err := g.PlottableLayerArray(a, 3); !errors.As(err, &idxErr) {
		t.Errorf("want an IndexError but have %v", err)
	}
}

func TestPlottableLayerArrayRank3(t *testing.T) {
	g := testGrid(t)
	r2 := counting(3, 4)
	for _, a := range []*sparse.DenseArray{counting(1, 3, 4), counting(3, 1, 4)} {
		for layer := 0; layer < 3; layer++ {
			have, err := g.PlottableLayerArray(a, layer)
			if err != nil {
				t.Fatal(err)
			}
			want, err := g.PlottableLayerArray(r2, layer)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(want, have) {
				t.Errorf("shape %v layer %d: want %v but have %v", a.Shape, layer, want, have)
			}
		}
	}

	var shapeErr *ShapeError
	if _, err := g.PlottableLayerArray(counting(3, 3, 4), 0); !errors.As(err, &shapeErr) {
		t.Errorf("no size-1 axis: want a ShapeError but have %v", err)
	}
	if _, err := g.PlottableLayerArray(counting(1, 1, 4), 0); !errors.As(err, &shapeErr) {
		t.Errorf("two size-1 axes: want a ShapeError but have %v", err)
	}
}

func TestPlottableLayerArrayErrors(t *testing.T) {
	g := testGrid(t)
	var shapeErr *ShapeError
	if _, err := g.PlottableLayerArray(counting(1, 3, 4, 1), 0); !errors.As(err, &shapeErr) {
		t.Errorf("rank 4: want a ShapeError but have %v", err)
	}
	// A rank-2 array whose rows are not ncpl long slips past the branch
	// checks and trips the final length check.
	if _, err := g.PlottableLayerArray(counting(3, 5), 0); !errors.Is(err, ErrInternal) {
		t.Errorf("want ErrInternal but have %v", err)
	}
}

func TestNumPlottableLayers(t *testing.T) {
	g := testGrid(t)
	if n := g.NumPlottableLayers(counting(4)); n != 1 {
		t.Errorf("want 1 but have %d", n)
	}
	if n := g.NumPlottableLayers(counting(3, 4)); n != 3 {
		t.Errorf("want 3 but have %d", n)
	}
	if n := g.NumPlottableLayers(counting(12)); n != 3 {
		t.Errorf("want 3 but have %d", n)
	}
}
