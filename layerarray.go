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

import "github.com/ctessum/sparse"

// PlottableLayerArray validates a's shape against the grid and returns the
// flat slice of per-cell values (length NCPL) for the given layer:
//
//   - rank 3: exactly one of the first two axes must have size 1; it is
//     squeezed out and the remaining layer axis indexed by layer.
//   - rank 2: the first axis is indexed by layer directly
//     (shape [NLay][NCPL] assumed).
//   - rank 1: length NCPL is returned as-is regardless of layer; length
//     NLay*NCPL is treated as [NLay][NCPL] and indexed by layer.
//
// Any other shape is a ShapeError. The returned slice aliases a's backing
// storage; it is not a copy.
func (g *Grid) PlottableLayerArray(a *sparse.DenseArray, layer int) ([]float64, error) {
	ncpl := g.NCPL()
	var out []float64
	switch len(a.Shape) {
	case 3:
		// Squeeze the single size-1 axis out of the first two, then
		// index the remaining layer axis.
		n0, n1, n2 := a.Shape[0], a.Shape[1], a.Shape[2]
		if (n0 == 1) == (n1 == 1) {
			return nil, &ShapeError{Shape: a.Shape,
				Reason: "a 3-dimensional array must have exactly one size-1 axis among its first two"}
		}
		nlayers := n0 * n1 // one of the two is 1
		if layer < 0 || layer >= nlayers {
			return nil, &IndexError{Index: layer, Size: nlayers}
		}
		out = a.Elements[layer*n2 : (layer+1)*n2]
	case 2:
		if layer < 0 || layer >= a.Shape[0] {
			return nil, &IndexError{Index: layer, Size: a.Shape[0]}
		}
		out = a.Elements[layer*a.Shape[1] : (layer+1)*a.Shape[1]]
	case 1:
		switch a.Shape[0] {
		case ncpl:
			out = a.Elements
		case g.NNodes():
			if layer < 0 || layer >= g.NLay() {
				return nil, &IndexError{Index: layer, Size: g.NLay()}
			}
			out = a.Elements[layer*ncpl : (layer+1)*ncpl]
		default:
			return nil, &ShapeError{Shape: a.Shape,
				Reason: "a 1-dimensional array must have length NCPL or NLay*NCPL"}
		}
	default:
		return nil, &ShapeError{Shape: a.Shape,
			Reason: "array to plot must have 1, 2, or 3 dimensions"}
	}
	// This should be unreachable given the branches above; failure here
	// indicates a caller/data mismatch, not a grid defect.
	if len(out) != ncpl {
		return nil, ErrInternal
	}
	return out, nil
}

// NumPlottableLayers returns the number of per-layer slices that can be
// extracted from a.
func (g *Grid) NumPlottableLayers(a *sparse.DenseArray) int {
	if len(a.Shape) == 1 && a.Shape[0] == g.NCPL() {
		return 1
	}
	return len(a.Elements) / g.NCPL()
}
