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

import "math"

// RotationRadians returns the grid rotation in radians,
// counter-clockwise positive.
func (g *Grid) RotationRadians() float64 {
	return g.angrot * math.Pi / 180
}

// hasRefFrame reports whether the grid's reference frame differs from the
// identity transform.
func (g *Grid) hasRefFrame() bool {
	return g.xoff != 0 || g.yoff != 0 || g.angrot != 0
}

// ToWorld converts a point from the grid's local frame to world
// coordinates: rotation about the local origin, then translation by the
// origin offset.
func (g *Grid) ToWorld(x, y float64) (float64, float64) {
	return toWorld(x, y, g.xoff, g.yoff, g.RotationRadians())
}

// ToLocal converts a point from world coordinates to the grid's local
// frame. It is the exact algebraic inverse of ToWorld.
func (g *Grid) ToLocal(x, y float64) (float64, float64) {
	return toLocal(x, y, g.xoff, g.yoff, g.RotationRadians())
}

// ToWorldSlice applies ToWorld element-wise, returning new slices.
// xs and ys must be the same length.
func (g *Grid) ToWorldSlice(xs, ys []float64) ([]float64, []float64) {
	xo := make([]float64, len(xs))
	yo := make([]float64, len(ys))
	for i := range xs {
		xo[i], yo[i] = g.ToWorld(xs[i], ys[i])
	}
	return xo, yo
}

// ToLocalSlice applies ToLocal element-wise, returning new slices.
// xs and ys must be the same length.
func (g *Grid) ToLocalSlice(xs, ys []float64) ([]float64, []float64) {
	xo := make([]float64, len(xs))
	yo := make([]float64, len(ys))
	for i := range xs {
		xo[i], yo[i] = g.ToLocal(xs[i], ys[i])
	}
	return xo, yo
}

func toWorld(x, y, xoff, yoff, theta float64) (float64, float64) {
	sin, cos := math.Sincos(theta)
	return xoff + x*cos - y*sin, yoff + x*sin + y*cos
}

func toLocal(x, y, xoff, yoff, theta float64) (float64, float64) {
	x, y = x-xoff, y-yoff
	sin, cos := math.Sincos(theta)
	return x*cos + y*sin, y*cos - x*sin
}
