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
	"fmt"
)

var (
	// ErrIncomplete indicates that the grid is missing the vertex table,
	// cell topology, elevation data, or domain data that an operation
	// requires.
	ErrIncomplete = errors.New("vertgrid: grid construction is incomplete")

	// ErrOutside is returned by the point locator when no cell contains
	// the queried point.
	ErrOutside = errors.New("vertgrid: point given is outside of the model area")

	// ErrInternal indicates an internal consistency check failed; it
	// signals a defect rather than a user error.
	ErrInternal = errors.New("vertgrid: internal consistency check failed")
)

// An IndexError is returned when a cell or node index exceeds the number of
// nodes in the grid.
type IndexError struct {
	Index, Size int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("vertgrid: cellid %d out of index for size %d", e.Index, e.Size)
}

// A ShapeError is returned when a client array's rank or size does not
// match any recognized per-layer layout.
type ShapeError struct {
	Shape  []int
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("vertgrid: array shape %v: %s", e.Shape, e.Reason)
}
