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

// Package grb reads MODFLOW 6 binary grid (*.grb) files and constructs
// vertex model grids from them.
//
// A grb file starts with four fixed-width ASCII header records (grid type,
// version, the number of variable definitions, and the definition record
// length), followed by one fixed-width definition record per variable and a
// packed little-endian data section in definition order.
package grb

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/vertgrid"
)

// headerLen is the width of the four leading header records in bytes.
const headerLen = 50

type varDef struct {
	name  string
	typ   string
	shape []int
}

func (d varDef) size() int {
	n := 1
	for _, s := range d.shape {
		n *= s
	}
	return n
}

// A File holds the decoded contents of a binary grid file.
type File struct {
	// GridType is the grid type declared in the file header,
	// for example "DISV" or "DIS".
	GridType string

	// Version is the file format version.
	Version int

	defs    []varDef
	ints    map[string][]int32
	doubles map[string][]float64
	chars   map[string]string
}

// Read decodes a binary grid file of any grid type.
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	f := &File{
		ints:    make(map[string][]int32),
		doubles: make(map[string][]float64),
		chars:   make(map[string]string),
	}

	grid, err := readRecord(br, headerLen)
	if err != nil {
		return nil, fmt.Errorf("grb: reading grid type record: %w", err)
	}
	if len(grid) != 2 || grid[0] != "GRID" {
		return nil, fmt.Errorf("grb: malformed grid type record %v", grid)
	}
	f.GridType = grid[1]

	version, err := readRecord(br, headerLen)
	if err != nil {
		return nil, fmt.Errorf("grb: reading version record: %w", err)
	}
	if len(version) != 2 || version[0] != "VERSION" {
		return nil, fmt.Errorf("grb: malformed version record %v", version)
	}
	if f.Version, err = strconv.Atoi(version[1]); err != nil {
		return nil, fmt.Errorf("grb: parsing version: %w", err)
	}

	ntxt, err := readIntRecord(br, "NTXT")
	if err != nil {
		return nil, err
	}
	lentxt, err := readIntRecord(br, "LENTXT")
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"grid":    f.GridType,
		"version": f.Version,
		"ntxt":    ntxt,
		"lentxt":  lentxt,
	}).Debug("grb: reading variable definitions")

	for i := 0; i < ntxt; i++ {
		fields, err := readRecord(br, lentxt)
		if err != nil {
			return nil, fmt.Errorf("grb: reading definition %d: %w", i, err)
		}
		def, err := parseDef(fields)
		if err != nil {
			return nil, err
		}
		f.defs = append(f.defs, def)
	}

	for _, def := range f.defs {
		log.Debugf("grb: reading %s %s %v", def.name, def.typ, def.shape)
		switch def.typ {
		case "INTEGER":
			data := make([]int32, def.size())
			if err := binary.Read(br, binary.LittleEndian, data); err != nil {
				return nil, fmt.Errorf("grb: reading %s: %w", def.name, err)
			}
			f.ints[def.name] = data
		case "DOUBLE":
			data := make([]float64, def.size())
			if err := binary.Read(br, binary.LittleEndian, data); err != nil {
				return nil, fmt.Errorf("grb: reading %s: %w", def.name, err)
			}
			f.doubles[def.name] = data
		case "CHARACTER":
			data := make([]byte, def.size())
			if _, err := io.ReadFull(br, data); err != nil {
				return nil, fmt.Errorf("grb: reading %s: %w", def.name, err)
			}
			f.chars[def.name] = strings.TrimRight(string(data), "\x00 ")
		default:
			return nil, fmt.Errorf("grb: variable %s has unsupported type %s", def.name, def.typ)
		}
	}
	return f, nil
}

// readRecord reads a fixed-width ASCII record and splits it into fields.
func readRecord(r io.Reader, width int) ([]string, error) {
	buf := make([]byte, width)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return strings.Fields(string(buf)), nil
}

// readIntRecord reads a fixed-width "NAME value" header record.
func readIntRecord(r io.Reader, name string) (int, error) {
	fields, err := readRecord(r, headerLen)
	if err != nil {
		return 0, fmt.Errorf("grb: reading %s record: %w", name, err)
	}
	if len(fields) != 2 || fields[0] != name {
		return 0, fmt.Errorf("grb: malformed %s record %v", name, fields)
	}
	v, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("grb: parsing %s: %w", name, err)
	}
	return v, nil
}

// parseDef parses a variable definition record of the form
// "NAME TYPE NDIM n dim1 … dimn".
func parseDef(fields []string) (varDef, error) {
	if len(fields) < 4 || fields[2] != "NDIM" {
		return varDef{}, fmt.Errorf("grb: malformed variable definition %v", fields)
	}
	ndim, err := strconv.Atoi(fields[3])
	if err != nil || len(fields) < 4+ndim {
		return varDef{}, fmt.Errorf("grb: malformed variable definition %v", fields)
	}
	def := varDef{name: fields[0], typ: fields[1]}
	for _, d := range fields[4 : 4+ndim] {
		v, err := strconv.Atoi(d)
		if err != nil {
			return varDef{}, fmt.Errorf("grb: parsing dimension of %s: %w", def.name, err)
		}
		def.shape = append(def.shape, v)
	}
	return def, nil
}

// Ints returns the named integer variable.
func (f *File) Ints(name string) ([]int32, bool) {
	v, ok := f.ints[name]
	return v, ok
}

// Doubles returns the named double-precision variable.
func (f *File) Doubles(name string) ([]float64, bool) {
	v, ok := f.doubles[name]
	return v, ok
}

func (f *File) intScalar(name string) (int, error) {
	v, ok := f.ints[name]
	if !ok || len(v) != 1 {
		return 0, fmt.Errorf("grb: missing scalar variable %s", name)
	}
	return int(v[0]), nil
}

func (f *File) doubleScalar(name string) (float64, error) {
	v, ok := f.doubles[name]
	if !ok || len(v) != 1 {
		return 0, fmt.Errorf("grb: missing scalar variable %s", name)
	}
	return v[0], nil
}

// Grid assembles a vertex model grid from the decoded file. Files with a
// grid type other than DISV are rejected.
func (f *File) Grid() (*vertgrid.Grid, error) {
	if f.GridType != "DISV" {
		return nil, fmt.Errorf("grb: binary grid file is a %s grid, not a vertex (DISV) grid", f.GridType)
	}
	nlay, err := f.intScalar("NLAY")
	if err != nil {
		return nil, err
	}
	ncpl, err := f.intScalar("NCPL")
	if err != nil {
		return nil, err
	}
	nvert, err := f.intScalar("NVERT")
	if err != nil {
		return nil, err
	}

	cfg := vertgrid.Config{}
	if cfg.XOff, err = f.doubleScalar("XORIGIN"); err != nil {
		return nil, err
	}
	if cfg.YOff, err = f.doubleScalar("YORIGIN"); err != nil {
		return nil, err
	}
	if cfg.Rotation, err = f.doubleScalar("ANGROT"); err != nil {
		return nil, err
	}

	verts, ok := f.doubles["VERTICES"]
	if !ok || len(verts) != 2*nvert {
		return nil, fmt.Errorf("grb: VERTICES has %d values but want %d", len(verts), 2*nvert)
	}
	cfg.Vertices = make([]vertgrid.Vertex, nvert)
	for i := 0; i < nvert; i++ {
		cfg.Vertices[i] = vertgrid.Vertex{ID: i, X: verts[2*i], Y: verts[2*i+1]}
	}

	cellx, ok := f.doubles["CELLX"]
	if !ok || len(cellx) != ncpl {
		return nil, fmt.Errorf("grb: CELLX has %d values but want %d", len(cellx), ncpl)
	}
	celly, ok := f.doubles["CELLY"]
	if !ok || len(celly) != ncpl {
		return nil, fmt.Errorf("grb: CELLY has %d values but want %d", len(celly), ncpl)
	}
	iavert, ok := f.ints["IAVERT"]
	if !ok || len(iavert) != ncpl+1 {
		return nil, fmt.Errorf("grb: IAVERT has %d values but want %d", len(iavert), ncpl+1)
	}
	javert, ok := f.ints["JAVERT"]
	if !ok {
		return nil, fmt.Errorf("grb: missing variable JAVERT")
	}

	cfg.Cell2D = make([]vertgrid.Cell2D, ncpl)
	for i := 0; i < ncpl; i++ {
		// IAVERT and JAVERT are 1-based, and each ring closes on its
		// starting vertex; the closing duplicate is dropped.
		start, end := int(iavert[i])-1, int(iavert[i+1])-1
		if start < 0 || end > len(javert) || start > end {
			return nil, fmt.Errorf("grb: IAVERT entry %d is out of range", i)
		}
		ring := make([]int, 0, end-start)
		for _, v := range javert[start:end] {
			ring = append(ring, int(v)-1)
		}
		if len(ring) > 1 && ring[len(ring)-1] == ring[0] {
			ring = ring[:len(ring)-1]
		}
		cfg.Cell2D[i] = vertgrid.Cell2D{ID: i, X: cellx[i], Y: celly[i], Vertices: ring}
	}

	top, ok := f.doubles["TOP"]
	if !ok || len(top) != ncpl {
		return nil, fmt.Errorf("grb: TOP has %d values but want %d", len(top), ncpl)
	}
	cfg.Top = top
	botm, ok := f.doubles["BOTM"]
	if !ok || len(botm) != nlay*ncpl {
		return nil, fmt.Errorf("grb: BOTM has %d values but want %d", len(botm), nlay*ncpl)
	}
	cfg.Botm = sparse.ZerosDense(nlay, ncpl)
	copy(cfg.Botm.Elements, botm)

	if idomain, ok := f.ints["IDOMAIN"]; ok && len(idomain) == nlay*ncpl {
		cfg.IDomain = sparse.ZerosDense(nlay, ncpl)
		for i, v := range idomain {
			cfg.IDomain.Elements[i] = float64(v)
		}
	}

	return vertgrid.NewGrid(cfg)
}

// ReadGrid decodes a binary grid file and assembles the vertex model grid
// it describes.
func ReadGrid(r io.Reader) (*vertgrid.Grid, error) {
	f, err := Read(r)
	if err != nil {
		return nil, err
	}
	return f.Grid()
}
