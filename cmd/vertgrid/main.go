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

// Command vertgrid inspects MODFLOW 6 binary grid files: it reports grid
// dimensions and extents, locates points within the grid, and exports cell
// polygons as GeoJSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ctessum/geom/encoding/geojson"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/vertgrid"
	"github.com/spatialmodel/vertgrid/grb"
)

var (
	verbose bool
	local   bool
	forgive bool
	outFile string
)

var root = &cobra.Command{
	Use:   "vertgrid",
	Short: "vertgrid inspects MODFLOW 6 vertex (DISV) binary grid files",
	PersistentPreRun: func(*cobra.Command, []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var infoCmd = &cobra.Command{
	Use:   "info FILE.grb",
	Short: "Print grid dimensions, extent, and reference frame",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGrid(args[0])
		if err != nil {
			return err
		}
		nlay, ncpl := g.Shape()
		fmt.Printf("layers:   %d\n", nlay)
		fmt.Printf("cells:    %d per layer, %d total\n", ncpl, g.NNodes())
		fmt.Printf("vertices: %d\n", g.NVert())
		fmt.Printf("origin:   (%g, %g)\n", g.XOffset(), g.YOffset())
		fmt.Printf("rotation: %g degrees\n", g.Rotation())
		xmin, xmax, ymin, ymax, err := g.Extent()
		if err != nil {
			return err
		}
		fmt.Printf("extent:   x [%g, %g], y [%g, %g]\n", xmin, xmax, ymin, ymax)
		return nil
	},
}

var intersectCmd = &cobra.Command{
	Use:   "intersect FILE.grb X Y [Z]",
	Short: "Find the cell (and layer) containing a point",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGrid(args[0])
		if err != nil {
			return err
		}
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parsing x: %w", err)
		}
		y, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("parsing y: %w", err)
		}
		if len(args) == 4 {
			z, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return fmt.Errorf("parsing z: %w", err)
			}
			lay, cell, err := g.IntersectZ(x, y, z, local, forgive)
			if err != nil {
				return err
			}
			fmt.Printf("layer %d cell %d\n", lay, cell)
			return nil
		}
		cell, err := g.Intersect(x, y, local, forgive)
		if err != nil {
			return err
		}
		fmt.Printf("cell %d\n", cell)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export FILE.grb",
	Short: "Export cell polygons as a GeoJSON feature collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGrid(args[0])
		if err != nil {
			return err
		}
		polys, err := g.CellPolygons()
		if err != nil {
			return err
		}
		type feature struct {
			Type       string            `json:"type"`
			Geometry   *geojson.Geometry `json:"geometry"`
			Properties map[string]int    `json:"properties"`
		}
		fc := struct {
			Type     string    `json:"type"`
			Features []feature `json:"features"`
		}{Type: "FeatureCollection"}
		for i, p := range polys {
			gg, err := geojson.ToGeoJSON(p)
			if err != nil {
				return fmt.Errorf("encoding cell %d: %w", i, err)
			}
			fc.Features = append(fc.Features, feature{
				Type:       "Feature",
				Geometry:   gg,
				Properties: map[string]int{"cellid": i},
			})
		}
		w := os.Stdout
		if outFile != "" {
			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fc)
	},
}

func loadGrid(path string) (*vertgrid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	log.Debugf("reading binary grid file %s", path)
	return grb.ReadGrid(f)
}

func main() {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write debug information to standard output")
	intersectCmd.Flags().BoolVar(&local, "local", false, "interpret coordinates in the grid's local frame")
	intersectCmd.Flags().BoolVar(&forgive, "forgive", false, "report -1 instead of failing for points outside the grid")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default standard output)")
	root.AddCommand(infoCmd, intersectCmd, exportCmd)
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
