// Package geom implements the planar geometry kernel the PCB router core
// consumes: points, rectangles, circles, segments, capsules, polygons,
// triangles, paths and compounds, plus the affine transform used to place
// components and pins on the board.
//
// Units are millimetres, angles are degrees counter-clockwise from +x, and
// the y-axis points up. Equality and ordering predicates use Epsilon
// tolerance, matching the exporter's contract that the core is expected to
// honour (see the collaborator contract in the router design).
package geom

import "math"

// Epsilon is the tolerance used for all equality/ordering predicates.
const Epsilon = 1e-6

func eq(a, b float64) bool { return math.Abs(a-b) < Epsilon }
func le(a, b float64) bool { return a < b || eq(a, b) }
func ge(a, b float64) bool { return a > b || eq(a, b) }
func lt(a, b float64) bool { return a < b && !eq(a, b) }
func gt(a, b float64) bool { return a > b && !eq(a, b) }

// Pt is a point in world (mm) space.
type Pt struct {
	X, Y float64
}

func P(x, y float64) Pt { return Pt{x, y} }

func (p Pt) Add(o Pt) Pt       { return Pt{p.X + o.X, p.Y + o.Y} }
func (p Pt) Sub(o Pt) Pt       { return Pt{p.X - o.X, p.Y - o.Y} }
func (p Pt) Scale(s float64) Pt { return Pt{p.X * s, p.Y * s} }
func (p Pt) Dot(o Pt) float64  { return p.X*o.X + p.Y*o.Y }
func (p Pt) Cross(o Pt) float64 { return p.X*o.Y - p.Y*o.X }
func (p Pt) Len() float64      { return math.Hypot(p.X, p.Y) }
func (p Pt) Dist(o Pt) float64 { return p.Sub(o).Len() }
func (p Pt) Eq(o Pt) bool      { return eq(p.X, o.X) && eq(p.Y, o.Y) }

// PtI is a point in grid (integer cell) space.
type PtI struct {
	X, Y int64
}

func PI(x, y int64) PtI { return PtI{x, y} }

func (p PtI) Add(o PtI) PtI { return PtI{p.X + o.X, p.Y + o.Y} }
func (p PtI) Eq(o PtI) bool { return p.X == o.X && p.Y == o.Y }
