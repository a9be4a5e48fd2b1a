package geom

import "math"

// Shape is the common interface every primitive implements: bounds,
// intersection, containment and distance, each evaluated against another
// arbitrary Shape.
type Shape interface {
	Bounds() Rect
	Intersects(Shape) bool
	Contains(Shape) bool
	DistTo(Shape) float64
}

func dispatchIntersects(a, b Shape) bool {
	if !a.Bounds().IntersectsRect(b.Bounds()) {
		return false
	}
	for _, ea := range decompose(a) {
		for _, eb := range decompose(b) {
			if elemsIntersect(ea, eb) {
				return true
			}
		}
	}
	return false
}

func dispatchContains(a, b Shape) bool {
	if !a.Bounds().ContainsRect(b.Bounds()) {
		return false
	}
	bElems := decompose(b)
	for _, eb := range bElems {
		contained := false
		for _, ea := range decompose(a) {
			if elemContains(ea, eb) {
				contained = true
				break
			}
		}
		if !contained {
			return false
		}
	}
	return true
}

func dispatchDist(a, b Shape) float64 {
	min := math.MaxFloat64
	for _, ea := range decompose(a) {
		for _, eb := range decompose(b) {
			if d := elemDist(ea, eb); d < min {
				min = d
			}
		}
	}
	return min
}

// Circle is a filled disc.
type Circle struct {
	Center Pt
	Radius float64
}

func NewCircle(c Pt, r float64) Circle { return Circle{c, r} }

func (c Circle) Bounds() Rect {
	return NewRect(c.Center.X-c.Radius, c.Center.Y-c.Radius, 2*c.Radius, 2*c.Radius)
}
func (c Circle) Intersects(s Shape) bool { return dispatchIntersects(c, s) }
func (c Circle) Contains(s Shape) bool   { return dispatchContains(c, s) }
func (c Circle) DistTo(s Shape) float64  { return dispatchDist(c, s) }

// Point is a degenerate, zero-radius shape.
type Point struct {
	P Pt
}

func NewPoint(p Pt) Point { return Point{p} }

func (p Point) Bounds() Rect             { return NewRect(p.P.X, p.P.Y, 0, 0) }
func (p Point) Intersects(s Shape) bool  { return dispatchIntersects(p, s) }
func (p Point) Contains(s Shape) bool    { return dispatchContains(p, s) }
func (p Point) DistTo(s Shape) float64   { return dispatchDist(p, s) }

// Segment is a zero-width line between two points.
type Segment struct {
	P0, P1 Pt
}

func NewSegment(a, b Pt) Segment { return Segment{a, b} }

func (s Segment) Bounds() Rect             { return EnclosingRect(s.P0, s.P1) }
func (s Segment) Intersects(o Shape) bool  { return dispatchIntersects(s, o) }
func (s Segment) Contains(o Shape) bool    { return dispatchContains(s, o) }
func (s Segment) DistTo(o Shape) float64   { return dispatchDist(s, o) }

// Capsule is a line segment thickened by Radius — the shape a routed wire
// segment reduces to.
type Capsule struct {
	Seg    Segment
	Radius float64
}

func NewCapsule(a, b Pt, r float64) Capsule { return Capsule{Segment{a, b}, r} }

func (c Capsule) Bounds() Rect {
	b := c.Seg.Bounds()
	return NewRect(b.L()-c.Radius, b.B()-c.Radius, b.W()+2*c.Radius, b.H()+2*c.Radius)
}
func (c Capsule) Intersects(s Shape) bool { return dispatchIntersects(c, s) }
func (c Capsule) Contains(s Shape) bool   { return dispatchContains(c, s) }
func (c Capsule) DistTo(s Shape) float64  { return dispatchDist(c, s) }

// Triangle is a filled, CCW-wound three-point shape.
type Triangle struct {
	A, B, C Pt
}

func NewTriangle(a, b, c Pt) Triangle { return Triangle{a, b, c} }

func (t Triangle) Bounds() Rect {
	r := EnclosingRect(t.A, t.B)
	return r.United(EnclosingRect(t.C, t.C))
}
func (t Triangle) Intersects(s Shape) bool { return dispatchIntersects(t, s) }
func (t Triangle) Contains(s Shape) bool   { return dispatchContains(t, s) }
func (t Triangle) DistTo(s Shape) float64  { return dispatchDist(t, s) }

// Polygon is a filled, simple, CCW-wound polygon. Callers triangulate when
// they need per-triangle tests; the kernel here tests the whole boundary.
type Polygon struct {
	Pts []Pt
}

// NewPolygon builds a CCW polygon, dropping a duplicated closing vertex if
// present (the exporter's contract: "polygons with a duplicated last vertex
// must be canonicalised by dropping it").
func NewPolygon(pts []Pt) Polygon {
	if len(pts) > 1 && pts[0].Eq(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	if signedArea(pts) < 0 {
		pts = reversed(pts)
	}
	return Polygon{Pts: pts}
}

func signedArea(pts []Pt) float64 {
	area := 0.0
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area / 2
}

func reversed(pts []Pt) []Pt {
	out := make([]Pt, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func (p Polygon) Bounds() Rect             { return polyBounds(p.Pts) }
func (p Polygon) Intersects(s Shape) bool  { return dispatchIntersects(p, s) }
func (p Polygon) Contains(s Shape) bool    { return dispatchContains(p, s) }
func (p Polygon) DistTo(s Shape) float64   { return dispatchDist(p, s) }

// Path is a polyline of width 2*Radius — a wire's natural shape. It
// decomposes into Radius-thick capsule caps, one per consecutive point
// pair.
type Path struct {
	Pts    []Pt
	Radius float64
}

func NewPath(pts []Pt, radius float64) Path { return Path{Pts: pts, Radius: radius} }

// Caps returns the capsule segments this path decomposes into.
func (p Path) Caps() []Capsule {
	if len(p.Pts) < 2 {
		return nil
	}
	caps := make([]Capsule, 0, len(p.Pts)-1)
	for i := 0; i < len(p.Pts)-1; i++ {
		caps = append(caps, NewCapsule(p.Pts[i], p.Pts[i+1], p.Radius))
	}
	return caps
}

func (p Path) Bounds() Rect {
	r := EmptyRect()
	for _, c := range p.Caps() {
		r = r.United(c.Bounds())
	}
	return r
}
func (p Path) Intersects(s Shape) bool { return dispatchIntersects(p, s) }
func (p Path) Contains(s Shape) bool   { return dispatchContains(p, s) }
func (p Path) DistTo(s Shape) float64  { return dispatchDist(p, s) }

// Compound is a group of shapes treated as one for bounds/query purposes;
// it decomposes into its constituent leaf shapes at insertion time.
type Compound struct {
	Shapes []Shape
}

func NewCompound(shapes ...Shape) Compound { return Compound{Shapes: shapes} }

func (c Compound) Bounds() Rect {
	r := EmptyRect()
	for _, s := range c.Shapes {
		r = r.United(s.Bounds())
	}
	return r
}
func (c Compound) Intersects(s Shape) bool { return dispatchIntersects(c, s) }
func (c Compound) Contains(s Shape) bool   { return dispatchContains(c, s) }
func (c Compound) DistTo(s Shape) float64  { return dispatchDist(c, s) }
