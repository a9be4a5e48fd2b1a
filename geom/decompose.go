package geom

import "math"

type elemKind int

const (
	elemPolygon elemKind = iota
	elemDisc
	elemCapsule
)

// elem is the primitive every concrete Shape decomposes into for pairwise
// intersects/contains/distance tests: a filled convex-ish polygon, a disc,
// or a capsule (thick line segment).
type elem struct {
	kind elemKind
	pts  []Pt // elemPolygon: CCW vertices
	c    Pt   // elemDisc: center; elemCapsule: first endpoint
	p1   Pt   // elemCapsule: second endpoint
	r    float64
}

func polyElem(pts []Pt) elem       { return elem{kind: elemPolygon, pts: pts} }
func discElem(c Pt, r float64) elem { return elem{kind: elemDisc, c: c, r: r} }
func capElem(a, b Pt, r float64) elem {
	return elem{kind: elemCapsule, c: a, p1: b, r: r}
}

func (e elem) bounds() Rect {
	switch e.kind {
	case elemPolygon:
		return polyBounds(e.pts)
	case elemDisc:
		return NewRect(e.c.X-e.r, e.c.Y-e.r, 2*e.r, 2*e.r)
	default: // elemCapsule
		b := polyBounds([]Pt{e.c, e.p1})
		return NewRect(b.L()-e.r, b.B()-e.r, b.W()+2*e.r, b.H()+2*e.r)
	}
}

// decompose reduces any Shape to its primitive elements. Compounds and
// Paths decompose into multiple elements; everything else is one.
func decompose(s Shape) []elem {
	switch v := s.(type) {
	case Rect:
		c := v.corners()
		return []elem{polyElem(c[:])}
	case Circle:
		return []elem{discElem(v.Center, v.Radius)}
	case Point:
		return []elem{discElem(v.P, 0)}
	case Segment:
		return []elem{capElem(v.P0, v.P1, 0)}
	case Capsule:
		return []elem{capElem(v.Seg.P0, v.Seg.P1, v.Radius)}
	case Triangle:
		return []elem{polyElem([]Pt{v.A, v.B, v.C})}
	case Polygon:
		return []elem{polyElem(v.Pts)}
	case Path:
		es := make([]elem, 0, max0(len(v.Pts)-1))
		for _, c := range v.Caps() {
			es = append(es, capElem(c.Seg.P0, c.Seg.P1, c.Radius))
		}
		return es
	case Compound:
		var es []elem
		for _, sub := range v.Shapes {
			es = append(es, decompose(sub)...)
		}
		return es
	default:
		return nil
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func elemsIntersect(a, b elem) bool {
	return elemDist(a, b) <= Epsilon
}

func elemDist(a, b elem) float64 {
	switch {
	case a.kind == elemPolygon && b.kind == elemPolygon:
		return distPolygonPolygon(a.pts, b.pts)
	case a.kind == elemPolygon && b.kind == elemDisc:
		return math.Max(0, distPointPolygon(b.c, a.pts)-b.r)
	case a.kind == elemDisc && b.kind == elemPolygon:
		return math.Max(0, distPointPolygon(a.c, b.pts)-a.r)
	case a.kind == elemPolygon && b.kind == elemCapsule:
		return math.Max(0, distSegmentPolygon(b.c, b.p1, a.pts)-b.r)
	case a.kind == elemCapsule && b.kind == elemPolygon:
		return math.Max(0, distSegmentPolygon(a.c, a.p1, b.pts)-a.r)
	case a.kind == elemDisc && b.kind == elemDisc:
		return math.Max(0, distPointPoint(a.c, b.c)-a.r-b.r)
	case a.kind == elemDisc && b.kind == elemCapsule:
		return math.Max(0, distPointSegment(a.c, b.c, b.p1)-a.r-b.r)
	case a.kind == elemCapsule && b.kind == elemDisc:
		return math.Max(0, distPointSegment(b.c, a.c, a.p1)-a.r-b.r)
	default: // capsule-capsule
		return math.Max(0, distSegmentSegment(a.c, a.p1, b.c, b.p1)-a.r-b.r)
	}
}

// minDistToEdges returns the minimum distance from p to any edge of the
// (assumed convex-ish) polygon pts.
func minDistToEdges(p Pt, pts []Pt) float64 {
	min := math.MaxFloat64
	for i := 0; i < len(pts); i++ {
		if d := distPointSegment(p, pts[i], pts[(i+1)%len(pts)]); d < min {
			min = d
		}
	}
	return min
}

// elemContains reports whether outer's filled region fully contains inner's.
func elemContains(outer, inner elem) bool {
	switch {
	case outer.kind == elemPolygon && inner.kind == elemPolygon:
		return polygonContainsPolygon(outer.pts, inner.pts)
	case outer.kind == elemPolygon && inner.kind == elemDisc:
		return pointInPolygon(inner.c, outer.pts) && ge(minDistToEdges(inner.c, outer.pts), inner.r)
	case outer.kind == elemPolygon && inner.kind == elemCapsule:
		return pointInPolygon(inner.c, outer.pts) && pointInPolygon(inner.p1, outer.pts) &&
			ge(minDistToEdges(inner.c, outer.pts), inner.r) && ge(minDistToEdges(inner.p1, outer.pts), inner.r)
	case outer.kind == elemDisc && inner.kind == elemPolygon:
		for _, p := range inner.pts {
			if gt(p.Dist(outer.c), outer.r) {
				return false
			}
		}
		return true
	case outer.kind == elemDisc && inner.kind == elemDisc:
		return le(distPointPoint(outer.c, inner.c)+inner.r, outer.r)
	case outer.kind == elemDisc && inner.kind == elemCapsule:
		return le(distPointPoint(outer.c, inner.c)+inner.r, outer.r) &&
			le(distPointPoint(outer.c, inner.p1)+inner.r, outer.r)
	default:
		// Capsules (wires) never act as containers in this domain.
		return false
	}
}
