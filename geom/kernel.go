package geom

import "math"

// This file holds the low-level pairwise predicates the rest of the kernel
// is built from: point/segment/polygon distance and overlap tests. Every
// concrete shape reduces to one of three primitive elements — a filled
// convex polygon, a disc, or a capsule (a thick line segment) — via
// decompose, and Shape.Intersects/Contains/DistTo dispatch pairwise over
// those elements.

func distPointPoint(a, b Pt) float64 { return a.Dist(b) }

// distPointSegment returns the distance from p to the segment [a, b].
func distPointSegment(p, a, b Pt) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < Epsilon*Epsilon {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	proj := a.Add(ab.Scale(t))
	return p.Dist(proj)
}

// distSegmentSegment returns the distance between segments [a,b] and [c,d].
func distSegmentSegment(a, b, c, d Pt) float64 {
	if segmentsIntersect(a, b, c, d) {
		return 0
	}
	dists := [4]float64{
		distPointSegment(a, c, d),
		distPointSegment(b, c, d),
		distPointSegment(c, a, b),
		distPointSegment(d, a, b),
	}
	min := dists[0]
	for _, d := range dists[1:] {
		if d < min {
			min = d
		}
	}
	return min
}

func orient(a, b, c Pt) float64 { return b.Sub(a).Cross(c.Sub(a)) }

func onSegment(a, b, p Pt) bool {
	return le(math.Min(a.X, b.X), p.X) && le(p.X, math.Max(a.X, b.X)) &&
		le(math.Min(a.Y, b.Y), p.Y) && le(p.Y, math.Max(a.Y, b.Y))
}

// segmentsIntersect reports whether segments [a,b] and [c,d] touch or cross.
func segmentsIntersect(a, b, c, d Pt) bool {
	o1 := orient(a, b, c)
	o2 := orient(a, b, d)
	o3 := orient(c, d, a)
	o4 := orient(c, d, b)

	if (o1 > 0) != (o2 > 0) && (o3 > 0) != (o4 > 0) && o1 != 0 && o2 != 0 && o3 != 0 && o4 != 0 {
		return true
	}
	if eq(o1, 0) && onSegment(a, b, c) {
		return true
	}
	if eq(o2, 0) && onSegment(a, b, d) {
		return true
	}
	if eq(o3, 0) && onSegment(c, d, a) {
		return true
	}
	if eq(o4, 0) && onSegment(c, d, b) {
		return true
	}
	return false
}

// pointInPolygon reports whether p lies inside or on the boundary of the
// simple polygon described by CCW vertices pts, via ray casting plus an
// on-edge check.
func pointInPolygon(p Pt, pts []Pt) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		if distPointSegment(p, a, b) < Epsilon {
			return true
		}
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xint := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xint {
				inside = !inside
			}
		}
	}
	return inside
}

// distPointPolygon is 0 if p is inside pts, else the distance to the
// nearest edge.
func distPointPolygon(p Pt, pts []Pt) float64 {
	if pointInPolygon(p, pts) {
		return 0
	}
	n := len(pts)
	min := math.MaxFloat64
	for i := 0; i < n; i++ {
		d := distPointSegment(p, pts[i], pts[(i+1)%n])
		if d < min {
			min = d
		}
	}
	return min
}

// polygonsIntersect reports whether two simple polygons overlap: any edge
// pair crosses, or one contains a vertex of the other.
func polygonsIntersect(a, b []Pt) bool {
	for i := 0; i < len(a); i++ {
		a0, a1 := a[i], a[(i+1)%len(a)]
		for j := 0; j < len(b); j++ {
			b0, b1 := b[j], b[(j+1)%len(b)]
			if segmentsIntersect(a0, a1, b0, b1) {
				return true
			}
		}
	}
	if len(b) > 0 && pointInPolygon(b[0], a) {
		return true
	}
	if len(a) > 0 && pointInPolygon(a[0], b) {
		return true
	}
	return false
}

// distPolygonPolygon is 0 if the polygons overlap, else the minimum edge
// distance.
func distPolygonPolygon(a, b []Pt) float64 {
	if polygonsIntersect(a, b) {
		return 0
	}
	min := math.MaxFloat64
	for i := 0; i < len(a); i++ {
		a0, a1 := a[i], a[(i+1)%len(a)]
		for j := 0; j < len(b); j++ {
			b0, b1 := b[j], b[(j+1)%len(b)]
			if d := distSegmentSegment(a0, a1, b0, b1); d < min {
				min = d
			}
		}
	}
	return min
}

// distSegmentPolygon is 0 if the segment touches or lies inside the
// polygon, else the minimum distance to an edge.
func distSegmentPolygon(a, b Pt, pts []Pt) float64 {
	if pointInPolygon(a, pts) || pointInPolygon(b, pts) {
		return 0
	}
	min := math.MaxFloat64
	for i := 0; i < len(pts); i++ {
		p0, p1 := pts[i], pts[(i+1)%len(pts)]
		if segmentsIntersect(a, b, p0, p1) {
			return 0
		}
		if d := distSegmentSegment(a, b, p0, p1); d < min {
			min = d
		}
	}
	return min
}

// polygonContainsPolygon reports whether every point of pts lies inside (or
// on the boundary of) outer, and outer's boundary never crosses a segment of
// pts — i.e. outer fully contains the region bounded by pts. Edges that only
// touch or run along outer's boundary do not count as crossing.
func polygonContainsPolygon(outer, pts []Pt) bool {
	for _, p := range pts {
		if !pointInPolygon(p, outer) {
			return false
		}
	}
	for i := 0; i < len(pts); i++ {
		a, b := pts[i], pts[(i+1)%len(pts)]
		for j := 0; j < len(outer); j++ {
			o0, o1 := outer[j], outer[(j+1)%len(outer)]
			d1, d2 := orient(a, b, o0), orient(a, b, o1)
			d3, d4 := orient(o0, o1, a), orient(o0, o1, b)
			if ((gt(d1, 0) && lt(d2, 0)) || (lt(d1, 0) && gt(d2, 0))) &&
				((gt(d3, 0) && lt(d4, 0)) || (lt(d3, 0) && gt(d4, 0))) {
				return false
			}
		}
	}
	return true
}

func polyBounds(pts []Pt) Rect {
	if len(pts) == 0 {
		return EmptyRect()
	}
	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return NewRect(minX, minY, maxX-minX, maxY-minY)
}
