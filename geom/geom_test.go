package geom

import "testing"

func TestPtArithmetic(t *testing.T) {
	t.Parallel()
	a, b := P(1, 2), P(3, -1)
	if got := a.Add(b); got != P(4, 1) {
		t.Fatalf("Add=%v, want %v", got, P(4, 1))
	}
	if got := a.Sub(b); got != P(-2, 3) {
		t.Fatalf("Sub=%v, want %v", got, P(-2, 3))
	}
	if got := a.Dot(b); got != 1 {
		t.Fatalf("Dot=%v, want 1", got)
	}
	if got := P(3, 4).Len(); !eq(got, 5) {
		t.Fatalf("Len=%v, want 5", got)
	}
	if got := P(0, 0).Dist(P(3, 4)); !eq(got, 5) {
		t.Fatalf("Dist=%v, want 5", got)
	}
}

func TestNewPolygonCanonicalises(t *testing.T) {
	t.Parallel()
	// Clockwise square with a duplicated closing vertex.
	pts := []Pt{P(0, 0), P(0, 1), P(1, 1), P(1, 0), P(0, 0)}
	poly := NewPolygon(pts)
	if len(poly.Pts) != 4 {
		t.Fatalf("len(Pts)=%d, want 4 (duplicated closing vertex dropped)", len(poly.Pts))
	}
	if area := signedArea(poly.Pts); area < 0 {
		t.Fatalf("signedArea=%v, want CCW (non-negative) winding", area)
	}
}

func TestCircleIntersects(t *testing.T) {
	t.Parallel()
	c1 := NewCircle(P(0, 0), 1)
	c2 := NewCircle(P(1.5, 0), 1)
	if !c1.Intersects(c2) {
		t.Fatalf("overlapping circles should intersect")
	}
	c3 := NewCircle(P(10, 10), 1)
	if c1.Intersects(c3) {
		t.Fatalf("distant circles should not intersect")
	}
}

func TestRectContainsRect(t *testing.T) {
	t.Parallel()
	outer := NewRect(0, 0, 10, 10)
	inner := NewRect(2, 2, 3, 3)
	if !outer.ContainsRect(inner) {
		t.Fatalf("outer should contain inner")
	}
	if inner.ContainsRect(outer) {
		t.Fatalf("inner should not contain outer")
	}
}

func TestPathCaps(t *testing.T) {
	t.Parallel()
	p := NewPath([]Pt{P(0, 0), P(1, 0), P(1, 1)}, 0.5)
	caps := p.Caps()
	if len(caps) != 2 {
		t.Fatalf("len(Caps())=%d, want 2", len(caps))
	}
	for _, c := range caps {
		if c.Radius != 0.5 {
			t.Fatalf("cap radius=%v, want 0.5", c.Radius)
		}
	}
}

func TestPathSinglePointHasNoCaps(t *testing.T) {
	t.Parallel()
	p := NewPath([]Pt{P(0, 0)}, 0.5)
	if caps := p.Caps(); caps != nil {
		t.Fatalf("single-point path should have no caps, got %v", caps)
	}
}

func TestTfRotateThenTranslate(t *testing.T) {
	t.Parallel()
	tf := Rotate(90).Then(Translate(P(1, 0)))
	got := tf.Apply(P(1, 0))
	want := P(1, 1)
	if !got.Eq(want) {
		t.Fatalf("Apply=%v, want %v", got, want)
	}
}
