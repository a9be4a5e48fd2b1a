package spatial

import (
	"testing"

	"pcbroute/geom"
)

func TestQuadTreeIntersectsAcrossShapes(t *testing.T) {
	t.Parallel()
	shapes := []ShapeInfo{
		{Shape: geom.NewCircle(geom.P(1, 1), 0.5), Tag: Tag(1), Kinds: KindVia},
		{Shape: geom.NewCircle(geom.P(9, 9), 0.5), Tag: Tag(2), Kinds: KindPin},
	}
	q := New(shapes)

	probe := geom.NewCircle(geom.P(1, 1), 0.1)
	if !q.Intersects(probe, All()) {
		t.Fatalf("expected intersection with shape near (1,1)")
	}
	if q.Intersects(geom.NewCircle(geom.P(5, 5), 0.1), All()) {
		t.Fatalf("did not expect intersection at empty area (5,5)")
	}
}

func TestQuadTreeQueryFiltersByTag(t *testing.T) {
	t.Parallel()
	shapes := []ShapeInfo{
		{Shape: geom.NewCircle(geom.P(1, 1), 0.5), Tag: Tag(1), Kinds: KindVia},
	}
	q := New(shapes)
	probe := geom.NewCircle(geom.P(1, 1), 0.1)

	if q.Intersects(probe, Query{Tag: IsTag(Tag(2)), Kinds: AnyKind()}) {
		t.Fatalf("shape tagged 1 should not match a query for tag 2")
	}
	if !q.Intersects(probe, Query{Tag: IsTag(Tag(1)), Kinds: AnyKind()}) {
		t.Fatalf("shape tagged 1 should match a query for tag 1")
	}
	if !q.Intersects(probe, Query{Tag: ExceptTag(Tag(2)), Kinds: AnyKind()}) {
		t.Fatalf("shape tagged 1 should match except-tag-2")
	}
}

func TestQuadTreeQueryFiltersByKind(t *testing.T) {
	t.Parallel()
	shapes := []ShapeInfo{
		{Shape: geom.NewCircle(geom.P(1, 1), 0.5), Tag: NoTag, Kinds: KindVia},
	}
	q := New(shapes)
	probe := geom.NewCircle(geom.P(1, 1), 0.1)

	if q.Intersects(probe, Query{Tag: AnyTag(), Kinds: HasCommonKind(KindWire)}) {
		t.Fatalf("via-kind shape should not match a wire-kind query")
	}
	if !q.Intersects(probe, Query{Tag: AnyTag(), Kinds: HasCommonKind(KindVia | KindWire)}) {
		t.Fatalf("via-kind shape should match a via|wire query")
	}
}

func TestQuadTreeAddAndRemoveShape(t *testing.T) {
	t.Parallel()
	q := NewWithBounds(geom.NewRect(0, 0, 10, 10))
	ids := q.AddShape(ShapeInfo{Shape: geom.NewCircle(geom.P(1, 1), 0.5), Tag: Tag(1), Kinds: KindVia})
	if len(ids) != 1 {
		t.Fatalf("AddShape returned %d ids, want 1", len(ids))
	}
	probe := geom.NewCircle(geom.P(1, 1), 0.1)
	if !q.Intersects(probe, All()) {
		t.Fatalf("expected intersection after AddShape")
	}
	q.RemoveShape(ids[0])
	if q.Intersects(probe, All()) {
		t.Fatalf("expected no intersection after RemoveShape")
	}
}

func TestQuadTreeSplitsUnderRepeatedTests(t *testing.T) {
	t.Parallel()
	// Two disjoint shapes far apart and a probe between them that hits
	// neither, so every query tests both root entries and forces a split
	// rather than an immediate contain-hit.
	shapes := []ShapeInfo{
		{Shape: geom.NewCircle(geom.P(1, 1), 0.1), Tag: Tag(1), Kinds: KindVia},
		{Shape: geom.NewCircle(geom.P(9, 9), 0.1), Tag: Tag(2), Kinds: KindVia},
	}
	q := newWithLimits(shapes, 2, MaxDepth)
	probe := geom.NewCircle(geom.P(5, 5), 0.01)
	for i := 0; i < 5; i++ {
		q.Intersects(probe, All())
	}
	if len(q.nodes) <= 2 {
		t.Fatalf("expected the tree to have split into children, len(nodes)=%d", len(q.nodes))
	}
}

func TestQuadTreeCloneIsIndependent(t *testing.T) {
	t.Parallel()
	q := New([]ShapeInfo{
		{Shape: geom.NewCircle(geom.P(1, 1), 0.5), Tag: Tag(1), Kinds: KindVia},
	})
	clone := q.Clone()
	clone.AddShape(ShapeInfo{Shape: geom.NewCircle(geom.P(5, 5), 0.5), Tag: Tag(2), Kinds: KindPin})

	probe := geom.NewCircle(geom.P(5, 5), 0.1)
	if q.Intersects(probe, All()) {
		t.Fatalf("original tree should be unaffected by mutations to its clone")
	}
	if !clone.Intersects(probe, All()) {
		t.Fatalf("clone should see the shape added after cloning")
	}
}

func TestQuadTreeDistReturnsZeroWhenContained(t *testing.T) {
	t.Parallel()
	q := New([]ShapeInfo{
		{Shape: geom.NewCircle(geom.P(1, 1), 1), Tag: NoTag, Kinds: KindArea},
	})
	d := q.Dist(geom.NewPoint(geom.P(1, 1)), All())
	if d != 0 {
		t.Fatalf("Dist=%v, want 0 for a point inside a stored shape", d)
	}
}
