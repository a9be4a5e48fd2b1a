package spatial

import (
	"sort"

	"pcbroute/geom"
)

// TestThreshold is the number of direct shape tests an intersect-entry
// tolerates before its owning node subdivides.
const TestThreshold = 4

// MaxDepth bounds how deep the tree will subdivide.
const MaxDepth = 7

type shapeIdx int
type nodeIdx int

const noNode nodeIdx = 0

type intersectEntry struct {
	shapeIdx shapeIdx
	tests    int
}

type node struct {
	intersect      []intersectEntry
	contain        []shapeIdx
	bl, br, tr, tl nodeIdx
}

// QuadTree is a point-region quadtree over tagged, kind-labelled shapes,
// supporting intersect/contain/nearest-distance queries filtered by Query.
// Splitting is demand-driven: a node subdivides once one of its intersect
// entries has been tested TestThreshold times, up to MaxDepth.
type QuadTree struct {
	shapes      []ShapeInfo
	freeShapes  []shapeIdx
	nodes       []node
	bounds      geom.Rect

	testThreshold int
	maxDepth      int

	intersectCache map[shapeIdx]bool
	containCache   map[shapeIdx]bool
	distCache      map[shapeIdx]float64
}

// New builds a tree from an initial shape population.
func New(shapes []ShapeInfo) *QuadTree {
	return newWithLimits(shapes, TestThreshold, MaxDepth)
}

func newWithLimits(shapes []ShapeInfo, testThreshold, maxDepth int) *QuadTree {
	var all []ShapeInfo
	for _, s := range shapes {
		all = append(all, decomposeShapeInfo(s)...)
	}
	bounds := geom.EmptyRect()
	for _, s := range all {
		bounds = bounds.United(s.Shape.Bounds())
	}
	root := node{}
	for i := range all {
		root.intersect = append(root.intersect, intersectEntry{shapeIdx: shapeIdx(i)})
	}
	return &QuadTree{
		shapes:        all,
		nodes:         []node{{}, root},
		bounds:        bounds,
		testThreshold: testThreshold,
		maxDepth:      maxDepth,
	}
}

// Empty returns a tree with no shapes and empty bounds.
func Empty() *QuadTree {
	return &QuadTree{nodes: []node{{}, {}}, bounds: geom.EmptyRect(), testThreshold: TestThreshold, maxDepth: MaxDepth}
}

// NewWithBounds returns an empty tree pre-seeded with bounds r, so that
// shapes added later within r never trigger a rebuild.
func NewWithBounds(r geom.Rect) *QuadTree {
	return &QuadTree{nodes: []node{{}, {}}, bounds: r, testThreshold: TestThreshold, maxDepth: MaxDepth}
}

// SetLimits overrides the split threshold and max depth for this tree,
// matching Config.TestThreshold/Config.MaxDepth.
func (q *QuadTree) SetLimits(testThreshold, maxDepth int) {
	q.testThreshold = testThreshold
	q.maxDepth = maxDepth
}

// Clone deep-copies the tree's exact internal structure — shapes, free
// list and node tree — so a cloned index behaves identically to the
// original, including any freed (removed) slots.
func (q *QuadTree) Clone() *QuadTree {
	cp := &QuadTree{
		shapes:        append([]ShapeInfo(nil), q.shapes...),
		freeShapes:    append([]shapeIdx(nil), q.freeShapes...),
		nodes:         make([]node, len(q.nodes)),
		bounds:        q.bounds,
		testThreshold: q.testThreshold,
		maxDepth:      q.maxDepth,
	}
	for i, n := range q.nodes {
		cp.nodes[i] = node{
			intersect: append([]intersectEntry(nil), n.intersect...),
			contain:   append([]shapeIdx(nil), n.contain...),
			bl:        n.bl,
			br:        n.br,
			tr:        n.tr,
			tl:        n.tl,
		}
	}
	return cp
}

// Bounds returns the tree's current overall bounding rectangle.
func (q *QuadTree) Bounds() geom.Rect { return q.bounds }

// Rects returns the rectangles of every existing node, for debug rendering.
func (q *QuadTree) Rects() []geom.Rect {
	var out []geom.Rect
	q.rectsInternal(1, q.bounds, &out)
	return out
}

func (q *QuadTree) rectsInternal(idx nodeIdx, r geom.Rect, out *[]geom.Rect) {
	if idx == noNode {
		return
	}
	*out = append(*out, r)
	n := q.nodes[idx]
	q.rectsInternal(n.bl, r.BLQuadrant(), out)
	q.rectsInternal(n.br, r.BRQuadrant(), out)
	q.rectsInternal(n.tr, r.TRQuadrant(), out)
	q.rectsInternal(n.tl, r.TLQuadrant(), out)
}

// AddShape inserts info, decomposing Paths into capsule caps and Compounds
// into their leaf shapes. If the new shape extends the tree's bounds the
// whole tree is rebuilt at the larger extent; otherwise the shape(s) are
// appended (reusing a free slot where possible) and enqueued at the root's
// intersect list. Returns the shape ids assigned to each decomposed piece.
func (q *QuadTree) AddShape(info ShapeInfo) []int {
	united := q.bounds.United(info.Shape.Bounds())
	pieces := decomposeShapeInfo(info)

	if !rectEq(united, q.bounds) {
		shapes := q.shapes
		ids := make([]int, 0, len(pieces))
		for _, p := range pieces {
			ids = append(ids, len(shapes))
			shapes = append(shapes, p)
		}
		testThreshold, maxDepth := q.testThreshold, q.maxDepth
		free := q.freeShapes
		*q = *newWithLimits(shapes, testThreshold, maxDepth)
		// Freed slots keep their ids but are not re-enqueued as live shapes.
		q.freeShapes = free
		for _, f := range free {
			q.nodes[1].intersect = filterIntersect(q.nodes[1].intersect, f)
		}
		return ids
	}

	ids := make([]int, 0, len(pieces))
	for _, p := range pieces {
		var idx shapeIdx
		if n := len(q.freeShapes); n > 0 {
			idx = q.freeShapes[n-1]
			q.freeShapes = q.freeShapes[:n-1]
			q.shapes[idx] = p
		} else {
			idx = shapeIdx(len(q.shapes))
			q.shapes = append(q.shapes, p)
		}
		ids = append(ids, int(idx))
		q.nodes[1].intersect = append(q.nodes[1].intersect, intersectEntry{shapeIdx: idx})
	}
	return ids
}

func rectEq(a, b geom.Rect) bool {
	return a.L() == b.L() && a.B() == b.B() && a.W() == b.W() && a.H() == b.H()
}

// RemoveShape strips every node reference to id and frees its slot. There is
// no rebalancing.
func (q *QuadTree) RemoveShape(id int) {
	target := shapeIdx(id)
	for i := range q.nodes {
		n := &q.nodes[i]
		n.intersect = filterIntersect(n.intersect, target)
		n.contain = filterContain(n.contain, target)
	}
	q.freeShapes = append(q.freeShapes, target)
}

func filterIntersect(es []intersectEntry, target shapeIdx) []intersectEntry {
	out := es[:0]
	for _, e := range es {
		if e.shapeIdx != target {
			out = append(out, e)
		}
	}
	return out
}

func filterContain(cs []shapeIdx, target shapeIdx) []shapeIdx {
	out := cs[:0]
	for _, c := range cs {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}

func (q *QuadTree) resetCache() {
	q.intersectCache = make(map[shapeIdx]bool)
	q.containCache = make(map[shapeIdx]bool)
	q.distCache = make(map[shapeIdx]float64)
}

// Intersects reports whether any stored shape matching query intersects s.
func (q *QuadTree) Intersects(s geom.Shape, query Query) bool {
	q.resetCache()
	return q.inter(s, query, 1, q.bounds, 0)
}

// Contains reports whether any stored shape matching query fully contains s.
func (q *QuadTree) Contains(s geom.Shape, query Query) bool {
	q.resetCache()
	return q.contain(s, query, 1, q.bounds, 0)
}

const infDist = 1e308

// Dist returns the minimum distance from s to any stored shape matching
// query, or +inf (a very large float) if none match.
func (q *QuadTree) Dist(s geom.Shape, query Query) float64 {
	q.resetCache()
	return q.distance(s, query, 1, q.bounds, infDist, 0)
}

func (q *QuadTree) cachedIntersects(idx shapeIdx, s geom.Shape, query Query) bool {
	if !matchesQuery(q.shapes[idx], query) {
		return false
	}
	if v, ok := q.intersectCache[idx]; ok {
		return v
	}
	v := q.shapes[idx].Shape.Intersects(s)
	q.intersectCache[idx] = v
	return v
}

func (q *QuadTree) cachedContains(idx shapeIdx, s geom.Shape, query Query) bool {
	if !matchesQuery(q.shapes[idx], query) {
		return false
	}
	if v, ok := q.containCache[idx]; ok {
		return v
	}
	v := q.shapes[idx].Shape.Contains(s)
	q.containCache[idx] = v
	return v
}

func (q *QuadTree) cachedDist(idx shapeIdx, s geom.Shape, query Query) float64 {
	if !matchesQuery(q.shapes[idx], query) {
		return infDist
	}
	if v, ok := q.distCache[idx]; ok {
		return v
	}
	v := q.shapes[idx].Shape.DistTo(s)
	q.distCache[idx] = v
	return v
}

func (q *QuadTree) inter(s geom.Shape, query Query, idx nodeIdx, r geom.Rect, depth int) bool {
	if !s.Intersects(r) {
		return false
	}
	n := &q.nodes[idx]
	for _, c := range n.contain {
		if matchesQuery(q.shapes[c], query) {
			return true
		}
	}
	if n.bl != noNode && q.inter(s, query, n.bl, r.BLQuadrant(), depth+1) {
		return true
	}
	if n.br != noNode && q.inter(s, query, n.br, r.BRQuadrant(), depth+1) {
		return true
	}
	if n.tr != noNode && q.inter(s, query, n.tr, r.TRQuadrant(), depth+1) {
		return true
	}
	if n.tl != noNode && q.inter(s, query, n.tl, r.TLQuadrant(), depth+1) {
		return true
	}

	had := false
	for i := range n.intersect {
		n.intersect[i].tests++
		if q.cachedIntersects(n.intersect[i].shapeIdx, s, query) {
			had = true
			break
		}
	}
	q.maybePushDown(idx, r, depth)
	return had
}

func (q *QuadTree) contain(s geom.Shape, query Query, idx nodeIdx, r geom.Rect, depth int) bool {
	if !r.Intersects(s) {
		return false
	}
	n := &q.nodes[idx]
	if r.Contains(s) {
		for _, c := range n.contain {
			if matchesQuery(q.shapes[c], query) {
				return true
			}
		}
	}
	if n.bl != noNode && q.contain(s, query, n.bl, r.BLQuadrant(), depth+1) {
		return true
	}
	if n.br != noNode && q.contain(s, query, n.br, r.BRQuadrant(), depth+1) {
		return true
	}
	if n.tr != noNode && q.contain(s, query, n.tr, r.TRQuadrant(), depth+1) {
		return true
	}
	if n.tl != noNode && q.contain(s, query, n.tl, r.TLQuadrant(), depth+1) {
		return true
	}

	had := false
	for i := range n.intersect {
		n.intersect[i].tests++
		if q.cachedContains(n.intersect[i].shapeIdx, s, query) {
			had = true
			break
		}
	}
	q.maybePushDown(idx, r, depth)
	return had
}

type childCand struct {
	dist float64
	idx  nodeIdx
	rect geom.Rect
}

func (q *QuadTree) distance(s geom.Shape, query Query, idx nodeIdx, r geom.Rect, best float64, depth int) float64 {
	n := &q.nodes[idx]
	b := s.Bounds()
	if r.ContainsRect(b) {
		for _, c := range n.contain {
			if matchesQuery(q.shapes[c], query) {
				return 0
			}
		}
	}

	var cands []childCand
	if n.bl != noNode {
		cr := r.BLQuadrant()
		cands = append(cands, childCand{cr.DistToRect(b), n.bl, cr})
	}
	if n.br != noNode {
		cr := r.BRQuadrant()
		cands = append(cands, childCand{cr.DistToRect(b), n.br, cr})
	}
	if n.tr != noNode {
		cr := r.TRQuadrant()
		cands = append(cands, childCand{cr.DistToRect(b), n.tr, cr})
	}
	if n.tl != noNode {
		cr := r.TLQuadrant()
		cands = append(cands, childCand{cr.DistToRect(b), n.tl, cr})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	for _, c := range cands {
		if best < c.dist {
			break
		}
		if d := q.distance(s, query, c.idx, c.rect, best, depth+1); d < best {
			best = d
		}
	}

	for i := range n.intersect {
		n.intersect[i].tests++
		if d := q.cachedDist(n.intersect[i].shapeIdx, s, query); d < best {
			best = d
		}
	}
	q.maybePushDown(idx, r, depth)
	return best
}

// maybePushDown moves any intersect entry that has crossed TestThreshold
// tests into the node's children, splitting it into the node's contain list
// wherever the shape fully contains that child's rectangle.
func (q *QuadTree) maybePushDown(idx nodeIdx, r geom.Rect, depth int) {
	if depth > q.maxDepth {
		return
	}
	n := &q.nodes[idx]
	var pushDown []intersectEntry
	kept := n.intersect[:0]
	for _, e := range n.intersect {
		if e.tests >= q.testThreshold {
			pushDown = append(pushDown, e)
		} else {
			kept = append(kept, e)
		}
	}
	n.intersect = kept
	if len(pushDown) == 0 {
		return
	}
	q.ensureChildren(idx)
	n = &q.nodes[idx]
	quads := [4]struct {
		rect geom.Rect
		idx  nodeIdx
	}{
		{r.BLQuadrant(), n.bl},
		{r.BRQuadrant(), n.br},
		{r.TRQuadrant(), n.tr},
		{r.TLQuadrant(), n.tl},
	}
	for _, e := range pushDown {
		shape := q.shapes[e.shapeIdx].Shape
		for _, quad := range quads {
			if shape.Intersects(quad.rect) {
				q.nodes[quad.idx].intersect = append(q.nodes[quad.idx].intersect, intersectEntry{shapeIdx: e.shapeIdx})
				if shape.Contains(quad.rect) {
					q.nodes[quad.idx].contain = append(q.nodes[quad.idx].contain, e.shapeIdx)
				}
			}
		}
	}
}

func (q *QuadTree) ensureChildren(idx nodeIdx) {
	n := &q.nodes[idx]
	if n.bl != noNode {
		return
	}
	n.bl = nodeIdx(len(q.nodes))
	q.nodes = append(q.nodes, node{})
	n = &q.nodes[idx]
	n.br = nodeIdx(len(q.nodes))
	q.nodes = append(q.nodes, node{})
	n = &q.nodes[idx]
	n.tr = nodeIdx(len(q.nodes))
	q.nodes = append(q.nodes, node{})
	n = &q.nodes[idx]
	n.tl = nodeIdx(len(q.nodes))
	q.nodes = append(q.nodes, node{})
}

// Shapes exposes the underlying shape population, indexed by shape id
// (including freed slots, which callers must not dereference).
func (q *QuadTree) Shapes() []ShapeInfo { return q.shapes }

// ShapeAt returns the shape stored at id.
func (q *QuadTree) ShapeAt(id int) ShapeInfo { return q.shapes[shapeIdx(id)] }
