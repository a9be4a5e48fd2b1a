// Package obstacle implements the layered adapter over the spatial index
// that tracks every physical obstacle on the board, keeps reversible pin
// attribution so a net can be "opened" for routing, and answers the single
// question the grid router needs: is this candidate wire or via blocked?
package obstacle

import (
	"github.com/pkg/errors"

	"pcbroute/board"
	"pcbroute/config"
	"pcbroute/geom"
	"pcbroute/spatial"
)

// PlaceId identifies one inserted primitive shape: the layer it lives on and
// its id within that layer's spatial index.
type PlaceId struct {
	Layer board.LayerId
	Shape int
}

// Model is a layered obstacle store: one spatial index per layer for board
// boundaries, one per layer for everything routing must avoid.
type Model struct {
	pcb    *board.Pcb
	cfg    *config.Config

	boundary map[board.LayerId]*spatial.QuadTree
	blocked  map[board.LayerId]*spatial.QuadTree
	pins     map[board.PinRef][]PlaceId
	bounds   geom.Rect
}

// New builds a Model from a fully populated Pcb: boundaries, existing
// wires/vias, keepouts, and every component's pins and keepouts are all
// inserted up front.
func New(pcb *board.Pcb, cfg *config.Config) (*Model, error) {
	m := &Model{
		pcb:      pcb,
		cfg:      cfg,
		boundary: make(map[board.LayerId]*spatial.QuadTree),
		blocked:  make(map[board.LayerId]*spatial.QuadTree),
		pins:     make(map[board.PinRef][]PlaceId),
		bounds:   pcb.Bounds(),
	}
	if err := m.init(pcb); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) Pcb() *board.Pcb { return m.pcb }

func (m *Model) init(pcb *board.Pcb) error {
	identity := geom.Identity()

	for _, b := range pcb.Boundaries() {
		m.addShape(m.boundary, identity, b, spatial.NoTag, spatial.KindArea)
	}
	for _, w := range pcb.Wires() {
		m.AddWire(w)
	}
	for _, v := range pcb.Vias() {
		m.AddVia(v)
	}
	for _, k := range pcb.Keepouts() {
		m.addKeepout(identity, k)
	}
	for _, c := range pcb.Components() {
		tf := identity.Then(c.Tf())
		for _, pin := range c.Pins() {
			ref := board.PinRef{Component: c.ID, Pin: pin.ID}
			tag := spatial.NoTag
			if netID, ok := pcb.PinRefNet(ref); ok {
				tag = spatial.Tag(netID)
			}
			if _, err := m.addPin(tf, ref, *pin, tag); err != nil {
				return err
			}
		}
		for _, k := range c.Keepouts {
			m.addKeepout(tf, k)
		}
	}
	return nil
}

// addKeepout inserts a keepout shape under board.AnyLayer when its LayerSet
// is empty (Open Question decision: never guessed from context), otherwise
// under each named layer.
func (m *Model) addKeepout(tf geom.Tf, k board.Keepout) {
	if k.Shape.Layers.IsEmpty() {
		ls := board.LayerShape{Layers: board.OneLayer(board.LayerId(0)), Shape: k.Shape.Shape}
		m.addShapeOnLayers(m.blocked, tf, ls, []board.LayerId{board.AnyLayer}, spatial.NoTag, spatial.KindArea)
		return
	}
	m.addShape(m.blocked, tf, k.Shape, spatial.NoTag, spatial.KindArea)
}

func (m *Model) addShape(dst map[board.LayerId]*spatial.QuadTree, tf geom.Tf, ls board.LayerShape, tag spatial.Tag, kind spatial.ObjectKind) []PlaceId {
	return m.addShapeOnLayers(dst, tf, ls, ls.Layers.Layers(), tag, kind)
}

func (m *Model) addShapeOnLayers(dst map[board.LayerId]*spatial.QuadTree, tf geom.Tf, ls board.LayerShape, layers []board.LayerId, tag spatial.Tag, kind spatial.ObjectKind) []PlaceId {
	s := tf.Shape(ls.Shape)
	var ids []PlaceId
	for _, layer := range layers {
		qt, ok := dst[layer]
		if !ok {
			qt = spatial.NewWithBounds(m.bounds)
			qt.SetLimits(m.cfg.TestThreshold, m.cfg.MaxDepth)
			dst[layer] = qt
		}
		for _, id := range qt.AddShape(spatial.ShapeInfo{Shape: s, Tag: tag, Kinds: kind}) {
			ids = append(ids, PlaceId{Layer: layer, Shape: id})
		}
	}
	return ids
}

// CreateWire builds (without adding) a wire for net netID on layer along the
// given world-space points, using the net's ruleset radius.
func (m *Model) CreateWire(netID board.Id, layer board.LayerId, pts []geom.Pt) (board.Wire, error) {
	rs, err := m.pcb.NetRuleSet(netID)
	if err != nil {
		return board.Wire{}, err
	}
	shape := board.LayerShape{Layers: board.OneLayer(layer), Shape: geom.NewPath(pts, rs.Radius())}
	return board.Wire{Shape: shape, NetID: netID}, nil
}

// AddWire adds w to blocked on every layer of its shape.
func (m *Model) AddWire(w board.Wire) []PlaceId {
	return m.addShape(m.blocked, geom.Identity(), w.Shape, spatial.Tag(w.NetID), spatial.KindWire)
}

// CreateVia builds (without adding) a via for net netID at p, using the
// ruleset's preferred via if set, else the board's first via padstack.
func (m *Model) CreateVia(netID board.Id, p geom.Pt) (board.Via, error) {
	rs, err := m.pcb.NetRuleSet(netID)
	if err != nil {
		return board.Via{}, err
	}
	padstacks := m.pcb.ViaPadstacks()
	if len(padstacks) == 0 {
		return board.Via{}, errors.Errorf("no via padstacks registered")
	}
	ps := padstacks[0]
	if viaID, ok := rs.PreferredVia(); ok {
		for _, cand := range padstacks {
			if cand.ID == viaID {
				ps = cand
				break
			}
		}
	}
	return board.Via{P: p, Padstack: ps, NetID: netID}, nil
}

// AddVia adds v's padstack shapes to blocked on their layers.
func (m *Model) AddVia(v board.Via) []PlaceId {
	return m.addPadstack(geom.Translate(v.P), v.Padstack, spatial.Tag(v.NetID), spatial.KindVia)
}

func (m *Model) addPadstack(tf geom.Tf, ps board.Padstack, tag spatial.Tag, kind spatial.ObjectKind) []PlaceId {
	var ids []PlaceId
	for _, shape := range ps.Shapes {
		ids = append(ids, m.addShape(m.blocked, tf, shape, tag, kind)...)
	}
	return ids
}

func (m *Model) addPin(tf geom.Tf, ref board.PinRef, pin board.Pin, tag spatial.Tag) ([]PlaceId, error) {
	ids := m.addPadstack(pin.Tf().Then(tf), pin.Padstack, tag, spatial.KindPin)
	m.pins[ref] = append(m.pins[ref], ids...)
	return ids, nil
}

// AddNet inserts every pin shape belonging to net's PinRefs, tagged with the
// net's id.
func (m *Model) AddNet(net board.Net) error {
	for _, ref := range net.Pins {
		c, pin, err := m.pcb.PinRefResolve(ref)
		if err != nil {
			return err
		}
		if _, err := m.addPin(c.Tf(), ref, *pin, spatial.Tag(net.ID)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveNet removes every pin shape belonging to net's PinRefs. Inserting
// then removing a net is an exact inverse: the same place ids recorded at
// insertion are the ones freed.
func (m *Model) RemoveNet(net board.Net) {
	for _, ref := range net.Pins {
		m.removePin(ref)
	}
}

func (m *Model) removePin(ref board.PinRef) {
	ids, ok := m.pins[ref]
	if !ok {
		return
	}
	delete(m.pins, ref)
	for _, id := range ids {
		if qt, ok := m.blocked[id.Layer]; ok {
			qt.RemoveShape(id.Shape)
		}
	}
}

// IsWireBlocked applies the three-step blockage predicate against all other
// nets' obstacles.
func (m *Model) IsWireBlocked(w board.Wire) (bool, error) {
	rs, err := m.pcb.NetRuleSet(w.NetID)
	if err != nil {
		return false, err
	}
	return m.isShapeBlocked(geom.Identity(), w.Shape, spatial.ExceptTag(spatial.Tag(w.NetID)), spatial.KindWire, rs.Clearances()), nil
}

// IsViaBlocked applies the blockage predicate to every shape in the via's
// padstack, against every net (vias aren't exempted from their own net —
// matching the source, which queries TagQuery::All here).
func (m *Model) IsViaBlocked(v board.Via) (bool, error) {
	rs, err := m.pcb.NetRuleSet(v.NetID)
	if err != nil {
		return false, err
	}
	clearances := rs.Clearances()
	for _, shape := range v.Padstack.Shapes {
		if m.isShapeBlocked(geom.Translate(v.P), shape, spatial.AnyTag(), spatial.KindVia, clearances) {
			return true, nil
		}
	}
	return false, nil
}

// isShapeBlocked runs the three-step predicate from §4.2: boundary
// containment, then intersection, then clearance distance, each in order of
// increasing cost.
func (m *Model) isShapeBlocked(tf geom.Tf, ls board.LayerShape, tagQuery spatial.TagQuery, kind spatial.ObjectKind, clearances []board.Clearance) bool {
	s := tf.Shape(ls.Shape)
	layers := ls.Layers.Layers()

	for _, layer := range m.layersFor(ls.Layers) {
		boundary, ok := m.boundary[layer]
		if !ok {
			continue
		}
		if !boundary.Contains(s, spatial.Query{Tag: tagQuery, Kinds: spatial.AnyKind()}) {
			return true
		}
	}

	for _, layer := range layers {
		blocked, ok := m.blocked[layer]
		if !ok {
			continue
		}
		if blocked.Intersects(s, spatial.Query{Tag: tagQuery, Kinds: spatial.AnyKind()}) {
			return true
		}
	}

	for _, layer := range layers {
		blocked, ok := m.blocked[layer]
		if !ok {
			continue
		}
		for _, c := range clearances {
			mask := c.SubsetFor(kind)
			d := blocked.Dist(s, spatial.Query{Tag: tagQuery, Kinds: spatial.HasCommonKind(mask)})
			if d <= c.Amount {
				return true
			}
		}
	}

	return false
}

// layersFor resolves a LayerSet to the concrete layer ids whose boundaries a
// shape is checked against, honouring Config.BoundaryAppliesAllLayers.
func (m *Model) layersFor(ls board.LayerSet) []board.LayerId {
	if m.cfg.BoundaryAppliesAllLayers {
		return m.pcb.LayersByKind(board.LayerAll).Layers()
	}
	return ls.Layers()
}

// Clone deep-copies the model: a fresh Pcb clone and independent per-layer
// quadtrees, so a GA fitness worker can mutate its own copy.
func (m *Model) Clone() *Model {
	pcbClone := m.pcb.Clone()
	cp := &Model{
		pcb:      pcbClone,
		cfg:      m.cfg,
		boundary: cloneLayerTrees(m.boundary),
		blocked:  cloneLayerTrees(m.blocked),
		pins:     make(map[board.PinRef][]PlaceId, len(m.pins)),
		bounds:   m.bounds,
	}
	for k, v := range m.pins {
		cp.pins[k] = append([]PlaceId(nil), v...)
	}
	return cp
}

func cloneLayerTrees(m map[board.LayerId]*spatial.QuadTree) map[board.LayerId]*spatial.QuadTree {
	out := make(map[board.LayerId]*spatial.QuadTree, len(m))
	for layer, qt := range m {
		out[layer] = qt.Clone()
	}
	return out
}

// DebugRects returns the spatial-index partition rectangles of the back
// layer's blocked index, matching the teacher source's own debug output.
func (m *Model) DebugRects() []geom.Rect {
	if qt, ok := m.blocked[1]; ok {
		return qt.Rects()
	}
	return nil
}
