package gridroute

import (
	"pcbroute/board"
	"pcbroute/config"
	"pcbroute/geom"
)

// Model owns the rasterised grid state for one routing attempt: the block
// map, the board it was built from, and the resolution it was built at.
type Model struct {
	pcb       *board.Pcb
	cfg       *config.Config
	blk       BlockMap
	numLayers int
}

// NewModel rasterises pcb's existing obstacles (wires, vias, keepouts, pin
// padstacks, component keepouts) into a fresh BlockMap at cfg.Resolution.
func NewModel(pcb *board.Pcb, cfg *config.Config) *Model {
	m := &Model{pcb: pcb, cfg: cfg, blk: make(BlockMap), numLayers: pcb.NumLayers()}
	m.markBlocked()
	return m
}

func (m *Model) gridPt(p geom.Pt) geom.PtI {
	return geom.PI(int64Floor(p.X/m.cfg.Resolution), int64Floor(p.Y/m.cfg.Resolution))
}

func int64Floor(v float64) int64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}

// worldPt maps a grid cell's lower-left corner to world space.
func (m *Model) worldPt(p geom.PtI) geom.Pt {
	return geom.P(float64(p.X)*m.cfg.Resolution, float64(p.Y)*m.cfg.Resolution)
}

// worldPtMid maps a grid cell to its world-space center.
func (m *Model) worldPtMid(p geom.PtI) geom.Pt {
	half := m.cfg.Resolution / 2
	wp := m.worldPt(p)
	return geom.P(wp.X+half, wp.Y+half)
}

// worldSquare returns the world-space rectangle a grid cell covers.
func (m *Model) worldSquare(p geom.PtI) geom.Rect {
	wp := m.worldPt(p)
	return geom.NewRect(wp.X, wp.Y, m.cfg.Resolution, m.cfg.Resolution)
}

// cellRange returns the inclusive grid-cell range [lo, hi] covering r.
func (m *Model) cellRange(r geom.Rect) (geom.PtI, geom.PtI) {
	lo := m.gridPt(r.BL())
	hi := m.gridPt(r.TR())
	return lo, hi
}

func layersOrAny(ls board.LayerSet) []board.LayerId {
	if ls.IsEmpty() {
		return []board.LayerId{board.AnyLayer}
	}
	return ls.Layers()
}

// markShape stamps count into every (cell, layer) the transformed shape
// intersects.
func (m *Model) markShape(count int64, tf geom.Tf, ls board.LayerShape) {
	s := tf.Shape(ls.Shape)
	lo, hi := m.cellRange(s.Bounds())
	layers := layersOrAny(ls.Layers)
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			cell := geom.PI(x, y)
			if !s.Intersects(m.worldSquare(cell)) {
				continue
			}
			for _, layer := range layers {
				m.blk.mark(State{Cell: cell, Layer: layer}, count)
			}
		}
	}
}

func (m *Model) markPadstack(count int64, tf geom.Tf, ps board.Padstack) {
	for _, shape := range ps.Shapes {
		m.markShape(count, tf, shape)
	}
}

func (m *Model) markWire(count int64, w board.Wire) {
	m.markShape(count, geom.Identity(), w.Shape)
}

func (m *Model) markVia(count int64, v board.Via) {
	m.markPadstack(count, geom.Translate(v.P), v.Padstack)
}

func (m *Model) markPin(count int64, tf geom.Tf, pin board.Pin) {
	m.markPadstack(count, pin.Tf().Then(tf), pin.Padstack)
}

// markNet marks (or, with count -1, unmarks) every pin of net, "opening" it
// so the router can start on and enter its own pins' cells.
func (m *Model) markNet(count int64, net board.Net) error {
	for _, ref := range net.Pins {
		c, pin, err := m.pcb.PinRefResolve(ref)
		if err != nil {
			return err
		}
		m.markPin(count, c.Tf(), *pin)
	}
	return nil
}

func (m *Model) markBlocked() {
	identity := geom.Identity()
	for _, w := range m.pcb.Wires() {
		m.markWire(1, w)
	}
	for _, v := range m.pcb.Vias() {
		m.markVia(1, v)
	}
	for _, k := range m.pcb.Keepouts() {
		m.markShape(1, identity, k.Shape)
	}
	for _, c := range m.pcb.Components() {
		tf := identity.Then(c.Tf())
		for _, pin := range c.Pins() {
			m.markPin(1, tf, *pin)
		}
		for _, k := range c.Keepouts {
			m.markShape(1, tf, k.Shape)
		}
	}
}

// boundaryContainsCell reports whether cell's world rectangle lies fully
// inside a boundary applicable to layer (honouring
// Config.BoundaryAppliesAllLayers).
func (m *Model) boundaryContainsCell(cell geom.PtI, layer board.LayerId) bool {
	square := m.worldSquare(cell)
	for _, b := range m.pcb.Boundaries() {
		if !m.cfg.BoundaryAppliesAllLayers && !b.Layers.Contains(layer) {
			continue
		}
		if b.Shape.Contains(square) {
			return true
		}
	}
	return false
}

// isStateBlocked reports whether s is blocked: it is, unless its cell lies
// inside the boundary on its layer and carries no obstacle marking (direct or
// AnyLayer).
func (m *Model) isStateBlocked(s State) bool {
	if !m.boundaryContainsCell(s.Cell, s.Layer) {
		return true
	}
	return m.blk.Blocked(s)
}

// pinRefState resolves a PinRef to the grid state of its pin's local origin.
func (m *Model) pinRefState(ref board.PinRef) (State, error) {
	c, pin, err := m.pcb.PinRefResolve(ref)
	if err != nil {
		return State{}, err
	}
	tf := pin.Tf().Then(c.Tf())
	origin := tf.Apply(geom.P(0, 0))
	layer, ok := pin.Padstack.Layers().First()
	if !ok {
		layer = 0
	}
	return State{Cell: m.gridPt(origin), Layer: layer}, nil
}
