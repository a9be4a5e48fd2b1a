package board

import (
	"github.com/pkg/errors"

	"pcbroute/geom"
)

// Pcb aggregates the entire board: physical structure, routing state and
// rules. Borrowers hold ids; the Pcb owns every collection.
type Pcb struct {
	ID      Id
	Names   *NameMap

	layers      []Layer
	boundaries  []LayerShape
	keepouts    []Keepout
	viaPadstacks []Padstack
	components  map[Id]*Component

	wires []Wire
	vias  []Via
	nets  map[Id]*Net
	pinRefToNet map[PinRef]Id

	rulesets         map[Id]*RuleSet
	netToRuleset     map[Id]Id
	defaultNetRuleset Id

	debugRects []geom.Rect
}

func NewPcb(names *NameMap) *Pcb {
	return &Pcb{
		Names:       names,
		components:  make(map[Id]*Component),
		nets:        make(map[Id]*Net),
		pinRefToNet: make(map[PinRef]Id),
		rulesets:    make(map[Id]*RuleSet),
		netToRuleset: make(map[Id]Id),
	}
}

func (p *Pcb) ToName(id Id) string  { return p.Names.Name(id) }
func (p *Pcb) ToID(name string) Id  { return p.Names.ID(name) }

func (p *Pcb) AddLayer(l Layer)        { p.layers = append(p.layers, l) }
func (p *Pcb) Layers() []Layer         { return p.layers }
func (p *Pcb) NumLayers() int          { return len(p.layers) }

func (p *Pcb) LayerByID(id LayerId) (Layer, bool) {
	for _, l := range p.layers {
		if l.LayerID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// LayersByKind returns the LayerSet of every layer of the given kind, or
// every layer if kind is LayerAll.
func (p *Pcb) LayersByKind(kind LayerKind) LayerSet {
	var s LayerSet
	for _, l := range p.layers {
		if kind == LayerAll || l.Kind == kind {
			s |= OneLayer(l.LayerID)
		}
	}
	return s
}

func (p *Pcb) AddBoundary(s LayerShape) { p.boundaries = append(p.boundaries, s) }
func (p *Pcb) Boundaries() []LayerShape { return p.boundaries }

func (p *Pcb) AddKeepout(k Keepout) { p.keepouts = append(p.keepouts, k) }
func (p *Pcb) Keepouts() []Keepout  { return p.keepouts }

func (p *Pcb) AddViaPadstack(ps Padstack) { p.viaPadstacks = append(p.viaPadstacks, ps) }
func (p *Pcb) ViaPadstacks() []Padstack   { return p.viaPadstacks }

func (p *Pcb) AddComponent(c *Component) { p.components[c.ID] = c }
func (p *Pcb) Components() []*Component {
	out := make([]*Component, 0, len(p.components))
	for _, c := range p.components {
		out = append(out, c)
	}
	return out
}
func (p *Pcb) Component(id Id) (*Component, bool) {
	c, ok := p.components[id]
	return c, ok
}

func (p *Pcb) AddWire(w Wire) { p.wires = append(p.wires, w) }
func (p *Pcb) Wires() []Wire  { return p.wires }

func (p *Pcb) AddVia(v Via) { p.vias = append(p.vias, v) }
func (p *Pcb) Vias() []Via  { return p.vias }

// AddNet registers a net and indexes its PinRefs for PinRefNet lookups.
func (p *Pcb) AddNet(n Net) {
	for _, ref := range n.Pins {
		p.pinRefToNet[ref] = n.ID
	}
	np := n
	p.nets[n.ID] = &np
}

func (p *Pcb) Nets() []*Net {
	out := make([]*Net, 0, len(p.nets))
	for _, n := range p.nets {
		out = append(out, n)
	}
	return out
}

func (p *Pcb) Net(id Id) (*Net, bool) {
	n, ok := p.nets[id]
	return n, ok
}

// PinRefResolve resolves a PinRef to its component and pin, erroring per §7
// ReferenceUnresolved if either is missing.
func (p *Pcb) PinRefResolve(ref PinRef) (*Component, *Pin, error) {
	c, ok := p.components[ref.Component]
	if !ok {
		return nil, nil, errors.Errorf("unknown component id %d", ref.Component)
	}
	pin, ok := c.Pin(ref.Pin)
	if !ok {
		return nil, nil, errors.Errorf("unknown pin id %d on component %d", ref.Pin, ref.Component)
	}
	return c, pin, nil
}

// PinRefNet returns the net id referencing ref, if any.
func (p *Pcb) PinRefNet(ref PinRef) (Id, bool) {
	id, ok := p.pinRefToNet[ref]
	return id, ok
}

func (p *Pcb) AddRuleSet(rs *RuleSet)                { p.rulesets[rs.ID] = rs }
func (p *Pcb) SetDefaultNetRuleSet(id Id)            { p.defaultNetRuleset = id }
func (p *Pcb) SetNetRuleSet(netID, rulesetID Id)     { p.netToRuleset[netID] = rulesetID }

// NetRuleSet returns the RuleSet bound to netID, falling back to the default.
func (p *Pcb) NetRuleSet(netID Id) (*RuleSet, error) {
	rulesetID, ok := p.netToRuleset[netID]
	if !ok {
		rulesetID = p.defaultNetRuleset
	}
	rs, ok := p.rulesets[rulesetID]
	if !ok {
		return nil, errors.Errorf("no ruleset %d for net %d", rulesetID, netID)
	}
	return rs, nil
}

func (p *Pcb) AddDebugRect(r geom.Rect) { p.debugRects = append(p.debugRects, r) }
func (p *Pcb) DebugRects() []geom.Rect  { return p.debugRects }

// Bounds returns the enclosing rectangle of every boundary shape.
func (p *Pcb) Bounds() geom.Rect {
	r := geom.EmptyRect()
	for _, b := range p.boundaries {
		r = r.United(b.Shape.Bounds())
	}
	return r
}

// Validate checks the invariants §3 requires of a fully constructed PCB:
// every net PinRef resolves, every wire's net exists, and layers are listed
// in stack order (implicit in slice order, so only monotonic LayerId is
// checked here). It does not check whether boundaries are closed shapes.
func (p *Pcb) Validate() error {
	for _, n := range p.nets {
		for _, ref := range n.Pins {
			if _, _, err := p.PinRefResolve(ref); err != nil {
				return errors.Wrapf(err, "net %d", n.ID)
			}
		}
	}
	for i, w := range p.wires {
		if _, ok := p.nets[w.NetID]; !ok {
			return errors.Errorf("wire %d: unknown net %d", i, w.NetID)
		}
	}
	for i, l := range p.layers {
		if int(l.LayerID) != i {
			return errors.Errorf("layers not listed in physical stack order at index %d", i)
		}
	}
	return nil
}

// Clone deep-copies the Pcb, including every component and its pins. Used to
// give each GA fitness-evaluation worker its own obstacle model to mutate.
func (p *Pcb) Clone() *Pcb {
	cp := *p
	cp.boundaries = append([]LayerShape(nil), p.boundaries...)
	cp.keepouts = append([]Keepout(nil), p.keepouts...)
	cp.viaPadstacks = append([]Padstack(nil), p.viaPadstacks...)
	cp.wires = append([]Wire(nil), p.wires...)
	cp.vias = append([]Via(nil), p.vias...)
	cp.layers = append([]Layer(nil), p.layers...)
	cp.debugRects = append([]geom.Rect(nil), p.debugRects...)

	cp.components = make(map[Id]*Component, len(p.components))
	for id, c := range p.components {
		cp.components[id] = c.Clone()
	}
	cp.nets = make(map[Id]*Net, len(p.nets))
	for id, n := range p.nets {
		nv := *n
		nv.Pins = append([]PinRef(nil), n.Pins...)
		cp.nets[id] = &nv
	}
	cp.pinRefToNet = make(map[PinRef]Id, len(p.pinRefToNet))
	for k, v := range p.pinRefToNet {
		cp.pinRefToNet[k] = v
	}
	cp.rulesets = make(map[Id]*RuleSet, len(p.rulesets))
	for id, rs := range p.rulesets {
		rsv := *rs
		cp.rulesets[id] = &rsv
	}
	cp.netToRuleset = make(map[Id]Id, len(p.netToRuleset))
	for k, v := range p.netToRuleset {
		cp.netToRuleset[k] = v
	}
	return &cp
}
