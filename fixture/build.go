package fixture

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"pcbroute/board"
	"pcbroute/geom"
	"pcbroute/spatial"
)

// Load reads a JSON fixture at path and builds a fully populated Pcb.
func Load(path string) (*board.Pcb, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening fixture %s", path)
	}
	defer f.Close()

	var d doc
	if err := json.NewDecoder(f).Decode(&d); err != nil {
		return nil, errors.Wrapf(err, "decoding fixture %s", path)
	}
	return build(&d)
}

// builder carries the name->id lookups needed while a fixture is being
// turned into a Pcb.
type builder struct {
	pcb        *board.Pcb
	layerByName map[string]board.LayerId
	viaByName  map[string]board.Id
	rulesetByName map[string]board.Id
}

func build(d *doc) (*board.Pcb, error) {
	pcb := board.NewPcb(board.NewNameMap())
	b := &builder{
		pcb:           pcb,
		layerByName:   make(map[string]board.LayerId, len(d.Layers)),
		viaByName:     make(map[string]board.Id, len(d.ViaPadstacks)),
		rulesetByName: make(map[string]board.Id, len(d.RuleSets)),
	}

	for i, ld := range d.Layers {
		kind, err := parseLayerKind(ld.Kind)
		if err != nil {
			return nil, err
		}
		id := board.LayerId(i)
		pcb.AddLayer(board.Layer{NameID: pcb.ToID(ld.Name), LayerID: id, Kind: kind})
		b.layerByName[ld.Name] = id
	}

	for _, bd := range d.Boundaries {
		ls, err := b.toLayerShape(bd)
		if err != nil {
			return nil, err
		}
		pcb.AddBoundary(ls)
	}

	for _, kd := range d.Keepouts {
		k, err := b.toKeepout(kd)
		if err != nil {
			return nil, err
		}
		pcb.AddKeepout(k)
	}

	for _, pd := range d.ViaPadstacks {
		ps, err := b.toPadstack(pd)
		if err != nil {
			return nil, err
		}
		pcb.AddViaPadstack(ps)
		b.viaByName[pd.Name] = ps.ID
	}

	for _, cd := range d.Components {
		c, err := b.toComponent(cd)
		if err != nil {
			return nil, err
		}
		if cd.Side == "Back" {
			c.Flip(pcb.NumLayers())
		}
		pcb.AddComponent(c)
	}

	for _, nd := range d.Nets {
		n, err := b.toNet(nd)
		if err != nil {
			return nil, err
		}
		pcb.AddNet(n)
	}

	for _, rd := range d.RuleSets {
		rs, err := b.toRuleSet(rd)
		if err != nil {
			return nil, err
		}
		pcb.AddRuleSet(rs)
		b.rulesetByName[rd.Name] = rs.ID
		for _, netName := range rd.Nets {
			pcb.SetNetRuleSet(pcb.ToID(netName), rs.ID)
		}
	}
	if d.DefaultRuleSet != "" {
		id, ok := b.rulesetByName[d.DefaultRuleSet]
		if !ok {
			return nil, errors.Errorf("fixture: unknown default ruleset %q", d.DefaultRuleSet)
		}
		pcb.SetDefaultNetRuleSet(id)
	}

	if err := pcb.Validate(); err != nil {
		return nil, errors.Wrap(err, "fixture validation")
	}
	return pcb, nil
}

func parseLayerKind(s string) (board.LayerKind, error) {
	switch s {
	case "", "all":
		return board.LayerAll, nil
	case "signal":
		return board.LayerSignal, nil
	case "power":
		return board.LayerPower, nil
	case "mixed":
		return board.LayerMixed, nil
	case "jumper":
		return board.LayerJumper, nil
	default:
		return 0, errors.Errorf("fixture: unknown layer kind %q", s)
	}
}

func parseObjectKind(s string) (spatial.ObjectKind, error) {
	switch s {
	case "area":
		return spatial.KindArea, nil
	case "pin":
		return spatial.KindPin, nil
	case "smd":
		return spatial.KindSmd, nil
	case "via":
		return spatial.KindVia, nil
	case "wire":
		return spatial.KindWire, nil
	default:
		return 0, errors.Errorf("fixture: unknown object kind %q", s)
	}
}

func parseKeepoutKind(s string) (board.KeepoutKind, error) {
	switch s {
	case "", "all":
		return board.KeepoutAll, nil
	case "via":
		return board.KeepoutVia, nil
	case "wire":
		return board.KeepoutWire, nil
	default:
		return 0, errors.Errorf("fixture: unknown keepout kind %q", s)
	}
}

// toLayerSet resolves layer names to a LayerSet. An empty list yields the
// empty set: the grid model treats an empty-set keepout or pad shape as
// board.AnyLayer, while an empty-set boundary bounds no layer unless
// Config.BoundaryAppliesAllLayers is set.
func (b *builder) toLayerSet(names []string) (board.LayerSet, error) {
	var ls board.LayerSet
	for _, name := range names {
		id, ok := b.layerByName[name]
		if !ok {
			return 0, errors.Errorf("fixture: unknown layer %q", name)
		}
		ls = ls.Union(board.OneLayer(id))
	}
	return ls, nil
}

func (b *builder) toLayerShape(lsd layerShapeDoc) (board.LayerShape, error) {
	ls, err := b.toLayerSet(lsd.Layers)
	if err != nil {
		return board.LayerShape{}, err
	}
	shape, err := toShape(lsd.Shape)
	if err != nil {
		return board.LayerShape{}, err
	}
	return board.LayerShape{Layers: ls, Shape: shape}, nil
}

func (b *builder) toKeepout(kd keepoutDoc) (board.Keepout, error) {
	kind, err := parseKeepoutKind(kd.Kind)
	if err != nil {
		return board.Keepout{}, err
	}
	ls, err := b.toLayerShape(kd.Shape)
	if err != nil {
		return board.Keepout{}, err
	}
	return board.Keepout{Kind: kind, Shape: ls}, nil
}

func (b *builder) toPadstack(pd padstackDoc) (board.Padstack, error) {
	shapes := make([]board.LayerShape, len(pd.Shapes))
	for i, sd := range pd.Shapes {
		ls, err := b.toLayerShape(sd)
		if err != nil {
			return board.Padstack{}, err
		}
		shapes[i] = ls
	}
	return board.Padstack{ID: b.pcb.ToID(pd.Name), Shapes: shapes, Attach: pd.Attach}, nil
}

func (b *builder) toComponent(cd componentDoc) (*board.Component, error) {
	c := board.NewComponent(b.pcb.ToID(cd.Name))
	c.FootprintID = b.pcb.ToID(cd.Footprint)
	c.P = geom.P(cd.X, cd.Y)
	c.Rotation = cd.Rotation

	for _, od := range cd.Outlines {
		ls, err := b.toLayerShape(od)
		if err != nil {
			return nil, err
		}
		c.Outlines = append(c.Outlines, ls)
	}
	for _, kd := range cd.Keepouts {
		k, err := b.toKeepout(kd)
		if err != nil {
			return nil, err
		}
		c.Keepouts = append(c.Keepouts, k)
	}
	for _, pd := range cd.Pins {
		ps, err := b.toPadstack(pd.Padstack)
		if err != nil {
			return nil, err
		}
		c.AddPin(board.Pin{
			ID:       b.pcb.ToID(pd.Name),
			Padstack: ps,
			Rotation: pd.Rotation,
			P:        geom.P(pd.X, pd.Y),
		})
	}
	return c, nil
}

func (b *builder) toNet(nd netDoc) (board.Net, error) {
	pins := make([]board.PinRef, len(nd.Pins))
	for i, prd := range nd.Pins {
		pins[i] = board.PinRef{Component: b.pcb.ToID(prd.Component), Pin: b.pcb.ToID(prd.Pin)}
	}
	return board.Net{ID: b.pcb.ToID(nd.Name), Pins: pins}, nil
}

func (b *builder) toRuleSet(rd rulesetDoc) (*board.RuleSet, error) {
	rules := make([]board.Rule, 0, len(rd.Rules))
	for _, rule := range rd.Rules {
		switch rule.Kind {
		case "radius":
			rules = append(rules, board.RadiusRule(rule.Radius))
		case "clearance":
			pairs := make([][2]spatial.ObjectKind, len(rule.Pairs))
			for i, p := range rule.Pairs {
				k0, err := parseObjectKind(p[0])
				if err != nil {
					return nil, err
				}
				k1, err := parseObjectKind(p[1])
				if err != nil {
					return nil, err
				}
				pairs[i] = [2]spatial.ObjectKind{k0, k1}
			}
			rules = append(rules, board.ClearanceRule(board.NewClearance(rule.Amount, pairs...)))
		case "usevia":
			viaID, ok := b.viaByName[rule.Via]
			if !ok {
				return nil, errors.Errorf("fixture: unknown via padstack %q", rule.Via)
			}
			rules = append(rules, board.UseViaRule(viaID))
		default:
			return nil, errors.Errorf("fixture: unknown rule kind %q", rule.Kind)
		}
	}
	return board.NewRuleSet(b.pcb.ToID(rd.Name), rules)
}
