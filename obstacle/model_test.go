package obstacle

import (
	"testing"

	"pcbroute/board"
	"pcbroute/config"
	"pcbroute/geom"
	"pcbroute/spatial"
)

// buildTestPcb returns a single-layer board with a 100x100mm boundary, one
// via padstack, a default ruleset with a 0.2mm trace radius and a 0.5mm
// wire-wire clearance, and two components each with a single pin, not yet
// wired to any net.
func buildTestPcb(t *testing.T) *board.Pcb {
	t.Helper()
	names := board.NewNameMap()
	pcb := board.NewPcb(names)

	pcb.AddLayer(board.Layer{NameID: pcb.ToID("top"), LayerID: 0, Kind: board.LayerSignal})
	pcb.AddBoundary(board.LayerShape{Layers: board.OneLayer(0), Shape: geom.NewRect(0, 0, 100, 100)})

	viaPs := board.Padstack{
		ID:     pcb.ToID("via"),
		Shapes: []board.LayerShape{{Layers: board.OneLayer(0), Shape: geom.NewCircle(geom.P(0, 0), 0.3)}},
	}
	pcb.AddViaPadstack(viaPs)

	pinPs := board.Padstack{
		Shapes: []board.LayerShape{{Layers: board.OneLayer(0), Shape: geom.NewCircle(geom.P(0, 0), 0.25)}},
	}

	c1 := board.NewComponent(pcb.ToID("U1"))
	c1.P = geom.P(10, 10)
	c1.AddPin(board.Pin{ID: pcb.ToID("U1.1"), Padstack: pinPs, P: geom.P(0, 0)})
	pcb.AddComponent(c1)

	c2 := board.NewComponent(pcb.ToID("U2"))
	c2.P = geom.P(20, 10)
	c2.AddPin(board.Pin{ID: pcb.ToID("U2.1"), Padstack: pinPs, P: geom.P(0, 0)})
	pcb.AddComponent(c2)

	rules := []board.Rule{
		board.RadiusRule(0.2),
		board.ClearanceRule(board.NewClearance(0.5, [2]spatial.ObjectKind{spatial.KindWire, spatial.KindWire})),
	}
	rs, err := board.NewRuleSet(pcb.ToID("default"), rules)
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	pcb.AddRuleSet(rs)
	pcb.SetDefaultNetRuleSet(rs.ID)

	return pcb
}

func TestCreateWireUsesRulesetRadius(t *testing.T) {
	t.Parallel()
	pcb := buildTestPcb(t)
	net := board.Net{ID: pcb.ToID("net1"), Pins: []board.PinRef{
		{Component: pcb.ToID("U1"), Pin: pcb.ToID("U1.1")},
		{Component: pcb.ToID("U2"), Pin: pcb.ToID("U2.1")},
	}}
	pcb.AddNet(net)

	m, err := New(pcb, config.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w, err := m.CreateWire(net.ID, 0, []geom.Pt{geom.P(10, 10), geom.P(20, 10)})
	if err != nil {
		t.Fatalf("CreateWire: %v", err)
	}
	path, ok := w.Shape.Shape.(geom.Path)
	if !ok {
		t.Fatalf("wire shape is %T, want geom.Path", w.Shape.Shape)
	}
	if path.Radius != 0.2 {
		t.Fatalf("wire radius=%v, want ruleset radius 0.2", path.Radius)
	}
}

func TestAddWireBlocksCrossingOtherNet(t *testing.T) {
	t.Parallel()
	pcb := buildTestPcb(t)
	net1 := board.Net{ID: pcb.ToID("net1"), Pins: []board.PinRef{
		{Component: pcb.ToID("U1"), Pin: pcb.ToID("U1.1")},
	}}
	net2 := board.Net{ID: pcb.ToID("net2"), Pins: []board.PinRef{
		{Component: pcb.ToID("U2"), Pin: pcb.ToID("U2.1")},
	}}
	pcb.AddNet(net1)
	pcb.AddNet(net2)

	m, err := New(pcb, config.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// w1 stops short of U2's pin at (20,10), which belongs to net2.
	w1, err := m.CreateWire(net1.ID, 0, []geom.Pt{geom.P(5, 10), geom.P(16, 10)})
	if err != nil {
		t.Fatalf("CreateWire net1: %v", err)
	}
	m.AddWire(w1)

	w2, err := m.CreateWire(net2.ID, 0, []geom.Pt{geom.P(15, 5), geom.P(15, 15)})
	if err != nil {
		t.Fatalf("CreateWire net2: %v", err)
	}
	blocked, err := m.IsWireBlocked(w2)
	if err != nil {
		t.Fatalf("IsWireBlocked: %v", err)
	}
	if !blocked {
		t.Fatalf("net2's crossing wire should be blocked by net1's wire")
	}

	blocked1, err := m.IsWireBlocked(w1)
	if err != nil {
		t.Fatalf("IsWireBlocked: %v", err)
	}
	if blocked1 {
		t.Fatalf("a net's own wire should not be blocked by itself (ExceptTag)")
	}
}

func TestRemoveNetThenAddNetIsInverse(t *testing.T) {
	t.Parallel()
	pcb := buildTestPcb(t)
	net := board.Net{ID: pcb.ToID("net1"), Pins: []board.PinRef{
		{Component: pcb.ToID("U1"), Pin: pcb.ToID("U1.1")},
		{Component: pcb.ToID("U2"), Pin: pcb.ToID("U2.1")},
	}}
	pcb.AddNet(net)

	m, err := New(pcb, config.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	viaAtPin, err := m.CreateVia(net.ID, geom.P(10, 10))
	if err != nil {
		t.Fatalf("CreateVia: %v", err)
	}
	blockedBefore, err := m.IsViaBlocked(viaAtPin)
	if err != nil {
		t.Fatalf("IsViaBlocked: %v", err)
	}
	if !blockedBefore {
		t.Fatalf("via at the net's own pin should be blocked before the net is opened")
	}

	m.RemoveNet(net)
	blockedAfterRemove, err := m.IsViaBlocked(viaAtPin)
	if err != nil {
		t.Fatalf("IsViaBlocked after RemoveNet: %v", err)
	}
	if blockedAfterRemove {
		t.Fatalf("via at the net's own pin should be unblocked once the net is opened")
	}

	if err := m.AddNet(net); err != nil {
		t.Fatalf("AddNet: %v", err)
	}
	blockedAfterAdd, err := m.IsViaBlocked(viaAtPin)
	if err != nil {
		t.Fatalf("IsViaBlocked after AddNet: %v", err)
	}
	if !blockedAfterAdd {
		t.Fatalf("via at the net's own pin should be blocked again after AddNet restores it")
	}
}

func TestCreateViaUsesPreferredPadstack(t *testing.T) {
	t.Parallel()
	pcb := buildTestPcb(t)
	bigVia := board.Padstack{
		ID:     pcb.ToID("bigvia"),
		Shapes: []board.LayerShape{{Layers: board.OneLayer(0), Shape: geom.NewCircle(geom.P(0, 0), 0.6)}},
	}
	pcb.AddViaPadstack(bigVia)

	rules := []board.Rule{board.RadiusRule(0.2), board.UseViaRule(bigVia.ID)}
	rs, err := board.NewRuleSet(pcb.ToID("preferred"), rules)
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	pcb.AddRuleSet(rs)

	net := board.Net{ID: pcb.ToID("net1"), Pins: []board.PinRef{
		{Component: pcb.ToID("U1"), Pin: pcb.ToID("U1.1")},
	}}
	pcb.AddNet(net)
	pcb.SetNetRuleSet(net.ID, rs.ID)

	m, err := New(pcb, config.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v, err := m.CreateVia(net.ID, geom.P(50, 50))
	if err != nil {
		t.Fatalf("CreateVia: %v", err)
	}
	if v.Padstack.ID != bigVia.ID {
		t.Fatalf("via padstack=%d, want preferred padstack %d", v.Padstack.ID, bigVia.ID)
	}
}
