package gridroute

import (
	"fmt"
	"testing"

	"pcbroute/board"
	"pcbroute/config"
	"pcbroute/geom"
)

// buildTwoPinPcb returns a single-layer 20x20mm board with two components,
// each with one pin, and one net connecting them. No obstacles sit between
// the pins, so a straight route should always succeed.
func buildTwoPinPcb(t *testing.T) *board.Pcb {
	t.Helper()
	names := board.NewNameMap()
	pcb := board.NewPcb(names)

	pcb.AddLayer(board.Layer{NameID: pcb.ToID("top"), LayerID: 0, Kind: board.LayerSignal})
	pcb.AddBoundary(board.LayerShape{Layers: board.OneLayer(0), Shape: geom.NewRect(0, 0, 20, 20)})

	viaPs := board.Padstack{
		ID:     pcb.ToID("via"),
		Shapes: []board.LayerShape{{Layers: board.OneLayer(0), Shape: geom.NewCircle(geom.P(0, 0), 0.3)}},
	}
	pcb.AddViaPadstack(viaPs)

	pinPs := board.Padstack{
		Shapes: []board.LayerShape{{Layers: board.OneLayer(0), Shape: geom.NewCircle(geom.P(0, 0), 0.2)}},
	}

	c1 := board.NewComponent(pcb.ToID("U1"))
	c1.P = geom.P(2, 10)
	c1.AddPin(board.Pin{ID: pcb.ToID("U1.1"), Padstack: pinPs, P: geom.P(0, 0)})
	pcb.AddComponent(c1)

	c2 := board.NewComponent(pcb.ToID("U2"))
	c2.P = geom.P(18, 10)
	c2.AddPin(board.Pin{ID: pcb.ToID("U2.1"), Padstack: pinPs, P: geom.P(0, 0)})
	pcb.AddComponent(c2)

	net := board.Net{ID: pcb.ToID("net1"), Pins: []board.PinRef{
		{Component: pcb.ToID("U1"), Pin: pcb.ToID("U1.1")},
		{Component: pcb.ToID("U2"), Pin: pcb.ToID("U2.1")},
	}}
	pcb.AddNet(net)

	rs, err := board.NewRuleSet(pcb.ToID("default"), []board.Rule{board.RadiusRule(0.15)})
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	pcb.AddRuleSet(rs)
	pcb.SetDefaultNetRuleSet(rs.ID)

	if err := pcb.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return pcb
}

func testConfig() *config.Config {
	return config.New(config.WithResolution(1.0), config.WithRngSeed(42))
}

// buildFourNetPcb returns a single-layer 100x100mm board with four
// independent two-pin nets laid out on a grid, far enough apart that no
// net's straight route crosses another's.
func buildFourNetPcb(t *testing.T) *board.Pcb {
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
		Shapes: []board.LayerShape{{Layers: board.OneLayer(0), Shape: geom.NewCircle(geom.P(0, 0), 0.2)}},
	}

	rows := []float64{10, 30, 50, 70}
	for i, y := range rows {
		srcName := pcb.ToID(fmt.Sprintf("S%d", i))
		dstName := pcb.ToID(fmt.Sprintf("D%d", i))

		src := board.NewComponent(srcName)
		src.P = geom.P(5, y)
		src.AddPin(board.Pin{ID: pcb.ToID(fmt.Sprintf("S%d.1", i)), Padstack: pinPs, P: geom.P(0, 0)})
		pcb.AddComponent(src)

		dst := board.NewComponent(dstName)
		dst.P = geom.P(95, y)
		dst.AddPin(board.Pin{ID: pcb.ToID(fmt.Sprintf("D%d.1", i)), Padstack: pinPs, P: geom.P(0, 0)})
		pcb.AddComponent(dst)

		net := board.Net{ID: pcb.ToID(fmt.Sprintf("net%d", i)), Pins: []board.PinRef{
			{Component: srcName, Pin: pcb.ToID(fmt.Sprintf("S%d.1", i))},
			{Component: dstName, Pin: pcb.ToID(fmt.Sprintf("D%d.1", i))},
		}}
		pcb.AddNet(net)
	}

	rs, err := board.NewRuleSet(pcb.ToID("default"), []board.Rule{board.RadiusRule(0.15)})
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	pcb.AddRuleSet(rs)
	pcb.SetDefaultNetRuleSet(rs.ID)

	if err := pcb.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return pcb
}
