package gridroute

import (
	"context"
	"testing"

	"pcbroute/geom"
)

func TestRouteSequentialConnectsSimpleNet(t *testing.T) {
	t.Parallel()
	pcb := buildTwoPinPcb(t)
	res, err := RouteSequential(context.Background(), pcb, testConfig())
	if err != nil {
		t.Fatalf("RouteSequential: %v", err)
	}
	if res.Failed {
		t.Fatalf("expected the single net on an empty board to route successfully")
	}
	if len(res.Wires) == 0 {
		t.Fatalf("expected at least one wire to be committed")
	}
	if got := res.WireLength(); got <= 0 {
		t.Fatalf("WireLength=%v, want > 0", got)
	}
}

func TestRouteSequentialCommitsWiresToPcb(t *testing.T) {
	t.Parallel()
	pcb := buildTwoPinPcb(t)
	before := len(pcb.Wires())
	res, err := RouteSequential(context.Background(), pcb, testConfig())
	if err != nil {
		t.Fatalf("RouteSequential: %v", err)
	}
	if len(pcb.Wires()) != before+len(res.Wires) {
		t.Fatalf("pcb.Wires() was not updated to include the committed route")
	}
}

func TestSequentialOrderIsAscendingByNetID(t *testing.T) {
	t.Parallel()
	pcb := buildTwoPinPcb(t)
	order := SequentialOrder(pcb)
	for i := 1; i < len(order); i++ {
		if order[i-1] > order[i] {
			t.Fatalf("SequentialOrder not ascending: %v", order)
		}
	}
}

func TestRemoveStateFiltersExactlyOneMatch(t *testing.T) {
	t.Parallel()
	a := State{Cell: geom.PI(1, 1), Layer: 0}
	b := State{Cell: geom.PI(2, 2), Layer: 0}
	c := State{Cell: geom.PI(1, 1), Layer: 1}
	states := []State{a, b, c}
	got := removeState(states, a)
	if len(got) != 2 {
		t.Fatalf("len(removeState)=%d, want 2", len(got))
	}
	for _, s := range got {
		if s == a {
			t.Fatalf("removeState left %v in the result", a)
		}
	}
}
