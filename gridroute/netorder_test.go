package gridroute

import (
	"testing"

	"pcbroute/board"
)

func TestKendallTauZeroForIdenticalOrder(t *testing.T) {
	t.Parallel()
	pcb := buildFourNetPcb(t)
	order := SequentialOrder(pcb)
	if got := KendallTau(order, order); got != 0 {
		t.Fatalf("KendallTau(order, order)=%d, want 0", got)
	}
}

func TestKendallTauSymmetric(t *testing.T) {
	t.Parallel()
	pcb := buildFourNetPcb(t)
	a := SequentialOrder(pcb)
	b := append([]board.Id(nil), a...)
	b[0], b[len(b)-1] = b[len(b)-1], b[0]
	if KendallTau(a, b) != KendallTau(b, a) {
		t.Fatalf("KendallTau is not symmetric: %d vs %d", KendallTau(a, b), KendallTau(b, a))
	}
	if KendallTau(a, b) == 0 {
		t.Fatalf("swapping endpoints should produce a nonzero Kendall tau distance")
	}
}
