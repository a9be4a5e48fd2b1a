package gridroute

import (
	"context"
	"math/rand/v2"
	"testing"

	"pcbroute/board"
	"pcbroute/config"
)

func isPermutationOf(t *testing.T, got, want []board.Id) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len(got)=%d, len(want)=%d", len(got), len(want))
	}
	seen := make(map[board.Id]int, len(want))
	for _, id := range want {
		seen[id]++
	}
	for _, id := range got {
		seen[id]--
	}
	for id, n := range seen {
		if n != 0 {
			t.Fatalf("result is not a permutation of the input: id %d off by %d", id, n)
		}
	}
}

func TestRunGAFallsBackToSequentialForTrivialInputs(t *testing.T) {
	t.Parallel()
	pcb := buildTwoPinPcb(t) // one net: base order has length 1
	cfg := testConfig()
	res, order, err := RunGA(context.Background(), pcb, cfg)
	if err != nil {
		t.Fatalf("RunGA: %v", err)
	}
	if res.Failed {
		t.Fatalf("expected the trivial single-net board to route successfully")
	}
	if len(order) != 1 {
		t.Fatalf("len(order)=%d, want 1", len(order))
	}
}

func TestRunGAReturnsValidOrderOnMultiNetBoard(t *testing.T) {
	t.Parallel()
	pcb := buildFourNetPcb(t)
	cfg := config.New(
		config.WithResolution(1.0),
		config.WithRngSeed(7),
		config.WithGAPopulation(6),
		config.WithGAGenerations(3),
	)
	res, order, err := RunGA(context.Background(), pcb, cfg)
	if err != nil {
		t.Fatalf("RunGA: %v", err)
	}
	isPermutationOf(t, order, SequentialOrder(pcb))
	if res.Failed {
		t.Fatalf("expected the well-separated four-net board to route successfully")
	}
}

func TestCrossoverOperatorsProduceValidPermutations(t *testing.T) {
	t.Parallel()
	pcb := buildFourNetPcb(t)
	p1 := SequentialOrder(pcb)
	p2 := append([]board.Id(nil), p1...)
	prng := rand.New(rand.NewPCG(1, 2))
	prng.Shuffle(len(p2), func(i, j int) { p2[i], p2[j] = p2[j], p2[i] })

	ops := map[string]func([]board.Id, []board.Id, *rand.Rand) []board.Id{
		"pmx":   pmxCrossover,
		"order": orderCrossover,
		"cycle": cycleCrossover,
	}
	for name, op := range ops {
		name, op := name, op
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			child := op(p1, p2, rand.New(rand.NewPCG(3, 4)))
			isPermutationOf(t, child, p1)
		})
	}
}

func TestMutationOperatorsPreservePermutation(t *testing.T) {
	t.Parallel()
	pcb := buildFourNetPcb(t)
	base := SequentialOrder(pcb)

	ops := map[string]func([]board.Id, *rand.Rand){
		"swap":      mutateSwap,
		"insert":    mutateInsert,
		"scramble":  mutateScramble,
		"inversion": mutateInversion,
	}
	for name, op := range ops {
		name, op := name, op
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			perm := append([]board.Id(nil), base...)
			op(perm, rand.New(rand.NewPCG(5, 6)))
			isPermutationOf(t, perm, base)
		})
	}
}

func TestFitnessPenalizesFailuresAndVias(t *testing.T) {
	t.Parallel()
	clean := RouteResult{}
	withVia := RouteResult{Vias: []board.Via{{}}}
	failed := RouteResult{FailedCount: 1}

	if fitness(withVia) >= fitness(clean) {
		t.Fatalf("adding a via should not increase fitness")
	}
	if fitness(failed) >= fitness(withVia) {
		t.Fatalf("a failed net should score worse than an extra via")
	}
}
