package gridroute

import (
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"pcbroute/board"
	"pcbroute/config"
)

// mutationRate is the per-child probability a mutation operator runs at all;
// the four operators themselves are chosen uniformly when it does.
const mutationRate = 0.2

type individual struct {
	order   []board.Id
	result  RouteResult
	fitness float64
}

// RunGA searches net orderings with a permutation GA and returns the best
// individual's route result and its winning order. Every fitness evaluation
// runs the deterministic sequential router over a cloned pcb, so workers
// never share mutable state (§5).
func RunGA(ctx context.Context, pcb *board.Pcb, cfg *config.Config) (RouteResult, []board.Id, error) {
	base := SequentialOrder(pcb)
	if len(base) < 2 || cfg.GAPopulation < 2 || cfg.GAGenerations < 1 {
		res, err := RouteOrder(ctx, pcb, cfg, base)
		return res, base, err
	}

	prng := rand.New(rand.NewPCG(cfg.RngSeed, cfg.RngSeed^0x9e3779b97f4a7c15))

	pop := make([]individual, cfg.GAPopulation)
	pop[0] = individual{order: append([]board.Id(nil), base...)}
	for i := 1; i < len(pop); i++ {
		perm := append([]board.Id(nil), base...)
		prng.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		pop[i] = individual{order: perm}
	}

	if err := evaluatePopulation(ctx, pcb, cfg, pop); err != nil {
		return RouteResult{}, nil, err
	}
	best := bestOf(pop)

	for gen := 1; gen < cfg.GAGenerations; gen++ {
		next := make([]individual, 1, len(pop))
		next[0] = best // elitism
		for len(next) < len(pop) {
			p1 := tournamentSelect(pop, prng)
			p2 := tournamentSelect(pop, prng)
			child := crossover(p1.order, p2.order, prng)
			mutate(child, prng)
			next = append(next, individual{order: child})
		}
		if err := evaluatePopulation(ctx, pcb, cfg, next); err != nil {
			return RouteResult{}, nil, err
		}
		pop = next
		if cand := bestOf(pop); cand.fitness > best.fitness {
			best = cand
		}
	}
	return best.result, best.order, nil
}

func bestOf(pop []individual) individual {
	best := pop[0]
	for _, ind := range pop[1:] {
		if ind.fitness > best.fitness {
			best = ind
		}
	}
	return best
}

func evaluatePopulation(ctx context.Context, pcb *board.Pcb, cfg *config.Config, pop []individual) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range pop {
		i := i
		g.Go(func() error {
			res, err := RouteOrder(gctx, pcb.Clone(), cfg, pop[i].order)
			if err != nil {
				return err
			}
			pop[i].result = res
			pop[i].fitness = fitness(res)
			return nil
		})
	}
	return g.Wait()
}

// fitness follows §4.3 exactly: wire length is part of the cost even though
// the routed-length term was a later addition over the original formula.
func fitness(res RouteResult) float64 {
	return 1 / (1 + 1000*float64(res.FailedCount) + 10*float64(len(res.Vias)) + res.WireLength())
}

func tournamentSelect(pop []individual, prng *rand.Rand) individual {
	const k = 3
	best := pop[prng.IntN(len(pop))]
	for i := 1; i < k; i++ {
		cand := pop[prng.IntN(len(pop))]
		if cand.fitness > best.fitness {
			best = cand
		}
	}
	return best
}

func crossover(p1, p2 []board.Id, prng *rand.Rand) []board.Id {
	switch prng.IntN(3) {
	case 0:
		return pmxCrossover(p1, p2, prng)
	case 1:
		return orderCrossover(p1, p2, prng)
	default:
		return cycleCrossover(p1, p2, prng)
	}
}

func randRange(n int, prng *rand.Rand) (int, int) {
	a, b := prng.IntN(n), prng.IntN(n)
	if a > b {
		a, b = b, a
	}
	return a, b
}

// pmxCrossover is partially-mapped crossover: a middle segment is copied
// from p1, conflicts from p2 resolved by following the segment's mapping
// chain, and the rest filled directly from p2.
func pmxCrossover(p1, p2 []board.Id, prng *rand.Rand) []board.Id {
	n := len(p1)
	a, b := randRange(n, prng)

	child := make([]board.Id, n)
	filled := make([]bool, n)
	used := make(map[board.Id]bool, n)
	posInP2 := make(map[board.Id]int, n)
	for i, id := range p2 {
		posInP2[id] = i
	}

	for i := a; i <= b; i++ {
		child[i] = p1[i]
		filled[i] = true
		used[p1[i]] = true
	}
	for i := a; i <= b; i++ {
		id := p2[i]
		if used[id] {
			continue
		}
		pos := i
		for {
			pos = posInP2[p1[pos]]
			if pos < a || pos > b {
				break
			}
		}
		child[pos] = id
		filled[pos] = true
		used[id] = true
	}
	for i := 0; i < n; i++ {
		if !filled[i] {
			child[i] = p2[i]
		}
	}
	return child
}

// orderCrossover copies a middle segment from p1, then fills the remaining
// slots with p2's ids in p2's own relative order, starting just past the
// segment.
func orderCrossover(p1, p2 []board.Id, prng *rand.Rand) []board.Id {
	n := len(p1)
	a, b := randRange(n, prng)

	child := make([]board.Id, n)
	filled := make([]bool, n)
	used := make(map[board.Id]bool, n)
	for i := a; i <= b; i++ {
		child[i] = p1[i]
		filled[i] = true
		used[p1[i]] = true
	}

	start := (b + 1) % n
	j := start
	for c := 0; c < n; c++ {
		id := p2[(start+c)%n]
		if used[id] {
			continue
		}
		for filled[j] {
			j = (j + 1) % n
		}
		child[j] = id
		filled[j] = true
		used[id] = true
	}
	return child
}

// cycleCrossover partitions positions into index-cycles between p1 and p2,
// alternating which parent supplies each cycle's values.
func cycleCrossover(p1, p2 []board.Id, prng *rand.Rand) []board.Id {
	n := len(p1)
	child := make([]board.Id, n)
	filled := make([]bool, n)
	posInP1 := make(map[board.Id]int, n)
	for i, id := range p1 {
		posInP1[id] = i
	}

	fromP1 := prng.IntN(2) == 0
	for i := 0; i < n; i++ {
		if filled[i] {
			continue
		}
		var cycle []int
		idx := i
		for {
			cycle = append(cycle, idx)
			filled[idx] = true
			idx = posInP1[p2[idx]]
			if idx == i {
				break
			}
		}
		for _, idx := range cycle {
			if fromP1 {
				child[idx] = p1[idx]
			} else {
				child[idx] = p2[idx]
			}
		}
		fromP1 = !fromP1
	}
	return child
}

func mutate(perm []board.Id, prng *rand.Rand) {
	if prng.Float64() > mutationRate {
		return
	}
	switch prng.IntN(4) {
	case 0:
		mutateSwap(perm, prng)
	case 1:
		mutateInsert(perm, prng)
	case 2:
		mutateScramble(perm, prng)
	default:
		mutateInversion(perm, prng)
	}
}

func mutateSwap(perm []board.Id, prng *rand.Rand) {
	if len(perm) < 2 {
		return
	}
	i, j := prng.IntN(len(perm)), prng.IntN(len(perm))
	perm[i], perm[j] = perm[j], perm[i]
}

// mutateInsert relocates the element at a random index to another random
// index, shifting the intervening run by one, in place.
func mutateInsert(perm []board.Id, prng *rand.Rand) {
	n := len(perm)
	if n < 3 {
		return
	}
	i, j := prng.IntN(n), prng.IntN(n)
	if i == j {
		return
	}
	id := perm[i]
	if i < j {
		copy(perm[i:j], perm[i+1:j+1])
	} else {
		copy(perm[j+1:i+1], perm[j:i])
	}
	perm[j] = id
}

func mutateScramble(perm []board.Id, prng *rand.Rand) {
	a, b := randRange(len(perm), prng)
	sub := perm[a : b+1]
	prng.Shuffle(len(sub), func(i, j int) { sub[i], sub[j] = sub[j], sub[i] })
}

func mutateInversion(perm []board.Id, prng *rand.Rand) {
	a, b := randRange(len(perm), prng)
	for i, j := a, b; i < j; i, j = i+1, j-1 {
		perm[i], perm[j] = perm[j], perm[i]
	}
}
