package gridroute

import "pcbroute/board"

// KendallTau counts the number of pairs whose relative order differs
// between a and b, two permutations of the same id set. It is 0 iff the
// permutations are identical and symmetric in its arguments. The GA does not
// call it.
func KendallTau(a, b []board.Id) int {
	pos := make(map[board.Id]int, len(b))
	for i, id := range b {
		pos[id] = i
	}
	rank := make([]int, 0, len(a))
	for _, id := range a {
		if p, ok := pos[id]; ok {
			rank = append(rank, p)
		}
	}
	discordant := 0
	for i := 0; i < len(rank); i++ {
		for j := i + 1; j < len(rank); j++ {
			if rank[i] > rank[j] {
				discordant++
			}
		}
	}
	return discordant
}
