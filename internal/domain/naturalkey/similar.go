package naturalkey

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// NearDuplicateDistance distancia máxima para considerar dos claves como posible duplicado.
const NearDuplicateDistance = 2

// Similar devuelve las claves de existing que se parecen a key sin ser iguales tras Fold
// (errores tipográficos, abreviaturas). Se usa para avisar, nunca para fusionar.
func Similar(key string, existing []string) []string {
	folded := Fold(key)
	if folded == "" {
		return nil
	}
	seen := make(map[int]bool)
	var out []string
	add := func(i int) {
		if seen[i] || Fold(existing[i]) == folded {
			return
		}
		seen[i] = true
		out = append(out, existing[i])
	}

	ranks := fuzzy.RankFindNormalizedFold(folded, existing)
	sort.Sort(ranks)
	for _, rank := range ranks {
		if rank.Distance <= NearDuplicateDistance {
			add(rank.OriginalIndex)
		}
	}
	for i, candidate := range existing {
		if fuzzy.LevenshteinDistance(folded, Fold(candidate)) <= NearDuplicateDistance {
			add(i)
		}
	}
	return out
}
