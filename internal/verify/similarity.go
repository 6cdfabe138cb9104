package verify

import "trustlens/internal/lookup"

// Similarity scores two firm names in [0,1] using normalized Levenshtein
// distance over canonical (lower-cased, alphanumeric-only) forms.
func Similarity(a, b string) float64 {
	na, nb := lookup.NormalizeName(a), lookup.NormalizeName(b)
	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	dist := levenshtein(na, nb)
	longest := len(na)
	if len(nb) > longest {
		longest = len(nb)
	}
	return 1 - float64(dist)/float64(longest)
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// BestMatch returns the candidate most similar to the query name and its
// similarity, or similarity 0 when there are no candidates.
func BestMatch(query string, candidates []lookup.Candidate) (lookup.Candidate, float64) {
	var best lookup.Candidate
	bestSim := 0.0
	for _, c := range candidates {
		if sim := Similarity(query, c.Name); sim > bestSim {
			best, bestSim = c, sim
		}
	}
	return best, bestSim
}
