package dedupe

import (
	"sort"

	"circl/backend/internal/repository"
)

// Pair is one candidate duplicate: two contacts judged similar, with the
// similarity basis. Pairs are ephemeral and recomputed on every scan.
// Primary is always the earlier-created contact.
type Pair struct {
	Primary    repository.Contact `json:"primary"`
	Secondary  repository.Contact `json:"secondary"`
	Similarity Similarity         `json:"similarity"`
}

// FindPairs runs an all-pairs comparison over one user's contacts and
// returns every unordered pair scoring at or above cfg.PairThreshold,
// each pair exactly once. O(n²) over the contact set; per-user contact
// counts are small enough that no blocking strategy is needed.
//
// Output is deterministic: pairs sorted by descending similarity, ties
// broken by contact creation order.
func FindPairs(contacts []repository.Contact, cfg Config) []Pair {
	if len(contacts) < 2 {
		return nil
	}

	// Fix creation order up front so pair orientation and tie-breaks do not
	// depend on the caller's ordering.
	ordered := make([]repository.Contact, len(contacts))
	copy(ordered, contacts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	var pairs []Pair
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			sim := Compare(&ordered[i], &ordered[j], cfg)
			if sim.Score >= cfg.PairThreshold {
				pairs = append(pairs, Pair{
					Primary:    ordered[i],
					Secondary:  ordered[j],
					Similarity: sim,
				})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Similarity.Score != pairs[j].Similarity.Score {
			return pairs[i].Similarity.Score > pairs[j].Similarity.Score
		}
		if !pairs[i].Primary.CreatedAt.Equal(pairs[j].Primary.CreatedAt) {
			return pairs[i].Primary.CreatedAt.Before(pairs[j].Primary.CreatedAt)
		}
		return pairs[i].Secondary.CreatedAt.Before(pairs[j].Secondary.CreatedAt)
	})

	return pairs
}
