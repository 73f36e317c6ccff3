package recommendations

import (
	"sort"

	"github.com/google/uuid"
)

// peer is one other user weighted by taste overlap with the current user.
type peer struct {
	UserID     string
	Similarity float64
	ArtistIDs  []uuid.UUID
}

// Jaccard returns |A∩B| / |A∪B| over artist id sets. Two empty sets
// have zero similarity, not one.
func Jaccard(a, b []uuid.UUID) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	setA := make(map[uuid.UUID]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}
	union := make(map[uuid.UUID]struct{}, len(a)+len(b))
	for id := range setA {
		union[id] = struct{}{}
	}
	intersection := 0
	for _, id := range b {
		if _, ok := union[id]; !ok {
			union[id] = struct{}{}
		}
		if _, ok := setA[id]; ok {
			// Count each b-side id once even when it repeats.
			delete(setA, id)
			intersection++
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

// topPeers ranks candidate peers by Jaccard similarity against the
// user's liked set and keeps the best k with similarity > 0.
func topPeers(userLiked []uuid.UUID, others []peer, k int) []peer {
	scored := make([]peer, 0, len(others))
	for _, o := range others {
		sim := Jaccard(userLiked, o.ArtistIDs)
		if sim <= 0 {
			continue
		}
		o.Similarity = sim
		scored = append(scored, o)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
