package recommendations

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	tests := []struct {
		name     string
		left     []uuid.UUID
		right    []uuid.UUID
		expected float64
	}{
		{"both empty", nil, nil, 0},
		{"one empty", []uuid.UUID{a}, nil, 0},
		{"identical sets", []uuid.UUID{a, b}, []uuid.UUID{a, b}, 1},
		{"disjoint sets", []uuid.UUID{a}, []uuid.UUID{b}, 0},
		{"partial overlap", []uuid.UUID{a, b}, []uuid.UUID{b, c}, 1.0 / 3.0},
		{"duplicates count once", []uuid.UUID{a, b}, []uuid.UUID{b, b, c}, 1.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Jaccard(tt.left, tt.right), 0.0001)
		})
	}
}

func TestJaccardIsSymmetric(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	left := []uuid.UUID{a, b}
	right := []uuid.UUID{b, c}

	assert.Equal(t, Jaccard(left, right), Jaccard(right, left))
}

func TestTopPeers(t *testing.T) {
	shared := uuid.New()
	liked := []uuid.UUID{shared, uuid.New()}

	others := []peer{
		{UserID: "twin", ArtistIDs: liked},
		{UserID: "overlap", ArtistIDs: []uuid.UUID{shared, uuid.New(), uuid.New()}},
		{UserID: "stranger", ArtistIDs: []uuid.UUID{uuid.New()}},
	}

	peers := topPeers(liked, others, 5)

	assert.Len(t, peers, 2)
	assert.Equal(t, "twin", peers[0].UserID)
	assert.InDelta(t, 1.0, peers[0].Similarity, 0.0001)
	assert.Equal(t, "overlap", peers[1].UserID)
}

func TestTopPeersCapsAtK(t *testing.T) {
	shared := uuid.New()
	liked := []uuid.UUID{shared}

	others := make([]peer, 8)
	for i := range others {
		others[i] = peer{UserID: "peer", ArtistIDs: []uuid.UUID{shared, uuid.New()}}
	}

	assert.Len(t, topPeers(liked, others, 5), 5)
}
