package recommend

import (
	"testing"

	"auction-ai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileSet(profiles map[int64]Profile) *ProfileSet {
	return &ProfileSet{
		Profiles:   profiles,
		BidItems:   map[int64]map[int64]struct{}{},
		LikedItems: map[int64]map[int64]struct{}{},
	}
}

func TestIdenticalProfilesHaveSimilarityOne(t *testing.T) {
	ps := profileSet(map[int64]Profile{
		1: {models.CategoryDigital: 2, models.CategoryClothes: 1},
		2: {models.CategoryDigital: 2, models.CategoryClothes: 1},
		3: {models.CategoryBook: 5},
	})

	idx := BuildSimilarityIndex(ps)

	assert.InDelta(t, 1.0, idx.Similarity(1, 2), 1e-9)
	assert.InDelta(t, 0.0, idx.Similarity(1, 3), 1e-9)
}

func TestEmptyProfileHasZeroSimilarity(t *testing.T) {
	ps := profileSet(map[int64]Profile{
		1: {},
		2: {models.CategoryDigital: 3},
		3: {models.CategoryClothes: 1},
	})

	idx := BuildSimilarityIndex(ps)

	assert.Zero(t, idx.Similarity(1, 2))
	assert.Zero(t, idx.Similarity(1, 3))

	// Zero similarity still yields a deterministic ranked neighbor list.
	neighbors := idx.NearestNeighbors(1, 5)
	require.Len(t, neighbors, 2)
	assert.Equal(t, int64(2), neighbors[0].UserID)
	assert.Equal(t, int64(3), neighbors[1].UserID)
	assert.Zero(t, neighbors[0].Score)
}

func TestDegenerateIndexWithNoCategories(t *testing.T) {
	ps := profileSet(map[int64]Profile{1: {}, 2: {}, 3: {}})

	idx := BuildSimilarityIndex(ps)

	assert.Empty(t, idx.Columns())
	assert.Equal(t, 3, idx.Size())
	for _, a := range []int64{1, 2, 3} {
		for _, b := range []int64{1, 2, 3} {
			assert.Zero(t, idx.Similarity(a, b))
		}
	}

	// Lookups must not crash; they return a deterministic zero-score ranking.
	neighbors := idx.NearestNeighbors(2, 5)
	require.Len(t, neighbors, 2)
	assert.Equal(t, int64(1), neighbors[0].UserID)
	assert.Equal(t, int64(3), neighbors[1].UserID)
}

func TestNearestNeighborsExcludesSelf(t *testing.T) {
	ps := profileSet(map[int64]Profile{
		1: {models.CategoryDigital: 1},
		2: {models.CategoryDigital: 1},
		3: {models.CategoryDigital: 1},
	})

	idx := BuildSimilarityIndex(ps)

	for _, userID := range []int64{1, 2, 3} {
		for _, neighbor := range idx.NearestNeighbors(userID, 10) {
			assert.NotEqual(t, userID, neighbor.UserID)
		}
	}
}

func TestNearestNeighborsUnknownUser(t *testing.T) {
	ps := profileSet(map[int64]Profile{1: {models.CategoryDigital: 1}})
	idx := BuildSimilarityIndex(ps)

	assert.Nil(t, idx.NearestNeighbors(999, 5))
}

func TestNearestNeighborsRankingAndTieBreak(t *testing.T) {
	ps := profileSet(map[int64]Profile{
		1: {models.CategoryDigital: 4},
		2: {models.CategoryDigital: 2},                           // identical direction -> sim 1
		5: {models.CategoryDigital: 2},                           // identical direction -> sim 1, higher id
		3: {models.CategoryDigital: 1, models.CategoryClothes: 1}, // partial overlap
		4: {models.CategoryBook: 3},                              // orthogonal
	})

	idx := BuildSimilarityIndex(ps)

	neighbors := idx.NearestNeighbors(1, 3)
	require.Len(t, neighbors, 3)
	// Ties at similarity 1 break by ascending user id.
	assert.Equal(t, int64(2), neighbors[0].UserID)
	assert.Equal(t, int64(5), neighbors[1].UserID)
	assert.Equal(t, int64(3), neighbors[2].UserID)
	assert.Greater(t, neighbors[1].Score, neighbors[2].Score)
}

func TestRebuildIsDeterministic(t *testing.T) {
	profiles := map[int64]Profile{
		7: {models.CategoryDigital: 1, models.CategorySports: 2},
		3: {models.CategoryClothes: 4},
		9: {models.CategorySports: 1},
	}

	a := BuildSimilarityIndex(profileSet(profiles))
	b := BuildSimilarityIndex(profileSet(profiles))

	require.Equal(t, a.Columns(), b.Columns())
	require.Equal(t, a.Size(), b.Size())
	for _, x := range []int64{3, 7, 9} {
		for _, y := range []int64{3, 7, 9} {
			assert.Equal(t, a.Similarity(x, y), b.Similarity(x, y))
		}
	}
}
