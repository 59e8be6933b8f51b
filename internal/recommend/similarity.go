package recommend

import (
	"math"
	"sort"

	"auction-ai/internal/models"
)

// Neighbor is a user ranked by profile similarity to a target user.
type Neighbor struct {
	UserID int64   `json:"user_id"`
	Score  float64 `json:"score"`
}

// SimilarityIndex embeds user profiles into a dense category-frequency
// matrix and precomputes all-pairs cosine similarity. Built once from a
// snapshot and treated as immutable afterwards, so concurrent reads need
// no locking.
type SimilarityIndex struct {
	columns []models.Category
	userIDs []int64
	userIdx map[int64]int
	sim     [][]float64
}

// BuildSimilarityIndex constructs the index from a ProfileSet. Rows are
// ordered by ascending user id and columns by lexicographically sorted
// category name, so rebuilding from the same snapshot yields an identical
// matrix.
func BuildSimilarityIndex(ps *ProfileSet) *SimilarityIndex {
	categorySet := make(map[models.Category]struct{})
	for _, profile := range ps.Profiles {
		for category := range profile {
			categorySet[category] = struct{}{}
		}
	}
	columns := make([]models.Category, 0, len(categorySet))
	for category := range categorySet {
		columns = append(columns, category)
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i] < columns[j] })

	userIDs := make([]int64, 0, len(ps.Profiles))
	for userID := range ps.Profiles {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	userIdx := make(map[int64]int, len(userIDs))
	for i, userID := range userIDs {
		userIdx[userID] = i
	}

	idx := &SimilarityIndex{
		columns: columns,
		userIDs: userIDs,
		userIdx: userIdx,
	}

	n := len(userIDs)
	idx.sim = make([][]float64, n)
	for i := range idx.sim {
		idx.sim[i] = make([]float64, n)
	}

	// With no observed categories anywhere the feature matrix has zero
	// width; leave the similarity matrix all-zero instead of dividing by
	// zero norms.
	if len(columns) == 0 {
		return idx
	}

	features := make([][]float64, n)
	norms := make([]float64, n)
	for i, userID := range userIDs {
		vec := make([]float64, len(columns))
		for j, category := range columns {
			vec[j] = float64(ps.Profiles[userID][category])
		}
		features[i] = vec
		norms[i] = vectorNorm(vec)
	}

	for i := 0; i < n; i++ {
		idx.sim[i][i] = 1.0
		if norms[i] == 0 {
			idx.sim[i][i] = 0
		}
		for j := i + 1; j < n; j++ {
			s := 0.0
			if norms[i] > 0 && norms[j] > 0 {
				s = dot(features[i], features[j]) / (norms[i] * norms[j])
			}
			idx.sim[i][j] = s
			idx.sim[j][i] = s
		}
	}

	return idx
}

// Size returns the number of users in the index.
func (idx *SimilarityIndex) Size() int { return len(idx.userIDs) }

// Columns returns the ordered category columns of the feature space.
func (idx *SimilarityIndex) Columns() []models.Category { return idx.columns }

// Similarity returns the cosine similarity between two users, or 0 when
// either is unknown.
func (idx *SimilarityIndex) Similarity(a, b int64) float64 {
	i, ok := idx.userIdx[a]
	if !ok {
		return 0
	}
	j, ok := idx.userIdx[b]
	if !ok {
		return 0
	}
	return idx.sim[i][j]
}

// NearestNeighbors returns up to k users ranked by similarity to userID.
// The target itself is never included. An unknown user yields nil, which
// signals a cold start to the caller. Ties are broken by ascending user id
// so results are reproducible.
func (idx *SimilarityIndex) NearestNeighbors(userID int64, k int) []Neighbor {
	i, ok := idx.userIdx[userID]
	if !ok || k <= 0 {
		return nil
	}

	neighbors := make([]Neighbor, 0, len(idx.userIDs)-1)
	for j, otherID := range idx.userIDs {
		if j == i {
			continue
		}
		neighbors = append(neighbors, Neighbor{UserID: otherID, Score: idx.sim[i][j]})
	}

	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].Score != neighbors[b].Score {
			return neighbors[a].Score > neighbors[b].Score
		}
		return neighbors[a].UserID < neighbors[b].UserID
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func vectorNorm(vec []float64) float64 {
	sum := 0.0
	for _, v := range vec {
		sum += v * v
	}
	return math.Sqrt(sum)
}
