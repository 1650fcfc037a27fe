package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/najdeno/internal/model"
)

func fixtures() ([]model.LostItem, []model.FoundItem) {
	lost := []model.LostItem{
		lostItem(1, model.CategoryElectronics, "Black iPhone 13", "lost near the gym", "Gym parking lot", day0),
		lostItem(2, model.CategoryKeys, "House keys", "three keys on a ring", "Main street", day0),
		lostItem(3, model.CategoryBags, "Green backpack", "laptop inside", "Central library", day0),
	}
	found := []model.FoundItem{
		foundItem(10, model.CategoryElectronics, "iPhone found", "found near gym entrance", "Gym parking lot", day0.AddDate(0, 0, 1)),
		foundItem(11, model.CategoryElectronics, "Samsung phone", "cracked screen", "Bus stop", day0.AddDate(0, 0, 9)),
		foundItem(12, model.CategoryKeys, "Keys on ring", "three keys", "Main street corner", day0.AddDate(0, 0, 2)),
		foundItem(13, model.CategoryBags, "Green backpack", "laptop inside", "Central library", day0),
		foundItem(14, model.CategoryElectronics, "Black iPhone 13", "lost near the gym", "Gym parking lot", day0),
	}
	return lost, found
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 40, cfg.MinScore)
	assert.Equal(t, 5, cfg.DateThresholdDays)

	m := NewMatcher(cfg)
	assert.Equal(t, 40, m.MinScore())
	assert.Equal(t, 5, m.Scorer().DateThresholdDays())
}

func TestMatchLost(t *testing.T) {
	lost, found := fixtures()
	m := NewMatcher(DefaultConfig())

	matches := m.MatchLost(&lost[0], found, DefaultMinScore)
	require.Len(t, matches, 2)
	// Identical text still loses points for the two-character "13".
	assert.Equal(t, int64(14), matches[0].FoundItem.ID)
	assert.Equal(t, 95, matches[0].Score)
	assert.Equal(t, int64(10), matches[1].FoundItem.ID)
	assert.Equal(t, 80, matches[1].Score)

	for i, match := range matches {
		assert.GreaterOrEqual(t, match.Score, DefaultMinScore)
		if i > 0 {
			assert.LessOrEqual(t, match.Score, matches[i-1].Score)
		}
	}
}

func TestMatchFound(t *testing.T) {
	lost, found := fixtures()
	m := NewMatcher(DefaultConfig())

	matches := m.MatchFound(&found[3], lost, DefaultMinScore)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(3), matches[0].LostItem.ID)
	assert.Equal(t, 100, matches[0].Score)
}

func TestMatchAgreesWithScorer(t *testing.T) {
	lost, found := fixtures()
	m := NewMatcher(DefaultConfig())

	forLost := m.MatchLost(&lost[1], found, 0)
	forFound := m.MatchFound(&found[2], lost, 0)

	require.NotEmpty(t, forLost)
	require.NotEmpty(t, forFound)
	assert.Equal(t, int64(12), forLost[0].FoundItem.ID)
	assert.Equal(t, int64(2), forFound[0].LostItem.ID)
	assert.Equal(t, forLost[0].Score, forFound[0].Score)
	assert.Equal(t, forLost[0].Breakdown, forFound[0].Breakdown)
}

func TestMatchStableOnTies(t *testing.T) {
	lost := lostItem(1, model.CategoryPets, "Grey cat", "", "Harbour", day0)
	var found []model.FoundItem
	for id := int64(1); id <= 6; id++ {
		found = append(found, foundItem(id, model.CategoryPets, "Grey cat", "", "Harbour", day0))
	}

	matches := NewMatcher(DefaultConfig()).MatchLost(&lost, found, 0)
	require.Len(t, matches, 6)
	for i, match := range matches {
		assert.Equal(t, int64(i+1), match.FoundItem.ID)
	}
}

func TestMatchAll(t *testing.T) {
	lost, found := fixtures()
	m := NewMatcher(DefaultConfig())

	pairs := m.MatchAll(lost, found, DefaultMinScore)
	require.NotEmpty(t, pairs)
	assert.LessOrEqual(t, len(pairs), len(lost)*len(found))

	for i, p := range pairs {
		assert.GreaterOrEqual(t, p.Score, DefaultMinScore)
		assert.Equal(t, p.LostItem.Category, p.FoundItem.Category)
		if i > 0 {
			assert.LessOrEqual(t, p.Score, pairs[i-1].Score)
		}
	}

	require.Len(t, pairs, 4)
	want := []struct {
		lostID, foundID int64
		score           int
	}{
		{3, 13, 100},
		{1, 14, 95},
		{1, 10, 80},
		{2, 12, 71},
	}
	for i, w := range want {
		assert.Equal(t, w.lostID, pairs[i].LostItem.ID, "pair %d", i)
		assert.Equal(t, w.foundID, pairs[i].FoundItem.ID, "pair %d", i)
		assert.Equal(t, w.score, pairs[i].Score, "pair %d", i)
	}
}

func TestMatchAllZeroThresholdIsCrossProduct(t *testing.T) {
	lost, found := fixtures()
	pairs := NewMatcher(DefaultConfig()).MatchAll(lost, found, 0)
	assert.Len(t, pairs, len(lost)*len(found))
}

func TestMatchAllShrinksAsThresholdRises(t *testing.T) {
	lost, found := fixtures()
	m := NewMatcher(DefaultConfig())

	prev := len(m.MatchAll(lost, found, 0))
	for minScore := 1; minScore <= 101; minScore++ {
		n := len(m.MatchAll(lost, found, minScore))
		assert.LessOrEqual(t, n, prev, "minScore %d", minScore)
		prev = n
	}
	assert.Zero(t, prev)
}

func TestMatchEmptyCandidates(t *testing.T) {
	lost, found := fixtures()
	m := NewMatcher(DefaultConfig())

	byLost := m.MatchLost(&lost[0], nil, 0)
	require.NotNil(t, byLost)
	assert.Empty(t, byLost)

	byFound := m.MatchFound(&found[0], []model.LostItem{}, 0)
	require.NotNil(t, byFound)
	assert.Empty(t, byFound)

	assert.Empty(t, m.MatchAll(nil, found, 0))
	assert.Empty(t, m.MatchAll(lost, nil, 0))
	assert.NotNil(t, m.MatchAll(nil, nil, 0))
}

func TestMatchNothingAboveThreshold(t *testing.T) {
	lost, found := fixtures()
	m := NewMatcher(DefaultConfig())

	matches := m.MatchLost(&lost[0], found, 101)
	require.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestMatchDoesNotMutateInputs(t *testing.T) {
	lost, found := fixtures()
	lostBefore := append([]model.LostItem(nil), lost...)
	foundBefore := append([]model.FoundItem(nil), found...)

	m := NewMatcher(DefaultConfig())
	m.MatchLost(&lost[0], found, 0)
	m.MatchFound(&found[0], lost, 0)
	m.MatchAll(lost, found, 0)

	assert.Equal(t, lostBefore, lost)
	assert.Equal(t, foundBefore, found)
}

func TestMatchIsDeterministic(t *testing.T) {
	lost, found := fixtures()
	m := NewMatcher(DefaultConfig())

	first := m.MatchAll(lost, found, 0)
	second := m.MatchAll(lost, found, 0)
	assert.Equal(t, first, second)
}

func TestCustomDateThreshold(t *testing.T) {
	lost := lostItem(1, model.CategoryOther, "", "", "", day0)
	found := foundItem(2, model.CategoryOther, "", "", "", day0.AddDate(0, 0, 8))

	narrow := NewMatcher(DefaultConfig()).MatchLost(&lost, []model.FoundItem{found}, 0)
	wide := NewMatcher(Config{MinScore: 40, DateThresholdDays: 10}).MatchLost(&lost, []model.FoundItem{found}, 0)

	require.Len(t, narrow, 1)
	require.Len(t, wide, 1)
	assert.Equal(t, 0, narrow[0].Breakdown.Date)
	assert.Equal(t, 12, wide[0].Breakdown.Date)
}
