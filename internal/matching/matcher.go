package matching

import (
	"cmp"
	"slices"

	"github.com/erazemk/najdeno/internal/model"
)

// Defaults used when Config leaves a field unset.
const (
	DefaultMinScore          = 40
	DefaultDateThresholdDays = 5
)

// Config holds the matching policy.
type Config struct {
	// MinScore is the lowest score (0-100) a pair needs to be reported.
	MinScore int `yaml:"min_score"`

	// DateThresholdDays is the window within which report dates earn points.
	DateThresholdDays int `yaml:"date_threshold_days"`
}

// DefaultConfig returns the stock matching policy.
func DefaultConfig() Config {
	return Config{
		MinScore:          DefaultMinScore,
		DateThresholdDays: DefaultDateThresholdDays,
	}
}

// LostMatch is a found report ranked against one lost report.
type LostMatch struct {
	FoundItem model.FoundItem `json:"found_item"`
	Score     int             `json:"match_score"`
	Breakdown Breakdown       `json:"breakdown"`
}

// FoundMatch is a lost report ranked against one found report.
type FoundMatch struct {
	LostItem  model.LostItem `json:"lost_item"`
	Score     int            `json:"match_score"`
	Breakdown Breakdown      `json:"breakdown"`
}

// Pair is one lost/found combination from an all-against-all run.
type Pair struct {
	LostItem  model.LostItem  `json:"lost_item"`
	FoundItem model.FoundItem `json:"found_item"`
	Score     int             `json:"match_score"`
	Breakdown Breakdown       `json:"breakdown"`
}

// Matcher ranks candidate collections with a Scorer.
//
// All methods leave their inputs untouched, return results ordered by
// descending score with ties in candidate order, and return an empty,
// non-nil slice when nothing reaches minScore.
type Matcher struct {
	scorer   *Scorer
	minScore int
}

// NewMatcher creates a matcher from cfg. A zero DateThresholdDays uses the
// default window; MinScore is taken as given.
func NewMatcher(cfg Config) *Matcher {
	return &Matcher{
		scorer:   NewScorer(cfg.DateThresholdDays),
		minScore: cfg.MinScore,
	}
}

// MinScore returns the configured default threshold.
func (m *Matcher) MinScore() int {
	return m.minScore
}

// Scorer returns the scorer used by m.
func (m *Matcher) Scorer() *Scorer {
	return m.scorer
}

// MatchLost scores lost against every found candidate.
func (m *Matcher) MatchLost(lost *model.LostItem, candidates []model.FoundItem, minScore int) []LostMatch {
	matches := []LostMatch{}
	for i := range candidates {
		res := m.scorer.Score(lost, &candidates[i])
		if res.Score >= minScore {
			matches = append(matches, LostMatch{
				FoundItem: candidates[i],
				Score:     res.Score,
				Breakdown: res.Breakdown,
			})
		}
	}

	slices.SortStableFunc(matches, func(a, b LostMatch) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return matches
}

// MatchFound scores found against every lost candidate.
func (m *Matcher) MatchFound(found *model.FoundItem, candidates []model.LostItem, minScore int) []FoundMatch {
	matches := []FoundMatch{}
	for i := range candidates {
		res := m.scorer.Score(&candidates[i], found)
		if res.Score >= minScore {
			matches = append(matches, FoundMatch{
				LostItem:  candidates[i],
				Score:     res.Score,
				Breakdown: res.Breakdown,
			})
		}
	}

	slices.SortStableFunc(matches, func(a, b FoundMatch) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return matches
}

// MatchAll scores every lost report against every found report. Cost is
// len(lost) * len(found) scorer calls; callers bound the inputs.
// Ties keep lost-major, found-minor candidate order.
func (m *Matcher) MatchAll(lost []model.LostItem, found []model.FoundItem, minScore int) []Pair {
	pairs := []Pair{}
	for i := range lost {
		for j := range found {
			res := m.scorer.Score(&lost[i], &found[j])
			if res.Score >= minScore {
				pairs = append(pairs, Pair{
					LostItem:  lost[i],
					FoundItem: found[j],
					Score:     res.Score,
					Breakdown: res.Breakdown,
				})
			}
		}
	}

	slices.SortStableFunc(pairs, func(a, b Pair) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return pairs
}
