package matching

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erazemk/najdeno/internal/model"
)

// Factor weights. They sum to 1 so a weighted sum times 100 is a percentage.
const (
	WeightCategory    = 0.30
	WeightLocation    = 0.25
	WeightDate        = 0.20
	WeightTitle       = 0.15
	WeightDescription = 0.10
)

// minTokenLength is the length a token must exceed to count as shared.
const minTokenLength = 2

// whitespace also covers Unicode space separators such as NBSP, which \s
// alone does not.
var whitespace = regexp.MustCompile(`[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]+`)

const millisPerDay = float64(24 * time.Hour / time.Millisecond)

// Breakdown holds each factor's weighted contribution, nominally on a 0-100
// scale. Components are rounded independently of the overall score, so their
// sum can differ from Result.Score by a point or two. Repeated words count
// once per occurrence, so Title and Description can exceed their weight.
type Breakdown struct {
	Category    int `json:"category"`
	Location    int `json:"location"`
	Date        int `json:"date"`
	Title       int `json:"title"`
	Description int `json:"description"`
}

// Result is the outcome of scoring one lost/found pair. Score is usually
// within 0-100 but goes above 100 when repeated words push a text factor
// past 1.
type Result struct {
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Scorer compares one lost report with one found report.
type Scorer struct {
	dateThresholdDays int
}

// NewScorer creates a scorer using the given date proximity window.
// A non-positive window falls back to DefaultDateThresholdDays.
func NewScorer(dateThresholdDays int) *Scorer {
	if dateThresholdDays <= 0 {
		dateThresholdDays = DefaultDateThresholdDays
	}
	return &Scorer{dateThresholdDays: dateThresholdDays}
}

// DateThresholdDays returns the date proximity window in days.
func (s *Scorer) DateThresholdDays() int {
	return s.dateThresholdDays
}

// Score computes the match score of a pair. Pairs in different categories
// always score zero with an all-zero breakdown.
func (s *Scorer) Score(lost *model.LostItem, found *model.FoundItem) Result {
	if lost.Category != found.Category {
		return Result{}
	}

	location := LocationSimilarity(lost.Location, found.Location)
	date := DateProximity(lost.DateLost, found.DateFound, s.dateThresholdDays)
	title := TextSimilarity(lost.Title, found.Title)
	description := TextSimilarity(lost.Description, found.Description)

	sum := WeightCategory +
		location*WeightLocation +
		date*WeightDate +
		title*WeightTitle +
		description*WeightDescription

	return Result{
		Score: round(sum * 100),
		Breakdown: Breakdown{
			Category:    round(WeightCategory * 100),
			Location:    round(location * WeightLocation * 100),
			Date:        round(date * WeightDate * 100),
			Title:       round(title * WeightTitle * 100),
			Description: round(description * WeightDescription * 100),
		},
	}
}

// LocationSimilarity compares two free-text locations, ignoring case and
// surrounding whitespace: 1 for an exact match, 0.7 when one contains the
// other, 0.5 when they share a word longer than two characters, else 0.
func LocationSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}

	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.7
	}
	if sharedTokens(tokenize(a), tokenize(b)) > 0 {
		return 0.5
	}
	return 0
}

// DateProximity scores how close two dates are. The day difference is
// rounded up; within thresholdDays the score decays linearly from 1 and is
// exactly 0.5 at the threshold, beyond it the score is 0.
func DateProximity(lost, found time.Time, thresholdDays int) float64 {
	// Millisecond timestamps, since time.Duration saturates at about 292 years.
	diff := math.Abs(float64(found.UnixMilli() - lost.UnixMilli()))
	days := math.Ceil(diff / millisPerDay)

	if days <= float64(thresholdDays) {
		return 1 - days/float64(thresholdDays*2)
	}
	return 0
}

// TextSimilarity is a word overlap ratio: the number of words in a longer
// than two characters that also appear in b, over the number of distinct
// words across both. Repeated words in a count once per occurrence.
func TextSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	wordsA := tokenize(strings.ToLower(a))
	wordsB := tokenize(strings.ToLower(b))

	union := make(map[string]struct{}, len(wordsA)+len(wordsB))
	for _, w := range wordsA {
		union[w] = struct{}{}
	}
	for _, w := range wordsB {
		union[w] = struct{}{}
	}

	return float64(sharedTokens(wordsA, wordsB)) / float64(len(union))
}

// sharedTokens counts tokens of a longer than minTokenLength that occur
// anywhere in b. Duplicates in a are counted each time.
func sharedTokens(a, b []string) int {
	present := make(map[string]struct{}, len(b))
	for _, w := range b {
		present[w] = struct{}{}
	}

	n := 0
	for _, w := range a {
		if _, ok := present[w]; ok && utf8.RuneCountInString(w) > minTokenLength {
			n++
		}
	}
	return n
}

// tokenize splits s on runs of whitespace. Leading or trailing whitespace
// yields an empty token, which takes part in the union but never matches.
func tokenize(s string) []string {
	return whitespace.Split(s, -1)
}

func round(v float64) int {
	return int(math.Round(v))
}
