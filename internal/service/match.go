package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/najdeno/internal/matching"
	"github.com/erazemk/najdeno/internal/model"
)

// DefaultAllMatchesLimit caps the all-matches result when no limit is given.
const DefaultAllMatchesLimit = 50

// Repository is the storage the match service reads reports from.
type Repository interface {
	GetLostItem(ctx context.Context, id int64) (*model.LostItem, error)
	GetFoundItem(ctx context.Context, id int64) (*model.FoundItem, error)
	OpenLostItems(ctx context.Context) ([]model.LostItem, error)
	AvailableFoundItems(ctx context.Context) ([]model.FoundItem, error)
	LostItemsByUser(ctx context.Context, userID int64) ([]model.LostItem, error)
	FoundItemsByUser(ctx context.Context, userID int64) ([]model.FoundItem, error)
}

// LostItemMatches is the ranking of found reports for one lost report.
type LostItemMatches struct {
	LostItem     model.LostItem       `json:"lost_item"`
	Matches      []matching.LostMatch `json:"matches"`
	TotalMatches int                  `json:"total_matches"`
}

// FoundItemMatches is the ranking of lost reports for one found report.
type FoundItemMatches struct {
	FoundItem    model.FoundItem       `json:"found_item"`
	Matches      []matching.FoundMatch `json:"matches"`
	TotalMatches int                   `json:"total_matches"`
}

// AllMatches is the result of ranking every open lost report against every
// available found report.
type AllMatches struct {
	Matches         []matching.Pair `json:"matches"`
	TotalMatches    int             `json:"total_matches"`
	TotalLostItems  int             `json:"total_lost_items"`
	TotalFoundItems int             `json:"total_found_items"`
}

// UserLostMatches groups matches per lost report of one user.
type UserLostMatches struct {
	Matches      []LostItemMatches `json:"matches"`
	TotalMatches int               `json:"total_matches"`
}

// UserFoundMatches groups matches per found report of one user.
type UserFoundMatches struct {
	Matches      []FoundItemMatches `json:"matches"`
	TotalMatches int                `json:"total_matches"`
}

// MatchService loads candidate reports and ranks them with a Matcher.
type MatchService struct {
	repo     Repository
	matcher  *matching.Matcher
	logger   *slog.Logger
	allLimit int
}

// Option configures a MatchService.
type Option func(*MatchService) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *MatchService) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithAllMatchesLimit sets the default cap on all-matches results.
func WithAllMatchesLimit(limit int) Option {
	return func(s *MatchService) error {
		if limit < 0 {
			return fmt.Errorf("all matches limit must not be negative, got %d", limit)
		}
		s.allLimit = limit
		return nil
	}
}

// NewMatchService creates a match service.
func NewMatchService(repo Repository, matcher *matching.Matcher, opts ...Option) (*MatchService, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if matcher == nil {
		return nil, ErrMatcherRequired
	}

	s := &MatchService{
		repo:     repo,
		matcher:  matcher,
		logger:   slog.Default(),
		allLimit: DefaultAllMatchesLimit,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// DefaultMinScore returns the threshold used when a caller gives none.
func (s *MatchService) DefaultMinScore() int {
	return s.matcher.MinScore()
}

// DefaultLimit returns the cap used by AllMatches when limit is zero.
func (s *MatchService) DefaultLimit() int {
	return s.allLimit
}

// MatchesForLostItem ranks available found reports against a lost report.
// The lost report must exist and be open.
func (s *MatchService) MatchesForLostItem(ctx context.Context, lostID int64, minScore int) (*LostItemMatches, error) {
	lost, err := s.repo.GetLostItem(ctx, lostID)
	if err != nil {
		return nil, fmt.Errorf("loading lost item: %w", err)
	}
	if lost == nil {
		return nil, notFound("lost item %d not found", lostID)
	}
	if !lost.IsOpen() {
		return nil, invalidState("lost item %d has already been resolved", lostID)
	}

	found, err := s.repo.AvailableFoundItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading found items: %w", err)
	}

	start := time.Now()
	matches := s.matcher.MatchLost(lost, found, minScore)
	s.logger.Debug("matched lost item",
		"lost_id", lostID, "candidates", len(found), "matches", len(matches),
		"min_score", minScore, "took", time.Since(start))

	return &LostItemMatches{
		LostItem:     *lost,
		Matches:      matches,
		TotalMatches: len(matches),
	}, nil
}

// MatchesForFoundItem ranks open lost reports against a found report.
// The found report must exist and not be returned.
func (s *MatchService) MatchesForFoundItem(ctx context.Context, foundID int64, minScore int) (*FoundItemMatches, error) {
	found, err := s.repo.GetFoundItem(ctx, foundID)
	if err != nil {
		return nil, fmt.Errorf("loading found item: %w", err)
	}
	if found == nil {
		return nil, notFound("found item %d not found", foundID)
	}
	if !found.IsAvailable() {
		return nil, invalidState("found item %d has already been returned", foundID)
	}

	lost, err := s.repo.OpenLostItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading lost items: %w", err)
	}

	start := time.Now()
	matches := s.matcher.MatchFound(found, lost, minScore)
	s.logger.Debug("matched found item",
		"found_id", foundID, "candidates", len(lost), "matches", len(matches),
		"min_score", minScore, "took", time.Since(start))

	return &FoundItemMatches{
		FoundItem:    *found,
		Matches:      matches,
		TotalMatches: len(matches),
	}, nil
}

// AllMatches ranks every open lost report against every available found
// report and keeps the best limit pairs. A zero limit uses the configured
// default; a negative limit keeps everything.
func (s *MatchService) AllMatches(ctx context.Context, minScore, limit int) (*AllMatches, error) {
	var lost []model.LostItem
	var found []model.FoundItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lost, err = s.repo.OpenLostItems(gctx)
		if err != nil {
			return fmt.Errorf("loading lost items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		found, err = s.repo.AvailableFoundItems(gctx)
		if err != nil {
			return fmt.Errorf("loading found items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	start := time.Now()
	pairs := s.matcher.MatchAll(lost, found, minScore)
	s.logger.Debug("matched all items",
		"lost", len(lost), "found", len(found), "pairs", len(pairs),
		"min_score", minScore, "took", time.Since(start))

	if limit == 0 {
		limit = s.allLimit
	}
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}

	return &AllMatches{
		Matches:         pairs,
		TotalMatches:    len(pairs),
		TotalLostItems:  len(lost),
		TotalFoundItems: len(found),
	}, nil
}

// UserLostItemMatches ranks available found reports against each open lost
// report of userID. Reports without any match are left out.
func (s *MatchService) UserLostItemMatches(ctx context.Context, userID int64, minScore int) (*UserLostMatches, error) {
	own, err := s.repo.LostItemsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user lost items: %w", err)
	}

	var open []model.LostItem
	for _, item := range own {
		if item.IsOpen() {
			open = append(open, item)
		}
	}

	result := &UserLostMatches{Matches: []LostItemMatches{}}
	if len(open) == 0 {
		return result, nil
	}

	found, err := s.repo.AvailableFoundItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading found items: %w", err)
	}

	for i := range open {
		matches := s.matcher.MatchLost(&open[i], found, minScore)
		if len(matches) == 0 {
			continue
		}
		result.Matches = append(result.Matches, LostItemMatches{
			LostItem:     open[i],
			Matches:      matches,
			TotalMatches: len(matches),
		})
		result.TotalMatches += len(matches)
	}
	return result, nil
}

// UserFoundItemMatches ranks open lost reports against each available found
// report of userID. Reports without any match are left out.
func (s *MatchService) UserFoundItemMatches(ctx context.Context, userID int64, minScore int) (*UserFoundMatches, error) {
	own, err := s.repo.FoundItemsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user found items: %w", err)
	}

	var available []model.FoundItem
	for _, item := range own {
		if item.IsAvailable() {
			available = append(available, item)
		}
	}

	result := &UserFoundMatches{Matches: []FoundItemMatches{}}
	if len(available) == 0 {
		return result, nil
	}

	lost, err := s.repo.OpenLostItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading lost items: %w", err)
	}

	for i := range available {
		matches := s.matcher.MatchFound(&available[i], lost, minScore)
		if len(matches) == 0 {
			continue
		}
		result.Matches = append(result.Matches, FoundItemMatches{
			FoundItem:    available[i],
			Matches:      matches,
			TotalMatches: len(matches),
		})
		result.TotalMatches += len(matches)
	}
	return result, nil
}
