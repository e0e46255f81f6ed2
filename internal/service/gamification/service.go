// Package gamification recomputes contributor point totals and awards badges.
package gamification

import (
	"context"
	"fmt"

	"github.com/hfarooqi/tarikh-portal/internal/cache"
	"github.com/hfarooqi/tarikh-portal/internal/config"
	prommetrics "github.com/hfarooqi/tarikh-portal/internal/metrics"
	"github.com/hfarooqi/tarikh-portal/internal/models"
	"github.com/hfarooqi/tarikh-portal/internal/repository"
	"github.com/hfarooqi/tarikh-portal/pkg/logger"
)

// Service owns point recomputation and badge evaluation.
type Service struct {
	db    *repository.DB
	cache *cache.Cache
	cfg   config.GamificationConfig
	log   *logger.Logger
}

// NewService creates a new gamification service. cache may be nil.
func NewService(db *repository.DB, c *cache.Cache, cfg config.GamificationConfig, log *logger.Logger) *Service {
	return &Service{
		db:    db,
		cache: c,
		cfg:   cfg,
		log:   log,
	}
}

func pointsKey(userID uint) string {
	return fmt.Sprintf("gamification:points:%d", userID)
}

func badgesKey(userID uint) string {
	return fmt.Sprintf("gamification:badges:%d", userID)
}

// PointValue returns the configured point value for a content kind.
func (s *Service) PointValue(kind string) int {
	switch kind {
	case models.KindEvent:
		return s.cfg.EventPoints
	case models.KindHadith:
		return s.cfg.HadithPoints
	default:
		return 0
	}
}

// RecomputeIn recounts a user's point total from their currently approved
// items and evaluates badge eligibility, all against the caller's
// transaction-bound handle. The recount, not incremental addition, is the
// source of truth; running it twice is harmless.
func (s *Service) RecomputeIn(tx *repository.DB, userID uint) (int, error) {
	contentRepo := repository.NewContentRepository(tx)
	userRepo := repository.NewUserRepository(tx)
	badgeRepo := repository.NewBadgeRepository(tx)

	events, err := contentRepo.CountApprovedByUser(models.KindEvent, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to recompute points for user %d: %w", userID, err)
	}
	hadiths, err := contentRepo.CountApprovedByUser(models.KindHadith, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to recompute points for user %d: %w", userID, err)
	}

	total := int(events)*s.cfg.EventPoints + int(hadiths)*s.cfg.HadithPoints
	if err := userRepo.SetPoints(userID, total); err != nil {
		return 0, err
	}

	if err := s.evaluateBadges(badgeRepo, userID, total); err != nil {
		return 0, err
	}

	prommetrics.RecordPointRecompute()
	s.log.Debug().
		Uint("user_id", userID).
		Int("points", total).
		Msg("Recomputed user points")

	return total, nil
}

// evaluateBadges awards every badge whose threshold the new total meets and
// which the user does not already hold. Walks ascending threshold; awards are
// idempotent and never revoked on point decreases.
func (s *Service) evaluateBadges(badgeRepo *repository.BadgeRepository, userID uint, points int) error {
	badges, err := badgeRepo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load badge catalog: %w", err)
	}

	for _, badge := range badges {
		if badge.Threshold > points {
			// Catalog is threshold-ordered; nothing further can match.
			break
		}

		held, err := badgeRepo.HasUserEarnedBadge(userID, badge.ID)
		if err != nil {
			return err
		}
		if held {
			continue
		}

		if err := badgeRepo.AwardBadge(userID, badge.ID); err != nil {
			return err
		}

		prommetrics.RecordBadgeAwarded(badge.NameEn)
		s.log.Info().
			Uint("user_id", userID).
			Str("badge", badge.NameEn).
			Int("threshold", badge.Threshold).
			Msg("Badge awarded")
	}

	return nil
}

// Recompute runs the recomputation inside its own transaction and drops any
// cached reads for the user afterwards.
func (s *Service) Recompute(ctx context.Context, userID uint) (int, error) {
	var total int
	err := s.db.Transaction(func(tx *repository.DB) error {
		t, err := s.RecomputeIn(tx, userID)
		total = t
		return err
	})
	if err != nil {
		return 0, err
	}

	s.InvalidateUser(ctx, userID)
	return total, nil
}

// InvalidateUser drops cached gamification reads for a user. Cache failures
// are logged, never surfaced; the cache is an optimization.
func (s *Service) InvalidateUser(ctx context.Context, userID uint) {
	if err := s.cache.Delete(ctx, pointsKey(userID), badgesKey(userID)); err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("Failed to invalidate gamification cache")
	}
}

// GetPoints returns a user's current point total, read through the cache.
func (s *Service) GetPoints(ctx context.Context, userID uint) (int, error) {
	var points int
	found, err := s.cache.GetJSON(ctx, pointsKey(userID), &points)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("Points cache read failed")
	}
	if found {
		return points, nil
	}

	user, err := repository.NewUserRepository(s.db).GetByID(userID)
	if err != nil {
		return 0, err
	}

	if err := s.cache.SetJSON(ctx, pointsKey(userID), user.Points); err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("Points cache write failed")
	}
	return user.Points, nil
}

// ListBadges returns the badges a user holds, read through the cache.
func (s *Service) ListBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var badges []models.UserBadge
	found, err := s.cache.GetJSON(ctx, badgesKey(userID), &badges)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("Badges cache read failed")
	}
	if found {
		return badges, nil
	}

	badges, err = repository.NewBadgeRepository(s.db).GetUserBadges(userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, badgesKey(userID), badges); err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("Badges cache write failed")
	}
	return badges, nil
}

// BadgeCatalog returns all badges ordered by ascending threshold.
func (s *Service) BadgeCatalog(ctx context.Context) ([]models.Badge, error) {
	_ = ctx
	return repository.NewBadgeRepository(s.db).GetAll()
}

// SeedBadgeCatalog loads the configured badge catalog exactly once, gated by
// a persisted seed marker rather than a row-count heuristic.
func (s *Service) SeedBadgeCatalog(seeds []config.BadgeSeed) error {
	const seedName = "badge_catalog"

	applied, err := repository.NewSeedRepository(s.db).IsApplied(seedName)
	if err != nil {
		return err
	}
	if applied {
		s.log.Debug().Msg("Badge catalog already seeded")
		return nil
	}

	err = s.db.Transaction(func(tx *repository.DB) error {
		badgeRepo := repository.NewBadgeRepository(tx)
		for _, seed := range seeds {
			badge := &models.Badge{
				NameEn:        seed.NameEn,
				NameUr:        seed.NameUr,
				DescriptionEn: seed.DescriptionEn,
				DescriptionUr: seed.DescriptionUr,
				Icon:          seed.Icon,
				Threshold:     seed.Threshold,
			}
			if err := badgeRepo.Create(badge); err != nil {
				return err
			}
		}
		return repository.NewSeedRepository(tx).MarkApplied(seedName)
	})
	if err != nil {
		return fmt.Errorf("failed to seed badge catalog: %w", err)
	}

	s.log.Info().Int("badges", len(seeds)).Msg("Badge catalog seeded")
	return nil
}
