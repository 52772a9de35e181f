package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
)

// GamificationService maintains the loyalty point ledger and awards badges
// when point thresholds are crossed.
type GamificationService struct {
	repo      repository.GamificationRepository
	publisher events.Publisher
	topic     string
	logger    *zap.Logger
}

func NewGamificationService(repo repository.GamificationRepository, publisher events.Publisher, platformTopic string, logger *zap.Logger) *GamificationService {
	return &GamificationService{repo: repo, publisher: publisher, topic: platformTopic, logger: logger}
}

// GrantPoints appends a ledger entry and awards any newly reached badges.
func (s *GamificationService) GrantPoints(ctx context.Context, userID uuid.UUID, points int, reason string, refID *string) error {
	if points == 0 {
		return nil
	}
	entry := &models.PointEntry{
		ID:     uuid.New(),
		UserID: userID,
		Points: points,
		Reason: reason,
		RefID:  refID,
	}
	if err := s.repo.CreatePointEntry(ctx, entry); err != nil {
		return err
	}
	return s.awardEligibleBadges(ctx, userID)
}

// Summary returns the user's point balance and earned badges.
func (s *GamificationService) Summary(ctx context.Context, userID uuid.UUID) (*models.LoyaltySummary, error) {
	balance, err := s.repo.SumPointsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	earned, err := s.repo.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges := make([]models.Badge, len(earned))
	for i, b := range earned {
		badges[i] = *b
	}
	return &models.LoyaltySummary{Balance: balance, Badges: badges}, nil
}

// History returns a page of the user's point ledger.
func (s *GamificationService) History(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.PointEntry, int, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.ListPointEntries(ctx, userID, page, pageSize)
}

// CreateBadge adds a badge to the catalog.
func (s *GamificationService) CreateBadge(ctx context.Context, name, description string, threshold int) (*models.Badge, error) {
	badge := &models.Badge{
		ID:             uuid.New(),
		Name:           name,
		Description:    description,
		PointThreshold: threshold,
	}
	if err := s.repo.CreateBadge(ctx, badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (s *GamificationService) ListBadges(ctx context.Context) ([]*models.Badge, error) {
	return s.repo.ListBadges(ctx)
}

func (s *GamificationService) awardEligibleBadges(ctx context.Context, userID uuid.UUID) error {
	balance, err := s.repo.SumPointsByUserID(ctx, userID)
	if err != nil {
		return err
	}
	catalog, err := s.repo.ListBadges(ctx)
	if err != nil {
		return err
	}
	earned, err := s.repo.ListUserBadges(ctx, userID)
	if err != nil {
		return err
	}
	held := make(map[uuid.UUID]bool, len(earned))
	for _, b := range earned {
		held[b.ID] = true
	}

	now := time.Now()
	for _, badge := range catalog {
		if held[badge.ID] || balance < badge.PointThreshold {
			continue
		}
		if err := s.repo.AwardBadge(ctx, userID, badge.ID, now); err != nil {
			return err
		}
		if err := s.publisher.Publish(ctx, s.topic, events.TypeBadgeAwarded, userID.String(),
			events.BadgeAwardedPayload{
				UserID:  userID.String(),
				BadgeID: badge.ID.String(),
				Badge:   badge.Name,
			}); err != nil {
			s.logger.Warn("failed to publish badge awarded event",
				zap.String("badge", badge.Name), zap.Error(err))
		}
	}
	return nil
}
