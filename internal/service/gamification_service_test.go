package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
)

func newGamificationFixture() (*MockGamificationRepository, *GamificationService) {
	repo := new(MockGamificationRepository)
	svc := NewGamificationService(repo, events.NoopPublisher{}, "platform-topic", zap.NewNop())
	return repo, svc
}

func TestGamificationGrantPointsZeroIsNoop(t *testing.T) {
	repo, svc := newGamificationFixture()

	require.NoError(t, svc.GrantPoints(context.Background(), uuid.New(), 0, models.PointReasonAdminGrant, nil))
	repo.AssertNotCalled(t, "CreatePointEntry", mock.Anything, mock.Anything)
}

func TestGamificationGrantPointsAwardsReachedBadges(t *testing.T) {
	repo, svc := newGamificationFixture()
	userID := uuid.New()
	bronze := &models.Badge{ID: uuid.New(), Name: "Bronze", PointThreshold: 100}
	silver := &models.Badge{ID: uuid.New(), Name: "Silver", PointThreshold: 500}

	repo.On("CreatePointEntry", mock.Anything, mock.MatchedBy(func(e *models.PointEntry) bool {
		return e.UserID == userID && e.Points == 150
	})).Return(nil)
	repo.On("SumPointsByUserID", mock.Anything, userID).Return(150, nil)
	repo.On("ListBadges", mock.Anything).Return([]*models.Badge{bronze, silver}, nil)
	repo.On("ListUserBadges", mock.Anything, userID).Return([]*models.Badge{}, nil)
	repo.On("AwardBadge", mock.Anything, userID, bronze.ID, mock.Anything).Return(nil)

	require.NoError(t, svc.GrantPoints(context.Background(), userID, 150, models.PointReasonAdminGrant, nil))
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "AwardBadge", mock.Anything, userID, silver.ID, mock.Anything)
}

func TestGamificationGrantPointsSkipsHeldBadges(t *testing.T) {
	repo, svc := newGamificationFixture()
	userID := uuid.New()
	bronze := &models.Badge{ID: uuid.New(), Name: "Bronze", PointThreshold: 100}

	repo.On("CreatePointEntry", mock.Anything, mock.Anything).Return(nil)
	repo.On("SumPointsByUserID", mock.Anything, userID).Return(200, nil)
	repo.On("ListBadges", mock.Anything).Return([]*models.Badge{bronze}, nil)
	repo.On("ListUserBadges", mock.Anything, userID).Return([]*models.Badge{bronze}, nil)

	require.NoError(t, svc.GrantPoints(context.Background(), userID, 50, models.PointReasonAttendance, nil))
	repo.AssertNotCalled(t, "AwardBadge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGamificationSummary(t *testing.T) {
	repo, svc := newGamificationFixture()
	userID := uuid.New()
	badge := &models.Badge{ID: uuid.New(), Name: "Bronze", PointThreshold: 100}

	repo.On("SumPointsByUserID", mock.Anything, userID).Return(320, nil)
	repo.On("ListUserBadges", mock.Anything, userID).Return([]*models.Badge{badge}, nil)

	summary, err := svc.Summary(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 320, summary.Balance)
	require.Len(t, summary.Badges, 1)
	assert.Equal(t, "Bronze", summary.Badges[0].Name)
}

func TestGamificationHistoryDefaultsPagination(t *testing.T) {
	repo, svc := newGamificationFixture()
	userID := uuid.New()

	repo.On("ListPointEntries", mock.Anything, userID, 1, 50).
		Return([]*models.PointEntry{}, 0, nil)

	_, total, err := svc.History(context.Background(), userID, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	repo.AssertExpectations(t)
}

func TestGamificationCreateBadge(t *testing.T) {
	repo, svc := newGamificationFixture()
	repo.On("CreateBadge", mock.Anything, mock.MatchedBy(func(b *models.Badge) bool {
		return b.Name == "Gold" && b.PointThreshold == 1000
	})).Return(nil)

	badge, err := svc.CreateBadge(context.Background(), "Gold", "Earned at 1000 points", 1000)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, badge.ID)
	repo.AssertExpectations(t)
}
