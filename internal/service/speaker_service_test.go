package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
)

type speakerServiceFixture struct {
	repo      *MockSpeakerRepository
	eventRepo *MockEventRepository
	audit     *MockAuditLogRepository
	svc       *SpeakerService
}

func newSpeakerServiceFixture() *speakerServiceFixture {
	f := &speakerServiceFixture{
		repo:      new(MockSpeakerRepository),
		eventRepo: new(MockEventRepository),
		audit:     new(MockAuditLogRepository),
	}
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	logger := zap.NewNop()
	f.svc = NewSpeakerService(f.repo, f.eventRepo, events.NoopPublisher{},
		NewAuditService(f.audit, logger), "platform-topic", logger)
	return f
}

func contractInStatus(status models.ContractStatus) *models.SpeakerContract {
	return &models.SpeakerContract{
		ID:        uuid.New(),
		EventID:   uuid.New(),
		SpeakerID: uuid.New(),
		FeeCents:  250000,
		Currency:  "EUR",
		Status:    status,
	}
}

// expectContractEvent stubs the contract's event as owned by organizerID.
func (f *speakerServiceFixture) expectContractEvent(contract *models.SpeakerContract, organizerID uuid.UUID) {
	f.eventRepo.On("FindByID", mock.Anything, contract.EventID).
		Return(&models.Event{
			ID: contract.EventID, OrganizerID: organizerID,
			StartsAt: time.Now().Add(24 * time.Hour),
		}, nil)
}

// expectContractSpeaker stubs the contract's speaker profile as linked to the
// given user account.
func (f *speakerServiceFixture) expectContractSpeaker(contract *models.SpeakerContract, userID uuid.UUID) {
	f.repo.On("FindSpeakerByID", mock.Anything, contract.SpeakerID).
		Return(&models.Speaker{ID: contract.SpeakerID, UserID: &userID}, nil)
}

func TestSpeakerServiceCreateSpeaker(t *testing.T) {
	f := newSpeakerServiceFixture()
	f.repo.On("CreateSpeaker", mock.Anything, mock.MatchedBy(func(s *models.Speaker) bool {
		return s.FullName == "Ada Lovelace" && s.ID != uuid.Nil
	})).Return(nil)

	speaker, err := f.svc.CreateSpeaker(context.Background(), models.CreateSpeakerRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", speaker.FullName)
	f.repo.AssertExpectations(t)
}

func TestSpeakerServiceCreateContract(t *testing.T) {
	f := newSpeakerServiceFixture()
	organizerID := uuid.New()
	eventID := uuid.New()
	speakerID := uuid.New()

	f.eventRepo.On("FindByID", mock.Anything, eventID).
		Return(&models.Event{ID: eventID, OrganizerID: organizerID, Status: models.EventStatusPublished}, nil)
	f.repo.On("FindSpeakerByID", mock.Anything, speakerID).
		Return(&models.Speaker{ID: speakerID}, nil)
	f.repo.On("CreateContract", mock.Anything, mock.MatchedBy(func(c *models.SpeakerContract) bool {
		return c.EventID == eventID && c.SpeakerID == speakerID && c.Status == models.ContractStatusDraft
	})).Return(nil)

	contract, err := f.svc.CreateContract(context.Background(), organizerID, false, models.CreateContractRequest{
		EventID:   eventID,
		SpeakerID: speakerID,
		FeeCents:  100000,
		Currency:  "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusDraft, contract.Status)
	f.repo.AssertExpectations(t)
}

func TestSpeakerServiceCreateContractNotOrganizer(t *testing.T) {
	f := newSpeakerServiceFixture()
	eventID := uuid.New()

	f.eventRepo.On("FindByID", mock.Anything, eventID).
		Return(&models.Event{ID: eventID, OrganizerID: uuid.New()}, nil)

	_, err := f.svc.CreateContract(context.Background(), uuid.New(), false, models.CreateContractRequest{
		EventID:   eventID,
		SpeakerID: uuid.New(),
	})
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
	f.repo.AssertNotCalled(t, "CreateContract", mock.Anything, mock.Anything)
}

func TestSpeakerServiceCreateContractUnknownSpeaker(t *testing.T) {
	f := newSpeakerServiceFixture()
	organizerID := uuid.New()
	eventID := uuid.New()
	speakerID := uuid.New()

	f.eventRepo.On("FindByID", mock.Anything, eventID).
		Return(&models.Event{ID: eventID, OrganizerID: organizerID}, nil)
	f.repo.On("FindSpeakerByID", mock.Anything, speakerID).
		Return(nil, domainErrors.ErrSpeakerNotFound)

	_, err := f.svc.CreateContract(context.Background(), organizerID, false, models.CreateContractRequest{
		EventID:   eventID,
		SpeakerID: speakerID,
	})
	assert.ErrorIs(t, err, domainErrors.ErrSpeakerNotFound)
	f.repo.AssertNotCalled(t, "CreateContract", mock.Anything, mock.Anything)
}

func TestSpeakerServiceGetContractForbiddenForOutsider(t *testing.T) {
	f := newSpeakerServiceFixture()
	contract := contractInStatus(models.ContractStatusSent)
	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractEvent(contract, uuid.New())
	f.expectContractSpeaker(contract, uuid.New())

	_, err := f.svc.GetContract(context.Background(), uuid.New(), false, contract.ID)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
}

func TestSpeakerServiceGetContractAsSpeaker(t *testing.T) {
	f := newSpeakerServiceFixture()
	contract := contractInStatus(models.ContractStatusSent)
	speakerUserID := uuid.New()
	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractEvent(contract, uuid.New())
	f.expectContractSpeaker(contract, speakerUserID)

	got, err := f.svc.GetContract(context.Background(), speakerUserID, false, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.ID, got.ID)
}

func TestSpeakerServiceListContractsNotOrganizer(t *testing.T) {
	f := newSpeakerServiceFixture()
	eventID := uuid.New()
	f.eventRepo.On("FindByID", mock.Anything, eventID).
		Return(&models.Event{ID: eventID, OrganizerID: uuid.New()}, nil)

	_, err := f.svc.ListContractsByEvent(context.Background(), uuid.New(), false, eventID)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
	f.repo.AssertNotCalled(t, "ListContractsByEvent", mock.Anything, mock.Anything)
}

func TestSpeakerServiceSendContract(t *testing.T) {
	f := newSpeakerServiceFixture()
	organizerID := uuid.New()
	contract := contractInStatus(models.ContractStatusDraft)

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractEvent(contract, organizerID)
	f.repo.On("UpdateContractStatus", mock.Anything, contract.ID, models.ContractStatusSent,
		mock.MatchedBy(func(sentAt *time.Time) bool { return sentAt != nil }), (*time.Time)(nil)).Return(nil)

	updated, err := f.svc.SendContract(context.Background(), organizerID, false, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusSent, updated.Status)
	f.repo.AssertExpectations(t)
}

func TestSpeakerServiceSendContractNotOrganizer(t *testing.T) {
	f := newSpeakerServiceFixture()
	contract := contractInStatus(models.ContractStatusDraft)

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractEvent(contract, uuid.New())

	_, err := f.svc.SendContract(context.Background(), uuid.New(), false, contract.ID)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
	f.repo.AssertNotCalled(t, "UpdateContractStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSpeakerServiceSendContractRequiresDraft(t *testing.T) {
	f := newSpeakerServiceFixture()
	organizerID := uuid.New()
	contract := contractInStatus(models.ContractStatusSigned)
	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractEvent(contract, organizerID)

	_, err := f.svc.SendContract(context.Background(), organizerID, false, contract.ID)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidContractState)
}

func TestSpeakerServiceSignContract(t *testing.T) {
	f := newSpeakerServiceFixture()
	speakerUserID := uuid.New()
	contract := contractInStatus(models.ContractStatusSent)
	sentAt := time.Now().Add(-time.Hour)
	contract.SentAt = &sentAt

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractSpeaker(contract, speakerUserID)
	f.repo.On("UpdateContractStatus", mock.Anything, contract.ID, models.ContractStatusSigned,
		contract.SentAt, mock.MatchedBy(func(signedAt *time.Time) bool { return signedAt != nil })).Return(nil)

	updated, err := f.svc.SignContract(context.Background(), speakerUserID, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusSigned, updated.Status)
}

func TestSpeakerServiceSignContractNotSpeaker(t *testing.T) {
	f := newSpeakerServiceFixture()
	contract := contractInStatus(models.ContractStatusSent)

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractSpeaker(contract, uuid.New())

	_, err := f.svc.SignContract(context.Background(), uuid.New(), contract.ID)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
	f.repo.AssertNotCalled(t, "UpdateContractStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSpeakerServiceSignContractUnlinkedSpeaker(t *testing.T) {
	f := newSpeakerServiceFixture()
	contract := contractInStatus(models.ContractStatusSent)

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.repo.On("FindSpeakerByID", mock.Anything, contract.SpeakerID).
		Return(&models.Speaker{ID: contract.SpeakerID}, nil)

	_, err := f.svc.SignContract(context.Background(), uuid.New(), contract.ID)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
}

func TestSpeakerServiceSignContractRequiresSent(t *testing.T) {
	f := newSpeakerServiceFixture()
	speakerUserID := uuid.New()
	contract := contractInStatus(models.ContractStatusDraft)
	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractSpeaker(contract, speakerUserID)

	_, err := f.svc.SignContract(context.Background(), speakerUserID, contract.ID)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidContractState)
}

func TestSpeakerServiceDeclineContract(t *testing.T) {
	f := newSpeakerServiceFixture()
	speakerUserID := uuid.New()
	contract := contractInStatus(models.ContractStatusSent)

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractSpeaker(contract, speakerUserID)
	f.repo.On("UpdateContractStatus", mock.Anything, contract.ID, models.ContractStatusDeclined,
		mock.Anything, mock.Anything).Return(nil)

	updated, err := f.svc.DeclineContract(context.Background(), speakerUserID, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusDeclined, updated.Status)
}

func TestSpeakerServiceDeclineContractNotSpeaker(t *testing.T) {
	f := newSpeakerServiceFixture()
	contract := contractInStatus(models.ContractStatusSent)

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractSpeaker(contract, uuid.New())

	_, err := f.svc.DeclineContract(context.Background(), uuid.New(), contract.ID)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
}

func TestSpeakerServiceCancelSignedContractBeforeEvent(t *testing.T) {
	f := newSpeakerServiceFixture()
	organizerID := uuid.New()
	contract := contractInStatus(models.ContractStatusSigned)

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractEvent(contract, organizerID)
	f.repo.On("UpdateContractStatus", mock.Anything, contract.ID, models.ContractStatusCancelled,
		mock.Anything, mock.Anything).Return(nil)

	updated, err := f.svc.CancelContract(context.Background(), organizerID, false, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusCancelled, updated.Status)
}

func TestSpeakerServiceCancelSignedContractAfterStart(t *testing.T) {
	f := newSpeakerServiceFixture()
	organizerID := uuid.New()
	contract := contractInStatus(models.ContractStatusSigned)

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.eventRepo.On("FindByID", mock.Anything, contract.EventID).
		Return(&models.Event{ID: contract.EventID, OrganizerID: organizerID, StartsAt: time.Now().Add(-time.Hour)}, nil)

	_, err := f.svc.CancelContract(context.Background(), organizerID, false, contract.ID)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidContractState)
	f.repo.AssertNotCalled(t, "UpdateContractStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSpeakerServiceCancelContractNotOrganizer(t *testing.T) {
	f := newSpeakerServiceFixture()
	contract := contractInStatus(models.ContractStatusSent)

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractEvent(contract, uuid.New())

	_, err := f.svc.CancelContract(context.Background(), uuid.New(), false, contract.ID)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
}

func TestSpeakerServiceCancelContractAsAdmin(t *testing.T) {
	f := newSpeakerServiceFixture()
	contract := contractInStatus(models.ContractStatusSent)

	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractEvent(contract, uuid.New())
	f.repo.On("UpdateContractStatus", mock.Anything, contract.ID, models.ContractStatusCancelled,
		mock.Anything, mock.Anything).Return(nil)

	updated, err := f.svc.CancelContract(context.Background(), uuid.New(), true, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusCancelled, updated.Status)
}

func TestSpeakerServiceCancelDeclinedContractRejected(t *testing.T) {
	f := newSpeakerServiceFixture()
	organizerID := uuid.New()
	contract := contractInStatus(models.ContractStatusDeclined)
	f.repo.On("FindContractByID", mock.Anything, contract.ID).Return(contract, nil)
	f.expectContractEvent(contract, organizerID)

	_, err := f.svc.CancelContract(context.Background(), organizerID, false, contract.ID)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidContractState)
}
