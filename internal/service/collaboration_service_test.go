package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/repository"
)

type mockCollaborationRepo struct {
	mock.Mock
}

func (m *mockCollaborationRepo) Start(ctx context.Context, companyID, userID, candidateID uuid.UUID, listingID *uuid.UUID) (*models.Collaboration, error) {
	args := m.Called(ctx, companyID, userID, candidateID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collaboration), args.Error(1)
}

func (m *mockCollaborationRepo) StartByCandidate(ctx context.Context, candidateID, userID, listingID uuid.UUID) (*models.Collaboration, error) {
	args := m.Called(ctx, candidateID, userID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collaboration), args.Error(1)
}

func (m *mockCollaborationRepo) End(ctx context.Context, candidateID uuid.UUID) (*models.Collaboration, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collaboration), args.Error(1)
}

func (m *mockCollaborationRepo) GetActiveByCandidate(ctx context.Context, candidateID uuid.UUID) (*models.Collaboration, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collaboration), args.Error(1)
}

func (m *mockCollaborationRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Collaboration, error) {
	args := m.Called(ctx, candidateID)
	return args.Get(0).([]models.Collaboration), args.Error(1)
}

func (m *mockCollaborationRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Collaboration, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]models.Collaboration), args.Error(1)
}

func newCollaborationFixture() (*mockCollaborationRepo, *mockCandidateRepo, *mockCompanyRepo, *mockNotificationRepo, *CollaborationService) {
	collabRepo := new(mockCollaborationRepo)
	candidateRepo := new(mockCandidateRepo)
	companyRepo := new(mockCompanyRepo)
	notifRepo := new(mockNotificationRepo)

	notifications := NewNotificationService(notifRepo, nil)
	svc := NewCollaborationService(collabRepo, candidateRepo, companyRepo, notifications)
	return collabRepo, candidateRepo, companyRepo, notifRepo, svc
}

func TestCollaborationService_Start_Success(t *testing.T) {
	collabRepo, candidateRepo, companyRepo, notifRepo, svc := newCollaborationFixture()
	ctx := context.Background()

	userID := uuid.New()
	companyID := uuid.New()
	candidateID := uuid.New()
	candidateUserID := uuid.New()
	listingID := uuid.New()

	companyRepo.On("GetByUserID", ctx, userID).Return(&models.Company{ID: companyID, UserID: userID}, nil)
	collabRepo.On("Start", ctx, companyID, userID, candidateID, &listingID).
		Return(&models.Collaboration{
			ID:          uuid.New(),
			CompanyID:   companyID,
			CandidateID: candidateID,
			ListingID:   &listingID,
			Status:      models.CollaborationStatusActive,
		}, nil)
	candidateRepo.On("GetByID", ctx, candidateID).Return(&models.Candidate{ID: candidateID, UserID: candidateUserID}, nil)
	notifRepo.On("Create", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == candidateUserID && n.Event == models.NotificationCollaborationStarted
	})).Return(nil)

	collab, err := svc.Start(ctx, userID, candidateID, &listingID)

	assert.NoError(t, err)
	assert.Equal(t, models.CollaborationStatusActive, collab.Status)
	collabRepo.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
}

func TestCollaborationService_Start_PreconditionErrorsPassThrough(t *testing.T) {
	collabRepo, _, companyRepo, notifRepo, svc := newCollaborationFixture()
	ctx := context.Background()

	userID := uuid.New()
	companyID := uuid.New()
	candidateID := uuid.New()

	companyRepo.On("GetByUserID", ctx, userID).Return(&models.Company{ID: companyID, UserID: userID}, nil)
	collabRepo.On("Start", ctx, companyID, userID, candidateID, (*uuid.UUID)(nil)).
		Return(nil, repository.ErrUnlockRequired)

	collab, err := svc.Start(ctx, userID, candidateID, nil)

	assert.Nil(t, collab)
	assert.ErrorIs(t, err, repository.ErrUnlockRequired)
	notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCollaborationService_Start_RequiresCompanyProfile(t *testing.T) {
	_, _, companyRepo, _, svc := newCollaborationFixture()
	ctx := context.Background()

	userID := uuid.New()
	companyRepo.On("GetByUserID", ctx, userID).Return(nil, repository.ErrCompanyNotFound)

	collab, err := svc.Start(ctx, userID, uuid.New(), nil)

	assert.Nil(t, collab)
	assert.ErrorIs(t, err, repository.ErrCompanyNotFound)
}

func TestCollaborationService_StartForListing_Success(t *testing.T) {
	collabRepo, candidateRepo, companyRepo, notifRepo, svc := newCollaborationFixture()
	ctx := context.Background()

	userID := uuid.New()
	candidateID := uuid.New()
	companyID := uuid.New()
	companyUserID := uuid.New()
	listingID := uuid.New()

	candidateRepo.On("GetByUserID", ctx, userID).Return(&models.Candidate{ID: candidateID, UserID: userID}, nil)
	collabRepo.On("StartByCandidate", ctx, candidateID, userID, listingID).
		Return(&models.Collaboration{
			ID:          uuid.New(),
			CompanyID:   companyID,
			CandidateID: candidateID,
			ListingID:   &listingID,
			Status:      models.CollaborationStatusActive,
		}, nil)
	companyRepo.On("GetByID", ctx, companyID).Return(&models.Company{ID: companyID, UserID: companyUserID}, nil)
	notifRepo.On("Create", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == companyUserID && n.Event == models.NotificationCollaborationStarted
	})).Return(nil)

	collab, err := svc.StartForListing(ctx, userID, listingID)

	assert.NoError(t, err)
	assert.Equal(t, models.CollaborationStatusActive, collab.Status)
	collabRepo.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
}

func TestCollaborationService_StartForListing_UnlockRequired(t *testing.T) {
	collabRepo, candidateRepo, _, notifRepo, svc := newCollaborationFixture()
	ctx := context.Background()

	userID := uuid.New()
	candidateID := uuid.New()
	listingID := uuid.New()

	candidateRepo.On("GetByUserID", ctx, userID).Return(&models.Candidate{ID: candidateID, UserID: userID}, nil)
	collabRepo.On("StartByCandidate", ctx, candidateID, userID, listingID).
		Return(nil, repository.ErrUnlockRequired)

	collab, err := svc.StartForListing(ctx, userID, listingID)

	assert.Nil(t, collab)
	assert.ErrorIs(t, err, repository.ErrUnlockRequired)
	notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCollaborationService_EndOwn_Success(t *testing.T) {
	collabRepo, candidateRepo, companyRepo, notifRepo, svc := newCollaborationFixture()
	ctx := context.Background()

	userID := uuid.New()
	candidateID := uuid.New()
	companyID := uuid.New()
	companyUserID := uuid.New()

	candidateRepo.On("GetByUserID", ctx, userID).Return(&models.Candidate{ID: candidateID, UserID: userID}, nil)
	collabRepo.On("End", ctx, candidateID).Return(&models.Collaboration{
		ID:          uuid.New(),
		CompanyID:   companyID,
		CandidateID: candidateID,
		Status:      models.CollaborationStatusEnded,
	}, nil)
	companyRepo.On("GetByID", ctx, companyID).Return(&models.Company{ID: companyID, UserID: companyUserID}, nil)
	notifRepo.On("Create", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == companyUserID && n.Event == models.NotificationCollaborationEnded
	})).Return(nil)

	collab, err := svc.EndOwn(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, models.CollaborationStatusEnded, collab.Status)
	notifRepo.AssertExpectations(t)
}

func TestCollaborationService_EndOwn_NoActive(t *testing.T) {
	collabRepo, candidateRepo, _, _, svc := newCollaborationFixture()
	ctx := context.Background()

	userID := uuid.New()
	candidateID := uuid.New()

	candidateRepo.On("GetByUserID", ctx, userID).Return(&models.Candidate{ID: candidateID, UserID: userID}, nil)
	collabRepo.On("End", ctx, candidateID).Return(nil, repository.ErrNoActiveCollaboration)

	collab, err := svc.EndOwn(ctx, userID)

	assert.Nil(t, collab)
	assert.ErrorIs(t, err, repository.ErrNoActiveCollaboration)
}
