package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iconsult/match-backend/internal/models"
)

type mockUnlockRepo struct {
	mock.Mock
}

func (m *mockUnlockRepo) Add(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID) (*models.Unlock, bool, error) {
	args := m.Called(ctx, actorID, targetType, targetID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Unlock), args.Bool(1), args.Error(2)
}

func (m *mockUnlockRepo) Exists(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error) {
	args := m.Called(ctx, actorID, targetType, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUnlockRepo) ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]models.Unlock, error) {
	args := m.Called(ctx, actorID, limit, offset)
	return args.Get(0).([]models.Unlock), args.Error(1)
}

type mockCandidateRepo struct {
	mock.Mock
}

func (m *mockCandidateRepo) Create(ctx context.Context, c *models.Candidate) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCandidateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Candidate), args.Error(1)
}

func (m *mockCandidateRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Candidate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Candidate), args.Error(1)
}

func (m *mockCandidateRepo) Update(ctx context.Context, c *models.Candidate) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCandidateRepo) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	args := m.Called(ctx, id, lat, lon)
	return args.Error(0)
}

func (m *mockCandidateRepo) List(ctx context.Context) ([]models.Candidate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Candidate), args.Error(1)
}

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Create(ctx context.Context, l *models.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *mockListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *mockListingRepo) Update(ctx context.Context, l *models.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *mockListingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockListingRepo) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	args := m.Called(ctx, id, lat, lon)
	return args.Error(0)
}

func (m *mockListingRepo) ListActive(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *mockListingRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Listing, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]models.Listing), args.Error(1)
}

type mockCompanyRepo struct {
	mock.Mock
}

func (m *mockCompanyRepo) Create(ctx context.Context, c *models.Company) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *mockCompanyRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *mockCompanyRepo) Update(ctx context.Context, c *models.Company) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCompanyRepo) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	args := m.Called(ctx, id, lat, lon)
	return args.Error(0)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	if args.Error(0) == nil {
		n.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newUnlockFixture() (*mockUnlockRepo, *mockCandidateRepo, *mockListingRepo, *mockCompanyRepo, *mockNotificationRepo, *UnlockService) {
	unlockRepo := new(mockUnlockRepo)
	candidateRepo := new(mockCandidateRepo)
	listingRepo := new(mockListingRepo)
	companyRepo := new(mockCompanyRepo)
	notifRepo := new(mockNotificationRepo)

	notifications := NewNotificationService(notifRepo, nil)
	svc := NewUnlockService(unlockRepo, candidateRepo, listingRepo, companyRepo, notifications)
	return unlockRepo, candidateRepo, listingRepo, companyRepo, notifRepo, svc
}

func TestUnlockService_Unlock_CandidateSuccess(t *testing.T) {
	unlockRepo, candidateRepo, _, _, notifRepo, svc := newUnlockFixture()
	ctx := context.Background()

	actorID := uuid.New()
	candidateID := uuid.New()
	ownerID := uuid.New()

	candidateRepo.On("GetByID", ctx, candidateID).Return(&models.Candidate{ID: candidateID, UserID: ownerID}, nil)
	unlockRepo.On("Add", ctx, actorID, models.UnlockTargetCandidate, candidateID).
		Return(&models.Unlock{ID: uuid.New(), ActorID: actorID, TargetType: models.UnlockTargetCandidate, TargetID: candidateID}, true, nil)
	notifRepo.On("Create", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	res, err := svc.Unlock(ctx, actorID, models.RoleCompany, models.UnlockTargetCandidate, candidateID)

	assert.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, candidateID, res.Unlock.TargetID)
	unlockRepo.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
}

func TestUnlockService_Unlock_Idempotent(t *testing.T) {
	unlockRepo, candidateRepo, _, _, notifRepo, svc := newUnlockFixture()
	ctx := context.Background()

	actorID := uuid.New()
	candidateID := uuid.New()

	candidateRepo.On("GetByID", ctx, candidateID).Return(&models.Candidate{ID: candidateID, UserID: uuid.New()}, nil)
	unlockRepo.On("Add", ctx, actorID, models.UnlockTargetCandidate, candidateID).
		Return(&models.Unlock{ID: uuid.New(), ActorID: actorID, TargetType: models.UnlockTargetCandidate, TargetID: candidateID}, false, nil)

	res, err := svc.Unlock(ctx, actorID, models.RoleCompany, models.UnlockTargetCandidate, candidateID)

	assert.NoError(t, err)
	assert.False(t, res.Created)

	// Повторная разблокировка не шлёт уведомление
	notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUnlockService_Unlock_InvalidTargetType(t *testing.T) {
	_, _, _, _, _, svc := newUnlockFixture()

	res, err := svc.Unlock(context.Background(), uuid.New(), models.RoleCompany, "company", uuid.New())

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidTargetType)
}

func TestUnlockService_Unlock_RoleForbidden(t *testing.T) {
	_, _, _, _, _, svc := newUnlockFixture()
	ctx := context.Background()

	// Консультант не разблокирует кандидатов
	res, err := svc.Unlock(ctx, uuid.New(), models.RoleConsultant, models.UnlockTargetCandidate, uuid.New())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrTargetForbidden)

	// Компания не разблокирует вакансии
	res, err = svc.Unlock(ctx, uuid.New(), models.RoleCompany, models.UnlockTargetListing, uuid.New())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrTargetForbidden)
}

func TestUnlockService_Unlock_ListingNotifiesCompanyOwner(t *testing.T) {
	unlockRepo, _, listingRepo, companyRepo, notifRepo, svc := newUnlockFixture()
	ctx := context.Background()

	actorID := uuid.New()
	listingID := uuid.New()
	companyID := uuid.New()
	companyUserID := uuid.New()

	listingRepo.On("GetByID", ctx, listingID).Return(&models.Listing{ID: listingID, CompanyID: companyID}, nil)
	companyRepo.On("GetByID", ctx, companyID).Return(&models.Company{ID: companyID, UserID: companyUserID}, nil)
	unlockRepo.On("Add", ctx, actorID, models.UnlockTargetListing, listingID).
		Return(&models.Unlock{ID: uuid.New(), ActorID: actorID, TargetType: models.UnlockTargetListing, TargetID: listingID}, true, nil)
	notifRepo.On("Create", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == companyUserID && n.Event == models.NotificationContactsUnlocked
	})).Return(nil)

	res, err := svc.Unlock(ctx, actorID, models.RoleConsultant, models.UnlockTargetListing, listingID)

	assert.NoError(t, err)
	assert.True(t, res.Created)
	notifRepo.AssertExpectations(t)
}
