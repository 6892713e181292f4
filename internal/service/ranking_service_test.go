package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iconsult/match-backend/internal/matching"
	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/repository"
)

type mockUnlockCounter struct {
	mock.Mock
}

func (m *mockUnlockCounter) CountByTargets(ctx context.Context, targetType string, targetIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, targetType, targetIDs)
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

func (m *mockUnlockCounter) ListTargetIDs(ctx context.Context, actorID uuid.UUID, targetType string) (map[uuid.UUID]struct{}, error) {
	args := m.Called(ctx, actorID, targetType)
	return args.Get(0).(map[uuid.UUID]struct{}), args.Error(1)
}

func newRankingFixture() (*mockCandidateRepo, *mockListingRepo, *mockCompanyRepo, *mockUnlockCounter, *RankingService) {
	candidateRepo := new(mockCandidateRepo)
	listingRepo := new(mockListingRepo)
	companyRepo := new(mockCompanyRepo)
	unlocks := new(mockUnlockCounter)

	svc := NewRankingService(candidateRepo, listingRepo, companyRepo, unlocks, matching.DefaultWeights(), nil, nil)
	return candidateRepo, listingRepo, companyRepo, unlocks, svc
}

func seedCandidate(name string, skills []uuid.UUID, createdAt time.Time) models.Candidate {
	email := "contact@example.com"
	phone := "+32 470 00 00 00"
	return models.Candidate{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		DisplayName:  name,
		Availability: true,
		ContactEmail: &email,
		Phone:        &phone,
		CreatedAt:    createdAt,
		SkillIDs:     skills,
	}
}

func TestRankingService_RankCandidates_RelevanceWithListingReference(t *testing.T) {
	candidateRepo, listingRepo, companyRepo, unlocks, svc := newRankingFixture()
	ctx := context.Background()
	now := time.Now()

	viewerID := uuid.New()
	s1, s2 := uuid.New(), uuid.New()

	full := seedCandidate("Полное совпадение", []uuid.UUID{s1, s2}, now)
	half := seedCandidate("Половина", []uuid.UUID{s1}, now)

	listingID := uuid.New()
	listing := &models.Listing{ID: listingID, CompanyID: uuid.New(), Title: "Backend инженер", SkillIDs: []uuid.UUID{s1, s2}, CreatedAt: now}

	candidateRepo.On("List", ctx).Return([]models.Candidate{half, full}, nil)
	listingRepo.On("GetByID", ctx, listingID).Return(listing, nil)
	companyRepo.On("GetByUserID", ctx, viewerID).Return(nil, repository.ErrCompanyNotFound)
	unlocks.On("CountByTargets", ctx, models.UnlockTargetCandidate, mock.Anything).Return(map[uuid.UUID]int{}, nil)
	unlocks.On("ListTargetIDs", ctx, viewerID, models.UnlockTargetCandidate).Return(map[uuid.UUID]struct{}{full.ID: {}}, nil)

	out, err := svc.RankCandidates(ctx, viewerID, RankParams{
		Mode:      matching.ModeRelevance,
		ListingID: &listingID,
	})

	assert.NoError(t, err)
	assert.Len(t, out, 2)

	// Полное покрытие навыков эталона выше частичного
	assert.Equal(t, full.ID, out[0].Candidate.ID)
	assert.Equal(t, half.ID, out[1].Candidate.ID)
	assert.NotNil(t, out[0].Score)
	assert.Greater(t, out[0].Score.Total, out[1].Score.Total)

	// Разблокированный кандидат отдаётся с контактами, остальные маскируются
	assert.True(t, out[0].Unlocked)
	assert.NotNil(t, out[0].Candidate.ContactEmail)
	assert.False(t, out[1].Unlocked)
	assert.Nil(t, out[1].Candidate.ContactEmail)
	assert.Nil(t, out[1].Candidate.Phone)
}

func TestRankingService_RankCandidates_NeutralWithoutListingReference(t *testing.T) {
	candidateRepo, _, companyRepo, unlocks, svc := newRankingFixture()
	ctx := context.Background()
	now := time.Now()

	viewerID := uuid.New()

	// Свежий кандидат против популярного: без эталонной вакансии ни
	// свежесть, ни популярность, ни текст не должны влиять на порядок
	fresh := seedCandidate("Новый", nil, now)
	popular := seedCandidate("Популярный", nil, now.AddDate(0, -6, 0))

	candidateRepo.On("List", ctx).Return([]models.Candidate{fresh, popular}, nil)
	companyRepo.On("GetByUserID", ctx, viewerID).Return(nil, repository.ErrCompanyNotFound)
	unlocks.On("CountByTargets", ctx, models.UnlockTargetCandidate, mock.Anything).
		Return(map[uuid.UUID]int{popular.ID: 50}, nil)
	unlocks.On("ListTargetIDs", ctx, viewerID, models.UnlockTargetCandidate).Return(map[uuid.UUID]struct{}{}, nil)

	out, err := svc.RankCandidates(ctx, viewerID, RankParams{
		Mode:  matching.ModeRelevance,
		Query: "популярный",
	})

	assert.NoError(t, err)
	assert.Len(t, out, 2)

	for _, r := range out {
		assert.NotNil(t, r.Score)
		assert.Zero(t, r.Score.Total)
	}

	// Нейтральный порядок детерминирован по возрастанию id
	assert.True(t, out[0].Candidate.ID.String() < out[1].Candidate.ID.String())
}

func TestRankingService_RankListings_NeutralWithoutProfile(t *testing.T) {
	candidateRepo, listingRepo, _, unlocks, svc := newRankingFixture()
	ctx := context.Background()
	now := time.Now()

	viewerID := uuid.New()

	listing := models.Listing{ID: uuid.New(), Title: "Go разработчик", Active: true, CreatedAt: now}

	listingRepo.On("ListActive", ctx).Return([]models.Listing{listing}, nil)
	candidateRepo.On("GetByUserID", ctx, viewerID).Return(nil, repository.ErrCandidateNotFound)
	unlocks.On("CountByTargets", ctx, models.UnlockTargetListing, mock.Anything).
		Return(map[uuid.UUID]int{listing.ID: 50}, nil)
	unlocks.On("ListTargetIDs", ctx, viewerID, models.UnlockTargetListing).Return(map[uuid.UUID]struct{}{}, nil)

	out, err := svc.RankListings(ctx, viewerID, RankParams{Mode: matching.ModeRelevance, Query: "go"})

	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.NotNil(t, out[0].Score)
	assert.Zero(t, out[0].Score.Total)
}

func TestRankingService_RankCandidates_ManualSkipsScoring(t *testing.T) {
	candidateRepo, _, companyRepo, unlocks, svc := newRankingFixture()
	ctx := context.Background()
	now := time.Now()

	viewerID := uuid.New()

	b := seedCandidate("Борис Некрасов", nil, now)
	a := seedCandidate("Анна Ковалёва", nil, now)

	candidateRepo.On("List", ctx).Return([]models.Candidate{b, a}, nil)
	companyRepo.On("GetByUserID", ctx, viewerID).Return(&models.Company{ID: uuid.New(), UserID: viewerID}, nil)
	unlocks.On("ListTargetIDs", ctx, viewerID, models.UnlockTargetCandidate).Return(map[uuid.UUID]struct{}{}, nil)

	out, err := svc.RankCandidates(ctx, viewerID, RankParams{Mode: matching.ModeManual})

	assert.NoError(t, err)
	assert.Len(t, out, 2)

	// Алфавитный порядок и отсутствие расшифровки балла
	assert.Equal(t, a.ID, out[0].Candidate.ID)
	assert.Nil(t, out[0].Score)

	// Популярность в ручном режиме не запрашивается
	unlocks.AssertNotCalled(t, "CountByTargets", mock.Anything, mock.Anything, mock.Anything)
}

func TestRankingService_RankListings_UsesOwnProfileAsReference(t *testing.T) {
	candidateRepo, listingRepo, _, unlocks, svc := newRankingFixture()
	ctx := context.Background()
	now := time.Now()

	viewerID := uuid.New()
	s1, s2 := uuid.New(), uuid.New()

	viewer := seedCandidate("Зритель", []uuid.UUID{s1, s2}, now)
	viewer.UserID = viewerID

	matchTitle := "Go разработчик"
	otherTitle := "Аналитик"
	matchListing := models.Listing{ID: uuid.New(), Title: matchTitle, Active: true, SkillIDs: []uuid.UUID{s1, s2}, CreatedAt: now}
	otherListing := models.Listing{ID: uuid.New(), Title: otherTitle, Active: true, CreatedAt: now}

	listingRepo.On("ListActive", ctx).Return([]models.Listing{otherListing, matchListing}, nil)
	candidateRepo.On("GetByUserID", ctx, viewerID).Return(&viewer, nil)
	unlocks.On("CountByTargets", ctx, models.UnlockTargetListing, mock.Anything).Return(map[uuid.UUID]int{}, nil)
	unlocks.On("ListTargetIDs", ctx, viewerID, models.UnlockTargetListing).Return(map[uuid.UUID]struct{}{}, nil)

	out, err := svc.RankListings(ctx, viewerID, RankParams{Mode: matching.ModeRelevance})

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, matchListing.ID, out[0].Listing.ID)
	assert.Greater(t, out[0].Score.Total, out[1].Score.Total)
}

func TestRankingService_RankCandidates_GeoFilter(t *testing.T) {
	candidateRepo, _, companyRepo, unlocks, svc := newRankingFixture()
	ctx := context.Background()
	now := time.Now()

	viewerID := uuid.New()

	nearLat, nearLon := 50.95, 4.30   // ~12 км от Брюсселя
	farLat, farLon := 51.0543, 3.7174 // Гент, ~49 км

	near := seedCandidate("Рядом", nil, now)
	near.Latitude, near.Longitude = &nearLat, &nearLon
	far := seedCandidate("Далеко", nil, now)
	far.Latitude, far.Longitude = &farLat, &farLon
	unknown := seedCandidate("Без координат", nil, now)

	companyLat, companyLon := 50.8503, 4.3517
	companyCity := "Brussels"
	companyRepo.On("GetByUserID", ctx, viewerID).Return(&models.Company{
		ID: uuid.New(), UserID: viewerID,
		LocationCity: &companyCity,
		Latitude:     &companyLat, Longitude: &companyLon,
	}, nil)

	candidateRepo.On("List", ctx).Return([]models.Candidate{near, far, unknown}, nil)
	unlocks.On("CountByTargets", ctx, models.UnlockTargetCandidate, mock.Anything).Return(map[uuid.UUID]int{}, nil)
	unlocks.On("ListTargetIDs", ctx, viewerID, models.UnlockTargetCandidate).Return(map[uuid.UUID]struct{}{}, nil)

	maxKm := 40.0
	out, err := svc.RankCandidates(ctx, viewerID, RankParams{Mode: matching.ModeRelevance, MaxKm: &maxKm})

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	for _, r := range out {
		assert.NotEqual(t, far.ID, r.Candidate.ID)
	}
}
