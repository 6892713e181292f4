package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAuthRepo) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockAuthRepo) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockAuthRepo) DeleteSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockAuthRepo) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Session), args.Error(1)
}

func (m *mockAuthRepo) DeleteSessionByID(ctx context.Context, sessionID, userID uuid.UUID) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

func newAuthFixture() (*mockAuthRepo, *mockCandidateRepo, *mockCompanyRepo, *AuthService) {
	repo := new(mockAuthRepo)
	candidateRepo := new(mockCandidateRepo)
	companyRepo := new(mockCompanyRepo)

	tm := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	svc := NewAuthService(repo, candidateRepo, companyRepo, tm)
	return repo, candidateRepo, companyRepo, svc
}

func TestAuthService_Register_ConsultantCreatesCandidateProfile(t *testing.T) {
	repo, candidateRepo, _, svc := newAuthFixture()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "new@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	candidateRepo.On("Create", ctx, mock.MatchedBy(func(c *models.Candidate) bool {
		return c.Availability && c.DisplayName == "Анна"
	})).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	res, err := svc.Register(ctx, RegisterInput{
		Email:       "new@example.com",
		Password:    "Passw0rd123",
		Role:        models.RoleConsultant,
		DisplayName: "Анна",
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleConsultant, res.User.Role)
	assert.NotEmpty(t, res.TokenPair.AccessToken)
	candidateRepo.AssertExpectations(t)
}

func TestAuthService_Register_CompanyCreatesCompanyProfile(t *testing.T) {
	repo, _, companyRepo, svc := newAuthFixture()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "firm@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	companyRepo.On("Create", ctx, mock.MatchedBy(func(c *models.Company) bool {
		return c.CompanyName == "Atlas Partners"
	})).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	res, err := svc.Register(ctx, RegisterInput{
		Email:       "firm@example.com",
		Password:    "Passw0rd123",
		Role:        models.RoleCompany,
		DisplayName: "Atlas Partners",
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleCompany, res.User.Role)
	companyRepo.AssertExpectations(t)
}

func TestAuthService_Register_RejectsDuplicateEmail(t *testing.T) {
	repo, _, _, svc := newAuthFixture()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "taken@example.com").Return(&models.User{ID: uuid.New()}, nil)

	res, err := svc.Register(ctx, RegisterInput{
		Email:    "taken@example.com",
		Password: "Passw0rd123",
		Role:     models.RoleConsultant,
	}, nil)

	assert.Nil(t, res)
	assert.Error(t, err)
}

func TestAuthService_Register_RejectsAdminRole(t *testing.T) {
	_, _, _, svc := newAuthFixture()

	res, err := svc.Register(context.Background(), RegisterInput{
		Email:    "root@example.com",
		Password: "Passw0rd123",
		Role:     models.RoleAdmin,
	}, nil)

	assert.Nil(t, res)
	assert.Error(t, err)
}

func TestAuthService_Login_Success(t *testing.T) {
	repo, _, _, svc := newAuthFixture()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleConsultant,
		IsActive:     true,
	}

	repo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
	repo.On("UpdateLastLogin", ctx, user.ID).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	res, err := svc.Login(ctx, LoginInput{Email: "user@example.com", Password: "Passw0rd123"}, nil)

	assert.NoError(t, err)
	assert.NotEmpty(t, res.TokenPair.RefreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo, _, _, svc := newAuthFixture()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd123"), bcrypt.DefaultCost)
	user := &models.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: string(hash), IsActive: true}

	repo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)

	res, err := svc.Login(ctx, LoginInput{Email: "user@example.com", Password: "wrong"}, nil)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmailMasked(t *testing.T) {
	repo, _, _, svc := newAuthFixture()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	res, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever"}, nil)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
