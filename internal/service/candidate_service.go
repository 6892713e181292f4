package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iconsult/match-backend/internal/geocode"
	"github.com/iconsult/match-backend/internal/goroutine"
	"github.com/iconsult/match-backend/internal/logger"
	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/repository"
	"github.com/iconsult/match-backend/internal/validation"
)

// ErrNotProfileOwner возвращается при попытке изменить чужой профиль.
var ErrNotProfileOwner = errors.New("not profile owner")

// Таймаут фонового геокодирования
const geocodeTimeout = 10 * time.Second

// CandidateRepositoryIface описывает зависимости CandidateService от хранилища.
type CandidateRepositoryIface interface {
	Create(ctx context.Context, c *models.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Candidate, error)
	Update(ctx context.Context, c *models.Candidate) error
	UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error
	List(ctx context.Context) ([]models.Candidate, error)
}

// UnlockChecker проверяет факт разблокировки контактов.
type UnlockChecker interface {
	Exists(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error)
}

// CollaborationEnder завершает активное сотрудничество кандидата.
type CollaborationEnder interface {
	EndForCandidate(ctx context.Context, candidateID uuid.UUID) error
}

// Geocoder резолвит локацию в координаты.
type Geocoder interface {
	Search(ctx context.Context, city, country string) (*geocode.Result, error)
}

// CandidateUpdateInput содержит редактируемые поля профиля.
type CandidateUpdateInput struct {
	DisplayName     string
	Headline        *string
	YearsExperience int
	LocationCity    *string
	Country         *string
	Availability    bool
	ContactEmail    *string
	Phone           *string
	PhotoURL        *string
	CVURL           *string
	SkillNames      []string
}

// CandidateService инкапсулирует бизнес-логику профилей консультантов.
type CandidateService struct {
	repo     CandidateRepositoryIface
	unlocks  UnlockChecker
	collabs  CollaborationEnder
	skills   *SkillService
	geocoder Geocoder
	cache    *CacheService
}

// NewCandidateService создаёт сервис профилей.
func NewCandidateService(repo CandidateRepositoryIface, unlocks UnlockChecker, collabs CollaborationEnder, skills *SkillService, geocoder Geocoder, cache *CacheService) *CandidateService {
	return &CandidateService{
		repo:     repo,
		unlocks:  unlocks,
		collabs:  collabs,
		skills:   skills,
		geocoder: geocoder,
		cache:    cache,
	}
}

// GetForViewer возвращает профиль с контактами, замаскированными для
// зрителей без разблокировки. Владелец и админ видят контакты всегда.
func (s *CandidateService) GetForViewer(ctx context.Context, candidateID, viewerID uuid.UUID, viewerRole string) (*models.Candidate, bool, error) {
	candidate, err := s.repo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, false, err
	}

	if candidate.UserID == viewerID || viewerRole == models.RoleAdmin {
		return candidate, true, nil
	}

	unlocked, err := s.unlocks.Exists(ctx, viewerID, models.UnlockTargetCandidate, candidateID)
	if err != nil {
		return nil, false, err
	}
	if !unlocked {
		candidate.MaskContacts()
	}

	return candidate, unlocked, nil
}

// GetOwn возвращает профиль владельца.
func (s *CandidateService) GetOwn(ctx context.Context, userID uuid.UUID) (*models.Candidate, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Update редактирует собственный профиль. Возврат доступности после
// сотрудничества идёт через завершение этого сотрудничества: флаг сам
// по себе не обгоняет машину состояний.
func (s *CandidateService) Update(ctx context.Context, userID uuid.UUID, in CandidateUpdateInput) (*models.Candidate, error) {
	candidate, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
		return nil, fmt.Errorf("candidate service: %w", err)
	}
	if err := validation.ValidateHeadline(in.Headline); err != nil {
		return nil, fmt.Errorf("candidate service: %w", err)
	}
	if err := validation.ValidateYearsExperience(in.YearsExperience); err != nil {
		return nil, fmt.Errorf("candidate service: %w", err)
	}
	if err := validation.ValidateLocation(in.LocationCity); err != nil {
		return nil, fmt.Errorf("candidate service: %w", err)
	}
	if err := validation.ValidateLocation(in.Country); err != nil {
		return nil, fmt.Errorf("candidate service: %w", err)
	}
	if err := validation.ValidateExternalLink(in.PhotoURL); err != nil {
		return nil, fmt.Errorf("candidate service: %w", err)
	}
	if err := validation.ValidateExternalLink(in.CVURL); err != nil {
		return nil, fmt.Errorf("candidate service: %w", err)
	}

	skillIDs, err := s.skills.Resolve(ctx, in.SkillNames)
	if err != nil {
		return nil, fmt.Errorf("candidate service: %w", err)
	}

	// Кандидат в сотрудничестве возвращает доступность только через
	// завершение сотрудничества
	if in.Availability && !candidate.Availability {
		if err := s.collabs.EndForCandidate(ctx, candidate.ID); err != nil &&
			!errors.Is(err, repository.ErrNoActiveCollaboration) {
			return nil, err
		}
	}

	locationChanged := !equalStrPtr(candidate.LocationCity, in.LocationCity) ||
		!equalStrPtr(candidate.Country, in.Country)

	candidate.DisplayName = in.DisplayName
	candidate.Headline = in.Headline
	candidate.YearsExperience = in.YearsExperience
	candidate.LocationCity = in.LocationCity
	candidate.Country = in.Country
	candidate.Availability = in.Availability
	candidate.ContactEmail = in.ContactEmail
	candidate.Phone = in.Phone
	candidate.PhotoURL = in.PhotoURL
	candidate.CVURL = in.CVURL
	candidate.SkillIDs = skillIDs

	if locationChanged {
		// Старые координаты больше не описывают профиль
		candidate.Latitude = nil
		candidate.Longitude = nil
	}

	if err := s.repo.Update(ctx, candidate); err != nil {
		return nil, err
	}

	if locationChanged {
		s.geocodeAsync(candidate)
	}

	return candidate, nil
}

// geocodeAsync резолвит новую локацию в фоне и кэширует координаты.
// Геокодер может быть недоступен, профиль при этом остаётся валидным.
func (s *CandidateService) geocodeAsync(candidate *models.Candidate) {
	if s.geocoder == nil || candidate.LocationCity == nil {
		return
	}

	city := *candidate.LocationCity
	country := ""
	if candidate.Country != nil {
		country = *candidate.Country
	}
	id := candidate.ID

	goroutine.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
		defer cancel()

		res, err := s.geocoder.Search(ctx, city, country)
		if err != nil {
			if !errors.Is(err, geocode.ErrUnresolved) && logger.Log != nil {
				logger.Log.WithError(err).Warn("Candidate geocoding failed")
			}
			return
		}

		if err := s.repo.UpdateCoordinates(context.Background(), id, res.Lat, res.Lon); err != nil && logger.Log != nil {
			logger.Log.WithError(err).Warn("Candidate coordinates update failed")
		}
	})
}

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
