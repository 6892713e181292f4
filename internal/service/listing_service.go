package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iconsult/match-backend/internal/geocode"
	"github.com/iconsult/match-backend/internal/goroutine"
	"github.com/iconsult/match-backend/internal/logger"
	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/validation"
)

// ErrNotListingOwner возвращается при попытке изменить чужую вакансию.
var ErrNotListingOwner = errors.New("not listing owner")

// ListingRepositoryIface описывает зависимости ListingService от хранилища.
type ListingRepositoryIface interface {
	Create(ctx context.Context, l *models.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	Update(ctx context.Context, l *models.Listing) error
	UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]models.Listing, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Listing, error)
}

// ListingInput содержит поля создания и редактирования вакансии.
type ListingInput struct {
	Title        string
	Description  *string
	LocationCity *string
	Country      *string
	ContractType *string
	SkillNames   []string
}

// ListingService инкапсулирует бизнес-логику вакансий.
type ListingService struct {
	repo     ListingRepositoryIface
	company  CompanyRepositoryIface
	skills   *SkillService
	unlocks  UnlockChecker
	geocoder Geocoder
}

// NewListingService создаёт сервис вакансий.
func NewListingService(repo ListingRepositoryIface, company CompanyRepositoryIface, skills *SkillService, unlocks UnlockChecker, geocoder Geocoder) *ListingService {
	return &ListingService{
		repo:     repo,
		company:  company,
		skills:   skills,
		unlocks:  unlocks,
		geocoder: geocoder,
	}
}

// Create публикует вакансию от имени компании пользователя.
func (s *ListingService) Create(ctx context.Context, userID uuid.UUID, in ListingInput) (*models.Listing, error) {
	company, err := s.company.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	skillIDs, err := s.skills.Resolve(ctx, in.SkillNames)
	if err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}

	listing := &models.Listing{
		CompanyID:    company.ID,
		Title:        in.Title,
		Description:  in.Description,
		LocationCity: in.LocationCity,
		Country:      in.Country,
		ContractType: in.ContractType,
		SkillIDs:     skillIDs,
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}

	s.geocodeAsync(listing)

	return listing, nil
}

// Update редактирует активную вакансию владельца. Закрытая вакансия
// терминальна и не редактируется.
func (s *ListingService) Update(ctx context.Context, userID, listingID uuid.UUID, in ListingInput) (*models.Listing, error) {
	company, err := s.company.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.CompanyID != company.ID {
		return nil, ErrNotListingOwner
	}

	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	skillIDs, err := s.skills.Resolve(ctx, in.SkillNames)
	if err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}

	locationChanged := !equalStrPtr(listing.LocationCity, in.LocationCity) ||
		!equalStrPtr(listing.Country, in.Country)

	listing.Title = in.Title
	listing.Description = in.Description
	listing.LocationCity = in.LocationCity
	listing.Country = in.Country
	listing.ContractType = in.ContractType
	listing.SkillIDs = skillIDs

	if locationChanged {
		listing.Latitude = nil
		listing.Longitude = nil
	}

	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, err
	}

	if locationChanged {
		s.geocodeAsync(listing)
	}

	return listing, nil
}

// Delete удаляет вакансию владельца. История сотрудничеств сохраняется,
// ссылка на вакансию в ней обнуляется.
func (s *ListingService) Delete(ctx context.Context, userID, listingID uuid.UUID) error {
	company, err := s.company.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.CompanyID != company.ID {
		return ErrNotListingOwner
	}

	return s.repo.Delete(ctx, listingID)
}

// Get возвращает вакансию по идентификатору.
func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// GetForViewer возвращает вакансию вместе с компанией-владельцем. Контакты
// компании отдаются только владельцу, админу или разблокировавшему зрителю.
func (s *ListingService) GetForViewer(ctx context.Context, listingID, viewerID uuid.UUID, viewerRole string) (*models.Listing, *models.Company, bool, error) {
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, nil, false, err
	}

	company, err := s.company.GetByID(ctx, listing.CompanyID)
	if err != nil {
		return nil, nil, false, err
	}

	unlocked := company.UserID == viewerID || viewerRole == models.RoleAdmin
	if !unlocked {
		unlocked, err = s.unlocks.Exists(ctx, viewerID, models.UnlockTargetListing, listing.ID)
		if err != nil {
			return nil, nil, false, err
		}
	}
	if !unlocked {
		company.MaskContacts()
	}

	return listing, company, unlocked, nil
}

// ListOwn возвращает вакансии компании пользователя, включая закрытые.
func (s *ListingService) ListOwn(ctx context.Context, userID uuid.UUID) ([]models.Listing, error) {
	company, err := s.company.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, company.ID)
}

func (s *ListingService) validateInput(in ListingInput) error {
	if err := validation.ValidateTitle(in.Title); err != nil {
		return fmt.Errorf("listing service: %w", err)
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return fmt.Errorf("listing service: %w", err)
	}
	if err := validation.ValidateLocation(in.LocationCity); err != nil {
		return fmt.Errorf("listing service: %w", err)
	}
	if err := validation.ValidateLocation(in.Country); err != nil {
		return fmt.Errorf("listing service: %w", err)
	}
	return nil
}

func (s *ListingService) geocodeAsync(listing *models.Listing) {
	if s.geocoder == nil || listing.LocationCity == nil {
		return
	}

	city := *listing.LocationCity
	country := ""
	if listing.Country != nil {
		country = *listing.Country
	}
	id := listing.ID

	goroutine.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
		defer cancel()

		res, err := s.geocoder.Search(ctx, city, country)
		if err != nil {
			if !errors.Is(err, geocode.ErrUnresolved) && logger.Log != nil {
				logger.Log.WithError(err).Warn("Listing geocoding failed")
			}
			return
		}
		if err := s.repo.UpdateCoordinates(context.Background(), id, res.Lat, res.Lon); err != nil && logger.Log != nil {
			logger.Log.WithError(err).Warn("Listing coordinates update failed")
		}
	})
}
