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

// CompanyRepositoryIface описывает зависимости CompanyService от хранилища.
type CompanyRepositoryIface interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, c *models.Company) error
	UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error
}

// CompanyUpdateInput содержит редактируемые поля профиля компании.
type CompanyUpdateInput struct {
	CompanyName  string
	Industry     *string
	LocationCity *string
	Country      *string
	ContactEmail *string
	Phone        *string
}

// CompanyService инкапсулирует бизнес-логику профилей компаний.
type CompanyService struct {
	repo     CompanyRepositoryIface
	geocoder Geocoder
}

// NewCompanyService создаёт сервис профилей компаний.
func NewCompanyService(repo CompanyRepositoryIface, geocoder Geocoder) *CompanyService {
	return &CompanyService{repo: repo, geocoder: geocoder}
}

// Get возвращает публичный профиль компании без контактов.
func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	company.MaskContacts()
	return company, nil
}

// GetOwn возвращает профиль владельца с контактами.
func (s *CompanyService) GetOwn(ctx context.Context, userID uuid.UUID) (*models.Company, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Update редактирует собственный профиль компании.
func (s *CompanyService) Update(ctx context.Context, userID uuid.UUID, in CompanyUpdateInput) (*models.Company, error) {
	company, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateNonEmpty("название компании", in.CompanyName); err != nil {
		return nil, fmt.Errorf("company service: %w", err)
	}
	if err := validation.ValidateLocation(in.LocationCity); err != nil {
		return nil, fmt.Errorf("company service: %w", err)
	}
	if err := validation.ValidateLocation(in.Country); err != nil {
		return nil, fmt.Errorf("company service: %w", err)
	}

	locationChanged := !equalStrPtr(company.LocationCity, in.LocationCity) ||
		!equalStrPtr(company.Country, in.Country)

	company.CompanyName = in.CompanyName
	company.Industry = in.Industry
	company.LocationCity = in.LocationCity
	company.Country = in.Country
	company.ContactEmail = in.ContactEmail
	company.Phone = in.Phone

	if locationChanged {
		company.Latitude = nil
		company.Longitude = nil
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	if locationChanged && s.geocoder != nil && company.LocationCity != nil {
		city := *company.LocationCity
		country := ""
		if company.Country != nil {
			country = *company.Country
		}
		id := company.ID

		goroutine.Go(func() {
			ctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
			defer cancel()

			res, err := s.geocoder.Search(ctx, city, country)
			if err != nil {
				if !errors.Is(err, geocode.ErrUnresolved) && logger.Log != nil {
					logger.Log.WithError(err).Warn("Company geocoding failed")
				}
				return
			}
			if err := s.repo.UpdateCoordinates(context.Background(), id, res.Lat, res.Lon); err != nil && logger.Log != nil {
				logger.Log.WithError(err).Warn("Company coordinates update failed")
			}
		})
	}

	return company, nil
}
