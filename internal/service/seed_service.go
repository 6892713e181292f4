package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/repository"
)

// SeedService генерирует демо-данные для тестирования ранжирования.
type SeedService struct {
	userRepo      *repository.UserRepository
	candidateRepo *repository.CandidateRepository
	companyRepo   *repository.CompanyRepository
	listingRepo   *repository.ListingRepository
	skillService  *SkillService
}

// NewSeedService создаёт сервис генерации данных.
func NewSeedService(
	userRepo *repository.UserRepository,
	candidateRepo *repository.CandidateRepository,
	companyRepo *repository.CompanyRepository,
	listingRepo *repository.ListingRepository,
	skillService *SkillService,
) *SeedService {
	return &SeedService{
		userRepo:      userRepo,
		candidateRepo: candidateRepo,
		companyRepo:   companyRepo,
		listingRepo:   listingRepo,
		skillService:  skillService,
	}
}

type seedCity struct {
	city    string
	country string
	lat     float64
	lon     float64
}

var seedCities = []seedCity{
	{"Brussels", "Belgium", 50.8503, 4.3517},
	{"Ghent", "Belgium", 51.0543, 3.7174},
	{"Antwerp", "Belgium", 51.2194, 4.4025},
	{"Amsterdam", "Netherlands", 52.3676, 4.9041},
	{"Rotterdam", "Netherlands", 51.9244, 4.4777},
	{"Paris", "France", 48.8566, 2.3522},
	{"Berlin", "Germany", 52.5200, 13.4050},
	{"Luxembourg", "Luxembourg", 49.6116, 6.1319},
}

var seedSkills = []string{
	"Go", "Python", "JavaScript", "TypeScript", "React", "Vue.js",
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Docker", "Kubernetes",
	"AWS", "Azure", "Terraform", "CI/CD", "REST API", "GraphQL",
	"Data Analysis", "Machine Learning", "Project Management", "Scrum",
}

var seedContractTypes = []string{"full_time", "part_time", "freelance", "interim"}

var seedFirstNames = []string{
	"Александр", "Дмитрий", "Максим", "Сергей", "Андрей", "Артём",
	"Анна", "Мария", "Елена", "Ольга", "Екатерина", "Анастасия",
	"Jan", "Pieter", "Marie", "Sophie", "Lucas", "Emma",
}

var seedLastNames = []string{
	"Иванов", "Петров", "Смирнов", "Козлов", "Соколов", "Новиков",
	"Janssens", "Peeters", "Maes", "Dubois", "Lambert", "Martin",
}

var seedCompanyNames = []string{
	"NorthBridge Consulting", "Delta Advisory", "Atlas Partners",
	"BlueField Group", "Meridian Solutions", "CoreStone Advisory",
	"Vector Insight", "Quanta Consulting",
}

var seedHeadlines = []string{
	"Senior Backend Engineer",
	"Data Engineer",
	"Cloud Infrastructure Consultant",
	"Full-stack Developer",
	"DevOps Specialist",
	"Analytics Consultant",
	"Interim CTO",
}

// SeedData генерирует консультантов, компании и вакансии.
func (s *SeedService) SeedData(ctx context.Context, numCandidates, numCompanies, numListings int) error {
	// Прогреваем каталог навыков
	if _, err := s.skillService.Resolve(ctx, seedSkills); err != nil {
		return fmt.Errorf("seed service: failed to seed skills: %w", err)
	}
	skillNames := seedSkills

	passHash, err := bcrypt.GenerateFromPassword([]byte("Seed1234"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed service: %w", err)
	}

	companies := make([]*models.Company, 0, numCompanies)
	for i := 0; i < numCompanies; i++ {
		user := &models.User{
			Email:        fmt.Sprintf("company%d@seed.local", i+1),
			Username:     fmt.Sprintf("company_%d", i+1),
			PasswordHash: string(passHash),
			Role:         models.RoleCompany,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("seed service: failed to create company user: %w", err)
		}

		city := seedCities[rand.Intn(len(seedCities))]
		name := seedCompanyNames[i%len(seedCompanyNames)]
		if i >= len(seedCompanyNames) {
			name = fmt.Sprintf("%s %d", name, i/len(seedCompanyNames)+1)
		}

		company := &models.Company{
			UserID:       user.ID,
			CompanyName:  name,
			LocationCity: &city.city,
			Country:      &city.country,
			Latitude:     &city.lat,
			Longitude:    &city.lon,
		}
		if err := s.companyRepo.Create(ctx, company); err != nil {
			return fmt.Errorf("seed service: failed to create company: %w", err)
		}
		companies = append(companies, company)
	}

	for i := 0; i < numCandidates; i++ {
		user := &models.User{
			Email:        fmt.Sprintf("consultant%d@seed.local", i+1),
			Username:     fmt.Sprintf("consultant_%d", i+1),
			PasswordHash: string(passHash),
			Role:         models.RoleConsultant,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("seed service: failed to create consultant user: %w", err)
		}

		city := seedCities[rand.Intn(len(seedCities))]
		headline := seedHeadlines[rand.Intn(len(seedHeadlines))]
		name := fmt.Sprintf("%s %s",
			seedFirstNames[rand.Intn(len(seedFirstNames))],
			seedLastNames[rand.Intn(len(seedLastNames))],
		)
		email := fmt.Sprintf("consultant%d.contact@seed.local", i+1)
		phone := fmt.Sprintf("+32 4%08d", rand.Intn(100000000))

		candidate := &models.Candidate{
			UserID:          user.ID,
			DisplayName:     name,
			Headline:        &headline,
			YearsExperience: rand.Intn(20) + 1,
			LocationCity:    &city.city,
			Country:         &city.country,
			Latitude:        &city.lat,
			Longitude:       &city.lon,
			Availability:    true,
			ContactEmail:    &email,
			Phone:           &phone,
			SkillIDs:        pickSkillIDs(ctx, s.skillService, skillNames),
		}
		if err := s.candidateRepo.Create(ctx, candidate); err != nil {
			return fmt.Errorf("seed service: failed to create candidate: %w", err)
		}
	}

	for i := 0; i < numListings && len(companies) > 0; i++ {
		company := companies[rand.Intn(len(companies))]
		city := seedCities[rand.Intn(len(seedCities))]
		contract := seedContractTypes[rand.Intn(len(seedContractTypes))]
		title := seedHeadlines[rand.Intn(len(seedHeadlines))]
		description := fmt.Sprintf("%s для проектов в %s. Долгосрочное сотрудничество.", title, city.city)

		listing := &models.Listing{
			CompanyID:    company.ID,
			Title:        title,
			Description:  &description,
			LocationCity: &city.city,
			Country:      &city.country,
			Latitude:     &city.lat,
			Longitude:    &city.lon,
			ContractType: &contract,
			SkillIDs:     pickSkillIDs(ctx, s.skillService, skillNames),
		}
		if err := s.listingRepo.Create(ctx, listing); err != nil {
			return fmt.Errorf("seed service: failed to create listing: %w", err)
		}
	}

	return nil
}

// pickSkillIDs выбирает случайное подмножество навыков каталога.
func pickSkillIDs(ctx context.Context, skills *SkillService, names []string) []uuid.UUID {
	count := rand.Intn(5) + 2
	picked := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for len(picked) < count {
		name := names[rand.Intn(len(names))]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		picked = append(picked, name)
	}

	ids, err := skills.Resolve(ctx, picked)
	if err != nil {
		return nil
	}
	return ids
}
