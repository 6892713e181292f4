package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/validation"
)

const skillCatalogTTL = 10 * time.Minute

// SkillRepository описывает зависимости SkillService от хранилища.
type SkillRepository interface {
	GetOrCreate(ctx context.Context, name string) (*models.Skill, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	List(ctx context.Context) ([]models.Skill, error)
	ExistAll(ctx context.Context, ids []uuid.UUID) (bool, error)
}

// SkillService управляет каталогом навыков. Каталог читается на каждом
// ранжировании, поэтому список кэшируется.
type SkillService struct {
	repo  SkillRepository
	cache *CacheService
}

// NewSkillService создаёт сервис каталога навыков.
func NewSkillService(repo SkillRepository, cache *CacheService) *SkillService {
	return &SkillService{repo: repo, cache: cache}
}

// List возвращает каталог навыков по алфавиту.
func (s *SkillService) List(ctx context.Context) ([]models.Skill, error) {
	if s.cache != nil {
		value, err := s.cache.GetOrSet(ctx, SkillCatalogCacheKey(), skillCatalogTTL,
			func(ctx context.Context) (interface{}, error) {
				return s.repo.List(ctx)
			})
		if err != nil {
			return nil, err
		}
		if skills, ok := value.([]models.Skill); ok {
			return skills, nil
		}
	}
	return s.repo.List(ctx)
}

// Resolve превращает имена навыков в идентификаторы каталога, создавая
// отсутствующие навыки. Имена нормализуются по пробелам, дубликаты
// схлопываются.
func (s *SkillService) Resolve(ctx context.Context, names []string) ([]uuid.UUID, error) {
	if err := validation.ValidateSkillNames(names); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names))
	ids := make([]uuid.UUID, 0, len(names))
	created := false

	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		skill, err := s.repo.GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, skill.ID)
		created = true
	}

	if created && s.cache != nil {
		s.cache.InvalidateSkillCatalog()
	}

	return ids, nil
}

// ValidateIDs проверяет, что каждый id есть в каталоге.
func (s *SkillService) ValidateIDs(ctx context.Context, ids []uuid.UUID) (bool, error) {
	return s.repo.ExistAll(ctx, ids)
}

// Get возвращает навык по идентификатору.
func (s *SkillService) Get(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	return s.repo.GetByID(ctx, id)
}
