package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iconsult/match-backend/internal/geocode"
	"github.com/iconsult/match-backend/internal/matching"
	"github.com/iconsult/match-backend/internal/models"
)

const geocodeCacheTTL = 24 * time.Hour

// RankParams описывает параметры запроса ранжирования.
// В режиме релевантности ручные фильтры не применяются, запрос питает
// текстовый фактор; в ручном режиме балл не считается.
type RankParams struct {
	Mode         matching.Mode
	Query        string
	City         string
	Country      string
	ContractType string
	SkillIDs     []uuid.UUID
	MaxKm        *float64
	ListingID    *uuid.UUID
}

// RankedCandidate — кандидат в выдаче с опциональной расшифровкой балла.
type RankedCandidate struct {
	Candidate models.Candidate    `json:"candidate"`
	Score     *matching.Breakdown `json:"score,omitempty"`
	Unlocked  bool                `json:"unlocked"`
}

// RankedListing — вакансия в выдаче с опциональной расшифровкой балла.
type RankedListing struct {
	Listing  models.Listing      `json:"listing"`
	Score    *matching.Breakdown `json:"score,omitempty"`
	Unlocked bool                `json:"unlocked"`
}

// UnlockCounter отдаёт статистику разблокировок для фактора популярности.
type UnlockCounter interface {
	CountByTargets(ctx context.Context, targetType string, targetIDs []uuid.UUID) (map[uuid.UUID]int, error)
	ListTargetIDs(ctx context.Context, actorID uuid.UUID, targetType string) (map[uuid.UUID]struct{}, error)
}

// RankingService собирает выдачу: геофильтр, скоринг или ручные фильтры,
// маскировка контактов и пометка разблокированных целей.
type RankingService struct {
	candidates CandidateRepositoryIface
	listings   ListingRepositoryIface
	companies  CompanyRepositoryIface
	unlocks    UnlockCounter
	ranker     *matching.Ranker
	geocoder   Geocoder
	cache      *CacheService
}

// NewRankingService создаёт сервис ранжирования.
func NewRankingService(
	candidates CandidateRepositoryIface,
	listings ListingRepositoryIface,
	companies CompanyRepositoryIface,
	unlocks UnlockCounter,
	weights matching.Weights,
	geocoder Geocoder,
	cache *CacheService,
) *RankingService {
	return &RankingService{
		candidates: candidates,
		listings:   listings,
		companies:  companies,
		unlocks:    unlocks,
		ranker:     matching.NewRanker(weights),
		geocoder:   geocoder,
		cache:      cache,
	}
}

// candidateEntity адаптирует профиль кандидата к ранжированию.
type candidateEntity struct {
	c *models.Candidate
}

func (e candidateEntity) MatchID() uuid.UUID       { return e.c.ID }
func (e candidateEntity) MatchSkills() []uuid.UUID { return e.c.SkillIDs }

func (e candidateEntity) MatchText() string {
	parts := []string{e.c.DisplayName}
	if e.c.Headline != nil {
		parts = append(parts, *e.c.Headline)
	}
	if e.c.LocationCity != nil {
		parts = append(parts, *e.c.LocationCity)
	}
	if e.c.Country != nil {
		parts = append(parts, *e.c.Country)
	}
	return strings.Join(parts, " ")
}

func (e candidateEntity) MatchCity() string {
	if e.c.LocationCity == nil {
		return ""
	}
	return *e.c.LocationCity
}

func (e candidateEntity) MatchCountry() string {
	if e.c.Country == nil {
		return ""
	}
	return *e.c.Country
}

// У кандидата нет типа контракта: фильтр по нему кандидатов не сужает.
func (e candidateEntity) MatchContractType() string { return "" }

func (e candidateEntity) MatchCoords() *matching.Point {
	if e.c.Latitude == nil || e.c.Longitude == nil {
		return nil
	}
	return &matching.Point{Lat: *e.c.Latitude, Lon: *e.c.Longitude}
}

func (e candidateEntity) MatchCreatedAt() time.Time { return e.c.CreatedAt }
func (e candidateEntity) MatchSortKey() string      { return e.c.DisplayName }

// listingEntity адаптирует вакансию к ранжированию.
type listingEntity struct {
	l *models.Listing
}

func (e listingEntity) MatchID() uuid.UUID       { return e.l.ID }
func (e listingEntity) MatchSkills() []uuid.UUID { return e.l.SkillIDs }

func (e listingEntity) MatchText() string {
	parts := []string{e.l.Title}
	if e.l.Description != nil {
		parts = append(parts, *e.l.Description)
	}
	if e.l.LocationCity != nil {
		parts = append(parts, *e.l.LocationCity)
	}
	if e.l.Country != nil {
		parts = append(parts, *e.l.Country)
	}
	if e.l.ContractType != nil {
		parts = append(parts, *e.l.ContractType)
	}
	return strings.Join(parts, " ")
}

func (e listingEntity) MatchCity() string {
	if e.l.LocationCity == nil {
		return ""
	}
	return *e.l.LocationCity
}

func (e listingEntity) MatchCountry() string {
	if e.l.Country == nil {
		return ""
	}
	return *e.l.Country
}

func (e listingEntity) MatchContractType() string {
	if e.l.ContractType == nil {
		return ""
	}
	return *e.l.ContractType
}

func (e listingEntity) MatchCoords() *matching.Point {
	if e.l.Latitude == nil || e.l.Longitude == nil {
		return nil
	}
	return &matching.Point{Lat: *e.l.Latitude, Lon: *e.l.Longitude}
}

func (e listingEntity) MatchCreatedAt() time.Time { return e.l.CreatedAt }
func (e listingEntity) MatchSortKey() string      { return e.l.Title }

// RankCandidates строит выдачу кандидатов для пользователя компании.
// Эталоном релевантности служит вакансия из params.ListingID; без неё
// скоринг нейтрален: все баллы нулевые, порядок детерминирован по id.
func (s *RankingService) RankCandidates(ctx context.Context, viewerID uuid.UUID, params RankParams) ([]RankedCandidate, error) {
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, err
	}

	entities := make([]matching.Entity, 0, len(candidates))
	for i := range candidates {
		entities = append(entities, candidateEntity{c: &candidates[i]})
	}

	var ref *matching.Reference
	var origin *matching.Point

	if params.Mode == matching.ModeRelevance && params.ListingID != nil {
		listing, err := s.listings.GetByID(ctx, *params.ListingID)
		if err != nil {
			return nil, err
		}
		ref = &matching.Reference{SkillIDs: listing.SkillIDs, Query: params.Query}
		origin = s.resolveOrigin(ctx, listing.Latitude, listing.Longitude, listing.LocationCity, listing.Country)
	}

	if origin == nil {
		// Падаем обратно на локацию компании зрителя
		if company, err := s.companies.GetByUserID(ctx, viewerID); err == nil {
			origin = s.resolveOrigin(ctx, company.Latitude, company.Longitude, company.LocationCity, company.Country)
		}
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	// Популярность считается одним запросом на весь проход
	counts := map[uuid.UUID]int{}
	if params.Mode == matching.ModeRelevance {
		counts, err = s.unlocks.CountByTargets(ctx, models.UnlockTargetCandidate, ids)
		if err != nil {
			return nil, err
		}
	}

	unlocked, err := s.unlocks.ListTargetIDs(ctx, viewerID, models.UnlockTargetCandidate)
	if err != nil {
		return nil, err
	}

	filters := matching.Filters{
		Query:        params.Query,
		City:         params.City,
		Country:      params.Country,
		ContractType: params.ContractType,
		SkillIDs:     params.SkillIDs,
		MaxKm:        params.MaxKm,
		Origin:       origin,
	}

	ranked := s.ranker.Rank(entities, params.Mode, filters, ref, counts, time.Now())

	out := make([]RankedCandidate, 0, len(ranked))
	for _, r := range ranked {
		c := *r.Entity.(candidateEntity).c
		_, isUnlocked := unlocked[c.ID]
		if !isUnlocked {
			c.MaskContacts()
		}
		out = append(out, RankedCandidate{
			Candidate: c,
			Score:     r.Breakdown,
			Unlocked:  isUnlocked,
		})
	}

	return out, nil
}

// RankListings строит выдачу активных вакансий для консультанта.
// Эталоном релевантности служит его собственный профиль; без профиля
// скоринг нейтрален, как и в RankCandidates без вакансии.
func (s *RankingService) RankListings(ctx context.Context, viewerID uuid.UUID, params RankParams) ([]RankedListing, error) {
	listings, err := s.listings.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	entities := make([]matching.Entity, 0, len(listings))
	for i := range listings {
		entities = append(entities, listingEntity{l: &listings[i]})
	}

	var ref *matching.Reference
	var origin *matching.Point

	candidate, err := s.candidates.GetByUserID(ctx, viewerID)
	if err == nil {
		origin = s.resolveOrigin(ctx, candidate.Latitude, candidate.Longitude, candidate.LocationCity, candidate.Country)
		if params.Mode == matching.ModeRelevance {
			ref = &matching.Reference{SkillIDs: candidate.SkillIDs, Query: params.Query}
		}
	}

	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}

	counts := map[uuid.UUID]int{}
	if params.Mode == matching.ModeRelevance {
		counts, err = s.unlocks.CountByTargets(ctx, models.UnlockTargetListing, ids)
		if err != nil {
			return nil, err
		}
	}

	unlocked, err := s.unlocks.ListTargetIDs(ctx, viewerID, models.UnlockTargetListing)
	if err != nil {
		return nil, err
	}

	filters := matching.Filters{
		Query:        params.Query,
		City:         params.City,
		Country:      params.Country,
		ContractType: params.ContractType,
		SkillIDs:     params.SkillIDs,
		MaxKm:        params.MaxKm,
		Origin:       origin,
	}

	ranked := s.ranker.Rank(entities, params.Mode, filters, ref, counts, time.Now())

	out := make([]RankedListing, 0, len(ranked))
	for _, r := range ranked {
		l := *r.Entity.(listingEntity).l
		_, isUnlocked := unlocked[l.ID]
		out = append(out, RankedListing{
			Listing:  l,
			Score:    r.Breakdown,
			Unlocked: isUnlocked,
		})
	}

	return out, nil
}

// resolveOrigin возвращает координаты точки отсчёта геофильтра. Если они
// не закэшированы в профиле, локация резолвится геокодером; неудача не
// срывает выдачу, фильтр просто не применяется.
func (s *RankingService) resolveOrigin(ctx context.Context, lat, lon *float64, city, country *string) *matching.Point {
	if lat != nil && lon != nil {
		return &matching.Point{Lat: *lat, Lon: *lon}
	}

	if s.geocoder == nil || city == nil || *city == "" {
		return nil
	}

	cityStr := *city
	countryStr := ""
	if country != nil {
		countryStr = *country
	}

	key := GeocodeCacheKey(cityStr, countryStr)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if p, ok := cached.(*matching.Point); ok {
				return p
			}
		}
	}

	res, err := s.geocoder.Search(ctx, cityStr, countryStr)
	if err != nil {
		if errors.Is(err, geocode.ErrUnresolved) && s.cache != nil {
			// Запоминаем и промах, чтобы не дёргать геокодер на каждый запрос
			s.cache.Set(key, (*matching.Point)(nil), geocodeCacheTTL)
		}
		return nil
	}

	p := &matching.Point{Lat: res.Lat, Lon: res.Lon}
	if s.cache != nil {
		s.cache.Set(key, p, geocodeCacheTTL)
	}
	return p
}
