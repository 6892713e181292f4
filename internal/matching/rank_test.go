package matching

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func rankedIDs(rs []Ranked) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.Entity.MatchID())
	}
	return ids
}

func TestRanker_Rank_RelevanceOrder(t *testing.T) {
	now := time.Now()
	s1, s2 := uuid.New(), uuid.New()

	full := newTestEntity(now, s1, s2)
	half := newTestEntity(now, s1)
	none := newTestEntity(now)

	ref := &Reference{SkillIDs: []uuid.UUID{s1, s2}}
	out := NewRanker(DefaultWeights()).Rank(
		[]Entity{none, half, full}, ModeRelevance, Filters{}, ref, nil, now,
	)

	assert.Len(t, out, 3)
	assert.Equal(t, []uuid.UUID{full.id, half.id, none.id}, rankedIDs(out))
	assert.NotNil(t, out[0].Breakdown)
	assert.Greater(t, out[0].Breakdown.Total, out[1].Breakdown.Total)
}

func TestRanker_Rank_RelevanceTieBreakDeterministic(t *testing.T) {
	now := time.Now()

	a := newTestEntity(now)
	b := newTestEntity(now)

	// Одинаковые баллы — порядок по возрастанию id
	run1 := NewRanker(DefaultWeights()).Rank([]Entity{a, b}, ModeRelevance, Filters{}, &Reference{}, nil, now)
	run2 := NewRanker(DefaultWeights()).Rank([]Entity{b, a}, ModeRelevance, Filters{}, &Reference{}, nil, now)

	assert.Equal(t, rankedIDs(run1), rankedIDs(run2))
	assert.True(t, run1[0].Entity.MatchID().String() < run1[1].Entity.MatchID().String())
}

func TestRanker_Rank_GeoFilterAppliesInBothModes(t *testing.T) {
	now := time.Now()
	max := 40.0

	near := newTestEntity(now)
	near.coords = &mechelen
	far := newTestEntity(now)
	far.coords = &ghent
	unknown := newTestEntity(now)

	entities := []Entity{near, far, unknown}
	f := Filters{Origin: &brussels, MaxKm: &max}

	rel := NewRanker(DefaultWeights()).Rank(entities, ModeRelevance, f, &Reference{}, nil, now)
	man := NewRanker(DefaultWeights()).Rank(entities, ModeManual, f, nil, nil, now)

	// Дальняя сущность отсеяна, без координат — проходит
	for _, out := range [][]Ranked{rel, man} {
		assert.Len(t, out, 2)
		assert.NotContains(t, rankedIDs(out), far.id)
	}
}

func TestRanker_Rank_ManualFiltersConjunction(t *testing.T) {
	now := time.Now()
	s1, s2 := uuid.New(), uuid.New()

	match := newTestEntity(now, s1, s2)
	match.text = "Senior Go Developer"
	match.city = "Brussels"
	match.country = "Belgium"
	match.contractType = "full_time"
	match.sortKey = "senior go developer"

	wrongCountry := newTestEntity(now, s1, s2)
	wrongCountry.text = "Senior Go Developer"
	wrongCountry.city = "Brussels"
	wrongCountry.country = "Netherlands"
	wrongCountry.contractType = "full_time"

	missingSkill := newTestEntity(now, s1)
	missingSkill.text = "Senior Go Developer"
	missingSkill.city = "Brussels"
	missingSkill.country = "Belgium"
	missingSkill.contractType = "full_time"

	f := Filters{
		City:         "brus",
		Country:      "BELGIUM",
		ContractType: "full_time",
		SkillIDs:     []uuid.UUID{s1, s2},
	}

	out := NewRanker(DefaultWeights()).Rank(
		[]Entity{match, wrongCountry, missingSkill}, ModeManual, f, nil, nil, now,
	)

	assert.Len(t, out, 1)
	assert.Equal(t, match.id, out[0].Entity.MatchID())
	assert.Nil(t, out[0].Breakdown)
}

func TestRanker_Rank_ManualAlphabeticalOrder(t *testing.T) {
	now := time.Now()

	b := newTestEntity(now)
	b.sortKey = "Backend инженер"
	a := newTestEntity(now)
	a.sortKey = "Android разработчик"
	z := newTestEntity(now)
	z.sortKey = "аналитик"

	out := NewRanker(DefaultWeights()).Rank([]Entity{z, b, a}, ModeManual, Filters{}, nil, nil, now)

	assert.Equal(t, []uuid.UUID{a.id, b.id, z.id}, rankedIDs(out))
}

func TestRanker_Rank_ManualIgnoresQuery(t *testing.T) {
	now := time.Now()

	// Текстовый запрос работает только в скоринге и не отсеивает в ручном режиме
	e := newTestEntity(now)
	e.text = "Senior Go Developer"

	out := NewRanker(DefaultWeights()).Rank(
		[]Entity{e}, ModeManual, Filters{Query: "rust"}, nil, nil, now,
	)

	assert.Len(t, out, 1)
}

func TestRanker_Rank_ManualIgnoresScoring(t *testing.T) {
	now := time.Now()
	s1 := uuid.New()

	e := newTestEntity(now, s1)
	out := NewRanker(DefaultWeights()).Rank(
		[]Entity{e}, ModeManual, Filters{}, &Reference{SkillIDs: []uuid.UUID{s1}},
		map[uuid.UUID]int{e.id: 50}, now,
	)

	assert.Len(t, out, 1)
	assert.Nil(t, out[0].Breakdown)
}

func TestRanker_Rank_RelevanceIgnoresManualFilters(t *testing.T) {
	now := time.Now()

	// В режиме релевантности ручные фильтры не отсеивают
	e := newTestEntity(now)
	e.country = "Netherlands"

	out := NewRanker(DefaultWeights()).Rank(
		[]Entity{e}, ModeRelevance, Filters{Country: "Belgium"}, &Reference{}, nil, now,
	)

	assert.Len(t, out, 1)
}
