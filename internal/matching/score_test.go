package matching

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Тестовая сущность
type testEntity struct {
	id           uuid.UUID
	skills       []uuid.UUID
	text         string
	city         string
	country      string
	contractType string
	coords       *Point
	createdAt    time.Time
	sortKey      string
}

func (e *testEntity) MatchID() uuid.UUID         { return e.id }
func (e *testEntity) MatchSkills() []uuid.UUID   { return e.skills }
func (e *testEntity) MatchText() string          { return e.text }
func (e *testEntity) MatchCity() string          { return e.city }
func (e *testEntity) MatchCountry() string       { return e.country }
func (e *testEntity) MatchContractType() string  { return e.contractType }
func (e *testEntity) MatchCoords() *Point        { return e.coords }
func (e *testEntity) MatchCreatedAt() time.Time  { return e.createdAt }
func (e *testEntity) MatchSortKey() string       { return e.sortKey }

func newTestEntity(createdAt time.Time, skills ...uuid.UUID) *testEntity {
	return &testEntity{
		id:        uuid.New(),
		skills:    skills,
		text:      "Go разработчик, Брюссель",
		sortKey:   "go разработчик",
		createdAt: createdAt,
	}
}

func TestScorer_Score_PartialSkillMatch(t *testing.T) {
	now := time.Now()
	s1, s2, s3 := uuid.New(), uuid.New(), uuid.New()

	// Два из трёх требуемых навыков, создан 10 дней назад, 25 разблокировок
	e := newTestEntity(now.AddDate(0, 0, -10), s1, s2)
	ref := &Reference{SkillIDs: []uuid.UUID{s1, s2, s3}}

	b := NewScorer(DefaultWeights()).Score(e, ref, 25, now)

	assert.InDelta(t, 2.0/3.0, b.SkillFactor, 1e-9)
	assert.InDelta(t, 0.0, b.TextFactor, 1e-9)
	assert.InDelta(t, 2.0/3.0, b.RecencyFactor, 1e-6)
	assert.InDelta(t, 0.5, b.PopularityFactor, 1e-9)
	assert.InDelta(t, 0.5166667, b.Total, 1e-4)
}

func TestScorer_Score_NilReference(t *testing.T) {
	now := time.Now()
	e := newTestEntity(now, uuid.New())

	b := NewScorer(DefaultWeights()).Score(e, nil, 100, now)

	assert.Equal(t, Breakdown{}, b)
}

func TestScorer_Score_TotalBounded(t *testing.T) {
	now := time.Now()
	s1 := uuid.New()

	// Максимум по всем факторам
	e := newTestEntity(now, s1)
	e.text = "Senior Go Developer"
	ref := &Reference{SkillIDs: []uuid.UUID{s1}, Query: "go"}

	b := NewScorer(DefaultWeights()).Score(e, ref, 500, now)

	assert.InDelta(t, 1.0, b.Total, 1e-9)

	// Минимум по всем факторам
	old := newTestEntity(now.AddDate(0, 0, -60))
	old.text = "нет совпадения"
	b = NewScorer(DefaultWeights()).Score(old, &Reference{SkillIDs: []uuid.UUID{s1}, Query: "rust"}, 0, now)

	assert.InDelta(t, 0.0, b.Total, 1e-9)
}

func TestScorer_Score_EmptyReferenceSkills(t *testing.T) {
	now := time.Now()
	e := newTestEntity(now, uuid.New(), uuid.New())

	b := NewScorer(DefaultWeights()).Score(e, &Reference{Query: "go"}, 0, now)

	// Нет требуемых навыков — фактор ноль, а не единица
	assert.Equal(t, 0.0, b.SkillFactor)
	assert.Equal(t, 1.0, b.TextFactor)
}

func TestScorer_Score_ExtraSkillsNotPenalized(t *testing.T) {
	now := time.Now()
	s1 := uuid.New()

	// Сущность знает много лишнего, но покрывает весь эталон
	e := newTestEntity(now, s1, uuid.New(), uuid.New(), uuid.New())
	b := NewScorer(DefaultWeights()).Score(e, &Reference{SkillIDs: []uuid.UUID{s1}}, 0, now)

	assert.Equal(t, 1.0, b.SkillFactor)
}

func TestTextFactor(t *testing.T) {
	assert.Equal(t, 1.0, textFactor("Senior Go Developer, Брюссель", "go"))
	assert.Equal(t, 1.0, textFactor("Senior Go Developer", "SENIOR go"))
	assert.Equal(t, 0.0, textFactor("Senior Go Developer", "rust"))
	assert.Equal(t, 0.0, textFactor("Senior Go Developer", ""))
	assert.Equal(t, 0.0, textFactor("Senior Go Developer", "   "))
}

func TestRecencyFactor(t *testing.T) {
	now := time.Now()

	assert.InDelta(t, 1.0, recencyFactor(now, now), 1e-6)
	assert.InDelta(t, 0.5, recencyFactor(now.AddDate(0, 0, -15), now), 1e-3)
	assert.InDelta(t, 0.0, recencyFactor(now.AddDate(0, 0, -30), now), 1e-3)

	// За пределами окна не уходит в минус
	assert.Equal(t, 0.0, recencyFactor(now.AddDate(0, 0, -90), now))

	// Дата из будущего клиппится единицей
	assert.Equal(t, 1.0, recencyFactor(now.AddDate(0, 0, 5), now))
}

func TestPopularityFactor(t *testing.T) {
	assert.Equal(t, 0.0, popularityFactor(0))
	assert.Equal(t, 0.0, popularityFactor(-3))
	assert.InDelta(t, 0.2, popularityFactor(10), 1e-9)
	assert.InDelta(t, 0.5, popularityFactor(25), 1e-9)
	assert.Equal(t, 1.0, popularityFactor(50))

	// Насыщение: после порога рост прекращается
	assert.Equal(t, 1.0, popularityFactor(5000))
}

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Skill+w.Text+w.Recency+w.Popularity, 1e-9)
}
