package matching

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity — то, что можно отранжировать: профиль кандидата или вакансия.
// Реализации живут в сервисном слое и оборачивают модели.
type Entity interface {
	MatchID() uuid.UUID
	MatchSkills() []uuid.UUID
	// MatchText возвращает конкатенацию текстовых полей для текстового
	// фактора: имя/заголовок/локация у кандидата, заголовок/описание/
	// локация/тип контракта у вакансии.
	MatchText() string
	MatchCity() string
	MatchCountry() string
	MatchContractType() string
	MatchCoords() *Point
	MatchCreatedAt() time.Time
	// MatchSortKey — ключ алфавитной сортировки в ручном режиме.
	MatchSortKey() string
}

// Reference — эталон, относительно которого считается релевантность:
// требуемые навыки вакансии (или навыки профиля) и поисковый запрос.
type Reference struct {
	SkillIDs []uuid.UUID
	Query    string
}

// Breakdown — расшифровка балла. *_factor — невзвешенные значения [0,1],
// остальные поля — взвешенные вклады; Total — их сумма.
type Breakdown struct {
	SkillFactor      float64 `json:"skill_factor"`
	TextFactor       float64 `json:"text_factor"`
	RecencyFactor    float64 `json:"recency_factor"`
	PopularityFactor float64 `json:"popularity_factor"`
	Skill            float64 `json:"skill"`
	Text             float64 `json:"text"`
	Recency          float64 `json:"recency"`
	Popularity       float64 `json:"popularity"`
	Total            float64 `json:"total"`
}

// Scorer вычисляет детерминированный балл релевантности в [0,1].
type Scorer struct {
	weights Weights
}

// NewScorer создаёт scorer с заданными весами.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score возвращает балл и расшифровку для сущности относительно эталона.
// Без эталона (ref == nil) возвращается нулевая расшифровка: ранжирование
// деградирует до нейтрального порядка, это не ошибка.
func (s *Scorer) Score(e Entity, ref *Reference, unlockCount int, now time.Time) Breakdown {
	if ref == nil {
		return Breakdown{}
	}

	b := Breakdown{
		SkillFactor:      skillFactor(e.MatchSkills(), ref.SkillIDs),
		TextFactor:       textFactor(e.MatchText(), ref.Query),
		RecencyFactor:    recencyFactor(e.MatchCreatedAt(), now),
		PopularityFactor: popularityFactor(unlockCount),
	}

	b.Skill = b.SkillFactor * s.weights.Skill
	b.Text = b.TextFactor * s.weights.Text
	b.Recency = b.RecencyFactor * s.weights.Recency
	b.Popularity = b.PopularityFactor * s.weights.Popularity
	b.Total = b.Skill + b.Text + b.Recency + b.Popularity

	return b
}

// skillFactor — асимметричное пересечение навыков: знаменателем служит
// число требуемых навыков эталона, лишние навыки сущности не штрафуются.
func skillFactor(entitySkills, referenceSkills []uuid.UUID) float64 {
	if len(referenceSkills) == 0 {
		return 0
	}

	have := make(map[uuid.UUID]struct{}, len(entitySkills))
	for _, id := range entitySkills {
		have[id] = struct{}{}
	}

	matched := 0
	for _, id := range referenceSkills {
		if _, ok := have[id]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(referenceSkills))
}

// textFactor — бинарное вхождение подстроки без учёта регистра.
// Одно совпадение даёт тот же вклад, что и совпадение во всех полях.
func textFactor(text, query string) float64 {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(text), strings.ToLower(query)) {
		return 1
	}
	return 0
}

// recencyFactor — линейное затухание от 1.0 до 0.0 за RecencyWindowDays.
// Клиппинг с обеих сторон: не уходит в минус и не превышает 1 для дат
// из будущего.
func recencyFactor(createdAt, now time.Time) float64 {
	days := now.Sub(createdAt).Hours() / 24.0
	f := 1.0 - days/RecencyWindowDays
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// popularityFactor — насыщающая функция числа разблокировок.
func popularityFactor(unlockCount int) float64 {
	if unlockCount <= 0 {
		return 0
	}
	f := float64(unlockCount) / PopularitySaturation
	if f > 1 {
		return 1
	}
	return f
}
