package matching

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mode — режим ранжирования. Режимы взаимоисключающие: в режиме
// релевантности ручные фильтры игнорируются (запрос уходит в скоринг),
// в ручном режиме балл не считается. Эта асимметрия намеренная.
type Mode string

const (
	ModeRelevance Mode = "relevance"
	ModeManual    Mode = "manual"
)

// Filters — параметры отбора. Query питает текстовый фактор только в
// режиме релевантности; в ручном режиме он не участвует в отборе.
type Filters struct {
	Query        string
	City         string
	Country      string
	ContractType string
	SkillIDs     []uuid.UUID
	MaxKm        *float64
	Origin       *Point
}

// Ranked — сущность с опциональной расшифровкой балла
// (nil в ручном режиме).
type Ranked struct {
	Entity    Entity
	Breakdown *Breakdown
}

// Ranker отбирает и упорядочивает сущности.
type Ranker struct {
	scorer *Scorer
}

// NewRanker создаёт ranker с заданными весами скоринга.
func NewRanker(w Weights) *Ranker {
	return &Ranker{scorer: NewScorer(w)}
}

// Rank применяет геофильтр, затем либо скоринг с сортировкой по убыванию
// балла, либо ручные фильтры с алфавитной сортировкой. Равные баллы и
// ключи разрешаются по возрастанию id — порядок детерминирован.
func (r *Ranker) Rank(entities []Entity, mode Mode, f Filters, ref *Reference, unlockCounts map[uuid.UUID]int, now time.Time) []Ranked {
	out := make([]Ranked, 0, len(entities))

	for _, e := range entities {
		if !WithinRadius(f.Origin, e.MatchCoords(), f.MaxKm) {
			continue
		}

		if mode == ModeManual && !passManualFilters(e, f) {
			continue
		}

		ranked := Ranked{Entity: e}
		if mode == ModeRelevance {
			b := r.scorer.Score(e, ref, unlockCounts[e.MatchID()], now)
			ranked.Breakdown = &b
		}
		out = append(out, ranked)
	}

	if mode == ModeRelevance {
		sort.Slice(out, func(i, j int) bool {
			bi, bj := out[i].Breakdown.Total, out[j].Breakdown.Total
			if bi != bj {
				return bi > bj
			}
			return out[i].Entity.MatchID().String() < out[j].Entity.MatchID().String()
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			ki := strings.ToLower(out[i].Entity.MatchSortKey())
			kj := strings.ToLower(out[j].Entity.MatchSortKey())
			if ki != kj {
				return ki < kj
			}
			return out[i].Entity.MatchID().String() < out[j].Entity.MatchID().String()
		})
	}

	return out
}

// passManualFilters применяет все заданные ручные фильтры конъюнкцией.
// Текстовый запрос сюда не входит: он относится только к скорингу.
func passManualFilters(e Entity, f Filters) bool {
	if city := strings.TrimSpace(f.City); city != "" {
		if !strings.Contains(strings.ToLower(e.MatchCity()), strings.ToLower(city)) {
			return false
		}
	}

	if country := strings.TrimSpace(f.Country); country != "" {
		if !SameRegion(e.MatchCountry(), country) {
			return false
		}
	}

	if ct := strings.TrimSpace(f.ContractType); ct != "" {
		if !strings.EqualFold(strings.TrimSpace(e.MatchContractType()), ct) {
			return false
		}
	}

	if len(f.SkillIDs) > 0 {
		have := make(map[uuid.UUID]struct{})
		for _, id := range e.MatchSkills() {
			have[id] = struct{}{}
		}
		// Сущность обязана содержать каждый отмеченный навык
		for _, id := range f.SkillIDs {
			if _, ok := have[id]; !ok {
				return false
			}
		}
	}

	return true
}
