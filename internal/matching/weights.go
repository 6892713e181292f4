package matching

// Weights задаёт веса факторов релевантности. Сумма канонического набора
// равна 1.0; итоговый балл не перенормируется.
type Weights struct {
	Skill      float64 `json:"skill"`
	Text       float64 `json:"text"`
	Recency    float64 `json:"recency"`
	Popularity float64 `json:"popularity"`
}

// DefaultWeights возвращает канонический набор весов: 50% навыки,
// 20% текстовое совпадение, 20% свежесть, 10% популярность.
func DefaultWeights() Weights {
	return Weights{
		Skill:      0.50,
		Text:       0.20,
		Recency:    0.20,
		Popularity: 0.10,
	}
}

const (
	// RecencyWindowDays — окно линейного затухания фактора свежести:
	// 1.0 в момент создания, 0.0 на тридцатый день и позднее.
	RecencyWindowDays = 30.0

	// PopularitySaturation — число разблокировок, при котором фактор
	// популярности достигает 1.0.
	PopularitySaturation = 50.0
)
