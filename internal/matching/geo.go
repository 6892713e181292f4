package matching

import (
	"math"
	"strings"
)

// EarthRadiusKm — радиус Земли для формулы гаверсинусов.
const EarthRadiusKm = 6371.0

// Point — геокодированная точка.
type Point struct {
	Lat float64
	Lon float64
}

// HaversineKm возвращает расстояние по дуге большого круга в километрах.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180.0

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// WithinRadius проверяет, попадает ли target в радиус maxKm от origin.
// Фильтр разрешающий при неполных данных: без maxKm или без координат
// одной из сторон сущность проходит, а не отсеивается.
func WithinRadius(origin, target *Point, maxKm *float64) bool {
	if maxKm == nil || origin == nil || target == nil {
		return true
	}
	return HaversineKm(origin.Lat, origin.Lon, target.Lat, target.Lon) <= *maxKm
}

// SameRegion сравнивает страны без учёта регистра и пробелов.
// Пустые или неизвестные значения проходят.
func SameRegion(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return true
	}
	return a == b
}
