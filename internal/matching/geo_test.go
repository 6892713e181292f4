package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	brussels = Point{Lat: 50.85, Lon: 4.35}
	ghent    = Point{Lat: 51.05, Lon: 3.72}
	mechelen = Point{Lat: 50.95, Lon: 4.30}
)

func TestHaversineKm(t *testing.T) {
	// Брюссель — Гент, примерно 49 км по прямой
	d := HaversineKm(brussels.Lat, brussels.Lon, ghent.Lat, ghent.Lon)
	assert.InDelta(t, 49.5, d, 2.0)

	// Нулевое расстояние до самой себя
	assert.InDelta(t, 0.0, HaversineKm(brussels.Lat, brussels.Lon, brussels.Lat, brussels.Lon), 1e-9)

	// Симметрия
	back := HaversineKm(ghent.Lat, ghent.Lon, brussels.Lat, brussels.Lon)
	assert.InDelta(t, d, back, 1e-9)
}

func TestWithinRadius(t *testing.T) {
	max40 := 40.0
	max60 := 60.0

	assert.False(t, WithinRadius(&brussels, &ghent, &max40))
	assert.True(t, WithinRadius(&brussels, &ghent, &max60))

	// Мехелен в ~12 км от Брюсселя
	assert.True(t, WithinRadius(&brussels, &mechelen, &max40))
}

func TestWithinRadius_PermissiveOnMissingData(t *testing.T) {
	max := 10.0

	// Без ограничения радиуса фильтр не применяется
	assert.True(t, WithinRadius(&brussels, &ghent, nil))

	// Без координат одной из сторон сущность проходит, а не отсеивается
	assert.True(t, WithinRadius(nil, &ghent, &max))
	assert.True(t, WithinRadius(&brussels, nil, &max))
	assert.True(t, WithinRadius(nil, nil, &max))
}

func TestSameRegion(t *testing.T) {
	assert.True(t, SameRegion("Belgium", "belgium"))
	assert.True(t, SameRegion("  Belgium ", "BELGIUM"))
	assert.False(t, SameRegion("Belgium", "Netherlands"))

	// Неизвестная страна не отсекает
	assert.True(t, SameRegion("", "Belgium"))
	assert.True(t, SameRegion("Belgium", ""))
}
