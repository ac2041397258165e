package meteo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/spatialmodel/oilpalm/weather"
)

type fixedSource struct {
	rec weather.Record
}

func (f fixedSource) NextDay() (weather.Record, error) { return f.rec, nil }

func TestSunTimesSymmetry(t *testing.T) {
	lat := 3.0 * degToRad
	decl := declination(172) // near summer solstice
	sunrise, sunset, dayLength := sunTimes(lat, decl)
	assert.InDelta(t, 24.0, sunrise+sunset, 0.05)
	assert.Greater(t, dayLength, 0.0)
}

func TestSunTimesEquatorSolstice(t *testing.T) {
	lat := 0.0
	decl := declination(172)
	_, _, dayLength := sunTimes(lat, decl)
	assert.InDelta(t, 12.0, dayLength, 0.1)
}

func TestSunTimesPolarNight(t *testing.T) {
	lat := 80.0 * degToRad
	decl := declination(355) // near winter solstice
	_, _, dayLength := sunTimes(lat, decl)
	assert.Equal(t, 0.0, dayLength)
}

func TestNewStateDefaultsNSets(t *testing.T) {
	s := NewState(Config{Lat: 3}, fixedSource{})
	assert.Equal(t, 365, s.cfg.NSets)
}

func TestNextDayAdvancesAndWraps(t *testing.T) {
	src := fixedSource{rec: weather.Record{"tmin": 22, "tmax": 31, "wind": 1.5, "rain": 0, "sunhr": 8}}
	s := NewState(Config{Lat: 3, NSets: 3}, src)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.NextDay())
	}
	assert.Equal(t, 3, s.DOY)
	assert.Equal(t, 0, s.Year)
	require.NoError(t, s.NextDay())
	assert.Equal(t, 1, s.DOY)
	assert.Equal(t, 1, s.Year)
}

func TestDOYChangedHookInvoked(t *testing.T) {
	src := fixedSource{rec: weather.Record{"tmin": 22, "tmax": 31, "wind": 1.5, "rain": 0, "sunhr": 8}}
	s := NewState(Config{Lat: 3, NSets: 365}, src)
	var calls int
	s.RegisterDOYChanged(func() { calls++ })
	require.NoError(t, s.NextDay())
	require.NoError(t, s.NextDay())
	assert.Equal(t, 2, calls)
}

func TestSetHourRejectsOutOfRange(t *testing.T) {
	src := fixedSource{rec: weather.Record{"tmin": 22, "tmax": 31, "wind": 1.5, "rain": 0, "sunhr": 8}}
	s := NewState(Config{Lat: 3}, src)
	require.NoError(t, s.NextDay())
	assert.Error(t, s.SetHour(24))
	assert.Error(t, s.SetHour(-1))
	assert.NoError(t, s.SetHour(12))
}

func TestInstantaneousRadiationZeroAtNight(t *testing.T) {
	src := fixedSource{rec: weather.Record{"tmin": 22, "tmax": 31, "wind": 1.5, "rain": 0, "sunhr": 8}}
	s := NewState(Config{Lat: 3}, src)
	require.NoError(t, s.NextDay())
	require.NoError(t, s.SetHour(0))
	assert.Equal(t, 0.0, s.InstTotal)
	assert.Equal(t, 0.0, s.InstET)
}

func TestAirTempWithinBounds(t *testing.T) {
	src := fixedSource{rec: weather.Record{"tmin": 22, "tmax": 31, "wind": 1.5, "rain": 0, "sunhr": 8}}
	s := NewState(Config{Lat: 3, Lag: 1}, src)
	require.NoError(t, s.NextDay())
	for h := 0.0; h < 24; h += 0.5 {
		require.NoError(t, s.SetHour(h))
		assert.GreaterOrEqual(t, s.AirTemp, s.Tmin-1e-6)
		assert.LessOrEqual(t, s.AirTemp, s.Tmax+1e-6)
	}
}

func TestSaturationVaporPressureMonotonic(t *testing.T) {
	es1, _ := saturationVaporPressure(20)
	es2, _ := saturationVaporPressure(30)
	assert.Greater(t, es2, es1)
}

func TestRadiationFractionIntegratesToOne(t *testing.T) {
	sunrise, sunset := 6.0, 18.0
	sum := 0.0
	const steps = 100000
	dx := (sunset - sunrise) / steps
	for i := 0; i < steps; i++ {
		h := sunrise + (float64(i)+0.5)*dx
		sum += radiationFraction(h, sunrise, sunset) * dx
	}
	assert.InDelta(t, 1.0, sum, 1e-3)
}

func TestDeclinationRange(t *testing.T) {
	for doy := 1; doy <= 365; doy += 10 {
		d := declination(doy)
		assert.Less(t, math.Abs(d), 0.41)
	}
}
