package photosynthesis

import (
	"math"
	"testing"

	"github.com/spatialmodel/oilpalm/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		QuantumYield:     0.06,
		Clump:            0.9,
		ParFraction:      0.48,
		LeafScatterCoeff: 0.2,
		SoilReflectance:  0.1,
		CiFraction:       0.7,
		VsMax:            30,
		VcmaxRef:         60,
		VcmaxEa:          65330,
		KcRef:            40.4,
		KcEa:             79430,
		KoRef:            24.8,
		KoEa:             36380,
		GammaStarRef:     3.7,
		GammaStarEa:      37830,
		AmbientO2:        21,
		PlantingDensity:  136,
	}
}

func testCO2Table(t *testing.T) *table.Table {
	tbl, err := table.New(map[float64]float64{1990: 354, 2000: 369, 2010: 389, 2020: 412})
	require.NoError(t, err)
	return tbl
}

func TestResetAmbientCO2(t *testing.T) {
	s := NewState(testConfig(), testCO2Table(t))
	s.ResetAmbientCO2(2010)
	assert.Equal(t, 389.0, s.AmbientCO2)
}

func TestStepNightZeroAssimilation(t *testing.T) {
	s := NewState(testConfig(), testCO2Table(t))
	s.ResetAmbientCO2(2020)
	s.LAI = 3.0
	s.Step(28, -0.1, 0, 0.5)
	assert.Equal(t, 0.0, s.InstCanopyAssim)
	assert.Equal(t, s.LAI, s.ShadedLAI)
}

func TestStepZeroLAIZeroAssimilation(t *testing.T) {
	s := NewState(testConfig(), testCO2Table(t))
	s.ResetAmbientCO2(2020)
	s.LAI = 0
	s.Step(28, 1.0, 600, 0.7)
	assert.Equal(t, 0.0, s.InstCanopyAssim)
}

func TestLAISplitSumsToTotal(t *testing.T) {
	s := NewState(testConfig(), testCO2Table(t))
	s.ResetAmbientCO2(2020)
	s.LAI = 3.5
	s.Step(30, 1.0, 700, 0.6)
	assert.InDelta(t, s.LAI, s.SunlitLAI+s.ShadedLAI, 1e-9)
}

func TestStepPositiveAssimilationInDaylight(t *testing.T) {
	s := NewState(testConfig(), testCO2Table(t))
	s.ResetAmbientCO2(2020)
	s.LAI = 3.5
	s.Step(30, 1.0, 700, 0.6)
	assert.Greater(t, s.InstCanopyAssim, 0.0)
}

func TestDailyAssimilationNonNegative(t *testing.T) {
	s := NewState(testConfig(), testCO2Table(t))
	s.ResetAmbientCO2(2020)
	s.LAI = 3.5
	err := s.SetDailyImmutables(3.5, func(hour float64) float64 {
		return math.Asin(math.Max(-1, math.Min(1, math.Sin(math.Pi*(hour-6)/12))))
	}, 6, 18, 5)
	require.NoError(t, err)

	err = s.DailyAssimilation(6, 18, func(hour float64) float64 {
		height := math.Asin(math.Max(-1, math.Min(1, math.Sin(math.Pi*(hour-6)/12))))
		s.Step(30, height, 700*math.Max(0, math.Sin(math.Pi*(hour-6)/12)), 0.6)
		return s.InstCanopyAssim
	}, 5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, s.DailyAssimKgPerPalm, 0.0)
}

func TestCO2DoublingIncreasesAssimilation(t *testing.T) {
	base := func(co2 float64) float64 {
		s := NewState(testConfig(), testCO2Table(t))
		s.AmbientCO2 = co2
		s.LAI = 3.5
		s.Step(30, 1.0, 700, 0.6)
		return s.InstCanopyAssim
	}
	low := base(400)
	high := base(800)
	assert.Greater(t, high, low)
}

func TestArrheniusIncreasesWithTemperatureForPositiveEa(t *testing.T) {
	low := arrhenius(60, 65330, 20)
	high := arrhenius(60, 65330, 30)
	assert.Greater(t, high, low)
}
