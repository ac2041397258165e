package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthOf(t *testing.T) {
	assert.Equal(t, 0, MonthOf(1))
	assert.Equal(t, 0, MonthOf(31))
	assert.Equal(t, 1, MonthOf(32))
	assert.Equal(t, 11, MonthOf(365))
}

func sampleMonths() [12]MonthParams {
	var months [12]MonthParams
	for i := range months {
		months[i] = MonthParams{
			Pww:              0.6,
			Pwd:              0.3,
			GammaShape:       2.0,
			GammaScale:       5.0,
			TempMean:         28.0,
			TempAmp:          2.0,
			TempCV:           0.05,
			TempAmpCV:        0.01,
			TempMeanWet:      26.5,
			WindWeibullShape: 2.0,
			WindWeibullScale: 1.5,
		}
	}
	return months
}

func TestStochasticGeneratorDeterministicWithSeed(t *testing.T) {
	g1 := NewStochasticGenerator(sampleMonths(), 365, 42)
	g2 := NewStochasticGenerator(sampleMonths(), 365, 42)

	for i := 0; i < 10; i++ {
		r1, err := g1.NextDay()
		assert.NoError(t, err)
		r2, err := g2.NextDay()
		assert.NoError(t, err)
		assert.Equal(t, r1, r2)
	}
}

func TestStochasticGeneratorFieldsPresent(t *testing.T) {
	g := NewStochasticGenerator(sampleMonths(), 365, 7)
	rec, err := g.NextDay()
	assert.NoError(t, err)
	for _, key := range []string{"rain", "tmax", "tmin", "wind"} {
		_, ok := rec[key]
		assert.True(t, ok, "missing field %q", key)
	}
	assert.GreaterOrEqual(t, rec["tmax"], rec["tmin"])
	assert.GreaterOrEqual(t, rec["rain"], 0.0)
	assert.GreaterOrEqual(t, rec["wind"], 0.0)
}

func TestStochasticGeneratorWrapsYear(t *testing.T) {
	g := NewStochasticGenerator(sampleMonths(), 5, 1)
	for i := 0; i < 5; i++ {
		_, err := g.NextDay()
		assert.NoError(t, err)
	}
	assert.Equal(t, 0, g.year)
	_, err := g.NextDay()
	assert.NoError(t, err)
	assert.Equal(t, 1, g.doy)
	assert.Equal(t, 1, g.year)
}
