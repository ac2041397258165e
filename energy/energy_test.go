package energy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		ReferenceHeight: 20,
		KD:              0.75,
		KZ:              0.1,
		WindExtinction:  2.5,
		EddyExtinction:  2.5,
		LeafletLength:   0.3,
		RstMin:          100,
		LAICeiling:      5,
		GFraction:       0.1,
		KDR:             0.5,
		RssMin:          500,
		RssSlope:        3,
		VPDThreshold:    1.0,
		VPDSlope:        0.2,
		PARHalfSat:      50,
	}
}

func testInputs() Inputs {
	return Inputs{
		NetRadiation:        400,
		AirTemp:             30,
		VPD:                 1.2,
		SVPSlope:            0.24,
		WindSpeedRef:        2.0,
		LAI:                 3.0,
		TreeHeight:          10,
		SurfaceVWCNorm:      0.6,
		RootZoneWaterStatus: 0.9,
		AbsorbedPAR:         300,
	}
}

func TestStepRejectsTreeHeightAboveReference(t *testing.T) {
	s := NewState(testConfig())
	in := testInputs()
	in.TreeHeight = 25
	err := s.Step(100, 12, in)
	assert.Error(t, err)
}

func TestStepEnergyClosure(t *testing.T) {
	s := NewState(testConfig())
	require.NoError(t, s.Step(100, 12, testInputs()))
	total := s.Latent.Total + s.Sensible.Total + s.G
	assert.InDelta(t, s.AvailEnergy.Total, total, 1.0)
}

func TestStepZeroLAIZeroCropFlux(t *testing.T) {
	s := NewState(testConfig())
	in := testInputs()
	in.LAI = 0
	require.NoError(t, s.Step(100, 12, in))
	assert.Equal(t, 0.0, s.Latent.Crop)
	assert.Equal(t, in.AirTemp, s.CanopyTemp)
}

func TestStressWaterAtPWPIsZero(t *testing.T) {
	assert.Equal(t, 0.0, stressWater(0))
	assert.Equal(t, 1.0, stressWater(1.5))
}

func TestStressVPDBelowThresholdIsOne(t *testing.T) {
	assert.Equal(t, 1.0, stressVPD(0.5, 1.0, 0.2))
	assert.Less(t, stressVPD(2.0, 1.0, 0.2), 1.0)
}

func TestCanopyTemperatureBounded(t *testing.T) {
	tc := canopyTemperature(30, 1e9, 10, 10, 3)
	assert.LessOrEqual(t, math.Abs(tc-30), 15.0+1e-9)
}

func TestDailyHeatBalanceIntegratesPositive(t *testing.T) {
	s := NewState(testConfig())
	err := s.DailyHeatBalance(172, 6, 18, func(hour float64) Inputs {
		in := testInputs()
		in.NetRadiation = 400 * math.Max(0, math.Sin(math.Pi*(hour-6)/12))
		return in
	}, 5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, s.DailyLatentMM, 0.0)
}
