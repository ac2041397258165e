package soilwater

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		NumLayers:         4,
		HasWaterTable:     false,
		RootGrowthRate:    0.02,
		MaxRootDepth:      1.0,
		NumIntervals:      6,
		InterceptionCoeff: 0.2,
		CriticalFraction:  0.5,
	}
}

func testLayers() []Layer {
	tex := Texture{ClayPct: 25, SandPct: 35, OMPct: 3}
	layers := make([]Layer, 4)
	for i := range layers {
		layers[i] = Layer{Thickness: 0.25, Texture: tex}
	}
	layers[0].VWC = -2 // field capacity
	layers[1].VWC = -2
	layers[2].VWC = -2
	layers[3].VWC = -2
	return layers
}

func TestNewProfileRejectsEmptyLayers(t *testing.T) {
	_, err := NewProfile(testConfig(), nil)
	assert.Error(t, err)
}

func TestNewProfileDerivesCharacteristicsAndResolvesVWC(t *testing.T) {
	p, err := NewProfile(testConfig(), testLayers())
	require.NoError(t, err)
	l, ok := p.Layer(0)
	require.True(t, ok)
	assert.Greater(t, l.Sat, 0.0)
	assert.InDelta(t, l.FC, l.VWC, 1e-9)
}

func TestAccThicknessAccumulates(t *testing.T) {
	p, err := NewProfile(testConfig(), testLayers())
	require.NoError(t, err)
	l0, _ := p.Layer(0)
	l3, _ := p.Layer(3)
	assert.InDelta(t, 0.25, l0.AccThickness, 1e-9)
	assert.InDelta(t, 1.0, l3.AccThickness, 1e-9)
}

func TestAdvanceRootDepthCapsAtMax(t *testing.T) {
	cfg := testConfig()
	cfg.RootGrowthRate = 5.0
	p, err := NewProfile(cfg, testLayers())
	require.NoError(t, err)
	p.AdvanceRootDepth()
	assert.LessOrEqual(t, p.RootDepth, cfg.MaxRootDepth)
}

func TestNetRainfallClampedAtZero(t *testing.T) {
	p, err := NewProfile(testConfig(), testLayers())
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.NetRainfall(0.1, 4.0))
	assert.Greater(t, p.NetRainfall(10, 4.0), 0.0)
}

func TestDailyStepKeepsWaterContentWithinBounds(t *testing.T) {
	p, err := NewProfile(testConfig(), testLayers())
	require.NoError(t, err)
	p.AdvanceRootDepth()

	for day := 0; day < 10; day++ {
		err := p.DailyStep(5.0, 2.0, 1.0)
		require.NoError(t, err)
		for i := 0; i < p.NumLayers(); i++ {
			l, _ := p.Layer(i)
			assert.GreaterOrEqual(t, l.VWC, l.PWP-1e-9)
			assert.LessOrEqual(t, l.VWC, l.Sat+1e-9)
		}
	}
}

func TestDailyStepDryingWithoutRainDoesNotErrorImmediately(t *testing.T) {
	p, err := NewProfile(testConfig(), testLayers())
	require.NoError(t, err)
	p.AdvanceRootDepth()
	err = p.DailyStep(0, 1.0, 0.5)
	assert.NoError(t, err)
}

func TestCropStressFullAtFieldCapacity(t *testing.T) {
	p, err := NewProfile(testConfig(), testLayers())
	require.NoError(t, err)
	p.AdvanceRootDepth()
	assert.Equal(t, 1.0, p.CropStress())
}

func TestCropStressZeroAtWiltingPoint(t *testing.T) {
	cfg := testConfig()
	p, err := NewProfile(cfg, testLayers())
	require.NoError(t, err)
	p.AdvanceRootDepth()
	for i := range p.layers {
		p.layers[i].VWC = p.layers[i].PWP
	}
	p.updateRootZone()
	assert.Equal(t, 0.0, p.CropStress())
}

func TestSoilEvapStressBoundedUnitInterval(t *testing.T) {
	p, err := NewProfile(testConfig(), testLayers())
	require.NoError(t, err)
	s := p.SoilEvapStress()
	assert.GreaterOrEqual(t, s, 0.0)
	assert.LessOrEqual(t, s, 1.0)
}

func TestResolveInitialVWCEncoding(t *testing.T) {
	c := Characteristics{Sat: 0.5, FC: 0.3, PWP: 0.1}
	assert.InDelta(t, 0.1, resolveInitialVWC(-1, c), 1e-9)
	assert.InDelta(t, 0.3, resolveInitialVWC(-2, c), 1e-9)
	assert.InDelta(t, 0.5, resolveInitialVWC(-3, c), 1e-9)
	assert.InDelta(t, 0.2, resolveInitialVWC(0.2, c), 1e-9)
}

func TestHydraulicConductivityDecreasesAsSoilDries(t *testing.T) {
	c := DeriveCharacteristics(Texture{ClayPct: 20, SandPct: 40, OMPct: 2})
	wet := hydraulicConductivity(c.Sat, c)
	dry := hydraulicConductivity(c.PWP, c)
	assert.Greater(t, wet, dry)
}

func TestMatricHeadMoreNegativeAsSoilDries(t *testing.T) {
	c := DeriveCharacteristics(Texture{ClayPct: 20, SandPct: 40, OMPct: 2})
	wet := matricHead(c.Sat, c)
	dry := matricHead(c.PWP, c)
	assert.Less(t, dry, wet)
}
