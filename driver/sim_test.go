package driver

import (
	"context"
	"os"
	"testing"

	"github.com/spatialmodel/oilpalm/crop"
	"github.com/spatialmodel/oilpalm/energy"
	"github.com/spatialmodel/oilpalm/internal/table"
	"github.com/spatialmodel/oilpalm/meteo"
	"github.com/spatialmodel/oilpalm/photosynthesis"
	"github.com/spatialmodel/oilpalm/soilwater"
	"github.com/spatialmodel/oilpalm/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatTable(v float64) *table.Table {
	return table.MustNew(map[float64]float64{0: v, 10000: v})
}

func testCropConfig() crop.Config {
	var cfg crop.Config
	for p := crop.Part(0); p < 7; p++ {
		cfg.Parts[p] = crop.PartParams{
			NContent:      flatTable(0.02),
			MaintQ10:      2.0,
			MaintRefTemp:  25,
			MaintCoeff:    0.005,
			PartitionFrac: flatTable(0.25),
			ConversionEff: 0.65,
			DeathRate:     flatTable(0.0002),
		}
	}
	cfg.FemaleProb = 0.6
	cfg.MaxVDMPerHa = 15000
	cfg.SLAByAge = flatTable(6)
	cfg.CanopyHeightOffset = 1.5
	cfg.TrunkHeightPerWeight = 0.002
	cfg.MaleFlowerCells = 20
	cfg.ImmatureBunchCells = 150
	cfg.MatureBunchCells = 10
	cfg.BunchDMPerCohort = 15
	return cfg
}

func testConfig(t *testing.T, outputPath string) Config {
	layers := make([]soilwater.Layer, 3)
	for i := range layers {
		layers[i] = soilwater.Layer{
			Thickness: 0.3,
			Texture:   soilwater.Texture{ClayPct: 25, SandPct: 35, OMPct: 3},
			VWC:       -2,
		}
	}

	return Config{
		BaseDir:         t.TempDir(),
		StochasticMonths: uniformMonths(),
		Seed:            99,
		Meteo: meteo.Config{
			Lat:           3.0,
			StationHeight: 2.0,
			Lag:           2.0,
			Albedo:        0.23,
			NSets:         365,
		},
		Energy: energy.Config{
			ReferenceHeight: 20, KD: 0.75, KZ: 0.1,
			WindExtinction: 2.5, EddyExtinction: 2.5, LeafletLength: 0.3,
			RstMin: 100, LAICeiling: 5, GFraction: 0.1, KDR: 0.5,
			RssMin: 500, RssSlope: 3, VPDThreshold: 1.0, VPDSlope: 0.2, PARHalfSat: 50,
		},
		Photo: photosynthesis.Config{
			QuantumYield: 0.06, Clump: 0.9, ParFraction: 0.48,
			LeafScatterCoeff: 0.2, SoilReflectance: 0.1, CiFraction: 0.7,
			VsMax: 30, VcmaxRef: 60, VcmaxEa: 65330,
			KcRef: 40.4, KcEa: 79430, KoRef: 24.8, KoEa: 36380,
			GammaStarRef: 3.7, GammaStarEa: 37830, AmbientO2: 21,
			PlantingDensity: 136,
		},
		Soil: soilwater.Config{
			NumLayers: 3, RootGrowthRate: 0.01, MaxRootDepth: 0.8,
			NumIntervals: 4, InterceptionCoeff: 0.2, CriticalFraction: 0.5,
		},
		Layers:          layers,
		Crop:            testCropConfig(),
		PlantingDensity: 136,
		QuadratureOrder: 5,
		OutputPath:      outputPath,
	}
}

func uniformMonths() [12]weather.MonthParams {
	var months [12]weather.MonthParams
	for i := range months {
		months[i] = weather.MonthParams{
			Pww: 0.6, Pwd: 0.3,
			GammaShape: 2.0, GammaScale: 5.0,
			TempMean: 27, TempAmp: 2, TempCV: 0.1, TempAmpCV: 0.1, TempMeanWet: 26,
			WindWeibullShape: 2.0, WindWeibullScale: 2.0,
		}
	}
	return months
}

func TestNewSimBuildsAllComponents(t *testing.T) {
	sim, err := NewSim(testConfig(t, ""))
	require.NoError(t, err)
	assert.NotNil(t, sim.Meteo)
	assert.NotNil(t, sim.Soil)
	assert.NotNil(t, sim.Photo)
	assert.NotNil(t, sim.Energy)
	assert.NotNil(t, sim.Crop)
}

func TestRunAdvancesMultipleDaysWithoutError(t *testing.T) {
	sim, err := NewSim(testConfig(t, ""))
	require.NoError(t, err)
	err = sim.Run(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, sim.Day)
}

func TestRunRespectsCancelledContext(t *testing.T) {
	sim, err := NewSim(testConfig(t, ""))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sim.Run(ctx, 5)
	assert.Error(t, err)
}

func TestRunWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, "daily.csv")
	cfg.BaseDir = dir
	sim, err := NewSim(cfg)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background(), 3))

	data, err := os.ReadFile(dir + "/daily.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "bunchyield")
}

func TestRunWritesAuxiliaryFile(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, "")
	cfg.BaseDir = dir
	cfg.AuxPath = "aux.csv"
	cfg.AuxExprs = []string{"trunk_maint", "layer0_vwc"}
	sim, err := NewSim(cfg)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background(), 2))

	data, err := os.ReadFile(dir + "/aux.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "trunk_maint")
}
