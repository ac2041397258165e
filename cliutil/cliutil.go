// Package cliutil builds driver.Config from parsed initialization-file
// key=value pairs and reports the exit code a run should use: 0 for
// success, 1 for a runtime failure, 2 for a bad argument or input file.
package cliutil

import (
	"strconv"
	"strings"

	"github.com/spatialmodel/oilpalm/crop"
	"github.com/spatialmodel/oilpalm/driver"
	"github.com/spatialmodel/oilpalm/energy"
	"github.com/spatialmodel/oilpalm/internal/initfile"
	"github.com/spatialmodel/oilpalm/internal/simerr"
	"github.com/spatialmodel/oilpalm/internal/table"
	"github.com/spatialmodel/oilpalm/meteo"
	"github.com/spatialmodel/oilpalm/photosynthesis"
	"github.com/spatialmodel/oilpalm/soilwater"
)

// ExitCode classifies an error returned from Run/Met into the process
// exit code the CLI should use.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch err.(type) {
	case *simerr.InputError:
		return 2
	default:
		return 1
	}
}

// allowedKeys is the full set of recognised initialization-file keys.
var allowedKeys = map[string]bool{
	"lat": true, "methgt": true, "seed": true, "refhgt": true,
	"windext": true, "eddyext": true, "leafdim.length": true,
	"co2ambient": true, "quantum_yield": true, "clump": true,
	"rootdepth": true, "numintervals": true, "has_watertable": true,
	"watertabledepth": true, "plantdens": true, "thinplantdens": true,
	"thinage": true, "female_prob": true, "weatherfile": true,
	"nsets": true, "quadratureorder": true, "outputfile": true,
	"hourlyoutputfile": true,
	"auxfile": true, "auxexprs": true, "albedo": true, "lag": true,
	"numlayers": true, "layerthick": true, "layerclay": true,
	"layersand": true, "layerom": true, "layervwc": true,
}

func floatOf(values map[string]string, key string, def float64) float64 {
	s, ok := values[key]
	if !ok || s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func intOf(values map[string]string, key string, def int) int {
	return int(floatOf(values, key, float64(def)))
}

func boolOf(values map[string]string, key string, def bool) bool {
	s, ok := values[key]
	if !ok || s == "" {
		return def
	}
	return s == "1" || strings.EqualFold(s, "true")
}

// parsePerLayerList splits a semicolon-separated list of per-layer
// scalars (e.g. "0.3;0.3;0.3" for three equal-thickness layers).
func parsePerLayerList(s string) []float64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// BuildConfig parses path as an initialization file and assembles a
// driver.Config from it, applying documented defaults for anything
// unset. baseDir is used to resolve relative weather/output/auxiliary
// file paths.
func BuildConfig(path, baseDir string) (driver.Config, error) {
	values, err := initfile.ParseFile(path, allowedKeys)
	if err != nil {
		return driver.Config{}, err
	}
	return buildConfigFromValues(values, baseDir)
}

func buildConfigFromValues(values map[string]string, baseDir string) (driver.Config, error) {
	numLayers := intOf(values, "numlayers", 1)
	thicknesses := parsePerLayerList(values["layerthick"])
	clays := parsePerLayerList(values["layerclay"])
	sands := parsePerLayerList(values["layersand"])
	oms := parsePerLayerList(values["layerom"])
	vwcs := parsePerLayerList(values["layervwc"])

	layers := make([]soilwater.Layer, numLayers)
	for i := range layers {
		layers[i] = soilwater.Layer{
			Thickness: pickOr(thicknesses, i, 0.2),
			Texture: soilwater.Texture{
				ClayPct: pickOr(clays, i, 25),
				SandPct: pickOr(sands, i, 35),
				OMPct:   pickOr(oms, i, 3),
			},
			VWC: pickOr(vwcs, i, -2),
		}
	}

	co2 := floatOf(values, "co2ambient", 400)

	cfg := driver.Config{
		BaseDir:         baseDir,
		WeatherFilePath: values["weatherfile"],
		Seed:            int64(intOf(values, "seed", 0)),
		Meteo: meteo.Config{
			Lat:           floatOf(values, "lat", 0),
			StationHeight: floatOf(values, "methgt", 2),
			Lag:           floatOf(values, "lag", 2),
			Albedo:        floatOf(values, "albedo", 0.23),
			NSets:         intOf(values, "nsets", 365),
		},
		Energy: energy.Config{
			ReferenceHeight: floatOf(values, "refhgt", 20),
			KD:              0.75,
			KZ:              0.1,
			WindExtinction:  floatOf(values, "windext", 2.5),
			EddyExtinction:  floatOf(values, "eddyext", 2.5),
			LeafletLength:   floatOf(values, "leafdim.length", 0.3),
			RstMin:          100,
			LAICeiling:      6,
			GFraction:       0.1,
			KDR:             0.5,
			RssMin:          500,
			RssSlope:        3,
			VPDThreshold:    1.0,
			VPDSlope:        0.2,
			PARHalfSat:      50,
		},
		Photo: photosynthesis.Config{
			QuantumYield:     floatOf(values, "quantum_yield", 0.06),
			Clump:            floatOf(values, "clump", 0.9),
			ParFraction:      0.48,
			LeafScatterCoeff: 0.2,
			SoilReflectance:  0.1,
			CiFraction:       0.7,
			VsMax:            30,
			VcmaxRef:         60, VcmaxEa: 65330,
			KcRef: 40.4, KcEa: 79430,
			KoRef: 24.8, KoEa: 36380,
			GammaStarRef: 3.7, GammaStarEa: 37830,
			AmbientO2:       21,
			PlantingDensity: floatOf(values, "plantdens", 136),
		},
		CO2ByYear: map[float64]float64{1900: co2, 2100: co2},
		Soil: soilwater.Config{
			NumLayers:         numLayers,
			HasWaterTable:     boolOf(values, "has_watertable", false),
			WaterTableDepth:   floatOf(values, "watertabledepth", 2.0),
			RootGrowthRate:    0.005,
			MaxRootDepth:      floatOf(values, "rootdepth", 1.0),
			NumIntervals:      intOf(values, "numintervals", 4),
			InterceptionCoeff: 0.2,
			CriticalFraction:  0.5,
		},
		Layers:           layers,
		Crop:             defaultCropConfig(values),
		PlantingDensity:  floatOf(values, "plantdens", 136),
		QuadratureOrder:  intOf(values, "quadratureorder", 5),
		OutputPath:       values["outputfile"],
		HourlyOutputPath: values["hourlyoutputfile"],
		AuxPath:          values["auxfile"],
		AuxExprs:         splitNonEmpty(values["auxexprs"], ";"),
	}
	return cfg, nil
}

func pickOr(vals []float64, i int, def float64) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return def
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultCropConfig(values map[string]string) crop.Config {
	var cfg crop.Config
	for p := crop.Part(0); p < 7; p++ {
		cfg.Parts[p] = crop.PartParams{
			NContent:      table.MustNew(map[float64]float64{0: 0.02, 10000: 0.02}),
			MaintQ10:      2.0,
			MaintRefTemp:  25,
			MaintCoeff:    0.005,
			PartitionFrac: table.MustNew(map[float64]float64{0: 0.25, 10000: 0.25}),
			ConversionEff: 0.65,
			DeathRate:     table.MustNew(map[float64]float64{0: 0.0002, 10000: 0.0002}),
		}
	}
	cfg.FemaleProb = floatOf(values, "female_prob", 0.6)
	cfg.MaxVDMPerHa = 15000
	cfg.SLAByAge = table.MustNew(map[float64]float64{0: 6, 10000: 6})
	cfg.CanopyHeightOffset = 1.5
	cfg.TrunkHeightPerWeight = 0.002
	cfg.MaleFlowerCells = 20
	cfg.ImmatureBunchCells = 150
	cfg.MatureBunchCells = 10
	cfg.ThinAge = intOf(values, "thinage", 0)
	cfg.ThinPlantDens = floatOf(values, "thinplantdens", 0)
	cfg.BunchDMPerCohort = 15
	return cfg
}
