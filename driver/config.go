// Package driver composes the weather, meteorology, soil-water,
// photosynthesis, energy-balance, and crop components into a single
// daily (and, within a day, hourly) simulation loop, and owns output
// writing.
package driver

import (
	"github.com/spatialmodel/oilpalm/crop"
	"github.com/spatialmodel/oilpalm/energy"
	"github.com/spatialmodel/oilpalm/internal/table"
	"github.com/spatialmodel/oilpalm/meteo"
	"github.com/spatialmodel/oilpalm/photosynthesis"
	"github.com/spatialmodel/oilpalm/soilwater"
	"github.com/spatialmodel/oilpalm/weather"
)

// Config holds every parameter needed to construct a Sim. BaseDir is the
// explicit directory every file-opening operation resolves relative to
// (replacing a global file-path-prefix variable with plain configuration
// threaded through the driver).
type Config struct {
	BaseDir string

	WeatherFilePath string          // non-empty selects a file-backed weather source
	StochasticMonths [12]weather.MonthParams
	Seed            int64

	Meteo   meteo.Config
	Energy  energy.Config
	Photo   photosynthesis.Config
	CO2ByYear map[float64]float64
	Soil    soilwater.Config
	Layers  []soilwater.Layer
	Crop    crop.Config

	PlantingDensity float64 // palms/ha at t=0

	// QuadratureOrder is the Gauss-Legendre quadrature order (number of
	// nodes in [1,9]) used to integrate the coupled energy balance and
	// canopy assimilation across daylight hours. Defaults to 5.
	QuadratureOrder int

	OutputPath       string   // daily output CSV; empty disables
	HourlyOutputPath string   // per-quadrature-node output CSV; empty disables
	AuxPath          string   // auxiliary dotted-path dump; empty disables
	AuxExprs         []string // dotted-path expressions for the auxiliary dump
}

// BuildWeatherSource constructs the weather.Source cfg describes,
// without building the rest of a Sim. Used by callers that only need a
// weather record stream, e.g. to summarize a record before committing
// to a full run.
func (cfg Config) BuildWeatherSource() (weather.Source, error) {
	return buildWeatherSource(cfg)
}

// buildWeatherSource constructs the configured weather.Source: a file
// reader when WeatherFilePath is set, otherwise a stochastic generator
// parameterised by StochasticMonths and seeded from Seed.
func buildWeatherSource(cfg Config) (weather.Source, error) {
	if cfg.WeatherFilePath != "" {
		fr := weather.NewFileReader(cfg.Meteo.NSets)
		if err := fr.Load(resolvePath(cfg.BaseDir, cfg.WeatherFilePath)); err != nil {
			return nil, err
		}
		return fr, nil
	}
	nsets := cfg.Meteo.NSets
	if nsets <= 0 {
		nsets = 365
	}
	return weather.NewStochasticGenerator(cfg.StochasticMonths, nsets, cfg.Seed), nil
}

func buildCO2Table(byYear map[float64]float64) (*table.Table, error) {
	if len(byYear) == 0 {
		byYear = map[float64]float64{1900: 350, 2100: 450}
	}
	return table.New(byYear)
}
