package driver

import (
	"context"
	"math"
	"path/filepath"

	"github.com/spatialmodel/oilpalm/crop"
	"github.com/spatialmodel/oilpalm/energy"
	"github.com/spatialmodel/oilpalm/internal/quad"
	"github.com/spatialmodel/oilpalm/meteo"
	"github.com/spatialmodel/oilpalm/photosynthesis"
	"github.com/spatialmodel/oilpalm/soilwater"
	"github.com/spatialmodel/oilpalm/weather"
)

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Sim composes one weather source with the meteorology, soil-water,
// photosynthesis, energy-balance and crop components, and advances them
// together one day at a time.
type Sim struct {
	cfg Config

	Weather weather.Source
	Meteo   *meteo.State
	Soil    *soilwater.Profile
	Photo   *photosynthesis.State
	Energy  *energy.State
	Crop    *crop.State

	out       *Outputter
	hourlyOut *HourlyOutputter
	aux       *AuxWriter

	Day int

	DailyLatentMM   float64
	DailySensibleMJ float64
	DailyAssim      float64 // umol CO2/m^2/s, daily-mean instantaneous canopy assimilation
}

// NewSim constructs every component per cfg and wires the cross-package
// hooks: meteorology's DOY-changed hook resets photosynthesis's ambient
// CO2 for the new year.
func NewSim(cfg Config) (*Sim, error) {
	source, err := buildWeatherSource(cfg)
	if err != nil {
		return nil, err
	}

	co2Table, err := buildCO2Table(cfg.CO2ByYear)
	if err != nil {
		return nil, err
	}

	soilProfile, err := soilwater.NewProfile(cfg.Soil, cfg.Layers)
	if err != nil {
		return nil, err
	}

	s := &Sim{
		cfg:     cfg,
		Weather: source,
		Meteo:   meteo.NewState(cfg.Meteo, source),
		Soil:    soilProfile,
		Photo:   photosynthesis.NewState(cfg.Photo, co2Table),
		Energy:  energy.NewState(cfg.Energy),
		Crop:    crop.NewState(cfg.Crop, cfg.Seed),
	}
	s.Crop.SetPlantingDensity(cfg.PlantingDensity)

	s.Meteo.RegisterDOYChanged(func() {
		s.Photo.ResetAmbientCO2(s.Meteo.Year)
	})

	if cfg.OutputPath != "" {
		out, err := NewOutputter(resolvePath(cfg.BaseDir, cfg.OutputPath))
		if err != nil {
			return nil, err
		}
		s.out = out
	}
	if cfg.HourlyOutputPath != "" {
		hourlyOut, err := NewHourlyOutputter(resolvePath(cfg.BaseDir, cfg.HourlyOutputPath))
		if err != nil {
			return nil, err
		}
		s.hourlyOut = hourlyOut
	}
	if cfg.AuxPath != "" && len(cfg.AuxExprs) > 0 {
		aux, err := NewAuxWriter(resolvePath(cfg.BaseDir, cfg.AuxPath), cfg.AuxExprs)
		if err != nil {
			return nil, err
		}
		s.aux = aux
	}

	return s, nil
}

// Close releases any open output files. Safe to call on a Sim with no
// output configured.
func (s *Sim) Close() error {
	var firstErr error
	if s.out != nil {
		if err := s.out.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.hourlyOut != nil {
		if err := s.hourlyOut.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.aux != nil {
		if err := s.aux.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run advances the simulation for the given number of days, checking
// ctx for cancellation between days (never mid-step). Output rows, when
// configured, are written once per day.
func (s *Sim) Run(ctx context.Context, days int) error {
	defer s.Close()
	for d := 0; d < days; d++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.stepDay(); err != nil {
			return err
		}
		s.Day++
	}
	return nil
}

// hourlySolarHeight approximates solar elevation as a smooth function of
// hour within [sunrise, sunset], peaking at local solar noon; used only
// to seed the diffuse-fraction precompute before the hourly loop sets
// the meteorology state's true solar geometry.
func hourlySolarHeight(sunrise, sunset float64) func(hour float64) float64 {
	return func(hour float64) float64 {
		if sunset <= sunrise {
			return -1
		}
		frac := (hour - sunrise) / (sunset - sunrise)
		return math.Sin(math.Pi * frac)
	}
}

// stepDay advances every component through one simulated day: pull the
// next weather record, grow roots, run the coupled hourly loop, then
// let the crop consume the day's assimilate and stress.
func (s *Sim) stepDay() error {
	if err := s.Meteo.NextDay(); err != nil {
		return err
	}
	s.Soil.AdvanceRootDepth()

	sunrise, sunset := s.Meteo.SunriseHour, s.Meteo.SunsetHour

	order := s.cfg.QuadratureOrder
	if order <= 0 {
		order = 5
	}

	if err := s.Photo.SetDailyImmutables(s.Crop.LAI, hourlySolarHeight(sunrise, sunset), sunrise, sunset, order); err != nil {
		return err
	}

	var latentIntegral, sensibleIntegral, assimIntegral float64
	if sunset > sunrise {
		nodes, weights, err := quad.Nodes(sunrise, sunset, order)
		if err != nil {
			return err
		}
		for i, hour := range nodes {
			if err := s.Meteo.SetHour(hour); err != nil {
				return err
			}

			in := energy.Inputs{
				NetRadiation:        s.Meteo.NetRadiation,
				AirTemp:             s.Meteo.AirTemp,
				VPD:                 s.Meteo.VPD,
				SVPSlope:            s.Meteo.SVPSlope,
				WindSpeedRef:        s.Meteo.WindSpeed,
				LAI:                 s.Crop.LAI,
				TreeHeight:          s.Crop.TreeHeight,
				SurfaceVWCNorm:      s.surfaceVWCNorm(),
				RootZoneWaterStatus: s.Soil.CropStress(),
				AbsorbedPAR:         s.Meteo.InstTotal * 0.48,
			}
			// Energy and photosynthesis are evaluated at the same
			// Gauss-Legendre node in a single pass, since photosynthesis
			// needs this hour's canopy temperature from the energy
			// balance: running two independent quadrature integrations
			// would either decouple them or double the Step calls.
			if err := s.Energy.Step(s.Meteo.DOY, hour, in); err != nil {
				return err
			}

			directFraction := 0.0
			if s.Meteo.InstTotal > 0 {
				directFraction = s.Meteo.InstDirect / s.Meteo.InstTotal
			}
			s.Photo.Step(s.Energy.CanopyTemp, s.Meteo.SolarHeight, s.Meteo.InstTotal, directFraction)

			latentIntegral += weights[i] * s.Energy.Latent.Total
			sensibleIntegral += weights[i] * s.Energy.Sensible.Total
			assimIntegral += weights[i] * s.Photo.InstCanopyAssim

			if s.hourlyOut != nil {
				if err := s.hourlyOut.WriteHour(s, hour); err != nil {
					return err
				}
			}
		}
	}

	s.Energy.SetDailyFluxesFromIntegrals(latentIntegral, sensibleIntegral)
	s.Photo.SetDailyAssimFromIntegral(assimIntegral)

	s.DailyLatentMM = s.Energy.DailyLatentMM
	s.DailySensibleMJ = s.Energy.DailySensibleMJ
	s.DailyAssim = assimIntegral / math.Max(1e-9, sunset-sunrise)

	netRain := s.Soil.NetRainfall(s.Meteo.Rain, s.Crop.LAI)
	transpMM := s.DailyLatentMM * s.Soil.CropStress()
	evapMM := s.DailyLatentMM * s.Soil.SoilEvapStress() * 0.2
	if err := s.Soil.DailyStep(netRain, transpMM, evapMM); err != nil {
		return err
	}

	if err := s.Crop.Step(s.Photo.DailyAssimKgPerPalm, s.Meteo.AirTemp, s.Soil.CropStress()); err != nil {
		return err
	}

	if s.out != nil {
		if err := s.out.WriteDay(s); err != nil {
			return err
		}
	}
	if s.aux != nil {
		if err := s.aux.WriteDay(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sim) surfaceVWCNorm() float64 {
	l, ok := s.Soil.Layer(0)
	if !ok || l.Sat <= 0 {
		return 0
	}
	return clamp(l.VWC/l.Sat, 0, 1)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

