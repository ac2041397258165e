// Package meteo tracks per-day and per-hour meteorological quantities
// (solar geometry, radiation, temperature, humidity, wind) driven by an
// underlying weather.Source.
package meteo

import (
	"github.com/spatialmodel/oilpalm/internal/simerr"
	"github.com/spatialmodel/oilpalm/weather"
)

// Config holds the site parameters that do not change during a run.
type Config struct {
	Lat           float64 // site latitude, degrees (+N, -S)
	StationHeight float64 // weather-station measurement height, m
	Lag           float64 // hours between sunrise and the daily temperature/wind minimum
	Albedo        float64 // surface albedo used in the net-radiation balance
	NSets         int     // records per year in the underlying annual table, typically 365
}

// State holds the daily and instantaneous meteorological quantities
// derived from Config and the current (DOY, hour).
type State struct {
	cfg    Config
	source weather.Source

	DOY  int
	Year int
	Hour float64

	// Daily quantities, fixed once per NextDay.
	Declination           float64
	SunriseHour           float64
	SunsetHour            float64
	DayLength             float64
	SolarConstantCorrected float64
	DailyETRadiation      float64
	DailyTotalRadiation   float64
	DailyDirectRadiation  float64
	DailyDiffuseRadiation float64
	Tmin, Tmax            float64
	WindMean              float64
	Rain                  float64
	DewTemp               float64

	// Instantaneous quantities, refreshed on each SetHour.
	SolarIncidence                            float64
	SolarHeight                               float64
	SolarAzimuth                              float64
	InstET, InstTotal, InstDirect, InstDiffuse float64
	AirTemp                                   float64
	SVP, SVPSlope                             float64
	VP, VPD, RH                               float64
	NetRadiation                              float64
	WindSpeed                                 float64

	hooks []func()
}

// NewState constructs a meteorology state driven by source. Call NextDay at
// least once before SetHour.
func NewState(cfg Config, source weather.Source) *State {
	if cfg.NSets <= 0 {
		cfg.NSets = 365
	}
	if cfg.Albedo <= 0 {
		cfg.Albedo = 0.23
	}
	return &State{cfg: cfg, source: source}
}

// RegisterDOYChanged registers fn to be called after every successful
// NextDay, once daily quantities have been recomputed. Order of invocation
// matches registration order.
func (s *State) RegisterDOYChanged(fn func()) {
	s.hooks = append(s.hooks, fn)
}

// NextDay pulls the next weather record, advances DOY (wrapping into a new
// year at NSets), recomputes the day's fixed quantities, and runs the
// registered DOY-changed hooks.
func (s *State) NextDay() error {
	rec, err := s.source.NextDay()
	if err != nil {
		return err
	}
	s.DOY++
	if s.DOY > s.cfg.NSets {
		s.DOY = 1
		s.Year++
	}
	s.applyRecord(rec)
	s.computeDaily(rec)
	for _, h := range s.hooks {
		h()
	}
	return nil
}

func (s *State) applyRecord(rec weather.Record) {
	s.Tmin = rec["tmin"]
	s.Tmax = rec["tmax"]
	s.WindMean = rec["wind"]
	s.Rain = rec["rain"]
	if dt, ok := rec["tdew"]; ok {
		s.DewTemp = dt
	} else {
		s.DewTemp = s.Tmin
	}
}

// SetHour recomputes every instantaneous quantity for the given local solar
// hour in [0, 24). It requires at least one prior NextDay call.
func (s *State) SetHour(hour float64) error {
	if hour < 0 || hour >= 24 {
		return simerr.NewDomain("solar hour out of range [0,24)", s.DOY, hour)
	}
	s.Hour = hour
	s.computeInstantaneous()
	return nil
}
