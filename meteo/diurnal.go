package meteo

import (
	"math"

	"github.com/spatialmodel/oilpalm/internal/physconst"
)

const earlyAfternoonHour = 14.0

// computeInstantaneous derives every quantity that depends on the current
// solar hour: solar position, instantaneous radiation, air temperature,
// humidity, net radiation and wind speed.
func (s *State) computeInstantaneous() {
	lat := s.cfg.Lat * degToRad
	omega := math.Pi / 12 * (s.Hour - 12)
	sinHeight := math.Sin(lat)*math.Sin(s.Declination) + math.Cos(lat)*math.Cos(s.Declination)*math.Cos(omega)
	sinHeight = math.Max(-1, math.Min(1, sinHeight))
	height := math.Asin(sinHeight)
	s.SolarHeight = height
	s.SolarIncidence = math.Pi/2 - height

	if math.Cos(height) > 1e-9 {
		cosAzi := (sinHeight*math.Sin(lat) - math.Sin(s.Declination)) / (math.Cos(height) * math.Cos(lat))
		cosAzi = math.Max(-1, math.Min(1, cosAzi))
		azi := math.Acos(cosAzi)
		if omega < 0 {
			azi = -azi
		}
		s.SolarAzimuth = azi
	} else {
		s.SolarAzimuth = 0
	}

	frac := radiationFraction(s.Hour, s.SunriseHour, s.SunsetHour)
	s.InstET = s.DailyETRadiation * frac
	s.InstTotal = s.DailyTotalRadiation * frac
	if s.DailyTotalRadiation > 0 {
		directShare := s.DailyDirectRadiation / s.DailyTotalRadiation
		s.InstDirect = s.InstTotal * directShare
		s.InstDiffuse = s.InstTotal - s.InstDirect
	}

	s.AirTemp = diurnalCosine(s.Hour, s.SunriseHour, s.cfg.Lag, earlyAfternoonHour, s.Tmin, s.Tmax)
	s.SVP, s.SVPSlope = saturationVaporPressure(s.AirTemp)
	dewSVP, _ := saturationVaporPressure(s.DewTemp)
	s.VP = dewSVP
	s.VPD = math.Max(0, s.SVP-s.VP)
	if s.SVP > 0 {
		s.RH = 100 * s.VP / s.SVP
	}

	s.NetRadiation = netRadiation(s.InstTotal, s.InstET, s.Tmax, s.Tmin, s.VP, s.cfg.Albedo)

	windMinHour := s.SunriseHour - s.cfg.Lag
	s.WindSpeed = windDiurnal(s.Hour, windMinHour, earlyAfternoonHour, s.WindMean)
}

// radiationFraction is the sinusoidal diurnal distribution of a daily
// radiation total across daylight hours, normalized so that its integral
// over [sunrise, sunset] equals 1.
func radiationFraction(hour, sunrise, sunset float64) float64 {
	if hour < sunrise || hour > sunset {
		return 0
	}
	length := sunset - sunrise
	if length <= 0 {
		return 0
	}
	return (math.Pi / (2 * length)) * math.Sin(math.Pi*(hour-sunrise)/length)
}

// diurnalCosine interpolates a quantity between a minimum (at
// sunrise+lag) and a maximum (at peakHour) with a cosine curve, and back
// down to the following day's minimum.
func diurnalCosine(hour, sunrise, lag, peakHour, vmin, vmax float64) float64 {
	minHour := sunrise + lag
	if minHour >= peakHour {
		peakHour = minHour + 1
	}
	if hour >= minHour && hour <= peakHour {
		f := (hour - minHour) / (peakHour - minHour)
		return vmin + (vmax-vmin)*(1-math.Cos(math.Pi*f))/2
	}
	h := hour
	if hour < minHour {
		h += 24
	}
	span := (minHour + 24) - peakHour
	f := (h - peakHour) / span
	return vmin + (vmax-vmin)*(1+math.Cos(math.Pi*f))/2
}

// windDiurnal is the same cosine shape as diurnalCosine but parameterised
// by a daily mean rather than explicit min/max, since wind is reported as a
// single daily figure.
func windDiurnal(hour, minHour, peakHour, mean float64) float64 {
	const amplitudeFraction = 0.5
	vmin := mean * (1 - amplitudeFraction)
	vmax := mean * (1 + amplitudeFraction)
	return diurnalCosine(hour, minHour, 0, peakHour, vmin, vmax)
}

// saturationVaporPressure returns the Tetens-form saturation vapour
// pressure (kPa) at air temperature t (°C) and its slope (kPa/°C).
func saturationVaporPressure(t float64) (es, slope float64) {
	es = 0.6108 * math.Exp(17.27*t/(t+237.3))
	slope = 4098 * es / ((t + 237.3) * (t + 237.3))
	return
}

// netRadiation combines the shortwave balance (albedo reflection) with an
// empirical long-wave balance parameterised by actual vapour pressure and
// air temperature extremes, following the FAO-56 form.
func netRadiation(rs, ra, tmax, tmin, vp, albedo float64) float64 {
	rns := (1 - albedo) * rs
	if ra <= 0 {
		return rns
	}
	tmaxK := tmax + physconst.KelvinOffset
	tminK := tmin + physconst.KelvinOffset
	rso := 0.75 * ra
	ratio := 1.0
	if rso > 0 {
		ratio = math.Max(0.3, math.Min(1.0, rs/rso))
	}
	rnl := physconst.StefanBoltzmann * 86400 / 1e6 *
		(math.Pow(tmaxK, 4)+math.Pow(tminK, 4))/2 *
		(0.34 - 0.14*math.Sqrt(math.Max(0, vp))) *
		(1.35*ratio - 0.35)
	return rns - rnl
}
