package meteo

import (
	"math"

	"github.com/spatialmodel/oilpalm/internal/physconst"
	"github.com/spatialmodel/oilpalm/weather"
)

const degToRad = math.Pi / 180

// computeDaily derives every quantity that is fixed for the whole day:
// solar geometry, extraterrestrial radiation, and the direct/diffuse split
// of the day's total radiation.
func (s *State) computeDaily(rec weather.Record) {
	lat := s.cfg.Lat * degToRad
	s.Declination = declination(s.DOY)
	s.SunriseHour, s.SunsetHour, s.DayLength = sunTimes(lat, s.Declination)
	s.SolarConstantCorrected = solarConstant(s.DOY)
	s.DailyETRadiation = etRadiationDaily(lat, s.Declination, s.DOY)

	rs, ok := rec["srad"]
	if !ok {
		sunHr, ok := rec["sunhr"]
		if !ok {
			sunHr = 0.5 * s.DayLength
		}
		rs = angstromPrescott(sunHr, s.DayLength, s.DailyETRadiation)
	}
	s.DailyTotalRadiation = rs

	transmission := 0.0
	if s.DailyETRadiation > 0 {
		transmission = rs / s.DailyETRadiation
	}
	diffuseFrac := diffuseFraction(transmission)
	s.DailyDiffuseRadiation = diffuseFrac * rs
	s.DailyDirectRadiation = rs - s.DailyDiffuseRadiation
}

// declination returns the solar declination (radians) for a 1-based
// day-of-year, using the FAO-56 approximation.
func declination(doy int) float64 {
	return 0.4093 * math.Sin(2*math.Pi/365*float64(doy)-1.405)
}

// sunTimes returns sunrise and sunset local solar hours (symmetric about
// 12.0) and the resulting day length, for latitude and declination in
// radians. Polar day/night are clamped rather than producing a domain
// error, since they are a legitimate boundary condition at high latitude.
func sunTimes(lat, decl float64) (sunrise, sunset, dayLength float64) {
	cosHs := -math.Tan(lat) * math.Tan(decl)
	switch {
	case cosHs <= -1:
		// polar day: sun never sets
		return 0, 24, 24
	case cosHs >= 1:
		// polar night: sun never rises
		return 12, 12, 0
	}
	omegaS := math.Acos(cosHs)
	halfDay := omegaS * 12 / math.Pi
	sunrise = 12 - halfDay
	sunset = 12 + halfDay
	dayLength = sunset - sunrise
	return
}

// eccentricity returns the inverse-square-distance correction factor for
// Earth's orbit at the given day-of-year.
func eccentricity(doy int) float64 {
	return 1 + 0.033*math.Cos(2*math.Pi/365*float64(doy))
}

// solarConstant returns the solar constant (MJ/m^2/day) corrected for
// Earth-orbit eccentricity at the given day-of-year.
func solarConstant(doy int) float64 {
	return physconst.SolarConstant * eccentricity(doy)
}

// etRadiationDaily is the FAO-56 closed-form daily extraterrestrial
// radiation (MJ/m^2/day): the integral of the cosine of the solar zenith
// angle across the day.
func etRadiationDaily(lat, decl float64, doy int) float64 {
	cosHs := -math.Tan(lat) * math.Tan(decl)
	cosHs = math.Max(-1, math.Min(1, cosHs))
	omegaS := math.Acos(cosHs)
	dr := eccentricity(doy)
	return (24 * 60 / math.Pi) * 0.0820 * dr *
		(omegaS*math.Sin(lat)*math.Sin(decl) + math.Cos(lat)*math.Cos(decl)*math.Sin(omegaS))
}

// angstromPrescott estimates daily total solar radiation (MJ/m^2/day) from
// sunshine-hour duration, day length, and extraterrestrial radiation.
func angstromPrescott(sunHr, dayLength, ra float64) float64 {
	if dayLength <= 0 {
		return 0
	}
	const as, bs = 0.25, 0.50
	n := math.Max(0, math.Min(sunHr, dayLength))
	return (as + bs*n/dayLength) * ra
}

// diffuseFraction is the Erbs correlation for the diffuse fraction of daily
// total radiation as a function of atmospheric transmission (daily
// total / daily extraterrestrial radiation).
func diffuseFraction(kt float64) float64 {
	switch {
	case kt <= 0.22:
		return 1 - 0.09*kt
	case kt <= 0.80:
		return 0.9511 - 0.1604*kt + 4.388*kt*kt - 16.638*kt*kt*kt + 12.336*kt*kt*kt*kt
	default:
		return 0.165
	}
}
