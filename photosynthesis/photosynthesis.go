// Package photosynthesis implements canopy-geometry PAR interception and
// a Farquhar-style sunlit/shaded leaf assimilation model, integrated to a
// daily canopy carbon gain.
package photosynthesis

import (
	"math"

	"github.com/spatialmodel/oilpalm/internal/physconst"
	"github.com/spatialmodel/oilpalm/internal/quad"
	"github.com/spatialmodel/oilpalm/internal/table"
)

// Config holds the parameters fixed for a run.
type Config struct {
	QuantumYield     float64 // mol electron equivalent per mol absorbed PAR
	Clump            float64 // canopy clumping factor
	ParFraction      float64 // fraction of total solar radiation that is PAR
	LeafScatterCoeff float64 // leaf scattering coefficient for PAR
	SoilReflectance  float64 // soil background PAR reflectance
	CiFraction       float64 // internal CO2 as a fixed fraction of ambient
	VsMax            float64 // sink-limited assimilation ceiling, umol/m^2/s

	VcmaxRef, KcRef, KoRef, GammaStarRef float64 // reference values at 25C
	VcmaxEa, KcEa, KoEa, GammaStarEa     float64 // Arrhenius activation energies, J/mol

	AmbientO2       float64 // kPa
	PlantingDensity float64 // palms/ha
}

// State holds the daily and instantaneous photosynthesis quantities.
type State struct {
	cfg      Config
	co2Table *table.Table

	AmbientCO2  float64
	InternalCO2 float64

	LAI float64
	Kdf float64 // diffuse extinction coefficient, fixed once per day

	Kdr                                 float64
	Gap                                 float64
	SunlitLAI, ShadedLAI                float64
	Pdr, Pdf                            float64
	PARDirect, PARDiffuse               float64
	PARAbsorbedSunlit, PARAbsorbedShaded float64
	Kc, Ko, Vcmax, GammaStar            float64
	AssimSunlit, AssimShaded            float64
	InstCanopyAssim                     float64

	DailyAssimKgPerPalm float64
}

// NewState constructs a photosynthesis state. co2Table maps year to ambient
// CO2 concentration (ppm), linearly interpolated/extrapolated.
func NewState(cfg Config, co2Table *table.Table) *State {
	return &State{cfg: cfg, co2Table: co2Table}
}

// ResetAmbientCO2 looks up the ambient CO2 concentration for year. It is
// meant to be wired as a meteorology DOY-changed hook so it runs once per
// simulated day.
func (s *State) ResetAmbientCO2(year int) {
	s.AmbientCO2 = s.co2Table.Val(float64(year))
}

// SetDailyImmutables freezes the quantities constant within a day: the
// current LAI and the diffuse extinction coefficient Kdf, the latter
// computed as the mean of the instantaneous direct extinction coefficient
// across daylight hours by n-point Gauss-Legendre quadrature.
func (s *State) SetDailyImmutables(lai float64, solarHeight func(hour float64) float64, sunrise, sunset float64, n int) error {
	s.LAI = lai
	if sunset <= sunrise {
		s.Kdf = 0
		return nil
	}
	integral, err := quad.Integrate(func(hour float64) float64 {
		return kdrFromElevation(solarHeight(hour))
	}, sunrise, sunset, n)
	if err != nil {
		return err
	}
	s.Kdf = integral / (sunset - sunrise)
	return nil
}

// Step recomputes every instantaneous quantity for the given hour: canopy
// geometry, PAR interception, leaf biochemistry, and net leaf/canopy
// assimilation. solarHeight is the solar elevation angle in radians;
// instTotalRadiation is the instantaneous total solar radiation (W/m^2)
// and directFraction is its direct-beam share, both from meteorology.
func (s *State) Step(canopyTemp, solarHeight, instTotalRadiation, directFraction float64) {
	if math.Sin(solarHeight) <= 0 {
		s.Kdr, s.Gap = 0, 1
		s.SunlitLAI, s.ShadedLAI = 0, s.LAI
		s.PARDirect, s.PARDiffuse = 0, 0
		s.PARAbsorbedSunlit, s.PARAbsorbedShaded = 0, 0
		s.AssimSunlit, s.AssimShaded = 0, 0
		s.InstCanopyAssim = 0
		return
	}

	s.Kdr = kdrFromElevation(solarHeight)
	s.Gap = math.Exp(-s.Kdr * s.LAI / s.cfg.Clump)

	sunlit := 0.0
	if s.Kdr > 0 {
		sunlit = (1 - math.Exp(-s.Kdr*s.LAI)) / s.Kdr
	}
	s.SunlitLAI = math.Min(sunlit, s.LAI)
	s.ShadedLAI = s.LAI - s.SunlitLAI

	s.Pdr, s.Pdf = reflectionCoefficients(s.cfg.LeafScatterCoeff, s.Kdr)

	parTotal := s.cfg.ParFraction * instTotalRadiation
	s.PARDirect = parTotal * directFraction
	s.PARDiffuse = parTotal - s.PARDirect

	s.PARAbsorbedSunlit, s.PARAbsorbedShaded = absorbedPAR(
		s.PARDirect, s.PARDiffuse, s.Kdr, s.Kdf, s.Pdr, s.Pdf, s.LAI, s.cfg.LeafScatterCoeff)

	s.Kc, s.Ko, s.Vcmax, s.GammaStar = leafCoefficients(canopyTemp, s.cfg)
	s.InternalCO2 = internalCO2(s.AmbientCO2, s.cfg.CiFraction, canopyTemp)

	s.AssimSunlit = leafAssimilation(s.Vcmax, s.Kc, s.Ko, s.GammaStar, s.InternalCO2, s.cfg.AmbientO2,
		s.cfg.QuantumYield, s.PARAbsorbedSunlit, s.cfg.VsMax)
	s.AssimShaded = leafAssimilation(s.Vcmax, s.Kc, s.Ko, s.GammaStar, s.InternalCO2, s.cfg.AmbientO2,
		s.cfg.QuantumYield, s.PARAbsorbedShaded, s.cfg.VsMax)

	s.InstCanopyAssim = s.SunlitLAI*s.AssimSunlit + s.ShadedLAI*s.AssimShaded
}

// DailyAssimilation integrates instantaneous canopy assimilation (expected
// in umol CO2/m^2 ground/s) across daylight by n-point Gauss-Legendre
// quadrature and converts the result to kg CH2O per palm per day, storing
// it as DailyAssimKgPerPalm.
func (s *State) DailyAssimilation(sunrise, sunset float64, hourly func(hour float64) float64, n int) error {
	integral, err := quad.Integrate(hourly, sunrise, sunset, n)
	if err != nil {
		return err
	}
	s.SetDailyAssimFromIntegral(integral)
	return nil
}

// SetDailyAssimFromIntegral converts an already quadrature-integrated
// instantaneous canopy assimilation sum (umol CO2/m^2 ground, integrated
// over hours of daylight) into kg CH2O per palm per day. Exposed so a
// caller that couples photosynthesis to another component's integration
// at the same quadrature nodes (see driver.Sim.stepDay) can accumulate
// the sum itself and finish the unit conversion here, rather than
// re-running Step through a second DailyAssimilation call.
func (s *State) SetDailyAssimFromIntegral(integral float64) {
	molPerM2Day := integral * 3600 * 1e-6 // umol/m^2/s integrated over hours -> mol/m^2/day
	gramsPerM2Day := molPerM2Day * physconst.MolarMassCH2O
	kgPerM2Day := gramsPerM2Day / 1000
	density := s.cfg.PlantingDensity / 10000 // palms/ha -> palms/m^2
	if density <= 0 {
		s.DailyAssimKgPerPalm = 0
		return
	}
	s.DailyAssimKgPerPalm = kgPerM2Day / density
}
