// Package energy implements the canopy/soil Shuttleworth-Wallace energy
// balance: a six-resistance network between two source nodes (canopy,
// soil) and a reference node aloft, driving canopy temperature and the
// split of latent/sensible heat flux between crop and soil.
package energy

import (
	"math"

	"github.com/spatialmodel/oilpalm/internal/lazy"
	"github.com/spatialmodel/oilpalm/internal/physconst"
	"github.com/spatialmodel/oilpalm/internal/quad"
	"github.com/spatialmodel/oilpalm/internal/simerr"
)

// Config holds the parameters that are fixed for a run (or change slowly,
// e.g. tree height, which the driver refreshes daily from crop state).
type Config struct {
	ReferenceHeight float64 // refhgt, m
	KD              float64 // d = KD * tree height
	KZ              float64 // z0 = KZ * tree height
	WindExtinction  float64 // in-canopy wind extinction coefficient
	EddyExtinction  float64 // in-canopy eddy-diffusivity extinction coefficient
	LeafletLength   float64 // m
	RstMin          float64 // unstressed minimum stomatal resistance, s/m
	LAICeiling      float64 // LAI above which effective LAI saturates
	GFraction       float64 // soil heat flux as a fraction of soil-available energy
	KDR             float64 // Beer's-law extinction coefficient for the available-energy split
	RssMin          float64 // minimum soil-surface resistance, s/m
	RssSlope        float64 // soil-dryness sensitivity of rss
	VPDThreshold    float64 // kPa, above which stomatal closure begins
	VPDSlope        float64 // per-kPa stomatal closure rate above VPDThreshold
	PARHalfSat      float64 // PAR half-saturation constant for the PAR stress function
}

// Flux splits a quantity into crop and soil shares, plus their total.
type Flux struct {
	Total, Crop, Soil float64
}

// Resistances holds the six resistances of the network.
type Resistances struct {
	Rsa, Raa, Rca, Rst, Rcs, Rss float64
}

// Inputs are the external quantities the energy balance needs for one
// hourly step, supplied explicitly by the driver rather than threaded
// through shared mutable state.
type Inputs struct {
	NetRadiation  float64 // W/m^2
	AirTemp       float64 // °C
	VPD           float64 // kPa
	SVPSlope      float64 // kPa/°C
	WindSpeedRef  float64 // m/s at ReferenceHeight
	LAI           float64
	TreeHeight    float64 // m
	SurfaceVWCNorm float64 // top-layer volumetric water content / saturation, [0,1]
	RootZoneWaterStatus float64 // (vwc_root-pwp)/(critical-pwp), clipped [0,1] upstream is not required
	AbsorbedPAR   float64 // W/m^2 absorbed by the canopy, for the stomatal PAR stress function
}

// State holds the resistances, fluxes, and canopy temperature computed by
// the most recent Step, plus the day's accumulated totals.
type State struct {
	cfg Config

	// ustar memoizes the current hour's friction velocity: Step
	// recomputes it at most once per call even though both the Ustar
	// field and computeResistances read it.
	ustar *lazy.Value

	D, Z0   float64
	Ustar   float64
	WindTop float64

	Resistances Resistances
	StressWater, StressVPD, StressPAR float64

	AvailEnergy Flux
	G           float64
	Latent      Flux
	Sensible    Flux
	CanopyTemp  float64

	DailyLatentMM   float64
	DailySensibleMJ float64
}

// NewState constructs an energy-balance state.
func NewState(cfg Config) *State {
	if cfg.LAICeiling <= 0 {
		cfg.LAICeiling = 6
	}
	return &State{cfg: cfg}
}

// Step solves the resistance network and energy balance for one instant,
// storing the result on State. doy/hour are used only to timestamp a
// domain error should one occur.
func (s *State) Step(doy int, hour float64, in Inputs) error {
	h := in.TreeHeight
	if h >= s.cfg.ReferenceHeight {
		return simerr.NewDomain("tree height meets or exceeds reference height; friction velocity undefined", doy, hour)
	}
	s.D = s.cfg.KD * h
	s.Z0 = s.cfg.KZ * h

	var ustarErr error
	s.ustar = lazy.New(func() float64 {
		v, err := frictionVelocity(in.WindSpeedRef, s.cfg.ReferenceHeight, s.D, s.Z0)
		if err != nil {
			ustarErr = err
			return 0
		}
		return v
	})
	s.Ustar = s.ustar.Get()
	if ustarErr != nil {
		return simerr.NewDomain(ustarErr.Error(), doy, hour)
	}
	s.WindTop = windAtCanopyTop(in.WindSpeedRef, s.cfg.ReferenceHeight, s.D, s.Z0, h)

	s.StressWater = stressWater(in.RootZoneWaterStatus)
	s.StressVPD = stressVPD(in.VPD, s.cfg.VPDThreshold, s.cfg.VPDSlope)
	s.StressPAR = stressPAR(in.AbsorbedPAR, s.cfg.PARHalfSat)

	// computeResistances re-reads the memoized friction velocity rather
	// than a plain local, so it never re-evaluates frictionVelocity.
	s.Resistances = computeResistances(s.cfg, in, h, s.ustar.Get(), s.StressWater, s.StressVPD, s.StressPAR)

	soilGross := in.NetRadiation * math.Exp(-s.cfg.KDR*in.LAI)
	cropAvail := in.NetRadiation - soilGross
	g := s.cfg.GFraction * soilGross
	soilNet := soilGross - g
	s.G = g
	s.AvailEnergy = Flux{Total: in.NetRadiation, Crop: cropAvail, Soil: soilNet}

	latent, sensible, err := solveFluxes(in.NetRadiation, cropAvail, soilNet, in.VPD, in.SVPSlope, s.Resistances)
	if err != nil {
		return simerr.NewDomain(err.Error(), doy, hour)
	}
	s.Latent = latent
	s.Sensible = sensible

	s.CanopyTemp = canopyTemperature(in.AirTemp, sensible.Crop, s.Resistances.Rca, s.Resistances.Raa, in.LAI)

	return nil
}

// DailyHeatBalance integrates latent and sensible heat flux across
// daylight hours by n-point Gauss-Legendre quadrature, storing the
// result as DailyLatentMM (mm water/day) and DailySensibleMJ (MJ/m^2/
// day). hourlyInputs must return the Inputs appropriate to an arbitrary
// hour in [sunrise, sunset]. Step runs once per quadrature node (not
// once per integrated quantity), so the State's hourly fields reflect
// the last-evaluated node afterward.
func (s *State) DailyHeatBalance(doy int, sunrise, sunset float64, hourlyInputs func(hour float64) Inputs, n int) error {
	nodes, weights, err := quad.Nodes(sunrise, sunset, n)
	if err != nil {
		return err
	}
	var latentIntegral, sensibleIntegral float64
	for i, hour := range nodes {
		if err := s.Step(doy, hour, hourlyInputs(hour)); err != nil {
			return err
		}
		latentIntegral += weights[i] * s.Latent.Total
		sensibleIntegral += weights[i] * s.Sensible.Total
	}
	s.SetDailyFluxesFromIntegrals(latentIntegral, sensibleIntegral)
	return nil
}

// SetDailyFluxesFromIntegrals converts already quadrature-integrated
// latent and sensible flux sums (W-hour/m^2, hour the integration
// variable) into DailyLatentMM (mm water/day) and DailySensibleMJ
// (MJ/m^2/day). Exposed so a caller that couples the energy balance to
// another component's integration at the same quadrature nodes (see
// driver.Sim.stepDay) can accumulate the sums itself and finish the
// unit conversion here, rather than re-running Step through a second
// DailyHeatBalance call.
func (s *State) SetDailyFluxesFromIntegrals(latentIntegral, sensibleIntegral float64) {
	s.DailyLatentMM = latentIntegral * 3600 / 1e6 / physconst.LatentHeatVaporization
	s.DailySensibleMJ = sensibleIntegral * 3600 / 1e6
}
