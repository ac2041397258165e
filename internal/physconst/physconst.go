// Package physconst collects the physical constants shared across the
// meteorology, energy-balance, and photosynthesis packages as bare float
// constants, plus one github.com/ctessum/unit wrapper
// (LatentHeatOfVaporization).
package physconst

import "github.com/ctessum/unit"

const (
	// VonKarman is the von Kármán constant used in the log-law wind
	// profile (energy balance).
	VonKarman = 0.4

	// StefanBoltzmann is the Stefan-Boltzmann constant, W/(m^2 K^4).
	StefanBoltzmann = 5.670374419e-8

	// SolarConstant is the mean solar constant at the top of the
	// atmosphere, MJ/(m^2 day), before the eccentricity correction.
	SolarConstant = 118.11

	// SpecificHeatAir is the specific heat of air at constant pressure,
	// J/(kg K).
	SpecificHeatAir = 1013.0

	// AirDensity is a reference air density, kg/m^3.
	AirDensity = 1.204

	// LatentHeatVaporization is the latent heat of vaporization of water
	// at ~25C, MJ/kg.
	LatentHeatVaporization = 2.45

	// MolarMassCH2O is the molar mass of a CH2O equivalent unit, g/mol.
	MolarMassCH2O = 30.0

	// GasConstant is the universal gas constant, J/(mol K).
	GasConstant = 8.314

	// KelvinOffset converts degrees Celsius to Kelvin.
	KelvinOffset = 273.15

	// PsychrometricConstant relates a wet-bulb depression to vapour
	// pressure deficit, kPa/°C, at standard atmospheric pressure.
	PsychrometricConstant = 0.0665

	// MJPerHourToWatts converts a flux expressed in MJ/(m^2 hour) to
	// W/m^2.
	MJPerHourToWatts = 1e6 / 3600.0
)

// LatentHeatOfVaporization wraps the LatentHeatVaporization value (the
// MJ/kg figure) in a *unit.Unit. It is created with empty dimensions, so
// it carries no MJ/kg dimension information.
var LatentHeatOfVaporization = unit.New(LatentHeatVaporization, unit.Dimensions{})
