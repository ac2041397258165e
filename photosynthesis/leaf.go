package photosynthesis

import (
	"math"

	"github.com/spatialmodel/oilpalm/internal/physconst"
)

// kdrFromElevation is the direct-beam canopy extinction coefficient for a
// spherical leaf-angle distribution (mean projection coefficient 0.5).
func kdrFromElevation(solarHeight float64) float64 {
	s := math.Sin(solarHeight)
	if s < 0.01 {
		s = 0.01
	}
	return 0.5 / s
}

// reflectionCoefficients returns the canopy reflection coefficients for
// direct-beam (pdr) and diffuse (pdf) PAR, following Goudriaan's
// horizontal-leaf reflection coefficient construction.
func reflectionCoefficients(scatter, kdr float64) (pdr, pdf float64) {
	sqrtOneMinusScatter := math.Sqrt(1 - scatter)
	rhoHorizontal := (1 - sqrtOneMinusScatter) / (1 + sqrtOneMinusScatter)
	pdr = 1 - math.Exp(-2*rhoHorizontal*kdr/(1+kdr))
	pdf = rhoHorizontal
	return
}

// absorbedPAR decomposes incoming direct and diffuse PAR into the flux
// density absorbed per unit leaf area by sunlit and shaded leaves: shaded
// leaves receive the diffuse flux less its canopy reflection (pdf),
// attenuated with kdf and averaged over the canopy depth; sunlit leaves
// receive that plus the direct beam less its leaf-scattered share.
// Scattered direct-beam radiation is not added to either class, and kdr
// and pdr do not enter the result.
func absorbedPAR(parDirect, parDiffuse, kdr, kdf, pdr, pdf, lai, scatter float64) (sunlit, shaded float64) {
	meanDiffuseTransmittance := 1.0
	if kdf*lai > 1e-9 {
		meanDiffuseTransmittance = (1 - math.Exp(-kdf*lai)) / (kdf * lai)
	}
	shaded = parDiffuse * (1 - pdf) * kdf * meanDiffuseTransmittance
	sunlit = shaded + parDirect*(1-scatter)
	return
}

// arrhenius evaluates a temperature-dependent biochemical rate constant at
// leaf/canopy temperature tempC, referenced to its value at 25C.
func arrhenius(refAt25, activationEnergy, tempC float64) float64 {
	tK := tempC + physconst.KelvinOffset
	tRefK := 25 + physconst.KelvinOffset
	return refAt25 * math.Exp(activationEnergy*(tK-tRefK)/(tRefK*physconst.GasConstant*tK))
}

// leafCoefficients returns the temperature-corrected Kc, Ko, Vcmax and
// Gamma* (CO2 compensation point) at canopy temperature.
func leafCoefficients(tempC float64, cfg Config) (kc, ko, vcmax, gammaStar float64) {
	kc = arrhenius(cfg.KcRef, cfg.KcEa, tempC)
	ko = arrhenius(cfg.KoRef, cfg.KoEa, tempC)
	vcmax = arrhenius(cfg.VcmaxRef, cfg.VcmaxEa, tempC)
	gammaStar = arrhenius(cfg.GammaStarRef, cfg.GammaStarEa, tempC)
	return
}

// internalCO2 is a fixed fraction of ambient CO2, with a small temperature
// correction reflecting higher stomatal conductance demand at warmer leaf
// temperatures.
func internalCO2(ambient, fraction, tempC float64) float64 {
	correction := 1 + 0.001*(tempC-25)
	return ambient * fraction * correction
}

// leafAssimilation is the classic Farquhar three-way minimum: Rubisco
// (Vc), light (Vq), and sink (Vs) limited rates.
func leafAssimilation(vcmax, kc, ko, gammaStar, ci, o2, quantumYield, absorbedPAR, vsMax float64) float64 {
	if ci <= gammaStar {
		return 0
	}
	vc := vcmax * (ci - gammaStar) / (ci + kc*(1+o2/ko))
	vq := quantumYield * absorbedPAR * (ci - gammaStar) / (ci + 2*gammaStar)
	return math.Max(0, math.Min(vc, math.Min(vq, vsMax)))
}
