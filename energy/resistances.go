package energy

import (
	"errors"
	"math"

	"github.com/spatialmodel/oilpalm/internal/physconst"
)

// frictionVelocity returns ustar from the log-law wind profile. Callers
// must ensure refHeight > d+z0 (tree height below reference height);
// Step checks the weaker, simpler tree-height condition before calling.
func frictionVelocity(windRef, refHeight, d, z0 float64) (float64, error) {
	denom := math.Log((refHeight - d) / z0)
	if denom <= 0 {
		return 0, errors.New("friction velocity undefined: reference height too close to displacement+roughness height")
	}
	return physconst.VonKarman * windRef / denom, nil
}

// windAtCanopyTop extrapolates the reference-height wind speed down to
// canopy-top height using the same log law.
func windAtCanopyTop(windRef, refHeight, d, z0, h float64) float64 {
	num := math.Log((h - d) / z0)
	denom := math.Log((refHeight - d) / z0)
	if denom == 0 || h <= d {
		return windRef
	}
	return windRef * num / denom
}

// stressWater is the water-stress multiplier on stomatal resistance: 1
// above the critical root-zone water status, falling linearly to 0 at the
// permanent wilting point.
func stressWater(status float64) float64 {
	if status < 0 {
		return 0
	}
	if status > 1 {
		return 1
	}
	return status
}

// stressVPD closes stomata above a threshold vapour-pressure deficit.
func stressVPD(vpd, threshold, slope float64) float64 {
	if vpd <= threshold {
		return 1
	}
	v := 1 - slope*(vpd-threshold)
	if v < 0 {
		return 0
	}
	return v
}

// stressPAR is a saturating (Michaelis-Menten) increasing function of
// absorbed PAR.
func stressPAR(par, halfSat float64) float64 {
	if par <= 0 {
		return 0
	}
	if halfSat <= 0 {
		return 1
	}
	return par / (par + halfSat)
}

// computeResistances derives the six resistances of the network for the
// current hour.
func computeResistances(cfg Config, in Inputs, h, ustar, stressWaterV, stressVPDV, stressPARV float64) Resistances {
	d := cfg.KD * h
	kh := physconst.VonKarman * ustar * math.Max(h-d, 1e-6)

	raa := math.Log((cfg.ReferenceHeight-d)/(h-d))/(physconst.VonKarman*ustar) +
		h/(cfg.EddyExtinction*kh)*(math.Exp(cfg.EddyExtinction)-1)

	const soilRoughnessFraction = 0.01 // soil roughness length as a fraction of canopy height
	rsa := (h * math.Exp(cfg.EddyExtinction) / (cfg.EddyExtinction * kh)) *
		(math.Exp(-cfg.EddyExtinction*soilRoughnessFraction) - math.Exp(-cfg.EddyExtinction))

	uh := windAtCanopyTop(in.WindSpeedRef, cfg.ReferenceHeight, d, cfg.KZ*h, h)
	uh = math.Max(uh, 0.1)
	rbLeaf := 100 * math.Sqrt(cfg.LeafletLength/uh)
	lai := math.Max(in.LAI, 1e-6)
	rca := rbLeaf / (2 * lai) * cfg.WindExtinction / (1 - math.Exp(-cfg.WindExtinction/2))

	rss := cfg.RssMin * math.Exp(cfg.RssSlope*(1-in.SurfaceVWCNorm))

	stressProduct := stressWaterV * stressVPDV * stressPARV
	var rst float64
	if stressProduct <= 0 {
		rst = math.Inf(1)
	} else {
		rst = cfg.RstMin / stressProduct
	}

	laiEff := math.Min(in.LAI, cfg.LAICeiling)
	var rcs float64
	if laiEff <= 0 {
		rcs = math.Inf(1)
	} else {
		rcs = rst / laiEff
	}

	return Resistances{Rsa: rsa, Raa: raa, Rca: rca, Rst: rst, Rcs: rcs, Rss: rss}
}
