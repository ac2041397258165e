package energy

import (
	"math"

	"github.com/spatialmodel/oilpalm/internal/physconst"
	"gonum.org/v1/gonum/mat"
)

// rhoCp is a reference volumetric heat capacity of air, J/(m^3 K).
const rhoCp = physconst.AirDensity * physconst.SpecificHeatAir

// solveFluxes implements the Shuttleworth-Wallace combination: each
// "potential" flux PMc (canopy) and PMs (soil) is the solution of a
// decoupled linear equation in the six resistances, available energy and
// VPD; the two are then weighted by network coefficients Cc, Cs to give
// the actual crop/soil latent heat split, and sensible heat follows from
// energy closure.
func solveFluxes(totalAvail, cropAvail, soilAvail, vpd, slope float64, r Resistances) (latent, sensible Flux, err error) {
	gamma := physconst.PsychrometricConstant

	a11 := slope + gamma*(1+r.Rcs/(r.Raa+r.Rca))
	a22 := slope + gamma*(1+r.Rss/(r.Raa+r.Rsa))
	b1 := slope*totalAvail + (rhoCp*vpd-slope*r.Rca*soilAvail)/(r.Raa+r.Rca)
	b2 := slope*totalAvail + (rhoCp*vpd-slope*r.Rsa*cropAvail)/(r.Raa+r.Rsa)

	pmc, pms := solve2x2Diagonal(a11, a22, b1, b2)

	raPrime := (slope + gamma) * r.Raa
	rc := (slope+gamma)*r.Raa + gamma*r.Rcs
	rs := (slope+gamma)*r.Raa + gamma*r.Rss

	cc := 1 / (1 + rc*raPrime/(rs*(rc+raPrime)))
	cs := 1 / (1 + rs*raPrime/(rc*(rs+raPrime)))

	latentCrop := cc * pmc
	latentSoil := cs * pms
	if math.IsInf(r.Rcs, 1) || r.Rcs > 1e12 {
		latentCrop = 0
	}

	latent = Flux{Total: latentCrop + latentSoil, Crop: latentCrop, Soil: latentSoil}
	sensible = Flux{
		Crop:  cropAvail - latentCrop,
		Soil:  soilAvail - latentSoil,
		Total: (cropAvail + soilAvail) - latent.Total,
	}
	return latent, sensible, nil
}

// solve2x2Diagonal solves the diagonal system [[a11,0],[0,a22]]·x = [b1,b2]
// using gonum/mat, falling back to direct Cramer's-rule division if the
// matrix is singular or near-singular (e.g. a11 or a22 collapses to 0,
// which can happen when both the SVP slope and psychrometric constant are
// negligible at very low temperature).
func solve2x2Diagonal(a11, a22, b1, b2 float64) (x1, x2 float64) {
	A := mat.NewDense(2, 2, []float64{a11, 0, 0, a22})
	b := mat.NewVecDense(2, []float64{b1, b2})
	var x mat.VecDense
	if err := x.SolveVec(A, b); err != nil {
		det := a11 * a22
		if det == 0 {
			return 0, 0
		}
		return b1 / a11, b2 / a22
	}
	return x.AtVec(0), x.AtVec(1)
}

// canopyTemperature recovers canopy temperature from sensible heat flux
// and the canopy-to-reference resistance path, bounded to a plausible
// band around air temperature so that a near-zero LAI (rca, rcs near
// infinite) cannot make the estimate diverge.
func canopyTemperature(airTemp, hCrop, rca, raa, lai float64) float64 {
	if lai <= 1e-6 {
		return airTemp
	}
	denom := rca + raa
	if denom <= 0 || math.IsInf(denom, 1) {
		return airTemp
	}
	tc := airTemp + hCrop*denom/rhoCp
	const band = 15.0
	if tc > airTemp+band {
		tc = airTemp + band
	}
	if tc < airTemp-band {
		tc = airTemp - band
	}
	return tc
}
