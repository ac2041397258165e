package soilwater

import "math"

// Texture is the per-layer soil texture fed to the pedotransfer functions.
type Texture struct {
	ClayPct, SandPct, OMPct float64
}

// Characteristics are the soil-water characteristics derived from texture:
// saturation, field capacity and wilting point water contents, the
// Brooks-Corey pore-size-distribution index and air-entry head, total
// porosity, and saturated hydraulic conductivity.
type Characteristics struct {
	Sat, FC, PWP float64
	PSD          float64 // Brooks-Corey pore-size distribution index (lambda)
	Porosity     float64
	AirEntry     float64 // m of water head (magnitude)
	Ksat         float64 // m/day
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

// DeriveCharacteristics implements a Saxton-Rawls-style pedotransfer
// function: simplified regressions of clay/sand/organic-matter fraction
// against the soil-water characteristics, preserving the expected
// monotonic trends (more clay raises water-holding capacity and lowers
// conductivity; more sand does the reverse).
func DeriveCharacteristics(t Texture) Characteristics {
	clay := t.ClayPct / 100
	sand := t.SandPct / 100
	om := t.OMPct / 100

	pwp := clamp(0.024+0.39*clay+0.01*om, 0.02, 0.40)
	fc := clamp(0.20+0.25*clay-0.15*sand+0.02*om, pwp+0.05, 0.50)
	porosity := clamp(fc+0.08+0.05*om-0.03*sand, fc+0.05, 0.60)
	psd := clamp(0.15+0.25*sand-0.10*clay, 0.05, 0.70)
	airEntry := clamp(0.5+3.0*clay-1.5*sand, 0.05, 5.0)
	ksat := clamp(5.0*math.Exp(-8*clay)*math.Exp(4*sand), 1e-4, 10.0)

	return Characteristics{
		Sat:      porosity,
		FC:       fc,
		PWP:      pwp,
		PSD:      psd,
		Porosity: porosity,
		AirEntry: airEntry,
		Ksat:     ksat,
	}
}

// matricHead is the Brooks-Corey matric head (m, negative = suction) at
// the given volumetric water content.
func matricHead(vwc float64, c Characteristics) float64 {
	if vwc >= c.Sat {
		return 0
	}
	ratio := vwc / c.Sat
	if ratio < 1e-3 {
		ratio = 1e-3
	}
	return -c.AirEntry * math.Pow(ratio, -1/c.PSD)
}

// hydraulicConductivity is the Brooks-Corey unsaturated conductivity at
// the given volumetric water content.
func hydraulicConductivity(vwc float64, c Characteristics) float64 {
	if vwc >= c.Sat {
		return c.Ksat
	}
	ratio := clamp(vwc/c.Sat, 1e-3, 1)
	return c.Ksat * math.Pow(ratio, 3+2/c.PSD)
}

// resolveInitialVWC interprets a negative initial water content as a
// position on the [-3,-1] SAT-FC-PWP scale (-1 = PWP, -2 = FC, -3 = SAT,
// with linear interpolation between), leaving non-negative values
// unchanged.
func resolveInitialVWC(v float64, c Characteristics) float64 {
	if v >= 0 {
		return v
	}
	switch {
	case v >= -1:
		return c.PWP
	case v >= -2:
		f := -(v + 1)
		return c.PWP + f*(c.FC-c.PWP)
	case v >= -3:
		f := -(v + 2)
		return c.FC + f*(c.Sat-c.FC)
	default:
		return c.Sat
	}
}
