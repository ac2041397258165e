// Package soilwater implements a layered soil-water balance: explicit
// sub-daily vertical flux integration between an arena of soil layers
// addressed by index (rather than a pointer graph), root-zone water
// status tracking, and crop/soil-evaporation water stress functions.
package soilwater

import (
	"math"

	"github.com/spatialmodel/oilpalm/internal/simerr"
)

// Fluxes accumulates a layer's water movement over the current day:
// crop uptake (T), direct soil evaporation (E, surface layer only), the
// influx from the layer above (or rainfall/irrigation for the surface
// layer), the outflux to the layer below (or deep drainage/runoff for
// the bottom layer), and the resulting net change.
type Fluxes struct {
	T, E, Influx, Outflux, NetFlux float64
}

// Layer is one soil layer in the profile arena.
type Layer struct {
	Thickness    float64 // m
	AccThickness float64 // cumulative thickness from the surface to the bottom of this layer, m
	Texture      Texture
	Characteristics
	VWC         float64 // current volumetric water content, m^3/m^3
	Ksat        float64 // saturated conductivity, m/day (cached from Characteristics)
	KCurrent    float64 // unsaturated conductivity at the current VWC, m/day
	MatricHead  float64 // m, negative = suction
	GravityHead float64 // m, depth of the layer midpoint below the surface
	TotalHead   float64 // MatricHead - GravityHead
	Fluxes      Fluxes
}

// RootZone aggregates water status over the current rooting depth.
type RootZone struct {
	Current    float64 // current root-zone water content, m^3/m^3, thickness-weighted
	Critical   float64 // water content below which crop water stress begins
	Saturation float64
	FC         float64
	PWP        float64
}

// Config holds the parameters fixed for a run.
type Config struct {
	NumLayers         int
	HasWaterTable     bool
	WaterTableDepth   float64 // m below the surface
	RootGrowthRate    float64 // m/day
	MaxRootDepth      float64 // m
	NumIntervals      int     // sub-daily integration steps
	InterceptionCoeff float64 // canopy rainfall interception per unit LAI, mm per LAI unit
	CriticalFraction  float64 // fraction of (Sat-PWP) above PWP at which crop stress begins
}

// Profile is the soil-water arena: a single slice of layers addressed by
// index, replacing a pointer-linked graph of neighboring cells.
type Profile struct {
	cfg    Config
	layers []Layer

	RootDepth        float64
	RootZone         RootZone
	DeepDrainage     float64
	Runoff           float64
	WaterTableInflux float64
}

// NewProfile builds a Profile from the given layers (top to bottom).
// Characteristics left zero-valued (Sat == 0) are derived from Texture.
// VWC values in [-3,-1] are resolved onto the SAT(-3)/FC(-2)/PWP(-1)
// scale via linear interpolation; non-negative VWC values are used as
// given.
func NewProfile(cfg Config, layers []Layer) (*Profile, error) {
	if len(layers) == 0 {
		return nil, simerr.NewInput("a soil profile needs at least one layer", nil)
	}
	acc := 0.0
	for i := range layers {
		l := &layers[i]
		if l.Thickness <= 0 {
			return nil, simerr.NewInput("layer thickness must be positive", nil)
		}
		if l.Characteristics.Sat == 0 {
			l.Characteristics = DeriveCharacteristics(l.Texture)
		}
		l.Ksat = l.Characteristics.Ksat
		l.VWC = resolveInitialVWC(l.VWC, l.Characteristics)
		acc += l.Thickness
		l.AccThickness = acc
		l.GravityHead = acc - l.Thickness/2
	}
	p := &Profile{cfg: cfg, layers: layers}
	p.recomputeHeadsAndConductivities()
	p.updateRootZone()
	return p, nil
}

// NumLayers reports the number of layers in the arena.
func (p *Profile) NumLayers() int { return len(p.layers) }

// Layer returns a copy of the layer at index i. Returns a zero Layer and
// false if i is out of range.
func (p *Profile) Layer(i int) (Layer, bool) {
	if i < 0 || i >= len(p.layers) {
		return Layer{}, false
	}
	return p.layers[i], true
}

func (p *Profile) totalDepth() float64 {
	return p.layers[len(p.layers)-1].AccThickness
}

// NetRainfall subtracts canopy interception (proportional to LAI) from
// gross rainfall, floored at zero.
func (p *Profile) NetRainfall(rain, lai float64) float64 {
	net := rain - p.cfg.InterceptionCoeff*lai
	if net < 0 {
		return 0
	}
	return net
}

// AdvanceRootDepth grows the rooting depth linearly, capped at the
// configured maximum or the bottom of the profile, whichever is
// shallower.
func (p *Profile) AdvanceRootDepth() {
	limit := math.Min(p.cfg.MaxRootDepth, p.totalDepth())
	p.RootDepth += p.cfg.RootGrowthRate
	if p.RootDepth > limit {
		p.RootDepth = limit
	}
	p.updateRootZone()
}

// rootZoneShares returns, for each layer, the thickness of that layer
// lying within the current rooting depth.
func (p *Profile) rootZoneShares() []float64 {
	shares := make([]float64, len(p.layers))
	top := 0.0
	for i, l := range p.layers {
		bottom := l.AccThickness
		overlap := math.Min(bottom, p.RootDepth) - top
		if overlap < 0 {
			overlap = 0
		}
		shares[i] = overlap
		top = bottom
	}
	return shares
}

func (p *Profile) updateRootZone() {
	shares := p.rootZoneShares()
	var weightedVWC, weightedSat, weightedFC, weightedPWP, totalThickness float64
	for i, l := range p.layers {
		w := shares[i]
		weightedVWC += w * l.VWC
		weightedSat += w * l.Sat
		weightedFC += w * l.FC
		weightedPWP += w * l.PWP
		totalThickness += w
	}
	if totalThickness <= 0 {
		p.RootZone = RootZone{}
		return
	}
	p.RootZone.Current = weightedVWC / totalThickness
	p.RootZone.Saturation = weightedSat / totalThickness
	p.RootZone.FC = weightedFC / totalThickness
	p.RootZone.PWP = weightedPWP / totalThickness
	p.RootZone.Critical = p.RootZone.PWP + p.cfg.CriticalFraction*(p.RootZone.Saturation-p.RootZone.PWP)
}

// CropStress is the ET-reduction multiplier in [0,1] applied to
// potential transpiration as root-zone water falls below the critical
// content, reaching zero at the wilting point.
func (p *Profile) CropStress() float64 {
	rz := p.RootZone
	if rz.Current >= rz.Critical {
		return 1
	}
	if rz.Critical <= rz.PWP {
		return 0
	}
	stress := (rz.Current - rz.PWP) / (rz.Critical - rz.PWP)
	return clamp(stress, 0, 1)
}

// SoilEvapStress is the ET-reduction multiplier in [0,1] applied to
// potential direct soil evaporation, based on the surface layer's water
// content relative to field capacity and the wilting point.
func (p *Profile) SoilEvapStress() float64 {
	top := p.layers[0]
	if top.FC <= top.PWP {
		return 0
	}
	stress := (top.VWC - top.PWP) / (top.FC - top.PWP)
	return clamp(stress, 0, 1)
}

func (p *Profile) recomputeHeadsAndConductivities() {
	for i := range p.layers {
		l := &p.layers[i]
		l.MatricHead = matricHead(l.VWC, l.Characteristics)
		l.TotalHead = l.MatricHead - l.GravityHead
		l.KCurrent = hydraulicConductivity(l.VWC, l.Characteristics)
	}
}

func (p *Profile) waterTableInflux() float64 {
	if !p.cfg.HasWaterTable {
		return 0
	}
	bottom := p.layers[len(p.layers)-1]
	headDiff := -p.cfg.WaterTableDepth - bottom.TotalHead
	if headDiff <= 0 {
		return 0
	}
	return bottom.KCurrent * headDiff / (bottom.Thickness / 2)
}

func geomean(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return math.Sqrt(a * b)
}

// DailyStep integrates the soil-water balance over one day by explicit
// sub-step (forward Euler) integration of Darcy flux between adjacent
// layers, with rainfall entering the top, crop transpiration withdrawn
// proportionally across the rooted layers, and direct soil evaporation
// withdrawn from the surface layer only. Values are daily totals, mm.
func (p *Profile) DailyStep(netRainfallMM, totalTranspirationMM, soilEvaporationMM float64) error {
	n := p.cfg.NumIntervals
	if n <= 0 {
		n = 1
	}
	dt := 1.0 / float64(n)

	rainPerStep := netRainfallMM / 1000 / float64(n) // mm -> m
	transpPerStep := totalTranspirationMM / 1000 / float64(n)
	evapPerStep := soilEvaporationMM / 1000 / float64(n)

	for i := range p.layers {
		p.layers[i].Fluxes = Fluxes{}
	}
	p.WaterTableInflux = 0

	shares := p.rootZoneShares()
	shareTotal := 0.0
	for _, s := range shares {
		shareTotal += s
	}

	for step := 0; step < n; step++ {
		p.recomputeHeadsAndConductivities()
		waterTableFlux := p.waterTableInflux()
		p.WaterTableInflux += waterTableFlux * dt * 1000 // m -> mm

		nLayers := len(p.layers)
		interflux := make([]float64, nLayers-1)
		for i := 0; i < nLayers-1; i++ {
			upper, lower := p.layers[i], p.layers[i+1]
			k := geomean(upper.KCurrent, lower.KCurrent)
			dist := (upper.Thickness + lower.Thickness) / 2
			interflux[i] = k * (upper.TotalHead - lower.TotalHead) / dist
		}

		for i := range p.layers {
			l := &p.layers[i]

			influx := 0.0
			if i == 0 {
				influx = rainPerStep
			} else {
				influx = interflux[i-1] * dt
			}

			outflux := 0.0
			if i < nLayers-1 {
				outflux = interflux[i] * dt
			} else {
				if p.cfg.HasWaterTable {
					influx += waterTableFlux * dt
				} else {
					outflux = l.KCurrent * dt
				}
			}

			transp := 0.0
			if shareTotal > 0 {
				transp = transpPerStep * (shares[i] / shareTotal)
			}
			evap := 0.0
			if i == 0 {
				evap = evapPerStep
			}

			netDepth := influx - outflux - transp - evap
			l.VWC += netDepth / l.Thickness

			l.Fluxes.T += transp
			l.Fluxes.E += evap
			l.Fluxes.Influx += influx
			l.Fluxes.Outflux += outflux
			l.Fluxes.NetFlux += netDepth
		}
	}

	runoff, percolation, err := p.postStepClamp()
	if err != nil {
		return err
	}
	p.DeepDrainage = percolation
	p.Runoff = runoff
	p.recomputeHeadsAndConductivities()
	p.updateRootZone()
	return nil
}

// postStepClamp restores each layer's water content to [PWP, Sat] after
// the explicit sub-step integration, pushing any excess above Sat down
// into the next layer (or off the top as runoff, or off the bottom as
// deep percolation), and borrowing any deficit below PWP from the layer
// above if it has spare water to give. A deficit with no layer able to
// supply it is a state error.
func (p *Profile) postStepClamp() (runoff, percolation float64, err error) {
	n := len(p.layers)

	for i := 0; i < n; i++ {
		l := &p.layers[i]
		if l.VWC <= l.Sat {
			continue
		}
		excess := (l.VWC - l.Sat) * l.Thickness
		l.VWC = l.Sat
		switch {
		case i == 0:
			runoff += excess * 1000 // m -> mm
		case i+1 < n:
			p.layers[i+1].VWC += excess / p.layers[i+1].Thickness
		default:
			percolation += excess * 1000
		}
	}

	for i := 0; i < n; i++ {
		l := &p.layers[i]
		if l.VWC >= l.PWP {
			continue
		}
		deficit := (l.PWP - l.VWC) * l.Thickness
		borrowed := false
		for j := i - 1; j >= 0 && deficit > 1e-12; j-- {
			donor := &p.layers[j]
			available := (donor.VWC - donor.PWP) * donor.Thickness
			if available <= 0 {
				continue
			}
			take := math.Min(available, deficit)
			donor.VWC -= take / donor.Thickness
			deficit -= take
			borrowed = true
		}
		if deficit > 1e-9 && !borrowed {
			return 0, percolation, simerr.NewState("layer water content fell below the wilting point with no water available to borrow")
		}
		l.VWC = l.PWP
	}

	return runoff, percolation, nil
}
