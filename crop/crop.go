// Package crop implements daily dry-matter partitioning, maintenance
// respiration, vegetative growth and death, and the flower/bunch boxcar
// cohorts that carry a palm from flowering to harvested yield.
package crop

import (
	"math"
	"math/rand"
	"time"

	"github.com/spatialmodel/oilpalm/internal/table"
)

// Part names the seven tracked plant components.
type Part int

const (
	Pinnae Part = iota
	Rachis
	Trunk
	Roots
	MaleFlowers
	FemaleFlowers
	Bunches
	numParts
)

func (p Part) String() string {
	switch p {
	case Pinnae:
		return "pinnae"
	case Rachis:
		return "rachis"
	case Trunk:
		return "trunk"
	case Roots:
		return "roots"
	case MaleFlowers:
		return "maleflowers"
	case FemaleFlowers:
		return "femaleflowers"
	case Bunches:
		return "bunches"
	default:
		return "unknown"
	}
}

// vegetativeParts are the parts whose partition fractions are normalized
// to sum to 1 in step 4 of the daily update.
var vegetativeParts = [4]Part{Pinnae, Rachis, Trunk, Roots}

// PartParams holds the age-indexed lookups and fixed coefficients for one
// plant part.
type PartParams struct {
	NContent      *table.Table // N content fraction by age (days)
	MaintQ10      float64      // respiration rate multiplier per 10C
	MaintRefTemp  float64      // reference temperature for MaintCoeff, C
	MaintCoeff    float64      // specific maintenance respiration at MaintRefTemp, g CH2O/g DM/day
	PartitionFrac *table.Table // age-indexed partition fraction (vegetative parts only)
	ConversionEff float64      // DM produced per unit CH2O (cvf contribution)
	DeathRate     *table.Table // age-indexed base death rate, fraction/day
}

// PartState is a single plant part's mutable state.
type PartState struct {
	Weight float64 // kg DM/palm
	Growth float64 // kg DM/palm/day, last computed
	Death  float64 // kg DM/palm/day, last computed
	Maint  float64 // kg CH2O/palm/day, last computed
}

// Config holds the parameters fixed for a run.
type Config struct {
	Parts [numParts]PartParams

	FemaleProb        float64      // baseline probability a new cohort is female
	MaxVDMPerHa        float64      // planting-density-specific maximum vegetative DM, kg/ha/year
	SLAByAge          *table.Table // specific leaf area by tree age, m^2/kg
	CanopyHeightOffset float64     // m, added to trunk height for total tree height
	TrunkHeightPerWeight float64   // m per kg trunk weight

	MaleFlowerCells    int // boxcar length, days from initiation to anther dehiscence
	ImmatureBunchCells int // boxcar length, days from pollination to ripening
	MatureBunchCells   int // boxcar length, days ripe bunches remain before harvest

	ThinAge       int     // days; 0 disables thinning
	ThinPlantDens float64 // palms/ha after thinning

	BunchDMPerCohort float64 // kg DM per harvested bunch cohort
}

// FlowerSex is the realized sex of a flower/bunch cohort.
type FlowerSex int

const (
	Female FlowerSex = iota
	Male
	Aborted
)

// State holds the daily crop state.
type State struct {
	cfg Config
	rng *rand.Rand

	TreeAge    int
	PlantDens  float64 // palms/ha, current
	Thinned    bool

	Parts [numParts]PartState

	TrunkHeight float64 // m
	TreeHeight  float64 // m
	VDM         float64 // kg DM/palm, vegetative total (pinnae+rachis+trunk+roots)
	TDM         float64 // kg DM/palm, total across all parts

	VDMDemand float64 // kg DM/palm/day

	AssimTotal     float64 // kg CH2O/palm/day, available today
	AssimMaint     float64
	AssimGrowth    float64
	AssimGenerative float64
	CVF            float64 // weighted mean DM/CH2O conversion factor

	WaterStress float64 // [0,1], from soilwater.Profile.CropStress, feeds death rates

	MaleFlowerBoxcar    *Boxcar
	ImmatureBunchBoxcar *Boxcar
	MatureBunchBoxcar   *Boxcar

	BunchYield float64 // kg DM/palm, cumulative harvested

	LAI float64 // m^2 leaf/m^2 ground, derived from pinnae weight and SLA
}

// NewState constructs a crop state. seed seeds the flower-sex RNG; a
// non-positive seed draws entropy from the runtime instead.
func NewState(cfg Config, seed int64) *State {
	var src rand.Source
	if seed > 0 {
		src = rand.NewSource(seed)
	} else {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &State{
		cfg:                 cfg,
		rng:                 rand.New(src),
		PlantDens:           0,
		MaleFlowerBoxcar:    NewBoxcar(cfg.MaleFlowerCells),
		ImmatureBunchBoxcar: NewBoxcar(cfg.ImmatureBunchCells),
		MatureBunchBoxcar:   NewBoxcar(cfg.MatureBunchCells),
	}
}

// SetPlantingDensity sets the initial (pre-thinning) planting density,
// palms/ha.
func (s *State) SetPlantingDensity(palmsPerHa float64) {
	s.PlantDens = palmsPerHa
}

func q10Factor(tempC, refTemp, q10 float64) float64 {
	return math.Pow(q10, (tempC-refTemp)/10)
}

// maintenanceRespiration is step 1: weight times Q10-adjusted specific
// maintenance coefficient times an age-indexed N-content lookup.
func maintenanceRespiration(weight, tempC float64, age int, p PartParams) float64 {
	if weight <= 0 {
		return 0
	}
	n := 1.0
	if p.NContent != nil {
		n = p.NContent.Val(float64(age))
	}
	return weight * p.MaintCoeff * q10Factor(tempC, p.MaintRefTemp, p.MaintQ10) * n
}

// normalizedPartitionFractions is step 4: age-indexed partition fractions
// for the vegetative parts, normalized to sum to 1.
func normalizedPartitionFractions(age int, cfg Config) map[Part]float64 {
	raw := make(map[Part]float64, len(vegetativeParts))
	total := 0.0
	for _, part := range vegetativeParts {
		f := 0.0
		if tbl := cfg.Parts[part].PartitionFrac; tbl != nil {
			f = math.Max(0, tbl.Val(float64(age)))
		}
		raw[part] = f
		total += f
	}
	if total <= 0 {
		// Degenerate lookup: split evenly rather than dividing by zero.
		even := 1.0 / float64(len(vegetativeParts))
		for _, part := range vegetativeParts {
			raw[part] = even
		}
		return raw
	}
	for _, part := range vegetativeParts {
		raw[part] /= total
	}
	return raw
}

// Step advances the crop state by one day. dailyAssim is the canopy
// assimilation delivered by photosynthesis (kg CH2O/palm), tempC is the
// day's mean canopy temperature (for Q10 maintenance scaling), and
// waterStress is the crop water-stress multiplier from the soil-water
// balance (1 = no stress).
func (s *State) Step(dailyAssim, tempC, waterStress float64) error {
	s.WaterStress = clamp01(waterStress)
	s.AssimTotal = dailyAssim

	// 1-2: maintenance respiration, met first from assimilates, any
	// shortfall reduces the growth pool.
	maintTotal := 0.0
	for part := Part(0); part < numParts; part++ {
		m := maintenanceRespiration(s.Parts[part].Weight, tempC, s.TreeAge, s.cfg.Parts[part])
		s.Parts[part].Maint = m
		maintTotal += m
	}
	s.AssimMaint = maintTotal
	remaining := dailyAssim - maintTotal
	shortfall := 0.0
	if remaining < 0 {
		shortfall = -remaining
		remaining = 0
	}

	// 3: VDM demand from the planting-density-specific annual maximum.
	if s.PlantDens > 0 {
		s.VDMDemand = (s.cfg.MaxVDMPerHa / s.PlantDens) / 365
	}

	// 4: normalized vegetative partition fractions.
	fractions := normalizedPartitionFractions(s.TreeAge, s.cfg)

	// 5: cvf, the partition-weighted mean conversion efficiency.
	cvf := 0.0
	for _, part := range vegetativeParts {
		cvf += fractions[part] * s.cfg.Parts[part].ConversionEff
	}
	s.CVF = cvf

	generative := remaining * s.reproductiveShare()
	growthPool := remaining - generative
	growthPool = math.Max(0, growthPool-shortfall)
	s.AssimGrowth = growthPool
	s.AssimGenerative = generative

	// 6: growth and death rates per vegetative part.
	for _, part := range vegetativeParts {
		growth := fractions[part] * growthPool * cvf
		death := 0.0
		if tbl := s.cfg.Parts[part].DeathRate; tbl != nil {
			base := tbl.Val(float64(s.TreeAge))
			death = base * (1 + (1 - s.WaterStress))
		}
		s.Parts[part].Growth = growth
		s.Parts[part].Death = death * s.Parts[part].Weight
	}

	s.updateVegWeights()
	s.updateGenWeights(generative)
	if err := s.advanceCohorts(); err != nil {
		return err
	}

	s.TrunkHeight = s.cfg.TrunkHeightPerWeight * s.Parts[Trunk].Weight
	s.TreeHeight = s.TrunkHeight + s.cfg.CanopyHeightOffset

	s.recomputeTotals()
	s.applyThinningIfDue()
	s.recomputeLAI()

	s.TreeAge++
	return nil
}

// recomputeLAI derives per-ground-area leaf area index from pinnae dry
// weight, an age-indexed specific leaf area lookup, and the current
// planting density.
func (s *State) recomputeLAI() {
	if s.cfg.SLAByAge == nil || s.PlantDens <= 0 {
		s.LAI = 0
		return
	}
	sla := s.cfg.SLAByAge.Val(float64(s.TreeAge))
	palmsPerM2 := s.PlantDens / 10000
	s.LAI = s.Parts[Pinnae].Weight * sla * palmsPerM2
}

// reproductiveShare is the fraction of post-maintenance assimilates
// routed to the generative (flower/bunch) pool; a simple age-ramped
// share reflecting increasing reproductive allocation as the palm
// matures, capped well below 1 so vegetative growth never starves.
func (s *State) reproductiveShare() float64 {
	if s.TreeAge < 365*3 {
		return 0
	}
	share := float64(s.TreeAge-365*3) / float64(365*5)
	return clamp01(share) * 0.6
}

func (s *State) updateVegWeights() {
	for _, part := range vegetativeParts {
		p := &s.Parts[part]
		p.Weight += p.Growth - p.Death
		if p.Weight < 0 {
			p.Weight = 0
		}
	}
}

func (s *State) updateGenWeights(generative float64) {
	if generative <= 0 {
		return
	}
	s.Parts[MaleFlowers].Weight += generative * 0.3
	s.Parts[FemaleFlowers].Weight += generative * 0.3
	s.Parts[Bunches].Weight += generative * 0.4
}

func (s *State) recomputeTotals() {
	vdm := 0.0
	for _, part := range vegetativeParts {
		vdm += s.Parts[part].Weight
	}
	s.VDM = vdm
	tdm := vdm
	for _, part := range []Part{MaleFlowers, FemaleFlowers, Bunches} {
		tdm += s.Parts[part].Weight
	}
	s.TDM = tdm
}

// applyThinningIfDue implements step 9: once treeage crosses thinage,
// plantdens drops to thinplantdens. Per-palm weights are unaffected;
// only area-scaled quantities derived from PlantDens change downstream.
func (s *State) applyThinningIfDue() {
	if s.Thinned || s.cfg.ThinAge <= 0 {
		return
	}
	if s.TreeAge >= s.cfg.ThinAge {
		s.PlantDens = s.cfg.ThinPlantDens
		s.Thinned = true
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
