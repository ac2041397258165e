package crop

import "github.com/spatialmodel/oilpalm/internal/simerr"

// Cohort is one cell of a flower/bunch boxcar: a group of flowers or
// bunches initiated on the same day, carried as a single unit.
type Cohort struct {
	Sex    FlowerSex
	DM     float64 // kg DM represented by this cohort
	AgeDay int     // days since initiation
}

// Boxcar is a fixed-length ordered sequence of cohorts. Index 0 is the
// head (most recently initiated); the last index is the tail (next to
// leave). It replaces an explicit ring-buffer or linked-list cohort
// structure with a plain slice shifted one position per Advance.
type Boxcar struct {
	cells []Cohort
}

// NewBoxcar builds an empty boxcar of the given length.
func NewBoxcar(length int) *Boxcar {
	if length < 0 {
		length = 0
	}
	return &Boxcar{cells: make([]Cohort, length)}
}

// Len reports the boxcar's fixed length.
func (b *Boxcar) Len() int { return len(b.cells) }

// Head returns the cohort at the head (most recently initiated).
func (b *Boxcar) Head() (Cohort, bool) {
	if len(b.cells) == 0 {
		return Cohort{}, false
	}
	return b.cells[0], true
}

// Tail returns the cohort about to leave the boxcar.
func (b *Boxcar) Tail() (Cohort, bool) {
	if len(b.cells) == 0 {
		return Cohort{}, false
	}
	return b.cells[len(b.cells)-1], true
}

// Advance shifts every cohort one cell toward the tail, ages each by one
// day, inserts incoming at the head, and returns the cohort evicted from
// the tail. Calling Advance on a zero-length boxcar is an error.
func (b *Boxcar) Advance(incoming Cohort) (Cohort, error) {
	if len(b.cells) == 0 {
		return Cohort{}, simerr.NewBoxcar("cannot advance a zero-length boxcar")
	}
	evicted := b.cells[len(b.cells)-1]
	for i := len(b.cells) - 1; i > 0; i-- {
		b.cells[i] = b.cells[i-1]
		b.cells[i].AgeDay++
	}
	incoming.AgeDay = 0
	b.cells[0] = incoming
	return evicted, nil
}

// decideFlowerSex draws a new cohort's sex. The realized female
// probability is femaleProb scaled by water-stress status; draws that
// would have gone female absent stress are first marked Aborted, then
// converted to Male, since an aborted flower develops as a male flower
// rather than vanishing.
func (s *State) decideFlowerSex() FlowerSex {
	realizedFemaleProb := s.cfg.FemaleProb * s.WaterStress
	draw := s.rng.Float64()

	var sex FlowerSex
	switch {
	case draw < realizedFemaleProb:
		sex = Female
	case draw < s.cfg.FemaleProb:
		sex = Aborted
	default:
		sex = Male
	}
	if sex == Aborted {
		sex = Male
	}
	return sex
}

// advanceCohorts implements step 7: a new cohort enters the male-flower
// boxcar head each day; cohorts leaving the immature-bunch tail enter
// the mature-bunch head; cohorts leaving the mature-bunch tail are
// harvested into BunchYield.
func (s *State) advanceCohorts() error {
	sex := s.decideFlowerSex()
	newMale := Cohort{Sex: sex, DM: s.cfg.BunchDMPerCohort * 0.1}

	evictedMale, err := s.MaleFlowerBoxcar.Advance(newMale)
	if err != nil {
		return err
	}

	incomingImmature := Cohort{Sex: evictedMale.Sex, DM: evictedMale.DM}
	if evictedMale.Sex != Female {
		incomingImmature.DM = 0
	}
	evictedImmature, err := s.ImmatureBunchBoxcar.Advance(incomingImmature)
	if err != nil {
		return err
	}

	evictedMature, err := s.MatureBunchBoxcar.Advance(evictedImmature)
	if err != nil {
		return err
	}

	if evictedMature.Sex == Female && evictedMature.DM > 0 {
		s.BunchYield += evictedMature.DM
		s.Parts[Bunches].Weight -= evictedMature.DM
		if s.Parts[Bunches].Weight < 0 {
			s.Parts[Bunches].Weight = 0
		}
	}
	return nil
}
