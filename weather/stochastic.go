package weather

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mathrand "math/rand"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// MonthParams holds the parameters of the stochastic weather generator for
// a single calendar month: a two-state wet/dry Markov chain, a gamma rainfall
// amount, a seasonal temperature curve with wet/dry means, and a Weibull
// wind-speed distribution.
type MonthParams struct {
	Pww, Pwd         float64 // P(wet|wet), P(wet|dry)
	GammaShape       float64
	GammaScale       float64
	TempMean         float64
	TempAmp          float64
	TempCV           float64
	TempAmpCV        float64
	TempMeanWet      float64
	WindWeibullShape float64
	WindWeibullScale float64
}

// monthLengths are the non-leap-year month lengths used to map
// day-of-year to a month index. Month 0 is January throughout.
var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// MonthOf returns the 0-based month index (0 = January) for a 1-based
// day-of-year.
func MonthOf(doy int) int {
	d := doy
	for m, days := range monthLengths {
		if d <= days {
			return m
		}
		d -= days
	}
	return 11
}

// StochasticGenerator samples daily rain/temperature/wind records from
// fitted monthly distributions.
type StochasticGenerator struct {
	Months [12]MonthParams
	NSets  int
	Seed   int64

	rng    *mathrand.Rand
	wasWet bool
	doy    int
	year   int
}

// NewStochasticGenerator builds a generator. If seed > 0, draws are
// reproducible; otherwise the generator is entropy-seeded.
func NewStochasticGenerator(months [12]MonthParams, nsets int, seed int64) *StochasticGenerator {
	return &StochasticGenerator{
		Months: months,
		NSets:  nsets,
		Seed:   seed,
		rng:    mathrand.New(mathrand.NewSource(resolveSeed(seed))),
	}
}

func resolveSeed(seed int64) int64 {
	if seed > 0 {
		return seed
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err == nil {
		return int64(binary.LittleEndian.Uint64(b[:])^uint64(time.Now().UnixNano())) & 0x7fffffffffffffff
	}
	return time.Now().UnixNano()
}

// NextDay samples and returns the next day's record, advancing the
// internal day-of-year counter and wrapping after NSets days.
func (g *StochasticGenerator) NextDay() (Record, error) {
	g.doy++
	if g.doy > g.NSets {
		g.doy = 1
		g.year++
	}
	return g.sample(g.doy), nil
}

func (g *StochasticGenerator) sample(doy int) Record {
	m := g.Months[MonthOf(doy)]

	pWet := m.Pwd
	if g.wasWet {
		pWet = m.Pww
	}
	wet := g.rng.Float64() < pWet
	g.wasWet = wet

	var rain float64
	if wet && m.GammaShape > 0 && m.GammaScale > 0 {
		gammaDist := distuv.Gamma{Alpha: m.GammaShape, Beta: 1 / m.GammaScale, Src: g.rng}
		rain = gammaDist.Rand()
	}

	seasonal := math.Cos(2 * math.Pi * (float64(doy) - 1) / float64(g.NSets))
	mean := m.TempMean + m.TempAmp*seasonal
	if wet {
		mean = m.TempMeanWet + m.TempAmp*seasonal
	}
	cv := m.TempCV + m.TempAmpCV*seasonal
	normalDist := distuv.Normal{Mu: 0, Sigma: 1, Src: g.rng}
	perturbation := normalDist.Rand() * cv * mean

	tmean := mean + perturbation
	spread := math.Abs(m.TempAmp) * 0.3
	if spread <= 0 {
		spread = 2
	}
	tmax := tmean + spread/2
	tmin := tmean - spread/2
	if tmax < tmin {
		tmax, tmin = tmin, tmax
	}

	var wind float64
	if m.WindWeibullShape > 0 && m.WindWeibullScale > 0 {
		windDist := distuv.Weibull{K: m.WindWeibullShape, Lambda: m.WindWeibullScale, Src: g.rng}
		wind = windDist.Rand()
	}

	return Record{
		"rain": rain,
		"tmax": tmax,
		"tmin": tmin,
		"wind": wind,
	}
}
