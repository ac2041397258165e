// Package weather implements the per-day weather record set and its two
// source variants: a cyclic file-backed reader and a stochastic generator.
package weather

import "github.com/spatialmodel/oilpalm/internal/simerr"

// Record is one day's weather fields, e.g. "tmin", "tmax", "wind", "rain",
// "sunhr".
type Record map[string]float64

// Annual is an ordered, keyed per-day record set for one year.
type Annual struct {
	// NSets is the number of records in the set, typically 365.
	NSets int
	// KeyFields names the fields tagged for lookup (e.g. during matching
	// against a stochastic draw or an observational record).
	KeyFields []string

	records []Record
}

// NewAnnual builds an Annual table from nsets records, recorded in ordinal
// order starting at day-of-year 1.
func NewAnnual(nsets int, keyFields []string) *Annual {
	return &Annual{
		NSets:     nsets,
		KeyFields: keyFields,
		records:   make([]Record, nsets),
	}
}

// Set stores the record for the given 1-based day-of-year.
func (a *Annual) Set(doy int, r Record) error {
	if doy < 1 || doy > a.NSets {
		return simerr.NewInput("day-of-year out of range for annual weather table", nil)
	}
	a.records[doy-1] = r
	return nil
}

// Get returns the record for the given 1-based day-of-year.
func (a *Annual) Get(doy int) (Record, error) {
	if doy < 1 || doy > a.NSets {
		return nil, simerr.NewInput("day-of-year out of range for annual weather table", nil)
	}
	if a.records[doy-1] == nil {
		return nil, simerr.NewInput("no weather record loaded for requested day-of-year", nil)
	}
	return a.records[doy-1], nil
}
