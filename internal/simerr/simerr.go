// Package simerr defines the error kinds raised by the oil-palm simulation
// engine: input errors, numerical-domain errors, quadrature/lookup errors,
// boxcar errors, and state-violation errors.
package simerr

import "fmt"

// InputError signals a problem with an initialization file, weather file,
// or configuration value. Callers should treat it as fatal with exit code 2.
type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oilpalm: input error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("oilpalm: input error: %s", e.Msg)
}

func (e *InputError) Unwrap() error { return e.Err }

// NewInput wraps err (which may be nil) as an InputError.
func NewInput(msg string, err error) error {
	return &InputError{Msg: msg, Err: err}
}

// DomainError signals a numerical-domain problem, such as a friction
// velocity that is undefined because the reference height does not clear
// the canopy. It carries the (DOY, hour) timestamp at which it occurred.
type DomainError struct {
	Msg       string
	DOY       int
	Hour      float64
	Recovered bool
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("oilpalm: numerical domain error at doy=%d hour=%.2f: %s", e.DOY, e.Hour, e.Msg)
}

// NewDomain creates a DomainError at the given timestamp.
func NewDomain(msg string, doy int, hour float64) error {
	return &DomainError{Msg: msg, DOY: doy, Hour: hour}
}

// LookupError signals an empty lookup table or an out-of-range quadrature
// order. It is always fatal.
type LookupError struct {
	Msg string
}

func (e *LookupError) Error() string { return fmt.Sprintf("oilpalm: lookup error: %s", e.Msg) }

// NewLookup creates a LookupError.
func NewLookup(msg string) error { return &LookupError{Msg: msg} }

// BoxcarError signals a request for a cohort beyond the configured boxcar
// length. Always fatal.
type BoxcarError struct {
	Msg string
}

func (e *BoxcarError) Error() string { return fmt.Sprintf("oilpalm: boxcar error: %s", e.Msg) }

// NewBoxcar creates a BoxcarError.
func NewBoxcar(msg string) error { return &BoxcarError{Msg: msg} }

// StateError signals that a layer's water content left [pwp, sat] after
// clamping, indicating a numerical instability in the soil-water
// integration. Always fatal; the caller may retry with a smaller sub-step.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return fmt.Sprintf("oilpalm: state violation: %s", e.Msg) }

// NewState creates a StateError.
func NewState(msg string) error { return &StateError{Msg: msg} }
