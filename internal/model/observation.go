package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NotAvailable is how a missing price is written in reports.
const NotAvailable = "N/A"

// Observation is the nightly rate found for one hotel on one date: a single
// USD amount, an inclusive range, or nothing. The zero value is unavailable.
type Observation struct {
	low, high int
	ok        bool
}

var Unavailable = Observation{}

func Price(n int) Observation {
	return Observation{low: n, high: n, ok: true}
}

// Range collapses to a single price when both bounds are equal.
func Range(lo, hi int) Observation {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Observation{low: lo, high: hi, ok: true}
}

func (o Observation) Available() bool { return o.ok }

func (o Observation) Bounds() (low, high int) { return o.low, o.high }

// Merge returns the span covering both observations.
func (o Observation) Merge(other Observation) Observation {
	switch {
	case !o.ok:
		return other
	case !other.ok:
		return o
	}
	return Range(min(o.low, other.low), max(o.high, other.high))
}

func (o Observation) String() string {
	switch {
	case !o.ok:
		return NotAvailable
	case o.low == o.high:
		return strconv.Itoa(o.low)
	}
	return fmt.Sprintf("%d-%d", o.low, o.high)
}

func (o Observation) MarshalJSON() ([]byte, error) {
	if o.ok && o.low == o.high {
		return []byte(strconv.Itoa(o.low)), nil
	}
	return json.Marshal(o.String())
}

func (o *Observation) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	obs, err := ParseObservation(s)
	if err != nil {
		return err
	}
	*o = obs
	return nil
}

// ParseObservation reads the report form: "N/A", "120" or "120-150".
func ParseObservation(s string) (Observation, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, NotAvailable) {
		return Unavailable, nil
	}
	if lo, hi, found := strings.Cut(s, "-"); found {
		l, errLo := strconv.Atoi(strings.TrimSpace(lo))
		h, errHi := strconv.Atoi(strings.TrimSpace(hi))
		if errLo != nil || errHi != nil {
			return Unavailable, fmt.Errorf("invalid price range %q", s)
		}
		return Range(l, h), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Unavailable, fmt.Errorf("invalid price %q", s)
	}
	return Price(n), nil
}
