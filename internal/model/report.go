package model

import (
	"bytes"
	"encoding/json"
	"time"
)

type HotelRate struct {
	Hotel       string
	Observation Observation
}

type DayRates struct {
	Label Label
	Rates []HotelRate
}

// RateReport is the only artifact of a run. Labels and hotels keep the order
// in which they were added so consecutive reports diff cleanly.
type RateReport struct {
	Generated time.Time
	Checkins  []CheckinDate
	Days      []DayRates
}

func NewRateReport(generated time.Time, checkins []CheckinDate) *RateReport {
	r := &RateReport{Generated: generated, Checkins: checkins}
	for _, c := range checkins {
		r.Days = append(r.Days, DayRates{Label: c.Label})
	}
	return r
}

// Set records an observation, replacing any earlier one for the same pair.
func (r *RateReport) Set(label Label, hotel string, obs Observation) {
	day := r.day(label)
	if day == nil {
		r.Days = append(r.Days, DayRates{Label: label})
		day = &r.Days[len(r.Days)-1]
	}
	for i := range day.Rates {
		if day.Rates[i].Hotel == hotel {
			day.Rates[i].Observation = obs
			return
		}
	}
	day.Rates = append(day.Rates, HotelRate{Hotel: hotel, Observation: obs})
}

func (r *RateReport) Get(label Label, hotel string) (Observation, bool) {
	day := r.day(label)
	if day == nil {
		return Unavailable, false
	}
	for _, hr := range day.Rates {
		if hr.Hotel == hotel {
			return hr.Observation, true
		}
	}
	return Unavailable, false
}

func (r *RateReport) day(label Label) *DayRates {
	for i := range r.Days {
		if r.Days[i].Label == label {
			return &r.Days[i]
		}
	}
	return nil
}

// MarshalJSON writes objects in insertion order; encoding/json would sort map keys.
func (r *RateReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"generated":`)
	if err := writeValue(&buf, r.Generated.Format(DateLayout)); err != nil {
		return nil, err
	}

	buf.WriteString(`,"checkin_dates":{`)
	for i, c := range r.Checkins {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, string(c.Label), c.String()); err != nil {
			return nil, err
		}
	}

	buf.WriteString(`},"rates_by_day":{`)
	for i, day := range r.Days {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(&buf, string(day.Label)); err != nil {
			return nil, err
		}
		buf.WriteString(":{")
		for j, hr := range day.Rates {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeMember(&buf, hr.Hotel, hr.Observation); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	if err := writeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return writeValue(buf, v)
}

func writeValue(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
