package model

import (
	"fmt"
	"strings"
	"time"
)

type Label string

const (
	Today    Label = "Today"
	Tomorrow Label = "Tomorrow"
	Friday   Label = "Friday"
)

// DateLayout is the calendar date format used in queries, reports and file names.
const DateLayout = "2006-01-02"

type CheckinDate struct {
	Label Label
	Date  time.Time
}

func (c CheckinDate) String() string {
	return c.Date.Format(DateLayout)
}

type Hotel struct {
	Name  string `mapstructure:"name"`
	Query string `mapstructure:"query"` // Search term override, e.g. the full brand name
}

// SearchTerm is what gets sent to a provider for this hotel.
func (h Hotel) SearchTerm() string {
	if q := strings.TrimSpace(h.Query); q != "" {
		return q
	}
	return strings.TrimSpace(h.Name)
}

type Place struct {
	City    string `mapstructure:"city"`
	State   string `mapstructure:"state"`
	Country string `mapstructure:"country"`
}

func (p Place) String() string {
	return fmt.Sprintf("%s, %s, %s", p.City, p.State, p.Country)
}

// HotelQuery is built fresh for every provider call and never mutated.
type HotelQuery struct {
	Hotel   Hotel
	Place   Place
	Checkin time.Time
}

func (q HotelQuery) Checkout() time.Time {
	return q.Checkin.AddDate(0, 0, 1)
}
