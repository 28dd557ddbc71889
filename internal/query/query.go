// Package query turns a hotel and a check-in date into provider requests.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shanehull/ratescout/internal/model"
)

var (
	ErrEmptyHotel  = errors.New("empty hotel name")
	ErrInvalidDate = errors.New("invalid check-in date")
)

const GoogleHotelsEngine = "google_hotels"

func Build(hotel model.Hotel, place model.Place, checkin time.Time) (model.HotelQuery, error) {
	if strings.TrimSpace(hotel.Name) == "" {
		return model.HotelQuery{}, ErrEmptyHotel
	}
	if checkin.IsZero() {
		return model.HotelQuery{}, fmt.Errorf("%w for %s", ErrInvalidDate, hotel.Name)
	}
	return model.HotelQuery{Hotel: hotel, Place: place, Checkin: checkin}, nil
}

// Text is the free-text form, e.g. "Courtyard Beckley Beckley WV 2026-10-19 hotel price".
func Text(q model.HotelQuery) string {
	parts := []string{q.Hotel.SearchTerm(), q.Place.City, q.Place.State, q.Checkin.Format(model.DateLayout), "hotel price"}
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// SerpParams excludes the api_key; the client adds it.
func SerpParams(q model.HotelQuery, engine string) url.Values {
	params := url.Values{}
	params.Set("engine", engine)
	params.Set("q", Text(q))
	params.Set("location", q.Place.String())
	params.Set("hl", "en")
	params.Set("gl", "us")
	if engine == GoogleHotelsEngine {
		params.Set("check_in_date", q.Checkin.Format(model.DateLayout))
		params.Set("check_out_date", q.Checkout().Format(model.DateLayout))
		params.Set("currency", "USD")
	}
	return params
}

func LocationParams(q model.HotelQuery) url.Values {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s, %s, %s", q.Hotel.SearchTerm(), q.Place.City, q.Place.State))
	return params
}

func DetailParams(q model.HotelQuery, hotelID string) url.Values {
	params := url.Values{}
	params.Set("id", hotelID)
	params.Set("checkIn", q.Checkin.Format(model.DateLayout))
	params.Set("checkOut", q.Checkout().Format(model.DateLayout))
	return params
}
