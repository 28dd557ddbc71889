package storage

import (
	"fmt"
	"os"
	"time"

	"github.com/shanehull/ratescout/internal/model"
	"github.com/tidwall/gjson"
)

// ReadReport decodes a report written by ReportWriter, keeping label and
// hotel order.
func ReadReport(path string) (*model.RateReport, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("%s: invalid JSON", path)
	}
	doc := gjson.ParseBytes(b)

	generated, err := time.Parse(model.DateLayout, doc.Get("generated").String())
	if err != nil {
		return nil, fmt.Errorf("%s: generated: %w", path, err)
	}

	var checkins []model.CheckinDate
	doc.Get("checkin_dates").ForEach(func(label, date gjson.Result) bool {
		var d time.Time
		d, err = time.Parse(model.DateLayout, date.String())
		if err != nil {
			err = fmt.Errorf("%s: checkin %s: %w", path, label.String(), err)
			return false
		}
		checkins = append(checkins, model.CheckinDate{Label: model.Label(label.String()), Date: d})
		return true
	})
	if err != nil {
		return nil, err
	}

	r := model.NewRateReport(generated, checkins)
	doc.Get("rates_by_day").ForEach(func(label, hotels gjson.Result) bool {
		hotels.ForEach(func(hotel, rate gjson.Result) bool {
			var obs model.Observation
			obs, err = model.ParseObservation(rate.String())
			if err != nil {
				err = fmt.Errorf("%s: %s/%s: %w", path, label.String(), hotel.String(), err)
				return false
			}
			r.Set(model.Label(label.String()), hotel.String(), obs)
			return true
		})
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}
