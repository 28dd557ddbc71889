// Package dates resolves the check-in labels of a run to calendar dates.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shanehull/ratescout/internal/model"
)

var ErrInvalidDate = errors.New("invalid date")

// FridayPolicy decides what "Friday" means when today already is one.
type FridayPolicy string

const (
	// Inclusive picks the nearest Friday on or after today, so a Friday run
	// prices the same day twice.
	Inclusive FridayPolicy = "inclusive"
	// NextWeek skips to the following Friday when today is Friday.
	NextWeek FridayPolicy = "next-week"
)

func ParsePolicy(s string) (FridayPolicy, error) {
	switch p := FridayPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", Inclusive:
		return Inclusive, nil
	case NextWeek:
		return NextWeek, nil
	default:
		return "", fmt.Errorf("unknown friday policy %q", s)
	}
}

type Builder struct {
	loc    *time.Location
	policy FridayPolicy
}

func NewBuilder(loc *time.Location, policy FridayPolicy) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	if policy == "" {
		policy = Inclusive
	}
	return &Builder{loc: loc, policy: policy}
}

func (b *Builder) Location() *time.Location { return b.loc }

// Today truncates now to midnight in the builder's location.
func (b *Builder) Today(now time.Time) time.Time {
	y, m, d := now.In(b.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, b.loc)
}

// Resolve returns Today, Tomorrow and Friday, in that order.
func (b *Builder) Resolve(now time.Time) []model.CheckinDate {
	today := b.Today(now)
	return []model.CheckinDate{
		{Label: model.Today, Date: today},
		{Label: model.Tomorrow, Date: today.AddDate(0, 0, 1)},
		{Label: model.Friday, Date: today.AddDate(0, 0, b.daysToFriday(today.Weekday()))},
	}
}

func (b *Builder) daysToFriday(wd time.Weekday) int {
	days := (int(time.Friday) - int(wd) + 7) % 7
	if days == 0 && b.policy == NextWeek {
		days = 7
	}
	return days
}

// ParseDate reads a YYYY-MM-DD date as midnight in the builder's location.
func (b *Builder) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(s), b.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}
