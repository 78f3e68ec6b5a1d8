// Package cursor implements the calendar-day cursor the harvester walks
// over the remote bulletin tree.
package cursor

import (
	"context"
	"fmt"
	"time"

	"github.com/tenderhound/tenderhound/internal/domain"
	"github.com/tenderhound/tenderhound/internal/storage"
)

// Date is one calendar day as the zero-padded string components used in the
// remote directory layout.
type Date struct {
	Year  string
	Month string
	Day   string
}

// FromTime builds a Date from the calendar date of t.
func FromTime(t time.Time) Date {
	return Date{
		Year:  fmt.Sprintf("%04d", t.Year()),
		Month: fmt.Sprintf("%02d", int(t.Month())),
		Day:   fmt.Sprintf("%02d", t.Day()),
	}
}

// Time converts the Date back to a time.Time at midnight local time. Dates
// that pass the per-component validators but name a day the month does not
// have, like April 31st, are rejected here.
func (d Date) Time() (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", d.String(), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %s: %w", d, err)
	}
	return t, nil
}

func (d Date) String() string {
	return d.Year + "-" + d.Month + "-" + d.Day
}

// Next returns d advanced by one calendar day, rolling over month and year
// boundaries (leap years included). A non-existent date is an error, never a
// silent jump to the zero time.
func Next(d Date) (Date, error) {
	t, err := d.Time()
	if err != nil {
		return Date{}, err
	}
	return FromTime(t.AddDate(0, 0, 1)), nil
}

// IsTerminal reports whether d is today's calendar date on the host clock.
// Future dates are not terminal.
func IsTerminal(d Date) bool {
	return d == FromTime(time.Now())
}

// Initial derives the starting date for a run: the day after the persisted
// cursor when one exists, otherwise January 1st of minYear.
func Initial(ctx context.Context, store storage.CursorStore, minYear int) (Date, error) {
	saved, err := store.LoadCursor(ctx)
	if err != nil {
		return Date{}, fmt.Errorf("failed to load fetch cursor: %w", err)
	}
	if saved == nil {
		return Date{
			Year:  fmt.Sprintf("%04d", minYear),
			Month: "01",
			Day:   "01",
		}, nil
	}
	next, err := Next(Date{Year: saved.Year, Month: saved.Month, Day: saved.Day})
	if err != nil {
		return Date{}, fmt.Errorf("persisted fetch cursor is corrupt: %w", err)
	}
	return next, nil
}

// Cursor converts d into the persisted progress record.
func (d Date) Cursor(fetchedAt time.Time) domain.FetchCursor {
	return domain.FetchCursor{
		Year:      d.Year,
		Month:     d.Month,
		Day:       d.Day,
		FetchedAt: fetchedAt,
	}
}
