package services

import (
	"time"

	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"
)

// EarningsCalculator does the daily-return arithmetic for investments.
// All day counting happens on calendar dates in the configured
// location, so a credit granted at 23:59 and one at 00:01 land on
// different days.
type EarningsCalculator struct {
	loc *time.Location
}

func NewEarningsCalculator(loc *time.Location) *EarningsCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &EarningsCalculator{loc: loc}
}

// DateOf truncates t to midnight in the calculator's location.
func (c *EarningsCalculator) DateOf(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// ElapsedDays counts whole calendar days from start to now. A start
// date in the future yields zero.
func (c *EarningsCalculator) ElapsedDays(start, now time.Time) int {
	d := int(c.DateOf(now).Sub(c.DateOf(start)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// AccruableDays is the number of days an investment should have been
// credited for by now, capped at its duration.
func (c *EarningsCalculator) AccruableDays(start time.Time, duration int, now time.Time) int {
	d := c.ElapsedDays(start, now)
	if d > duration {
		return duration
	}
	return d
}

// EarnedToDate returns the total amount an investment should have
// produced by now: dailyReturns times the accruable days.
func (c *EarningsCalculator) EarnedToDate(dailyReturns float64, start time.Time, duration int, now time.Time) float64 {
	return utils.RoundFloat(dailyReturns*float64(c.AccruableDays(start, duration, now)), 2)
}

// IsComplete reports whether the investment has run its full duration.
func (c *EarningsCalculator) IsComplete(start time.Time, duration int, now time.Time) bool {
	return c.ElapsedDays(start, now) >= duration
}

// RemainingDays is how many accrual days are left, never negative.
func (c *EarningsCalculator) RemainingDays(start time.Time, duration int, now time.Time) int {
	r := duration - c.ElapsedDays(start, now)
	if r < 0 {
		return 0
	}
	return r
}

// Progress is percent complete, clamped to [0, 100].
func (c *EarningsCalculator) Progress(start time.Time, duration int, now time.Time) float64 {
	if duration <= 0 {
		return 100
	}
	p := float64(c.ElapsedDays(start, now)) / float64(duration) * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// DailyRate sums the daily returns of investments currently inside
// their accrual window.
func (c *EarningsCalculator) DailyRate(investments []models.Investment, now time.Time) float64 {
	var total float64
	for _, inv := range investments {
		if !now.Before(inv.StartDate) && !now.After(inv.EndDate) {
			total += inv.DailyReturns
		}
	}
	return utils.RoundFloat(total, 2)
}

// AccrualDate formats the credit date for day number n of an
// investment (day 1 is the first full day after purchase).
func (c *EarningsCalculator) AccrualDate(start time.Time, n int) string {
	return c.DateOf(start).AddDate(0, 0, n).Format("2006-01-02")
}
