package services

import (
	"testing"
	"time"

	"github.com/TheSiteshKumar/parlegg/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEarnedToDate(t *testing.T) {
	calc := NewEarningsCalculator(time.UTC)
	start := date(2026, 1, 1)

	tests := []struct {
		name     string
		daily    float64
		duration int
		now      time.Time
		want     float64
	}{
		{"day zero", 27, 45, start, 0},
		{"mid plan day 10", 27, 45, start.AddDate(0, 0, 10), 270},
		{"last day", 27, 45, start.AddDate(0, 0, 45), 1215},
		{"past duration caps at total", 27, 45, start.AddDate(0, 0, 50), 1215},
		{"start in the future", 27, 45, start.AddDate(0, 0, -3), 0},
		{"large plan day 7", 987, 45, start.AddDate(0, 0, 7), 6909},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.EarnedToDate(tt.daily, start, tt.duration, tt.now)
			if got != tt.want {
				t.Errorf("EarnedToDate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEarnedToDateIgnoresTimeOfDay(t *testing.T) {
	calc := NewEarningsCalculator(time.UTC)
	start := time.Date(2026, 1, 1, 23, 50, 0, 0, time.UTC)
	now := time.Date(2026, 1, 2, 0, 5, 0, 0, time.UTC)

	// ten minutes of wall time, but one calendar day
	if got := calc.EarnedToDate(27, start, 45, now); got != 27 {
		t.Errorf("EarnedToDate = %v, want 27", got)
	}
}

func TestIsComplete(t *testing.T) {
	calc := NewEarningsCalculator(time.UTC)
	start := date(2026, 1, 1)

	if calc.IsComplete(start, 45, start.AddDate(0, 0, 44)) {
		t.Error("IsComplete true on day 44 of 45")
	}
	if !calc.IsComplete(start, 45, start.AddDate(0, 0, 45)) {
		t.Error("IsComplete false on day 45 of 45")
	}
	if !calc.IsComplete(start, 45, start.AddDate(0, 0, 50)) {
		t.Error("IsComplete false past duration")
	}
}

func TestRemainingDaysAndProgress(t *testing.T) {
	calc := NewEarningsCalculator(time.UTC)
	start := date(2026, 1, 1)

	tests := []struct {
		name         string
		now          time.Time
		wantDays     int
		wantProgress float64
	}{
		{"day 0", start, 45, 0},
		{"day 9", start.AddDate(0, 0, 9), 36, 20},
		{"day 45", start.AddDate(0, 0, 45), 0, 100},
		{"day 60 clamps", start.AddDate(0, 0, 60), 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.RemainingDays(start, 45, tt.now); got != tt.wantDays {
				t.Errorf("RemainingDays = %d, want %d", got, tt.wantDays)
			}
			if got := calc.Progress(start, 45, tt.now); got != tt.wantProgress {
				t.Errorf("Progress = %v, want %v", got, tt.wantProgress)
			}
		})
	}
}

func TestDailyRate(t *testing.T) {
	calc := NewEarningsCalculator(time.UTC)
	start := date(2026, 1, 1)
	investments := []models.Investment{
		{DailyReturns: 27, StartDate: start, EndDate: start.AddDate(0, 0, 45)},
		{DailyReturns: 174, StartDate: start, EndDate: start.AddDate(0, 0, 45)},
		{DailyReturns: 450, StartDate: start.AddDate(0, 0, 60), EndDate: start.AddDate(0, 0, 105)},
	}

	// third investment has not started yet
	if got := calc.DailyRate(investments, start.AddDate(0, 0, 10)); got != 201 {
		t.Errorf("DailyRate = %v, want 201", got)
	}
	// first two have ended, third is live
	if got := calc.DailyRate(investments, start.AddDate(0, 0, 70)); got != 450 {
		t.Errorf("DailyRate = %v, want 450", got)
	}
}

func TestAccrualDate(t *testing.T) {
	calc := NewEarningsCalculator(time.UTC)
	start := time.Date(2026, 1, 31, 18, 30, 0, 0, time.UTC)

	if got := calc.AccrualDate(start, 1); got != "2026-02-01" {
		t.Errorf("AccrualDate day 1 = %q, want 2026-02-01", got)
	}
	if got := calc.AccrualDate(start, 45); got != "2026-03-17" {
		t.Errorf("AccrualDate day 45 = %q, want 2026-03-17", got)
	}
}
