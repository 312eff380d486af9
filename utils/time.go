package utils

import (
	"os"
	"time"
)

// SiteLocation is the timezone all calendar-day arithmetic uses.
// Defaults to Asia/Kolkata; override with SITE_TZ.
func SiteLocation() *time.Location {
	tz := os.Getenv("SITE_TZ")
	if tz == "" {
		tz = "Asia/Kolkata"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
