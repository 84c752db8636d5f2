package pipeline

import (
	"fmt"
	"time"
)

// DisplayLayout renders a capture timestamp with its time of day.
const DisplayLayout = "2006-01-02 15:04:05"

// Record describes one photo that has a capture timestamp.
type Record struct {
	Name     string
	Captured time.Time
	Weekday  string
	Days     int
	Caption  string
}

// NewRecord derives the weekday, day offset and caption for one photo.
func NewRecord(name string, captured, reference time.Time) Record {
	r := Record{
		Name:     name,
		Captured: captured,
		Weekday:  captured.Weekday().String(),
		Days:     DaysSince(captured, reference),
	}
	r.Caption = fmt.Sprintf("File: %s Date: %s %s / %d passed days",
		r.Name, r.Captured.Format(DisplayLayout), r.Weekday, r.Days)
	return r
}

// DaysSince counts whole calendar days from reference to the capture date.
// Time of day is ignored; captures before the reference are negative.
func DaysSince(captured, reference time.Time) int {
	c := time.Date(captured.Year(), captured.Month(), captured.Day(), 0, 0, 0, 0, time.UTC)
	r := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	return int((c.Unix() - r.Unix()) / 86400)
}
