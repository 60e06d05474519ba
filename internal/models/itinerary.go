package models

import (
	"time"

	"github.com/google/uuid"
)

// Itinerary is a user-declared travel window. At most one exists per user;
// saving overwrites it wholesale, and its absence means "not traveling",
// which disables the location-mismatch anomaly rule entirely.
type Itinerary struct {
	UserID    uuid.UUID `db:"user_id"`
	Location  string    `db:"location"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Covers reports whether t falls inside the declared window, inclusive of
// the whole end day ([startDate 00:00:00, endDate 23:59:59]).
func (i *Itinerary) Covers(t time.Time) bool {
	start := time.Date(i.StartDate.Year(), i.StartDate.Month(), i.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(i.EndDate.Year(), i.EndDate.Month(), i.EndDate.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	u := t.UTC()
	return !u.Before(start) && u.Before(end)
}
