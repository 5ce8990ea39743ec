package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ConflictWindow is the half-width of the interval around a proposed doctor
// appointment that must be free of other active bookings. It approximates a
// minimum consultation slot without an explicit duration field.
const ConflictWindow = 30 * time.Minute

// AvailabilityChecker decides whether a proposed booking collides with
// existing active (pending or approved) appointments. Both checks read the
// current persisted state; the caller is responsible for holding the doctor
// lock across check and insert.
type AvailabilityChecker struct {
	repo Repository
}

func NewAvailabilityChecker(repo Repository) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo}
}

// IsDoctorAvailable reports whether the doctor has no active appointment
// inside the inclusive window [at-30m, at+30m].
func (c *AvailabilityChecker) IsDoctorAvailable(ctx context.Context, doctorID int, at time.Time) (bool, error) {
	from := at.Add(-ConflictWindow)
	to := at.Add(ConflictWindow)

	conflict, err := c.repo.HasDoctorAppointmentBetween(ctx, doctorID, from, to)
	if err != nil {
		return false, fmt.Errorf("check doctor window: %w", err)
	}
	return !conflict, nil
}

// IsPatientAvailable reports whether the patient identified by email has no
// active appointment on the same UTC calendar day. A patient with no record
// yet is trivially available.
func (c *AvailabilityChecker) IsPatientAvailable(ctx context.Context, email string, at time.Time) (bool, error) {
	patient, err := c.repo.GetPatientByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrPatientNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve patient: %w", err)
	}

	dayStart, dayEnd := dayBoundsUTC(at)
	conflict, err := c.repo.HasPatientAppointmentBetween(ctx, patient.ID, dayStart, dayEnd)
	if err != nil {
		return false, fmt.Errorf("check patient day: %w", err)
	}
	return !conflict, nil
}

// dayBoundsUTC returns the half-open interval [start, end) covering the UTC
// calendar day t falls on.
func dayBoundsUTC(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
