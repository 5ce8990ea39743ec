package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a status coming from the outside (query params).
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// IsActive reports whether the status still counts toward conflict
// detection. Rejected and cancelled bookings do not block new ones.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
)

// transitions lists the legal (current status, action) -> next status pairs.
// Re-applying the action that produced the current status is allowed so that
// retried requests stay idempotent; there is no way back to pending.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionCancel:  StatusCancelled,
	},
	StatusApproved: {
		ActionApprove: StatusApproved,
		ActionCancel:  StatusCancelled,
	},
	StatusRejected: {
		ActionReject: StatusRejected,
		ActionCancel: StatusCancelled,
	},
	StatusCancelled: {
		ActionCancel: StatusCancelled,
	},
}

// NextStatus consults the transition table. ok is false for illegal moves,
// e.g. approving a cancelled appointment.
func NextStatus(current Status, action Action) (Status, bool) {
	next, ok := transitions[current][action]
	return next, ok
}

type Doctor struct {
	ID         int
	FullName   string
	Speciality string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Patient struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Appointment struct {
	ID              uuid.UUID
	DoctorID        int
	PatientID       uuid.UUID
	Date            time.Time
	Description     string
	Status          Status
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AppointmentDetail is the read projection joining doctor and patient
// display fields onto the appointment row.
type AppointmentDetail struct {
	Appointment
	DoctorName   string
	PatientName  string
	PatientEmail string
	PatientPhone string
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// ListFilter narrows ListAppointments. Nil / zero fields are ignored.
type ListFilter struct {
	DoctorID    *int
	From        *time.Time
	To          *time.Time
	PatientName string
	Status      *Status
}
