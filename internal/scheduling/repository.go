package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetDoctorByID(ctx context.Context, id int) (*Doctor, error)

	// Patient resolution for the registrar and the availability checker.
	// Email is expected to be normalized by the caller.
	GetPatientByEmail(ctx context.Context, email string) (*Patient, error)
	CreatePatient(ctx context.Context, fullName, email, phone string) (*Patient, error)
	UpdatePatientContact(ctx context.Context, id uuid.UUID, fullName, email, phone string) (*Patient, error)

	// Conflict checks. Both count only pending/approved appointments.
	HasDoctorAppointmentBetween(ctx context.Context, doctorID int, from, to time.Time) (bool, error)
	HasPatientAppointmentBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) (bool, error)

	// Creation and updates
	CreatePendingAppointment(ctx context.Context, doctorID int, patientID uuid.UUID, date time.Time, description string) (*Appointment, error)
	UpdateAppointmentBooking(ctx context.Context, id uuid.UUID, doctorID int, date time.Time, description string) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status, rejectionReason *string) (*Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Read projections
	GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error)
	ListAppointments(ctx context.Context, filter ListFilter) ([]AppointmentDetail, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
