package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medpoint/practice-scheduling/internal/localization"
	redisclient "github.com/medpoint/practice-scheduling/internal/redis"
)

const (
	EventAppointmentCreated   = "APPOINTMENT_CREATED"
	EventAppointmentUpdated   = "APPOINTMENT_UPDATED"
	EventAppointmentApproved  = "APPOINTMENT_APPROVED"
	EventAppointmentRejected  = "APPOINTMENT_REJECTED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
)

type Service struct {
	repo         Repository
	locker       redisclient.Locker
	availability *AvailabilityChecker
	registrar    *PatientRegistrar
	messages     *localization.Catalog
	validate     *validator.Validate
	log          *zap.Logger
	now          func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, messages *localization.Catalog, log *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		locker:       locker,
		availability: NewAvailabilityChecker(repo),
		registrar:    NewPatientRegistrar(repo),
		messages:     messages,
		validate:     newValidator(),
		log:          log,
		now:          time.Now,
	}
}

func (s *Service) conflict(key string) *Error {
	return newError(KindConflict, key, s.messages.Lookup(key))
}

func (s *Service) notFound() *Error {
	key := localization.KeyAppointmentsNotFound
	return newError(KindNotFound, key, s.messages.Lookup(key))
}

// CreateAppointment validates and persists a new booking request. The
// availability checks and the insert run under a per-doctor lock so that two
// concurrent requests for the same window cannot both pass the check.
func (s *Service) CreateAppointment(ctx context.Context, input CreateAppointmentInput) (*Appointment, error) {
	if verr := validateCreate(s.validate, s.messages, input, s.now().UTC()); verr != nil {
		return nil, verr
	}

	var created *Appointment

	err := s.locker.WithDoctorLock(ctx, input.DoctorID, func(lockCtx context.Context) error {
		available, err := s.availability.IsDoctorAvailable(lockCtx, input.DoctorID, input.Date)
		if err != nil {
			return err
		}
		if !available {
			return s.conflict(localization.KeyAppointmentsDoctorUnavailable)
		}

		available, err = s.availability.IsPatientAvailable(lockCtx, input.PatientEmail, input.Date)
		if err != nil {
			return err
		}
		if !available {
			return s.conflict(localization.KeyAppointmentsPatientBooked)
		}

		patientID, err := s.registrar.Register(lockCtx, input.PatientName, input.PatientEmail, input.PatientPhone)
		if err != nil {
			s.log.Error("patient registration failed", zap.Error(err))
			key := localization.KeyPatientsCreatingFailed
			return newError(KindUnknown, key, s.messages.Lookup(key))
		}

		appt, err := s.repo.CreatePendingAppointment(lockCtx, input.DoctorID, patientID, input.Date, input.Notes)
		if err != nil {
			return fmt.Errorf("create pending appointment: %w", err)
		}

		created = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentCreated, map[string]any{
			"doctor_id":  input.DoctorID,
			"patient_id": patientID.String(),
			"date":       input.Date,
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, s.conflict(localization.KeyAppointmentsBookingInProgress)
		}
		return nil, err
	}

	return created, nil
}

// UpdateAppointment reschedules a booking and refreshes the patient's
// contact details in place. The same field rules as CreateAppointment apply;
// the status and the patient identity are untouched.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, input CreateAppointmentInput) error {
	if verr := validateCreate(s.validate, s.messages, input, s.now().UTC()); verr != nil {
		return verr
	}

	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if errors.Is(err, ErrAppointmentNotFound) {
		return s.notFound()
	}
	if err != nil {
		return fmt.Errorf("load appointment: %w", err)
	}

	_, err = s.repo.UpdatePatientContact(ctx, appt.PatientID,
		strings.TrimSpace(input.PatientName), NormalizeEmail(input.PatientEmail), strings.TrimSpace(input.PatientPhone))
	if err != nil {
		return fmt.Errorf("update patient contact: %w", err)
	}

	updated, err := s.repo.UpdateAppointmentBooking(ctx, appt.ID, input.DoctorID, input.Date, input.Notes)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}

	s.logEvent(ctx, updated.ID, EventAppointmentUpdated, map[string]any{
		"doctor_id": input.DoctorID,
		"date":      input.Date,
	})
	return nil
}

// Approve moves a pending appointment to approved. staffID is recorded in
// the audit trail only; any authenticated staff member may approve.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, staffID string) error {
	updated, err := s.transition(ctx, id, ActionApprove, nil)
	if err != nil {
		return err
	}

	s.logEvent(ctx, updated.ID, EventAppointmentApproved, map[string]any{
		"staff_id": staffID,
	})
	return nil
}

// Reject declines a pending appointment and records the reason. The reason
// is stored verbatim, the empty string included.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	updated, err := s.transition(ctx, id, ActionReject, &reason)
	if err != nil {
		return err
	}

	s.logEvent(ctx, updated.ID, EventAppointmentRejected, map[string]any{
		"reason": reason,
	})
	return nil
}

// Cancel withdraws a booking from any status.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	updated, err := s.transition(ctx, id, ActionCancel, nil)
	if err != nil {
		return err
	}

	s.logEvent(ctx, updated.ID, EventAppointmentCancelled, map[string]any{})
	return nil
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, action Action, rejectionReason *string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if errors.Is(err, ErrAppointmentNotFound) {
		return nil, s.notFound()
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	next, ok := NextStatus(appt.Status, action)
	if !ok {
		return nil, s.conflict(localization.KeyAppointmentsInvalidStatus)
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, appt.ID, appt.Status, next, rejectionReason)
	if errors.Is(err, ErrAppointmentNotFound) {
		// The status changed between load and update.
		return nil, s.conflict(localization.KeyAppointmentsInvalidStatus)
	}
	if err != nil {
		return nil, fmt.Errorf("%s appointment: %w", action, err)
	}

	return updated, nil
}

// GetAppointment retrieves a fully hydrated appointment by ID
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	detail, err := s.repo.GetAppointmentDetail(ctx, id)
	if errors.Is(err, ErrAppointmentNotFound) {
		return nil, s.notFound()
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return detail, nil
}

// ListAppointments returns the read projection matching the filter.
func (s *Service) ListAppointments(ctx context.Context, filter ListFilter) ([]AppointmentDetail, error) {
	appointments, err := s.repo.ListAppointments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

// TodaysAppointments returns the approved appointments on the current UTC
// day, for the staff dashboard and the digest worker.
func (s *Service) TodaysAppointments(ctx context.Context) ([]AppointmentDetail, error) {
	dayStart, dayEnd := dayBoundsUTC(s.now())
	to := dayEnd.Add(-time.Nanosecond) // list filter bounds are inclusive
	status := StatusApproved

	appointments, err := s.repo.ListAppointments(ctx, ListFilter{
		From:   &dayStart,
		To:     &to,
		Status: &status,
	})
	if err != nil {
		return nil, fmt.Errorf("list todays appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("marshal event payload", zap.String("event", eventType), zap.Error(err))
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.Warn("insert event log",
			zap.String("event", eventType),
			zap.String("appointment_id", appointmentID.String()),
			zap.Error(err))
	}
}
