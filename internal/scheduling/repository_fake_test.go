package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/medpoint/practice-scheduling/internal/redis"
)

// fakeRepository is an in-memory Repository for unit tests. It mirrors the
// SQL predicates: the doctor window is inclusive on both ends, the patient
// day interval is half-open, and only pending/approved rows count.
type fakeRepository struct {
	doctors      map[int]*Doctor
	patients     map[uuid.UUID]*Patient
	appointments map[uuid.UUID]*Appointment
	events       []EventLog

	createAppointmentCalls int
	updateStatusCalls      int
	failCreatePatient      bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		doctors:      make(map[int]*Doctor),
		patients:     make(map[uuid.UUID]*Patient),
		appointments: make(map[uuid.UUID]*Appointment),
	}
}

func (f *fakeRepository) addDoctor(id int, name string) {
	f.doctors[id] = &Doctor{ID: id, FullName: name, IsActive: true}
}

func (f *fakeRepository) addPatient(name, email, phone string) *Patient {
	p := &Patient{ID: uuid.New(), FullName: name, Email: NormalizeEmail(email), Phone: phone}
	f.patients[p.ID] = p
	return p
}

func (f *fakeRepository) addAppointment(doctorID int, patientID uuid.UUID, date time.Time, status Status) *Appointment {
	a := &Appointment{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		Status:    status,
	}
	f.appointments[a.ID] = a
	return a
}

func (f *fakeRepository) GetDoctorByID(_ context.Context, id int) (*Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		return d, nil
	}
	return nil, ErrDoctorNotFound
}

func (f *fakeRepository) GetPatientByEmail(_ context.Context, email string) (*Patient, error) {
	for _, p := range f.patients {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, ErrPatientNotFound
}

func (f *fakeRepository) CreatePatient(_ context.Context, fullName, email, phone string) (*Patient, error) {
	if f.failCreatePatient {
		return nil, errors.New("unique violation")
	}
	p := &Patient{ID: uuid.New(), FullName: fullName, Email: email, Phone: phone}
	f.patients[p.ID] = p
	return p, nil
}

func (f *fakeRepository) UpdatePatientContact(_ context.Context, id uuid.UUID, fullName, email, phone string) (*Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	p.FullName = fullName
	p.Email = email
	p.Phone = phone
	return p, nil
}

func (f *fakeRepository) HasDoctorAppointmentBetween(_ context.Context, doctorID int, from, to time.Time) (bool, error) {
	for _, a := range f.appointments {
		if a.DoctorID != doctorID || !a.Status.IsActive() {
			continue
		}
		if !a.Date.Before(from) && !a.Date.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) HasPatientAppointmentBetween(_ context.Context, patientID uuid.UUID, from, to time.Time) (bool, error) {
	for _, a := range f.appointments {
		if a.PatientID != patientID || !a.Status.IsActive() {
			continue
		}
		if !a.Date.Before(from) && a.Date.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) CreatePendingAppointment(_ context.Context, doctorID int, patientID uuid.UUID, date time.Time, description string) (*Appointment, error) {
	f.createAppointmentCalls++
	a := &Appointment{
		ID:          uuid.New(),
		DoctorID:    doctorID,
		PatientID:   patientID,
		Date:        date,
		Description: description,
		Status:      StatusPending,
	}
	f.appointments[a.ID] = a
	return a, nil
}

func (f *fakeRepository) UpdateAppointmentBooking(_ context.Context, id uuid.UUID, doctorID int, date time.Time, description string) (*Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.DoctorID = doctorID
	a.Date = date
	a.Description = description
	return a, nil
}

func (f *fakeRepository) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, from, to Status, rejectionReason *string) (*Appointment, error) {
	f.updateStatusCalls++
	a, ok := f.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	if rejectionReason != nil {
		reason := *rejectionReason
		a.RejectionReason = &reason
	}
	return a, nil
}

func (f *fakeRepository) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	if a, ok := f.appointments[id]; ok {
		return a, nil
	}
	return nil, ErrAppointmentNotFound
}

func (f *fakeRepository) detail(a *Appointment) *AppointmentDetail {
	det := &AppointmentDetail{Appointment: *a}
	if d, ok := f.doctors[a.DoctorID]; ok {
		det.DoctorName = d.FullName
	}
	if p, ok := f.patients[a.PatientID]; ok {
		det.PatientName = p.FullName
		det.PatientEmail = p.Email
		det.PatientPhone = p.Phone
	}
	return det
}

func (f *fakeRepository) GetAppointmentDetail(_ context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return f.detail(a), nil
}

func (f *fakeRepository) ListAppointments(_ context.Context, filter ListFilter) ([]AppointmentDetail, error) {
	var result []AppointmentDetail
	for _, a := range f.appointments {
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.From != nil && a.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.Date.After(*filter.To) {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		det := f.detail(a)
		if filter.PatientName != "" && !strings.Contains(strings.ToLower(det.PatientName), strings.ToLower(filter.PatientName)) {
			continue
		}
		result = append(result, *det)
	}
	return result, nil
}

func (f *fakeRepository) InsertEvent(_ context.Context, ev EventLog) error {
	f.events = append(f.events, ev)
	return nil
}

// fakeLocker runs the critical section inline, or simulates contention.
type fakeLocker struct {
	contended bool
	calls     int
}

func (l *fakeLocker) WithDoctorLock(ctx context.Context, _ int, fn func(ctx context.Context) error) error {
	l.calls++
	if l.contended {
		return redisclient.ErrLockNotAcquired
	}
	return fn(ctx)
}
