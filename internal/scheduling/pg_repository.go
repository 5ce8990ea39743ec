package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.FullName,
		&d.Speciality,
		&d.IsActive,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.Phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var description *string

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientID,
		&a.Date,
		&description,
		&a.Status,
		&a.RejectionReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if description != nil {
		a.Description = *description
	}
	return &a, nil
}

const appointmentColumns = `id, doctor_id, patient_id, date, description, status, rejection_reason, created_at, updated_at`

// Interface methods

func (r *PgRepository) GetDoctorByID(ctx context.Context, id int) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, speciality, is_active, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) GetPatientByEmail(ctx context.Context, email string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, phone, created_at, updated_at
		FROM patients
		WHERE email = $1
	`, email)
	return scanPatient(row)
}

func (r *PgRepository) CreatePatient(ctx context.Context, fullName, email, phone string) (*Patient, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, full_name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, full_name, email, phone, created_at, updated_at
	`, id, fullName, email, phone)

	return scanPatient(row)
}

func (r *PgRepository) UpdatePatientContact(ctx context.Context, id uuid.UUID, fullName, email, phone string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE patients
		SET full_name = $2,
		    email = $3,
		    phone = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, full_name, email, phone, created_at, updated_at
	`, id, fullName, email, phone)

	return scanPatient(row)
}

func (r *PgRepository) HasDoctorAppointmentBetween(ctx context.Context, doctorID int, from, to time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND date >= $2
			  AND date <= $3
			  AND status IN ('pending', 'approved')
		)
	`, doctorID, from, to).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgRepository) HasPatientAppointmentBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE patient_id = $1
			  AND date >= $2
			  AND date < $3
			  AND status IN ('pending', 'approved')
		)
	`, patientID, from, to).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgRepository) CreatePendingAppointment(ctx context.Context, doctorID int, patientID uuid.UUID, date time.Time, description string) (*Appointment, error) {
	id := uuid.New()

	var desc *string
	if description != "" {
		desc = &description
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_id, date, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'pending', now(), now())
		RETURNING `+appointmentColumns+`
	`, id, doctorID, patientID, date, desc)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentBooking(ctx context.Context, id uuid.UUID, doctorID int, date time.Time, description string) (*Appointment, error) {
	var desc *string
	if description != "" {
		desc = &description
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET doctor_id = $2,
		    date = $3,
		    description = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, doctorID, date, desc)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status, rejectionReason *string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    rejection_reason = COALESCE($4, rejection_reason),
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+appointmentColumns+`
	`, id, to, from, rejectionReason)

	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

const detailQuery = `
	SELECT a.id, a.doctor_id, a.patient_id, a.date, a.description, a.status,
	       a.rejection_reason, a.created_at, a.updated_at,
	       d.full_name, p.full_name, p.email, p.phone
	FROM appointments a
	JOIN doctors d ON d.id = a.doctor_id
	JOIN patients p ON p.id = a.patient_id
`

func scanAppointmentDetail(row pgx.Row) (*AppointmentDetail, error) {
	var det AppointmentDetail
	var description *string

	err := row.Scan(
		&det.ID,
		&det.DoctorID,
		&det.PatientID,
		&det.Date,
		&description,
		&det.Status,
		&det.RejectionReason,
		&det.CreatedAt,
		&det.UpdatedAt,
		&det.DoctorName,
		&det.PatientName,
		&det.PatientEmail,
		&det.PatientPhone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if description != nil {
		det.Description = *description
	}
	return &det, nil
}

func (r *PgRepository) GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	row := r.pool.QueryRow(ctx, detailQuery+` WHERE a.id = $1`, id)
	return scanAppointmentDetail(row)
}

func (r *PgRepository) ListAppointments(ctx context.Context, filter ListFilter) ([]AppointmentDetail, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DoctorID != nil {
		conds = append(conds, "a.doctor_id = "+arg(*filter.DoctorID))
	}
	if filter.From != nil {
		conds = append(conds, "a.date >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "a.date <= "+arg(*filter.To))
	}
	if filter.PatientName != "" {
		conds = append(conds, "p.full_name ILIKE "+arg("%"+filter.PatientName+"%"))
	}
	if filter.Status != nil {
		conds = append(conds, "a.status = "+arg(*filter.Status))
	}

	query := detailQuery
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY a.date"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AppointmentDetail
	for rows.Next() {
		det, err := scanAppointmentDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *det)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment_events (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
