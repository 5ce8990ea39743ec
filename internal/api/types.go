package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/medpoint/practice-scheduling/internal/scheduling"
)

type CreateAppointmentRequest struct {
	DoctorID     int       `json:"doctor_id"`
	PatientName  string    `json:"patient_name"`
	PatientEmail string    `json:"patient_email"`
	PatientPhone string    `json:"patient_phone"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes,omitempty"`
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	DoctorID        int       `json:"doctor_id"`
	PatientID       uuid.UUID `json:"patient_id"`
	Date            time.Time `json:"date"`
	Notes           string    `json:"notes,omitempty"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
}

type AppointmentDetailResponse struct {
	AppointmentResponse
	DoctorName   string `json:"doctor_name"`
	PatientName  string `json:"patient_name"`
	PatientEmail string `json:"patient_email"`
	PatientPhone string `json:"patient_phone"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		DoctorID:        a.DoctorID,
		PatientID:       a.PatientID,
		Date:            a.Date,
		Notes:           a.Description,
		Status:          string(a.Status),
		RejectionReason: a.RejectionReason,
	}
}

func toDetailResponse(d scheduling.AppointmentDetail) AppointmentDetailResponse {
	return AppointmentDetailResponse{
		AppointmentResponse: toAppointmentResponse(&d.Appointment),
		DoctorName:          d.DoctorName,
		PatientName:         d.PatientName,
		PatientEmail:        d.PatientEmail,
		PatientPhone:        d.PatientPhone,
	}
}

func toDetailResponses(details []scheduling.AppointmentDetail) []AppointmentDetailResponse {
	out := make([]AppointmentDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toDetailResponse(d))
	}
	return out
}
