package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medpoint/practice-scheduling/internal/localization"
	"github.com/medpoint/practice-scheduling/internal/scheduling"
)

// SchedulingService is the slice of the scheduling service the HTTP layer
// depends on.
type SchedulingService interface {
	CreateAppointment(ctx context.Context, input scheduling.CreateAppointmentInput) (*scheduling.Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, input scheduling.CreateAppointmentInput) error
	Approve(ctx context.Context, id uuid.UUID, staffID string) error
	Reject(ctx context.Context, id uuid.UUID, reason string) error
	Cancel(ctx context.Context, id uuid.UUID) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*scheduling.AppointmentDetail, error)
	ListAppointments(ctx context.Context, filter scheduling.ListFilter) ([]scheduling.AppointmentDetail, error)
	TodaysAppointments(ctx context.Context) ([]scheduling.AppointmentDetail, error)
}

type AppointmentHandlers struct {
	svc      SchedulingService
	messages *localization.Catalog
	log      *zap.Logger
}

func NewAppointmentHandlers(svc SchedulingService, messages *localization.Catalog, log *zap.Logger) *AppointmentHandlers {
	return &AppointmentHandlers{svc: svc, messages: messages, log: log}
}

func (h *AppointmentHandlers) invalidRequest(w http.ResponseWriter) {
	key := localization.KeyCommonInvalidRequest
	writeError(w, http.StatusBadRequest, key, h.messages.Lookup(key))
}

func (h *AppointmentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.invalidRequest(w)
		return
	}

	appt, err := h.svc.CreateAppointment(r.Context(), scheduling.CreateAppointmentInput{
		DoctorID:     req.DoctorID,
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PatientPhone: req.PatientPhone,
		Date:         req.Date,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *AppointmentHandlers) appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.invalidRequest(w)
		return uuid.Nil, false
	}
	return id, true
}

func (h *AppointmentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.invalidRequest(w)
		return
	}

	err := h.svc.UpdateAppointment(r.Context(), id, scheduling.CreateAppointmentInput{
		DoctorID:     req.DoctorID,
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PatientPhone: req.PatientPhone,
		Date:         req.Date,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	key := localization.KeyAppointmentsUpdated
	writeJSON(w, http.StatusOK, map[string]string{"message": h.messages.Lookup(key)})
}

func (h *AppointmentHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	var staffID string
	if claims, ok := GetStaffClaims(r.Context()); ok {
		staffID = claims.StaffID
	}

	if err := h.svc.Approve(r.Context(), id, staffID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	key := localization.KeyAppointmentsApproved
	writeJSON(w, http.StatusOK, map[string]string{"message": h.messages.Lookup(key)})
}

func (h *AppointmentHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	var req RejectAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.invalidRequest(w)
		return
	}

	if err := h.svc.Reject(r.Context(), id, req.Reason); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	key := localization.KeyAppointmentsRejected
	writeJSON(w, http.StatusOK, map[string]string{"message": h.messages.Lookup(key)})
}

func (h *AppointmentHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Cancel(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	key := localization.KeyAppointmentsCancelled
	writeJSON(w, http.StatusOK, map[string]string{"message": h.messages.Lookup(key)})
}

func (h *AppointmentHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.GetAppointment(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDetailResponse(*detail))
}

func (h *AppointmentHandlers) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseListFilter(w, r)
	if !ok {
		return
	}

	details, err := h.svc.ListAppointments(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDetailResponses(details))
}

func (h *AppointmentHandlers) Todays(w http.ResponseWriter, r *http.Request) {
	details, err := h.svc.TodaysAppointments(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDetailResponses(details))
}

func (h *AppointmentHandlers) parseListFilter(w http.ResponseWriter, r *http.Request) (scheduling.ListFilter, bool) {
	var filter scheduling.ListFilter
	q := r.URL.Query()

	if v := q.Get("doctor_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			h.invalidRequest(w)
			return filter, false
		}
		filter.DoctorID = &id
	}
	if v := q.Get("from"); v != "" {
		ts, err := parseQueryTime(v)
		if err != nil {
			h.invalidRequest(w)
			return filter, false
		}
		filter.From = &ts
	}
	if v := q.Get("to"); v != "" {
		ts, err := parseQueryTime(v)
		if err != nil {
			h.invalidRequest(w)
			return filter, false
		}
		filter.To = &ts
	}
	if v := q.Get("patient_name"); v != "" {
		filter.PatientName = v
	}
	if v := q.Get("status"); v != "" {
		status, ok := scheduling.ParseStatus(v)
		if !ok {
			h.invalidRequest(w)
			return filter, false
		}
		filter.Status = &status
	}

	return filter, true
}

// parseQueryTime accepts RFC 3339 timestamps or plain dates.
func parseQueryTime(v string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", v)
}
