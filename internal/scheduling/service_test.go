package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medpoint/practice-scheduling/internal/localization"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepository, locker *fakeLocker) *Service {
	svc := NewService(repo, locker, localization.NewCatalog("en"), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func bookingInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		DoctorID:     1,
		PatientName:  "Jane Doe",
		PatientEmail: "jane@x.com",
		PatientPhone: "+12025550101",
		Date:         fixedNow.Add(24 * time.Hour),
		Notes:        "first visit",
	}
}

func requireKind(t *testing.T, err error, kind Kind, key string) {
	t.Helper()
	serr, ok := AsError(err)
	require.True(t, ok, "expected scheduling error, got %v", err)
	require.Equal(t, kind, serr.Kind)
	require.Equal(t, key, serr.Key)
	require.NotEmpty(t, serr.Message)
}

func TestCreateAppointmentSuccess(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	svc := newTestService(repo, &fakeLocker{})

	appt, err := svc.CreateAppointment(context.Background(), bookingInput())
	require.NoError(t, err)
	require.Equal(t, StatusPending, appt.Status)
	require.Equal(t, 1, appt.DoctorID)
	require.Equal(t, "first visit", appt.Description)

	// The registrar created the patient record under the normalized email.
	patient, err := repo.GetPatientByEmail(context.Background(), "jane@x.com")
	require.NoError(t, err)
	require.Equal(t, patient.ID, appt.PatientID)

	require.Len(t, repo.events, 1)
	require.Equal(t, EventAppointmentCreated, repo.events[0].EventType)
}

func TestCreateAppointmentPastDateNeverTouchesStore(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	locker := &fakeLocker{}
	svc := newTestService(repo, locker)

	in := bookingInput()
	in.Date = fixedNow // at "now" is not in the future

	_, err := svc.CreateAppointment(context.Background(), in)
	requireKind(t, err, KindValidation, localization.KeyAppointmentsDateMustBeFuture)
	require.Zero(t, repo.createAppointmentCalls)
	require.Zero(t, locker.calls, "validation failures must not acquire the lock")
}

func TestCreateAppointmentDoctorConflict(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	other := repo.addPatient("John Roe", "john@x.com", "12025550102")
	first := bookingInput().Date
	repo.addAppointment(1, other.ID, first, StatusPending)

	svc := newTestService(repo, &fakeLocker{})

	in := bookingInput()
	in.Date = first.Add(15 * time.Minute)

	_, err := svc.CreateAppointment(context.Background(), in)
	requireKind(t, err, KindConflict, localization.KeyAppointmentsDoctorUnavailable)
	require.Zero(t, repo.createAppointmentCalls)

	// 31 minutes out clears the window.
	in.Date = first.Add(31 * time.Minute)
	appt, err := svc.CreateAppointment(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, StatusPending, appt.Status)
}

func TestCreateAppointmentPatientSameDayConflict(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	repo.addDoctor(2, "Dr. Okafor")
	jane := repo.addPatient("Jane Doe", "jane@x.com", "+12025550101")
	repo.addAppointment(1, jane.ID, bookingInput().Date, StatusApproved)

	svc := newTestService(repo, &fakeLocker{})

	// Same day, different doctor and time: still a conflict.
	in := bookingInput()
	in.DoctorID = 2
	in.Date = in.Date.Add(6 * time.Hour)

	_, err := svc.CreateAppointment(context.Background(), in)
	requireKind(t, err, KindConflict, localization.KeyAppointmentsPatientBooked)

	// Next day succeeds.
	in.Date = bookingInput().Date.Add(24 * time.Hour)
	_, err = svc.CreateAppointment(context.Background(), in)
	require.NoError(t, err)
}

func TestCreateAppointmentRegistrarFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	repo.failCreatePatient = true
	svc := newTestService(repo, &fakeLocker{})

	_, err := svc.CreateAppointment(context.Background(), bookingInput())
	requireKind(t, err, KindUnknown, localization.KeyPatientsCreatingFailed)
	require.Zero(t, repo.createAppointmentCalls, "no appointment may be persisted when registration fails")
}

func TestCreateAppointmentLockContention(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	svc := newTestService(repo, &fakeLocker{contended: true})

	_, err := svc.CreateAppointment(context.Background(), bookingInput())
	requireKind(t, err, KindConflict, localization.KeyAppointmentsBookingInProgress)
	require.Zero(t, repo.createAppointmentCalls)
}

func TestLifecycleNotFound(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeLocker{})
	ctx := context.Background()
	missing := uuid.New()

	requireKind(t, svc.Approve(ctx, missing, "staff-1"), KindNotFound, localization.KeyAppointmentsNotFound)
	requireKind(t, svc.Reject(ctx, missing, "no capacity"), KindNotFound, localization.KeyAppointmentsNotFound)
	requireKind(t, svc.Cancel(ctx, missing), KindNotFound, localization.KeyAppointmentsNotFound)

	require.Zero(t, repo.updateStatusCalls, "not-found must not write")
	require.Empty(t, repo.events)
}

func TestRejectStoresReasonVerbatim(t *testing.T) {
	repo := newFakeRepository()
	jane := repo.addPatient("Jane Doe", "jane@x.com", "+12025550101")
	svc := newTestService(repo, &fakeLocker{})
	ctx := context.Background()

	a := repo.addAppointment(1, jane.ID, fixedNow.Add(24*time.Hour), StatusPending)
	require.NoError(t, svc.Reject(ctx, a.ID, "doctor on leave"))
	require.Equal(t, StatusRejected, a.Status)
	require.NotNil(t, a.RejectionReason)
	require.Equal(t, "doctor on leave", *a.RejectionReason)

	// The empty string is a legal reason.
	b := repo.addAppointment(1, jane.ID, fixedNow.Add(48*time.Hour), StatusPending)
	require.NoError(t, svc.Reject(ctx, b.ID, ""))
	require.NotNil(t, b.RejectionReason)
	require.Equal(t, "", *b.RejectionReason)
}

func TestApproveThenCancel(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	jane := repo.addPatient("Jane Doe", "jane@x.com", "+12025550101")
	svc := newTestService(repo, &fakeLocker{})
	ctx := context.Background()

	a := repo.addAppointment(1, jane.ID, fixedNow.Add(24*time.Hour), StatusPending)

	require.NoError(t, svc.Approve(ctx, a.ID, "staff-1"))
	require.Equal(t, StatusApproved, a.Status)

	require.NoError(t, svc.Cancel(ctx, a.ID))
	require.Equal(t, StatusCancelled, a.Status)

	require.Len(t, repo.events, 2)
	require.Equal(t, EventAppointmentApproved, repo.events[0].EventType)
	require.Equal(t, EventAppointmentCancelled, repo.events[1].EventType)
}

func TestApproveCancelledIsConflict(t *testing.T) {
	repo := newFakeRepository()
	jane := repo.addPatient("Jane Doe", "jane@x.com", "+12025550101")
	svc := newTestService(repo, &fakeLocker{})
	ctx := context.Background()

	a := repo.addAppointment(1, jane.ID, fixedNow.Add(24*time.Hour), StatusCancelled)

	requireKind(t, svc.Approve(ctx, a.ID, "staff-1"), KindConflict, localization.KeyAppointmentsInvalidStatus)
	require.Equal(t, StatusCancelled, a.Status)
}

func TestApproveIsIdempotent(t *testing.T) {
	repo := newFakeRepository()
	jane := repo.addPatient("Jane Doe", "jane@x.com", "+12025550101")
	svc := newTestService(repo, &fakeLocker{})
	ctx := context.Background()

	a := repo.addAppointment(1, jane.ID, fixedNow.Add(24*time.Hour), StatusPending)

	require.NoError(t, svc.Approve(ctx, a.ID, "staff-1"))
	require.NoError(t, svc.Approve(ctx, a.ID, "staff-1"))
	require.Equal(t, StatusApproved, a.Status)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	svc := newTestService(repo, &fakeLocker{})
	ctx := context.Background()

	appt, err := svc.CreateAppointment(ctx, bookingInput())
	require.NoError(t, err)

	detail, err := svc.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	require.Equal(t, appt.ID, detail.ID)
	require.Equal(t, StatusPending, detail.Status)
	require.Equal(t, "Dr. Reyes", detail.DoctorName)
	require.Equal(t, "Jane Doe", detail.PatientName)
}

func TestSecondBookingWithinWindowConflicts(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	svc := newTestService(repo, &fakeLocker{})
	ctx := context.Background()

	first, err := svc.CreateAppointment(ctx, bookingInput())
	require.NoError(t, err)
	require.Equal(t, StatusPending, first.Status)

	second := bookingInput()
	second.PatientName = "John Roe"
	second.PatientEmail = "john@x.com"
	second.PatientPhone = "+12025550102"
	second.Date = second.Date.Add(15 * time.Minute)

	_, err = svc.CreateAppointment(ctx, second)
	requireKind(t, err, KindConflict, localization.KeyAppointmentsDoctorUnavailable)
}

func TestSecondBookingAtWindowEdgeConflicts(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	svc := newTestService(repo, &fakeLocker{})
	ctx := context.Background()

	_, err := svc.CreateAppointment(ctx, bookingInput())
	require.NoError(t, err)

	// Exactly 30 minutes out is still inside the inclusive window.
	second := bookingInput()
	second.PatientEmail = "john@x.com"
	second.PatientPhone = "+12025550102"
	second.Date = second.Date.Add(30 * time.Minute)

	_, err = svc.CreateAppointment(ctx, second)
	requireKind(t, err, KindConflict, localization.KeyAppointmentsDoctorUnavailable)
}

func TestUpdateAppointment(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	repo.addDoctor(2, "Dr. Okafor")
	jane := repo.addPatient("Jane Doe", "jane@x.com", "+12025550101")
	svc := newTestService(repo, &fakeLocker{})
	ctx := context.Background()

	a := repo.addAppointment(1, jane.ID, fixedNow.Add(24*time.Hour), StatusPending)

	in := CreateAppointmentInput{
		DoctorID:     2,
		PatientName:  "Jane A. Doe",
		PatientEmail: "Jane.Doe@X.com",
		PatientPhone: "+12025550199",
		Date:         fixedNow.Add(72 * time.Hour),
		Notes:        "rescheduled",
	}
	require.NoError(t, svc.UpdateAppointment(ctx, a.ID, in))

	require.Equal(t, 2, a.DoctorID)
	require.Equal(t, in.Date, a.Date)
	require.Equal(t, "rescheduled", a.Description)
	require.Equal(t, StatusPending, a.Status, "update must not touch the status")
	require.Equal(t, jane.ID, a.PatientID, "update must not reassign the patient")

	// Contact fields land on the existing patient, email normalized.
	require.Equal(t, "Jane A. Doe", jane.FullName)
	require.Equal(t, "jane.doe@x.com", jane.Email)
	require.Equal(t, "+12025550199", jane.Phone)

	require.Len(t, repo.events, 1)
	require.Equal(t, EventAppointmentUpdated, repo.events[0].EventType)
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	svc := newTestService(repo, &fakeLocker{})

	err := svc.UpdateAppointment(context.Background(), uuid.New(), bookingInput())
	requireKind(t, err, KindNotFound, localization.KeyAppointmentsNotFound)
	require.Empty(t, repo.events)
}

func TestUpdateAppointmentValidatesInput(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	jane := repo.addPatient("Jane Doe", "jane@x.com", "+12025550101")
	svc := newTestService(repo, &fakeLocker{})

	a := repo.addAppointment(1, jane.ID, fixedNow.Add(24*time.Hour), StatusPending)

	in := bookingInput()
	in.Date = fixedNow.Add(-time.Hour)

	err := svc.UpdateAppointment(context.Background(), a.ID, in)
	requireKind(t, err, KindValidation, localization.KeyAppointmentsDateMustBeFuture)
	require.Equal(t, fixedNow.Add(24*time.Hour), a.Date, "rejected update must not write")
	require.Equal(t, "Jane Doe", jane.FullName)
}

func TestTodaysAppointments(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	jane := repo.addPatient("Jane Doe", "jane@x.com", "+12025550101")
	svc := newTestService(repo, &fakeLocker{})

	today := repo.addAppointment(1, jane.ID, fixedNow.Add(3*time.Hour), StatusApproved)
	repo.addAppointment(1, jane.ID, fixedNow.Add(4*time.Hour), StatusPending)
	repo.addAppointment(1, jane.ID, fixedNow.Add(27*time.Hour), StatusApproved)

	out, err := svc.TodaysAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, today.ID, out[0].ID)
}

func TestListAppointmentsFilters(t *testing.T) {
	repo := newFakeRepository()
	repo.addDoctor(1, "Dr. Reyes")
	repo.addDoctor(2, "Dr. Okafor")
	jane := repo.addPatient("Jane Doe", "jane@x.com", "+12025550101")
	john := repo.addPatient("John Roe", "john@x.com", "+12025550102")
	svc := newTestService(repo, &fakeLocker{})
	ctx := context.Background()

	repo.addAppointment(1, jane.ID, fixedNow.Add(24*time.Hour), StatusPending)
	repo.addAppointment(2, john.ID, fixedNow.Add(48*time.Hour), StatusApproved)

	doctorID := 1
	out, err := svc.ListAppointments(ctx, ListFilter{DoctorID: &doctorID})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Jane Doe", out[0].PatientName)

	status := StatusApproved
	out, err = svc.ListAppointments(ctx, ListFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "John Roe", out[0].PatientName)

	out, err = svc.ListAppointments(ctx, ListFilter{PatientName: "jane"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, jane.ID, out[0].PatientID)
}
