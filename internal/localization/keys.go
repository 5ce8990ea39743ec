package localization

// Message keys are stable identifiers shared with the clients; the catalog
// maps them to human-readable text per locale.
const (
	KeyCommonServerError    = "Common.ServerError"
	KeyCommonUnauthorized   = "Common.Unauthorized"
	KeyCommonInvalidRequest = "Common.InvalidRequest"

	KeyAppointmentsNotFound          = "Appointments.NotFound"
	KeyAppointmentsCreated           = "Appointments.Created"
	KeyAppointmentsUpdated           = "Appointments.Updated"
	KeyAppointmentsApproved          = "Appointments.Approved"
	KeyAppointmentsRejected          = "Appointments.Rejected"
	KeyAppointmentsCancelled         = "Appointments.Cancelled"
	KeyAppointmentsDoctorRequired    = "Appointments.DoctorRequired"
	KeyAppointmentsDoctorIDPositive  = "Appointments.DoctorIdMustBeGreaterThanZero"
	KeyAppointmentsDateRequired      = "Appointments.DateRequired"
	KeyAppointmentsDateMustBeFuture  = "Appointments.DateMustBeInFuture"
	KeyAppointmentsDoctorUnavailable = "Appointments.DoctorUnavailable"
	KeyAppointmentsPatientBooked     = "Appointments.PatientAlreadyHasAppointment"
	KeyAppointmentsInvalidStatus     = "Appointments.InvalidStatus"
	KeyAppointmentsBookingInProgress = "Appointments.BookingInProgress"

	KeyPatientsNameRequired   = "Patients.NameRequired"
	KeyPatientsEmailRequired  = "Patients.EmailRequired"
	KeyPatientsInvalidEmail   = "Patients.InvalidEmail"
	KeyPatientsPhoneRequired  = "Patients.PhoneRequired"
	KeyPatientsInvalidPhone   = "Patients.InvalidPhone"
	KeyPatientsCreatingFailed = "Patients.CreatingFailed"
)
