package localization

// Catalog resolves message keys to localized text. Unknown keys fall back to
// the key itself so a missing translation never blanks a response.
type Catalog struct {
	messages map[string]string
}

func NewCatalog(locale string) *Catalog {
	msgs, ok := locales[locale]
	if !ok {
		msgs = locales["en"]
	}
	return &Catalog{messages: msgs}
}

func (c *Catalog) Lookup(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return key
}

var locales = map[string]map[string]string{
	"en": {
		KeyCommonServerError:    "Something went wrong. Please try again later.",
		KeyCommonUnauthorized:   "You are not authorized to perform this action.",
		KeyCommonInvalidRequest: "The request is invalid.",

		KeyAppointmentsNotFound:          "Appointment not found.",
		KeyAppointmentsCreated:           "Appointment request received.",
		KeyAppointmentsUpdated:           "Appointment updated.",
		KeyAppointmentsApproved:          "Appointment approved.",
		KeyAppointmentsRejected:          "Appointment rejected.",
		KeyAppointmentsCancelled:         "Appointment cancelled.",
		KeyAppointmentsDoctorRequired:    "Doctor is required.",
		KeyAppointmentsDoctorIDPositive:  "Doctor id must be greater than zero.",
		KeyAppointmentsDateRequired:      "Appointment date is required.",
		KeyAppointmentsDateMustBeFuture:  "Appointment date must be in the future.",
		KeyAppointmentsDoctorUnavailable: "The doctor is not available at the selected time.",
		KeyAppointmentsPatientBooked:     "The patient already has an appointment on that day.",
		KeyAppointmentsInvalidStatus:     "The appointment status does not allow this action.",
		KeyAppointmentsBookingInProgress: "Another booking for this doctor is in progress, please retry.",

		KeyPatientsNameRequired:   "Name is required.",
		KeyPatientsEmailRequired:  "Email is required.",
		KeyPatientsInvalidEmail:   "Invalid email format.",
		KeyPatientsPhoneRequired:  "Phone number is required.",
		KeyPatientsInvalidPhone:   "Invalid phone number format.",
		KeyPatientsCreatingFailed: "Could not create the patient record.",
	},
	"es": {
		KeyCommonServerError:    "Algo salió mal. Inténtelo de nuevo más tarde.",
		KeyCommonUnauthorized:   "No está autorizado para realizar esta acción.",
		KeyCommonInvalidRequest: "La solicitud no es válida.",

		KeyAppointmentsNotFound:          "Cita no encontrada.",
		KeyAppointmentsCreated:           "Solicitud de cita recibida.",
		KeyAppointmentsUpdated:           "Cita actualizada.",
		KeyAppointmentsApproved:          "Cita aprobada.",
		KeyAppointmentsRejected:          "Cita rechazada.",
		KeyAppointmentsCancelled:         "Cita cancelada.",
		KeyAppointmentsDoctorRequired:    "El médico es obligatorio.",
		KeyAppointmentsDoctorIDPositive:  "El id del médico debe ser mayor que cero.",
		KeyAppointmentsDateRequired:      "La fecha de la cita es obligatoria.",
		KeyAppointmentsDateMustBeFuture:  "La fecha de la cita debe ser futura.",
		KeyAppointmentsDoctorUnavailable: "El médico no está disponible en el horario seleccionado.",
		KeyAppointmentsPatientBooked:     "El paciente ya tiene una cita ese día.",
		KeyAppointmentsInvalidStatus:     "El estado de la cita no permite esta acción.",
		KeyAppointmentsBookingInProgress: "Otra reserva para este médico está en curso, vuelva a intentarlo.",

		KeyPatientsNameRequired:   "El nombre es obligatorio.",
		KeyPatientsEmailRequired:  "El correo es obligatorio.",
		KeyPatientsInvalidEmail:   "Formato de correo no válido.",
		KeyPatientsPhoneRequired:  "El teléfono es obligatorio.",
		KeyPatientsInvalidPhone:   "Formato de teléfono no válido.",
		KeyPatientsCreatingFailed: "No se pudo crear el registro del paciente.",
	},
}
