package dto

type ReportResponse struct {
	DoctorCount      int64 `json:"doctor_count"`
	PatientCount     int64 `json:"patient_count"`
	AppointmentCount int64 `json:"appointment_count"`
}

// ReportFileResponse points at an exported report on disk.
type ReportFileResponse struct {
	Path string `json:"path"`
}
