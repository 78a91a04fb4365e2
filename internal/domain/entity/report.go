package entity

import "strconv"

// Report is the admin summary of the clinic's stores.
type Report struct {
	DoctorCount      int64
	PatientCount     int64
	AppointmentCount int64
}

// ReportRow is one metric/value pair of an exported report.
type ReportRow struct {
	Metric string
	Value  string
}

// Rows flattens the report into exportable rows.
func (r Report) Rows() []ReportRow {
	return []ReportRow{
		{Metric: "doctor_count", Value: strconv.FormatInt(r.DoctorCount, 10)},
		{Metric: "patient_count", Value: strconv.FormatInt(r.PatientCount, 10)},
		{Metric: "appointment_count", Value: strconv.FormatInt(r.AppointmentCount, 10)},
	}
}
