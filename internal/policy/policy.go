// Package policy is the single authority on who may do what to an
// appointment. Stores never authorize; usecases ask the Engine before
// every mutation.
package policy

import (
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/domain/apperror"
	"clinic-booking/internal/domain/entity"
)

// Action is an operation subject to authorization.
type Action string

const (
	ActionBookAppointment   Action = "appointment.book"
	ActionListAppointments  Action = "appointment.list"
	ActionUpdateAsDoctor    Action = "appointment.update_by_doctor"
	ActionUpdateAsPatient   Action = "appointment.update_by_patient"
	ActionRequestDeletion   Action = "appointment.request_deletion"
	ActionDeleteAppointment Action = "appointment.delete"
	ActionListUsers         Action = "user.list"
	ActionDeleteUser        Action = "user.delete"
	ActionReviewDeletion    Action = "deletion_request.review"
	ActionGenerateReport    Action = "report.generate"
	ActionViewAuditLog      Action = "audit_log.view"
)

// Actions lists every action known to the permission table.
func Actions() []Action {
	return []Action{
		ActionBookAppointment,
		ActionListAppointments,
		ActionUpdateAsDoctor,
		ActionUpdateAsPatient,
		ActionRequestDeletion,
		ActionDeleteAppointment,
		ActionListUsers,
		ActionDeleteUser,
		ActionReviewDeletion,
		ActionGenerateReport,
		ActionViewAuditLog,
	}
}

// Scope says which records an allowed action may touch.
type Scope int

const (
	ScopeNone Scope = iota
	// ScopeOwn limits the action to records the caller is party to.
	ScopeOwn
	ScopeAll
)

// PatientEditWindow is the minimum lead time a patient needs to edit an
// appointment. Exactly 24h is still editable.
const PatientEditWindow = 24 * time.Hour

// permissions is the complete (role, action) table. Anything absent is denied.
var permissions = map[entity.Role]map[Action]Scope{
	entity.RoleAdmin: {
		ActionListAppointments:  ScopeAll,
		ActionDeleteAppointment: ScopeAll,
		ActionListUsers:         ScopeAll,
		ActionDeleteUser:        ScopeAll,
		ActionReviewDeletion:    ScopeAll,
		ActionGenerateReport:    ScopeAll,
		ActionViewAuditLog:      ScopeAll,
	},
	entity.RoleDoctor: {
		ActionListAppointments: ScopeOwn,
		ActionUpdateAsDoctor:   ScopeOwn,
	},
	entity.RolePatient: {
		ActionBookAppointment:  ScopeOwn,
		ActionListAppointments: ScopeOwn,
		ActionUpdateAsPatient:  ScopeOwn,
		ActionRequestDeletion:  ScopeOwn,
	},
}

var (
	ErrRoleNotPermitted      = apperror.New(apperror.KindForbidden, "you don't have permission to perform this action")
	ErrNotOwner              = apperror.New(apperror.KindForbidden, "appointment does not belong to you")
	ErrTooCloseToAppointment = apperror.New(apperror.KindPolicy, "too close to appointment time")
	ErrDoctorUnavailable     = apperror.New(apperror.KindPolicy, "doctor is not available on that day")
	ErrAppointmentInPast     = apperror.New(apperror.KindValidation, "appointment time must be in the future")
	ErrNotADoctor            = apperror.New(apperror.KindValidation, "selected user is not a doctor")
)

// ScopeOf looks the pair up in the permission table.
func ScopeOf(role entity.Role, action Action) Scope {
	return permissions[role][action]
}

type Engine struct {
	config config.PolicyConfig
}

func NewEngine(cfg config.PolicyConfig) *Engine {
	return &Engine{config: cfg}
}

// Authorize checks the caller's role against the permission table.
func (e *Engine) Authorize(caller entity.Identity, action Action) (Scope, error) {
	scope := ScopeOf(caller.Role, action)
	if scope == ScopeNone {
		return ScopeNone, ErrRoleNotPermitted
	}
	return scope, nil
}

// CanBook decides whether the caller may book the doctor at the given time.
func (e *Engine) CanBook(caller entity.Identity, doctor *entity.User, at, now time.Time) error {
	if _, err := e.Authorize(caller, ActionBookAppointment); err != nil {
		return err
	}
	if !doctor.IsDoctor() {
		return ErrNotADoctor
	}
	if !at.After(now) {
		return ErrAppointmentInPast
	}
	if e.config.EnforceDoctorAvailability && !doctor.IsAvailableOn(at) {
		return ErrDoctorUnavailable
	}
	return nil
}

// CanUpdateAsDoctor decides whether the caller may set fees, prescription
// and the diagnosis flag. Ownership is only checked when configured.
func (e *Engine) CanUpdateAsDoctor(caller entity.Identity, appointment *entity.Appointment) error {
	if _, err := e.Authorize(caller, ActionUpdateAsDoctor); err != nil {
		return err
	}
	if e.config.EnforceDoctorOwnership && appointment.DoctorID != caller.UserID {
		return ErrNotOwner
	}
	return nil
}

// CanUpdateAsPatient decides whether the caller may edit the symptoms.
func (e *Engine) CanUpdateAsPatient(caller entity.Identity, appointment *entity.Appointment, now time.Time) error {
	if err := e.authorizeOwn(caller, ActionUpdateAsPatient, appointment); err != nil {
		return err
	}
	if appointment.TimeUntil(now) < PatientEditWindow {
		return ErrTooCloseToAppointment
	}
	return nil
}

// CanRequestDeletion decides whether the caller may file a deletion request.
func (e *Engine) CanRequestDeletion(caller entity.Identity, appointment *entity.Appointment) error {
	return e.authorizeOwn(caller, ActionRequestDeletion, appointment)
}

func (e *Engine) authorizeOwn(caller entity.Identity, action Action, appointment *entity.Appointment) error {
	scope, err := e.Authorize(caller, action)
	if err != nil {
		return err
	}
	if scope == ScopeOwn && !isParty(caller, appointment) {
		return ErrNotOwner
	}
	return nil
}

func isParty(caller entity.Identity, appointment *entity.Appointment) bool {
	switch caller.Role {
	case entity.RolePatient:
		return appointment.PatientID == caller.UserID
	case entity.RoleDoctor:
		return appointment.DoctorID == caller.UserID
	}
	return false
}
