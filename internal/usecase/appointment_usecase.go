package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/apperror"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/policy"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxFees is the exclusive upper bound of the NUMERIC(10,2) fees column.
var maxFees = decimal.New(1, 8)

var (
	ErrNegativeFees          = apperror.New(apperror.KindValidation, "fees must not be negative")
	ErrInvalidFees           = apperror.New(apperror.KindValidation, "fees must be below 100000000 with at most 2 decimal places")
	ErrInvalidSpecialization = apperror.New(apperror.KindValidation, "specialization must be one of: nerves heart lungs skin")
)

// AppointmentUsecase drives the appointment lifecycle. Every mutation is
// decided by the policy engine before the store is touched.
type AppointmentUsecase interface {
	Book(ctx context.Context, caller entity.Identity, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListForCaller(ctx context.Context, caller entity.Identity) (*dto.AppointmentListResponse, error)
	UpdateByDoctor(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID, req *dto.DoctorUpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateByPatient(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID, req *dto.UpdateSymptomsRequest) (*dto.AppointmentResponse, error)
	RequestDeletion(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID) (*dto.DeletionRequestResponse, error)
	ListDoctors(ctx context.Context, specialization string) (*dto.UserListResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	validator       *validator.CustomValidator
	policy          *policy.Engine
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	deletionRepo    repository.DeletionRequestRepository
	auditService    service.AuditService
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	validator *validator.CustomValidator,
	policyEngine *policy.Engine,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	deletionRepo repository.DeletionRequestRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		validator:       validator,
		policy:          policyEngine,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		deletionRepo:    deletionRepo,
		auditService:    auditService,
		now:             time.Now,
	}
}

func (u *appointmentUsecase) Book(ctx context.Context, caller entity.Identity, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if _, err := u.policy.Authorize(caller, policy.ActionBookAppointment); err != nil {
		return nil, err
	}
	if err := validateRequest(u.validator, req); err != nil {
		return nil, err
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "invalid doctor_id", err)
	}

	doctor, err := u.userRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if err := u.policy.CanBook(caller, doctor, req.AppointmentDateTime, u.now()); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID:           caller.UserID,
		DoctorID:            doctor.ID,
		AppointmentDateTime: req.AppointmentDateTime.UTC(),
		Symptoms:            req.Symptoms,
	}
	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}
	appointment.Doctor = doctor

	response := converter.AppointmentToResponse(appointment)
	_ = u.auditService.LogCreate(ctx, &caller.UserID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), response)

	return response, nil
}

// ListForCaller returns what the caller may see: everything for admins,
// their own appointments otherwise. Doctors and admins get the patient and
// doctor joined in.
func (u *appointmentUsecase) ListForCaller(ctx context.Context, caller entity.Identity) (*dto.AppointmentListResponse, error) {
	scope, err := u.policy.Authorize(caller, policy.ActionListAppointments)
	if err != nil {
		return nil, err
	}

	var appointments []entity.Appointment
	switch {
	case scope == policy.ScopeAll:
		appointments, err = u.appointmentRepo.FindAllJoined(ctx)
	case caller.Role == entity.RoleDoctor:
		appointments, err = u.appointmentRepo.FindByDoctorIDJoined(ctx, caller.UserID)
	default:
		appointments, err = u.appointmentRepo.FindByPatientID(ctx, caller.UserID)
	}
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) UpdateByDoctor(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID, req *dto.DoctorUpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if _, err := u.policy.Authorize(caller, policy.ActionUpdateAsDoctor); err != nil {
		return nil, err
	}
	if err := validateRequest(u.validator, req); err != nil {
		return nil, err
	}
	if req.Fees == nil && req.Prescription == nil && req.IsDiagnosisDone == nil {
		return nil, ErrNothingToUpdate
	}
	if req.Fees != nil {
		if req.Fees.IsNegative() {
			return nil, ErrNegativeFees
		}
		if req.Fees.GreaterThanOrEqual(maxFees) || !req.Fees.Equal(req.Fees.Round(2)) {
			return nil, ErrInvalidFees
		}
	}

	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := u.policy.CanUpdateAsDoctor(caller, appointment); err != nil {
		return nil, err
	}

	update := entity.DoctorUpdate{
		Fees:            req.Fees,
		Prescription:    req.Prescription,
		IsDiagnosisDone: req.IsDiagnosisDone,
	}
	now := u.now()
	rows, err := u.appointmentRepo.UpdateDoctorFields(ctx, appointment.ID, update, now)
	if err != nil {
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAppointmentNotFound
	}

	before := converter.AppointmentToResponse(appointment)
	update.Apply(appointment)
	appointment.UpdatedAt = now

	response := converter.AppointmentToResponse(appointment)
	_ = u.auditService.LogUpdate(ctx, &caller.UserID, entity.AuditActionAppointmentUpdate, "appointment", appointment.ID.String(), before, response)

	return response, nil
}

// UpdateByPatient edits the symptoms. It is refused once the appointment
// is less than 24 hours away.
func (u *appointmentUsecase) UpdateByPatient(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID, req *dto.UpdateSymptomsRequest) (*dto.AppointmentResponse, error) {
	if _, err := u.policy.Authorize(caller, policy.ActionUpdateAsPatient); err != nil {
		return nil, err
	}
	if err := validateRequest(u.validator, req); err != nil {
		return nil, err
	}

	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	if err := u.policy.CanUpdateAsPatient(caller, appointment, now); err != nil {
		return nil, err
	}

	rows, err := u.appointmentRepo.UpdateSymptoms(ctx, appointment.ID, req.Symptoms, now)
	if err != nil {
		u.log.Warnf("Failed to update symptoms: %+v", err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAppointmentNotFound
	}

	before := converter.AppointmentToResponse(appointment)
	appointment.Symptoms = req.Symptoms
	appointment.UpdatedAt = now

	response := converter.AppointmentToResponse(appointment)
	_ = u.auditService.LogUpdate(ctx, &caller.UserID, entity.AuditActionAppointmentUpdate, "appointment", appointment.ID.String(), before, response)

	return response, nil
}

// RequestDeletion files (or refreshes) the caller's request to have the
// appointment removed. Nothing is deleted until an admin approves it.
func (u *appointmentUsecase) RequestDeletion(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID) (*dto.DeletionRequestResponse, error) {
	if _, err := u.policy.Authorize(caller, policy.ActionRequestDeletion); err != nil {
		return nil, err
	}

	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := u.policy.CanRequestDeletion(caller, appointment); err != nil {
		return nil, err
	}

	request := &entity.DeletionRequest{
		AppointmentID: appointment.ID,
		RequestedBy:   caller.UserID,
		RequestedAt:   u.now().UTC(),
	}
	if err := u.deletionRepo.Set(ctx, request); err != nil {
		u.log.Warnf("Failed to store deletion request: %+v", err)
		return nil, err
	}

	response := converter.DeletionRequestToResponse(request)
	_ = u.auditService.LogCreate(ctx, &caller.UserID, entity.AuditActionDeletionRequest, "appointment", appointment.ID.String(), response)

	return response, nil
}

func (u *appointmentUsecase) ListDoctors(ctx context.Context, specialization string) (*dto.UserListResponse, error) {
	var filter *entity.Specialization
	if specialization != "" {
		sp, ok := entity.ParseSpecialization(specialization)
		if !ok {
			return nil, ErrInvalidSpecialization
		}
		filter = &sp
	}

	doctors, err := u.userRepo.FindDoctors(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(doctors),
		Total: len(doctors),
	}, nil
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}
