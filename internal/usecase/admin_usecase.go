package usecase

import (
	"context"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/apperror"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/policy"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidRoleFilter = apperror.New(apperror.KindValidation, "role must be one of: admin doctor patient")

type AdminUsecase interface {
	ListUsers(ctx context.Context, caller entity.Identity, role string) (*dto.UserListResponse, error)
	DeleteUser(ctx context.Context, caller entity.Identity, userID uuid.UUID) error
	DeleteAppointment(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID) error
	ListDeletionRequests(ctx context.Context, caller entity.Identity) (*dto.DeletionRequestListResponse, error)
	ApproveDeletionRequest(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID) error
	RejectDeletionRequest(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID) error
	GenerateReport(ctx context.Context, caller entity.Identity) (*dto.ReportResponse, error)
	ExportReport(ctx context.Context, caller entity.Identity) (string, error)
}

type adminUsecase struct {
	log             *logrus.Logger
	policy          *policy.Engine
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	deletionRepo    repository.DeletionRequestRepository
	sessions        service.SessionStore
	exporter        service.ReportExporter
	auditService    service.AuditService
}

func NewAdminUsecase(
	log *logrus.Logger,
	policyEngine *policy.Engine,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	deletionRepo repository.DeletionRequestRepository,
	sessions service.SessionStore,
	exporter service.ReportExporter,
	auditService service.AuditService,
) AdminUsecase {
	return &adminUsecase{
		log:             log,
		policy:          policyEngine,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		deletionRepo:    deletionRepo,
		sessions:        sessions,
		exporter:        exporter,
		auditService:    auditService,
	}
}

func (u *adminUsecase) ListUsers(ctx context.Context, caller entity.Identity, role string) (*dto.UserListResponse, error) {
	if _, err := u.policy.Authorize(caller, policy.ActionListUsers); err != nil {
		return nil, err
	}

	var filter *entity.Role
	if role != "" {
		r, ok := entity.ParseRole(role)
		if !ok {
			return nil, ErrInvalidRoleFilter
		}
		filter = &r
	}

	users, err := u.userRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

// DeleteUser removes the account and revokes its sessions. Appointments
// that reference the user are kept.
func (u *adminUsecase) DeleteUser(ctx context.Context, caller entity.Identity, userID uuid.UUID) error {
	if _, err := u.policy.Authorize(caller, policy.ActionDeleteUser); err != nil {
		return err
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by id: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	rows, err := u.userRepo.Delete(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	if revoked, err := u.sessions.RevokeAll(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke sessions of deleted user %s: %+v", userID, err)
	} else {
		u.log.WithFields(logrus.Fields{"user_id": userID, "sessions": revoked}).Info("Sessions revoked for deleted user")
	}

	_ = u.auditService.LogDelete(ctx, &caller.UserID, entity.AuditActionUserDelete, "user", userID.String(), converter.UserToResponse(user))
	return nil
}

// DeleteAppointment removes the appointment together with any pending
// deletion request for it.
func (u *adminUsecase) DeleteAppointment(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID) error {
	if _, err := u.policy.Authorize(caller, policy.ActionDeleteAppointment); err != nil {
		return err
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if err := u.removeAppointment(ctx, appointmentID); err != nil {
		return err
	}

	_ = u.auditService.LogDelete(ctx, &caller.UserID, entity.AuditActionAppointmentDelete, "appointment", appointmentID.String(), converter.AppointmentToResponse(appointment))
	return nil
}

func (u *adminUsecase) removeAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	rows, err := u.appointmentRepo.Delete(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to delete appointment: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrAppointmentNotFound
	}

	if _, err := u.deletionRepo.Delete(ctx, appointmentID); err != nil {
		u.log.Warnf("Failed to clear deletion request of %s: %+v", appointmentID, err)
	}
	return nil
}

func (u *adminUsecase) ListDeletionRequests(ctx context.Context, caller entity.Identity) (*dto.DeletionRequestListResponse, error) {
	if _, err := u.policy.Authorize(caller, policy.ActionReviewDeletion); err != nil {
		return nil, err
	}

	requests, err := u.deletionRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list deletion requests: %+v", err)
		return nil, err
	}

	return &dto.DeletionRequestListResponse{
		Requests: converter.DeletionRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

// ApproveDeletionRequest deletes the appointment a patient asked to have
// removed. A request whose appointment is already gone is cleared and
// reported as not found.
func (u *adminUsecase) ApproveDeletionRequest(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID) error {
	if _, err := u.policy.Authorize(caller, policy.ActionReviewDeletion); err != nil {
		return err
	}

	request, err := u.deletionRepo.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find deletion request: %+v", err)
		return err
	}
	if request == nil {
		return ErrDeletionRequestNotFound
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return err
	}
	if appointment == nil {
		if _, err := u.deletionRepo.Delete(ctx, appointmentID); err != nil {
			u.log.Warnf("Failed to clear stale deletion request: %+v", err)
		}
		return ErrAppointmentNotFound
	}

	if err := u.removeAppointment(ctx, appointmentID); err != nil {
		return err
	}

	_ = u.auditService.LogDelete(ctx, &caller.UserID, entity.AuditActionDeletionApprove, "appointment", appointmentID.String(), converter.AppointmentToResponse(appointment))
	return nil
}

func (u *adminUsecase) RejectDeletionRequest(ctx context.Context, caller entity.Identity, appointmentID uuid.UUID) error {
	if _, err := u.policy.Authorize(caller, policy.ActionReviewDeletion); err != nil {
		return err
	}

	request, err := u.deletionRepo.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find deletion request: %+v", err)
		return err
	}
	if request == nil {
		return ErrDeletionRequestNotFound
	}

	if _, err := u.deletionRepo.Delete(ctx, appointmentID); err != nil {
		u.log.Warnf("Failed to delete deletion request: %+v", err)
		return err
	}

	_ = u.auditService.LogDelete(ctx, &caller.UserID, entity.AuditActionDeletionReject, "deletion_request", appointmentID.String(), converter.DeletionRequestToResponse(request))
	return nil
}

func (u *adminUsecase) GenerateReport(ctx context.Context, caller entity.Identity) (*dto.ReportResponse, error) {
	report, err := u.buildReport(ctx, caller)
	if err != nil {
		return nil, err
	}

	return &dto.ReportResponse{
		DoctorCount:      report.DoctorCount,
		PatientCount:     report.PatientCount,
		AppointmentCount: report.AppointmentCount,
	}, nil
}

// ExportReport writes the current report to disk and returns its path.
func (u *adminUsecase) ExportReport(ctx context.Context, caller entity.Identity) (string, error) {
	report, err := u.buildReport(ctx, caller)
	if err != nil {
		return "", err
	}

	path, err := u.exporter.Export(ctx, report.Rows())
	if err != nil {
		u.log.Warnf("Failed to export report: %+v", err)
		return "", err
	}

	_ = u.auditService.LogCreate(ctx, &caller.UserID, entity.AuditActionReportExport, "report", path, report.Rows())
	return path, nil
}

func (u *adminUsecase) buildReport(ctx context.Context, caller entity.Identity) (*entity.Report, error) {
	if _, err := u.policy.Authorize(caller, policy.ActionGenerateReport); err != nil {
		return nil, err
	}

	var (
		counts           map[entity.Role]int64
		appointmentCount int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = u.userRepo.CountByRole(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		appointmentCount, err = u.appointmentRepo.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to generate report: %+v", err)
		return nil, err
	}

	return &entity.Report{
		DoctorCount:      counts[entity.RoleDoctor],
		PatientCount:     counts[entity.RolePatient],
		AppointmentCount: appointmentCount,
	}, nil
}
