package usecase

import (
	"context"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/apperror"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/policy"

	"github.com/sirupsen/logrus"
)

const (
	DefaultAuditLogLimit = 100
	MaxAuditLogLimit     = 500
)

var (
	ErrAuditLogNotFound = apperror.New(apperror.KindNotFound, "audit log not found")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, caller entity.Identity, limit int) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, caller entity.Identity, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	policy       *policy.Engine
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	log *logrus.Logger,
	policyEngine *policy.Engine,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		policy:       policyEngine,
		auditLogRepo: auditLogRepo,
	}
}

// GetAllAuditLogs returns the newest entries first. A limit outside
// (0, MaxAuditLogLimit] falls back to the default or the maximum.
func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, caller entity.Identity, limit int) (*dto.AuditLogListResponse, error) {
	if _, err := u.policy.Authorize(caller, policy.ActionViewAuditLog); err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = DefaultAuditLogLimit
	case limit > MaxAuditLogLimit:
		limit = MaxAuditLogLimit
	}

	logs, err := u.auditLogRepo.FindAll(ctx, limit)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, caller entity.Identity, id int64) (*dto.AuditLogResponse, error) {
	if _, err := u.policy.Authorize(caller, policy.ActionViewAuditLog); err != nil {
		return nil, err
	}

	auditLog, err := u.auditLogRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
