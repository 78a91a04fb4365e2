package usecase

import (
	"context"
	"io"
	"testing"

	"clinic-booking/config"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/policy"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuditLogRepository struct {
	mock.Mock
}

func (m *mockAuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *mockAuditLogRepository) FindAll(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AuditLog), args.Error(1)
}

func (m *mockAuditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

func newAuditLogUsecase(repo *mockAuditLogRepository) AuditLogUsecase {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewAuditLogUsecase(log, policy.NewEngine(config.PolicyConfig{}), repo)
}

func TestGetAllAuditLogsClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, DefaultAuditLogLimit},
		{"negative", -3, DefaultAuditLogLimit},
		{"within range", 20, 20},
		{"too large", 10000, MaxAuditLogLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockAuditLogRepository)
			repo.On("FindAll", mock.Anything, tt.want).Return([]entity.AuditLog{{ID: 1, Action: entity.AuditActionUserLogin}}, nil).Once()

			resp, err := newAuditLogUsecase(repo).GetAllAuditLogs(context.Background(), identityOf(entity.RoleAdmin), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Total)
			repo.AssertExpectations(t)
		})
	}
}

func TestGetAuditLog(t *testing.T) {
	repo := new(mockAuditLogRepository)
	repo.On("FindByID", mock.Anything, int64(7)).Return(&entity.AuditLog{ID: 7, Action: entity.AuditActionUserDelete}, nil)
	repo.On("FindByID", mock.Anything, int64(8)).Return(nil, nil)
	uc := newAuditLogUsecase(repo)
	admin := identityOf(entity.RoleAdmin)

	resp, err := uc.GetAuditLog(context.Background(), admin, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionUserDelete, resp.Action)
	assert.Nil(t, resp.User)

	_, err = uc.GetAuditLog(context.Background(), admin, 8)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)

	_, err = uc.GetAuditLog(context.Background(), identityOf(entity.RoleDoctor), 7)
	assert.ErrorIs(t, err, policy.ErrRoleNotPermitted)
}
