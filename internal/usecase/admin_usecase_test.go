package usecase

import (
	"context"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/apperror"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedClinic(t *testing.T, h *harness) {
	t.Helper()
	doctors := []entity.Identity{
		h.seedUser(t, "bob", entity.RoleDoctor),
		h.seedUser(t, "dora", entity.RoleDoctor),
	}
	patients := []entity.Identity{
		h.seedUser(t, "alice", entity.RolePatient),
		h.seedUser(t, "carol", entity.RolePatient),
		h.seedUser(t, "erin", entity.RolePatient),
	}
	for i := 0; i < 5; i++ {
		h.seedAppointment(t, patients[i%3], doctors[i%2], testNow.Add(time.Duration(i+1)*time.Hour))
	}
}

func TestGenerateReport(t *testing.T) {
	h := newHarness(t)
	admin := h.seedUser(t, "root", entity.RoleAdmin)
	seedClinic(t, h)

	report, err := h.admin.GenerateReport(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, &dto.ReportResponse{DoctorCount: 2, PatientCount: 3, AppointmentCount: 5}, report)
}

func TestExportReportWritesCSV(t *testing.T) {
	h := newHarness(t)
	admin := h.seedUser(t, "root", entity.RoleAdmin)
	seedClinic(t, h)

	path, err := h.admin.ExportReport(context.Background(), admin)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"metric", "value"},
		{"doctor_count", "2"},
		{"patient_count", "3"},
		{"appointment_count", "5"},
	}, records)

	h.audit.AssertCalled(t, "LogCreate", mock.Anything, mock.Anything, entity.AuditActionReportExport, "report", path, mock.Anything)
}

func TestAdminOperationsRequireAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, caller := range []entity.Identity{identityOf(entity.RolePatient), identityOf(entity.RoleDoctor)} {
		_, err := h.admin.GenerateReport(ctx, caller)
		assert.ErrorIs(t, err, policy.ErrRoleNotPermitted)
		_, err = h.admin.ExportReport(ctx, caller)
		assert.ErrorIs(t, err, policy.ErrRoleNotPermitted)
		_, err = h.admin.ListUsers(ctx, caller, "")
		assert.ErrorIs(t, err, policy.ErrRoleNotPermitted)
		assert.ErrorIs(t, h.admin.DeleteUser(ctx, caller, uuid.New()), policy.ErrRoleNotPermitted)
		assert.ErrorIs(t, h.admin.DeleteAppointment(ctx, caller, uuid.New()), policy.ErrRoleNotPermitted)
		_, err = h.admin.ListDeletionRequests(ctx, caller)
		assert.ErrorIs(t, err, policy.ErrRoleNotPermitted)
		assert.ErrorIs(t, h.admin.ApproveDeletionRequest(ctx, caller, uuid.New()), policy.ErrRoleNotPermitted)
		assert.ErrorIs(t, h.admin.RejectDeletionRequest(ctx, caller, uuid.New()), policy.ErrRoleNotPermitted)
	}
}

func TestListUsersFiltersByRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.seedUser(t, "root", entity.RoleAdmin)
	seedClinic(t, h)

	all, err := h.admin.ListUsers(ctx, admin, "")
	require.NoError(t, err)
	assert.Equal(t, 6, all.Total)

	doctors, err := h.admin.ListUsers(ctx, admin, "doctor")
	require.NoError(t, err)
	assert.Equal(t, 2, doctors.Total)

	_, err = h.admin.ListUsers(ctx, admin, "nurse")
	assert.ErrorIs(t, err, ErrInvalidRoleFilter)
}

func TestDeleteUserRevokesSessionsAndKeepsAppointments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.seedUser(t, "root", entity.RoleAdmin)

	_, err := h.auth.Register(ctx, registerRequest("bob", "doctor"))
	require.NoError(t, err)
	tokens, err := h.auth.Login(ctx, &dto.LoginRequest{Email: "bob@clinic.test", Password: "secret123"})
	require.NoError(t, err)
	session, err := h.auth.VerifyToken(ctx, tokens.AccessToken)
	require.NoError(t, err)
	bob := session.Identity

	alice := h.seedUser(t, "alice", entity.RolePatient)
	id := h.seedAppointment(t, alice, bob, testNow.Add(time.Hour))

	require.NoError(t, h.admin.DeleteUser(ctx, admin, bob.UserID))

	_, err = h.auth.VerifyToken(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	list, err := h.appointment.ListForCaller(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, id, list.Appointments[0].ID)
	assert.Nil(t, list.Appointments[0].Doctor, "dangling doctor reference")

	err = h.admin.DeleteUser(ctx, admin, bob.UserID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteAppointmentClearsDeletionRequest(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.seedUser(t, "root", entity.RoleAdmin)
	alice := h.seedUser(t, "alice", entity.RolePatient)
	bob := h.seedUser(t, "bob", entity.RoleDoctor)
	id := h.seedAppointment(t, alice, bob, testNow.Add(time.Hour))

	_, err := h.appointment.RequestDeletion(ctx, alice, id)
	require.NoError(t, err)

	require.NoError(t, h.admin.DeleteAppointment(ctx, admin, id))

	stored, err := h.appointments.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, stored)

	request, err := h.ledger.FindByAppointmentID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, request)

	assert.ErrorIs(t, h.admin.DeleteAppointment(ctx, admin, id), ErrAppointmentNotFound)
}

func TestReviewDeletionRequests(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.seedUser(t, "root", entity.RoleAdmin)
	alice := h.seedUser(t, "alice", entity.RolePatient)
	bob := h.seedUser(t, "bob", entity.RoleDoctor)
	approved := h.seedAppointment(t, alice, bob, testNow.Add(time.Hour))
	rejected := h.seedAppointment(t, alice, bob, testNow.Add(2*time.Hour))

	for _, id := range []uuid.UUID{approved, rejected} {
		_, err := h.appointment.RequestDeletion(ctx, alice, id)
		require.NoError(t, err)
	}

	pending, err := h.admin.ListDeletionRequests(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, pending.Total)

	require.NoError(t, h.admin.ApproveDeletionRequest(ctx, admin, approved))
	require.NoError(t, h.admin.RejectDeletionRequest(ctx, admin, rejected))

	gone, err := h.appointments.FindByID(ctx, approved)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := h.appointments.FindByID(ctx, rejected)
	require.NoError(t, err)
	assert.NotNil(t, kept)

	pending, err = h.admin.ListDeletionRequests(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, pending.Total)

	assert.ErrorIs(t, h.admin.ApproveDeletionRequest(ctx, admin, approved), ErrDeletionRequestNotFound)
	assert.ErrorIs(t, h.admin.RejectDeletionRequest(ctx, admin, rejected), ErrDeletionRequestNotFound)

	h.audit.AssertCalled(t, "LogDelete", mock.Anything, mock.Anything, entity.AuditActionDeletionApprove, "appointment", approved.String(), mock.Anything)
	h.audit.AssertCalled(t, "LogDelete", mock.Anything, mock.Anything, entity.AuditActionDeletionReject, "deletion_request", rejected.String(), mock.Anything)
}

func TestApproveDeletionRequestForVanishedAppointment(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.seedUser(t, "root", entity.RoleAdmin)
	alice := h.seedUser(t, "alice", entity.RolePatient)
	bob := h.seedUser(t, "bob", entity.RoleDoctor)
	id := h.seedAppointment(t, alice, bob, testNow.Add(time.Hour))

	_, err := h.appointment.RequestDeletion(ctx, alice, id)
	require.NoError(t, err)
	_, err = h.appointments.Delete(ctx, id)
	require.NoError(t, err)

	assert.ErrorIs(t, h.admin.ApproveDeletionRequest(ctx, admin, id), ErrAppointmentNotFound)

	request, err := h.ledger.FindByAppointmentID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, request, "stale request cleared")
}

func TestDeletionRequestsExpire(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.seedUser(t, "root", entity.RoleAdmin)
	alice := h.seedUser(t, "alice", entity.RolePatient)
	bob := h.seedUser(t, "bob", entity.RoleDoctor)
	id := h.seedAppointment(t, alice, bob, testNow.Add(time.Hour))

	_, err := h.appointment.RequestDeletion(ctx, alice, id)
	require.NoError(t, err)

	h.redis.FastForward(8 * 24 * time.Hour)

	pending, err := h.admin.ListDeletionRequests(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, pending.Total)
}
