package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/policy"
	repoimpl "clinic-booking/internal/repository"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/jwt"
	"clinic-booking/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memUserRepository is an in-memory identity store.
type memUserRepository struct {
	mu        sync.Mutex
	users     map[uuid.UUID]entity.User
	order     []uuid.UUID
	createErr error
}

var _ repository.UserRepository = (*memUserRepository)(nil)

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: map[uuid.UUID]entity.User{}}
}

func (r *memUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	r.order = append(r.order, user.ID)
	return nil
}

func (r *memUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepository) FindAll(ctx context.Context, role *entity.Role) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, id := range r.order {
		u, ok := r.users[id]
		if !ok || (role != nil && u.Role != *role) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepository) FindDoctors(ctx context.Context, specialization *entity.Specialization) ([]entity.User, error) {
	doctor := entity.RoleDoctor
	all, _ := r.FindAll(ctx, &doctor)
	var out []entity.User
	for _, u := range all {
		if specialization == nil || u.Specialization == *specialization {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update repository.UserProfileUpdate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return 0, nil
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.MobileNumber != nil {
		u.MobileNumber = *update.MobileNumber
	}
	if update.PasswordHash != nil {
		u.Password = *update.PasswordHash
	}
	if update.AvailableDays != nil {
		u.AvailableDays = *update.AvailableDays
	}
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return 1, nil
}

func (r *memUserRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

func (r *memUserRepository) CountByRole(ctx context.Context) (map[entity.Role]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[entity.Role]int64{}
	for _, u := range r.users {
		counts[u.Role]++
	}
	return counts, nil
}

func (r *memUserRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// memAppointmentRepository is an in-memory appointment store. Joined
// queries resolve patient and doctor from users.
type memAppointmentRepository struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]entity.Appointment
	users        *memUserRepository
}

var _ repository.AppointmentRepository = (*memAppointmentRepository)(nil)

func newMemAppointmentRepository(users *memUserRepository) *memAppointmentRepository {
	return &memAppointmentRepository{appointments: map[uuid.UUID]entity.Appointment{}, users: users}
}

func (r *memAppointmentRepository) Create(ctx context.Context, a *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	stored := *a
	stored.Patient, stored.Doctor = nil, nil
	r.appointments[a.ID] = stored
	return nil
}

func (r *memAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memAppointmentRepository) filter(keep func(entity.Appointment) bool, join bool) []entity.Appointment {
	r.mu.Lock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentDateTime.Before(out[j].AppointmentDateTime) })
	if join {
		for i := range out {
			out[i].Patient, _ = r.users.FindByID(context.Background(), out[i].PatientID)
			out[i].Doctor, _ = r.users.FindByID(context.Background(), out[i].DoctorID)
		}
	}
	return out
}

func (r *memAppointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool { return a.PatientID == patientID }, false), nil
}

func (r *memAppointmentRepository) FindByDoctorIDJoined(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool { return a.DoctorID == doctorID }, true), nil
}

func (r *memAppointmentRepository) FindAllJoined(ctx context.Context) ([]entity.Appointment, error) {
	return r.filter(func(entity.Appointment) bool { return true }, true), nil
}

func (r *memAppointmentRepository) UpdateDoctorFields(ctx context.Context, id uuid.UUID, update entity.DoctorUpdate, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return 0, nil
	}
	update.Apply(&a)
	a.UpdatedAt = at
	r.appointments[id] = a
	return 1, nil
}

func (r *memAppointmentRepository) UpdateSymptoms(ctx context.Context, id uuid.UUID, symptoms string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return 0, nil
	}
	a.Symptoms = symptoms
	a.UpdatedAt = at
	r.appointments[id] = a
	return 1, nil
}

func (r *memAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return 0, nil
	}
	delete(r.appointments, id)
	return 1, nil
}

func (r *memAppointmentRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.appointments)), nil
}

// mockAuditService accepts every entry unless a test says otherwise.
type mockAuditService struct {
	mock.Mock
}

func (m *mockAuditService) LogCreate(ctx context.Context, actorID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return m.Called(ctx, actorID, action, entityName, entityID, newValue).Error(0)
}

func (m *mockAuditService) LogUpdate(ctx context.Context, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return m.Called(ctx, actorID, action, entityName, entityID, oldValue, newValue).Error(0)
}

func (m *mockAuditService) LogDelete(ctx context.Context, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return m.Called(ctx, actorID, action, entityName, entityID, oldValue).Error(0)
}

func newPermissiveAudit() *mockAuditService {
	m := new(mockAuditService)
	m.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("LogDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// testNow is the fixed clock of every harness.
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type harness struct {
	users        *memUserRepository
	appointments *memAppointmentRepository
	ledger       repository.DeletionRequestRepository
	sessions     service.SessionStore
	audit        *mockAuditService
	redis        *miniredis.Miniredis

	auth        AuthUsecase
	appointment AppointmentUsecase
	admin       AdminUsecase
}

type harnessOption func(*config.Config)

func withPolicy(p config.PolicyConfig) harnessOption {
	return func(c *config.Config) { c.Policy = p }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{AllowAdminRegistration: true},
		JWT: config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour, RefreshExpiry: 24 * time.Hour},
		Policy: config.PolicyConfig{
			EnforceDoctorOwnership: true,
			DeletionRequestTTL:     7 * 24 * time.Hour,
		},
		Report: config.ReportConfig{Dir: t.TempDir()},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	h := &harness{
		users:    newMemUserRepository(),
		ledger:   repoimpl.NewDeletionRequestRepository(client, cfg.Policy.DeletionRequestTTL),
		sessions: service.NewSessionStore(client),
		audit:    newPermissiveAudit(),
		redis:    mr,
	}
	h.appointments = newMemAppointmentRepository(h.users)

	v := validator.NewValidator()
	engine := policy.NewEngine(cfg.Policy)

	h.auth = NewAuthUsecase(log, v, h.users, jwt.NewJWTService(cfg.JWT), h.sessions, h.audit, cfg.App)

	appointment := NewAppointmentUsecase(log, v, engine, h.users, h.appointments, h.ledger, h.audit)
	appointment.(*appointmentUsecase).now = func() time.Time { return testNow }
	h.appointment = appointment

	h.admin = NewAdminUsecase(log, engine, h.users, h.appointments, h.ledger, h.sessions,
		service.NewReportExporter(cfg.Report, log), h.audit)

	return h
}

// seedUser stores a user directly, bypassing registration.
func (h *harness) seedUser(t *testing.T, name string, role entity.Role) entity.Identity {
	t.Helper()
	user := &entity.User{Name: name, Email: name + "@clinic.test", MobileNumber: "08123456789", Role: role}
	require.NoError(t, h.users.Create(context.Background(), user))
	return entity.Identity{UserID: user.ID, Role: role}
}

// seedAppointment stores an appointment directly, bypassing the policy.
func (h *harness) seedAppointment(t *testing.T, patient, doctor entity.Identity, at time.Time) uuid.UUID {
	t.Helper()
	a := &entity.Appointment{PatientID: patient.UserID, DoctorID: doctor.UserID, AppointmentDateTime: at, Symptoms: "cough"}
	require.NoError(t, h.appointments.Create(context.Background(), a))
	return a.ID
}

func identityOf(role entity.Role) entity.Identity {
	return entity.Identity{UserID: uuid.New(), Role: role}
}
