package usecase

import (
	"context"
	"strings"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/apperror"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/jwt"
	"clinic-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists        = apperror.New(apperror.KindValidation, "email already exists")
	ErrDoctorFieldsForNonDoctor  = apperror.New(apperror.KindValidation, "specialization and available_days are only allowed for doctors")
	ErrAdminRegistrationDisabled = apperror.New(apperror.KindForbidden, "admin registration is disabled")
	ErrInvalidCredentials        = apperror.New(apperror.KindUnauthorized, "invalid email or password")
	ErrInvalidToken              = apperror.New(apperror.KindUnauthorized, "invalid or expired token")
	ErrTokenRevoked              = apperror.New(apperror.KindUnauthorized, "token has been revoked")
)

// Session is a verified access token: who is calling, and which token
// they used.
type Session struct {
	Identity entity.Identity
	TokenID  string
}

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	VerifyToken(ctx context.Context, token string) (*Session, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, session Session, req *dto.LogoutRequest) error
	GetCurrentUser(ctx context.Context, caller entity.Identity) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, caller entity.Identity, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type authUsecase struct {
	log          *logrus.Logger
	validator    *validator.CustomValidator
	userRepo     repository.UserRepository
	jwtService   *jwt.JWTService
	sessions     service.SessionStore
	auditService service.AuditService
	appConfig    config.AppConfig
}

func NewAuthUsecase(
	log *logrus.Logger,
	validator *validator.CustomValidator,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	sessions service.SessionStore,
	auditService service.AuditService,
	appConfig config.AppConfig,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		validator:    validator,
		userRepo:     userRepo,
		jwtService:   jwtService,
		sessions:     sessions,
		auditService: auditService,
		appConfig:    appConfig,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(u.validator, req); err != nil {
		return nil, err
	}

	role, ok := entity.ParseRole(req.Role)
	if !ok {
		return nil, apperror.New(apperror.KindValidation, "invalid role")
	}
	if role == entity.RoleAdmin && !u.appConfig.AllowAdminRegistration {
		return nil, ErrAdminRegistrationDisabled
	}
	if role != entity.RoleDoctor && (req.Specialization != "" || len(req.AvailableDays) > 0) {
		return nil, ErrDoctorFieldsForNonDoctor
	}

	email := req.Email
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		MobileNumber:   req.MobileNumber,
		Password:       string(hashedPassword),
		Role:           role,
		Specialization: entity.Specialization(req.Specialization),
		AvailableDays:  converter.StringsToWeekdays(req.AvailableDays),
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	response := converter.UserToResponse(user)
	_ = u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), response)

	return response, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(u.validator, req); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, accessTokenID, err := u.issueTokens(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	_ = u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserLogin, "session", accessTokenID, nil)

	return tokens, nil
}

// issueTokens signs a new access/refresh pair and registers both sessions.
func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, role entity.Role) (*dto.TokenResponse, string, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, role.String())
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, "", err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, role.String())
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, "", err
	}

	if err := u.sessions.Store(ctx, userID, accessTokenID, jwt.AccessToken, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, "", err
	}

	if err := u.sessions.Store(ctx, userID, refreshTokenID, jwt.RefreshToken, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, "", err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry() / time.Second),
	}, accessTokenID, nil
}

func (u *authUsecase) VerifyToken(ctx context.Context, token string) (*Session, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.AccessToken {
		return nil, ErrInvalidToken
	}

	role, ok := entity.ParseRole(claims.Role)
	if !ok {
		return nil, ErrInvalidToken
	}

	exists, err := u.sessions.Exists(ctx, claims.UserID, claims.TokenID, jwt.AccessToken)
	if err != nil {
		u.log.Warnf("Failed to check access token in Redis: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	return &Session{
		Identity: entity.Identity{UserID: claims.UserID, Role: role},
		TokenID:  claims.TokenID,
	}, nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	if err := validateRequest(u.validator, req); err != nil {
		return nil, err
	}

	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.sessions.Exists(ctx, claims.UserID, claims.TokenID, jwt.RefreshToken)
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Delete old refresh token
	if err := u.sessions.Delete(ctx, claims.UserID, claims.TokenID, jwt.RefreshToken); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by id: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	tokens, _, err := u.issueTokens(ctx, user.ID, user.Role)
	return tokens, err
}

// Logout revokes the access token of the session and, when given, the
// caller's refresh token.
func (u *authUsecase) Logout(ctx context.Context, session Session, req *dto.LogoutRequest) error {
	var refreshTokenID string
	if req != nil && req.RefreshToken != "" {
		claims, err := u.jwtService.ValidateToken(req.RefreshToken)
		if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != session.Identity.UserID {
			return ErrInvalidToken
		}
		refreshTokenID = claims.TokenID
	}

	userID := session.Identity.UserID
	if err := u.sessions.Delete(ctx, userID, session.TokenID, jwt.AccessToken); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}
	if refreshTokenID != "" {
		if err := u.sessions.Delete(ctx, userID, refreshTokenID, jwt.RefreshToken); err != nil {
			u.log.Warnf("Failed to delete refresh token: %+v", err)
			return err
		}
	}

	_ = u.auditService.LogDelete(ctx, &userID, entity.AuditActionUserLogout, "session", session.TokenID, nil)
	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, caller entity.Identity) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, caller.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by id: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// UpdateProfile changes the caller's own record. A password change
// revokes every session of the user, including the current one.
func (u *authUsecase) UpdateProfile(ctx context.Context, caller entity.Identity, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := validateRequest(u.validator, req); err != nil {
		return nil, err
	}
	if req.AvailableDays != nil && caller.Role != entity.RoleDoctor {
		return nil, ErrDoctorFieldsForNonDoctor
	}
	if req.Name == nil && req.MobileNumber == nil && req.Password == nil && req.AvailableDays == nil {
		return nil, ErrNothingToUpdate
	}

	before, err := u.userRepo.FindByID(ctx, caller.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by id: %+v", err)
		return nil, err
	}
	if before == nil {
		return nil, ErrUserNotFound
	}

	update := repository.UserProfileUpdate{
		Name:         req.Name,
		MobileNumber: req.MobileNumber,
	}
	if req.AvailableDays != nil {
		days := converter.StringsToWeekdays(*req.AvailableDays)
		update.AvailableDays = &days
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		hash := string(hashedPassword)
		update.PasswordHash = &hash
	}

	rows, err := u.userRepo.UpdateProfile(ctx, caller.UserID, update)
	if err != nil {
		u.log.Warnf("Failed to update user profile: %+v", err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrUserNotFound
	}

	if update.PasswordHash != nil {
		if _, err := u.sessions.RevokeAll(ctx, caller.UserID); err != nil {
			u.log.Warnf("Failed to revoke sessions after password change: %+v", err)
		}
	}

	after, err := u.userRepo.FindByID(ctx, caller.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by id: %+v", err)
		return nil, err
	}
	if after == nil {
		return nil, ErrUserNotFound
	}

	response := converter.UserToResponse(after)
	_ = u.auditService.LogUpdate(ctx, &caller.UserID, entity.AuditActionUserUpdate, "user", caller.UserID.String(),
		converter.UserToResponse(before), response)

	return response, nil
}
