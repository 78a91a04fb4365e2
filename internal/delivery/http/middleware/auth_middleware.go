package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-booking/internal/domain/apperror"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
	TokenIDKey  contextKey = "token_id"
)

type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthMiddleware(authUsecase usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		authUsecase: authUsecase,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		session, err := m.authUsecase.VerifyToken(r.Context(), parts[1])
		if err != nil {
			if apperror.KindOf(err) == apperror.KindUnauthorized {
				response.Unauthorized(w, apperror.MessageOf(err))
				return
			}
			response.InternalServerError(w, "Failed to validate token")
			return
		}

		ctx := WithSession(r.Context(), *session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithSession stores a verified session in ctx.
func WithSession(ctx context.Context, session usecase.Session) context.Context {
	ctx = context.WithValue(ctx, IdentityKey, session.Identity)
	return context.WithValue(ctx, TokenIDKey, session.TokenID)
}

// GetIdentityFromContext extracts the caller set by Authenticate
func GetIdentityFromContext(ctx context.Context) (entity.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(entity.Identity)
	return identity, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetSessionFromContext rebuilds the session Authenticate verified.
func GetSessionFromContext(ctx context.Context) (usecase.Session, bool) {
	identity, ok := GetIdentityFromContext(ctx)
	if !ok {
		return usecase.Session{}, false
	}
	tokenID, ok := GetTokenIDFromContext(ctx)
	if !ok {
		return usecase.Session{}, false
	}
	return usecase.Session{Identity: identity, TokenID: tokenID}, true
}
