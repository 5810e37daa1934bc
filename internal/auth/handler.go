package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/careerforge/backend/internal/event"
	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/pkg/apperr"
	"github.com/careerforge/backend/pkg/utils"
)

// UserStore is the persistence surface the auth handlers need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, email, passwordHash, fullName string) (*models.User, error)
}

// TokenResponse is the auth response carrying the session token.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler implements the auth steps.
type Handler struct {
	repo      UserStore
	jwt       *JWTService
	verifier  *Verifier
	blocklist Blocklist
	logger    *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo UserStore, jwt *JWTService, verifier *Verifier, blocklist Blocklist, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, verifier: verifier, blocklist: blocklist, logger: logger}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login implements the LOGIN step.
func (h *Handler) Login(ctx context.Context, req *event.Request) (any, error) {
	var p loginPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if p.Email == "" || p.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := h.repo.GetByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, apperr.Upstream("failed to look up user", err)
	}
	if !utils.CheckPassword(p.Password, user.Password) {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	token, err := h.jwt.Generate(user.ID.String(), user.Email, user.FullName)
	if err != nil {
		return nil, apperr.Upstream("failed to generate token", err)
	}
	return TokenResponse{Token: token, User: user.ToPublic()}, nil
}

type registerPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register implements the REGISTER step.
func (h *Handler) Register(ctx context.Context, req *event.Request) (any, error) {
	var p registerPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(p.Password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}
	if p.Name == "" {
		return nil, apperr.Validation("name is required")
	}

	if _, err := h.repo.GetByEmail(ctx, p.Email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, apperr.Upstream("failed to look up user", err)
	}

	hash, err := utils.HashPassword(p.Password)
	if err != nil {
		return nil, apperr.Upstream("failed to hash password", err)
	}
	user, err := h.repo.Create(ctx, p.Email, hash, p.Name)
	if err != nil {
		return nil, apperr.Upstream("failed to create user", err)
	}

	token, err := h.jwt.Generate(user.ID.String(), user.Email, user.FullName)
	if err != nil {
		return nil, apperr.Upstream("failed to generate token", err)
	}
	h.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return TokenResponse{Token: token, User: user.ToPublic()}, nil
}

// Logout implements the LOGOUT step: the token's JTI goes on the blocklist
// until the token would have expired anyway.
func (h *Handler) Logout(ctx context.Context, req *event.Request) (any, error) {
	claims, err := h.jwt.Validate(req.Token)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	ttl := time.Duration(0)
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := h.blocklist.Revoke(ctx, claims.ID, ttl); err != nil {
		return nil, apperr.Upstream("failed to revoke token", err)
	}
	return map[string]any{"loggedOut": true}, nil
}

type verifyPayload struct {
	Token string `json:"token"`
}

// VerifyToken implements the VERIFY_TOKEN step. The token may arrive in the
// payload or as the bearer header.
func (h *Handler) VerifyToken(ctx context.Context, req *event.Request) (any, error) {
	var p verifyPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	token := p.Token
	if token == "" {
		token = req.Token
	}
	if token == "" {
		return nil, apperr.Unauthorized("no token provided")
	}
	identity, err := h.verifier.Verify(ctx, token)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	return map[string]any{"valid": true, "user": identity}, nil
}
