package service

import (
	"context"
	"errors"
	"fmt"

	"hris_backend/internal/model"
	"hris_backend/internal/repository"
	"hris_backend/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// AuthService provides login, request authentication and logout
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.User, *model.TokenPayload, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
	Logout(ctx context.Context, token string)
}

type authService struct {
	userRepo    repository.UserRepository
	jwtUtil     *utils.JWTUtil
	revocations *utils.RevocationRegistry
	clock       utils.Clock
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, revocations *utils.RevocationRegistry, clock utils.Clock) AuthService {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &authService{
		userRepo:    userRepo,
		jwtUtil:     jwtUtil,
		revocations: revocations,
		clock:       clock,
	}
}

// Login checks the credentials and issues an access token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *model.TokenPayload, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return user, &model.TokenPayload{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtUtil.TTL().Seconds()),
	}, nil
}

// Authenticate runs the token through signature, expiry, type, revocation,
// user and role checks, stopping at the first failure.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtUtil.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}

	if claims.Type != utils.TokenTypeAccess {
		return nil, ErrWrongTokenType
	}

	if s.revocations.IsRevoked(claims.ID) {
		return nil, ErrTokenRevoked
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token owner: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	if string(user.Role) != claims.Role {
		return nil, ErrRoleMismatch
	}

	return user, nil
}

// Logout revokes the token until its own expiry. Tokens that cannot be
// decoded, are already expired or carry no jti are ignored.
func (s *authService) Logout(_ context.Context, token string) {
	claims, err := s.jwtUtil.ParseToken(token)
	if err != nil {
		log.Debug().Err(err).Msg("logout with unusable token, nothing to revoke")
		return
	}
	if claims.ID == "" {
		return
	}

	expiresAt := s.clock.Now().Add(s.jwtUtil.TTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	s.revocations.Revoke(claims.ID, expiresAt)
}
