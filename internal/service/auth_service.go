package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/errs"
	"gymhero/training-api/internal/policy"
	"gymhero/training-api/internal/repository"
	"gymhero/training-api/internal/security"

	"github.com/rs/zerolog"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errs.Invalid("Incorrect email or password")
	ErrInvalidCredentials   = errs.Unauthorized("Could not validate credentials")
)

// TokenCodec issues and verifies access tokens.
type TokenCodec interface {
	Encode(userID int64, ttl time.Duration) (string, error)
	Decode(token string) (*security.Claims, error)
}

// PasswordHasher is a one-way salted password hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// --- Service Interface ---
type AuthService interface {
	// Authenticate checks credentials. It does not look at the active flag.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	// Login authenticates an active user and issues a token for them.
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	IssueToken(userID int64) (string, error)
	// VerifyToken returns the token subject or ErrInvalidCredentials.
	VerifyToken(token string) (int64, error)
	// Resolve turns a bearer token into the stored user it names.
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// --- Service Implementation ---

// authService implements the AuthService interface.
type authService struct {
	users    repository.Repository[domain.User]
	codec    TokenCodec
	hasher   PasswordHasher
	tokenTTL time.Duration
	log      zerolog.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(users repository.Repository[domain.User], codec TokenCodec, hasher PasswordHasher, tokenTTL time.Duration, log zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &authService{
		users:    users,
		codec:    codec,
		hasher:   hasher,
		tokenTTL: tokenTTL,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrAuthenticationFailed
	}

	user, err := s.users.GetOne(ctx, repository.By("email", email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fromStore(err, "User")
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		s.log.Debug().Int64("user_id", user.ID).Msg("password mismatch")
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if err := policy.Active(user); err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

func (s *authService) IssueToken(userID int64) (string, error) {
	token, err := s.codec.Encode(userID, s.tokenTTL)
	if err != nil {
		return "", errs.Internal(err)
	}
	return token, nil
}

func (s *authService) VerifyToken(token string) (int64, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return 0, ErrInvalidCredentials
	}
	return claims.UserID, nil
}

// Resolve reports a token whose subject no longer exists exactly like a bad
// token.
func (s *authService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetOne(ctx, repository.By("id", id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fromStore(err, "User")
	}
	return user, nil
}
