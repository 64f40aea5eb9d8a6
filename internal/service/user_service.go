package service

import (
	"context"
	"errors"
	"strings"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/errs"
	"gymhero/training-api/internal/policy"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
)

const labelUser = "User"

// UserInput is the payload of a new account. IsActive defaults to true.
type UserInput struct {
	Email       string
	Password    string
	FullName    *string
	IsActive    *bool
	IsSuperuser bool
}

// UserService manages accounts. Every operation requires a superuser.
type UserService interface {
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, actor *domain.User, email string) (*domain.User, error)
	List(ctx context.Context, actor *domain.User, page repository.Page) ([]domain.User, error)
	Create(ctx context.Context, actor *domain.User, in UserInput) (*domain.User, error)
	Update(ctx context.Context, actor *domain.User, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id int64) (*domain.User, error)

	// EnsureSuperuser creates an active superuser with this email unless an
	// account with the email exists. It reports whether one was created.
	EnsureSuperuser(ctx context.Context, email, password, fullName string) (bool, error)
}

type userService struct {
	users  repository.Repository[domain.User]
	hasher PasswordHasher
	log    zerolog.Logger
}

func NewUserService(users repository.Repository[domain.User], hasher PasswordHasher, log zerolog.Logger) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		log:    log.With().Str("service", "user").Logger(),
	}
}

func (s *userService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.User, error) {
	if err := policy.Authorize(actor, domain.User{ID: id}, policy.Read); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *userService) GetByEmail(ctx context.Context, actor *domain.User, email string) (*domain.User, error) {
	if err := policy.Authorize(actor, domain.User{}, policy.Read); err != nil {
		return nil, err
	}
	user, err := s.users.GetOne(ctx, repository.By("email", email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errs.NotFound("User with email %s not found", email)
	}
	return user, fromStore(err, labelUser)
}

func (s *userService) List(ctx context.Context, actor *domain.User, page repository.Page) ([]domain.User, error) {
	if err := policy.Authorize(actor, domain.User{}, policy.List); err != nil {
		return nil, err
	}
	users, err := s.users.GetMany(ctx, repository.Filter{}, page)
	return users, fromStore(err, labelUser)
}

func (s *userService) Create(ctx context.Context, actor *domain.User, in UserInput) (*domain.User, error) {
	if err := policy.Authorize(actor, domain.User{}, policy.Create); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

func (s *userService) create(ctx context.Context, in UserInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	check := domain.UserPatch{Email: domain.Some(email), Password: domain.Some(in.Password)}
	if err := check.Validate(); err != nil {
		return nil, errs.Invalid("%s", err.Error())
	}
	if err := s.emailFree(ctx, email); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, errs.Internal(err)
	}
	user := &domain.User{
		Email:          email,
		HashedPassword: digest,
		FullName:       in.FullName,
		IsActive:       in.IsActive == nil || *in.IsActive,
		IsSuperuser:    in.IsSuperuser,
	}
	created, err := s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, emailTaken(email)
	}
	if err != nil {
		return nil, fromStore(err, labelUser)
	}
	s.log.Info().Int64("id", created.ID).Bool("superuser", created.IsSuperuser).Msg("user created")
	return created, nil
}

func (s *userService) Update(ctx context.Context, actor *domain.User, id int64, patch domain.UserPatch) (*domain.User, error) {
	if err := policy.Authorize(actor, domain.User{ID: id}, policy.Write); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, errs.Invalid("%s", err.Error())
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email.Set && patch.Email.Value != user.Email {
		if err := s.emailFree(ctx, patch.Email.Value); err != nil {
			return nil, err
		}
	}
	if patch.Password.Set {
		digest, err := s.hasher.Hash(patch.Password.Value)
		if err != nil {
			return nil, errs.Internal(err)
		}
		patch.HashedPassword = domain.Some(digest)
	}

	updated, err := s.users.Update(ctx, user, patch)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, emailTaken(patch.Email.Value)
	}
	return updated, fromStore(err, labelUser)
}

func (s *userService) Delete(ctx context.Context, actor *domain.User, id int64) (*domain.User, error) {
	if err := policy.Authorize(actor, domain.User{ID: id}, policy.Delete); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	deleted, err := s.users.Delete(ctx, user)
	if errors.Is(err, repository.ErrReferenced) {
		return nil, errs.Conflict("User with id %d still owns exercises, training units or training plans. Cannot delete.", id)
	}
	if err != nil {
		return nil, fromStore(err, labelUser)
	}
	s.log.Info().Int64("id", id).Msg("user deleted")
	return deleted, nil
}

func (s *userService) EnsureSuperuser(ctx context.Context, email, password, fullName string) (bool, error) {
	n, err := s.users.Count(ctx, repository.By("email", strings.TrimSpace(email)))
	if err != nil {
		return false, fromStore(err, labelUser)
	}
	if n > 0 {
		s.log.Debug().Str("email", email).Msg("superuser already present")
		return false, nil
	}

	in := UserInput{Email: email, Password: password, IsSuperuser: true}
	if fullName != "" {
		in.FullName = &fullName
	}
	if _, err := s.create(ctx, in); err != nil {
		// Another instance may have created it first.
		if errors.Is(err, errs.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *userService) load(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetOne(ctx, repository.By("id", id))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errs.NotFound("User with id %d not found", id)
	}
	return user, fromStore(err, labelUser)
}

func (s *userService) emailFree(ctx context.Context, email string) error {
	n, err := s.users.Count(ctx, repository.By("email", email))
	if err != nil {
		return fromStore(err, labelUser)
	}
	if n > 0 {
		return emailTaken(email)
	}
	return nil
}

func emailTaken(email string) error {
	return errs.Conflict("The user with this %s already exists in the system", email)
}
