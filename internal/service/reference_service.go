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

// ReferenceService manages one kind of shared lookup data (levels, body
// parts, exercise types). Reads are public; writes need a superuser.
type ReferenceService[T domain.Named] interface {
	Get(ctx context.Context, id int64) (*T, error)
	GetByName(ctx context.Context, name string) (*T, error)
	List(ctx context.Context, page repository.Page) ([]T, error)
	Create(ctx context.Context, actor *domain.User, name string) (*T, error)
	Update(ctx context.Context, actor *domain.User, id int64, patch domain.NamePatch) (*T, error)
	Delete(ctx context.Context, actor *domain.User, id int64) (*T, error)
}

type referenceService[T domain.Named] struct {
	repo  repository.Repository[T]
	label string
	build func(name string) *T
	log   zerolog.Logger
}

// NewReferenceService creates the service for T. label names T in messages
// ("Level") and build makes a new record from a name.
func NewReferenceService[T domain.Named](repo repository.Repository[T], label string, build func(name string) *T, log zerolog.Logger) ReferenceService[T] {
	return &referenceService[T]{
		repo:  repo,
		label: label,
		build: build,
		log:   log.With().Str("service", strings.ToLower(label)).Logger(),
	}
}

func (s *referenceService[T]) Get(ctx context.Context, id int64) (*T, error) {
	rec, err := s.repo.GetOne(ctx, repository.By("id", id))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundByID(s.label, id)
	}
	return rec, fromStore(err, s.label)
}

func (s *referenceService[T]) GetByName(ctx context.Context, name string) (*T, error) {
	rec, err := s.repo.GetOne(ctx, repository.By("name", name))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errs.NotFound("%s with name %s not found", s.label, name)
	}
	return rec, fromStore(err, s.label)
}

func (s *referenceService[T]) List(ctx context.Context, page repository.Page) ([]T, error) {
	recs, err := s.repo.GetMany(ctx, repository.Filter{}, page)
	return recs, fromStore(err, s.label)
}

func (s *referenceService[T]) Create(ctx context.Context, actor *domain.User, name string) (*T, error) {
	var zero T
	if err := policy.Authorize(actor, zero, policy.Create); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Invalid("name cannot be empty")
	}

	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}
	rec, err := s.repo.Create(ctx, s.build(name))
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, s.nameTaken(name)
	}
	if err != nil {
		return nil, fromStore(err, s.label)
	}
	s.log.Info().Int64("id", (*rec).GetID()).Str("name", name).Msg("created")
	return rec, nil
}

func (s *referenceService[T]) Update(ctx context.Context, actor *domain.User, id int64, patch domain.NamePatch) (*T, error) {
	var zero T
	if err := policy.Authorize(actor, zero, policy.Write); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, errs.Invalid("%s", err.Error())
	}
	patch.Name.Value = strings.TrimSpace(patch.Name.Value)

	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name.Set && patch.Name.Value != (*rec).GetName() {
		if err := s.ensureNameFree(ctx, patch.Name.Value); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, rec, patch)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, s.nameTaken(patch.Name.Value)
	}
	return updated, fromStore(err, s.label)
}

func (s *referenceService[T]) Delete(ctx context.Context, actor *domain.User, id int64) (*T, error) {
	var zero T
	if err := policy.Authorize(actor, zero, policy.Delete); err != nil {
		return nil, err
	}
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, rec)
	if errors.Is(err, repository.ErrReferenced) {
		return nil, errs.Conflict("%s with id %d is still used by exercises. Cannot delete.", s.label, id)
	}
	if err != nil {
		return nil, fromStore(err, s.label)
	}
	s.log.Info().Int64("id", id).Msg("deleted")
	return deleted, nil
}

func (s *referenceService[T]) ensureNameFree(ctx context.Context, name string) error {
	n, err := s.repo.Count(ctx, repository.By("name", name))
	if err != nil {
		return fromStore(err, s.label)
	}
	if n > 0 {
		return s.nameTaken(name)
	}
	return nil
}

func (s *referenceService[T]) nameTaken(name string) error {
	return errs.Conflict("%s with name %s already exists", s.label, name)
}
