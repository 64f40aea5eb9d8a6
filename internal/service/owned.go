package service

import (
	"context"
	"errors"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/errs"
	"gymhero/training-api/internal/policy"
	"gymhero/training-api/internal/repository"
)

// owned holds the CRUD steps shared by exercises, training units and
// training plans. Each step checks the account gate before touching storage.
type owned[T domain.Owned] struct {
	repo  repository.Repository[T]
	label string
}

// load fetches a record without any visibility check.
func (o owned[T]) load(ctx context.Context, id int64) (*T, error) {
	rec, err := o.repo.GetOne(ctx, repository.By("id", id))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundByID(o.label, id)
	}
	return rec, fromStore(err, o.label)
}

// loadFor fetches a record and authorizes c on it. Records the actor may not
// read come back as not found.
func (o owned[T]) loadFor(ctx context.Context, actor *domain.User, id int64, c policy.Capability) (*T, error) {
	if err := policy.Active(actor); err != nil {
		return nil, err
	}
	rec, err := o.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, *rec, c); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, notFoundByID(o.label, id)
		}
		return nil, err
	}
	return rec, nil
}

func (o owned[T]) get(ctx context.Context, actor *domain.User, id int64) (*T, error) {
	return o.loadFor(ctx, actor, id, policy.Read)
}

// getByName looks the name up among the actor's records; superusers search
// every owner and get the lowest id on ambiguity.
func (o owned[T]) getByName(ctx context.Context, actor *domain.User, name string) (*T, error) {
	if err := policy.Active(actor); err != nil {
		return nil, err
	}
	f := repository.By("name", name)
	if !actor.IsSuperuser {
		f = f.By("owner_id", actor.ID)
	}
	rec, err := o.repo.GetOne(ctx, f)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errs.NotFound("%s with name %s not found for user %d", o.label, name, actor.ID)
	}
	return rec, fromStore(err, o.label)
}

func (o owned[T]) listAll(ctx context.Context, page repository.Page) ([]T, error) {
	recs, err := o.repo.GetMany(ctx, repository.Filter{}, page)
	return recs, fromStore(err, o.label)
}

func (o owned[T]) listMine(ctx context.Context, actor *domain.User, page repository.Page) ([]T, error) {
	if err := policy.Active(actor); err != nil {
		return nil, err
	}
	recs, err := o.repo.GetManyForOwner(ctx, actor.ID, repository.Filter{}, page)
	return recs, fromStore(err, o.label)
}

// create stamps the actor as owner.
func (o owned[T]) create(ctx context.Context, actor *domain.User, rec *T) (*T, error) {
	var zero T
	if err := policy.Authorize(actor, zero, policy.Create); err != nil {
		return nil, err
	}
	created, err := o.repo.CreateWithOwner(ctx, rec, actor.ID)
	return created, fromStore(err, o.label)
}

func (o owned[T]) update(ctx context.Context, actor *domain.User, id int64, patch repository.Patch) (*T, error) {
	rec, err := o.loadFor(ctx, actor, id, policy.Write)
	if err != nil {
		return nil, err
	}
	updated, err := o.repo.Update(ctx, rec, patch)
	return updated, fromStore(err, o.label)
}

// nameFree reports a conflict when ownerID already has a record named name.
func (o owned[T]) nameFree(ctx context.Context, ownerID int64, name string) error {
	n, err := o.repo.Count(ctx, repository.By("name", name).By("owner_id", ownerID))
	if err != nil {
		return fromStore(err, o.label)
	}
	if n > 0 {
		return o.nameTaken(ownerID, name)
	}
	return nil
}

func (o owned[T]) nameTaken(ownerID int64, name string) error {
	return errs.Conflict("%s with name %s already exists for user %d", o.label, name, ownerID)
}
