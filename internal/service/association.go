package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/errs"
	"gymhero/training-api/internal/policy"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
)

// Members is a parent record with its current children.
type Members[P, C any] struct {
	Parent   P
	Children []C
}

// Association manages one many-to-many relation between owned records
// (plan to units, unit to exercises). Membership is read from the join
// storage inside the same transaction as the change, never from a cached
// collection.
type Association[P, C domain.Owned] struct {
	parents  owned[P]
	children owned[C]
	links    repository.JoinRepository
	tx       repository.Transactor
	log      zerolog.Logger
}

// NewAssociation creates the manager for the relation stored in links.
// parentLabel and childLabel name the sides in messages.
func NewAssociation[P, C domain.Owned](
	parents repository.Repository[P], parentLabel string,
	children repository.Repository[C], childLabel string,
	links repository.JoinRepository, tx repository.Transactor, log zerolog.Logger,
) *Association[P, C] {
	return &Association[P, C]{
		parents:  owned[P]{repo: parents, label: parentLabel},
		children: owned[C]{repo: children, label: childLabel},
		links:    links,
		tx:       tx,
		log:      log.With().Str("relation", parentLabel+"/"+childLabel).Logger(),
	}
}

// Add links child to parent. The actor must be allowed to write the parent
// and to read the child. An existing pair yields a conflict and changes
// nothing.
func (a *Association[P, C]) Add(ctx context.Context, actor *domain.User, parentID, childID int64) (*Members[P, C], error) {
	var out *Members[P, C]
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := policy.Active(actor); err != nil {
			return err
		}
		parent, err := a.parents.load(ctx, parentID)
		if err != nil {
			return err
		}
		child, err := a.children.load(ctx, childID)
		if err != nil {
			return err
		}
		if err := policy.Authorize(actor, *parent, policy.Write); err != nil {
			return err
		}
		if !policy.Visible(actor, *child) {
			return notFoundByID(a.children.label, childID)
		}

		exists, err := a.links.Exists(ctx, parentID, childID)
		if err != nil {
			return fromStore(err, a.parents.label)
		}
		if exists {
			return a.alreadyLinked(parentID, childID)
		}
		// A concurrent add may pass the check above; the pair constraint
		// rejects the second insert.
		if err := a.links.InsertPair(ctx, parentID, childID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return a.alreadyLinked(parentID, childID)
			}
			return fromStore(err, a.parents.label)
		}

		out, err = a.members(ctx, parent)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Info().Int64("parent_id", parentID).Int64("child_id", childID).Msg("linked")
	return out, nil
}

// Remove unlinks child from parent. Removing a pair that is not stored
// yields a not-in-relation error.
func (a *Association[P, C]) Remove(ctx context.Context, actor *domain.User, parentID, childID int64) (*Members[P, C], error) {
	var out *Members[P, C]
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := policy.Active(actor); err != nil {
			return err
		}
		parent, err := a.parents.load(ctx, parentID)
		if err != nil {
			return err
		}
		if err := policy.Authorize(actor, *parent, policy.Write); err != nil {
			return err
		}
		if _, err := a.children.load(ctx, childID); err != nil {
			return err
		}

		removed, err := a.links.DeletePair(ctx, parentID, childID)
		if err != nil {
			return fromStore(err, a.parents.label)
		}
		if !removed {
			return errs.NotInRelation("%s with id %d does not exist in %s with id %d",
				a.children.label, childID, strings.ToLower(a.parents.label), parentID)
		}

		out, err = a.members(ctx, parent)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Info().Int64("parent_id", parentID).Int64("child_id", childID).Msg("unlinked")
	return out, nil
}

// List returns the children of a parent the actor may read, in the order
// they were added.
func (a *Association[P, C]) List(ctx context.Context, actor *domain.User, parentID int64) ([]C, error) {
	parent, err := a.parents.get(ctx, actor, parentID)
	if err != nil {
		return nil, err
	}
	m, err := a.members(ctx, parent)
	if err != nil {
		return nil, err
	}
	return m.Children, nil
}

// Contains reports whether the pair is stored.
func (a *Association[P, C]) Contains(ctx context.Context, parentID, childID int64) (bool, error) {
	ok, err := a.links.Exists(ctx, parentID, childID)
	return ok, fromStore(err, a.parents.label)
}

func (a *Association[P, C]) members(ctx context.Context, parent *P) (*Members[P, C], error) {
	ids, err := a.links.ChildIDs(ctx, (*parent).GetID())
	if err != nil {
		return nil, fromStore(err, a.parents.label)
	}
	children := make([]C, 0, len(ids))
	if len(ids) > 0 {
		recs, err := a.children.repo.GetMany(ctx, repository.Where(repository.In("id", ids)),
			repository.Page{Skip: 0, Limit: len(ids)})
		if err != nil {
			return nil, fromStore(err, a.children.label)
		}
		pos := make(map[int64]int, len(ids))
		for i, id := range ids {
			pos[id] = i
		}
		sort.SliceStable(recs, func(i, j int) bool {
			return pos[recs[i].GetID()] < pos[recs[j].GetID()]
		})
		children = append(children, recs...)
	}
	return &Members[P, C]{Parent: *parent, Children: children}, nil
}

func (a *Association[P, C]) alreadyLinked(parentID, childID int64) error {
	return errs.Conflict("%s with id %d already exists in %s with id %d",
		a.children.label, childID, strings.ToLower(a.parents.label), parentID)
}
