// Package policy decides whether an identity may act on a resource. Every
// service calls Authorize instead of comparing owner ids itself.
package policy

import (
	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/errs"
)

// Capability is the kind of access requested.
type Capability uint8

const (
	// Read fetches one resource by id or name.
	Read Capability = iota
	// List browses every record of a resource type.
	List
	// Create adds a record; owned records are stamped with the actor.
	Create
	// Write updates a resource or changes its associations.
	Write
	// Delete removes a resource.
	Delete
)

func (c Capability) String() string {
	switch c {
	case Read:
		return "read"
	case List:
		return "list"
	case Create:
		return "create"
	case Write:
		return "write"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgNotAuthenticated = "Not authenticated"
	MsgInactive         = "Inactive user"
	MsgNotSuperuser     = "The user does not have enough privileges"
	MsgNotOwner         = "You do not have permission to perform this action"
	MsgSelfDelete       = "Users can't delete themselves"
	MsgNotFound         = "Resource not found"
)

// Authorize checks actor against resource for capability c. actor is nil for
// anonymous requests. resource may be a zero value when only its category
// matters (List, Create).
//
// Checks run in order: authentication, active state, role, ownership. A
// non-owner reading an owned record gets NotFound so that ids of other
// users' records are not disclosed; writes and deletes get Forbidden.
func Authorize(actor *domain.User, resource domain.Entity, c Capability) error {
	category := resource.Category()

	if category == domain.CategoryReference && (c == Read || c == List) {
		return nil
	}
	if category == domain.CategoryOwned && c == List {
		return nil
	}

	if err := Active(actor); err != nil {
		return err
	}

	switch category {
	case domain.CategoryReference:
		if !actor.IsSuperuser {
			return errs.Forbidden(MsgNotSuperuser)
		}
		return nil

	case domain.CategoryAccount:
		if !actor.IsSuperuser {
			return errs.Forbidden(MsgNotSuperuser)
		}
		if c == Delete && resource.GetID() == actor.ID {
			return errs.Forbidden(MsgSelfDelete)
		}
		return nil

	case domain.CategoryOwned:
		if c == Create || actor.IsSuperuser {
			return nil
		}
		owned, ok := resource.(domain.Owned)
		if ok && owned.GetOwnerID() == actor.ID {
			return nil
		}
		if c == Read {
			return errs.NotFound(MsgNotFound)
		}
		return errs.Forbidden(MsgNotOwner)
	}

	return errs.Forbidden(MsgNotSuperuser)
}

// Active is the account-state gate: the actor must be authenticated and
// active.
func Active(actor *domain.User) error {
	if actor == nil {
		return errs.Unauthorized(MsgNotAuthenticated)
	}
	if !actor.IsActive {
		return errs.Inactive(MsgInactive)
	}
	return nil
}

// Visible reports whether actor may read resource. It is Authorize(Read)
// without the error.
func Visible(actor *domain.User, resource domain.Entity) bool {
	return Authorize(actor, resource, Read) == nil
}
