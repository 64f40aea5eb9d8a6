package service

import (
	"errors"

	"gymhero/training-api/internal/errs"
	"gymhero/training-api/internal/repository"
)

// fromStore maps repository errors to application errors. label names the
// resource in user-facing messages ("Training plan").
func fromStore(err error, label string) error {
	var appErr *errs.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return errs.NotFound("%s not found", label)
	case errors.Is(err, repository.ErrDuplicate):
		return errs.Conflict("%s already exists", label)
	case errors.Is(err, repository.ErrForeignKey):
		return errs.Referential("%s references a record that does not exist", label)
	case errors.Is(err, repository.ErrReferenced):
		return errs.Conflict("%s is still referenced by other records", label)
	case errors.Is(err, repository.ErrInvalidFilter), errors.Is(err, repository.ErrInvalidPage):
		return &errs.Error{Kind: errs.KindInvalid, Message: err.Error(), Err: err}
	default:
		return errs.Internal(err)
	}
}

// notFoundByID is the standard message for a missing id.
func notFoundByID(label string, id int64) error {
	return errs.NotFound("%s with id %d not found", label, id)
}
