package mongo

import (
	"errors"
	"fmt"

	"gymhero/training-api/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// translate maps driver errors to repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", repository.ErrDuplicate, err)
	default:
		return fmt.Errorf("%w: %w", repository.ErrStorage, err)
	}
}
