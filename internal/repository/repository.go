package repository

import (
	"context"
	"gymhero/training-api/internal/domain"
)

// Error constants for the repository layer. Backends wrap driver errors with
// these so services can use errors.Is.
var (
	ErrNotFound      = RepositoryError("not found")
	ErrDuplicate     = RepositoryError("unique constraint violation")
	ErrForeignKey    = RepositoryError("foreign key violation")
	ErrReferenced    = RepositoryError("record is still referenced")
	ErrInvalidFilter = RepositoryError("invalid filter")
	ErrInvalidPage   = RepositoryError("invalid page")
	ErrNotOwnable    = RepositoryError("entity has no owner")
	ErrStorage       = RepositoryError("storage failure")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Patch is a sparse change set: column name -> new value. A nil value writes
// NULL. Columns absent from the map are left untouched.
type Patch interface {
	Changes() map[string]any
}

// Changes is a literal Patch.
type Changes map[string]any

func (c Changes) Changes() map[string]any { return c }

// Repository is the generic persistence engine instantiated once per entity.
type Repository[T domain.Entity] interface {
	// GetOne returns the first record matching f, or ErrNotFound.
	GetOne(ctx context.Context, f Filter) (*T, error)
	// GetMany returns the records matching f ordered by id, sliced by p.
	GetMany(ctx context.Context, f Filter, p Page) ([]T, error)
	// Create persists rec and returns it with id and timestamps populated.
	Create(ctx context.Context, rec *T) (*T, error)
	// CreateWithOwner stamps ownerID on rec before creating it.
	CreateWithOwner(ctx context.Context, rec *T, ownerID int64) (*T, error)
	// Update writes only the columns present in patch and returns the fresh record.
	Update(ctx context.Context, rec *T, patch Patch) (*T, error)
	// Delete removes rec and returns it.
	Delete(ctx context.Context, rec *T) (*T, error)
	// GetManyForOwner is GetMany with an implicit owner_id equality filter.
	GetManyForOwner(ctx context.Context, ownerID int64, f Filter, p Page) ([]T, error)
	// Count returns the number of records matching f.
	Count(ctx context.Context, f Filter) (int64, error)
}

// JoinRepository manages one many-to-many relation stored as (parent, child) pairs.
type JoinRepository interface {
	Exists(ctx context.Context, parentID, childID int64) (bool, error)
	// InsertPair fails with ErrDuplicate when the pair is already stored.
	InsertPair(ctx context.Context, parentID, childID int64) error
	// DeletePair reports whether a pair was removed.
	DeletePair(ctx context.Context, parentID, childID int64) (bool, error)
	// ChildIDs lists the children of parentID in insertion order.
	ChildIDs(ctx context.Context, parentID int64) ([]int64, error)
	DeleteByParent(ctx context.Context, parentID int64) error
	DeleteByChild(ctx context.Context, childID int64) error
}

// Transactor runs fn as one unit of work. Repositories called with the ctx
// passed to fn join the transaction; nested calls reuse the outer one.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Users         Repository[domain.User]
	Levels        Repository[domain.Level]
	BodyParts     Repository[domain.BodyPart]
	ExerciseTypes Repository[domain.ExerciseType]
	Exercises     Repository[domain.Exercise]
	TrainingUnits Repository[domain.TrainingUnit]
	TrainingPlans Repository[domain.TrainingPlan]

	PlanUnits     JoinRepository
	UnitExercises JoinRepository

	Tx Transactor
}
