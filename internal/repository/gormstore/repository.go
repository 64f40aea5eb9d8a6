package gormstore

import (
	"context"
	"fmt"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements repository.Repository[T] over GORM.
type Repository[T domain.Entity] struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewRepository creates the repository of entity T.
func NewRepository[T domain.Entity](db *gorm.DB, log zerolog.Logger) *Repository[T] {
	var zero T
	return &Repository[T]{
		db:  db,
		log: log.With().Str("table", zero.TableName()).Logger(),
	}
}

var _ repository.Repository[domain.Exercise] = (*Repository[domain.Exercise])(nil)

// query starts a statement on T's table with f applied.
func (r *Repository[T]) query(ctx context.Context, f repository.Filter) (*gorm.DB, error) {
	conds, err := f.Conds()
	if err != nil {
		return nil, err
	}
	q := conn(ctx, r.db).Model(new(T))
	if len(conds) > 0 {
		exprs := make([]clause.Expression, len(conds))
		for i, c := range conds {
			exprs[i] = expression(c)
		}
		q = q.Clauses(clause.Where{Exprs: exprs})
	}
	return q, nil
}

func expression(c repository.Cond) clause.Expression {
	col := clause.Column{Name: c.Field}
	switch c.Op {
	case repository.OpNe:
		return clause.Neq{Column: col, Value: c.Value}
	case repository.OpGt:
		return clause.Gt{Column: col, Value: c.Value}
	case repository.OpGte:
		return clause.Gte{Column: col, Value: c.Value}
	case repository.OpLt:
		return clause.Lt{Column: col, Value: c.Value}
	case repository.OpLte:
		return clause.Lte{Column: col, Value: c.Value}
	case repository.OpIn:
		return clause.IN{Column: col, Values: c.Value.([]any)}
	case repository.OpContains:
		return clause.Like{Column: col, Value: "%" + c.Value.(string) + "%"}
	default:
		// nil becomes IS NULL
		return clause.Eq{Column: col, Value: c.Value}
	}
}

func (r *Repository[T]) GetOne(ctx context.Context, f repository.Filter) (*T, error) {
	r.log.Debug().Msg("retrieving one record")
	q, err := r.query(ctx, f)
	if err != nil {
		return nil, err
	}
	var rec T
	if err := q.First(&rec).Error; err != nil {
		return nil, translate(err, opRead)
	}
	return &rec, nil
}

func (r *Repository[T]) GetMany(ctx context.Context, f repository.Filter, p repository.Page) ([]T, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r.log.Debug().Int("skip", p.Skip).Int("limit", p.Limit).Msg("retrieving many records")
	q, err := r.query(ctx, f)
	if err != nil {
		return nil, err
	}
	recs := make([]T, 0)
	err = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&recs).Error
	if err != nil {
		return nil, translate(err, opRead)
	}
	return recs, nil
}

func (r *Repository[T]) Create(ctx context.Context, rec *T) (*T, error) {
	r.log.Debug().Msg("creating record")
	if err := conn(ctx, r.db).Create(rec).Error; err != nil {
		return nil, translate(err, opWrite)
	}
	return rec, nil
}

func (r *Repository[T]) CreateWithOwner(ctx context.Context, rec *T, ownerID int64) (*T, error) {
	ownable, ok := any(rec).(domain.Ownable)
	if !ok {
		return nil, repository.ErrNotOwnable
	}
	ownable.SetOwnerID(ownerID)
	return r.Create(ctx, rec)
}

func (r *Repository[T]) Update(ctx context.Context, rec *T, patch repository.Patch) (*T, error) {
	id := (*rec).GetID()
	changes := patch.Changes()
	r.log.Debug().Int64("id", id).Int("columns", len(changes)).Msg("updating record")

	if len(changes) > 0 {
		for col := range changes {
			if !repository.ValidColumn(col) {
				return nil, fmt.Errorf("%w: column %q", repository.ErrInvalidFilter, col)
			}
		}
		res := conn(ctx, r.db).Model(new(T)).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return nil, translate(res.Error, opWrite)
		}
		if res.RowsAffected == 0 {
			return nil, repository.ErrNotFound
		}
	}
	return r.GetOne(ctx, repository.By("id", id))
}

func (r *Repository[T]) Delete(ctx context.Context, rec *T) (*T, error) {
	id := (*rec).GetID()
	r.log.Debug().Int64("id", id).Msg("deleting record")
	res := conn(ctx, r.db).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return nil, translate(res.Error, opDelete)
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return rec, nil
}

func (r *Repository[T]) GetManyForOwner(ctx context.Context, ownerID int64, f repository.Filter, p repository.Page) ([]T, error) {
	var zero T
	if _, ok := any(zero).(domain.Owned); !ok {
		return nil, repository.ErrNotOwnable
	}
	return r.GetMany(ctx, f.By("owner_id", ownerID), p)
}

func (r *Repository[T]) Count(ctx context.Context, f repository.Filter) (int64, error) {
	q, err := r.query(ctx, f)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err, opRead)
	}
	return n, nil
}
