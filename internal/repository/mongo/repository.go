package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository implements repository.Repository[T] over one collection.
type Repository[T domain.Entity] struct {
	db         *mongo.Database
	collection *mongo.Collection
	table      string
	log        zerolog.Logger
}

// NewRepository creates the repository of entity T; the collection is named
// after T's table.
func NewRepository[T domain.Entity](db *mongo.Database, log zerolog.Logger) *Repository[T] {
	var zero T
	table := zero.TableName()
	return &Repository[T]{
		db:         db,
		collection: db.Collection(table),
		table:      table,
		log:        log.With().Str("collection", table).Logger(),
	}
}

var _ repository.Repository[domain.TrainingPlan] = (*Repository[domain.TrainingPlan])(nil)

// toFilter compiles f to a query document. The id column maps to _id.
func toFilter(f repository.Filter) (bson.D, error) {
	conds, err := f.Conds()
	if err != nil {
		return nil, err
	}
	clauses := bson.A{}
	for _, c := range conds {
		field := c.Field
		if field == "id" {
			field = "_id"
		}
		var value any
		switch c.Op {
		case repository.OpNe:
			value = bson.M{"$ne": c.Value}
		case repository.OpGt:
			value = bson.M{"$gt": c.Value}
		case repository.OpGte:
			value = bson.M{"$gte": c.Value}
		case repository.OpLt:
			value = bson.M{"$lt": c.Value}
		case repository.OpLte:
			value = bson.M{"$lte": c.Value}
		case repository.OpIn:
			value = bson.M{"$in": c.Value}
		case repository.OpContains:
			value = primitive.Regex{Pattern: regexp.QuoteMeta(c.Value.(string))}
		default:
			value = c.Value
		}
		clauses = append(clauses, bson.D{{Key: field, Value: value}})
	}
	switch len(clauses) {
	case 0:
		return bson.D{}, nil
	case 1:
		return clauses[0].(bson.D), nil
	default:
		return bson.D{{Key: "$and", Value: clauses}}, nil
	}
}

func (r *Repository[T]) GetOne(ctx context.Context, f repository.Filter) (*T, error) {
	r.log.Debug().Msg("retrieving one record")
	filter, err := toFilter(f)
	if err != nil {
		return nil, err
	}
	var rec T
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&rec); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *Repository[T]) GetMany(ctx context.Context, f repository.Filter, p repository.Page) ([]T, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r.log.Debug().Int("skip", p.Skip).Int("limit", p.Limit).Msg("retrieving many records")
	filter, err := toFilter(f)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(p.Skip)).
		SetLimit(int64(p.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	recs := make([]T, 0)
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, translate(err)
	}
	return recs, nil
}

func (r *Repository[T]) Create(ctx context.Context, rec *T) (*T, error) {
	r.log.Debug().Msg("creating record")
	doc, err := toDocument(rec)
	if err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, r.db, r.table, doc); err != nil {
		return nil, err
	}

	id, err := nextID(ctx, r.db, r.table)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc["_id"] = id
	doc["created_at"] = now
	doc["updated_at"] = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, translate(err)
	}

	created, err := r.GetOne(ctx, repository.By("id", id))
	if err != nil {
		return nil, err
	}
	*rec = *created
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
		set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
		for col, v := range changes {
			if !repository.ValidColumn(col) || col == "id" {
				return nil, fmt.Errorf("%w: column %q", repository.ErrInvalidFilter, col)
			}
			set[col] = v
		}
		if err := checkReferences(ctx, r.db, r.table, changes); err != nil {
			return nil, err
		}
		res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			return nil, translate(err)
		}
		if res.MatchedCount == 0 {
			return nil, repository.ErrNotFound
		}
	}
	return r.GetOne(ctx, repository.By("id", id))
}

func (r *Repository[T]) Delete(ctx context.Context, rec *T) (*T, error) {
	id := (*rec).GetID()
	r.log.Debug().Int64("id", id).Msg("deleting record")
	if err := releaseReferences(ctx, r.db, r.table, id); err != nil {
		return nil, err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, translate(err)
	}
	if res.DeletedCount == 0 {
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
	filter, err := toFilter(f)
	if err != nil {
		return 0, err
	}
	n, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// toDocument round-trips rec through bson so field names follow the bson tags.
func toDocument(rec any) (bson.M, error) {
	data, err := bson.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", repository.ErrStorage, err)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", repository.ErrStorage, err)
	}
	delete(doc, "_id")
	return doc, nil
}
