package mongo

import (
	"context"
	"fmt"

	"gymhero/training-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// checkReferences fails with ErrForeignKey when a reference field present in
// values points at a missing document.
func checkReferences(ctx context.Context, db *mongo.Database, table string, values map[string]any) error {
	for _, ref := range schemas[table].refs {
		v, ok := values[ref.field]
		if !ok {
			continue
		}
		n, err := db.Collection(ref.table).CountDocuments(ctx, bson.M{"_id": v}, options.Count().SetLimit(1))
		if err != nil {
			return translate(err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s.%s=%v has no match in %s", repository.ErrForeignKey, table, ref.field, v, ref.table)
		}
	}
	return nil
}

// releaseReferences runs before deleting id from table: blocking references
// fail with ErrReferenced, cascading ones are removed.
func releaseReferences(ctx context.Context, db *mongo.Database, table string, id int64) error {
	refs := inbound(table)
	for _, in := range refs {
		if in.ref.cascade {
			continue
		}
		n, err := db.Collection(in.collection).CountDocuments(ctx, bson.M{in.ref.field: id}, options.Count().SetLimit(1))
		if err != nil {
			return translate(err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %s.%s", repository.ErrReferenced, in.collection, in.ref.field)
		}
	}
	for _, in := range refs {
		if !in.ref.cascade {
			continue
		}
		if _, err := db.Collection(in.collection).DeleteMany(ctx, bson.M{in.ref.field: id}); err != nil {
			return translate(err)
		}
	}
	return nil
}

// nextID allocates the next integer surrogate id for table.
func nextID(ctx context.Context, db *mongo.Database, table string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": table},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, translate(err)
	}
	return counter.Seq, nil
}

// toInt64 converts a decoded numeric bson value.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
