package mongo

import (
	"context"
	"fmt"
	"time"

	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JoinCollection implements repository.JoinRepository with one document per pair.
type JoinCollection struct {
	db          *mongo.Database
	collection  *mongo.Collection
	table       string
	parentField string
	childField  string
	log         zerolog.Logger
}

func NewJoinCollection(db *mongo.Database, table, parentField, childField string, log zerolog.Logger) *JoinCollection {
	return &JoinCollection{
		db:          db,
		collection:  db.Collection(table),
		table:       table,
		parentField: parentField,
		childField:  childField,
		log:         log.With().Str("collection", table).Logger(),
	}
}

func (j *JoinCollection) pair(parentID, childID int64) bson.D {
	return bson.D{{Key: j.parentField, Value: parentID}, {Key: j.childField, Value: childID}}
}

func (j *JoinCollection) Exists(ctx context.Context, parentID, childID int64) (bool, error) {
	n, err := j.collection.CountDocuments(ctx, j.pair(parentID, childID), options.Count().SetLimit(1))
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (j *JoinCollection) InsertPair(ctx context.Context, parentID, childID int64) error {
	j.log.Debug().Int64("parent", parentID).Int64("child", childID).Msg("inserting pair")
	values := map[string]any{j.parentField: parentID, j.childField: childID}
	if err := checkReferences(ctx, j.db, j.table, values); err != nil {
		return err
	}
	doc := append(j.pair(parentID, childID), bson.E{Key: "created_at", Value: time.Now().UTC()})
	if _, err := j.collection.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	return nil
}

func (j *JoinCollection) DeletePair(ctx context.Context, parentID, childID int64) (bool, error) {
	j.log.Debug().Int64("parent", parentID).Int64("child", childID).Msg("deleting pair")
	res, err := j.collection.DeleteOne(ctx, j.pair(parentID, childID))
	if err != nil {
		return false, translate(err)
	}
	return res.DeletedCount > 0, nil
}

func (j *JoinCollection) ChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: j.childField, Value: 1}}).
		SetProjection(bson.M{j.childField: 1, "_id": 0})
	cursor, err := j.collection.Find(ctx, bson.M{j.parentField: parentID}, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	ids := make([]int64, 0)
	for cursor.Next(ctx) {
		var row bson.M
		if err := cursor.Decode(&row); err != nil {
			return nil, translate(err)
		}
		id, ok := toInt64(row[j.childField])
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s is not an integer", repository.ErrStorage, j.table, j.childField)
		}
		ids = append(ids, id)
	}
	if err := cursor.Err(); err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

func (j *JoinCollection) DeleteByParent(ctx context.Context, parentID int64) error {
	_, err := j.collection.DeleteMany(ctx, bson.M{j.parentField: parentID})
	return translate(err)
}

func (j *JoinCollection) DeleteByChild(ctx context.Context, childID int64) error {
	_, err := j.collection.DeleteMany(ctx, bson.M{j.childField: childID})
	return translate(err)
}
