package mongo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// reference is a field holding the _id of a document in table. Cascading
// references are removed together with their target; the others block the
// target's deletion.
type reference struct {
	field   string
	table   string
	cascade bool
}

type collectionSchema struct {
	unique [][]string
	refs   []reference
}

var schemas = map[string]collectionSchema{
	"users":          {unique: [][]string{{"email"}}},
	"levels":         {unique: [][]string{{"name"}}},
	"body_parts":     {unique: [][]string{{"name"}}},
	"exercise_types": {unique: [][]string{{"name"}}},
	"exercises": {
		refs: []reference{
			{field: "target_body_part_id", table: "body_parts"},
			{field: "exercise_type_id", table: "exercise_types"},
			{field: "level_id", table: "levels"},
			{field: "owner_id", table: "users"},
		},
	},
	"training_units": {
		unique: [][]string{{"name", "owner_id"}},
		refs:   []reference{{field: "owner_id", table: "users"}},
	},
	"training_plans": {
		unique: [][]string{{"name", "owner_id"}},
		refs:   []reference{{field: "owner_id", table: "users"}},
	},
	"training_plan_units": {
		unique: [][]string{{"training_plan_id", "training_unit_id"}},
		refs: []reference{
			{field: "training_plan_id", table: "training_plans", cascade: true},
			{field: "training_unit_id", table: "training_units", cascade: true},
		},
	},
	"training_unit_exercises": {
		unique: [][]string{{"training_unit_id", "exercise_id"}},
		refs: []reference{
			{field: "training_unit_id", table: "training_units", cascade: true},
			{field: "exercise_id", table: "exercises", cascade: true},
		},
	},
}

// inboundRef is a reference from collection to some target table.
type inboundRef struct {
	collection string
	ref        reference
}

// inbound lists the references pointing at table.
func inbound(table string) []inboundRef {
	var out []inboundRef
	for _, name := range collectionNames() {
		for _, ref := range schemas[name].refs {
			if ref.table == table {
				out = append(out, inboundRef{collection: name, ref: ref})
			}
		}
	}
	return out
}

func collectionNames() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnsureIndexes creates the unique indexes backing every uniqueness invariant
// and plain indexes on reference fields.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log zerolog.Logger) error {
	for _, name := range collectionNames() {
		schema := schemas[name]
		var models []mongo.IndexModel
		for _, fields := range schema.unique {
			keys := bson.D{}
			for _, f := range fields {
				keys = append(keys, bson.E{Key: f, Value: 1})
			}
			models = append(models, mongo.IndexModel{
				Keys:    keys,
				Options: options.Index().SetUnique(true).SetName("uq_" + name + "_" + strings.Join(fields, "_")),
			})
		}
		for _, ref := range schema.refs {
			models = append(models, mongo.IndexModel{
				Keys:    bson.D{{Key: ref.field, Value: 1}},
				Options: options.Index().SetName("ix_" + name + "_" + ref.field),
			})
		}
		if len(models) == 0 {
			continue
		}
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
		log.Debug().Str("collection", name).Int("indexes", len(models)).Msg("indexes ensured")
	}
	return nil
}
