package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToFilter(t *testing.T) {
	f, err := toFilter(repository.Filter{})
	require.NoError(t, err)
	assert.Equal(t, bson.D{}, f)

	f, err = toFilter(repository.By("id", int64(3)))
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "_id", Value: int64(3)}}, f)

	f, err = toFilter(repository.Where(repository.Contains("name", "a.b")).By("owner_id", int64(2)))
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "name", Value: primitive.Regex{Pattern: `a\.b`}}},
		bson.D{{Key: "owner_id", Value: int64(2)}},
	}}}, f)

	f, err = toFilter(repository.Where(repository.In("id", []int64{1, 2})))
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "_id", Value: bson.M{"$in": []any{int64(1), int64(2)}}}}, f)

	_, err = toFilter(repository.By("bad column", 1))
	assert.ErrorIs(t, err, repository.ErrInvalidFilter)
}

func TestToInt64(t *testing.T) {
	for _, v := range []any{int64(5), int32(5), float64(5)} {
		n, ok := toInt64(v)
		assert.True(t, ok)
		assert.Equal(t, int64(5), n)
	}
	_, ok := toInt64("5")
	assert.False(t, ok)
}

// newTestStore connects to TEST_MONGO_URI and uses a throwaway database.
func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	client, err := ConnectDB(ctx, uri)
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("gymhero_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = DisconnectDB(client)
	})
	require.NoError(t, EnsureIndexes(ctx, db, zerolog.Nop()))
	return NewStore(client, db, false, zerolog.Nop())
}

func TestRepository_Integration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.Users.Create(ctx, &domain.User{Email: "owner@example.com", HashedPassword: "x", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	level, err := s.Levels.Create(ctx, &domain.Level{Name: "Beginner"})
	require.NoError(t, err)
	_, err = s.Levels.Create(ctx, &domain.Level{Name: "Beginner"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	bodyPart, err := s.BodyParts.Create(ctx, &domain.BodyPart{Name: "Chest"})
	require.NoError(t, err)
	exType, err := s.ExerciseTypes.Create(ctx, &domain.ExerciseType{Name: "Strength"})
	require.NoError(t, err)

	ex := &domain.Exercise{Name: "Bench", TargetBodyPartID: bodyPart.ID, ExerciseTypeID: exType.ID, LevelID: 999}
	_, err = s.Exercises.CreateWithOwner(ctx, ex, user.ID)
	assert.ErrorIs(t, err, repository.ErrForeignKey)

	ex.LevelID = level.ID
	ex, err = s.Exercises.CreateWithOwner(ctx, ex, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, ex.OwnerID)

	ex, err = s.Exercises.Update(ctx, ex, domain.ExercisePatch{Description: domain.Some("flat")})
	require.NoError(t, err)
	require.NotNil(t, ex.Description)
	assert.Equal(t, "Bench", ex.Name)

	_, err = s.Levels.Delete(ctx, level)
	assert.ErrorIs(t, err, repository.ErrReferenced)

	unit, err := s.TrainingUnits.CreateWithOwner(ctx, &domain.TrainingUnit{Name: "Day 1"}, user.ID)
	require.NoError(t, err)
	require.NoError(t, s.UnitExercises.InsertPair(ctx, unit.ID, ex.ID))
	assert.ErrorIs(t, s.UnitExercises.InsertPair(ctx, unit.ID, ex.ID), repository.ErrDuplicate)

	ids, err := s.UnitExercises.ChildIDs(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{ex.ID}, ids)

	// Join rows go with the exercise.
	_, err = s.Exercises.Delete(ctx, ex)
	require.NoError(t, err)
	ok, err := s.UnitExercises.Exists(ctx, unit.ID, ex.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	page, err := s.TrainingUnits.GetManyForOwner(ctx, user.ID, repository.Filter{}, repository.FirstPage())
	require.NoError(t, err)
	assert.Len(t, page, 1)

	_, err = s.Levels.GetOne(ctx, repository.By("name", "Nope"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
