package gormstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"gymhero/training-api/internal/config"
	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// newTestStore opens a private in-memory SQLite database for the test.
func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:" + unsafeName.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared",
	}
	db, err := Open(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, AutoMigrate(context.Background(), db))
	return NewStore(db, zerolog.Nop())
}

type fixture struct {
	user     *domain.User
	level    *domain.Level
	bodyPart *domain.BodyPart
	exType   *domain.ExerciseType
}

func seed(t *testing.T, ctx context.Context, s *repository.Store) fixture {
	t.Helper()
	user, err := s.Users.Create(ctx, &domain.User{Email: "owner@example.com", HashedPassword: "x", IsActive: true})
	require.NoError(t, err)
	level, err := s.Levels.Create(ctx, &domain.Level{Name: "Beginner"})
	require.NoError(t, err)
	bodyPart, err := s.BodyParts.Create(ctx, &domain.BodyPart{Name: "Chest"})
	require.NoError(t, err)
	exType, err := s.ExerciseTypes.Create(ctx, &domain.ExerciseType{Name: "Strength"})
	require.NoError(t, err)
	return fixture{user: user, level: level, bodyPart: bodyPart, exType: exType}
}

func (f fixture) exercise(name string) *domain.Exercise {
	return &domain.Exercise{
		Name:             name,
		TargetBodyPartID: f.bodyPart.ID,
		ExerciseTypeID:   f.exType.ID,
		LevelID:          f.level.ID,
	}
}

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.Levels.Create(ctx, &domain.Level{Name: "Beginner"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Levels.GetOne(ctx, repository.By("name", "Beginner"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := s.Levels.Update(ctx, got, domain.NamePatch{Name: domain.Some("Novice")})
	require.NoError(t, err)
	assert.Equal(t, "Novice", updated.Name)
	assert.Equal(t, created.ID, updated.ID)

	deleted, err := s.Levels.Delete(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = s.Levels.GetOne(ctx, repository.By("id", created.ID))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.Levels.Delete(ctx, updated)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_UniqueName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Levels.Create(ctx, &domain.Level{Name: "Beginner"})
	require.NoError(t, err)
	_, err = s.Levels.Create(ctx, &domain.Level{Name: "Beginner"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	n, err := s.Levels.Count(ctx, repository.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRepository_ForeignKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	f := seed(t, ctx, s)

	dangling := f.exercise("Bench press")
	dangling.LevelID = 999
	_, err := s.Exercises.CreateWithOwner(ctx, dangling, f.user.ID)
	assert.ErrorIs(t, err, repository.ErrForeignKey)

	ex, err := s.Exercises.CreateWithOwner(ctx, f.exercise("Bench press"), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, ex.OwnerID)

	_, err = s.Exercises.Update(ctx, ex, domain.ExercisePatch{LevelID: domain.Some(int64(999))})
	assert.ErrorIs(t, err, repository.ErrForeignKey)

	// Restricted while the exercise points at them.
	_, err = s.Levels.Delete(ctx, f.level)
	assert.ErrorIs(t, err, repository.ErrReferenced)
	_, err = s.Users.Delete(ctx, f.user)
	assert.ErrorIs(t, err, repository.ErrReferenced)

	_, err = s.Exercises.Delete(ctx, ex)
	require.NoError(t, err)
	_, err = s.Levels.Delete(ctx, f.level)
	assert.NoError(t, err)
}

func TestRepository_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	f := seed(t, ctx, s)

	desc := "flat bench"
	rec := f.exercise("Bench press")
	rec.Description = &desc
	ex, err := s.Exercises.CreateWithOwner(ctx, rec, f.user.ID)
	require.NoError(t, err)

	ex, err = s.Exercises.Update(ctx, ex, domain.ExercisePatch{Name: domain.Some("Incline press")})
	require.NoError(t, err)
	assert.Equal(t, "Incline press", ex.Name)
	require.NotNil(t, ex.Description)
	assert.Equal(t, desc, *ex.Description)
	assert.Equal(t, f.level.ID, ex.LevelID)

	ex, err = s.Exercises.Update(ctx, ex, domain.ExercisePatch{Description: domain.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, ex.Description)
	assert.Equal(t, "Incline press", ex.Name)

	// An empty patch is a read.
	same, err := s.Exercises.Update(ctx, ex, domain.ExercisePatch{})
	require.NoError(t, err)
	assert.Equal(t, ex.Name, same.Name)

	_, err = s.Exercises.Update(ctx, ex, repository.Changes{"name; drop": "x"})
	assert.ErrorIs(t, err, repository.ErrInvalidFilter)

	missing := &domain.Exercise{ID: 404}
	_, err = s.Exercises.Update(ctx, missing, domain.ExercisePatch{Name: domain.Some("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_Pagination(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var ids []int64
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		l, err := s.Levels.Create(ctx, &domain.Level{Name: name})
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}

	all, err := s.Levels.GetMany(ctx, repository.Filter{}, repository.FirstPage())
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, l := range all {
		assert.Equal(t, ids[i], l.ID)
	}

	page, err := s.Levels.GetMany(ctx, repository.Filter{}, repository.Page{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	past, err := s.Levels.GetMany(ctx, repository.Filter{}, repository.Page{Skip: 10, Limit: 2})
	require.NoError(t, err)
	assert.NotNil(t, past)
	assert.Empty(t, past)

	_, err = s.Levels.GetMany(ctx, repository.Filter{}, repository.Page{Skip: -1, Limit: 2})
	assert.ErrorIs(t, err, repository.ErrInvalidPage)
	_, err = s.Levels.GetMany(ctx, repository.Filter{}, repository.Page{Limit: 0})
	assert.ErrorIs(t, err, repository.ErrInvalidPage)
}

func TestRepository_Filters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, name := range []string{"Beginner", "Intermediate", "Advanced"} {
		_, err := s.Levels.Create(ctx, &domain.Level{Name: name})
		require.NoError(t, err)
	}

	got, err := s.Levels.GetMany(ctx, repository.Where(repository.Contains("name", "anc")), repository.FirstPage())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Advanced", got[0].Name)

	got, err = s.Levels.GetMany(ctx, repository.Where(repository.In("name", []string{"Beginner", "Advanced"})), repository.FirstPage())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Levels.GetMany(ctx,
		repository.Where(repository.Gt("id", int64(1))).By("name", "Advanced"),
		repository.FirstPage())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = s.Levels.GetMany(ctx, repository.By("Name", "x"), repository.FirstPage())
	assert.ErrorIs(t, err, repository.ErrInvalidFilter)
}

func TestRepository_Owner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	f := seed(t, ctx, s)
	other, err := s.Users.Create(ctx, &domain.User{Email: "other@example.com", HashedPassword: "x", IsActive: true})
	require.NoError(t, err)

	_, err = s.TrainingUnits.CreateWithOwner(ctx, &domain.TrainingUnit{Name: "Day 1"}, f.user.ID)
	require.NoError(t, err)
	_, err = s.TrainingUnits.CreateWithOwner(ctx, &domain.TrainingUnit{Name: "Day 1"}, other.ID)
	require.NoError(t, err, "names are unique per owner only")
	_, err = s.TrainingUnits.CreateWithOwner(ctx, &domain.TrainingUnit{Name: "Day 1"}, f.user.ID)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	mine, err := s.TrainingUnits.GetManyForOwner(ctx, f.user.ID, repository.Filter{}, repository.FirstPage())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.user.ID, mine[0].OwnerID)

	_, err = s.Levels.CreateWithOwner(ctx, &domain.Level{Name: "x"}, f.user.ID)
	assert.ErrorIs(t, err, repository.ErrNotOwnable)
	_, err = s.Levels.GetManyForOwner(ctx, f.user.ID, repository.Filter{}, repository.FirstPage())
	assert.ErrorIs(t, err, repository.ErrNotOwnable)
}

func TestJoinTable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	f := seed(t, ctx, s)

	plan, err := s.TrainingPlans.CreateWithOwner(ctx, &domain.TrainingPlan{Name: "Push"}, f.user.ID)
	require.NoError(t, err)
	u1, err := s.TrainingUnits.CreateWithOwner(ctx, &domain.TrainingUnit{Name: "Day 1"}, f.user.ID)
	require.NoError(t, err)
	u2, err := s.TrainingUnits.CreateWithOwner(ctx, &domain.TrainingUnit{Name: "Day 2"}, f.user.ID)
	require.NoError(t, err)

	ok, err := s.PlanUnits.Exists(ctx, plan.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PlanUnits.InsertPair(ctx, plan.ID, u2.ID))
	require.NoError(t, s.PlanUnits.InsertPair(ctx, plan.ID, u1.ID))
	assert.ErrorIs(t, s.PlanUnits.InsertPair(ctx, plan.ID, u1.ID), repository.ErrDuplicate)
	assert.ErrorIs(t, s.PlanUnits.InsertPair(ctx, plan.ID, 999), repository.ErrForeignKey)

	ids, err := s.PlanUnits.ChildIDs(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{u2.ID, u1.ID}, ids)

	removed, err := s.PlanUnits.DeletePair(ctx, plan.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.PlanUnits.DeletePair(ctx, plan.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, s.PlanUnits.DeleteByChild(ctx, u1.ID))
	ids, err = s.PlanUnits.ChildIDs(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.PlanUnits.InsertPair(ctx, plan.ID, u1.ID))
	require.NoError(t, s.PlanUnits.DeleteByParent(ctx, plan.ID))
	ok, err = s.PlanUnits.Exists(ctx, plan.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransactor(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	boom := errors.New("boom")

	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Levels.Create(ctx, &domain.Level{Name: "Beginner"}); err != nil {
			return err
		}
		return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := s.Levels.Create(ctx, &domain.Level{Name: "Advanced"})
			require.NoError(t, err)
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	n, err := s.Levels.Count(ctx, repository.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.Levels.Create(ctx, &domain.Level{Name: "Beginner"})
		return err
	})
	require.NoError(t, err)
	n, err = s.Levels.Count(ctx, repository.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:x.db?_foreign_keys=1", sqliteDSN("file:x.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=1", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "file:x?_fk=1", sqliteDSN("file:x?_fk=1"))
}
