package service

import (
	"context"
	"regexp"
	"strconv"
	"testing"

	"gymhero/training-api/internal/config"
	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/repository"
	"gymhero/training-api/internal/repository/gormstore"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_]`)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := gormstore.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:svc_" + unsafeName.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared",
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormstore.Close(db) })
	require.NoError(t, gormstore.AutoMigrate(context.Background(), db))
	return gormstore.NewStore(db, zerolog.Nop())
}

// plainHasher keeps tests fast; bcrypt is covered in the security package.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, digest string) bool { return digest == "hashed:"+p }

type world struct {
	store     *repository.Store
	superuser *domain.User
	alice     *domain.User
	bob       *domain.User
	level     *domain.Level
	bodyPart  *domain.BodyPart
	exType    *domain.ExerciseType
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	s := newTestStore(t)
	w := &world{store: s}

	mkUser := func(email string, super bool) *domain.User {
		u, err := s.Users.Create(ctx, &domain.User{
			Email:          email,
			HashedPassword: "hashed:password123",
			IsActive:       true,
			IsSuperuser:    super,
		})
		require.NoError(t, err)
		return u
	}
	w.superuser = mkUser("admin@example.com", true)
	w.alice = mkUser("alice@example.com", false)
	w.bob = mkUser("bob@example.com", false)

	var err error
	w.level, err = s.Levels.Create(ctx, &domain.Level{Name: "Beginner"})
	require.NoError(t, err)
	w.bodyPart, err = s.BodyParts.Create(ctx, &domain.BodyPart{Name: "Chest"})
	require.NoError(t, err)
	w.exType, err = s.ExerciseTypes.Create(ctx, &domain.ExerciseType{Name: "Strength"})
	require.NoError(t, err)
	return w
}

func (w *world) exerciseInput(name string) ExerciseInput {
	return ExerciseInput{
		Name:             name,
		TargetBodyPartID: w.bodyPart.ID,
		ExerciseTypeID:   w.exType.ID,
		LevelID:          w.level.ID,
	}
}

func (w *world) exercise(t *testing.T, owner *domain.User, name string) *domain.Exercise {
	t.Helper()
	ex, err := NewExerciseService(w.store, nil, 0, zerolog.Nop()).Create(context.Background(), owner, w.exerciseInput(name))
	require.NoError(t, err)
	return ex
}

func (w *world) unit(t *testing.T, owner *domain.User, name string) *domain.TrainingUnit {
	t.Helper()
	u, err := NewTrainingUnitService(w.store, zerolog.Nop()).Create(context.Background(), owner, TrainingInput{Name: name})
	require.NoError(t, err)
	return u
}

func (w *world) plan(t *testing.T, owner *domain.User, name string) *domain.TrainingPlan {
	t.Helper()
	p, err := NewTrainingPlanService(w.store, zerolog.Nop()).Create(context.Background(), owner, TrainingInput{Name: name})
	require.NoError(t, err)
	return p
}

func ids[T domain.Entity](recs []T) []int64 {
	out := make([]int64, len(recs))
	for i, r := range recs {
		out[i] = r.GetID()
	}
	return out
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
