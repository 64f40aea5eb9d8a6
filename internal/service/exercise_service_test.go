package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/errs"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMedia records the keys it was asked about.
type fakeMedia struct {
	uploads []string
	deleted []string
}

func (f *fakeMedia) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	f.uploads = append(f.uploads, key)
	return "https://media.example.com/" + key + "?put&type=" + contentType, nil
}

func (f *fakeMedia) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://media.example.com/" + key + "?get", nil
}

func (f *fakeMedia) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func TestExerciseService_Create(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	exercises := NewExerciseService(w.store, nil, 0, zerolog.Nop())

	ex, err := exercises.Create(ctx, w.alice, w.exerciseInput(" Squat "))
	require.NoError(t, err)
	assert.Equal(t, "Squat", ex.Name)
	assert.Equal(t, w.alice.ID, ex.OwnerID)

	in := w.exerciseInput("Lunge")
	in.LevelID = 999
	_, err = exercises.Create(ctx, w.alice, in)
	assert.ErrorIs(t, err, errs.ErrReferential)

	in = w.exerciseInput("Lunge")
	in.ExerciseTypeID = 0
	_, err = exercises.Create(ctx, w.alice, in)
	assert.ErrorIs(t, err, errs.ErrInvalid)

	_, err = exercises.Create(ctx, nil, w.exerciseInput("Lunge"))
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestExerciseService_Ownership(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	exercises := NewExerciseService(w.store, nil, 0, zerolog.Nop())
	ex := w.exercise(t, w.alice, "Squat")

	// Hidden from other users on read, refused on write.
	_, err := exercises.Get(ctx, w.bob, ex.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, "Exercise with id "+itoa(ex.ID)+" not found", errs.MessageOf(err))
	_, err = exercises.Update(ctx, w.bob, ex.ID, domain.ExercisePatch{Name: domain.Some("Mine")})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	got, err := exercises.Get(ctx, w.superuser, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, ex.ID, got.ID)

	_, err = exercises.GetByName(ctx, w.bob, "Squat")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	got, err = exercises.GetByName(ctx, w.alice, "Squat")
	require.NoError(t, err)
	assert.Equal(t, ex.ID, got.ID)

	updated, err := exercises.Update(ctx, w.alice, ex.ID, domain.ExercisePatch{Name: domain.Some("Front squat")})
	require.NoError(t, err)
	assert.Equal(t, "Front squat", updated.Name)

	_, err = exercises.Update(ctx, w.alice, ex.ID, domain.ExercisePatch{LevelID: domain.Some(int64(999))})
	assert.ErrorIs(t, err, errs.ErrReferential)

	w.exercise(t, w.bob, "Row")
	all, err := exercises.ListAll(ctx, repository.FirstPage())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	mine, err := exercises.ListMine(ctx, w.bob, repository.FirstPage())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Row", mine[0].Name)
}

func TestExerciseService_Media(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	media := &fakeMedia{}
	exercises := NewExerciseService(w.store, media, time.Minute, zerolog.Nop())
	ex := w.exercise(t, w.alice, "Squat")

	_, err := exercises.MediaDownload(ctx, w.alice, ex.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = exercises.CreateMediaUpload(ctx, w.alice, ex.ID, "application/pdf")
	assert.ErrorIs(t, err, errs.ErrInvalid)
	_, err = exercises.CreateMediaUpload(ctx, w.bob, ex.ID, "video/mp4")
	assert.ErrorIs(t, err, errs.ErrForbidden)

	first, err := exercises.CreateMediaUpload(ctx, w.alice, ex.ID, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "PUT", first.Method)
	assert.True(t, strings.HasPrefix(first.Key, "exercises/"+itoa(ex.ID)+"/"))

	down, err := exercises.MediaDownload(ctx, w.alice, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, "GET", down.Method)
	assert.Equal(t, first.Key, down.Key)

	second, err := exercises.CreateMediaUpload(ctx, w.alice, ex.ID, "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, second.Key)
	assert.Equal(t, []string{first.Key}, media.deleted, "the replaced object is removed")

	_, err = exercises.Delete(ctx, w.alice, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{first.Key, second.Key}, media.deleted)
}

func TestExerciseService_MediaDisabled(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	exercises := NewExerciseService(w.store, nil, 0, zerolog.Nop())
	ex := w.exercise(t, w.alice, "Squat")

	_, err := exercises.CreateMediaUpload(ctx, w.alice, ex.ID, "video/mp4")
	require.ErrorIs(t, err, errs.ErrUnavailable)
	assert.Equal(t, "Media storage is not configured", errs.MessageOf(err))

	// Deleting works without a media backend.
	_, err = exercises.Delete(ctx, w.alice, ex.ID)
	assert.NoError(t, err)
}
