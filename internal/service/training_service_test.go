package service

import (
	"context"
	"testing"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/errs"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainingUnit_NamesArePerOwner(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	units := NewTrainingUnitService(w.store, zerolog.Nop())

	desc := "legs"
	day1, err := units.Create(ctx, w.alice, TrainingInput{Name: "Day 1", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, w.alice.ID, day1.OwnerID)
	require.NotNil(t, day1.Description)

	_, err = units.Create(ctx, w.alice, TrainingInput{Name: "Day 1"})
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "Training unit with name Day 1 already exists for user "+itoa(w.alice.ID), errs.MessageOf(err))

	_, err = units.Create(ctx, w.bob, TrainingInput{Name: "Day 1"})
	assert.NoError(t, err)

	_, err = units.Create(ctx, w.alice, TrainingInput{Name: " "})
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestTrainingUnit_Update(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	units := NewTrainingUnitService(w.store, zerolog.Nop())
	day1 := w.unit(t, w.alice, "Day 1")
	w.unit(t, w.alice, "Day 2")

	_, err := units.Update(ctx, w.alice, day1.ID, domain.TrainingPatch{Name: domain.Some("Day 2")})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = units.Update(ctx, w.bob, day1.ID, domain.TrainingPatch{Name: domain.Some("Bob's")})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = units.Update(ctx, w.alice, day1.ID, domain.TrainingPatch{Name: domain.Null[string]()})
	assert.ErrorIs(t, err, errs.ErrInvalid)

	_, err = units.Update(ctx, w.alice, day1.ID, domain.TrainingPatch{Name: domain.Some("Day 2 ")})
	assert.ErrorIs(t, err, errs.ErrConflict)

	updated, err := units.Update(ctx, w.alice, day1.ID, domain.TrainingPatch{Name: domain.Some(" Day 1 "), Description: domain.Some("upper body")})
	require.NoError(t, err)
	assert.Equal(t, "Day 1", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "upper body", *updated.Description)

	// A superuser edits on behalf of the owner; the name check uses the owner.
	_, err = units.Update(ctx, w.superuser, day1.ID, domain.TrainingPatch{Name: domain.Some("Day 2")})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestTrainingPlan_Reads(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	plans := NewTrainingPlanService(w.store, zerolog.Nop())
	alicePlan := w.plan(t, w.alice, "Strength")
	bobPlan := w.plan(t, w.bob, "Strength")

	got, err := plans.GetByName(ctx, w.bob, "Strength")
	require.NoError(t, err)
	assert.Equal(t, bobPlan.ID, got.ID)

	got, err = plans.GetByName(ctx, w.superuser, "Strength")
	require.NoError(t, err)
	assert.Equal(t, alicePlan.ID, got.ID, "lowest id wins for superusers")

	_, err = plans.Get(ctx, w.bob, alicePlan.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	all, err := plans.ListAll(ctx, repository.FirstPage())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	mine, err := plans.ListMine(ctx, w.alice, repository.FirstPage())
	require.NoError(t, err)
	assert.Equal(t, []int64{alicePlan.ID}, ids(mine))

	_, err = plans.ListMine(ctx, nil, repository.FirstPage())
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestTrainingPlan_Delete(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	plans := NewTrainingPlanService(w.store, zerolog.Nop())
	units := NewTrainingUnitService(w.store, zerolog.Nop())
	plan := w.plan(t, w.alice, "Plan")
	unit := w.unit(t, w.alice, "Day 1")
	_, err := plans.AddUnit(ctx, w.alice, plan.ID, unit.ID)
	require.NoError(t, err)

	_, err = plans.Delete(ctx, w.bob, plan.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	deleted, err := plans.Delete(ctx, w.alice, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, deleted.ID)

	_, err = plans.Get(ctx, w.alice, plan.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = units.Get(ctx, w.alice, unit.ID)
	assert.NoError(t, err, "units outlive their plans")
}
