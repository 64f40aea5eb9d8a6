package service

import (
	"context"
	"errors"
	"strings"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/errs"
	"gymhero/training-api/internal/policy"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
)

const (
	labelTrainingUnit = "Training unit"
	labelTrainingPlan = "Training plan"
)

// TrainingInput is the payload of a new training unit or plan.
type TrainingInput struct {
	Name        string
	Description *string
}

// --- Training units ---

type TrainingUnitService interface {
	Create(ctx context.Context, actor *domain.User, in TrainingInput) (*domain.TrainingUnit, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.TrainingUnit, error)
	GetByName(ctx context.Context, actor *domain.User, name string) (*domain.TrainingUnit, error)
	ListAll(ctx context.Context, page repository.Page) ([]domain.TrainingUnit, error)
	ListMine(ctx context.Context, actor *domain.User, page repository.Page) ([]domain.TrainingUnit, error)
	Update(ctx context.Context, actor *domain.User, id int64, patch domain.TrainingPatch) (*domain.TrainingUnit, error)
	// Delete also drops the unit from every plan and unlinks its exercises.
	Delete(ctx context.Context, actor *domain.User, id int64) (*domain.TrainingUnit, error)

	AddExercise(ctx context.Context, actor *domain.User, unitID, exerciseID int64) (*Members[domain.TrainingUnit, domain.Exercise], error)
	RemoveExercise(ctx context.Context, actor *domain.User, unitID, exerciseID int64) (*Members[domain.TrainingUnit, domain.Exercise], error)
	ListExercises(ctx context.Context, actor *domain.User, unitID int64) ([]domain.Exercise, error)
}

type trainingUnitService struct {
	training[domain.TrainingUnit]
	exercises *Association[domain.TrainingUnit, domain.Exercise]
	planUnits repository.JoinRepository
}

func NewTrainingUnitService(store *repository.Store, log zerolog.Logger) TrainingUnitService {
	log = log.With().Str("service", "training_unit").Logger()
	return &trainingUnitService{
		training: training[domain.TrainingUnit]{
			owned: owned[domain.TrainingUnit]{repo: store.TrainingUnits, label: labelTrainingUnit},
			tx:    store.Tx,
			log:   log,
		},
		exercises: NewAssociation(store.TrainingUnits, labelTrainingUnit, store.Exercises, labelExercise, store.UnitExercises, store.Tx, log),
		planUnits: store.PlanUnits,
	}
}

func (s *trainingUnitService) Create(ctx context.Context, actor *domain.User, in TrainingInput) (*domain.TrainingUnit, error) {
	return s.create(ctx, actor, in, &domain.TrainingUnit{})
}

func (s *trainingUnitService) Delete(ctx context.Context, actor *domain.User, id int64) (*domain.TrainingUnit, error) {
	return s.delete(ctx, actor, id, func(ctx context.Context) error {
		if err := s.planUnits.DeleteByChild(ctx, id); err != nil {
			return err
		}
		return s.exercises.links.DeleteByParent(ctx, id)
	})
}

func (s *trainingUnitService) AddExercise(ctx context.Context, actor *domain.User, unitID, exerciseID int64) (*Members[domain.TrainingUnit, domain.Exercise], error) {
	return s.exercises.Add(ctx, actor, unitID, exerciseID)
}

func (s *trainingUnitService) RemoveExercise(ctx context.Context, actor *domain.User, unitID, exerciseID int64) (*Members[domain.TrainingUnit, domain.Exercise], error) {
	return s.exercises.Remove(ctx, actor, unitID, exerciseID)
}

func (s *trainingUnitService) ListExercises(ctx context.Context, actor *domain.User, unitID int64) ([]domain.Exercise, error) {
	return s.exercises.List(ctx, actor, unitID)
}

// --- Training plans ---

type TrainingPlanService interface {
	Create(ctx context.Context, actor *domain.User, in TrainingInput) (*domain.TrainingPlan, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.TrainingPlan, error)
	GetByName(ctx context.Context, actor *domain.User, name string) (*domain.TrainingPlan, error)
	ListAll(ctx context.Context, page repository.Page) ([]domain.TrainingPlan, error)
	ListMine(ctx context.Context, actor *domain.User, page repository.Page) ([]domain.TrainingPlan, error)
	Update(ctx context.Context, actor *domain.User, id int64, patch domain.TrainingPatch) (*domain.TrainingPlan, error)
	// Delete also unlinks the plan's units; the units themselves stay.
	Delete(ctx context.Context, actor *domain.User, id int64) (*domain.TrainingPlan, error)

	AddUnit(ctx context.Context, actor *domain.User, planID, unitID int64) (*Members[domain.TrainingPlan, domain.TrainingUnit], error)
	RemoveUnit(ctx context.Context, actor *domain.User, planID, unitID int64) (*Members[domain.TrainingPlan, domain.TrainingUnit], error)
	ListUnits(ctx context.Context, actor *domain.User, planID int64) ([]domain.TrainingUnit, error)
}

type trainingPlanService struct {
	training[domain.TrainingPlan]
	units *Association[domain.TrainingPlan, domain.TrainingUnit]
}

func NewTrainingPlanService(store *repository.Store, log zerolog.Logger) TrainingPlanService {
	log = log.With().Str("service", "training_plan").Logger()
	return &trainingPlanService{
		training: training[domain.TrainingPlan]{
			owned: owned[domain.TrainingPlan]{repo: store.TrainingPlans, label: labelTrainingPlan},
			tx:    store.Tx,
			log:   log,
		},
		units: NewAssociation(store.TrainingPlans, labelTrainingPlan, store.TrainingUnits, labelTrainingUnit, store.PlanUnits, store.Tx, log),
	}
}

func (s *trainingPlanService) Create(ctx context.Context, actor *domain.User, in TrainingInput) (*domain.TrainingPlan, error) {
	return s.create(ctx, actor, in, &domain.TrainingPlan{})
}

func (s *trainingPlanService) Delete(ctx context.Context, actor *domain.User, id int64) (*domain.TrainingPlan, error) {
	return s.delete(ctx, actor, id, func(ctx context.Context) error {
		return s.units.links.DeleteByParent(ctx, id)
	})
}

func (s *trainingPlanService) AddUnit(ctx context.Context, actor *domain.User, planID, unitID int64) (*Members[domain.TrainingPlan, domain.TrainingUnit], error) {
	return s.units.Add(ctx, actor, planID, unitID)
}

func (s *trainingPlanService) RemoveUnit(ctx context.Context, actor *domain.User, planID, unitID int64) (*Members[domain.TrainingPlan, domain.TrainingUnit], error) {
	return s.units.Remove(ctx, actor, planID, unitID)
}

func (s *trainingPlanService) ListUnits(ctx context.Context, actor *domain.User, planID int64) ([]domain.TrainingUnit, error) {
	return s.units.List(ctx, actor, planID)
}

// --- Shared ---

// trainingRecord is a training unit or plan: an owned, named record with an
// optional description.
type trainingRecord interface {
	domain.Owned
	GetName() string
}

// training carries the operations units and plans share.
type training[T trainingRecord] struct {
	owned[T]
	tx  repository.Transactor
	log zerolog.Logger
}

// create fills rec from in and stores it for actor. A name the actor already
// uses is rejected before the insert; the unique index catches races.
func (s training[T]) create(ctx context.Context, actor *domain.User, in TrainingInput, rec *T) (*T, error) {
	if err := policy.Active(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errs.Invalid("name cannot be empty")
	}
	if err := s.nameFree(ctx, actor.ID, name); err != nil {
		return nil, err
	}

	setTraining(rec, name, in.Description)

	created, err := s.owned.create(ctx, actor, rec)
	if errors.Is(err, errs.ErrConflict) {
		return nil, s.nameTaken(actor.ID, name)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("id", (*created).GetID()).Int64("owner_id", actor.ID).Msg("created")
	return created, nil
}

func (s training[T]) Get(ctx context.Context, actor *domain.User, id int64) (*T, error) {
	return s.get(ctx, actor, id)
}

func (s training[T]) GetByName(ctx context.Context, actor *domain.User, name string) (*T, error) {
	return s.getByName(ctx, actor, name)
}

func (s training[T]) ListAll(ctx context.Context, page repository.Page) ([]T, error) {
	return s.listAll(ctx, page)
}

func (s training[T]) ListMine(ctx context.Context, actor *domain.User, page repository.Page) ([]T, error) {
	return s.listMine(ctx, actor, page)
}

func (s training[T]) Update(ctx context.Context, actor *domain.User, id int64, patch domain.TrainingPatch) (*T, error) {
	if err := patch.Validate(); err != nil {
		return nil, errs.Invalid("%s", err.Error())
	}
	patch.Name.Value = strings.TrimSpace(patch.Name.Value)
	var updated *T
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.loadFor(ctx, actor, id, policy.Write)
		if err != nil {
			return err
		}
		owner := (*rec).GetOwnerID()
		if patch.Name.Set && patch.Name.Value != (*rec).GetName() {
			if err := s.nameFree(ctx, owner, patch.Name.Value); err != nil {
				return err
			}
		}
		updated, err = s.repo.Update(ctx, rec, patch)
		if errors.Is(err, repository.ErrDuplicate) {
			return s.nameTaken(owner, patch.Name.Value)
		}
		return fromStore(err, s.label)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// delete authorizes, runs unlink, then deletes the record, all in one
// transaction.
func (s training[T]) delete(ctx context.Context, actor *domain.User, id int64, unlink func(ctx context.Context) error) (*T, error) {
	var deleted *T
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.loadFor(ctx, actor, id, policy.Delete)
		if err != nil {
			return err
		}
		if err := unlink(ctx); err != nil {
			return fromStore(err, s.label)
		}
		deleted, err = s.repo.Delete(ctx, rec)
		return fromStore(err, s.label)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("id", id).Msg("deleted")
	return deleted, nil
}

// setTraining writes the user-supplied fields of a new unit or plan.
func setTraining[T any](rec *T, name string, description *string) {
	switch r := any(rec).(type) {
	case *domain.TrainingUnit:
		r.Name, r.Description = name, description
	case *domain.TrainingPlan:
		r.Name, r.Description = name, description
	}
}
