package gormstore

import (
	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// NewStore wires every repository over db.
func NewStore(db *gorm.DB, log zerolog.Logger) *repository.Store {
	log = log.With().Str("component", "gormstore").Logger()
	return &repository.Store{
		Users:         NewRepository[domain.User](db, log),
		Levels:        NewRepository[domain.Level](db, log),
		BodyParts:     NewRepository[domain.BodyPart](db, log),
		ExerciseTypes: NewRepository[domain.ExerciseType](db, log),
		Exercises:     NewRepository[domain.Exercise](db, log),
		TrainingUnits: NewRepository[domain.TrainingUnit](db, log),
		TrainingPlans: NewRepository[domain.TrainingPlan](db, log),

		PlanUnits: NewJoinTable(db, "training_plan_id", "training_unit_id",
			func(planID, unitID int64) *domain.TrainingPlanUnit {
				return &domain.TrainingPlanUnit{TrainingPlanID: planID, TrainingUnitID: unitID}
			}, log),
		UnitExercises: NewJoinTable(db, "training_unit_id", "exercise_id",
			func(unitID, exerciseID int64) *domain.TrainingUnitExercise {
				return &domain.TrainingUnitExercise{TrainingUnitID: unitID, ExerciseID: exerciseID}
			}, log),

		Tx: NewTransactor(db),
	}
}
