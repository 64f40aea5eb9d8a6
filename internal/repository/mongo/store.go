package mongo

import (
	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewStore wires every repository over db.
func NewStore(client *mongo.Client, db *mongo.Database, transactions bool, log zerolog.Logger) *repository.Store {
	log = log.With().Str("component", "mongo").Logger()
	return &repository.Store{
		Users:         NewRepository[domain.User](db, log),
		Levels:        NewRepository[domain.Level](db, log),
		BodyParts:     NewRepository[domain.BodyPart](db, log),
		ExerciseTypes: NewRepository[domain.ExerciseType](db, log),
		Exercises:     NewRepository[domain.Exercise](db, log),
		TrainingUnits: NewRepository[domain.TrainingUnit](db, log),
		TrainingPlans: NewRepository[domain.TrainingPlan](db, log),

		PlanUnits:     NewJoinCollection(db, domain.TrainingPlanUnit{}.TableName(), "training_plan_id", "training_unit_id", log),
		UnitExercises: NewJoinCollection(db, domain.TrainingUnitExercise{}.TableName(), "training_unit_id", "exercise_id", log),

		Tx: NewTransactor(client, transactions),
	}
}
