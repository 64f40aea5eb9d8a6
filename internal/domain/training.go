package domain

import (
	"fmt"
	"strings"
	"time"
)

// TrainingUnit is a named group of exercises (one session, e.g. "Day 1").
type TrainingUnit struct {
	ID          int64     `gorm:"primaryKey" bson:"_id" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex:uq_training_units_name_owner" bson:"name" json:"name"`
	Description *string   `gorm:"type:text" bson:"description" json:"description"`
	OwnerID     int64     `gorm:"not null;uniqueIndex:uq_training_units_name_owner" bson:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" bson:"-" json:"-"`
}

func (TrainingUnit) TableName() string { return "training_units" }
func (TrainingUnit) Category() Category { return CategoryOwned }
func (u TrainingUnit) GetID() int64 { return u.ID }
func (u TrainingUnit) GetName() string { return u.Name }
func (u TrainingUnit) GetOwnerID() int64 { return u.OwnerID }
func (u *TrainingUnit) SetOwnerID(id int64) { u.OwnerID = id }

// TrainingPlan is a named group of training units.
type TrainingPlan struct {
	ID          int64     `gorm:"primaryKey" bson:"_id" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex:uq_training_plans_name_owner" bson:"name" json:"name"`
	Description *string   `gorm:"type:text" bson:"description" json:"description"`
	OwnerID     int64     `gorm:"not null;uniqueIndex:uq_training_plans_name_owner" bson:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" bson:"-" json:"-"`
}

func (TrainingPlan) TableName() string { return "training_plans" }
func (TrainingPlan) Category() Category { return CategoryOwned }
func (p TrainingPlan) GetID() int64 { return p.ID }
func (p TrainingPlan) GetName() string { return p.Name }
func (p TrainingPlan) GetOwnerID() int64 { return p.OwnerID }
func (p *TrainingPlan) SetOwnerID(id int64) { p.OwnerID = id }

// TrainingPatch is a sparse change set shared by units and plans.
type TrainingPatch struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
}

func (p TrainingPatch) Validate() error {
	if p.Name.Set && (p.Name.Null || strings.TrimSpace(p.Name.Value) == "") {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func (p TrainingPatch) Changes() map[string]any {
	changes := make(map[string]any)
	if p.Name.Set {
		changes["name"] = p.Name.Value
	}
	if p.Description.Set {
		changes["description"] = nullable(p.Description)
	}
	return changes
}

// --- Join rows ---
// The composite primary key makes each relation a set of pairs.

// TrainingPlanUnit links a training plan to one of its units.
type TrainingPlanUnit struct {
	TrainingPlanID int64     `gorm:"primaryKey;autoIncrement:false" bson:"training_plan_id"`
	TrainingUnitID int64     `gorm:"primaryKey;autoIncrement:false;index" bson:"training_unit_id"`
	CreatedAt      time.Time `bson:"created_at"`

	TrainingPlan *TrainingPlan `gorm:"foreignKey:TrainingPlanID;constraint:OnDelete:CASCADE" bson:"-"`
	TrainingUnit *TrainingUnit `gorm:"foreignKey:TrainingUnitID;constraint:OnDelete:CASCADE" bson:"-"`
}

func (TrainingPlanUnit) TableName() string { return "training_plan_units" }

// TrainingUnitExercise links a training unit to one of its exercises.
type TrainingUnitExercise struct {
	TrainingUnitID int64     `gorm:"primaryKey;autoIncrement:false" bson:"training_unit_id"`
	ExerciseID     int64     `gorm:"primaryKey;autoIncrement:false;index" bson:"exercise_id"`
	CreatedAt      time.Time `bson:"created_at"`

	TrainingUnit *TrainingUnit `gorm:"foreignKey:TrainingUnitID;constraint:OnDelete:CASCADE" bson:"-"`
	Exercise     *Exercise     `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE" bson:"-"`
}

func (TrainingUnitExercise) TableName() string { return "training_unit_exercises" }
