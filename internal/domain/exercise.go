package domain

import (
	"fmt"
	"strings"
	"time"
)

// Exercise is a user-owned exercise definition.
type Exercise struct {
	ID               int64     `gorm:"primaryKey" bson:"_id" json:"id"`
	Name             string    `gorm:"size:255;not null;index" bson:"name" json:"name"`
	Description      *string   `gorm:"type:text" bson:"description" json:"description"`
	TargetBodyPartID int64     `gorm:"not null;index" bson:"target_body_part_id" json:"target_body_part_id"`
	ExerciseTypeID   int64     `gorm:"not null;index" bson:"exercise_type_id" json:"exercise_type_id"`
	LevelID          int64     `gorm:"not null;index" bson:"level_id" json:"level_id"`
	OwnerID          int64     `gorm:"not null;index" bson:"owner_id" json:"owner_id"`
	MediaKey         *string   `gorm:"size:512" bson:"media_key" json:"-"` // Object key in media storage
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`

	// Relations exist for foreign-key constraints only; they are never loaded.
	TargetBodyPart *BodyPart     `gorm:"foreignKey:TargetBodyPartID;constraint:OnDelete:RESTRICT" bson:"-" json:"-"`
	ExerciseType   *ExerciseType `gorm:"foreignKey:ExerciseTypeID;constraint:OnDelete:RESTRICT" bson:"-" json:"-"`
	Level          *Level        `gorm:"foreignKey:LevelID;constraint:OnDelete:RESTRICT" bson:"-" json:"-"`
	Owner          *User         `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" bson:"-" json:"-"`
}

func (Exercise) TableName() string { return "exercises" }
func (Exercise) Category() Category { return CategoryOwned }
func (e Exercise) GetID() int64 { return e.ID }
func (e Exercise) GetName() string { return e.Name }
func (e Exercise) GetOwnerID() int64 { return e.OwnerID }
func (e *Exercise) SetOwnerID(id int64) { e.OwnerID = id }

// ExercisePatch is a sparse change set for an exercise.
type ExercisePatch struct {
	Name             Optional[string] `json:"name"`
	Description      Optional[string] `json:"description"`
	TargetBodyPartID Optional[int64]  `json:"target_body_part_id"`
	ExerciseTypeID   Optional[int64]  `json:"exercise_type_id"`
	LevelID          Optional[int64]  `json:"level_id"`
}

func (p ExercisePatch) Validate() error {
	if p.Name.Set && (p.Name.Null || strings.TrimSpace(p.Name.Value) == "") {
		return fmt.Errorf("name cannot be empty")
	}
	for field, ref := range map[string]Optional[int64]{
		"target_body_part_id": p.TargetBodyPartID,
		"exercise_type_id":    p.ExerciseTypeID,
		"level_id":            p.LevelID,
	} {
		if ref.Set && (ref.Null || ref.Value <= 0) {
			return fmt.Errorf("%s must be a positive id", field)
		}
	}
	return nil
}

func (p ExercisePatch) Changes() map[string]any {
	changes := make(map[string]any)
	if p.Name.Set {
		changes["name"] = p.Name.Value
	}
	if p.Description.Set {
		changes["description"] = nullable(p.Description)
	}
	if p.TargetBodyPartID.Set {
		changes["target_body_part_id"] = p.TargetBodyPartID.Value
	}
	if p.ExerciseTypeID.Set {
		changes["exercise_type_id"] = p.ExerciseTypeID.Value
	}
	if p.LevelID.Set {
		changes["level_id"] = p.LevelID.Value
	}
	return changes
}
