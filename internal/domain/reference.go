package domain

import (
	"fmt"
	"strings"
	"time"
)

// Level is a difficulty level referenced by exercises.
type Level struct {
	ID        int64     `gorm:"primaryKey" bson:"_id" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (Level) TableName() string { return "levels" }
func (Level) Category() Category { return CategoryReference }
func (l Level) GetID() int64 { return l.ID }
func (l Level) GetName() string { return l.Name }

// BodyPart is a targeted body part referenced by exercises.
type BodyPart struct {
	ID        int64     `gorm:"primaryKey" bson:"_id" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (BodyPart) TableName() string { return "body_parts" }
func (BodyPart) Category() Category { return CategoryReference }
func (b BodyPart) GetID() int64 { return b.ID }
func (b BodyPart) GetName() string { return b.Name }

// ExerciseType classifies exercises (strength, cardio, ...).
type ExerciseType struct {
	ID        int64     `gorm:"primaryKey" bson:"_id" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (ExerciseType) TableName() string { return "exercise_types" }
func (ExerciseType) Category() Category { return CategoryReference }
func (e ExerciseType) GetID() int64 { return e.ID }
func (e ExerciseType) GetName() string { return e.Name }

// NamePatch updates the name of a reference record.
type NamePatch struct {
	Name Optional[string] `json:"name"`
}

func (p NamePatch) Validate() error {
	if p.Name.Set && (p.Name.Null || strings.TrimSpace(p.Name.Value) == "") {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func (p NamePatch) Changes() map[string]any {
	changes := make(map[string]any)
	if p.Name.Set {
		changes["name"] = p.Name.Value
	}
	return changes
}
