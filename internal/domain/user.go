package domain

import (
	"fmt"
	"strings"
	"time"
)

// User is an account that can authenticate and own exercises, training units
// and training plans.
type User struct {
	ID             int64     `gorm:"primaryKey" bson:"_id" json:"id"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" bson:"email" json:"email"`
	HashedPassword string    `gorm:"size:255;not null" bson:"hashed_password" json:"-"` // Never exposed
	FullName       *string   `gorm:"size:255" bson:"full_name" json:"full_name"`
	IsActive       bool      `gorm:"not null" bson:"is_active" json:"is_active"`
	IsSuperuser    bool      `gorm:"not null" bson:"is_superuser" json:"is_superuser"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }
func (User) Category() Category { return CategoryAccount }
func (u User) GetID() int64 { return u.ID }

// UserPatch is a sparse change set for a user. HashedPassword is filled by
// the service from a plaintext password, never decoded from a request.
type UserPatch struct {
	Email          Optional[string] `json:"email"`
	FullName       Optional[string] `json:"full_name"`
	Password       Optional[string] `json:"password"`
	IsActive       Optional[bool]   `json:"is_active"`
	IsSuperuser    Optional[bool]   `json:"is_superuser"`
	HashedPassword Optional[string] `json:"-"`
}

// Validate rejects nulls on non-nullable fields.
func (p UserPatch) Validate() error {
	if p.Email.Set && (p.Email.Null || !strings.Contains(p.Email.Value, "@")) {
		return fmt.Errorf("email must be a valid address")
	}
	if p.Password.Set && (p.Password.Null || len(p.Password.Value) < 8) {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if p.IsActive.Set && p.IsActive.Null {
		return fmt.Errorf("is_active cannot be null")
	}
	if p.IsSuperuser.Set && p.IsSuperuser.Null {
		return fmt.Errorf("is_superuser cannot be null")
	}
	return nil
}

// Changes returns the columns to write. The plaintext password is never
// part of the change set.
func (p UserPatch) Changes() map[string]any {
	changes := make(map[string]any)
	if p.Email.Set {
		changes["email"] = p.Email.Value
	}
	if p.FullName.Set {
		changes["full_name"] = nullable(p.FullName)
	}
	if p.HashedPassword.Set {
		changes["hashed_password"] = p.HashedPassword.Value
	}
	if p.IsActive.Set {
		changes["is_active"] = p.IsActive.Value
	}
	if p.IsSuperuser.Set {
		changes["is_superuser"] = p.IsSuperuser.Value
	}
	return changes
}
