package domain

// Category groups resources that share one access rule.
type Category uint8

const (
	// CategoryReference covers globally shared lookup data (levels, body parts, exercise types).
	CategoryReference Category = iota
	// CategoryOwned covers records stamped with an owner_id.
	CategoryOwned
	// CategoryAccount covers user accounts.
	CategoryAccount
)

// Entity is implemented by every persisted record with a surrogate id.
type Entity interface {
	GetID() int64
	TableName() string
	Category() Category
}

// Owned is an entity carrying an owner_id.
type Owned interface {
	Entity
	GetOwnerID() int64
}

// Ownable is implemented by pointers to owned entities so that repositories
// can stamp the owner on create.
type Ownable interface {
	SetOwnerID(ownerID int64)
}

// Named is an entity looked up by name.
type Named interface {
	Entity
	GetName() string
}
