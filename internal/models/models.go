// package models defines the data model for the player
package models

import (
	"time"
)

// Model is a row the local cache persists. [CachedTrack] is the only one today.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error // checked before every write
}

// Repository is the CRUD surface a cache table exposes.
//
// List accepts backend-specific criteria such as "limit".
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
