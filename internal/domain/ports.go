package domain

import "context"

// KeyValueStore is the persistence boundary: atomic get/set of a blob per
// key. Implementations can be in-memory, a directory of files, bbolt,
// SQLite, Badger, Redis, or anything else that can hold a byte slice.
type KeyValueStore interface {
	// Get returns the value under key. found is false when the key has
	// never been set; that is not an error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set replaces the value under key. A failed Set leaves the previous
	// value in place.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// RecipeRepository is durable CRUD over the whole recipe collection.
type RecipeRepository interface {
	List(ctx context.Context) ([]Recipe, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Create(ctx context.Context, recipe *Recipe) error
	Update(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id string) error
}
