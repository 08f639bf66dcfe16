// Package repository persists the cryptofolio entities.
//
// Every entity kind lives in its own flat JSON file holding an array of
// entities. Files are loaded once, reads are served from memory, and every
// successful write rewrites the whole file.
package repository

// Entity is anything with an identity. Two entities with the same key are the
// same entity, whatever their other fields.
type Entity[K comparable] interface {
	Key() K
}

// Repository is a collection of entities indexed by their key.
//
// Repositories do not validate entities: that is the job of the entity
// constructors and mutators.
type Repository[K comparable, E Entity[K]] interface {
	// FindByID returns the entity with key id.
	FindByID(id K) (E, bool)
	// FindAll returns a snapshot of all entities in insertion order.
	FindAll() []E
	// FindAllFunc returns the entities accepted by keep, in insertion order.
	FindAllFunc(keep func(E) bool) []E
	// Add inserts e, or replaces the entity with the same key in place, and
	// persists the collection.
	Add(e E) (E, error)
	// Remove deletes the entity with the key of e and reports whether it
	// existed. Nothing is persisted when it did not.
	Remove(e E) (bool, error)
	// Save persists the collection.
	Save() error
}
