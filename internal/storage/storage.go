package storage

import "errors"

// ErrNotFound is returned when no blob exists under a key.
var ErrNotFound = errors.New("blob not found")

// Store is the persistence port: an opaque blob store keyed by string.
// The task and checklist stores read and write whole collections through it;
// nothing above this interface knows where the bytes live.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
