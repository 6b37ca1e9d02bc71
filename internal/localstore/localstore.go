// Package localstore provides the small key/value "local storage" atlas
// persists favorites into. Values are opaque bytes; callers decide the
// encoding (favorites stores a JSON array).
package localstore

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("localstore: key not found")

// Storage is a synchronous key/value store. Set returns only after the value
// is durable for the backend in use.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("localstore: invalid key %q", key)
	}
	return nil
}
