// Package persist stores the client's snapshots (cart lines, signed-in
// identity) the way a browser keeps local storage: opaque JSON under a key,
// last write wins, no versioning.
package persist

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("persist: key not found")

type Store interface {
	// Load returns ErrNotFound when nothing was saved under key.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
}

const (
	CartKey     = "cart"
	IdentityKey = "user"
)

// Key joins a namespace and a name: Key("betimfc", "cart") = "betimfc:cart".
func Key(namespace, name string) string {
	namespace = strings.Trim(namespace, ":")
	if namespace == "" {
		return name
	}
	return namespace + ":" + name
}
