// Package credentials provides the durable key/value repository backing the
// client's credential store.
package credentials

import "context"

// Repository is a small key/value surface over local durable storage.
// Get returns (nil, nil) when the key is absent; absence is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
