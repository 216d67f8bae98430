package model

import "context"

// Keys under which the credential pair is persisted.
const (
	KeyAuthToken = "authToken"
	KeyUserData  = "userData"
)

// CredentialStore is an async key-value store holding the auth token and the
// serialized user record.
type CredentialStore interface {
	// Get returns ok=false with a nil error when the key is missing.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// RemoveAll removes every given key or none of them.
	RemoveAll(ctx context.Context, keys ...string) error
}
