package model

import "context"

// TokenVerifier checks that an auth token is still valid.
// A rejected token yields false with a nil error; transport and
// configuration problems are returned as errors.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}
