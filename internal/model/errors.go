package model

import "errors"

var (
	ErrEmptyToken            = errors.New("auth token is empty")
	ErrInvalidUserRecord     = errors.New("invalid user record")
	ErrUnsupportedVersion    = errors.New("unsupported user record version")
	ErrUnknownStoreBackend   = errors.New("unknown store backend")
	ErrUnknownVerifierKind   = errors.New("unknown verifier kind")
	ErrVerifierNotConfigured = errors.New("token verifier is not configured")
)
