// Package codec serializes the user record kept in the credential store.
//
// Records are written as a versioned envelope {"v":1,"user":{...}}.
// Records written before the envelope existed are bare user objects and are
// still accepted on read. Numbers are kept as json.Number so ids and other
// numeric fields are re-encoded exactly as they were read.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/krishisakhi/sakhi-session/internal/model"
)

// CurrentVersion is the envelope version written by EncodeUser.
const CurrentVersion = 1

type envelope struct {
	Version int        `json:"v"`
	User    model.User `json:"user"`
}

// EncodeUser serializes u into the current envelope format.
func EncodeUser(u model.User) (string, error) {
	if u == nil {
		return "", model.ErrInvalidUserRecord
	}
	data, err := json.Marshal(envelope{Version: CurrentVersion, User: u})
	if err != nil {
		return "", fmt.Errorf("failed to marshal user record: %w", err)
	}
	return string(data), nil
}

// DecodeUser parses a stored user record in either the envelope or the bare
// legacy format. Only an object carrying both "v" and "user" is an envelope.
func DecodeUser(data string) (model.User, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user record: %w", err)
	}
	if probe == nil {
		return nil, model.ErrInvalidUserRecord
	}

	rawVersion, hasVersion := probe["v"]
	rawUser, hasUser := probe["user"]
	if !hasVersion || !hasUser {
		return decodeRecord([]byte(data))
	}

	var version int
	if err := json.Unmarshal(rawVersion, &version); err != nil {
		return nil, fmt.Errorf("failed to read user record version: %w", err)
	}
	if version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", model.ErrUnsupportedVersion, version)
	}

	return decodeRecord(rawUser)
}

func decodeRecord(raw []byte) (model.User, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var u model.User
	if err := dec.Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user record: %w", err)
	}
	if u == nil {
		return nil, model.ErrInvalidUserRecord
	}
	return u, nil
}
