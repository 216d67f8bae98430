package model

import (
	"encoding/json"
	"strconv"
)

// User is the signed-in user record. Its fields belong to the application:
// every field survives a store round trip, whatever its name or type.
// A nil User means no user.
type User map[string]any

// ID returns the "id" field as a string. Numeric and string ids are both
// accepted; anything else yields "".
func (u User) ID() string {
	switch v := u["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// String returns the named field when it holds a string.
func (u User) String(key string) string {
	s, _ := u[key].(string)
	return s
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	if u == nil {
		return nil
	}
	return cloneMap(u)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case User:
		return User(cloneMap(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}
