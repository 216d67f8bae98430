package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishisakhi/sakhi-session/internal/model"
)

func TestEncodeUser_WritesEnvelope(t *testing.T) {
	data, err := EncodeUser(model.User{"id": 7, "name": "Lakshmi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"user":{"id":7,"name":"Lakshmi"}}`, data)
}

func TestEncodeUser_NilUser(t *testing.T) {
	_, err := EncodeUser(nil)
	require.ErrorIs(t, err, model.ErrInvalidUserRecord)
}

func TestDecodeUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    model.User
		wantErr error
		anyErr  bool
	}{
		{
			name: "envelope",
			data: `{"v":1,"user":{"id":3,"district":"Palakkad","crops":["paddy","banana"]}}`,
			want: model.User{"id": json.Number("3"), "district": "Palakkad", "crops": []any{"paddy", "banana"}},
		},
		{
			name: "legacy bare record",
			data: `{"id":1}`,
			want: model.User{"id": json.Number("1")},
		},
		{
			name: "legacy record keeps unknown fields",
			data: `{"id":2,"avatar":"x.png","role":"farmer"}`,
			want: model.User{"id": json.Number("2"), "avatar": "x.png", "role": "farmer"},
		},
		{
			name: "string id",
			data: `{"v":1,"user":{"id":"u-42","extra":true}}`,
			want: model.User{"id": "u-42", "extra": true},
		},
		{
			name: "legacy record with a v field",
			data: `{"id":1,"v":2}`,
			want: model.User{"id": json.Number("1"), "v": json.Number("2")},
		},
		{
			name:    "future version",
			data:    `{"v":2,"user":{"id":1}}`,
			wantErr: model.ErrUnsupportedVersion,
		},
		{
			name:    "envelope with null user",
			data:    `{"v":1,"user":null}`,
			wantErr: model.ErrInvalidUserRecord,
		},
		{
			name:    "null",
			data:    `null`,
			wantErr: model.ErrInvalidUserRecord,
		},
		{
			name:   "garbage",
			data:   `{"id":`,
			anyErr: true,
		},
		{
			name:   "user is not an object",
			data:   `{"v":1,"user":"asha"}`,
			anyErr: true,
		},
		{
			name:   "version is not a number",
			data:   `{"v":"one","user":{}}`,
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeUser(tt.data)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEncodeDecode_IsLossless(t *testing.T) {
	stored := `{"id":"u-42","name":"Ravi","landAcres":2.50,"farm":{"crops":["pepper"],"irrigated":true},"big":12345678901234567890}`

	u, err := DecodeUser(stored)
	require.NoError(t, err)
	assert.Equal(t, "u-42", u.ID())

	data, err := EncodeUser(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"user":`+stored+`}`, data)
	assert.Contains(t, data, `"big":12345678901234567890`)

	again, err := DecodeUser(data)
	require.NoError(t, err)
	assert.Equal(t, u, again)
}
