package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishisakhi/sakhi-session/internal/model"
)

func newMockRepo(t *testing.T) (*CredentialRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewCredentialRepository(db, "dev1"), mock
}

func TestCredentialRepository_Get(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    string
		wantOK  bool
		wantErr bool
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT value FROM credentials").
					WithArgs("dev1", model.KeyAuthToken).
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("abc"))
			},
			want:   "abc",
			wantOK: true,
		},
		{
			name: "missing key",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT value FROM credentials").
					WithArgs("dev1", model.KeyAuthToken).
					WillReturnRows(sqlmock.NewRows([]string{"value"}))
			},
		},
		{
			name: "database error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT value FROM credentials").
					WithArgs("dev1", model.KeyAuthToken).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setup(mock)

			got, ok, err := repo.Get(context.Background(), model.KeyAuthToken)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCredentialRepository_Set(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs("dev1", model.KeyUserData, `{"id":1}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), model.KeyUserData, `{"id":1}`))
}

func TestCredentialRepository_Set_Error(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs("dev1", model.KeyAuthToken, "abc").
		WillReturnError(errors.New("disk full"))

	err := repo.Set(context.Background(), model.KeyAuthToken, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set credential")
}

func TestCredentialRepository_RemoveAll(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM credentials").
		WithArgs("dev1", model.KeyAuthToken).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM credentials").
		WithArgs("dev1", model.KeyUserData).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.RemoveAll(context.Background(), model.KeyAuthToken, model.KeyUserData))
}

func TestCredentialRepository_RemoveAll_RollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM credentials").
		WithArgs("dev1", model.KeyAuthToken).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM credentials").
		WithArgs("dev1", model.KeyUserData).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	err := repo.RemoveAll(context.Background(), model.KeyAuthToken, model.KeyUserData)
	require.Error(t, err)
}

func TestCredentialRepository_RemoveAll_BeginFails(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	require.Error(t, repo.RemoveAll(context.Background(), model.KeyAuthToken, model.KeyUserData))
}

func TestCredentialRepository_RemoveAll_NoKeys(t *testing.T) {
	repo, _ := newMockRepo(t)

	require.NoError(t, repo.RemoveAll(context.Background()))
}

func TestNewCredentialRepository(t *testing.T) {
	repo := NewCredentialRepository(nil, "dev1")

	assert.NotNil(t, repo)
	assert.Equal(t, "dev1", repo.deviceID)
}
