package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Username: "asha",
		Password: "s3cret",
		Address:  "1 MG Road",
		City:     "Pune",
		State:    "MH",
		Pincode:  "411001",
	}
}

func TestAccountService_Register(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	pub := &fakePublisher{}
	svc := &AccountService{Users: store, Events: pub}

	u, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	cost, err := bcrypt.Cost([]byte(u.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), u.PasswordHash)

	require.Len(t, pub.events, 1)
}

func TestAccountService_Register_Conflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		want   error
	}{
		{
			name:   "same email",
			mutate: func(in *RegisterInput) { in.Username = "other" },
			want:   ErrEmailTaken,
		},
		{
			name:   "same username",
			mutate: func(in *RegisterInput) { in.Email = "other@example.com" },
			want:   ErrUsernameTaken,
		},
		{
			name: "same address when checked",
			mutate: func(in *RegisterInput) {
				in.Email = "other@example.com"
				in.Username = "other"
				in.UniqueAddress = true
			},
			want: ErrAddressTaken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &AccountService{Users: newMemStore()}
			_, err := svc.Register(context.Background(), validRegistration())
			require.NoError(t, err)

			in := validRegistration()
			tt.mutate(&in)
			_, err = svc.Register(context.Background(), in)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, ErrConflict)
		})
	}
}

func TestAccountService_Register_SameAddressAllowedByDefault(t *testing.T) {
	t.Parallel()

	svc := &AccountService{Users: newMemStore()}
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	in := validRegistration()
	in.Email, in.Username = "flatmate@example.com", "flatmate"
	_, err = svc.Register(context.Background(), in)
	require.NoError(t, err)
}

func TestAccountService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := &AccountService{Users: newMemStore()}
	in := validRegistration()
	in.Password = ""

	_, err := svc.Register(context.Background(), in)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "password")
}

func TestAccountService_Register_StoreError(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.err = errBoom
	svc := &AccountService{Users: store}

	_, err := svc.Register(context.Background(), validRegistration())
	require.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestAccountService_Authenticate(t *testing.T) {
	t.Parallel()

	svc := &AccountService{Users: newMemStore()}
	registered, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "ok", username: "asha", password: "s3cret"},
		{name: "wrong password", username: "asha", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "ghost", password: "s3cret", wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u, err := svc.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID, u.ID)
		})
	}
}

func TestAccountService_ListUsers(t *testing.T) {
	t.Parallel()

	svc := &AccountService{Users: newMemStore()}
	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	_, err = svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	users, err = svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
