package session

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classtrack/core"
)

type memStore struct {
	sess *Session
}

func (m *memStore) LoadSession(context.Context) (Session, error) {
	if m.sess == nil {
		return Session{}, ErrNoSession
	}
	return *m.sess, nil
}

func (m *memStore) SaveSession(_ context.Context, s Session) error {
	m.sess = &s
	return nil
}

func (m *memStore) ClearSession(context.Context) error {
	m.sess = nil
	return nil
}

func setup() (*Service, *memStore) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	store := new(memStore)
	return NewService(store, validate, translator), store
}

func TestService_Authenticate(t *testing.T) {
	svc, _ := setup()

	tests := []struct {
		name      string
		creds     Credentials
		want      Session
		wantField string
	}{
		{
			name:  "student username",
			creds: Credentials{Role: "student", Username: " Alice ", Password: "hunter2"},
			want:  Session{Username: "Alice", Role: RoleStudent},
		},
		{
			name:  "teacher email",
			creds: Credentials{Role: "Teacher", Username: "t@school.test", Password: "hunter2"},
			want:  Session{Username: "t@school.test", Role: RoleTeacher},
		},
		{name: "bad email", creds: Credentials{Role: "student", Username: "bob@nowhere", Password: "hunter2"}, wantField: "username"},
		{name: "blank username", creds: Credentials{Role: "student", Username: "  ", Password: "hunter2"}, wantField: "username"},
		{name: "short password", creds: Credentials{Role: "student", Username: "bob", Password: "1234"}, wantField: "password"},
		{name: "unknown role", creds: Credentials{Role: "admin", Username: "bob", Password: "hunter2"}, wantField: "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authenticate(tt.creds)
			if tt.wantField != "" {
				var verr *core.ValidationError
				require.True(t, errors.As(err, &verr), "got %v", err)
				require.Len(t, verr.Fields, 1)
				assert.Equal(t, tt.wantField, verr.Fields[0].Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_LoginLogout(t *testing.T) {
	svc, store := setup()
	ctx := context.Background()

	_, err := svc.Current(ctx)
	assert.Equal(t, ErrNoSession, err)

	sess, err := svc.Login(ctx, Credentials{Role: "student", Username: "Alice", Password: "hunter2"})
	require.NoError(t, err)
	assert.True(t, sess.IsStudent())
	assert.Equal(t, &sess, store.sess)

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, cur)

	require.NoError(t, svc.Logout(ctx))
	_, err = svc.Current(ctx)
	assert.Equal(t, ErrNoSession, err)
}
