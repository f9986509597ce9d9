package kvstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core/session"
)

const (
	currentStudentKey = "currentStudent"
	currentRoleKey    = "currentRole"
)

// SessionStore keeps the acting identity under "currentStudent" and its role under "currentRole".
type SessionStore struct {
	store Store
}

var _ session.Store = (*SessionStore)(nil)

func NewSessionStore(store Store) *SessionStore {
	return &SessionStore{store: store}
}

func (ss *SessionStore) LoadSession(ctx context.Context) (session.Session, error) {
	uname, err := ss.store.Get(ctx, currentStudentKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return session.Session{}, session.ErrNoSession
		}
		return session.Session{}, err
	}
	role, err := ss.store.Get(ctx, currentRoleKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return session.Session{}, session.ErrNoSession
		}
		return session.Session{}, err
	}
	if len(uname) == 0 {
		return session.Session{}, session.ErrNoSession
	}
	return session.Session{Username: string(uname), Role: string(role)}, nil
}

func (ss *SessionStore) SaveSession(ctx context.Context, s session.Session) error {
	return ss.store.PutMulti(ctx, map[string][]byte{
		currentStudentKey: []byte(s.Username),
		currentRoleKey:    []byte(s.Role),
	})
}

func (ss *SessionStore) ClearSession(ctx context.Context) error {
	return ss.store.Delete(ctx, currentStudentKey, currentRoleKey)
}
