package kvstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classtrack/core/project"
	"github.com/trezcool/classtrack/core/session"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	bolt, err := OpenBolt(filepath.Join(t.TempDir(), "data", "test.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   bolt,
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "missing")
			assert.Equal(t, ErrKeyNotFound, err)

			require.NoError(t, store.Put(ctx, "a", []byte("1")))
			require.NoError(t, store.PutMulti(ctx, map[string][]byte{"b": []byte("2"), "c": []byte("3")}))

			v, err := store.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, []byte("2"), v)

			require.NoError(t, store.Delete(ctx, "a", "b", "never-set"))
			_, err = store.Get(ctx, "a")
			assert.Equal(t, ErrKeyNotFound, err)
			v, err = store.Get(ctx, "c")
			require.NoError(t, err)
			assert.Equal(t, []byte("3"), v)
		})
	}
}

func TestProjectRepository_roundTrip(t *testing.T) {
	ctx := context.Background()
	written := []project.Project{
		{
			ID:            1735689600000,
			Title:         "Library System",
			Subject:       "Database Management Systems",
			Deadline:      "2025-06-01",
			GroupID:       "g1",
			GroupName:     "Team A",
			GroupStudents: []string{"Alice", "Bob"},
			Submissions: []project.Submission{
				{StudentID: "Bob", FileName: "bob.pdf", FileType: "application/pdf", FileData: "data:application/pdf;base64,JVBERi0=", Timestamp: "1/1/2025, 9:00:00 AM"},
			},
			Tasks: []project.Task{
				{ID: "t1", Title: "Design ER Diagram", AssignedBy: "teacher", AssignedTo: "Alice", Status: project.StatusPending, Timestamp: "1/1/2025, 9:00:00 AM"},
				{
					ID: "t2", Title: "Seed data", AssignedBy: "teacher", AssignedTo: "Bob", Status: project.StatusSubmitted,
					SubmittedBy:     null.StringFrom("Bob"),
					FileName:        null.StringFrom("seed.sql"),
					FileData:        null.StringFrom("data:application/sql;base64,SU5TRVJU"),
					SubmitTimestamp: null.StringFrom("1/2/2025, 10:00:00 AM"),
					Timestamp:       "1/1/2025, 9:00:00 AM",
				},
			},
		},
	}

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewProjectRepository(store)

			empty, err := repo.LoadAll(ctx)
			require.NoError(t, err)
			assert.NotNil(t, empty)
			assert.Empty(t, empty)

			require.NoError(t, repo.SaveAll(ctx, written))
			got, err := repo.LoadAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, written, got)

			require.NoError(t, repo.SaveAll(ctx, nil))
			raw, err := store.Get(ctx, projectsKey)
			require.NoError(t, err)
			assert.Equal(t, "[]", string(raw))
		})
	}
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ss := NewSessionStore(store)

			_, err := ss.LoadSession(ctx)
			assert.Equal(t, session.ErrNoSession, err)

			sess := session.Session{Username: "Alice", Role: session.RoleStudent}
			require.NoError(t, ss.SaveSession(ctx, sess))
			raw, err := store.Get(ctx, currentStudentKey)
			require.NoError(t, err)
			assert.Equal(t, "Alice", string(raw))

			got, err := ss.LoadSession(ctx)
			require.NoError(t, err)
			assert.Equal(t, sess, got)

			require.NoError(t, ss.ClearSession(ctx))
			_, err = ss.LoadSession(ctx)
			assert.Equal(t, session.ErrNoSession, err)
		})
	}
}

func TestOpenBolt_locked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.db")
	first, err := OpenBolt(path, time.Second)
	require.NoError(t, err)
	defer first.Close()

	_, err = OpenBolt(path, 50*time.Millisecond)
	assert.Error(t, err)
}
