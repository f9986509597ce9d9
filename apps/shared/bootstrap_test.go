package shared

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classtrack/core"
	"github.com/trezcool/classtrack/core/project"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func TestLoadDirectory(t *testing.T) {
	dir, err := LoadDirectory(&core.Config{})
	require.NoError(t, err)
	assert.Contains(t, dir.Subjects(), "Database Management Systems")
	grp, ok := dir.GroupByID("g1")
	require.True(t, ok)
	assert.Equal(t, []string{"Alice", "Bob"}, grp.Students)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("subjects: [Robotics]\ngroups: [{id: r1, name: Bots, students: [Zed]}]\n"), 0600))
	dir, err = LoadDirectory(&core.Config{CatalogPath: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"Robotics"}, dir.Subjects())

	_, err = LoadDirectory(&core.Config{CatalogPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestSetup(t *testing.T) {
	conf := &core.Config{
		AppName:       "ClassTrack",
		Debug:         true,
		MaxUploadSize: 1024,
		Storage:       core.StorageConfig{Engine: "bolt", Path: filepath.Join(t.TempDir(), "classtrack.db")},
	}
	deps, err := Setup(context.Background(), conf, nopLogger{})
	require.NoError(t, err)
	defer deps.Store.Close()

	prj, err := deps.ProjectSvc.Create(context.Background(), project.NewProject{
		Title:    "Library System",
		Subject:  "Database Management Systems",
		Deadline: "2025-06-01",
		GroupID:  "g1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Team A", prj.GroupName)
}
