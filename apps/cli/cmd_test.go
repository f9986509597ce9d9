package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classtrack/core"
	"github.com/trezcool/classtrack/core/project"
	"github.com/trezcool/classtrack/core/session"
	"github.com/trezcool/classtrack/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.Services, *bytes.Buffer) {
	svcs := testutil.NewServices(t)
	out := new(bytes.Buffer)
	return &commandLine{
		conf:    svcs.Conf,
		sessSvc: svcs.SessionSvc,
		prjSvc:  svcs.ProjectSvc,
		out:     out,
	}, svcs, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest, before func(tt cliTest)) {
	for _, tt := range tests {
		args := append([]string{"classtrack"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if before != nil {
				before(tt)
			}
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func login(t *testing.T, cli *commandLine, sess session.Session) {
	t.Helper()
	_, err := cli.sessSvc.Login(context.Background(), session.Credentials{Role: sess.Role, Username: sess.Username, Password: "secret"})
	require.NoError(t, err)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	createDBFunc = func(ctx context.Context, conf *core.Config) error { return nil }
	openDBFunc = func(ctx context.Context, conf *core.Config) (*sqlx.DB, error) { return nil, nil }
	gooseRunFunc = func(command string, db *sqlx.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "archive_projects", "sql"}},
	}
	runCLITests(t, cli, tests, nil)
}

func Test_commandLine_session(t *testing.T) {
	cli, svcs, out := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login: no args", args: []string{"login"}, wantErr: errHelp},
		{name: "login: help", args: []string{"login", "-h"}, wantErr: errHelp},
		{name: "login: short password", args: []string{"login", "-role", "student", "-username", "Alice"}, extra: extra{pwd: "abc"}, wantErrStr: "please enter valid credentials"},
		{name: "login: unknown role", args: []string{"login", "-role", "admin", "-username", "Alice"}, extra: extra{pwd: "secret"}, wantErrStr: "please enter valid credentials"},
		{name: "login", args: []string{"login", "-role", "student", "-username", "Alice"}, extra: extra{pwd: "secret"}},
	}
	runCLITests(t, cli, tests, func(tt cliTest) {
		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}
	})

	sess, err := svcs.SessionSvc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.Alice, sess)

	out.Reset()
	require.NoError(t, cli.run([]string{"classtrack", "whoami"}))
	assert.Equal(t, "Alice (student)\n", out.String())

	require.NoError(t, cli.run([]string{"classtrack", "logout"}))
	_, err = svcs.SessionSvc.Current(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)

	out.Reset()
	require.NoError(t, cli.run([]string{"classtrack", "whoami"}))
	assert.Equal(t, "Not logged in\n", out.String())
}

func Test_commandLine_projects(t *testing.T) {
	cli, svcs, out := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, cli.run([]string{"classtrack", "projects"}), session.ErrNoSession)

	login(t, cli, testutil.Alice)
	err := cli.run([]string{"classtrack", "project-create", "-title", "Library System"})
	assert.True(t, core.IsPermissionDenied(err))

	login(t, cli, testutil.Teacher)
	err = cli.run([]string{"classtrack", "project-create", "-title", "Library System"})
	assert.True(t, core.IsValidationError(err))
	assert.Equal(t, "please fill all fields", err.Error())

	require.NoError(t, cli.run([]string{
		"classtrack", "project-create",
		"-title", "Library System",
		"-subject", "Database Management Systems",
		"-deadline", "2025-06-01",
		"-group", "g1",
	}))
	projects, err := svcs.ProjectSvc.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	prj := projects[0]
	assert.Equal(t, "Team A", prj.GroupName)
	id := strconv.FormatInt(prj.ID, 10)

	require.NoError(t, cli.run([]string{
		"classtrack", "project-update", "-id", id,
		"-title", "Library System v2",
		"-subject", "Database Management Systems",
		"-deadline", "2025-07-01",
		"-group", "g1",
	}))
	prj, err = svcs.ProjectSvc.Get(ctx, prj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Library System v2", prj.Title)

	assert.ErrorIs(t, cli.run([]string{"classtrack", "project-update", "-id", "42", "-title", "X",
		"-subject", "Database Management Systems", "-deadline", "2025-07-01", "-group", "g1"}), project.ErrNotFound)

	// student submission + listing
	login(t, cli, testutil.Alice)
	require.NoError(t, cli.run([]string{"classtrack", "submit", "-id", id, "-file", writeFile(t, "report.txt", "final report")}))
	prj, err = svcs.ProjectSvc.Get(ctx, prj.ID)
	require.NoError(t, err)
	require.Len(t, prj.Submissions, 1)
	assert.Equal(t, "Alice", prj.Submissions[0].StudentID)
	assert.Equal(t, "report.txt", prj.Submissions[0].FileName)

	err = cli.run([]string{"classtrack", "submit", "-id", id, "-file", filepath.Join(t.TempDir(), "missing.txt")})
	assert.True(t, core.IsIOError(err))

	// projects of other groups are listed and counted too
	_, err = svcs.ProjectSvc.Create(ctx, project.NewProject{
		Title:    "Routing Lab",
		Subject:  "Computer Networks",
		Deadline: "2025-06-15",
		GroupID:  "g2",
	})
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, cli.run([]string{"classtrack", "projects"}))
	assert.Contains(t, out.String(), "Projects: 2, submitted: 1")
	assert.Contains(t, out.String(), "Library System v2")
	assert.Contains(t, out.String(), "Routing Lab")

	login(t, cli, testutil.Teacher)
	readConfirmFunc = func() bool { return false }
	assert.ErrorIs(t, cli.run([]string{"classtrack", "project-delete", "-id", id}), core.ErrAborted)
	_, err = svcs.ProjectSvc.Get(ctx, prj.ID)
	assert.NoError(t, err)

	readConfirmFunc = func() bool { return true }
	require.NoError(t, cli.run([]string{"classtrack", "project-delete", "-id", id}))
	_, err = svcs.ProjectSvc.Get(ctx, prj.ID)
	assert.ErrorIs(t, err, project.ErrNotFound)
}

func Test_commandLine_tasks(t *testing.T) {
	cli, svcs, _ := setup(t)
	ctx := context.Background()
	prj := testutil.CreateProject(t, svcs.ProjectSvc)
	pid := strconv.FormatInt(prj.ID, 10)

	login(t, cli, testutil.Teacher)
	assert.ErrorIs(t, cli.run([]string{"classtrack", "task-create", "-title", "ER Diagram"}), errHelp)
	err := cli.run([]string{"classtrack", "task-create", "-project", pid, "-title", "ER Diagram"})
	assert.EqualError(t, err, "please enter task title and select assignee")

	require.NoError(t, cli.run([]string{"classtrack", "task-create", "-project", pid, "-title", "ER Diagram", "-assignee", "Alice"}))
	prj, err = svcs.ProjectSvc.Get(ctx, prj.ID)
	require.NoError(t, err)
	require.Len(t, prj.Tasks, 1)
	taskID := prj.Tasks[0].ID
	assert.Equal(t, project.StatusPending, prj.Tasks[0].Status)

	require.NoError(t, cli.run([]string{"classtrack", "task-update", "-project", pid, "-task", taskID, "-title", "ER Model", "-assignee", "Alice"}))

	// Bob may not submit Alice's task
	login(t, cli, testutil.Bob)
	err = cli.run([]string{"classtrack", "task-submit", "-project", pid, "-task", taskID, "-file", writeFile(t, "er.txt", "entities")})
	assert.True(t, core.IsPermissionDenied(err))
	assert.True(t, core.IsPermissionDenied(cli.run([]string{"classtrack", "task-delete", "-project", pid, "-task", taskID})))

	login(t, cli, testutil.Alice)
	require.NoError(t, cli.run([]string{"classtrack", "task-submit", "-project", pid, "-task", taskID, "-file", writeFile(t, "er.txt", "entities")}))
	prj, err = svcs.ProjectSvc.Get(ctx, prj.ID)
	require.NoError(t, err)
	task := prj.Tasks[0]
	assert.Equal(t, "ER Model", task.Title)
	assert.Equal(t, project.StatusSubmitted, task.Status)
	assert.Equal(t, "Alice", task.SubmittedBy.String)
	assert.Equal(t, "er.txt", task.FileName.String)

	login(t, cli, testutil.Teacher)
	readConfirmFunc = func() bool { return true }
	require.NoError(t, cli.run([]string{"classtrack", "task-delete", "-project", pid, "-task", taskID}))
	prj, err = svcs.ProjectSvc.Get(ctx, prj.ID)
	require.NoError(t, err)
	assert.Empty(t, prj.Tasks)
}
