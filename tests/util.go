package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classtrack/apps/shared"
	"github.com/trezcool/classtrack/core"
	"github.com/trezcool/classtrack/core/payload"
	"github.com/trezcool/classtrack/core/project"
	"github.com/trezcool/classtrack/core/session"
	appfs "github.com/trezcool/classtrack/fs"
	emailsvc "github.com/trezcool/classtrack/services/email"
	kvstore "github.com/trezcool/classtrack/storage/kv"
)

var (
	Teacher = session.Session{Username: "teacher@school.test", Role: session.RoleTeacher}
	Alice   = session.Session{Username: "Alice", Role: session.RoleStudent}
	Bob     = session.Session{Username: "Bob", Role: session.RoleStudent}
)

type Services struct {
	Conf       *core.Config
	Store      kvstore.Store
	Validate   *validator.Validate
	Translator ut.Translator
	Directory  *project.StaticDirectory
	MailSvc    core.EmailService
	SessionSvc *session.Service
	ProjectSvc *project.Service
}

func Config() *core.Config {
	return &core.Config{
		AppName:            "ClassTrack",
		Env:                "TEST",
		TestMode:           true,
		SecretKey:          "test-secret",
		JWTExpirationDelta: time.Hour,
		MaxUploadSize:      1 << 20,
		DefaultFromEmail:   "noreply@school.test",
		NotifyEmail:        "teacher@school.test",
		Storage:            core.StorageConfig{Engine: "memory"},
	}
}

// Directory loads the embedded default catalog.
func Directory(t *testing.T) *project.StaticDirectory {
	t.Helper()
	f, err := appfs.FS.Open(appfs.CatalogFile)
	if err != nil {
		t.Fatalf("Directory(): %v", err)
	}
	defer f.Close()
	dir, err := project.LoadDirectory(f)
	if err != nil {
		t.Fatalf("Directory(): %v", err)
	}
	return dir
}

// NewServices wires every service on an in-memory store.
func NewServices(t *testing.T) *Services {
	t.Helper()
	conf := Config()
	store := kvstore.NewMemoryStore()
	translator := shared.NewTranslator()
	validate := validator.New()
	dir := Directory(t)

	core.InitValidators(validate, translator)
	session.InitValidators(validate, translator)
	project.InitValidators(validate, translator, dir)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	return &Services{
		Conf:       conf,
		Store:      store,
		Validate:   validate,
		Translator: translator,
		Directory:  dir,
		MailSvc:    mailSvc,
		SessionSvc: session.NewService(kvstore.NewSessionStore(store), validate, translator),
		ProjectSvc: project.NewService(project.ServiceDeps{
			Repo:       kvstore.NewProjectRepository(store),
			Directory:  dir,
			Validate:   validate,
			Translator: translator,
			MailSvc:    mailSvc,
			Conf:       conf,
		}),
	}
}

// CreateProject creates the "Library System" project for group g1 (Alice & Bob).
func CreateProject(t *testing.T, svc *project.Service, title ...string) project.Project {
	t.Helper()
	np := project.NewProject{
		Title:    "Library System",
		Subject:  "Database Management Systems",
		Deadline: "2025-06-01",
		GroupID:  "g1",
	}
	if len(title) > 0 {
		np.Title = title[0]
	}
	prj, err := svc.Create(context.Background(), np)
	if err != nil {
		t.Fatalf("CreateProject(): %v", err)
	}
	return prj
}

func CreateTask(t *testing.T, svc *project.Service, projectID int64, title, assignee string) project.Task {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), projectID, Teacher, project.NewTask{Title: title, AssignedTo: assignee})
	if err != nil {
		t.Fatalf("CreateTask(): %v", err)
	}
	return task
}

func TextFile(name, content string) *payload.File {
	return &payload.File{Name: name, Type: "text/plain", Content: strings.NewReader(content)}
}
