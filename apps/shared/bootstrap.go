// Package shared wires the services used by every entrypoint.
package shared

import (
	"context"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core"
	"github.com/trezcool/classtrack/core/project"
	"github.com/trezcool/classtrack/core/session"
	appfs "github.com/trezcool/classtrack/fs"
	emailsvc "github.com/trezcool/classtrack/services/email"
	"github.com/trezcool/classtrack/storage"
	kvstore "github.com/trezcool/classtrack/storage/kv"
)

type Deps struct {
	Conf       *core.Config
	Store      kvstore.Store
	Validate   *validator.Validate
	Translator ut.Translator
	Directory  project.Directory
	MailSvc    core.EmailService
	SessionSvc *session.Service
	ProjectSvc *project.Service
}

func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// LoadDirectory reads the catalog at conf.CatalogPath, or the embedded default.
func LoadDirectory(conf *core.Config) (*project.StaticDirectory, error) {
	if conf.CatalogPath != "" {
		f, err := os.Open(conf.CatalogPath)
		if err != nil {
			return nil, errors.Wrap(err, "opening catalog")
		}
		defer f.Close()
		return project.LoadDirectory(f)
	}

	f, err := appfs.FS.Open(appfs.CatalogFile)
	if err != nil {
		return nil, errors.Wrap(err, "opening embedded catalog")
	}
	defer f.Close()
	return project.LoadDirectory(f)
}

// NewMailService prints mails in debug mode and sends them through SendGrid otherwise.
func NewMailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// Setup opens the configured store and builds the services on top of it.
// The caller owns Deps.Store and must close it.
func Setup(ctx context.Context, conf *core.Config, logger core.Logger) (*Deps, error) {
	dir, err := LoadDirectory(conf)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	translator := NewTranslator()
	core.InitValidators(validate, translator)
	session.InitValidators(validate, translator)
	project.InitValidators(validate, translator, dir)

	store, err := storage.Open(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening storage")
	}

	mailSvc := NewMailService(conf, logger)
	return &Deps{
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
	}, nil
}
