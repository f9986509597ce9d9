package session

import (
	"context"
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core"
)

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var (
	ErrNoSession = errors.New("no active session")

	errInvalidLogin = errors.New("please enter valid credentials")

	// custom validation tags & texts
	usernameTag   = "username"
	usernameText  = "please enter a valid email address"
	emailishRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type (
	// Session is the acting identity passed to every operation.
	Session struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}

	Credentials struct {
		Role     string `json:"role" validate:"required,oneof=teacher student"`
		Username string `json:"username" validate:"notblank,username"`
		Password string `json:"password" validate:"required,min=5"`
	}

	// Store persists the current session between runs.
	Store interface {
		LoadSession(ctx context.Context) (Session, error)
		SaveSession(ctx context.Context, s Session) error
		ClearSession(ctx context.Context) error
	}

	Service struct {
		store      Store
		validate   *validator.Validate
		translator ut.Translator
	}
)

func (s Session) IsTeacher() bool { return s.Role == RoleTeacher }
func (s Session) IsStudent() bool { return s.Role == RoleStudent }
func (s Session) IsZero() bool    { return s.Username == "" }

func NewService(store Store, validate *validator.Validate, translator ut.Translator) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(store, "store"),
		vala.IsNotNil(validate, "validate"),
		vala.IsNotNil(translator, "translator"),
	).CheckAndPanic()

	return &Service{store: store, validate: validate, translator: translator}
}

// Authenticate validates the credentials and returns the session they open.
// There is no account database: any well-formed credentials are accepted.
func (svc *Service) Authenticate(creds Credentials) (Session, error) {
	creds.Role = core.CleanString(creds.Role, true)
	creds.Username = core.CleanString(creds.Username)
	if err := core.ValidateStruct(svc.validate, svc.translator, creds, errInvalidLogin.Error()); err != nil {
		return Session{}, err
	}
	return Session{Username: creds.Username, Role: creds.Role}, nil
}

// Login authenticates and persists the session.
func (svc *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	sess, err := svc.Authenticate(creds)
	if err != nil {
		return Session{}, err
	}
	if err = svc.store.SaveSession(ctx, sess); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return sess, nil
}

func (svc *Service) Logout(ctx context.Context) error {
	return errors.Wrap(svc.store.ClearSession(ctx), "clearing session")
}

// Current returns the persisted session or ErrNoSession.
func (svc *Service) Current(ctx context.Context) (Session, error) {
	return svc.store.LoadSession(ctx)
}

// InitValidators registers the session validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(usernameTag, usernameValidation)
	core.RegisterCustomTranslation(validate, translator, usernameTag, usernameText)
}

// usernameValidation accepts plain usernames; anything containing "@" must look like an email.
func usernameValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, r := range s {
		if r == '@' {
			return emailishRegex.MatchString(s)
		}
	}
	return true
}
